package store

import (
	"bytes"
	"testing"
)

func mustGet(t *testing.T, db ReadOnlyKVStore, key []byte) []byte {
	t.Helper()
	v, err := db.Get(key)
	if err != nil {
		t.Fatalf("cannot get %q: %+v", key, err)
	}
	return v
}

func mustHas(t *testing.T, db ReadOnlyKVStore, key []byte) bool {
	t.Helper()
	ok, err := db.Has(key)
	if err != nil {
		t.Fatalf("cannot check %q: %+v", key, err)
	}
	return ok
}

func mustSet(t *testing.T, db KVStore, key, value []byte) {
	t.Helper()
	if err := db.Set(key, value); err != nil {
		t.Fatalf("cannot set %q: %+v", key, err)
	}
}

func mustDelete(t *testing.T, db KVStore, key []byte) {
	t.Helper()
	if err := db.Delete(key); err != nil {
		t.Fatalf("cannot delete %q: %+v", key, err)
	}
}

func TestBTreeCacheGetSet(t *testing.T) {
	base := MemStore()

	k, v := []byte("french"), []byte("fry")
	mustSet(t, base, k, v)

	if got := mustGet(t, base, k); !bytes.Equal(got, v) {
		t.Fatalf("unexpected value: %q", got)
	}
	if !mustHas(t, base, k) {
		t.Fatal("key must be present")
	}

	// now layer a cache on top
	cache := base.CacheWrap()
	if got := mustGet(t, cache, k); !bytes.Equal(got, v) {
		t.Fatalf("cache must read through: %q", got)
	}

	k2, v2 := []byte("LA"), []byte("Dodgers")
	mustSet(t, cache, k2, v2)
	if mustHas(t, base, k2) {
		t.Fatal("cached write must not touch the parent")
	}

	// deletes in the cache shadow the parent
	mustDelete(t, cache, k)
	if mustGet(t, cache, k) != nil {
		t.Fatal("key deleted in cache must not resolve")
	}
	if !mustHas(t, base, k) {
		t.Fatal("parent must keep the key until Write")
	}

	if err := cache.Write(); err != nil {
		t.Fatalf("cannot write cache: %+v", err)
	}
	if mustHas(t, base, k) {
		t.Fatal("delete must propagate on Write")
	}
	if got := mustGet(t, base, k2); !bytes.Equal(got, v2) {
		t.Fatalf("set must propagate on Write: %q", got)
	}
}

func TestBTreeCacheConflicts(t *testing.T) {
	k := []byte("fish")

	cases := map[string]struct {
		parentOps []Op
		childOps  []Op
		// state of k after child writes, before parent write back
		parentGet []byte
		childGet  []byte
		// state of k after write back
		finalGet []byte
	}{
		"child overwrites parent": {
			parentOps: []Op{SetOp(k, []byte("red"))},
			childOps:  []Op{SetOp(k, []byte("blue"))},
			parentGet: []byte("red"),
			childGet:  []byte("blue"),
			finalGet:  []byte("blue"),
		},
		"child deletes parent key": {
			parentOps: []Op{SetOp(k, []byte("red"))},
			childOps:  []Op{DelOp(k)},
			parentGet: []byte("red"),
			childGet:  nil,
			finalGet:  nil,
		},
		"child resurrects deleted key": {
			parentOps: []Op{SetOp(k, []byte("red")), DelOp(k)},
			childOps:  []Op{SetOp(k, []byte("green"))},
			parentGet: nil,
			childGet:  []byte("green"),
			finalGet:  []byte("green"),
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			parent := MemStore()
			for _, op := range tc.parentOps {
				if err := op.Apply(parent); err != nil {
					t.Fatalf("cannot apply parent op: %+v", err)
				}
			}
			child := parent.CacheWrap()
			for _, op := range tc.childOps {
				if err := op.Apply(child); err != nil {
					t.Fatalf("cannot apply child op: %+v", err)
				}
			}

			if got := mustGet(t, parent, k); !bytes.Equal(got, tc.parentGet) {
				t.Errorf("parent: want %q, got %q", tc.parentGet, got)
			}
			if got := mustGet(t, child, k); !bytes.Equal(got, tc.childGet) {
				t.Errorf("child: want %q, got %q", tc.childGet, got)
			}

			if err := child.Write(); err != nil {
				t.Fatalf("cannot write child: %+v", err)
			}
			if got := mustGet(t, parent, k); !bytes.Equal(got, tc.finalGet) {
				t.Errorf("final: want %q, got %q", tc.finalGet, got)
			}
		})
	}
}

func TestBTreeCacheDiscard(t *testing.T) {
	base := MemStore()
	mustSet(t, base, []byte("a"), []byte("1"))

	cache := base.CacheWrap()
	mustSet(t, cache, []byte("b"), []byte("2"))
	mustDelete(t, cache, []byte("a"))
	cache.Discard()

	if !mustHas(t, base, []byte("a")) {
		t.Fatal("discard must not delete parent data")
	}
	if mustHas(t, base, []byte("b")) {
		t.Fatal("discard must drop cached writes")
	}
}

func TestLogableStore(t *testing.T) {
	db, log := LogableStore()

	mustSet(t, db, []byte("a"), []byte("1"))
	mustSet(t, db, []byte("b"), []byte("2"))
	mustDelete(t, db, []byte("a"))

	ops := log.ShowOps()
	if len(ops) != 3 {
		t.Fatalf("want 3 ops, got %d", len(ops))
	}
	if !ops[0].IsSetOp() || !ops[1].IsSetOp() || ops[2].IsSetOp() {
		t.Fatalf("unexpected op kinds: %#v", ops)
	}
	if !bytes.Equal(ops[2].Key(), []byte("a")) {
		t.Fatalf("unexpected delete key: %q", ops[2].Key())
	}
}
