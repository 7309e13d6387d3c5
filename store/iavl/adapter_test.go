package iavl

import (
	"bytes"
	"testing"
)

func TestCommitStoreWriteCommit(t *testing.T) {
	s := MockCommitStore()
	if err := s.LoadLatestVersion(); err != nil {
		t.Fatalf("cannot load: %+v", err)
	}

	k, v := []byte("lucky"), []byte("star")

	cache := s.CacheWrap()
	if err := cache.Set(k, v); err != nil {
		t.Fatalf("cannot set: %+v", err)
	}
	if err := cache.Write(); err != nil {
		t.Fatalf("cannot write: %+v", err)
	}

	// not visible before the commit
	if got, _ := s.Get(k); got != nil {
		t.Fatalf("uncommitted value visible: %q", got)
	}

	id, err := s.Commit()
	if err != nil {
		t.Fatalf("cannot commit: %+v", err)
	}
	if id.Version != 1 {
		t.Fatalf("want version 1, got %d", id.Version)
	}
	if len(id.Hash) == 0 {
		t.Fatal("commit hash must not be empty")
	}

	got, err := s.Get(k)
	if err != nil {
		t.Fatalf("cannot get: %+v", err)
	}
	if !bytes.Equal(got, v) {
		t.Fatalf("unexpected value after commit: %q", got)
	}

	latest, err := s.LatestVersion()
	if err != nil {
		t.Fatalf("cannot read latest version: %+v", err)
	}
	if latest.Version != id.Version || !bytes.Equal(latest.Hash, id.Hash) {
		t.Fatalf("latest version mismatch: %v != %v", latest, id)
	}
}

func TestCommitStoreDiscard(t *testing.T) {
	s := MockCommitStore()
	if err := s.LoadLatestVersion(); err != nil {
		t.Fatalf("cannot load: %+v", err)
	}

	cache := s.CacheWrap()
	if err := cache.Set([]byte("a"), []byte("1")); err != nil {
		t.Fatalf("cannot set: %+v", err)
	}
	cache.Discard()

	if _, err := s.Commit(); err != nil {
		t.Fatalf("cannot commit: %+v", err)
	}
	if got, _ := s.Get([]byte("a")); got != nil {
		t.Fatalf("discarded value committed: %q", got)
	}
}

func TestCommitStoreNestedCache(t *testing.T) {
	s := MockCommitStore()
	if err := s.LoadLatestVersion(); err != nil {
		t.Fatalf("cannot load: %+v", err)
	}

	outer := s.CacheWrap()
	if err := outer.Set([]byte("a"), []byte("1")); err != nil {
		t.Fatalf("cannot set: %+v", err)
	}

	inner := outer.CacheWrap()
	if err := inner.Set([]byte("b"), []byte("2")); err != nil {
		t.Fatalf("cannot set: %+v", err)
	}
	if err := inner.Write(); err != nil {
		t.Fatalf("cannot write inner: %+v", err)
	}
	if err := outer.Write(); err != nil {
		t.Fatalf("cannot write outer: %+v", err)
	}
	if _, err := s.Commit(); err != nil {
		t.Fatalf("cannot commit: %+v", err)
	}

	for _, k := range []string{"a", "b"} {
		if got, _ := s.Get([]byte(k)); got == nil {
			t.Errorf("key %q lost", k)
		}
	}
}
