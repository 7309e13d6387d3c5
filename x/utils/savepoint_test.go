package utils

import (
	"context"
	"testing"

	"github.com/mosaic-ledger/mosaic"
	"github.com/mosaic-ledger/mosaic/errors"
	"github.com/mosaic-ledger/mosaic/mosaictest"
	"github.com/mosaic-ledger/mosaic/store"
)

// writeHandler writes the given key/value pair on every call
// and returns the configured error.
type writeHandler struct {
	key   []byte
	value []byte
	err   error
}

var _ mosaic.Handler = writeHandler{}

func (h writeHandler) Check(ctx mosaic.Context, db mosaic.KVStore, tx mosaic.Tx) (*mosaic.CheckResult, error) {
	if err := db.Set(h.key, h.value); err != nil {
		return nil, err
	}
	return &mosaic.CheckResult{}, h.err
}

func (h writeHandler) Deliver(ctx mosaic.Context, db mosaic.KVStore, tx mosaic.Tx) (*mosaic.DeliverResult, error) {
	if err := db.Set(h.key, h.value); err != nil {
		return nil, err
	}
	return &mosaic.DeliverResult{}, h.err
}

func TestSavepoint(t *testing.T) {
	k, v := []byte("key"), []byte("value")

	cases := map[string]struct {
		save      Savepoint
		handler   mosaic.Handler
		deliver   bool
		wantErr   *errors.Error
		wantWrite bool
	}{
		"check rolls back on error": {
			save:      NewSavepoint().OnCheck(),
			handler:   writeHandler{key: k, value: v, err: errors.ErrUnauthorized},
			deliver:   false,
			wantErr:   errors.ErrUnauthorized,
			wantWrite: false,
		},
		"check keeps writes on success": {
			save:      NewSavepoint().OnCheck(),
			handler:   writeHandler{key: k, value: v},
			deliver:   false,
			wantWrite: true,
		},
		"deliver rolls back on error": {
			save:      NewSavepoint().OnDeliver(),
			handler:   writeHandler{key: k, value: v, err: errors.ErrUnauthorized},
			deliver:   true,
			wantErr:   errors.ErrUnauthorized,
			wantWrite: false,
		},
		"deliver keeps writes on success": {
			save:      NewSavepoint().OnDeliver(),
			handler:   writeHandler{key: k, value: v},
			deliver:   true,
			wantWrite: true,
		},
		"inactive savepoint is transparent": {
			save:      NewSavepoint(),
			handler:   writeHandler{key: k, value: v, err: errors.ErrUnauthorized},
			deliver:   true,
			wantErr:   errors.ErrUnauthorized,
			wantWrite: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			ctx := context.Background()
			tx := &mosaictest.Tx{}

			var err error
			if tc.deliver {
				_, err = tc.save.Deliver(ctx, db, tx, tc.handler)
			} else {
				_, err = tc.save.Check(ctx, db, tx, tc.handler)
			}

			if tc.wantErr != nil {
				if !tc.wantErr.Is(err) {
					t.Fatalf("want %q, got %+v", tc.wantErr, err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %+v", err)
			}

			has, _ := db.Has(k)
			if has != tc.wantWrite {
				t.Fatalf("want write %v, got %v", tc.wantWrite, has)
			}
		})
	}
}
