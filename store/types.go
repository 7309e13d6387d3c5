package store

import (
	"github.com/mosaic-ledger/mosaic"
)

// Expose the store interfaces here as well, so the implementations do not
// have to reach into the root package for every name.
type (
	ReadOnlyKVStore  = mosaic.ReadOnlyKVStore
	KVStore          = mosaic.KVStore
	SetDeleter       = mosaic.SetDeleter
	Batch            = mosaic.Batch
	CacheableKVStore = mosaic.CacheableKVStore
	KVCacheWrap      = mosaic.KVCacheWrap
	CommitKVStore    = mosaic.CommitKVStore
	CommitID         = mosaic.CommitID
	Model            = mosaic.Model
)

// Pair is a helper to construct a model.
func Pair(key, value []byte) Model {
	return mosaic.Pair(key, value)
}
