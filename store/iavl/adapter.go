package iavl

import (
	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tendermint/libs/db"

	"github.com/mosaic-ledger/mosaic/errors"
	"github.com/mosaic-ledger/mosaic/store"
)

// treeCacheSize is the size of the internal iavl node cache.
const treeCacheSize = 10000

// CommitStore manages a iavl committed state
type CommitStore struct {
	tree *iavl.MutableTree
}

var _ store.CommitKVStore = CommitStore{}

// NewCommitStore creates a new store with disk backing.
// The data is stored in a leveldb instance `name.db` inside of dir.
func NewCommitStore(dir, name string) CommitStore {
	db := dbm.NewDB(name, dbm.GoLevelDBBackend, dir)
	tree := iavl.NewMutableTree(db, treeCacheSize)
	return CommitStore{tree: tree}
}

// MockCommitStore returns a db backed by memory.
// Useful for testing.
func MockCommitStore() CommitStore {
	db := dbm.NewMemDB()
	tree := iavl.NewMutableTree(db, treeCacheSize)
	return CommitStore{tree: tree}
}

// Get returns the value at last committed state
// returns nil iff key doesn't exist. Panics on nil key.
func (s CommitStore) Get(key []byte) ([]byte, error) {
	version := s.tree.Version()
	_, val := s.tree.GetVersioned(key, version)
	return val, nil
}

// Has returns true if the key is present at the last committed state.
func (s CommitStore) Has(key []byte) (bool, error) {
	val, err := s.Get(key)
	return val != nil, err
}

// Commit the next version to disk, and returns info
func (s CommitStore) Commit() (store.CommitID, error) {
	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		return store.CommitID{}, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return store.CommitID{
		Version: version,
		Hash:    hash,
	}, nil
}

// LoadLatestVersion loads the latest persisted version.
// If there was a crash during the last commit, it is guaranteed
// to return a stable state, even if older.
func (s CommitStore) LoadLatestVersion() error {
	_, err := s.tree.Load()
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// LatestVersion returns info on the latest version saved to disk
func (s CommitStore) LatestVersion() (store.CommitID, error) {
	return store.CommitID{
		Version: s.tree.Version(),
		Hash:    s.tree.Hash(),
	}, nil
}

// CacheWrap gives us a savepoint to perform actions.
// All writes to the wrap stay in the working tree until Commit.
func (s CommitStore) CacheWrap() store.KVCacheWrap {
	w := treeWriter{tree: s.tree}
	return store.NewBTreeCacheWrap(w, store.NewNonAtomicBatch(w), nil)
}

// treeWriter exposes the working (uncommitted) iavl tree through the
// KVStore interface, so that a btree cache can be layered on top of it.
type treeWriter struct {
	tree *iavl.MutableTree
}

var _ store.KVStore = treeWriter{}

// Get returns nil iff key doesn't exist. Panics on nil key.
func (t treeWriter) Get(key []byte) ([]byte, error) {
	_, val := t.tree.Get(key)
	return val, nil
}

// Has checks if a key exists. Panics on nil key.
func (t treeWriter) Has(key []byte) (bool, error) {
	return t.tree.Has(key), nil
}

// Set adds a new value to the working tree
func (t treeWriter) Set(key, value []byte) error {
	t.tree.Set(key, value)
	return nil
}

// Delete removes from the working tree
func (t treeWriter) Delete(key []byte) error {
	t.tree.Remove(key)
	return nil
}
