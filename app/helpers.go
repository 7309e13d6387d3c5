package app

import (
	abci "github.com/tendermint/tendermint/abci/types"

	"github.com/mosaic-ledger/mosaic"
	"github.com/mosaic-ledger/mosaic/errors"
)

// ABCIStore exposes the abci.Query interface as a ReadOnlyKVStore.
// Handy to reuse bucket parse logic against a running application
// in tests and clients.
type ABCIStore struct {
	app abci.Application
}

var _ mosaic.ReadOnlyKVStore = (*ABCIStore)(nil)

func NewABCIStore(app abci.Application) *ABCIStore {
	return &ABCIStore{app: app}
}

// Get will query for exactly one value over the abci store.
// This can be wrapped with a bucket to reuse key/parse logic
func (a *ABCIStore) Get(key []byte) ([]byte, error) {
	query := a.app.Query(abci.RequestQuery{
		Path: "/",
		Data: key,
	})
	if query.Code != 0 {
		return nil, errors.Wrap(errors.ErrDatabase, query.Log)
	}
	var value ResultSet
	if err := value.Unmarshal(query.Value); err != nil {
		return nil, errors.Wrap(err, "unmarshal result set")
	}
	if len(value.Results) == 0 {
		return nil, nil
	}
	return value.Results[0], nil
}

// Has returns true if the given key is in the abci app store
func (a *ABCIStore) Has(key []byte) (bool, error) {
	value, err := a.Get(key)
	return len(value) > 0, err
}
