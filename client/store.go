package client

import (
	abci "github.com/tendermint/tendermint/abci/types"

	"github.com/mosaic-ledger/mosaic"
	"github.com/mosaic-ledger/mosaic/app"
	"github.com/mosaic-ledger/mosaic/errors"
)

// Query is the part of the abci query interface the store wrapper
// needs: resolve one raw key to one raw value.
type Query interface {
	Get(key []byte) ([]byte, error)
}

// ABCIStore exposes the abci query interface as a ReadOnlyKVStore,
// so the same buckets that run inside the node can read over it.
type ABCIStore struct {
	query Query
}

var _ mosaic.ReadOnlyKVStore = (*ABCIStore)(nil)

func NewABCIStore(query Query) *ABCIStore {
	return &ABCIStore{query: query}
}

// Get will query for exactly one value over the abci store.
// This can be wrapped with a bucket to reuse key/parse logic
func (a *ABCIStore) Get(key []byte) ([]byte, error) {
	return a.query.Get(key)
}

// Has returns true if the given key is in the abci app store
func (a *ABCIStore) Has(key []byte) (bool, error) {
	value, err := a.Get(key)
	if err != nil {
		return false, err
	}
	return len(value) > 0, nil
}

// AppQuery resolves keys directly against an abci application,
// useful for tests that run the application in process.
type AppQuery struct {
	app abci.Application
}

func NewAppQuery(app abci.Application) AppQuery {
	return AppQuery{app: app}
}

func (q AppQuery) Get(key []byte) ([]byte, error) {
	res := q.app.Query(abci.RequestQuery{
		Path: "/",
		Data: key,
	})
	if res.Code != 0 {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	return firstResult(res.Value)
}

// RPCQuery resolves keys against a remote node over rpc.
type RPCQuery struct {
	client *Client
}

func NewRPCQuery(client *Client) RPCQuery {
	return RPCQuery{client: client}
}

func (q RPCQuery) Get(key []byte) ([]byte, error) {
	res := q.client.Query(RequestQuery{
		Path: "/",
		Data: key,
	})
	if res.Code != 0 {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	return firstResult(res.Value)
}

// firstResult unpacks a serialized ResultSet and returns its only
// value, or nil when the key was not found.
func firstResult(raw []byte) ([]byte, error) {
	var values app.ResultSet
	if err := values.Unmarshal(raw); err != nil {
		return nil, errors.Wrap(err, "unmarshal result set")
	}
	if len(values.Results) == 0 {
		return nil, nil
	}
	return values.Results[0], nil
}
