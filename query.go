package mosaic

import "fmt"

// KeyQueryMod means to query for exact match (key).
// It is the only supported query modifier.
const KeyQueryMod = ""

// Model groups together key and value to return
type Model struct {
	Key   []byte
	Value []byte
}

// Pair constructs a model from a key-value pair
func Pair(key, value []byte) Model {
	return Model{
		Key:   key,
		Value: value,
	}
}

// QueryHandler is anything that can process ABCI queries
type QueryHandler interface {
	Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error)
}

// QueryRouter allows us to register many query handlers
// to be responsible for different paths
type QueryRouter struct {
	routes map[string]QueryHandler
}

// NewQueryRouter initializes a QueryRouter with no routes
func NewQueryRouter() QueryRouter {
	return QueryRouter{
		routes: make(map[string]QueryHandler, 10),
	}
}

// RegisterAll registers a number of QueryRegisters at once
func (r QueryRouter) RegisterAll(qr ...func(QueryRouter)) {
	for _, q := range qr {
		q(r)
	}
}

// Register adds a new Handler for the given path. Panics on duplicate
// registration, as duplicates are a configuration error of the application.
func (r QueryRouter) Register(path string, h QueryHandler) {
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %s", path))
	}
	r.routes[path] = h
}

// Handler returns the registered Handler or nil.
func (r QueryRouter) Handler(path string) QueryHandler {
	return r.routes[path]
}
