package app

import (
	"fmt"
	"regexp"

	"github.com/mosaic-ledger/mosaic"
	"github.com/mosaic-ledger/mosaic/errors"
)

// isPath defines expression that paths must match to be registered.
// Paths are in the form of "extension/action".
var isPath = regexp.MustCompile(`^[a-z0-9_]{3,20}/[a-z0-9_]{3,20}$`).MatchString

// Router allows us to register many handlers with different
// paths and then direct each message to the registered handler.
type Router struct {
	routes map[string]mosaic.Handler
}

var _ mosaic.Registry = (*Router)(nil)
var _ mosaic.Handler = (*Router)(nil)

// NewRouter initializes a router with no routes
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]mosaic.Handler, 10),
	}
}

// Handle implements Registry interface. Path must be in the form of
// "extension/action". Handle panics on duplicate or invalid path.
func (r *Router) Handle(path string, h mosaic.Handler) {
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %q", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %q", path))
	}
	r.routes[path] = h
}

// handler returns the registered Handler for this path.
// If no path is found, returns a noSuchPathHandler.
func (r *Router) handler(m mosaic.Msg) mosaic.Handler {
	path := m.Path()
	if h, ok := r.routes[path]; ok {
		return h
	}
	return noSuchPathHandler{path}
}

// Check dispatches to the proper handler based on path
func (r *Router) Check(ctx mosaic.Context, store mosaic.KVStore, tx mosaic.Tx) (*mosaic.CheckResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	h := r.handler(msg)
	return h.Check(ctx, store, tx)
}

// Deliver dispatches to the proper handler based on path
func (r *Router) Deliver(ctx mosaic.Context, store mosaic.KVStore, tx mosaic.Tx) (*mosaic.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	h := r.handler(msg)
	return h.Deliver(ctx, store, tx)
}

// noSuchPathHandler always returns ErrNotFound, i.e. it cannot handle any
// message. It is a fallback for when no real handler is registered.
type noSuchPathHandler struct {
	path string
}

var _ mosaic.Handler = noSuchPathHandler{}

func (h noSuchPathHandler) Check(mosaic.Context, mosaic.KVStore, mosaic.Tx) (*mosaic.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", h.path)
}

func (h noSuchPathHandler) Deliver(mosaic.Context, mosaic.KVStore, mosaic.Tx) (*mosaic.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", h.path)
}
