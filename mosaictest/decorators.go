package mosaictest

import "github.com/mosaic-ledger/mosaic"

// Decorator is a mock implementation of the mosaic.Decorator interface.
//
// Set CheckErr or DeliverErr to force error response for corresponding method.
// If error attributes are not set then wrapped handler method is called and
// its result returned.
// Each method call is counted. Regardless of the method call result the
// counter is incremented.
type Decorator struct {
	checkCall int
	// CheckErr if set is returned by the Check method before calling
	// the wrapped handler.
	CheckErr error

	deliverCall int
	// DeliverErr if set is returned by the Deliver method before calling
	// the wrapped handler.
	DeliverErr error
}

var _ mosaic.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx mosaic.Context, db mosaic.KVStore, tx mosaic.Tx, next mosaic.Checker) (*mosaic.CheckResult, error) {
	d.checkCall++

	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx mosaic.Context, db mosaic.KVStore, tx mosaic.Tx, next mosaic.Deliverer) (*mosaic.DeliverResult, error) {
	d.deliverCall++

	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

func (d *Decorator) CheckCallCount() int {
	return d.checkCall
}

func (d *Decorator) DeliverCallCount() int {
	return d.deliverCall
}

func (d *Decorator) CallCount() int {
	return d.checkCall + d.deliverCall
}

// Decorate wraps the handler with one decorator and returns it
// as a single handler.
func Decorate(h mosaic.Handler, d mosaic.Decorator) mosaic.Handler {
	return &decoratedHandler{hn: h, dc: d}
}

type decoratedHandler struct {
	hn mosaic.Handler
	dc mosaic.Decorator
}

var _ mosaic.Handler = (*decoratedHandler)(nil)

func (d *decoratedHandler) Check(ctx mosaic.Context, db mosaic.KVStore, tx mosaic.Tx) (*mosaic.CheckResult, error) {
	return d.dc.Check(ctx, db, tx, d.hn)
}

func (d *decoratedHandler) Deliver(ctx mosaic.Context, db mosaic.KVStore, tx mosaic.Tx) (*mosaic.DeliverResult, error) {
	return d.dc.Deliver(ctx, db, tx, d.hn)
}
