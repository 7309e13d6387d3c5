package app

import (
	"context"
	"testing"

	"github.com/mosaic-ledger/mosaic/errors"
	"github.com/mosaic-ledger/mosaic/mosaictest"
	"github.com/mosaic-ledger/mosaic/mosaictest/assert"
)

func TestChain(t *testing.T) {
	h := &mosaictest.Handler{}
	d1 := &mosaictest.Decorator{}
	d2 := &mosaictest.Decorator{}
	d3 := &mosaictest.Decorator{}

	stack := ChainDecorators(d1, nil, d2).
		Chain(d3, nil).
		WithHandler(h)

	tx := &mosaictest.Tx{Msg: &mosaictest.Msg{RoutePath: "ok/go"}}
	if _, err := stack.Check(context.Background(), nil, tx); err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
	assert.Equal(t, 1, h.CheckCallCount())
	assert.Equal(t, 1, d1.CheckCallCount())
	assert.Equal(t, 1, d2.CheckCallCount())
	assert.Equal(t, 1, d3.CheckCallCount())

	if _, err := stack.Deliver(context.Background(), nil, tx); err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
	assert.Equal(t, 1, h.DeliverCallCount())
	assert.Equal(t, 1, d1.DeliverCallCount())
}

func TestChainAbort(t *testing.T) {
	h := &mosaictest.Handler{}
	reject := &mosaictest.Decorator{
		CheckErr:   errors.ErrUnauthorized,
		DeliverErr: errors.ErrUnauthorized,
	}
	after := &mosaictest.Decorator{}

	stack := ChainDecorators(reject, after).WithHandler(h)

	tx := &mosaictest.Tx{Msg: &mosaictest.Msg{RoutePath: "ok/go"}}
	if _, err := stack.Check(context.Background(), nil, tx); !errors.ErrUnauthorized.Is(err) {
		t.Fatalf("want unauthorized, got %+v", err)
	}
	if _, err := stack.Deliver(context.Background(), nil, tx); !errors.ErrUnauthorized.Is(err) {
		t.Fatalf("want unauthorized, got %+v", err)
	}

	// nothing below the rejecting decorator may be called
	assert.Equal(t, 0, after.CallCount())
	assert.Equal(t, 0, h.CallCount())
}
