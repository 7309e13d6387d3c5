package mosaictest

import "github.com/mosaic-ledger/mosaic"

type Handler struct {
	checkCall   int
	CheckResult mosaic.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult mosaic.DeliverResult
	DeliverErr    error
}

var _ mosaic.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx mosaic.Context, db mosaic.KVStore, tx mosaic.Tx) (*mosaic.CheckResult, error) {
	h.checkCall++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx mosaic.Context, db mosaic.KVStore, tx mosaic.Tx) (*mosaic.DeliverResult, error) {
	h.deliverCall++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}
