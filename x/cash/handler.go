package cash

import (
	"github.com/mosaic-ledger/mosaic"
	"github.com/mosaic-ledger/mosaic/errors"
	"github.com/mosaic-ledger/mosaic/x"
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r mosaic.Registry, auth x.Authenticator, control Controller) {
	r.Handle(SendMsg{}.Path(), NewSendHandler(auth, control))
}

// RegisterQuery will register this bucket as "/wallets"
func RegisterQuery(qr mosaic.QueryRouter) {
	NewBucket().Register("wallets", qr)
}

// SendHandler will handle sending coins
type SendHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ mosaic.Handler = SendHandler{}

// NewSendHandler creates a handler for SendMsg
func NewSendHandler(auth x.Authenticator, control Controller) SendHandler {
	return SendHandler{
		auth:    auth,
		control: control,
	}
}

// Check just verifies it is properly formed and returns
// the cost of executing it
func (h SendHandler) Check(ctx mosaic.Context, store mosaic.KVStore, tx mosaic.Tx) (*mosaic.CheckResult, error) {
	var msg SendMsg
	if err := mosaic.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}

	// Make sure we have permission from the source
	if !h.auth.HasAddress(ctx, msg.Source) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "wallet owner signature missing")
	}

	res := mosaic.CheckResult{
		GasAllocated: sendTxCost,
	}
	return &res, nil
}

// Deliver moves the tokens from source to destination if
// all preconditions are met
func (h SendHandler) Deliver(ctx mosaic.Context, store mosaic.KVStore, tx mosaic.Tx) (*mosaic.DeliverResult, error) {
	var msg SendMsg
	if err := mosaic.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}

	// Make sure we have permission from the source
	if !h.auth.HasAddress(ctx, msg.Source) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "wallet owner signature missing")
	}

	if err := h.control.MoveCoins(store, msg.Source, msg.Destination, *msg.Amount); err != nil {
		return nil, err
	}
	return &mosaic.DeliverResult{}, nil
}
