package multisig

import (
	"github.com/mosaic-ledger/mosaic"
	"github.com/mosaic-ledger/mosaic/errors"
)

// Invocation is one forwarded call: the payload stored in the session
// and the account roles resolved against what the caller supplied.
type Invocation struct {
	Target   mosaic.Address
	Payload  []byte
	Accounts []SessionAccount
}

// Invoker performs the forwarded invocation of an approved session.
// The context already carries the registry condition, so the invoked
// code runs with the registry's authority. A failure must leave no
// writes behind, which the surrounding savepoint guarantees.
type Invoker interface {
	Invoke(ctx mosaic.Context, db mosaic.KVStore, inv Invocation) error
}

// TxInvoker treats the session payload as a serialized transaction and
// delivers it through the application's own handler stack. This is the
// production wiring: the delegated target module executes the payload
// with the registry condition fulfilled.
type TxInvoker struct {
	decoder mosaic.TxDecoder
	handler mosaic.Deliverer
}

var _ Invoker = TxInvoker{}

// NewTxInvoker creates an Invoker delivering payloads as transactions.
func NewTxInvoker(decoder mosaic.TxDecoder, handler mosaic.Deliverer) TxInvoker {
	return TxInvoker{
		decoder: decoder,
		handler: handler,
	}
}

// Invoke decodes the payload and delivers it.
func (i TxInvoker) Invoke(ctx mosaic.Context, db mosaic.KVStore, inv Invocation) error {
	tx, err := i.decoder(inv.Payload)
	if err != nil {
		return errors.Wrap(err, "payload")
	}
	_, err = i.handler.Deliver(ctx, db, tx)
	return err
}
