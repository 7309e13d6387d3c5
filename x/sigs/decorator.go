package sigs

import (
	"github.com/mosaic-ledger/mosaic"
	"github.com/mosaic-ledger/mosaic/errors"
)

// SignedTx is implemented by transaction envelopes that carry the
// conditions which authorized them. Signature verification itself
// happens before the transaction enters the state machine, so the
// envelope content is authoritative here.
type SignedTx interface {
	mosaic.Tx

	// GetSigners returns every condition that authorized this
	// transaction.
	GetSigners() []mosaic.Condition
}

// Decorator adds the transaction signers to the context before
// calling down to the next handler.
type Decorator struct {
	allowMissingSigs bool
}

var _ mosaic.Decorator = Decorator{}

// NewDecorator returns a Decorator that rejects unsigned transactions.
func NewDecorator() Decorator {
	return Decorator{
		allowMissingSigs: false,
	}
}

// AllowMissingSigs returns a copy of the Decorator that passes
// unsigned transactions down the stack instead of rejecting them.
func (d Decorator) AllowMissingSigs() Decorator {
	d.allowMissingSigs = true
	return d
}

// Check verifies the signer set and passes the request on.
func (d Decorator) Check(ctx mosaic.Context, store mosaic.KVStore, tx mosaic.Tx, next mosaic.Checker) (*mosaic.CheckResult, error) {
	ctx, err := d.withTxSigners(ctx, tx)
	if err != nil {
		return nil, err
	}
	return next.Check(ctx, store, tx)
}

// Deliver verifies the signer set and passes the request on.
func (d Decorator) Deliver(ctx mosaic.Context, store mosaic.KVStore, tx mosaic.Tx, next mosaic.Deliverer) (*mosaic.DeliverResult, error) {
	ctx, err := d.withTxSigners(ctx, tx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(ctx, store, tx)
}

func (d Decorator) withTxSigners(ctx mosaic.Context, tx mosaic.Tx) (mosaic.Context, error) {
	signed, ok := tx.(SignedTx)
	if !ok {
		if d.allowMissingSigs {
			return ctx, nil
		}
		return ctx, errors.Wrap(errors.ErrType, "transaction does not carry signers")
	}
	signers := signed.GetSigners()
	if len(signers) == 0 && !d.allowMissingSigs {
		return ctx, errors.Wrap(errors.ErrUnauthorized, "transaction has no signers")
	}
	for _, signer := range signers {
		if err := signer.Validate(); err != nil {
			return ctx, errors.Wrap(err, "signer condition")
		}
	}
	return withSigners(ctx, signers), nil
}
