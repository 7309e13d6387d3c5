package sigs

import (
	"context"

	"github.com/mosaic-ledger/mosaic"
	"github.com/mosaic-ledger/mosaic/x"
)

type contextKey int

const (
	contextKeySigners contextKey = iota
)

// withSigners is a private method, as only this module
// can add a signer
func withSigners(ctx mosaic.Context, signers []mosaic.Condition) mosaic.Context {
	return context.WithValue(ctx, contextKeySigners, signers)
}

// Authenticate implements x.Authenticator and provides
// authentication based on the transaction signers.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns which conditions have signed the current
// transaction.
func (a Authenticate) GetConditions(ctx mosaic.Context) []mosaic.Condition {
	// (val, ok) form to return nil instead of panic if unset
	val, _ := ctx.Value(contextKeySigners).([]mosaic.Condition)
	return val
}

// HasAddress returns true if the given address
// had signed the current transaction.
func (a Authenticate) HasAddress(ctx mosaic.Context, addr mosaic.Address) bool {
	for _, signer := range a.GetConditions(ctx) {
		if addr.Equals(signer.Address()) {
			return true
		}
	}
	return false
}
