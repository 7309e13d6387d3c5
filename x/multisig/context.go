package multisig

import (
	"context"

	"github.com/mosaic-ledger/mosaic"
	"github.com/mosaic-ledger/mosaic/x"
)

type contextKey int

const (
	contextKeyRegistry contextKey = iota
)

// RegistryCondition is the authorization credential a registry
// attaches to its forwarded invocations. Handlers downstream of an
// Execute see it as a fulfilled condition, so the registry's derived
// address can own wallets and other records.
func RegistryCondition(registry mosaic.Address) mosaic.Condition {
	return mosaic.NewCondition("multisig", "root", registry)
}

// withRegistry is private, only Execute may grant this credential.
func withRegistry(ctx mosaic.Context, registry mosaic.Address) mosaic.Context {
	return context.WithValue(ctx, contextKeyRegistry, RegistryCondition(registry))
}

// Authenticate implements x.Authenticator on the registry credential.
// Wire it into the application's authenticator chain so forwarded
// invocations can act with the registry's authority.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns the registry condition when running inside a
// forwarded invocation.
func (a Authenticate) GetConditions(ctx mosaic.Context) []mosaic.Condition {
	val, ok := ctx.Value(contextKeyRegistry).(mosaic.Condition)
	if !ok {
		return nil
	}
	return []mosaic.Condition{val}
}

// HasAddress returns true when the address belongs to the registry
// condition of the running forwarded invocation.
func (a Authenticate) HasAddress(ctx mosaic.Context, addr mosaic.Address) bool {
	for _, cond := range a.GetConditions(ctx) {
		if addr.Equals(cond.Address()) {
			return true
		}
	}
	return false
}
