package app

import (
	"github.com/mosaic-ledger/mosaic"
)

// ChainInitializers lets you initialize many extensions with one function
func ChainInitializers(inits ...mosaic.Initializer) mosaic.Initializer {
	return chainInitializer{inits}
}

type chainInitializer struct {
	inits []mosaic.Initializer
}

// FromGenesis will pass opts to all Initializers in the list,
// aborting at the first error.
func (c chainInitializer) FromGenesis(opts mosaic.Options, kv mosaic.KVStore) error {
	for _, i := range c.inits {
		if i == nil {
			continue
		}
		if err := i.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}
