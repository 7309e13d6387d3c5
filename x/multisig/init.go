package multisig

import (
	"github.com/mosaic-ledger/mosaic"
	"github.com/mosaic-ledger/mosaic/coin"
	"github.com/mosaic-ledger/mosaic/errors"
)

const optKey = "multisig"

// genesisConfig is the json shape of the "multisig" app state option.
type genesisConfig struct {
	CostPerByte coin.Coin `json:"cost_per_byte"`
}

// Initializer fulfils the Initializer interface to load the engine
// configuration from the genesis file.
type Initializer struct{}

var _ mosaic.Initializer = Initializer{}

// FromGenesis stores the storage pricing, if the option is present.
// Without it session storage stays free.
func (Initializer) FromGenesis(opts mosaic.Options, kv mosaic.KVStore) error {
	if len(opts[optKey]) == 0 {
		return nil
	}
	var conf genesisConfig
	if err := opts.ReadOptions(optKey, &conf); err != nil {
		return err
	}
	c := Config{CostPerByte: conf.CostPerByte}
	if err := NewConfigBucket().Save(kv, &c); err != nil {
		return errors.Wrap(err, "save config")
	}
	return nil
}
