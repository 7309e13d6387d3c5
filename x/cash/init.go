package cash

import (
	"github.com/mosaic-ledger/mosaic"
	"github.com/mosaic-ledger/mosaic/coin"
)

const optKey = "cash"

// GenesisAccount is used to parse the json from genesis file
// use mosaic.Address, so address in hex, not base64
type GenesisAccount struct {
	Address mosaic.Address `json:"address"`
	Coins   []*coin.Coin   `json:"coins"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ mosaic.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis
// and save it to the database
func (Initializer) FromGenesis(opts mosaic.Options, kv mosaic.KVStore) error {
	accts := []GenesisAccount{}
	err := opts.ReadOptions(optKey, &accts)
	if err != nil {
		return err
	}
	bucket := NewBucket()
	for _, acct := range accts {
		if err := acct.Address.Validate(); err != nil {
			return err
		}
		wallet, err := WalletWith(acct.Address, acct.Coins...)
		if err != nil {
			return err
		}
		err = bucket.Save(kv, wallet)
		if err != nil {
			return err
		}
	}
	return nil
}
