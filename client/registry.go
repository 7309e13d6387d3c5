package client

import (
	"context"

	"github.com/mosaic-ledger/mosaic"
	"github.com/mosaic-ledger/mosaic/coin"
	"github.com/mosaic-ledger/mosaic/x/cash"
	"github.com/mosaic-ledger/mosaic/x/multisig"
)

// GetRegistry loads the registry record stored under the given derived
// address, or nil when no registry lives there.
func (c *Client) GetRegistry(ctx context.Context, registry mosaic.Address) (*multisig.Root, error) {
	store := NewABCIStore(NewRPCQuery(c))
	return multisig.NewRootBucket().Get(store, registry)
}

// GetSession loads a signing session record, or nil when absent.
func (c *Client) GetSession(ctx context.Context, session mosaic.Address) (*multisig.SigningSession, error) {
	store := NewABCIStore(NewRPCQuery(c))
	return multisig.NewSessionBucket().Get(store, session)
}

// CurrentSession resolves the registry's newest session address and
// loads the record stored there. Both are nil when the registry has
// not issued a session yet.
func (c *Client) CurrentSession(ctx context.Context, registry mosaic.Address) (mosaic.Address, *multisig.SigningSession, error) {
	root, err := c.GetRegistry(ctx, registry)
	if err != nil || root == nil {
		return nil, nil, err
	}
	if root.LastID == 0 {
		return nil, nil, nil
	}
	addr, _, err := multisig.CondDerivator{}.Derive(multisig.SessionSeeds(registry, root.LastID)...)
	if err != nil {
		return nil, nil, err
	}
	session, err := c.GetSession(ctx, addr)
	return addr, session, err
}

// GetWalletCoins returns the balance stored under an address. A
// missing wallet reads as an empty balance.
func (c *Client) GetWalletCoins(ctx context.Context, addr mosaic.Address) (coin.Coins, error) {
	store := NewABCIStore(NewRPCQuery(c))
	wallet, err := cash.NewBucket().Get(store, addr)
	if err != nil || wallet == nil {
		return nil, err
	}
	return wallet.Value().(*cash.Set).Coins, nil
}
