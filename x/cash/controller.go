package cash

import (
	"github.com/mosaic-ledger/mosaic"
	"github.com/mosaic-ledger/mosaic/coin"
	"github.com/mosaic-ledger/mosaic/errors"
)

// Controller is the functionality needed by other extensions to move
// funds between wallets.
type Controller interface {
	// MoveCoins removes funds from the source wallet and adds them to
	// the destination wallet
	MoveCoins(store mosaic.KVStore, src, dest mosaic.Address, amount coin.Coin) error

	// IssueCoins increases the balance of the destination wallet
	IssueCoins(store mosaic.KVStore, dest mosaic.Address, amount coin.Coin) error

	// Balance returns the amount of funds stored in the wallet.
	// Missing wallet is zero balance, not an error.
	Balance(store mosaic.KVStore, addr mosaic.Address) (coin.Coins, error)
}

// CashController provides methods for the wallet handling
type CashController struct {
	bucket Bucket
}

var _ Controller = CashController{}

// NewController returns a controller working on the given bucket
func NewController(bucket Bucket) CashController {
	return CashController{bucket: bucket}
}

// MoveCoins moves the given amount from src to dest.
// If src doesn't exist, or doesn't have sufficient
// coins, it fails.
func (c CashController) MoveCoins(store mosaic.KVStore, src, dest mosaic.Address, amount coin.Coin) error {
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive amount: %v", amount)
	}

	sender, err := c.bucket.Get(store, src)
	if err != nil {
		return err
	}
	if sender == nil {
		return errors.Wrapf(ErrEmptyAccount, "%s", src)
	}

	if !sender.Coins().Contains(amount) {
		return errors.Wrapf(ErrInsufficientFunds, "%s has %s, needs %s", src, sender.Coins().Amount(amount.Ticker), amount)
	}

	recipient, err := c.bucket.GetOrCreate(store, dest)
	if err != nil {
		return err
	}
	if err := sender.Subtract(amount); err != nil {
		return err
	}
	if err := recipient.Add(amount); err != nil {
		return err
	}

	// save them and return
	if err := c.bucket.Save(store, sender); err != nil {
		return err
	}
	return c.bucket.Save(store, recipient)
}

// IssueCoins attempts to add the given amount of coins to
// the destination address. Fails if it overflows the wallet.
//
// Note the amount may also be negative:
// "the lord giveth and the lord taketh away"
func (c CashController) IssueCoins(store mosaic.KVStore, dest mosaic.Address, amount coin.Coin) error {
	recipient, err := c.bucket.GetOrCreate(store, dest)
	if err != nil {
		return err
	}
	if err := recipient.Add(amount); err != nil {
		return err
	}

	return c.bucket.Save(store, recipient)
}

// Balance returns the stored balance of the given account
func (c CashController) Balance(store mosaic.KVStore, addr mosaic.Address) (coin.Coins, error) {
	wallet, err := c.bucket.Get(store, addr)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		return nil, nil
	}
	return wallet.Coins(), nil
}
