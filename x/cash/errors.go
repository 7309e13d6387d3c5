package cash

import "github.com/mosaic-ledger/mosaic/errors"

var (
	// ErrInsufficientFunds is returned when the source wallet does not
	// hold enough coins to complete the movement.
	ErrInsufficientFunds = errors.Register(1000, "insufficient funds")

	// ErrEmptyAccount is returned when the source wallet does not exist.
	ErrEmptyAccount = errors.Register(1001, "empty account")
)
