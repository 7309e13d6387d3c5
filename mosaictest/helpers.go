package mosaictest

import (
	"math/rand"

	"github.com/mosaic-ledger/mosaic"
)

// NewCondition returns a random condition. Each call returns a different
// instance, so the derived addresses do not collide.
func NewCondition() mosaic.Condition {
	data := make([]byte, 32)
	rand.Read(data)
	return mosaic.NewCondition("sigs", "ed25519", data)
}

// NewAddress returns a random address.
func NewAddress() mosaic.Address {
	return NewCondition().Address()
}
