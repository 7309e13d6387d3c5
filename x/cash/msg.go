package cash

import (
	"encoding/binary"

	"github.com/mosaic-ledger/mosaic"
	"github.com/mosaic-ledger/mosaic/coin"
	"github.com/mosaic-ledger/mosaic/errors"
)

// Ensure we implement the Msg interface
var _ mosaic.Msg = (*SendMsg)(nil)

const (
	sendTxCost int64 = 100

	maxMemoSize int = 128
)

// SendMsg requests a movement of funds from the source wallet to the
// destination wallet.
type SendMsg struct {
	Source      mosaic.Address
	Destination mosaic.Address
	Amount      *coin.Coin
	Memo        string
}

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return "cash/send"
}

// Validate makes sure that this is sensible
func (s *SendMsg) Validate() error {
	var err error
	if coin.IsEmpty(s.Amount) || !s.Amount.IsPositive() {
		err = errors.Wrapf(errors.ErrAmount, "non-positive SendMsg: %#v", s.Amount)
	} else {
		err = errors.Append(err, errors.Wrap(s.Amount.Validate(), "amount"))
	}
	err = errors.Append(err, errors.Wrap(s.Source.Validate(), "source"))
	err = errors.Append(err, errors.Wrap(s.Destination.Validate(), "destination"))
	if len(s.Memo) > maxMemoSize {
		err = errors.Append(err, errors.Wrap(errors.ErrState, "memo too long"))
	}

	return err
}

// Marshal serializes the message as both addresses, the length prefixed
// amount and the length prefixed memo.
func (s *SendMsg) Marshal() ([]byte, error) {
	var amount []byte
	if s.Amount != nil {
		var err error
		amount, err = s.Amount.Marshal()
		if err != nil {
			return nil, err
		}
	}

	out := make([]byte, 0, 2*mosaic.AddressLength+len(amount)+len(s.Memo)+2)
	out = append(out, s.Source...)
	out = append(out, s.Destination...)
	var scratch [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(scratch[:], uint64(len(amount)))
	out = append(out, scratch[:n]...)
	out = append(out, amount...)
	n = binary.PutUvarint(scratch[:], uint64(len(s.Memo)))
	out = append(out, scratch[:n]...)
	out = append(out, s.Memo...)
	return out, nil
}

// Unmarshal restores a message serialized with Marshal
func (s *SendMsg) Unmarshal(bz []byte) error {
	if len(bz) < 2*mosaic.AddressLength {
		return errors.Wrap(errors.ErrInput, "message too short")
	}
	s.Source = append(mosaic.Address(nil), bz[:mosaic.AddressLength]...)
	bz = bz[mosaic.AddressLength:]
	s.Destination = append(mosaic.Address(nil), bz[:mosaic.AddressLength]...)
	bz = bz[mosaic.AddressLength:]

	size, n := binary.Uvarint(bz)
	if n <= 0 || uint64(len(bz[n:])) < size {
		return errors.Wrap(errors.ErrInput, "truncated amount")
	}
	if size == 0 {
		s.Amount = nil
	} else {
		var c coin.Coin
		if err := c.Unmarshal(bz[n : n+int(size)]); err != nil {
			return err
		}
		s.Amount = &c
	}
	bz = bz[n+int(size):]

	size, n = binary.Uvarint(bz)
	if n <= 0 || uint64(len(bz[n:])) != size {
		return errors.Wrap(errors.ErrInput, "truncated memo")
	}
	s.Memo = string(bz[n:])
	return nil
}
