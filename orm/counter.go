package orm

import (
	"encoding/binary"

	"github.com/mosaic-ledger/mosaic/errors"
)

// Counter is a simple persistent model holding one number.
// Used mainly to test the bucket implementation.
type Counter struct {
	Count int64
}

var _ CloneableData = (*Counter)(nil)

// Marshal stores the count as 8 big-endian bytes
func (c *Counter) Marshal() ([]byte, error) {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, uint64(c.Count))
	return bz, nil
}

// Unmarshal restores the count from 8 bytes
func (c *Counter) Unmarshal(bz []byte) error {
	if len(bz) != 8 {
		return errors.Wrapf(errors.ErrInput, "invalid counter length: %d", len(bz))
	}
	c.Count = int64(binary.BigEndian.Uint64(bz))
	return nil
}

// Validate accepts any non-negative count
func (c *Counter) Validate() error {
	if c.Count < 0 {
		return errors.Wrap(errors.ErrState, "negative counter")
	}
	return nil
}

// Copy produces another counter with the same count
func (c *Counter) Copy() CloneableData {
	return &Counter{Count: c.Count}
}

// NewCounterBucket makes a bucket for counters
func NewCounterBucket(name string) Bucket {
	return NewBucket(name, NewSimpleObj(nil, new(Counter)))
}
