package multisig

import (
	"github.com/mosaic-ledger/mosaic"
	"github.com/mosaic-ledger/mosaic/coin"
	"github.com/mosaic-ledger/mosaic/errors"
	"github.com/mosaic-ledger/mosaic/orm"
)

// configKey is the fixed key the one Config record is stored under.
var configKey = []byte("config")

// Config holds the storage pricing for session records. A missing
// record means storage is free, which is the useful default for tests
// and for deployments where the host does its own rent accounting.
type Config struct {
	// CostPerByte is the reserve required per stored session byte.
	CostPerByte coin.Coin
}

var _ orm.CloneableData = (*Config)(nil)

// Validate requires a non-negative price.
func (c *Config) Validate() error {
	if err := c.CostPerByte.Validate(); err != nil {
		return errors.Wrap(err, "cost per byte")
	}
	if !c.CostPerByte.IsNonNegative() {
		return errors.Wrap(errors.ErrAmount, "negative cost per byte")
	}
	return nil
}

// Copy produces a deep copy of the record.
func (c *Config) Copy() orm.CloneableData {
	return &Config{
		CostPerByte: *c.CostPerByte.Clone(),
	}
}

// Marshal serializes the configuration.
func (c *Config) Marshal() ([]byte, error) {
	return c.CostPerByte.Marshal()
}

// Unmarshal restores a configuration serialized with Marshal.
func (c *Config) Unmarshal(bz []byte) error {
	return c.CostPerByte.Unmarshal(bz)
}

// ConfigBucket stores the engine configuration under a fixed key.
type ConfigBucket struct {
	orm.Bucket
}

// NewConfigBucket creates a bucket for the configuration record.
func NewConfigBucket() ConfigBucket {
	return ConfigBucket{
		Bucket: orm.NewBucket("msconf", orm.NewSimpleObj(nil, new(Config))),
	}
}

// Load returns the stored configuration, or the free-storage default
// when none was initialized.
func (b ConfigBucket) Load(db mosaic.ReadOnlyKVStore) (*Config, error) {
	obj, err := b.Bucket.Get(db, configKey)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return &Config{}, nil
	}
	return obj.Value().(*Config), nil
}

// Save persists the configuration.
func (b ConfigBucket) Save(db mosaic.KVStore, c *Config) error {
	return b.Bucket.Save(db, orm.NewSimpleObj(configKey, c))
}
