package cash

import (
	"encoding/binary"

	"github.com/mosaic-ledger/mosaic"
	"github.com/mosaic-ledger/mosaic/coin"
	"github.com/mosaic-ledger/mosaic/errors"
	"github.com/mosaic-ledger/mosaic/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

//---- Set

// Set is the persistent model of a wallet. It keeps a normalized
// collection of coins.
type Set struct {
	Coins coin.Coins
}

// Validate requires that all coins are in alphabetical order
func (s *Set) Validate() error {
	return s.Coins.Validate()
}

// Copy makes a new set with the same coins
func (s *Set) Copy() *Set {
	return &Set{
		Coins: s.Coins.Clone(),
	}
}

// Marshal serializes the coin count followed by every coin,
// each chunk length prefixed.
func (s *Set) Marshal() ([]byte, error) {
	var scratch [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(scratch[:], uint64(len(s.Coins)))
	out := append([]byte(nil), scratch[:n]...)
	for _, c := range s.Coins {
		bz, err := c.Marshal()
		if err != nil {
			return nil, err
		}
		n := binary.PutUvarint(scratch[:], uint64(len(bz)))
		out = append(out, scratch[:n]...)
		out = append(out, bz...)
	}
	return out, nil
}

// Unmarshal restores a set serialized with Marshal
func (s *Set) Unmarshal(bz []byte) error {
	count, n := binary.Uvarint(bz)
	if n <= 0 {
		return errors.Wrap(errors.ErrInput, "invalid coin count")
	}
	bz = bz[n:]
	// every coin needs at least a length prefix byte
	if count > uint64(len(bz)) {
		return errors.Wrap(errors.ErrInput, "truncated coin list")
	}
	coins := make(coin.Coins, 0, count)
	for i := uint64(0); i < count; i++ {
		size, n := binary.Uvarint(bz)
		if n <= 0 || uint64(len(bz[n:])) < size {
			return errors.Wrap(errors.ErrInput, "truncated coin")
		}
		var c coin.Coin
		if err := c.Unmarshal(bz[n : n+int(size)]); err != nil {
			return err
		}
		coins = append(coins, &c)
		bz = bz[n+int(size):]
	}
	if len(bz) != 0 {
		return errors.Wrap(errors.ErrInput, "trailing data")
	}
	s.Coins = coins
	return nil
}

//--- Wallet (Set object, wallet + key)

// Wallet is the actual object that we want to pass around
// in our code. It contains a set of coins, as well as the
// address. It is connected to the Bucket to easily manipulate
// state.
//
// Wallet is a type-safe wrapper around orm.SimpleObj
type Wallet struct {
	key   []byte
	value *Set
}

var _ orm.Object = (*Wallet)(nil)

// NewWallet creates an empty wallet with this address
func NewWallet(key mosaic.Address) *Wallet {
	return &Wallet{
		key:   key,
		value: new(Set),
	}
}

// WalletWith creates an wallet with a balance
func WalletWith(key mosaic.Address, coins ...*coin.Coin) (*Wallet, error) {
	wallet := NewWallet(key)
	for _, c := range coins {
		if err := wallet.Add(*c); err != nil {
			return nil, err
		}
	}
	return wallet, nil
}

// Value gets the value stored in the object
func (w Wallet) Value() mosaic.Persistent {
	return w.value
}

// Key returns the key to store the object under
func (w Wallet) Key() []byte {
	return w.key
}

// Validate makes sure the fields aren't empty.
// And delegates to the value validator if present
func (w Wallet) Validate() error {
	if len(w.key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "missing key")
	}
	return w.value.Validate()
}

// SetKey may be used to update a simple obj key
func (w *Wallet) SetKey(key []byte) {
	w.key = key
}

// Clone will make a copy of this object
func (w *Wallet) Clone() orm.Object {
	res := &Wallet{
		value: w.value.Copy(),
	}
	// only copy key if non-nil
	if len(w.key) > 0 {
		res.key = append([]byte(nil), w.key...)
	}
	return res
}

// Coins returns the coins stored in the wallet
func (w Wallet) Coins() coin.Coins {
	return w.value.Coins
}

// Add modifies the wallet to add Coin c
func (w *Wallet) Add(c coin.Coin) error {
	cs, err := w.Coins().Add(c)
	if err != nil {
		return err
	}
	w.value.Coins = cs
	return nil
}

// Subtract modifies the wallet to remove Coin c
func (w *Wallet) Subtract(c coin.Coin) error {
	return w.Add(c.Negative())
}

//--- cash.Bucket - type-safe bucket

// Bucket is a type-safe wrapper around orm.Bucket
type Bucket struct {
	orm.Bucket
}

// NewBucket initializes a cash.Bucket with default name
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(BucketName, NewWallet(nil)),
	}
}

func (b Bucket) Get(db mosaic.ReadOnlyKVStore, key mosaic.Address) (*Wallet, error) {
	obj, err := b.Bucket.Get(db, key)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, nil
	}
	return obj.(*Wallet), nil
}

func (b Bucket) Save(db mosaic.KVStore, value *Wallet) error {
	return b.Bucket.Save(db, value)
}

func (b Bucket) GetOrCreate(db mosaic.KVStore, key mosaic.Address) (*Wallet, error) {
	wallet, err := b.Get(db, key)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		wallet = NewWallet(key)
	}
	return wallet, nil
}
