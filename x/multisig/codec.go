package multisig

import (
	"encoding/binary"

	"github.com/mosaic-ledger/mosaic"
	"github.com/mosaic-ledger/mosaic/errors"
)

// The persisted layout is little-endian and length-prefixed. Variable
// sequences carry a 32 bit element count, byte sequences a 32 bit byte
// length. Stored records from previous deployments must parse
// byte-for-byte, so the layout is frozen: any change here is a state
// migration.

var sessionAccountSize = mosaic.AddressLength + 2

func appendUint16(out []byte, v uint16) []byte {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	return append(out, b[:]...)
}

func appendUint32(out []byte, v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return append(out, b[:]...)
}

func appendAddress(out []byte, a mosaic.Address) []byte {
	return append(out, a...)
}

func appendAddressVec(out []byte, addrs []mosaic.Address) []byte {
	out = appendUint32(out, uint32(len(addrs)))
	for _, a := range addrs {
		out = appendAddress(out, a)
	}
	return out
}

func appendByteVec(out, bz []byte) []byte {
	out = appendUint32(out, uint32(len(bz)))
	return append(out, bz...)
}

// reader consumes a little-endian record front to back. Every method
// fails on truncated input and the zero-length tail is checked by the
// caller via done.
type reader struct {
	data []byte
}

func (r *reader) uint8() (uint8, error) {
	if len(r.data) < 1 {
		return 0, errors.Wrap(errors.ErrInput, "truncated byte")
	}
	v := r.data[0]
	r.data = r.data[1:]
	return v, nil
}

func (r *reader) uint16() (uint16, error) {
	if len(r.data) < 2 {
		return 0, errors.Wrap(errors.ErrInput, "truncated uint16")
	}
	v := binary.LittleEndian.Uint16(r.data)
	r.data = r.data[2:]
	return v, nil
}

func (r *reader) uint32() (uint32, error) {
	if len(r.data) < 4 {
		return 0, errors.Wrap(errors.ErrInput, "truncated uint32")
	}
	v := binary.LittleEndian.Uint32(r.data)
	r.data = r.data[4:]
	return v, nil
}

func (r *reader) address() (mosaic.Address, error) {
	if len(r.data) < mosaic.AddressLength {
		return nil, errors.Wrap(errors.ErrInput, "truncated address")
	}
	a := append(mosaic.Address(nil), r.data[:mosaic.AddressLength]...)
	r.data = r.data[mosaic.AddressLength:]
	return a, nil
}

func (r *reader) addressVec() ([]mosaic.Address, error) {
	count, err := r.uint32()
	if err != nil {
		return nil, err
	}
	if uint64(count)*uint64(mosaic.AddressLength) > uint64(len(r.data)) {
		return nil, errors.Wrap(errors.ErrInput, "truncated address sequence")
	}
	addrs := make([]mosaic.Address, 0, count)
	for i := uint32(0); i < count; i++ {
		a, err := r.address()
		if err != nil {
			return nil, err
		}
		addrs = append(addrs, a)
	}
	return addrs, nil
}

func (r *reader) byteVec() ([]byte, error) {
	size, err := r.uint32()
	if err != nil {
		return nil, err
	}
	if uint64(size) > uint64(len(r.data)) {
		return nil, errors.Wrap(errors.ErrInput, "truncated byte sequence")
	}
	bz := make([]byte, size)
	copy(bz, r.data)
	r.data = r.data[size:]
	return bz, nil
}

func (r *reader) done() error {
	if len(r.data) != 0 {
		return errors.Wrapf(errors.ErrInput, "%d trailing bytes", len(r.data))
	}
	return nil
}

// Marshal serializes the registry record.
func (root *Root) Marshal() ([]byte, error) {
	out := make([]byte, 0, root.size())
	out = appendAddressVec(out, root.Operators)
	out = appendUint16(out, root.LastID)
	out = append(out, root.Threshold)
	out = appendAddress(out, root.Destination)
	out = append(out, root.Bump)
	return out, nil
}

// Unmarshal restores a registry record. Trailing data is rejected.
func (root *Root) Unmarshal(bz []byte) error {
	r := reader{data: bz}
	var err error
	if root.Operators, err = r.addressVec(); err != nil {
		return errors.Wrap(err, "operators")
	}
	if root.LastID, err = r.uint16(); err != nil {
		return errors.Wrap(err, "last id")
	}
	if root.Threshold, err = r.uint8(); err != nil {
		return errors.Wrap(err, "threshold")
	}
	if root.Destination, err = r.address(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if root.Bump, err = r.uint8(); err != nil {
		return errors.Wrap(err, "bump")
	}
	return r.done()
}

func (root *Root) size() int {
	return 4 + len(root.Operators)*mosaic.AddressLength + 2 + 1 + mosaic.AddressLength + 1
}

// Marshal serializes the session record.
func (s *SigningSession) Marshal() ([]byte, error) {
	out := appendUint16(nil, s.SessionID)
	out = appendAddress(out, s.Root)
	out = append(out, byte(s.Phase))
	out = appendAddressVec(out, s.Approvals)
	out = appendByteVec(out, s.Payload)
	out = appendUint32(out, uint32(len(s.Accounts)))
	for _, acct := range s.Accounts {
		out = appendByteVec(out, acct.marshal())
	}
	out = append(out, s.Bump)
	return out, nil
}

// Unmarshal restores a session record. Trailing data is rejected.
func (s *SigningSession) Unmarshal(bz []byte) error {
	r := reader{data: bz}
	var err error
	if s.SessionID, err = r.uint16(); err != nil {
		return errors.Wrap(err, "session id")
	}
	if s.Root, err = r.address(); err != nil {
		return errors.Wrap(err, "root")
	}
	phase, err := r.uint8()
	if err != nil {
		return errors.Wrap(err, "phase")
	}
	s.Phase = Phase(phase)
	if s.Approvals, err = r.addressVec(); err != nil {
		return errors.Wrap(err, "approvals")
	}
	if s.Payload, err = r.byteVec(); err != nil {
		return errors.Wrap(err, "payload")
	}
	count, err := r.uint32()
	if err != nil {
		return errors.Wrap(err, "account count")
	}
	if uint64(count)*uint64(sessionAccountSize+4) > uint64(len(r.data)) {
		return errors.Wrap(errors.ErrInput, "truncated account sequence")
	}
	accounts := make([]SessionAccount, 0, count)
	for i := uint32(0); i < count; i++ {
		raw, err := r.byteVec()
		if err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		var acct SessionAccount
		if err := acct.unmarshal(raw); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		accounts = append(accounts, acct)
	}
	s.Accounts = accounts
	if s.Bump, err = r.uint8(); err != nil {
		return errors.Wrap(err, "bump")
	}
	return r.done()
}

func (a SessionAccount) marshal() []byte {
	out := make([]byte, 0, sessionAccountSize)
	out = appendAddress(out, a.Address)
	out = append(out, encodeBool(a.Signer), encodeBool(a.Writable))
	return out
}

func (a *SessionAccount) unmarshal(bz []byte) error {
	if len(bz) != sessionAccountSize {
		return errors.Wrapf(errors.ErrInput, "account descriptor must be %d bytes", sessionAccountSize)
	}
	a.Address = append(mosaic.Address(nil), bz[:mosaic.AddressLength]...)
	var err error
	if a.Signer, err = decodeBool(bz[mosaic.AddressLength]); err != nil {
		return errors.Wrap(err, "signer")
	}
	if a.Writable, err = decodeBool(bz[mosaic.AddressLength+1]); err != nil {
		return errors.Wrap(err, "writable")
	}
	return nil
}

func encodeBool(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func decodeBool(b byte) (bool, error) {
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, errors.Wrapf(errors.ErrInput, "invalid bool byte %d", b)
	}
}
