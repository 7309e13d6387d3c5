package multisig

import (
	"github.com/mosaic-ledger/mosaic"
	"github.com/mosaic-ledger/mosaic/errors"
)

var (
	_ mosaic.Msg = (*InitRootMsg)(nil)
	_ mosaic.Msg = (*InitSessionMsg)(nil)
	_ mosaic.Msg = (*SignMsg)(nil)
	_ mosaic.Msg = (*ExecuteMsg)(nil)
)

const (
	initRootCost    int64 = 300
	initSessionCost int64 = 300
	signCost        int64 = 100
	executeCost     int64 = 200

	// maxPayloadSize keeps a single session record well below the
	// storage chunk a delivery may touch.
	maxPayloadSize = 10 * 1024
	maxAccounts    = 64
	maxOperators   = 255
)

// InitRootMsg creates the governance registry at its derived address.
type InitRootMsg struct {
	// Registry is the derived address the record is stored under.
	Registry    mosaic.Address
	Operators   []mosaic.Address
	Threshold   uint8
	Destination mosaic.Address
	Bump        uint8
}

// Path returns the routing path for this message.
func (InitRootMsg) Path() string {
	return "multisig/init_root"
}

// Validate makes sure that this is sensible.
func (m *InitRootMsg) Validate() error {
	var err error
	err = errors.Append(err, errors.Wrap(m.Registry.Validate(), "registry"))
	if len(m.Operators) == 0 {
		err = errors.Append(err, errors.Wrap(errors.ErrEmpty, "operators"))
	}
	if len(m.Operators) > maxOperators {
		err = errors.Append(err, errors.Wrap(errors.ErrInput, "too many operators"))
	}
	for i, op := range m.Operators {
		err = errors.Append(err, errors.Wrapf(op.Validate(), "operator %d", i))
	}
	if m.Threshold == 0 {
		err = errors.Append(err, errors.Wrap(errors.ErrInput, "zero threshold"))
	}
	err = errors.Append(err, errors.Wrap(m.Destination.Validate(), "destination"))
	return err
}

// Marshal serializes the message in the instruction layout.
func (m *InitRootMsg) Marshal() ([]byte, error) {
	out := appendAddress(nil, m.Registry)
	out = appendAddressVec(out, m.Operators)
	out = append(out, m.Threshold)
	out = appendAddress(out, m.Destination)
	out = append(out, m.Bump)
	return out, nil
}

// Unmarshal restores a message serialized with Marshal.
func (m *InitRootMsg) Unmarshal(bz []byte) error {
	r := reader{data: bz}
	var err error
	if m.Registry, err = r.address(); err != nil {
		return errors.Wrap(err, "registry")
	}
	if m.Operators, err = r.addressVec(); err != nil {
		return errors.Wrap(err, "operators")
	}
	if m.Threshold, err = r.uint8(); err != nil {
		return errors.Wrap(err, "threshold")
	}
	if m.Destination, err = r.address(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if m.Bump, err = r.uint8(); err != nil {
		return errors.Wrap(err, "bump")
	}
	return r.done()
}

// InitSessionMsg opens the next signing session against a registry.
type InitSessionMsg struct {
	Registry mosaic.Address
	// Session is the derived address of the new record, keyed by the
	// registry and the id the registry will issue for it.
	Session  mosaic.Address
	Payload  []byte
	Accounts []SessionAccount
	Bump     uint8
}

// Path returns the routing path for this message.
func (InitSessionMsg) Path() string {
	return "multisig/init_session"
}

// Validate makes sure that this is sensible.
func (m *InitSessionMsg) Validate() error {
	var err error
	err = errors.Append(err, errors.Wrap(m.Registry.Validate(), "registry"))
	err = errors.Append(err, errors.Wrap(m.Session.Validate(), "session"))
	if len(m.Payload) > maxPayloadSize {
		err = errors.Append(err, errors.Wrap(errors.ErrInput, "payload too large"))
	}
	if len(m.Accounts) > maxAccounts {
		err = errors.Append(err, errors.Wrap(errors.ErrInput, "too many accounts"))
	}
	for i, acct := range m.Accounts {
		err = errors.Append(err, errors.Wrapf(acct.Validate(), "account %d", i))
	}
	return err
}

// Marshal serializes the message in the instruction layout.
func (m *InitSessionMsg) Marshal() ([]byte, error) {
	out := appendAddress(nil, m.Registry)
	out = appendAddress(out, m.Session)
	out = appendByteVec(out, m.Payload)
	out = appendUint32(out, uint32(len(m.Accounts)))
	for _, acct := range m.Accounts {
		out = appendByteVec(out, acct.marshal())
	}
	out = append(out, m.Bump)
	return out, nil
}

// Unmarshal restores a message serialized with Marshal.
func (m *InitSessionMsg) Unmarshal(bz []byte) error {
	r := reader{data: bz}
	var err error
	if m.Registry, err = r.address(); err != nil {
		return errors.Wrap(err, "registry")
	}
	if m.Session, err = r.address(); err != nil {
		return errors.Wrap(err, "session")
	}
	if m.Payload, err = r.byteVec(); err != nil {
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
	m.Accounts = accounts
	if m.Bump, err = r.uint8(); err != nil {
		return errors.Wrap(err, "bump")
	}
	return r.done()
}

// SignMsg casts the main signer's approval on a session.
type SignMsg struct {
	Registry mosaic.Address
	Session  mosaic.Address
	Bump     uint8
}

// Path returns the routing path for this message.
func (SignMsg) Path() string {
	return "multisig/sign"
}

// Validate makes sure that this is sensible.
func (m *SignMsg) Validate() error {
	var err error
	err = errors.Append(err, errors.Wrap(m.Registry.Validate(), "registry"))
	err = errors.Append(err, errors.Wrap(m.Session.Validate(), "session"))
	return err
}

// Marshal serializes the message in the instruction layout.
func (m *SignMsg) Marshal() ([]byte, error) {
	out := appendAddress(nil, m.Registry)
	out = appendAddress(out, m.Session)
	out = append(out, m.Bump)
	return out, nil
}

// Unmarshal restores a message serialized with Marshal.
func (m *SignMsg) Unmarshal(bz []byte) error {
	r := reader{data: bz}
	var err error
	if m.Registry, err = r.address(); err != nil {
		return errors.Wrap(err, "registry")
	}
	if m.Session, err = r.address(); err != nil {
		return errors.Wrap(err, "session")
	}
	if m.Bump, err = r.uint8(); err != nil {
		return errors.Wrap(err, "bump")
	}
	return r.done()
}

// ExecuteMsg forwards an approved session to the delegated target.
type ExecuteMsg struct {
	Registry mosaic.Address
	Session  mosaic.Address
	// Target must equal the registry's delegated target.
	Target mosaic.Address
	// Accounts is the trailing list of accounts the caller makes
	// available for resolving the session's stored descriptors.
	Accounts []mosaic.Address
}

// Path returns the routing path for this message.
func (ExecuteMsg) Path() string {
	return "multisig/execute"
}

// Validate makes sure that this is sensible.
func (m *ExecuteMsg) Validate() error {
	var err error
	err = errors.Append(err, errors.Wrap(m.Registry.Validate(), "registry"))
	err = errors.Append(err, errors.Wrap(m.Session.Validate(), "session"))
	err = errors.Append(err, errors.Wrap(m.Target.Validate(), "target"))
	if len(m.Accounts) > maxAccounts {
		err = errors.Append(err, errors.Wrap(errors.ErrInput, "too many accounts"))
	}
	for i, acct := range m.Accounts {
		err = errors.Append(err, errors.Wrapf(acct.Validate(), "account %d", i))
	}
	return err
}

// Marshal serializes the message in the instruction layout.
func (m *ExecuteMsg) Marshal() ([]byte, error) {
	out := appendAddress(nil, m.Registry)
	out = appendAddress(out, m.Session)
	out = appendAddress(out, m.Target)
	out = appendAddressVec(out, m.Accounts)
	return out, nil
}

// Unmarshal restores a message serialized with Marshal.
func (m *ExecuteMsg) Unmarshal(bz []byte) error {
	r := reader{data: bz}
	var err error
	if m.Registry, err = r.address(); err != nil {
		return errors.Wrap(err, "registry")
	}
	if m.Session, err = r.address(); err != nil {
		return errors.Wrap(err, "session")
	}
	if m.Target, err = r.address(); err != nil {
		return errors.Wrap(err, "target")
	}
	if m.Accounts, err = r.addressVec(); err != nil {
		return errors.Wrap(err, "accounts")
	}
	return r.done()
}
