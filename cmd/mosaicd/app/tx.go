package app

import (
	"encoding/binary"

	"github.com/mosaic-ledger/mosaic"
	"github.com/mosaic-ledger/mosaic/errors"
	"github.com/mosaic-ledger/mosaic/x/cash"
	"github.com/mosaic-ledger/mosaic/x/multisig"
	"github.com/mosaic-ledger/mosaic/x/sigs"
)

// The transaction body keeps the original opcode surface: one leading
// byte selects the handler, the remaining bytes are the handler's
// binary payload.
const (
	opInitRoot    byte = 0
	opInitSession byte = 1
	opSign        byte = 2
	opExecute     byte = 3

	// opSend is a host-side extension: payloads forwarded by Execute
	// are transactions too, and the cash module is the builtin target.
	opSend byte = 16
)

// make sure tx fulfills all interfaces
var (
	_ mosaic.Tx     = (*Tx)(nil)
	_ sigs.SignedTx = (*Tx)(nil)
)

// Tx is the transaction envelope: the conditions the host verified
// signatures for, and the opcode-prefixed message body.
type Tx struct {
	// Signers are the conditions that authorized this transaction.
	// The host environment verifies the signatures, the engine trusts
	// the envelope.
	Signers []mosaic.Condition
	// Body is the opcode byte followed by the message payload.
	Body []byte
}

// TxDecoder creates a Tx and unmarshals bytes into it.
func TxDecoder(bz []byte) (mosaic.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

// BuildTx assembles an envelope around the given message.
func BuildTx(msg mosaic.Msg, signers ...mosaic.Condition) (*Tx, error) {
	var opcode byte
	switch msg.(type) {
	case *multisig.InitRootMsg:
		opcode = opInitRoot
	case *multisig.InitSessionMsg:
		opcode = opInitSession
	case *multisig.SignMsg:
		opcode = opSign
	case *multisig.ExecuteMsg:
		opcode = opExecute
	case *cash.SendMsg:
		opcode = opSend
	default:
		return nil, errors.Wrapf(errors.ErrMsg, "unsupported message %T", msg)
	}
	payload, err := msg.Marshal()
	if err != nil {
		return nil, err
	}
	return &Tx{
		Signers: signers,
		Body:    append([]byte{opcode}, payload...),
	}, nil
}

// GetSigners returns every condition that authorized this transaction.
func (tx *Tx) GetSigners() []mosaic.Condition {
	return tx.Signers
}

// GetMsg decodes the body into the message the opcode selects.
func (tx *Tx) GetMsg() (mosaic.Msg, error) {
	if len(tx.Body) == 0 {
		return nil, errors.Wrap(errors.ErrMsg, "empty body")
	}
	opcode, payload := tx.Body[0], tx.Body[1:]

	var msg mosaic.Msg
	switch opcode {
	case opInitRoot:
		msg = new(multisig.InitRootMsg)
	case opInitSession:
		msg = new(multisig.InitSessionMsg)
	case opSign:
		msg = new(multisig.SignMsg)
	case opExecute:
		msg = new(multisig.ExecuteMsg)
	case opSend:
		msg = new(cash.SendMsg)
	default:
		return nil, errors.Wrapf(errors.ErrMsg, "unknown opcode %d", opcode)
	}
	if err := msg.Unmarshal(payload); err != nil {
		return nil, err
	}
	return msg, nil
}

// Marshal serializes the signer list followed by the body, each chunk
// length prefixed.
func (tx *Tx) Marshal() ([]byte, error) {
	var scratch [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(scratch[:], uint64(len(tx.Signers)))
	out := append([]byte(nil), scratch[:n]...)
	for _, signer := range tx.Signers {
		n := binary.PutUvarint(scratch[:], uint64(len(signer)))
		out = append(out, scratch[:n]...)
		out = append(out, signer...)
	}
	n = binary.PutUvarint(scratch[:], uint64(len(tx.Body)))
	out = append(out, scratch[:n]...)
	out = append(out, tx.Body...)
	return out, nil
}

// Unmarshal restores a transaction serialized with Marshal.
func (tx *Tx) Unmarshal(bz []byte) error {
	count, n := binary.Uvarint(bz)
	if n <= 0 {
		return errors.Wrap(errors.ErrInput, "invalid signer count")
	}
	bz = bz[n:]
	// every signer needs at least a length prefix byte
	if count > uint64(len(bz)) {
		return errors.Wrap(errors.ErrInput, "truncated signer list")
	}
	signers := make([]mosaic.Condition, 0, count)
	for i := uint64(0); i < count; i++ {
		size, n := binary.Uvarint(bz)
		if n <= 0 || uint64(len(bz[n:])) < size {
			return errors.Wrap(errors.ErrInput, "truncated signer")
		}
		signers = append(signers, mosaic.Condition(append([]byte(nil), bz[n:n+int(size)]...)))
		bz = bz[n+int(size):]
	}
	if count > 0 {
		tx.Signers = signers
	} else {
		tx.Signers = nil
	}

	size, n := binary.Uvarint(bz)
	if n <= 0 || uint64(len(bz[n:])) != size {
		return errors.Wrap(errors.ErrInput, "truncated body")
	}
	tx.Body = append([]byte(nil), bz[n:]...)
	return nil
}
