package app

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mosaic-ledger/mosaic"
	"github.com/mosaic-ledger/mosaic/coin"
	"github.com/mosaic-ledger/mosaic/errors"
	"github.com/mosaic-ledger/mosaic/x/cash"
	"github.com/mosaic-ledger/mosaic/x/multisig"
)

func TestTxRoundTrip(t *testing.T) {
	msg := &multisig.SignMsg{
		Registry: mosaic.NewAddress([]byte("registry")),
		Session:  mosaic.NewAddress([]byte("session")),
		Bump:     255,
	}
	signer := mosaic.NewCondition("sigs", "ed25519", []byte("round-trip"))

	tx, err := BuildTx(msg, signer)
	require.NoError(t, err)
	raw, err := tx.Marshal()
	require.NoError(t, err)

	parsed, err := TxDecoder(raw)
	require.NoError(t, err)
	assert.Equal(t, tx, parsed)

	got, err := parsed.GetMsg()
	require.NoError(t, err)
	assert.Equal(t, msg, got)
}

func TestTxNoSigners(t *testing.T) {
	msg := &cash.SendMsg{
		Source:      mosaic.NewAddress([]byte("from")),
		Destination: mosaic.NewAddress([]byte("to")),
		Amount:      coin.NewCoinp(1, 0, "MSC"),
	}
	tx, err := BuildTx(msg)
	require.NoError(t, err)
	raw, err := tx.Marshal()
	require.NoError(t, err)

	parsed, err := TxDecoder(raw)
	require.NoError(t, err)
	assert.Nil(t, parsed.(*Tx).Signers)
}

func TestTxUnknownMessage(t *testing.T) {
	// a message type without an opcode cannot be wrapped
	_, err := BuildTx(&unroutedMsg{})
	assert.True(t, errors.ErrMsg.Is(err))
}

func TestTxUnknownOpcode(t *testing.T) {
	tx := &Tx{Body: []byte{42, 1, 2, 3}}
	_, err := tx.GetMsg()
	assert.True(t, errors.ErrMsg.Is(err))

	empty := &Tx{}
	_, err = empty.GetMsg()
	assert.True(t, errors.ErrMsg.Is(err))
}

func TestTxDecoderCorrupt(t *testing.T) {
	// a handful of bytes claiming 2^40 signers must be rejected up
	// front, before any allocation sized from the claimed count
	var scratch [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(scratch[:], 1<<40)
	hugeCount := append(scratch[:n:n], 0, 0)

	cases := [][]byte{
		{},
		{1},          // promises a signer, delivers nothing
		{0, 10, 'x'}, // body shorter than its length prefix
		hugeCount,
	}
	for _, raw := range cases {
		if _, err := TxDecoder(raw); err == nil {
			t.Errorf("decoded corrupt input %v", raw)
		}
	}
}

// unroutedMsg fulfills mosaic.Msg but has no opcode assigned.
type unroutedMsg struct{}

func (unroutedMsg) Path() string              { return "nowhere" }
func (unroutedMsg) Validate() error           { return nil }
func (unroutedMsg) Marshal() ([]byte, error)  { return nil, nil }
func (unroutedMsg) Unmarshal(bz []byte) error { return nil }
