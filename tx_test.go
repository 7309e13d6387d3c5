package mosaic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mosaic-ledger/mosaic"
	"github.com/mosaic-ledger/mosaic/errors"
	"github.com/mosaic-ledger/mosaic/mosaictest"
)

func TestLoadMsg(t *testing.T) {
	msg := &mosaictest.Msg{RoutePath: "test/load", Serialized: []byte("payload")}
	tx := &mosaictest.Tx{Msg: msg}

	var dst mosaictest.Msg
	if err := mosaic.LoadMsg(tx, &dst); err != nil {
		t.Fatalf("cannot load message: %s", err)
	}
	assert.Equal(t, *msg, dst)
}

func TestLoadMsgNoMessage(t *testing.T) {
	tx := &mosaictest.Tx{}
	var dst mosaictest.Msg
	err := mosaic.LoadMsg(tx, &dst)
	assert.True(t, errors.ErrState.Is(err))
}

func TestLoadMsgBrokenTx(t *testing.T) {
	tx := &mosaictest.Tx{Err: errors.ErrInput}
	var dst mosaictest.Msg
	err := mosaic.LoadMsg(tx, &dst)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestLoadMsgWrongType(t *testing.T) {
	tx := &mosaictest.Tx{Msg: &mosaictest.Msg{RoutePath: "test/other"}}
	var dst otherMsg
	err := mosaic.LoadMsg(tx, &dst)
	assert.True(t, errors.ErrType.Is(err))
}

func TestLoadMsgInvalid(t *testing.T) {
	tx := &mosaictest.Tx{Msg: &mosaictest.Msg{Err: errors.ErrAmount}}
	var dst mosaictest.Msg
	err := mosaic.LoadMsg(tx, &dst)
	assert.True(t, errors.ErrAmount.Is(err))
}

func TestGetPath(t *testing.T) {
	tx := &mosaictest.Tx{Msg: &mosaictest.Msg{RoutePath: "test/path"}}
	assert.Equal(t, "test/path", mosaic.GetPath(tx))

	broken := &mosaictest.Tx{Err: errors.ErrInput}
	assert.Equal(t, "(missing)", mosaic.GetPath(broken))
}

type otherMsg struct {
	mosaictest.Msg
}
