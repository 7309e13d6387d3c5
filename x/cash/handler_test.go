package cash

import (
	"context"
	"testing"

	"github.com/mosaic-ledger/mosaic"
	"github.com/mosaic-ledger/mosaic/coin"
	"github.com/mosaic-ledger/mosaic/errors"
	"github.com/mosaic-ledger/mosaic/mosaictest"
	"github.com/mosaic-ledger/mosaic/mosaictest/assert"
	"github.com/mosaic-ledger/mosaic/store"
)

func TestSendHandler(t *testing.T) {
	foo := coin.NewCoin(100, 0, "FOO")
	some := coin.NewCoin(300, 0, "SOME")

	perm := mosaictest.NewCondition()
	perm2 := mosaictest.NewCondition()
	addr := perm.Address()
	addr2 := perm2.Address()

	cases := map[string]struct {
		signers       []mosaic.Condition
		initState     []*Wallet
		msg           mosaic.Msg
		expectCheck   *errors.Error
		expectDeliver *errors.Error
	}{
		"nil message": {
			msg:           nil,
			expectCheck:   errors.ErrState,
			expectDeliver: errors.ErrState,
		},
		"empty message": {
			msg:           &SendMsg{},
			expectCheck:   errors.ErrAmount,
			expectDeliver: errors.ErrAmount,
		},
		"unauthorized": {
			msg:           &SendMsg{Amount: &foo, Source: addr, Destination: addr2},
			expectCheck:   errors.ErrUnauthorized,
			expectDeliver: errors.ErrUnauthorized,
		},
		"source has no account": {
			signers:       []mosaic.Condition{perm},
			msg:           &SendMsg{Amount: &foo, Source: addr, Destination: addr2},
			expectDeliver: ErrEmptyAccount,
		},
		"source has no funds": {
			signers:       []mosaic.Condition{perm},
			initState:     []*Wallet{mustWallet(t, addr, some)},
			msg:           &SendMsg{Amount: &foo, Source: addr, Destination: addr2},
			expectDeliver: ErrInsufficientFunds,
		},
		"successful send": {
			signers:   []mosaic.Condition{perm},
			initState: []*Wallet{mustWallet(t, addr, some, foo)},
			msg:       &SendMsg{Amount: &foo, Source: addr, Destination: addr2},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			auth := &mosaictest.Auth{Signers: tc.signers}
			controller := NewController(NewBucket())
			h := NewSendHandler(auth, controller)

			kv := store.MemStore()
			for _, wallet := range tc.initState {
				assert.Nil(t, NewBucket().Save(kv, wallet))
			}

			tx := &mosaictest.Tx{Msg: tc.msg}

			ctx := context.Background()
			_, err := h.Check(ctx, kv, tx)
			if tc.expectCheck != nil {
				if !tc.expectCheck.Is(err) {
					t.Fatalf("unexpected check error: %+v", err)
				}
			} else {
				assert.Nil(t, err)
			}

			_, err = h.Deliver(ctx, kv, tx)
			if tc.expectDeliver != nil {
				if !tc.expectDeliver.Is(err) {
					t.Fatalf("unexpected deliver error: %+v", err)
				}
				return
			}
			assert.Nil(t, err)

			msg := tc.msg.(*SendMsg)
			balance, err := controller.Balance(kv, msg.Destination)
			assert.Nil(t, err)
			if !balance.Contains(*msg.Amount) {
				t.Fatalf("destination is missing the sent funds: %v", balance)
			}
		})
	}
}

func mustWallet(t testing.TB, addr mosaic.Address, coins ...coin.Coin) *Wallet {
	t.Helper()
	ptrs := make([]*coin.Coin, len(coins))
	for i := range coins {
		c := coins[i]
		ptrs[i] = &c
	}
	wallet, err := WalletWith(addr, ptrs...)
	if err != nil {
		t.Fatalf("cannot create wallet: %+v", err)
	}
	return wallet
}
