package multisig

import (
	"context"
	"testing"

	"github.com/mosaic-ledger/mosaic"
	"github.com/mosaic-ledger/mosaic/coin"
	"github.com/mosaic-ledger/mosaic/errors"
	"github.com/mosaic-ledger/mosaic/mosaictest"
	"github.com/mosaic-ledger/mosaic/mosaictest/assert"
	"github.com/mosaic-ledger/mosaic/store"
	"github.com/mosaic-ledger/mosaic/x/cash"
)

// recordingInvoker remembers every forwarded invocation together with
// the conditions that were attached to it.
type recordingInvoker struct {
	invocations []Invocation
	conditions  [][]mosaic.Condition
	err         error
}

func (i *recordingInvoker) Invoke(ctx mosaic.Context, db mosaic.KVStore, inv Invocation) error {
	if i.err != nil {
		return i.err
	}
	i.invocations = append(i.invocations, inv)
	i.conditions = append(i.conditions, Authenticate{}.GetConditions(ctx))
	return nil
}

// fixture wires the four handlers the way the application does, with a
// context based authenticator so every call can act as a different
// signer.
type fixture struct {
	t         testing.TB
	db        mosaic.CacheableKVStore
	auth      *mosaictest.CtxAuth
	derivator CondDerivator
	control   cash.CashController
	invoker   *recordingInvoker

	registry  mosaic.Address
	rootBump  uint8
	operators []mosaic.Condition
	target    mosaic.Address

	initRoot    InitRootHandler
	initSession InitSessionHandler
	sign        SignHandler
	execute     ExecuteHandler
}

func newFixture(t testing.TB, operators int, threshold uint8) *fixture {
	f := &fixture{
		t:         t,
		db:        store.MemStore(),
		auth:      &mosaictest.CtxAuth{Key: "auth"},
		control:   cash.NewController(cash.NewBucket()),
		invoker:   &recordingInvoker{},
		target:    mosaictest.NewAddress(),
		operators: make([]mosaic.Condition, operators),
	}
	for i := range f.operators {
		f.operators[i] = mosaictest.NewCondition()
	}
	var err error
	f.registry, f.rootBump, err = f.derivator.Derive(RootSeeds()...)
	assert.Nil(t, err)

	f.initRoot = NewInitRootHandler(f.auth, f.derivator)
	f.initSession = NewInitSessionHandler(f.auth, f.derivator)
	f.sign = NewSignHandler(f.auth, f.derivator, f.control)
	f.execute = NewExecuteHandler(f.auth, f.derivator, f.invoker)

	addrs := make([]mosaic.Address, len(f.operators))
	for i, op := range f.operators {
		addrs[i] = op.Address()
	}
	msg := &InitRootMsg{
		Registry:    f.registry,
		Operators:   addrs,
		Threshold:   threshold,
		Destination: f.target,
		Bump:        f.rootBump,
	}
	_, err = f.initRoot.Deliver(f.ctx(f.operators[0]), f.db, &mosaictest.Tx{Msg: msg})
	assert.Nil(t, err)
	return f
}

func (f *fixture) ctx(signer mosaic.Condition) mosaic.Context {
	return f.auth.SetConditions(context.Background(), signer)
}

func (f *fixture) sessionAddr(id uint16) (mosaic.Address, uint8) {
	addr, bump, err := f.derivator.Derive(SessionSeeds(f.registry, id)...)
	assert.Nil(f.t, err)
	return addr, bump
}

// openSession delivers InitSession for the next id and returns the
// session address and bump.
func (f *fixture) openSession(signer mosaic.Condition, id uint16, payload []byte, accounts []SessionAccount) (mosaic.Address, uint8) {
	addr, bump := f.sessionAddr(id)
	msg := &InitSessionMsg{
		Registry: f.registry,
		Session:  addr,
		Payload:  payload,
		Accounts: accounts,
		Bump:     bump,
	}
	_, err := f.initSession.Deliver(f.ctx(signer), f.db, &mosaictest.Tx{Msg: msg})
	assert.Nil(f.t, err)
	return addr, bump
}

func (f *fixture) signSession(signer mosaic.Condition, session mosaic.Address, bump uint8) error {
	msg := &SignMsg{Registry: f.registry, Session: session, Bump: bump}
	_, err := f.sign.Deliver(f.ctx(signer), f.db, &mosaictest.Tx{Msg: msg})
	return err
}

func (f *fixture) executeSession(signer mosaic.Condition, session, target mosaic.Address, accounts []mosaic.Address) error {
	msg := &ExecuteMsg{Registry: f.registry, Session: session, Target: target, Accounts: accounts}
	_, err := f.execute.Deliver(f.ctx(signer), f.db, &mosaictest.Tx{Msg: msg})
	return err
}

func (f *fixture) loadSession(addr mosaic.Address) *SigningSession {
	session, err := NewSessionBucket().Get(f.db, addr)
	assert.Nil(f.t, err)
	if session == nil {
		f.t.Fatalf("session %s not stored", addr)
	}
	return session
}

func TestInitRootHandler(t *testing.T) {
	f := newFixture(t, 3, 2)

	root, err := NewRootBucket().Get(f.db, f.registry)
	assert.Nil(t, err)
	assert.Equal(t, uint16(0), root.LastID)
	assert.Equal(t, uint8(2), root.Threshold)
	assert.Equal(t, 3, len(root.Operators))

	// the registry exists, creating it again must fail
	msg := &InitRootMsg{
		Registry:    f.registry,
		Operators:   []mosaic.Address{mosaictest.NewAddress()},
		Threshold:   1,
		Destination: f.target,
		Bump:        f.rootBump,
	}
	_, err = f.initRoot.Deliver(f.ctx(f.operators[0]), f.db, &mosaictest.Tx{Msg: msg})
	if !errors.ErrDuplicate.Is(err) {
		t.Fatalf("want duplicate error, got %+v", err)
	}

	// a wrong disambiguator is a hard reject
	msg.Registry = mosaictest.NewAddress()
	_, err = f.initRoot.Deliver(f.ctx(f.operators[0]), f.db, &mosaictest.Tx{Msg: msg})
	if !ErrDerivation.Is(err) {
		t.Fatalf("want derivation error, got %+v", err)
	}
}

func TestInitSessionHandler(t *testing.T) {
	f := newFixture(t, 3, 2)

	payload := []byte{0x2a}
	accounts := []SessionAccount{
		{Address: mosaictest.NewAddress(), Writable: true},
		{Address: mosaictest.NewAddress(), Signer: true},
	}
	addr, _ := f.openSession(f.operators[0], 1, payload, accounts)

	root, err := NewRootBucket().Get(f.db, f.registry)
	assert.Nil(t, err)
	assert.Equal(t, uint16(1), root.LastID)

	session := f.loadSession(addr)
	assert.Equal(t, uint16(1), session.SessionID)
	assert.Equal(t, PhaseActive, session.Phase)
	assert.Equal(t, payload, session.Payload)
	assert.Equal(t, accounts, session.Accounts)
	assert.Equal(t, 0, len(session.Approvals))

	// a non-operator cannot open a session
	next, bump := f.sessionAddr(2)
	msg := &InitSessionMsg{Registry: f.registry, Session: next, Bump: bump}
	_, err = f.initSession.Deliver(f.ctx(mosaictest.NewCondition()), f.db, &mosaictest.Tx{Msg: msg})
	if !ErrNotOperator.Is(err) {
		t.Fatalf("want operator error, got %+v", err)
	}

	// the session address must be derived from the id about to be
	// issued, a stale address is rejected
	stale, staleBump := f.sessionAddr(1)
	msg = &InitSessionMsg{Registry: f.registry, Session: stale, Bump: staleBump}
	_, err = f.initSession.Deliver(f.ctx(f.operators[0]), f.db, &mosaictest.Tx{Msg: msg})
	if !ErrDerivation.Is(err) {
		t.Fatalf("want derivation error, got %+v", err)
	}
}

func TestSignHandler(t *testing.T) {
	f := newFixture(t, 3, 2)
	addr, bump := f.openSession(f.operators[0], 1, []byte{0x2a}, nil)

	// not an operator
	if err := f.signSession(mosaictest.NewCondition(), addr, bump); !ErrNotOperator.Is(err) {
		t.Fatalf("want operator error, got %+v", err)
	}

	assert.Nil(t, f.signSession(f.operators[0], addr, bump))
	session := f.loadSession(addr)
	assert.Equal(t, PhaseActive, session.Phase)
	assert.Equal(t, []mosaic.Address{f.operators[0].Address()}, session.Approvals)

	// the duplicate leaves the stored approvals unchanged
	if err := f.signSession(f.operators[0], addr, bump); !ErrAlreadyApproved.Is(err) {
		t.Fatalf("want duplicate error, got %+v", err)
	}
	session = f.loadSession(addr)
	assert.Equal(t, []mosaic.Address{f.operators[0].Address()}, session.Approvals)

	// the second distinct approval hits the threshold exactly
	assert.Nil(t, f.signSession(f.operators[1], addr, bump))
	session = f.loadSession(addr)
	assert.Equal(t, PhaseApproved, session.Phase)
	assert.Equal(t, 2, len(session.Approvals))

	// approved sessions accept no further signatures
	if err := f.signSession(f.operators[2], addr, bump); !ErrPhase.Is(err) {
		t.Fatalf("want phase error, got %+v", err)
	}
}

func TestSignStaleSession(t *testing.T) {
	f := newFixture(t, 3, 2)
	stale, staleBump := f.openSession(f.operators[0], 1, []byte{0x01}, nil)
	// opening the next session moves the registry generation past the
	// first one
	f.openSession(f.operators[0], 2, []byte{0x02}, nil)

	if err := f.signSession(f.operators[1], stale, staleBump); !ErrSessionID.Is(err) {
		t.Fatalf("want id error, got %+v", err)
	}
}

func TestSignStorageTopUp(t *testing.T) {
	f := newFixture(t, 3, 3)

	// charge one IOV fraction per stored byte
	conf := Config{CostPerByte: coin.NewCoin(0, 1, "IOV")}
	assert.Nil(t, NewConfigBucket().Save(f.db, &conf))

	// every signer pays for the growth its own approval causes
	assert.Nil(t, f.control.IssueCoins(f.db, f.operators[0].Address(), coin.NewCoin(1, 0, "IOV")))
	assert.Nil(t, f.control.IssueCoins(f.db, f.operators[1].Address(), coin.NewCoin(1, 0, "IOV")))

	addr, bump := f.openSession(f.operators[0], 1, []byte{0x2a}, nil)

	// every approval grows the record and re-prices the reserve
	assert.Nil(t, f.signSession(f.operators[0], addr, bump))
	session := f.loadSession(addr)
	bz, err := session.Marshal()
	assert.Nil(t, err)
	want, err := conf.CostPerByte.Multiply(int64(len(bz)))
	assert.Nil(t, err)

	reserve, err := f.control.Balance(f.db, addr)
	assert.Nil(t, err)
	assert.Equal(t, want, reserve.Amount("IOV"))

	// the next approval only pays the delta
	assert.Nil(t, f.signSession(f.operators[1], addr, bump))
	session = f.loadSession(addr)
	bz, err = session.Marshal()
	assert.Nil(t, err)
	want, err = conf.CostPerByte.Multiply(int64(len(bz)))
	assert.Nil(t, err)

	reserve, err = f.control.Balance(f.db, addr)
	assert.Nil(t, err)
	assert.Equal(t, want, reserve.Amount("IOV"))
}

func TestSignInsufficientTopUp(t *testing.T) {
	f := newFixture(t, 3, 2)

	conf := Config{CostPerByte: coin.NewCoin(1, 0, "IOV")}
	assert.Nil(t, NewConfigBucket().Save(f.db, &conf))

	addr, bump := f.openSession(f.operators[0], 1, []byte{0x2a}, nil)
	before := f.loadSession(addr)

	// the penniless operator cannot pay for the growth, nothing is
	// persisted
	if err := f.signSession(f.operators[0], addr, bump); !cash.ErrEmptyAccount.Is(err) {
		t.Fatalf("want empty account error, got %+v", err)
	}
	after := f.loadSession(addr)
	assert.Equal(t, before, after)

	balance, err := f.control.Balance(f.db, addr)
	assert.Nil(t, err)
	assert.Nil(t, balance)
}

func TestExecuteHandler(t *testing.T) {
	f := newFixture(t, 3, 2)

	referenced := []SessionAccount{
		{Address: mosaictest.NewAddress(), Writable: true},
		{Address: mosaictest.NewAddress(), Signer: true},
		{Address: f.registry},
	}
	supplied := []mosaic.Address{referenced[0].Address, referenced[1].Address}
	addr, bump := f.openSession(f.operators[0], 1, []byte{0x2a}, referenced)

	// too early, the session is still collecting approvals
	if err := f.executeSession(f.operators[0], addr, f.target, supplied); !ErrPhase.Is(err) {
		t.Fatalf("want phase error, got %+v", err)
	}

	assert.Nil(t, f.signSession(f.operators[0], addr, bump))
	assert.Nil(t, f.signSession(f.operators[1], addr, bump))

	// the wrong target is rejected
	if err := f.executeSession(f.operators[0], addr, mosaictest.NewAddress(), supplied); !ErrTarget.Is(err) {
		t.Fatalf("want target error, got %+v", err)
	}

	// a referenced account the caller does not supply is a hard error
	if err := f.executeSession(f.operators[0], addr, f.target, supplied[:1]); !ErrMissingAccount.Is(err) {
		t.Fatalf("want missing account error, got %+v", err)
	}
	assert.Equal(t, 0, len(f.invoker.invocations))

	// a forwarded failure propagates and the session stays approved
	f.invoker.err = errors.ErrState
	if err := f.executeSession(f.operators[0], addr, f.target, supplied); !errors.ErrState.Is(err) {
		t.Fatalf("want forwarded error, got %+v", err)
	}
	assert.Equal(t, PhaseApproved, f.loadSession(addr).Phase)
	f.invoker.err = nil

	assert.Nil(t, f.executeSession(f.operators[0], addr, f.target, supplied))
	session := f.loadSession(addr)
	assert.Equal(t, PhaseExecuted, session.Phase)

	// the forwarded call saw the payload, the declared roles and the
	// registry credential
	assert.Equal(t, 1, len(f.invoker.invocations))
	inv := f.invoker.invocations[0]
	assert.Equal(t, f.target, inv.Target)
	assert.Equal(t, []byte{0x2a}, inv.Payload)
	assert.Equal(t, referenced, inv.Accounts)
	assert.Equal(t, []mosaic.Condition{RegistryCondition(f.registry)}, f.invoker.conditions[0])

	// execution is terminal
	if err := f.executeSession(f.operators[0], addr, f.target, supplied); !ErrFinalStage.Is(err) {
		t.Fatalf("want final stage error, got %+v", err)
	}
	assert.Equal(t, 1, len(f.invoker.invocations))
}

func TestThreeOperatorScenario(t *testing.T) {
	f := newFixture(t, 3, 2)
	op1, op2 := f.operators[0], f.operators[1]

	accounts := []SessionAccount{
		{Address: mosaictest.NewAddress(), Writable: true},
		{Address: mosaictest.NewAddress(), Signer: true},
	}
	supplied := []mosaic.Address{accounts[0].Address, accounts[1].Address}

	addr, bump := f.openSession(op1, 1, []byte{0x07}, accounts)

	assert.Nil(t, f.signSession(op1, addr, bump))
	session := f.loadSession(addr)
	assert.Equal(t, PhaseActive, session.Phase)
	assert.Equal(t, []mosaic.Address{op1.Address()}, session.Approvals)

	assert.Nil(t, f.signSession(op2, addr, bump))
	session = f.loadSession(addr)
	assert.Equal(t, PhaseApproved, session.Phase)
	assert.Equal(t, []mosaic.Address{op1.Address(), op2.Address()}, session.Approvals)

	assert.Nil(t, f.executeSession(op1, addr, f.target, supplied))
	assert.Equal(t, PhaseExecuted, f.loadSession(addr).Phase)
	assert.Equal(t, 1, len(f.invoker.invocations))
	assert.Equal(t, accounts, f.invoker.invocations[0].Accounts)

	if err := f.executeSession(op1, addr, f.target, supplied); !ErrFinalStage.Is(err) {
		t.Fatalf("want final stage error, got %+v", err)
	}
}

// A registry created with a threshold above its operator count is
// accepted and its sessions can never be approved.
func TestUnapprovableRegistry(t *testing.T) {
	f := newFixture(t, 2, 3)
	addr, bump := f.openSession(f.operators[0], 1, []byte{0x01}, nil)

	assert.Nil(t, f.signSession(f.operators[0], addr, bump))
	assert.Nil(t, f.signSession(f.operators[1], addr, bump))

	session := f.loadSession(addr)
	assert.Equal(t, PhaseActive, session.Phase)
	assert.Equal(t, 2, len(session.Approvals))
}
