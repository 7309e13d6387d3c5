package multisig

import (
	"github.com/mosaic-ledger/mosaic"
	"github.com/mosaic-ledger/mosaic/errors"
	"github.com/mosaic-ledger/mosaic/x"
	"github.com/mosaic-ledger/mosaic/x/cash"
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r mosaic.Registry, auth x.Authenticator, derivator Derivator, control cash.Controller, invoker Invoker) {
	r.Handle(InitRootMsg{}.Path(), NewInitRootHandler(auth, derivator))
	r.Handle(InitSessionMsg{}.Path(), NewInitSessionHandler(auth, derivator))
	r.Handle(SignMsg{}.Path(), NewSignHandler(auth, derivator, control))
	r.Handle(ExecuteMsg{}.Path(), NewExecuteHandler(auth, derivator, invoker))
}

// RegisterQuery will register the registry and session buckets.
func RegisterQuery(qr mosaic.QueryRouter) {
	NewRootBucket().Register("multisig/roots", qr)
	NewSessionBucket().Register("multisig/sessions", qr)
}

// InitRootHandler allocates the governance registry.
type InitRootHandler struct {
	auth      x.Authenticator
	derivator Derivator
	roots     RootBucket
}

var _ mosaic.Handler = InitRootHandler{}

// NewInitRootHandler creates a handler for InitRootMsg.
func NewInitRootHandler(auth x.Authenticator, derivator Derivator) InitRootHandler {
	return InitRootHandler{
		auth:      auth,
		derivator: derivator,
		roots:     NewRootBucket(),
	}
}

// Check verifies the registry can be created and allocates gas.
func (h InitRootHandler) Check(ctx mosaic.Context, db mosaic.KVStore, tx mosaic.Tx) (*mosaic.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &mosaic.CheckResult{GasAllocated: initRootCost}, nil
}

// Deliver writes the registry record at its derived address.
func (h InitRootHandler) Deliver(ctx mosaic.Context, db mosaic.KVStore, tx mosaic.Tx) (*mosaic.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	root := NewRoot(msg.Operators, msg.Threshold, msg.Destination, msg.Bump)
	if err := h.roots.Save(db, msg.Registry, root); err != nil {
		return nil, err
	}
	return &mosaic.DeliverResult{}, nil
}

func (h InitRootHandler) validate(ctx mosaic.Context, db mosaic.KVStore, tx mosaic.Tx) (*InitRootMsg, error) {
	var msg InitRootMsg
	if err := mosaic.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if x.MainSigner(ctx, h.auth) == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	if err := h.derivator.Verify(msg.Registry, msg.Bump, RootSeeds()...); err != nil {
		return nil, err
	}
	switch exists, err := h.roots.Has(db, msg.Registry); {
	case err != nil:
		return nil, err
	case exists:
		return nil, errors.Wrap(errors.ErrDuplicate, "registry already initialized")
	}
	return &msg, nil
}

// InitSessionHandler opens the next signing session, writing both the
// registry (incremented counter) and the new session in one step.
type InitSessionHandler struct {
	auth      x.Authenticator
	derivator Derivator
	roots     RootBucket
	sessions  SessionBucket
}

var _ mosaic.Handler = InitSessionHandler{}

// NewInitSessionHandler creates a handler for InitSessionMsg.
func NewInitSessionHandler(auth x.Authenticator, derivator Derivator) InitSessionHandler {
	return InitSessionHandler{
		auth:      auth,
		derivator: derivator,
		roots:     NewRootBucket(),
		sessions:  NewSessionBucket(),
	}
}

// Check verifies the session can be opened and allocates gas.
func (h InitSessionHandler) Check(ctx mosaic.Context, db mosaic.KVStore, tx mosaic.Tx) (*mosaic.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &mosaic.CheckResult{GasAllocated: initSessionCost}, nil
}

// Deliver issues the next session id and writes the session record.
func (h InitSessionHandler) Deliver(ctx mosaic.Context, db mosaic.KVStore, tx mosaic.Tx) (*mosaic.DeliverResult, error) {
	msg, root, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	// The counter moves before the session is written, so the new
	// record is the only one matching the registry generation.
	if err := root.IncrementSessionID(); err != nil {
		return nil, err
	}
	session := NewSession(root.LastID, msg.Registry, msg.Payload, msg.Accounts, msg.Bump)
	if err := h.roots.Save(db, msg.Registry, root); err != nil {
		return nil, err
	}
	if err := h.sessions.Save(db, msg.Session, session); err != nil {
		return nil, err
	}
	return &mosaic.DeliverResult{}, nil
}

func (h InitSessionHandler) validate(ctx mosaic.Context, db mosaic.KVStore, tx mosaic.Tx) (*InitSessionMsg, *Root, error) {
	var msg InitSessionMsg
	if err := mosaic.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	caller := x.MainSigner(ctx, h.auth)
	if caller == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	root, err := h.roots.Get(db, msg.Registry)
	if err != nil {
		return nil, nil, err
	}
	if root == nil {
		return nil, nil, errors.Wrap(errors.ErrNotFound, "registry")
	}
	if err := root.RequireOperator(caller.Address()); err != nil {
		return nil, nil, err
	}
	// The session address is keyed by the id the registry is about to
	// issue.
	next := *root
	if err := next.IncrementSessionID(); err != nil {
		return nil, nil, err
	}
	if err := h.derivator.Verify(msg.Session, msg.Bump, SessionSeeds(msg.Registry, next.LastID)...); err != nil {
		return nil, nil, err
	}
	switch exists, err := h.sessions.Has(db, msg.Session); {
	case err != nil:
		return nil, nil, err
	case exists:
		return nil, nil, errors.Wrap(errors.ErrDuplicate, "session already initialized")
	}
	return &msg, root, nil
}

// SignHandler records one approval, possibly advancing the session to
// approved, and keeps the storage reserve funded as the record grows.
type SignHandler struct {
	auth      x.Authenticator
	derivator Derivator
	control   cash.Controller
	roots     RootBucket
	sessions  SessionBucket
	config    ConfigBucket
}

var _ mosaic.Handler = SignHandler{}

// NewSignHandler creates a handler for SignMsg.
func NewSignHandler(auth x.Authenticator, derivator Derivator, control cash.Controller) SignHandler {
	return SignHandler{
		auth:      auth,
		derivator: derivator,
		control:   control,
		roots:     NewRootBucket(),
		sessions:  NewSessionBucket(),
		config:    NewConfigBucket(),
	}
}

// Check verifies the approval would be accepted and allocates gas.
func (h SignHandler) Check(ctx mosaic.Context, db mosaic.KVStore, tx mosaic.Tx) (*mosaic.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &mosaic.CheckResult{GasAllocated: signCost}, nil
}

// Deliver records the approval and rewrites the session.
func (h SignHandler) Deliver(ctx mosaic.Context, db mosaic.KVStore, tx mosaic.Tx) (*mosaic.DeliverResult, error) {
	msg, root, session, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	caller := x.MainSigner(ctx, h.auth).Address()

	oldSize, err := h.sessions.StoredSize(db, msg.Session)
	if err != nil {
		return nil, err
	}

	if err := session.RecordApproval(caller); err != nil {
		return nil, err
	}
	// Evaluated once, right after this approval is recorded. The
	// threshold comparison is exact, the phase gate prevents signing
	// past it.
	if session.ThresholdReached(root.Threshold) {
		if err := session.AdvancePhase(); err != nil {
			return nil, err
		}
	}

	bz, err := session.Marshal()
	if err != nil {
		return nil, err
	}
	if len(bz) != oldSize {
		if err := h.topUpReserve(db, caller, msg.Session, len(bz)); err != nil {
			return nil, err
		}
	}
	if err := h.sessions.Save(db, msg.Session, session); err != nil {
		return nil, err
	}
	return &mosaic.DeliverResult{}, nil
}

func (h SignHandler) validate(ctx mosaic.Context, db mosaic.KVStore, tx mosaic.Tx) (*SignMsg, *Root, *SigningSession, error) {
	var msg SignMsg
	if err := mosaic.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	caller := x.MainSigner(ctx, h.auth)
	if caller == nil {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	root, err := h.roots.Get(db, msg.Registry)
	if err != nil {
		return nil, nil, nil, err
	}
	if root == nil {
		return nil, nil, nil, errors.Wrap(errors.ErrNotFound, "registry")
	}
	if err := root.RequireOperator(caller.Address()); err != nil {
		return nil, nil, nil, err
	}
	session, err := h.sessions.Get(db, msg.Session)
	if err != nil {
		return nil, nil, nil, err
	}
	if session == nil {
		return nil, nil, nil, errors.Wrap(errors.ErrNotFound, "session")
	}
	if err := session.RequireSessionID(root.LastID); err != nil {
		return nil, nil, nil, err
	}
	if err := session.RequirePhase(PhaseActive); err != nil {
		return nil, nil, nil, err
	}
	if err := h.derivator.Verify(msg.Session, msg.Bump, SessionSeeds(msg.Registry, session.SessionID)...); err != nil {
		return nil, nil, nil, err
	}
	return &msg, root, session, nil
}

// topUpReserve moves the shortfall between the session's storage
// reserve and the price of the record at its new size from the caller
// to the session address. A failed transfer aborts the whole delivery,
// leaving size and reserve untouched.
func (h SignHandler) topUpReserve(db mosaic.KVStore, caller, session mosaic.Address, newSize int) error {
	conf, err := h.config.Load(db)
	if err != nil {
		return err
	}
	if conf.CostPerByte.IsZero() {
		return nil
	}
	required, err := conf.CostPerByte.Multiply(int64(newSize))
	if err != nil {
		return errors.Wrap(err, "required reserve")
	}
	balance, err := h.control.Balance(db, session)
	if err != nil {
		return err
	}
	reserve := balance.Amount(required.Ticker)
	if reserve.IsGTE(required) {
		return nil
	}
	shortfall, err := required.Subtract(reserve)
	if err != nil {
		return errors.Wrap(err, "shortfall")
	}
	if err := h.control.MoveCoins(db, caller, session, shortfall); err != nil {
		return errors.Wrap(err, "storage reserve")
	}
	return nil
}

// ExecuteHandler forwards an approved session to the delegated target
// and closes the session lifecycle.
type ExecuteHandler struct {
	auth      x.Authenticator
	derivator Derivator
	invoker   Invoker
	roots     RootBucket
	sessions  SessionBucket
}

var _ mosaic.Handler = ExecuteHandler{}

// NewExecuteHandler creates a handler for ExecuteMsg.
func NewExecuteHandler(auth x.Authenticator, derivator Derivator, invoker Invoker) ExecuteHandler {
	return ExecuteHandler{
		auth:      auth,
		derivator: derivator,
		invoker:   invoker,
		roots:     NewRootBucket(),
		sessions:  NewSessionBucket(),
	}
}

// Check verifies the session could be executed and allocates gas. The
// forwarded call itself only runs on delivery.
func (h ExecuteHandler) Check(ctx mosaic.Context, db mosaic.KVStore, tx mosaic.Tx) (*mosaic.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &mosaic.CheckResult{GasAllocated: executeCost}, nil
}

// Deliver performs the forwarded invocation with the registry's
// authority and marks the session executed.
func (h ExecuteHandler) Deliver(ctx mosaic.Context, db mosaic.KVStore, tx mosaic.Tx) (*mosaic.DeliverResult, error) {
	msg, session, resolved, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	ctx = withRegistry(ctx, msg.Registry)
	inv := Invocation{
		Target:   msg.Target,
		Payload:  session.Payload,
		Accounts: resolved,
	}
	// A forwarded failure propagates unchanged and, through the
	// savepoint, leaves the session un-advanced.
	if err := h.invoker.Invoke(ctx, db, inv); err != nil {
		return nil, err
	}

	if err := session.AdvancePhase(); err != nil {
		return nil, err
	}
	if err := h.sessions.Save(db, msg.Session, session); err != nil {
		return nil, err
	}
	return &mosaic.DeliverResult{}, nil
}

func (h ExecuteHandler) validate(ctx mosaic.Context, db mosaic.KVStore, tx mosaic.Tx) (*ExecuteMsg, *SigningSession, []SessionAccount, error) {
	var msg ExecuteMsg
	if err := mosaic.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	if x.MainSigner(ctx, h.auth) == nil {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	root, err := h.roots.Get(db, msg.Registry)
	if err != nil {
		return nil, nil, nil, err
	}
	if root == nil {
		return nil, nil, nil, errors.Wrap(errors.ErrNotFound, "registry")
	}
	session, err := h.sessions.Get(db, msg.Session)
	if err != nil {
		return nil, nil, nil, err
	}
	if session == nil {
		return nil, nil, nil, errors.Wrap(errors.ErrNotFound, "session")
	}
	if err := h.derivator.Verify(msg.Registry, root.Bump, RootSeeds()...); err != nil {
		return nil, nil, nil, err
	}
	if err := h.derivator.Verify(msg.Session, session.Bump, SessionSeeds(msg.Registry, session.SessionID)...); err != nil {
		return nil, nil, nil, err
	}
	if err := session.RequireSessionID(root.LastID); err != nil {
		return nil, nil, nil, err
	}
	if err := session.RequirePhase(PhaseApproved); err != nil {
		return nil, nil, nil, err
	}
	if err := root.RequireDestination(msg.Target); err != nil {
		return nil, nil, nil, err
	}
	resolved, err := resolveAccounts(session, msg.Registry, msg.Accounts)
	if err != nil {
		return nil, nil, nil, err
	}
	return &msg, session, resolved, nil
}

// resolveAccounts maps every stored descriptor to an account the
// caller made available. The registry's own address always resolves to
// the registry record, so the forwarded call can name it as an
// authorizing party. Missing references are a hard error before any
// state change.
func resolveAccounts(session *SigningSession, registry mosaic.Address, supplied []mosaic.Address) ([]SessionAccount, error) {
	available := make(map[string]struct{}, len(supplied))
	for _, addr := range supplied {
		available[string(addr)] = struct{}{}
	}
	resolved := make([]SessionAccount, 0, len(session.Accounts))
	for _, acct := range session.Accounts {
		if !acct.Address.Equals(registry) {
			if _, ok := available[string(acct.Address)]; !ok {
				return nil, errors.Wrapf(ErrMissingAccount, "%s", acct.Address)
			}
		}
		resolved = append(resolved, acct)
	}
	return resolved, nil
}
