package multisig

import (
	"fmt"
	"math"

	"github.com/mosaic-ledger/mosaic"
	"github.com/mosaic-ledger/mosaic/errors"
	"github.com/mosaic-ledger/mosaic/orm"
)

// Phase is the lifecycle stage of a signing session.
type Phase uint8

// Phase zero is the all-zero default of unallocated storage and must
// never be observed on a stored record.
const (
	PhaseUninitialized Phase = 0
	PhaseActive        Phase = 1
	PhaseApproved      Phase = 2
	PhaseExecuted      Phase = 3
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseActive:
		return "active"
	case PhaseApproved:
		return "approved"
	case PhaseExecuted:
		return "executed"
	default:
		return fmt.Sprintf("invalid(%d)", uint8(p))
	}
}

// Root is the singleton governance record of one registry: who may
// approve, how many approvals are needed, and where approved payloads
// are forwarded.
type Root struct {
	// Operators may contain duplicates. They are accepted but only
	// waste threshold slots, as approvals are deduplicated per address.
	Operators []mosaic.Address
	// LastID is the id of the most recently opened session and the
	// only id Sign and Execute accept.
	LastID uint16
	// Threshold is the exact number of distinct approvals that flips a
	// session to approved. It is deliberately not checked against the
	// operator count.
	Threshold uint8
	// Destination is the only target Execute may forward to.
	Destination mosaic.Address
	// Bump replays the address derivation for verification.
	Bump uint8
}

var _ orm.CloneableData = (*Root)(nil)

// NewRoot returns a registry with no session issued yet.
func NewRoot(operators []mosaic.Address, threshold uint8, destination mosaic.Address, bump uint8) *Root {
	return &Root{
		Operators:   operators,
		Threshold:   threshold,
		Destination: destination,
		Bump:        bump,
	}
}

// Validate enforces the stored form, not business rules.
func (root *Root) Validate() error {
	var err error
	if len(root.Operators) == 0 {
		err = errors.Append(err, errors.Wrap(errors.ErrEmpty, "operators"))
	}
	for i, op := range root.Operators {
		err = errors.Append(err, errors.Wrapf(op.Validate(), "operator %d", i))
	}
	if root.Threshold == 0 {
		err = errors.Append(err, errors.Wrap(errors.ErrInput, "zero threshold"))
	}
	err = errors.Append(err, errors.Wrap(root.Destination.Validate(), "destination"))
	return err
}

// Copy produces a deep copy of the record.
func (root *Root) Copy() orm.CloneableData {
	operators := make([]mosaic.Address, len(root.Operators))
	for i, op := range root.Operators {
		operators[i] = op.Clone()
	}
	return &Root{
		Operators:   operators,
		LastID:      root.LastID,
		Threshold:   root.Threshold,
		Destination: root.Destination.Clone(),
		Bump:        root.Bump,
	}
}

// IncrementSessionID issues the next session id. The 16 bit counter
// never silently wraps.
func (root *Root) IncrementSessionID() error {
	if root.LastID == math.MaxUint16 {
		return errors.Wrap(ErrIDOverflow, "registry exhausted")
	}
	root.LastID++
	return nil
}

// RequireOperator fails unless the candidate is in the operator set.
// Operator lists are small, a linear scan is fine.
func (root *Root) RequireOperator(candidate mosaic.Address) error {
	for _, op := range root.Operators {
		if op.Equals(candidate) {
			return nil
		}
	}
	return errors.Wrapf(ErrNotOperator, "%s", candidate)
}

// RequireDestination fails unless the candidate is the delegated
// target.
func (root *Root) RequireDestination(candidate mosaic.Address) error {
	if !root.Destination.Equals(candidate) {
		return errors.Wrapf(ErrTarget, "want %s, got %s", root.Destination, candidate)
	}
	return nil
}

// SessionAccount describes one account the forwarded invocation needs
// and in which role.
type SessionAccount struct {
	Address  mosaic.Address
	Signer   bool
	Writable bool
}

// Validate returns an error when the address is malformed.
func (a SessionAccount) Validate() error {
	return errors.Wrap(a.Address.Validate(), "address")
}

// SigningSession is one proposed forwarded action: its payload, the
// accounts the forwarded call references, and the approvals collected
// so far.
type SigningSession struct {
	// SessionID ties the session to the registry generation that
	// issued it.
	SessionID uint16
	// Root is the owning registry address. Informational only, it is
	// never consulted for authorization.
	Root mosaic.Address
	// Phase moves strictly forward, one step per successful operation.
	Phase Phase
	// Approvals holds distinct operator addresses in signing order.
	Approvals []mosaic.Address
	// Payload is forwarded verbatim on execution.
	Payload []byte
	// Accounts are the roles the forwarded invocation runs with.
	Accounts []SessionAccount
	// Bump replays the address derivation for verification.
	Bump uint8
}

var _ orm.CloneableData = (*SigningSession)(nil)

// NewSession opens a session in active phase with no approvals.
func NewSession(sessionID uint16, root mosaic.Address, payload []byte, accounts []SessionAccount, bump uint8) *SigningSession {
	return &SigningSession{
		SessionID: sessionID,
		Root:      root,
		Phase:     PhaseActive,
		Payload:   payload,
		Accounts:  accounts,
		Bump:      bump,
	}
}

// Validate enforces the stored form.
func (s *SigningSession) Validate() error {
	var err error
	if s.Phase < PhaseActive || s.Phase > PhaseExecuted {
		err = errors.Append(err, errors.Wrapf(errors.ErrState, "phase %s", s.Phase))
	}
	err = errors.Append(err, errors.Wrap(s.Root.Validate(), "root"))
	for i, approval := range s.Approvals {
		err = errors.Append(err, errors.Wrapf(approval.Validate(), "approval %d", i))
	}
	for i, acct := range s.Accounts {
		err = errors.Append(err, errors.Wrapf(acct.Validate(), "account %d", i))
	}
	return err
}

// Copy produces a deep copy of the record.
func (s *SigningSession) Copy() orm.CloneableData {
	approvals := make([]mosaic.Address, len(s.Approvals))
	for i, a := range s.Approvals {
		approvals[i] = a.Clone()
	}
	accounts := make([]SessionAccount, len(s.Accounts))
	for i, acct := range s.Accounts {
		accounts[i] = SessionAccount{
			Address:  acct.Address.Clone(),
			Signer:   acct.Signer,
			Writable: acct.Writable,
		}
	}
	return &SigningSession{
		SessionID: s.SessionID,
		Root:      s.Root.Clone(),
		Phase:     s.Phase,
		Approvals: approvals,
		Payload:   append([]byte(nil), s.Payload...),
		Accounts:  accounts,
		Bump:      s.Bump,
	}
}

// RecordApproval appends the operator to the approval list. A repeated
// approval fails and leaves the list unchanged.
func (s *SigningSession) RecordApproval(operator mosaic.Address) error {
	for _, approval := range s.Approvals {
		if approval.Equals(operator) {
			return errors.Wrapf(ErrAlreadyApproved, "%s", operator)
		}
	}
	s.Approvals = append(s.Approvals, operator)
	return nil
}

// ThresholdReached reports whether the approval count equals the
// threshold exactly. Overshooting a threshold never flips the phase,
// the phase gate makes overshooting unreachable in the first place.
func (s *SigningSession) ThresholdReached(threshold uint8) bool {
	return len(s.Approvals) == int(threshold)
}

// AdvancePhase steps the lifecycle forward by exactly one stage.
func (s *SigningSession) AdvancePhase() error {
	switch s.Phase {
	case PhaseActive:
		s.Phase = PhaseApproved
	case PhaseApproved:
		s.Phase = PhaseExecuted
	case PhaseExecuted:
		return errors.Wrap(ErrFinalStage, "session already executed")
	default:
		return errors.Wrapf(errors.ErrState, "phase %s", s.Phase)
	}
	return nil
}

// RequirePhase fails unless the session is in the expected phase. An
// executed session reports the final stage error so callers can tell
// "too late" from "too early".
func (s *SigningSession) RequirePhase(expected Phase) error {
	if s.Phase == expected {
		return nil
	}
	if s.Phase == PhaseExecuted {
		return errors.Wrap(ErrFinalStage, "session already executed")
	}
	return errors.Wrapf(ErrPhase, "want %s, got %s", expected, s.Phase)
}

// RequireSessionID fails unless the session belongs to the registry
// generation currently accepting operations.
func (s *SigningSession) RequireSessionID(registryLastID uint16) error {
	if s.SessionID != registryLastID {
		return errors.Wrapf(ErrSessionID, "session %d, registry %d", s.SessionID, registryLastID)
	}
	return nil
}

//--- buckets

// RootBucket is a type-safe wrapper around orm.Bucket storing registry
// records under their derived address.
type RootBucket struct {
	orm.Bucket
}

// NewRootBucket creates a bucket for registry records.
func NewRootBucket() RootBucket {
	return RootBucket{
		Bucket: orm.NewBucket("msroot", orm.NewSimpleObj(nil, new(Root))),
	}
}

// Get loads the registry at the given address, or nil if absent.
func (b RootBucket) Get(db mosaic.ReadOnlyKVStore, key mosaic.Address) (*Root, error) {
	obj, err := b.Bucket.Get(db, key)
	if err != nil || obj == nil {
		return nil, err
	}
	return obj.Value().(*Root), nil
}

// Save persists the registry under its address.
func (b RootBucket) Save(db mosaic.KVStore, key mosaic.Address, root *Root) error {
	return b.Bucket.Save(db, orm.NewSimpleObj(key, root))
}

// SessionBucket is a type-safe wrapper around orm.Bucket storing
// session records under their derived address.
type SessionBucket struct {
	orm.Bucket
}

// NewSessionBucket creates a bucket for session records.
func NewSessionBucket() SessionBucket {
	return SessionBucket{
		Bucket: orm.NewBucket("mssession", orm.NewSimpleObj(nil, new(SigningSession))),
	}
}

// Get loads the session at the given address, or nil if absent.
func (b SessionBucket) Get(db mosaic.ReadOnlyKVStore, key mosaic.Address) (*SigningSession, error) {
	obj, err := b.Bucket.Get(db, key)
	if err != nil || obj == nil {
		return nil, err
	}
	return obj.Value().(*SigningSession), nil
}

// Save persists the session under its address.
func (b SessionBucket) Save(db mosaic.KVStore, key mosaic.Address, session *SigningSession) error {
	return b.Bucket.Save(db, orm.NewSimpleObj(key, session))
}

// StoredSize returns the byte size of the session record as currently
// persisted, or 0 when absent. Sign needs it to detect a resize.
func (b SessionBucket) StoredSize(db mosaic.ReadOnlyKVStore, key mosaic.Address) (int, error) {
	raw, err := db.Get(b.DBKey(key))
	if err != nil {
		return 0, err
	}
	return len(raw), nil
}
