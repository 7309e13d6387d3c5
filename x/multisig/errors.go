package multisig

import "github.com/mosaic-ledger/mosaic/errors"

var (
	// ErrNotOperator is returned when the acting signer is not part of
	// the registry operator set.
	ErrNotOperator = errors.Register(1200, "not an operator")

	// ErrAlreadyApproved is returned when an operator signs a session
	// a second time.
	ErrAlreadyApproved = errors.Register(1201, "already approved")

	// ErrPhase is returned when the session is not in the phase the
	// operation requires.
	ErrPhase = errors.Register(1202, "incorrect session phase")

	// ErrFinalStage is returned when advancing a session that is
	// already executed.
	ErrFinalStage = errors.Register(1203, "session at final stage")

	// ErrSessionID is returned when the session id does not equal the
	// registry's last issued id.
	ErrSessionID = errors.Register(1204, "session id does not match registry")

	// ErrTarget is returned when the supplied execution target is not
	// the registry's delegated target.
	ErrTarget = errors.Register(1205, "delegated target mismatch")

	// ErrMissingAccount is returned when a session references an
	// account the caller did not supply.
	ErrMissingAccount = errors.Register(1206, "referenced account not supplied")

	// ErrDerivation is returned when a derived address does not match
	// the stored disambiguator.
	ErrDerivation = errors.Register(1207, "derived address mismatch")

	// ErrIDOverflow is returned when the 16 bit session counter would
	// wrap.
	ErrIDOverflow = errors.Register(1208, "session id overflow")
)
