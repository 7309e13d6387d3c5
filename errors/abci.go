package errors

const (
	// SuccessABCICode declares an ABCI response use code 0 for success.
	SuccessABCICode = 0

	// All unclassified errors that do not provide an ABCI code are clubbed
	// under an internal error code and a generic message instead of
	// detailed error string.
	internalABCICode uint32 = 1
	internalABCILog  string = "internal error"
)

// ABCIInfo returns the ABCI error information as consumed by the tendermint
// client. Returned code and log message should be used as a ABCI response.
// Any error that does not provide ABCICode information is categorized as error
// with code 1, that is the internal error.
//
// When not running in a debug mode, all messages of errors that do not provide
// ABCICode information are replaced with generic "internal error". Errors
// without an ABCICode information as considered internal.
func ABCIInfo(err error, debug bool) (uint32, string) {
	if errIsNil(err) {
		return SuccessABCICode, ""
	}

	// Only non-internal errors information can be exposed to the client.
	// Any error of an unknown origin is kept hidden.
	if code := abciCode(err); code != internalABCICode || debug {
		return code, err.Error()
	}
	return internalABCICode, internalABCILog
}

// abciCode tests if given error contains an ABCI code and returns the value of
// it if available. This function is testing for the causer interface as well
// and unwraps the error.
func abciCode(err error) uint32 {
	if errIsNil(err) {
		return SuccessABCICode
	}

	for {
		if c, ok := err.(coder); ok {
			return c.ABCICode()
		}

		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return internalABCICode
		}
	}
}

// errIsNil returns true if value represented by the given error is nil.
//
// Most of the time a simple == check is enough. There is a very narrowed
// spectrum of cases (mostly in tests) where a more sophisticated check is
// required.
func errIsNil(err error) bool {
	if err == nil {
		return true
	}
	if e, ok := err.(*Error); ok {
		return e == nil
	}
	return false
}

// Redact replaces all errors without a registered code with a generic
// internal error instance. This hides implementation detail errors and
// leaves only those the framework originates.
func Redact(err error) error {
	if ErrPanic.Is(err) {
		return errInternal
	}
	if abciCode(err) == internalABCICode {
		return errInternal
	}
	return err
}

// errInternal is a sentinel returned to the client instead of any error that
// must not leak implementation details.
var errInternal = &Error{code: internalABCICode, desc: internalABCILog}

// ABCIError resolves an error code and log from an abci response into
// an error. Registered codes map back to their root error so that Is
// checks keep working on the client side.
func ABCIError(code uint32, log string) error {
	if code == SuccessABCICode {
		return nil
	}
	if e, ok := usedCodes[code]; ok && e != nil {
		return Wrap(e, log)
	}
	return Wrap(&Error{code: code, desc: "unknown"}, log)
}
