package errors

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
)

func TestErrorIs(t *testing.T) {
	cases := map[string]struct {
		a      *Error
		b      error
		wantIs bool
	}{
		"instance of the same error": {
			a:      ErrUnauthorized,
			b:      ErrUnauthorized,
			wantIs: true,
		},
		"two different registered errors": {
			a:      ErrUnauthorized,
			b:      ErrNotFound,
			wantIs: false,
		},
		"successful comparison to a wrapped error": {
			a:      ErrUnauthorized,
			b:      Wrap(ErrUnauthorized, "gone"),
			wantIs: true,
		},
		"unsuccessful comparison to a wrapped error": {
			a:      ErrUnauthorized,
			b:      Wrap(ErrNotFound, "too short"),
			wantIs: false,
		},
		"not equal to stdlib error": {
			a:      ErrUnauthorized,
			b:      fmt.Errorf("stdlib error"),
			wantIs: false,
		},
		"not equal to a wrapped stdlib error": {
			a:      ErrUnauthorized,
			b:      Wrap(fmt.Errorf("stdlib error"), "wrapped"),
			wantIs: false,
		},
		"nil is nil": {
			a:      nil,
			b:      nil,
			wantIs: true,
		},
		"nil is not a registered error": {
			a:      nil,
			b:      ErrNotFound,
			wantIs: false,
		},
		"registered error is not nil": {
			a:      ErrNotFound,
			b:      nil,
			wantIs: false,
		},
		"multi error with the same error": {
			a:      ErrNotFound,
			b:      Append(ErrNotFound, ErrState),
			wantIs: true,
		},
		"multi error with nested wrapping": {
			a:      ErrNotFound,
			b:      Append(Wrap(ErrNotFound, "wrapped"), ErrState),
			wantIs: true,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := tc.a.Is(tc.b); got != tc.wantIs {
				t.Fatalf("unexpected result: %v", got)
			}
		})
	}
}

func TestWrapEmpty(t *testing.T) {
	if err := Wrap(nil, "wrapping <nil>"); err != nil {
		t.Fatal(err)
	}
}

func TestWrappedIs(t *testing.T) {
	err := Wrap(ErrDuplicate, "cannot save")
	if !ErrDuplicate.Is(err) {
		t.Fatal("derived error must be a member of the root error class")
	}

	err = Wrap(err, "persisting")
	if !ErrDuplicate.Is(err) {
		t.Fatal("derived error must be a member of the root error class")
	}
}

func TestWrappedIsFails(t *testing.T) {
	err := errors.New("boom")
	err = Wrap(err, "wrapped")
	if ErrDuplicate.Is(err) {
		t.Fatal("wrapped stdlib error must not be a member of a root error class")
	}
}

func TestABCInfo(t *testing.T) {
	cases := map[string]struct {
		err      error
		debug    bool
		wantCode uint32
		wantLog  string
	}{
		"plain registered error": {
			err:      ErrNotFound,
			debug:    false,
			wantLog:  "not found",
			wantCode: ErrNotFound.code,
		},
		"wrapped registered error": {
			err:      Wrap(Wrap(ErrNotFound, "foo"), "bar"),
			debug:    false,
			wantLog:  "bar: foo: not found",
			wantCode: ErrNotFound.code,
		},
		"nil is empty message": {
			err:      nil,
			debug:    false,
			wantLog:  "",
			wantCode: 0,
		},
		"nil registered error is <nil>": {
			err:      (*Error)(nil),
			debug:    false,
			wantLog:  "",
			wantCode: 0,
		},
		"stdlib is generic message": {
			err:      fmt.Errorf("stdlib"),
			debug:    false,
			wantLog:  "internal error",
			wantCode: internalABCICode,
		},
		"stdlib returns error message in debug mode": {
			err:      fmt.Errorf("stdlib"),
			debug:    true,
			wantLog:  "stdlib",
			wantCode: internalABCICode,
		},
		"wrapped stdlib is only a generic message": {
			err:      Wrap(fmt.Errorf("stdlib"), "wrapped"),
			debug:    false,
			wantLog:  "internal error",
			wantCode: internalABCICode,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			code, log := ABCIInfo(tc.err, tc.debug)
			if code != tc.wantCode {
				t.Errorf("want %d code, got %d", tc.wantCode, code)
			}
			if log != tc.wantLog {
				t.Errorf("want %q log, got %q", tc.wantLog, log)
			}
		})
	}
}

func TestRedact(t *testing.T) {
	if err := Redact(ErrPanic); ErrPanic.Is(err) {
		t.Error("reduct must not pass through panic error")
	}
	if err := Redact(ErrNotFound); !ErrNotFound.Is(err) {
		t.Error("reduct should pass through a registered error")
	}

	var cerr customErr
	if err := Redact(cerr); err != cerr {
		t.Error("reduct should pass through a custom error with a code")
	}

	serr := fmt.Errorf("stdlib error")
	if err := Redact(serr); err == serr {
		t.Error("reduct must not pass through a stdlib error")
	}
}

func TestStackTrace(t *testing.T) {
	err := Wrap(ErrDuplicate, "outer")
	if st := stackTrace(err); st == nil {
		t.Fatal("wrapped error must carry a stack trace")
	}
	// Wrapping the second time must not shadow the original trace.
	first := fmt.Sprintf("%+v", stackTrace(err)[0])
	err = Wrap(err, "even more outer")
	if got := fmt.Sprintf("%+v", stackTrace(err)[0]); got != first {
		t.Fatalf("stack trace reattached: %s", got)
	}
}

func TestRecover(t *testing.T) {
	run := func() (err error) {
		defer Recover(&err)
		panic("under pressure")
	}
	err := run()
	if !ErrPanic.Is(err) {
		t.Fatalf("recovered error must be a panic error: %+v", err)
	}
}

// customErr is a custom implementation of an error that provides an ABCICode
// method.
type customErr struct{}

func (customErr) ABCICode() uint32 { return 999 }

func (customErr) Error() string { return "custom" }
