package mosaic

import (
	"reflect"

	"github.com/mosaic-ledger/mosaic/errors"
)

// Marshaller is anything that can be represented in binary.
//
// Marshal may validate the data before serializing it and
// unless you previously validated the struct,
// errors should be expected.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Persistent supports Marshal and Unmarshal
//
// This is separated from Marshal, as this almost always requires
// a pointer, and functions that only need to marshal bytes can
// use the Marshaller interface to access non-pointers.
//
// As with Marshaller, this may do internal validation on the data
// and errors should be expected.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// Msg is a request processed by the engine, making exactly one state
// transition. It is just the request, and must be validated by the Handlers.
// All authentication information is in the wrapping Tx.
type Msg interface {
	Persistent

	// Validate performs a sanity check on the message content. It does
	// not require any access to the database state.
	Validate() error

	// Path returns the message path.
	// This is used by the Router to locate the proper Handler.
	// Msg should be created alongside the Handler that corresponds to them.
	//
	// Must be alphanumeric [0-9A-Za-z_\-/]+
	Path() string
}

// Tx represents the data sent from the user to the chain. It includes the
// actual message, along with information needed to authenticate the sender
// (provided by the surrounding host environment), and anything else needed
// to pass through middleware.
type Tx interface {
	Persistent

	// GetMsg returns the action we wish to communicate
	GetMsg() (Msg, error)
}

// GetPath returns the path of the message, or (missing) if no message
func GetPath(tx Tx) string {
	msg, err := tx.GetMsg()
	if err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// TxDecoder can parse bytes into a Tx
type TxDecoder func(txBytes []byte) (Tx, error)

// LoadMsg extracts the message from the transaction, makes sure it is of the
// expected type, validates it and loads into the destination.
func LoadMsg(tx Tx, destination Msg) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "cannot get message")
	}
	if msg == nil {
		return errors.Wrap(errors.ErrState, "transaction without a message")
	}

	dVal := reflect.ValueOf(destination)
	if dVal.Kind() != reflect.Ptr {
		return errors.Wrapf(errors.ErrType, "destination must be a pointer, got %T", destination)
	}
	mVal := reflect.ValueOf(msg)
	if !mVal.Type().AssignableTo(dVal.Type()) {
		return errors.Wrapf(errors.ErrType, "want %T, got %T", destination, msg)
	}
	dVal.Elem().Set(mVal.Elem())

	if err := destination.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}
	return nil
}
