/*
Package app wires the multisignature engine into a runnable ABCI
application: decorator chain, message routing, queries and the
persistent store.
*/
package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/mosaic-ledger/mosaic"
	"github.com/mosaic-ledger/mosaic/app"
	"github.com/mosaic-ledger/mosaic/errors"
	"github.com/mosaic-ledger/mosaic/store/iavl"
	"github.com/mosaic-ledger/mosaic/x"
	"github.com/mosaic-ledger/mosaic/x/cash"
	"github.com/mosaic-ledger/mosaic/x/multisig"
	"github.com/mosaic-ledger/mosaic/x/sigs"
	"github.com/mosaic-ledger/mosaic/x/utils"
)

// Authenticator returns the chain authentication: envelope signers
// plus the registry credential of forwarded invocations.
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{}, multisig.Authenticate{})
}

// CashControl returns a controller for wallet functions.
func CashControl() cash.Controller {
	return cash.NewController(cash.NewBucket())
}

// Chain returns a chain of decorators, to handle authentication,
// logging, and recovery.
func Chain(authFn x.Authenticator) app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// on DeliverTx, all writes of a failed tx are discarded
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns the message router: the four engine operations plus
// wallet sends.
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	control := CashControl()
	invoker := multisig.NewTxInvoker(TxDecoder, r)
	multisig.RegisterRoutes(r, authFn, multisig.CondDerivator{}, control, invoker)
	cash.RegisterRoutes(r, authFn, control)
	return r
}

// QueryRouter returns a default query router, allowing access to
// "/multisig/roots", "/multisig/sessions", "/wallets", and "/".
func QueryRouter() mosaic.QueryRouter {
	r := mosaic.NewQueryRouter()
	r.RegisterAll(
		multisig.RegisterQuery,
		cash.RegisterQuery,
	)
	r.Register("/", rawQuery{})
	return r
}

// rawQuery exposes the raw key space, used by test tooling and
// debugging clients.
type rawQuery struct{}

func (rawQuery) Query(db mosaic.ReadOnlyKVStore, mod string, data []byte) ([]mosaic.Model, error) {
	if mod != mosaic.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %q", mod)
	}
	value, err := db.Get(data)
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, nil
	}
	return []mosaic.Model{{Key: data, Value: value}}, nil
}

// Stack wires up a standard router with a standard decorator chain.
// This can be passed into BaseApp.
func Stack() mosaic.Handler {
	authFn := Authenticator()
	return Chain(authFn).WithHandler(Router(authFn))
}

// Application constructs a basic ABCI application with the given
// arguments. If you are not sure what to use for the Handler, just
// use Stack().
func Application(name string, h mosaic.Handler,
	tx mosaic.TxDecoder, dbPath string, debug bool) (app.BaseApp, error) {

	ctx := context.Background()
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	store := app.NewStoreApp(name, kv, QueryRouter(), ctx)
	store = store.WithInit(app.ChainInitializers(
		cash.Initializer{},
		multisig.Initializer{},
	))
	return app.NewBaseApp(store, tx, h, debug), nil
}

// CommitKVStore returns an initialized KVStore that persists the data
// to the named path.
func CommitKVStore(dbPath string) (mosaic.CommitKVStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.MockCommitStore(), nil
	}

	// Expand the path fully
	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, fmt.Errorf("invalid database name: %s", path)
	}

	// Some external calls accidentally add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	// Split the database name into it's components (dir, name)
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name), nil
}

// GenerateApp is used to create a stock app, without customization.
func GenerateApp(home string, logger log.Logger, debug bool) (abci.Application, error) {
	// db goes in a subdir, but "" stays "" to use memdb
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "mosaic.db")
	}

	stack := Stack()
	application, err := Application("mosaic", stack, TxDecoder, dbPath, debug)
	if err != nil {
		return nil, err
	}

	return DecorateApp(application, logger), nil
}

// DecorateApp adds initializers and Logger to an Application.
func DecorateApp(application app.BaseApp, logger log.Logger) app.BaseApp {
	application.WithLogger(logger)
	return application
}
