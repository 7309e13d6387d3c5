package server

import (
	"encoding/json"
	"flag"
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	"github.com/tendermint/tendermint/libs/log"

	"github.com/mosaic-ledger/mosaic"
	"github.com/mosaic-ledger/mosaic/errors"
)

const flagChainID = "chain_id"

// GenOptions can parse command-line and flag to generate default
// app_options for the genesis file. This is application-specific.
type GenOptions func(args []string) (json.RawMessage, error)

// genesisDoc is the subset of the tendermint genesis file this command
// fills in. Tendermint itself completes the validator set on its own
// init.
type genesisDoc struct {
	GenesisTime time.Time       `json:"genesis_time"`
	ChainID     string          `json:"chain_id"`
	AppState    json.RawMessage `json:"app_state,omitempty"`
}

// InitCmd writes app options into the genesis file under the home
// directory. It is a no-op when the genesis file already exists, so it
// never clobbers a configured deployment.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	var chainID string
	initFlags := flag.NewFlagSet("init", flag.ExitOnError)
	initFlags.StringVar(&chainID, flagChainID, "mosaic-devnet", "chain id for the new genesis file")
	if err := initFlags.Parse(args); err != nil {
		return err
	}
	if !mosaic.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "invalid chain id: %q", chainID)
	}

	genesisPath := filepath.Join(home, "config", "genesis.json")
	if _, err := os.Stat(genesisPath); err == nil {
		logger.Info("Genesis file exists, nothing to do", "path", genesisPath)
		return nil
	}

	var appState json.RawMessage
	if gen != nil {
		var err error
		appState, err = gen(initFlags.Args())
		if err != nil {
			return errors.Wrap(err, "generate app state")
		}
	}

	doc := genesisDoc{
		GenesisTime: time.Now().UTC(),
		ChainID:     chainID,
		AppState:    appState,
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "serialize genesis")
	}

	if err := os.MkdirAll(filepath.Dir(genesisPath), 0750); err != nil {
		return errors.Wrap(err, "create config dir")
	}
	if err := ioutil.WriteFile(genesisPath, raw, 0644); err != nil {
		return errors.Wrap(err, "write genesis")
	}
	logger.Info("Genesis file written", "path", genesisPath, "chain_id", chainID)
	return nil
}
