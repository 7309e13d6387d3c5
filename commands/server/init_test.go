package server

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/tendermint/tendermint/libs/log"
)

func TestInitCmd(t *testing.T) {
	home, err := ioutil.TempDir("", "mosaic-init")
	if err != nil {
		t.Fatalf("cannot create home dir: %s", err)
	}
	defer os.RemoveAll(home)

	gen := func(args []string) (json.RawMessage, error) {
		return json.RawMessage(`{"cash": []}`), nil
	}
	logger := log.NewNopLogger()

	if err := InitCmd(gen, logger, home, nil); err != nil {
		t.Fatalf("init failed: %+v", err)
	}

	raw, err := ioutil.ReadFile(filepath.Join(home, "config", "genesis.json"))
	if err != nil {
		t.Fatalf("cannot read genesis: %s", err)
	}
	var doc genesisDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("cannot parse genesis: %s", err)
	}
	if doc.ChainID != "mosaic-devnet" {
		t.Fatalf("unexpected chain id: %q", doc.ChainID)
	}
	var state map[string]json.RawMessage
	if err := json.Unmarshal(doc.AppState, &state); err != nil {
		t.Fatalf("cannot parse app state: %s", err)
	}
	if _, ok := state["cash"]; !ok {
		t.Fatalf("unexpected app state: %s", doc.AppState)
	}

	// a second run must not touch the existing file
	gen = func(args []string) (json.RawMessage, error) {
		t.Fatal("app state must not be regenerated")
		return nil, nil
	}
	if err := InitCmd(gen, logger, home, nil); err != nil {
		t.Fatalf("re-init failed: %+v", err)
	}
}

func TestInitCmdInvalidChainID(t *testing.T) {
	home, err := ioutil.TempDir("", "mosaic-init")
	if err != nil {
		t.Fatalf("cannot create home dir: %s", err)
	}
	defer os.RemoveAll(home)

	if err := InitCmd(nil, log.NewNopLogger(), home, []string{"-chain_id", "x"}); err == nil {
		t.Fatal("an invalid chain id must be rejected")
	}
}

func TestParseStartFlags(t *testing.T) {
	addr, debug, err := parseFlags([]string{"-bind", "tcp://0.0.0.0:1234", "-debug"})
	if err != nil {
		t.Fatalf("cannot parse flags: %s", err)
	}
	if addr != "tcp://0.0.0.0:1234" {
		t.Fatalf("unexpected bind address: %q", addr)
	}
	if !debug {
		t.Fatal("debug flag not parsed")
	}
}
