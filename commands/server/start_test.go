package server

import (
	"testing"
	"time"

	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

func TestStartStandAlone(t *testing.T) {
	logger := log.NewNopLogger()
	gen := func(home string, l log.Logger, debug bool) (abci.Application, error) {
		return abci.NewBaseApplication(), nil
	}

	// StartCmd blocks until a termination signal, so a run that is
	// still alive after the grace period is a successful start
	done := make(chan error, 1)
	go func() {
		done <- StartCmd(gen, logger, "", []string{"-bind", "tcp://localhost:11122"})
	}()

	select {
	case err := <-done:
		t.Fatalf("server died: %+v", err)
	case <-time.After(2 * time.Second):
	}
}
