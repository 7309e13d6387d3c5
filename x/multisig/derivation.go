package multisig

import (
	"bytes"
	"encoding/binary"

	"github.com/mosaic-ledger/mosaic"
	"github.com/mosaic-ledger/mosaic/errors"
)

// Derivator computes the sub-addresses registry and session records
// are stored under. The unforgeability of the derived address space is
// a guarantee of the host, so the construction is injected rather than
// hard-coded.
//
// Derive picks the canonical disambiguator for the given seeds. Verify
// replays a claimed disambiguator and fails unless it reproduces the
// given address.
type Derivator interface {
	Derive(seeds ...[]byte) (mosaic.Address, uint8, error)
	Verify(addr mosaic.Address, bump uint8, seeds ...[]byte) error
}

// canonicalBump is where the search for a valid disambiguator starts.
// With a digest based derivation every offset is valid, so the first
// candidate always wins.
const canonicalBump uint8 = 255

// CondDerivator derives addresses by hashing the seeds and the
// disambiguator into a condition of this engine.
type CondDerivator struct{}

var _ Derivator = CondDerivator{}

func (CondDerivator) at(bump uint8, seeds ...[]byte) mosaic.Address {
	data := bytes.Join(seeds, nil)
	data = append(data, bump)
	return mosaic.NewCondition("multisig", "seed", data).Address()
}

// Derive returns the canonical address for the seeds.
func (d CondDerivator) Derive(seeds ...[]byte) (mosaic.Address, uint8, error) {
	if len(seeds) == 0 {
		return nil, 0, errors.Wrap(errors.ErrInput, "no seeds")
	}
	return d.at(canonicalBump, seeds...), canonicalBump, nil
}

// Verify replays the derivation with the claimed disambiguator.
func (d CondDerivator) Verify(addr mosaic.Address, bump uint8, seeds ...[]byte) error {
	if len(seeds) == 0 {
		return errors.Wrap(errors.ErrInput, "no seeds")
	}
	if !d.at(bump, seeds...).Equals(addr) {
		return errors.Wrapf(ErrDerivation, "%s", addr)
	}
	return nil
}

// RootSeeds is the seed list every registry is derived from.
func RootSeeds() [][]byte {
	return [][]byte{[]byte("root")}
}

// SessionSeeds derives a session from its registry and id. The id is
// big-endian here even though stored records are little-endian; the
// mixed layout is frozen by existing deployments.
func SessionSeeds(registry mosaic.Address, sessionID uint16) [][]byte {
	var id [2]byte
	binary.BigEndian.PutUint16(id[:], sessionID)
	return [][]byte{registry, id[:], []byte("session")}
}
