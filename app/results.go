package app

import (
	"encoding/binary"

	"github.com/mosaic-ledger/mosaic"
	"github.com/mosaic-ledger/mosaic/errors"
)

// ResultSet is a list of binary values returned from a query. It is
// serialized as a sequence of length-prefixed chunks, so it can carry
// 0 to N values over the abci interface.
type ResultSet struct {
	Results [][]byte
}

// Marshal serializes all results, each prefixed with its uvarint length
func (r *ResultSet) Marshal() ([]byte, error) {
	var size int
	for _, res := range r.Results {
		size += binary.MaxVarintLen64 + len(res)
	}
	out := make([]byte, 0, size)
	var scratch [binary.MaxVarintLen64]byte
	for _, res := range r.Results {
		n := binary.PutUvarint(scratch[:], uint64(len(res)))
		out = append(out, scratch[:n]...)
		out = append(out, res...)
	}
	return out, nil
}

// Unmarshal restores a list of length-prefixed chunks
func (r *ResultSet) Unmarshal(bz []byte) error {
	var results [][]byte
	for len(bz) > 0 {
		size, n := binary.Uvarint(bz)
		if n <= 0 {
			return errors.Wrap(errors.ErrInput, "invalid length prefix")
		}
		bz = bz[n:]
		if uint64(len(bz)) < size {
			return errors.Wrapf(errors.ErrInput, "truncated result: want %d bytes, got %d", size, len(bz))
		}
		results = append(results, bz[:size:size])
		bz = bz[size:]
	}
	r.Results = results
	return nil
}

// ResultsFromKeys returns a ResultSet of all keys
// given a set of models
func ResultsFromKeys(models []mosaic.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Key
	}
	return &ResultSet{Results: res}
}

// ResultsFromValues returns a ResultSet of all values
// given a set of models
func ResultsFromValues(models []mosaic.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Value
	}
	return &ResultSet{Results: res}
}

// JoinResults inverts ResultsFromKeys and ResultsFromValues
// and makes them a consistent whole again
func JoinResults(keys, values *ResultSet) ([]mosaic.Model, error) {
	kref, vref := keys.Results, values.Results
	if len(kref) != len(vref) {
		return nil, errors.Wrap(errors.ErrInput, "mismatched result set size")
	}
	mods := make([]mosaic.Model, len(kref))
	for i := range mods {
		mods[i] = mosaic.Model{
			Key:   kref[i],
			Value: vref[i],
		}
	}
	return mods, nil
}

// UnmarshalOneResult will parse a resultset, and
// if it is not empty, unmarshal the first result into o
func UnmarshalOneResult(bz []byte, o mosaic.Persistent) error {
	// get the resultset
	var res ResultSet
	if err := res.Unmarshal(bz); err != nil {
		return err
	}

	// no results, do nothing
	if len(res.Results) == 0 {
		return nil
	}

	return o.Unmarshal(res.Results[0])
}
