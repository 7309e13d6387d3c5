package app

import (
	"bytes"
	"testing"

	"github.com/mosaic-ledger/mosaic"
)

func TestResultSetRoundTrip(t *testing.T) {
	cases := map[string]struct {
		results [][]byte
	}{
		"empty set":     {results: nil},
		"single result": {results: [][]byte{[]byte("foo")}},
		"many results": {
			results: [][]byte{[]byte("foo"), []byte("b"), bytes.Repeat([]byte("x"), 1000)},
		},
		"contains empty chunk": {
			results: [][]byte{[]byte("foo"), {}, []byte("bar")},
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			in := ResultSet{Results: tc.results}
			bz, err := in.Marshal()
			if err != nil {
				t.Fatalf("cannot marshal: %+v", err)
			}
			var out ResultSet
			if err := out.Unmarshal(bz); err != nil {
				t.Fatalf("cannot unmarshal: %+v", err)
			}
			if len(out.Results) != len(tc.results) {
				t.Fatalf("want %d results, got %d", len(tc.results), len(out.Results))
			}
			for i := range tc.results {
				if !bytes.Equal(out.Results[i], tc.results[i]) {
					t.Errorf("result %d: want %q, got %q", i, tc.results[i], out.Results[i])
				}
			}
		})
	}
}

func TestResultSetTruncated(t *testing.T) {
	in := ResultSet{Results: [][]byte{[]byte("some longer value here")}}
	bz, err := in.Marshal()
	if err != nil {
		t.Fatalf("cannot marshal: %+v", err)
	}
	var out ResultSet
	if err := out.Unmarshal(bz[:len(bz)-3]); err == nil {
		t.Fatal("truncated input must be rejected")
	}
}

func TestJoinResults(t *testing.T) {
	models := []mosaic.Model{
		{Key: []byte("k1"), Value: []byte("v1")},
		{Key: []byte("k2"), Value: []byte("v2")},
	}
	keys := ResultsFromKeys(models)
	values := ResultsFromValues(models)

	joined, err := JoinResults(keys, values)
	if err != nil {
		t.Fatalf("cannot join: %+v", err)
	}
	if len(joined) != len(models) {
		t.Fatalf("want %d models, got %d", len(models), len(joined))
	}
	for i := range models {
		if !bytes.Equal(joined[i].Key, models[i].Key) || !bytes.Equal(joined[i].Value, models[i].Value) {
			t.Errorf("model %d mismatch", i)
		}
	}

	// mismatched sizes must error
	if _, err := JoinResults(keys, &ResultSet{}); err == nil {
		t.Fatal("mismatched sets must be rejected")
	}
}
