package mosaic

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConditionParse(t *testing.T) {
	cond := NewCondition("sigs", "ed25519", []byte{1, 2, 3})
	ext, typ, data, err := cond.Parse()
	require.NoError(t, err)
	assert.Equal(t, "sigs", ext)
	assert.Equal(t, "ed25519", typ)
	assert.Equal(t, []byte{1, 2, 3}, data)

	// data may contain any byte, including newline and slash
	cond = NewCondition("multisig", "seed", []byte("a\nb/c"))
	_, _, data, err = cond.Parse()
	require.NoError(t, err)
	assert.Equal(t, []byte("a\nb/c"), data)
}

func TestConditionValidate(t *testing.T) {
	cases := map[string]struct {
		cond    Condition
		wantErr bool
	}{
		"valid":               {cond: NewCondition("multisig", "root", []byte("data"))},
		"empty":               {cond: Condition{}, wantErr: true},
		"no separators":       {cond: Condition("foobar"), wantErr: true},
		"extension too short": {cond: NewCondition("ab", "ed25519", []byte("data")), wantErr: true},
		"extension too long":  {cond: NewCondition("averylongextension", "ed25519", []byte("data")), wantErr: true},
		"no data":             {cond: Condition("sigs/ed25519/"), wantErr: true},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := tc.cond.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConditionAddress(t *testing.T) {
	a := NewCondition("sigs", "ed25519", []byte("alpha")).Address()
	b := NewCondition("sigs", "ed25519", []byte("beta")).Address()

	require.NoError(t, a.Validate())
	require.NoError(t, b.Validate())
	assert.Equal(t, AddressLength, len(a))
	assert.False(t, a.Equals(b))

	// derivation is deterministic
	again := NewCondition("sigs", "ed25519", []byte("alpha")).Address()
	assert.True(t, a.Equals(again))
}

func TestAddressValidate(t *testing.T) {
	assert.NoError(t, NewAddress([]byte("payload")).Validate())
	assert.Error(t, Address{1, 2, 3}.Validate())
	assert.Error(t, Address{}.Validate())
}

func TestAddressJSON(t *testing.T) {
	addr := NewAddress([]byte("round-trip"))
	raw, err := json.Marshal(addr)
	require.NoError(t, err)

	var restored Address
	require.NoError(t, json.Unmarshal(raw, &restored))
	assert.True(t, addr.Equals(restored))

	// an empty string decodes into a nil address
	require.NoError(t, json.Unmarshal([]byte(`""`), &restored))
	assert.Nil(t, restored)

	assert.Error(t, json.Unmarshal([]byte(`"not-hex"`), &restored))
	assert.Error(t, json.Unmarshal([]byte(`"abcd"`), &restored))
}

func TestParseAddress(t *testing.T) {
	addr := NewAddress([]byte("parse-me"))
	parsed, err := ParseAddress(addr.String())
	require.NoError(t, err)
	assert.True(t, addr.Equals(parsed))

	_, err = ParseAddress("abcd")
	assert.Error(t, err)
	_, err = ParseAddress("not-hex")
	assert.Error(t, err)
}

func TestIsValidChainID(t *testing.T) {
	assert.True(t, IsValidChainID("test-net-22"))
	assert.True(t, IsValidChainID("mosaic_devnet"))
	assert.False(t, IsValidChainID("short"))
	assert.False(t, IsValidChainID("this-chain-id-is-way-too-long"))
	assert.False(t, IsValidChainID("spaces not allowed"))
}
