package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPubkeyBase58RoundTrip(t *testing.T) {
	var pk Pubkey
	for i := range pk {
		pk[i] = byte(i * 7)
	}

	encoded := pk.String()
	decoded, err := PubkeyFromBase58(encoded)
	require.NoError(t, err)
	require.Equal(t, pk, decoded)
}

func TestPubkeyFromBase58Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"too short", "abc"},
		{"invalid characters", "0OIl"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := PubkeyFromBase58(tc.input)
			require.Error(t, err)
		})
	}
}

func TestPubkeyJSON(t *testing.T) {
	var pk Pubkey
	pk[0] = 0xAB
	pk[31] = 0xCD

	data, err := json.Marshal(pk)
	require.NoError(t, err)

	var decoded Pubkey
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, pk, decoded)
}

func TestHashHexRoundTrip(t *testing.T) {
	var h Hash
	for i := range h {
		h[i] = byte(255 - i)
	}

	parsed, err := HashFromHex(h.String())
	require.NoError(t, err)
	require.Equal(t, h, parsed)

	_, err = HashFromHex("zz")
	require.Error(t, err)

	_, err = HashFromHex("abcd")
	require.Error(t, err)
}

func TestZeroChecks(t *testing.T) {
	require.True(t, ZeroPubkey.IsZero())
	require.True(t, Hash{}.IsZero())

	var pk Pubkey
	pk[5] = 1
	require.False(t, pk.IsZero())
}
