package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveKey_PassesThrough(t *testing.T) {
	for _, key := range []string{"", testKey21} {
		got, err := resolveKey(key)
		require.NoError(t, err)
		assert.Equal(t, key, got)
	}
}

func TestKeyFromInput(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"plain", testKey21, testKey21, false},
		{"trailing newline", testKey21 + "\r\n", testKey21, false},
		{"surrounding spaces", "  " + testKey21 + "\t", testKey21, false},
		{"empty", "", "", true},
		{"only whitespace", " \t\n", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := keyFromInput([]byte(tc.input))
			if tc.wantErr {
				assert.ErrorIs(t, err, errEmptyKey)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestZeroBytes(t *testing.T) {
	b := []byte("secret")
	zeroBytes(b)
	assert.Equal(t, make([]byte, 6), b)
}
