package main

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/tink-crypto/tink-go/v2/aead/subtle"
)

const (
	// KeyLen is the AES-256 key size produced by deriveKey
	KeyLen = sha256.Size
	// IVLen is the full counter block prepended to the ciphertext
	IVLen = 16
	// MinPayloadLen is one IV plus at least one ciphertext byte
	MinPayloadLen = IVLen + 1

	// DefaultKeyMaterialLen is what the front-end appends to each blob
	DefaultKeyMaterialLen = 21
	keyAlphabet           = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

var errBase64Length = errors.New("invalid base64 length (mod 4 == 1), likely wrong blob split")

// deriveKey hashes the key material into an AES-256 key
func deriveKey(keyMaterial string) []byte {
	sum := sha256.Sum256([]byte(keyMaterial))
	return sum[:]
}

// decodeBase64Loose decodes standard or URL-safe base64 with or without padding.
// A data length of 1 mod 4 is rejected rather than repaired.
func decodeBase64Loose(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer("-", "+", "_", "/").Replace(s)
	s = strings.TrimRight(s, "=")

	if len(s)%4 == 1 {
		return nil, errBase64Length
	}
	return base64.RawStdEncoding.DecodeString(s)
}

// newCTR returns an AES-CTR primitive whose 16-byte IV is the initial counter block
func newCTR(key []byte) (*subtle.AESCTR, error) {
	c, err := subtle.NewAESCTR(key, IVLen)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES-CTR cipher: %w", err)
	}
	return c, nil
}

// generateKeyMaterial returns n random alphanumeric characters
func generateKeyMaterial(n int) (string, error) {
	size := big.NewInt(int64(len(keyAlphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", fmt.Errorf("failed to generate key material: %w", err)
		}
		b[i] = keyAlphabet[idx.Int64()]
	}
	return string(b), nil
}
