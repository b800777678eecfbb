package main

import (
	"fmt"
	"io"
	"unicode/utf8"

	"go.uber.org/zap"
)

func decrypt(opts Options, stdin io.Reader, stdout io.Writer, logger *zap.Logger) error {
	// Load the response
	doc, err := loadDocument(opts.Input, stdin)
	if err != nil {
		return err
	}

	// Find the encrypted string
	blob, foundAt, err := locateBlob(doc, opts.BlobPath)
	if err != nil {
		return err
	}
	logger.Debug("blob located", zap.String("path", foundAt), zap.Int("length", len(blob)))

	// Split off the key material
	var c Candidate
	if opts.Key != "" {
		c, err = explicitCandidate(blob, opts.Key)
	} else {
		c, err = splitBlob(blob, opts.KeyLengths, logger)
	}
	if err != nil {
		return err
	}

	plain, err := decryptCandidate(c)
	if err != nil {
		return err
	}
	logger.Debug("blob decrypted", zap.String("strategy", c.Strategy), zap.Int("plaintext_len", len(plain.Raw)))

	return emit(plain.Root, opts.Output, stdout)
}

// decryptCandidate decrypts and parses the encoded half of a split blob
func decryptCandidate(c Candidate) (*Document, error) {
	key := deriveKey(c.KeyMaterial)
	defer zeroBytes(key)

	raw, err := decodeBase64Loose(c.Encoded)
	if err != nil {
		return nil, fmt.Errorf("invalid ciphertext encoding: %w", err)
	}
	if len(raw) < MinPayloadLen {
		return nil, fmt.Errorf("%w (%d bytes)", ErrPayloadTooShort, len(raw))
	}

	ctr, err := newCTR(key)
	if err != nil {
		return nil, err
	}

	// The first IVLen bytes are the initial counter block
	pt, err := ctr.Decrypt(raw)
	if err != nil {
		return nil, fmt.Errorf("decryption failed: %w", err)
	}

	if !utf8.Valid(pt) {
		return nil, ErrNotUTF8
	}

	doc, err := parseDocument(pt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrJSONParse, err)
	}
	return doc, nil
}
