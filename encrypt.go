package main

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// sealBlob encrypts plaintext under keyMaterial and appends the key, producing
// a blob in the shape the front-end serves
func sealBlob(plaintext []byte, keyMaterial string, raw bool) (string, error) {
	key := deriveKey(keyMaterial)
	defer zeroBytes(key)

	ctr, err := newCTR(key)
	if err != nil {
		return "", err
	}

	// Encrypt prepends a random IV
	ct, err := ctr.Encrypt(plaintext)
	if err != nil {
		return "", fmt.Errorf("encryption failed: %w", err)
	}

	encoding := base64.StdEncoding
	if raw {
		encoding = base64.RawStdEncoding
	}
	return encoding.EncodeToString(ct) + keyMaterial, nil
}

func seal(opts SealOptions, stdin io.Reader, stdout io.Writer) error {
	doc, err := loadDocument(opts.Input, stdin)
	if err != nil {
		return err
	}

	keyMaterial := opts.Key
	if keyMaterial == "" {
		keyMaterial, err = generateKeyMaterial(DefaultKeyMaterialLen)
		if err != nil {
			return err
		}
	}

	blob, err := sealBlob(doc.Raw, keyMaterial, opts.Raw)
	if err != nil {
		return err
	}

	out := []byte(blob)
	if opts.Wrap {
		wrapped := map[string]any{
			"props": map[string]any{
				"pageProps": map[string]any{"a": blob},
			},
		}
		out, err = json.Marshal(wrapped)
		if err != nil {
			return fmt.Errorf("failed to marshal wrapper: %w", err)
		}
	}

	if opts.Output == "" {
		if _, err := fmt.Fprintln(stdout, string(out)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(opts.Output, out, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", opts.Output, err)
	}
	if _, err := fmt.Fprintf(stdout, "OK: wrote sealed blob to %s\n", opts.Output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
