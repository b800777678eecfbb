package main

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInput           = errors.New("input error")
	ErrNotFound        = errors.New("could not find pageProps.a in the provided JSON")
	ErrSplit           = errors.New("could not split blob into (key, encoded ciphertext)")
	ErrPayloadTooShort = errors.New("decoded payload too short")
	ErrNotUTF8         = errors.New("decrypted bytes are not valid UTF-8 (wrong key split?)")
	ErrJSONParse       = errors.New("decrypted text is not valid JSON")
)

// Candidate is one guess at where the key material starts in a blob
type Candidate struct {
	Strategy    string
	KeyMaterial string
	Encoded     string
}

// SplitAttempt records why a candidate was rejected
type SplitAttempt struct {
	KeyPrefix  string
	EncodedLen int
	Err        error
}

// SplitError is returned when no candidate's encoded half decodes.
type SplitError struct {
	Attempts []SplitAttempt
}

// maxReportedAttempts caps the diagnostic list
const maxReportedAttempts = 8

func (e *SplitError) Error() string {
	var b strings.Builder
	b.WriteString(ErrSplit.Error())
	b.WriteString(". Attempts:")
	if len(e.Attempts) == 0 {
		b.WriteString(" none (blob too short for every key length)")
	}
	for i, a := range e.Attempts {
		if i == maxReportedAttempts {
			break
		}
		fmt.Fprintf(&b, "\n- key~%s..., enc_len=%d: %v", a.KeyPrefix, a.EncodedLen, a.Err)
	}
	return b.String()
}

func (e *SplitError) Is(target error) bool {
	return target == ErrSplit
}

// Options holds the resolved settings for a decrypt run
type Options struct {
	Input      string
	Output     string
	Key        string
	KeyLengths []int
	BlobPath   string
}

// SealOptions holds the settings for building a blob
type SealOptions struct {
	Input  string
	Output string
	Key    string
	Wrap   bool
	Raw    bool
}
