package main

import (
	"strings"

	"go.uber.org/zap"
)

// DefaultKeyLengths are the suffix lengths tried, most likely first
var DefaultKeyLengths = []int{21, 22, 20, 23}

const (
	// minEncodedMargin is how much longer than the key a blob must be
	minEncodedMargin = 10
	// minDelimiterTail keeps a trailing "=" padding from looking like a delimiter
	minDelimiterTail = 5
	minDelimitedKey  = 18
	maxDelimitedKey  = 30
)

// splitStrategy proposes candidates for a blob, in the order they should be tried
type splitStrategy func(blob []rune, keyLengths []int) []Candidate

// strategies run in order; the delimiter guess goes ahead of every suffix guess
var strategies = []splitStrategy{
	delimiterCandidates,
	suffixCandidates,
}

// splitBlob picks the first candidate whose encoded half decodes as base64
func splitBlob(blob string, keyLengths []int, logger *zap.Logger) (Candidate, error) {
	if len(keyLengths) == 0 {
		keyLengths = DefaultKeyLengths
	}
	runes := []rune(normalizeBlob(blob))

	var attempts []SplitAttempt
	for _, strategy := range strategies {
		for _, c := range strategy(runes, keyLengths) {
			_, err := decodeBase64Loose(c.Encoded)
			if err == nil {
				logger.Debug("split accepted",
					zap.String("strategy", c.Strategy),
					zap.Int("key_len", len([]rune(c.KeyMaterial))),
					zap.Int("enc_len", len(c.Encoded)))
				return c, nil
			}
			logger.Debug("split rejected",
				zap.String("strategy", c.Strategy),
				zap.Int("enc_len", len(c.Encoded)),
				zap.Error(err))
			attempts = append(attempts, SplitAttempt{
				KeyPrefix:  prefix(c.KeyMaterial, 8),
				EncodedLen: len([]rune(c.Encoded)),
				Err:        err,
			})
		}
	}

	return Candidate{}, &SplitError{Attempts: attempts}
}

// normalizeBlob trims whitespace and one layer of matching quotes
func normalizeBlob(blob string) string {
	blob = strings.TrimSpace(blob)
	if len(blob) >= 2 {
		first, last := blob[0], blob[len(blob)-1]
		if first == last && (first == '"' || first == '\'') {
			blob = blob[1 : len(blob)-1]
		}
	}
	return blob
}

// suffixCandidates treats the last k characters as key material
func suffixCandidates(blob []rune, keyLengths []int) []Candidate {
	l := len(blob)
	var out []Candidate
	for _, k := range keyLengths {
		if k <= 0 || l <= k+minEncodedMargin {
			continue
		}
		out = append(out, Candidate{
			Strategy:    "suffix",
			KeyMaterial: string(blob[l-k:]),
			Encoded:     string(blob[:l-k]),
		})
	}
	return out
}

// delimiterCandidates splits after the last "=" when what follows looks like a key
func delimiterCandidates(blob []rune, _ []int) []Candidate {
	l := len(blob)
	idx := -1
	for i := l - 1; i >= 0; i-- {
		if blob[i] == '=' {
			idx = i
			break
		}
	}
	if idx == -1 || idx >= l-minDelimiterTail {
		return nil
	}

	key := blob[idx+1:]
	if len(key) < minDelimitedKey || len(key) > maxDelimitedKey {
		return nil
	}
	return []Candidate{{
		Strategy:    "delimiter",
		KeyMaterial: string(key),
		Encoded:     string(blob[:idx+1]),
	}}
}

// explicitCandidate uses caller-supplied key material instead of guessing
func explicitCandidate(blob, key string) (Candidate, error) {
	blob = normalizeBlob(blob)
	encoded := blob
	if strings.HasSuffix(blob, key) && len(blob) > len(key) {
		encoded = strings.TrimSuffix(blob, key)
	}
	if _, err := decodeBase64Loose(encoded); err != nil {
		return Candidate{}, &SplitError{Attempts: []SplitAttempt{{
			KeyPrefix:  prefix(key, 8),
			EncodedLen: len([]rune(encoded)),
			Err:        err,
		}}}
	}
	return Candidate{Strategy: "explicit", KeyMaterial: key, Encoded: encoded}, nil
}

func prefix(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r)
}
