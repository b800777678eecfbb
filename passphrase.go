package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
	"syscall"

	"golang.org/x/term"
)

// promptKeyArg asks for the key material on the terminal instead of taking it from flags
const promptKeyArg = "-"

var errEmptyKey = errors.New("key material cannot be empty")

// zeroBytes overwrites a byte slice with zeros
func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}

// resolveKey returns key unless it asks for a prompt
func resolveKey(key string) (string, error) {
	if key != promptKeyArg {
		return key, nil
	}

	b, err := readSecret("Enter key material: ")
	if err != nil {
		return "", fmt.Errorf("failed to read key material: %w", err)
	}
	defer zeroBytes(b)

	return keyFromInput(b)
}

// keyFromInput trims typed key material and rejects an empty entry
func keyFromInput(b []byte) (string, error) {
	s := strings.TrimSpace(string(b))
	if s == "" {
		return "", errEmptyKey
	}
	return s, nil
}

func readSecret(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)

	var secret []byte
	var err error

	if term.IsTerminal(int(syscall.Stdin)) {
		secret, err = term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
	} else {
		// STDIN may carry the JSON input, so fall back to the controlling terminal
		tty, ttyErr := os.Open("/dev/tty")
		if ttyErr != nil {
			return nil, fmt.Errorf("cannot prompt: STDIN is not a terminal and /dev/tty is not available. Set %s instead", KeyEnvVar)
		}
		defer tty.Close()

		secret, err = term.ReadPassword(int(tty.Fd()))
		fmt.Fprintln(os.Stderr)
	}

	if err != nil {
		return nil, err
	}
	return secret, nil
}
