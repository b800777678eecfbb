package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

// directPaths are checked before falling back to a recursive search
var directPaths = [][]string{
	{"pageProps", "a"},
	{"props", "pageProps", "a"},
}

// Document is a validated JSON value that keeps its source order
type Document struct {
	Raw  []byte
	Root gjson.Result
}

// parseDocument validates data as UTF-8 JSON
func parseDocument(data []byte) (*Document, error) {
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("content is not valid UTF-8")
	}
	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return &Document{Raw: data, Root: gjson.ParseBytes(data)}, nil
}

// loadDocument reads a JSON file, or STDIN when path is "-"
func loadDocument(path string, stdin io.Reader) (*Document, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %w", ErrInput, path, err)
	}

	doc, err := parseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not valid JSON: %w", ErrInput, path, err)
	}
	return doc, nil
}

// locateBlob finds the encrypted string. An explicit path disables the search.
func locateBlob(doc *Document, path string) (blob, foundAt string, err error) {
	if path != "" {
		if v := doc.Root.Get(path); v.Type == gjson.String && v.Str != "" {
			return v.Str, path, nil
		}
		return "", "", fmt.Errorf("%w: no string at %q", ErrNotFound, path)
	}

	if doc.Root.IsObject() {
		for _, keys := range directPaths {
			if v := lookup(doc.Root, keys); v.Type == gjson.String {
				if v.Str == "" {
					return "", "", ErrNotFound
				}
				return v.Str, strings.Join(keys, "."), nil
			}
		}
	}

	if s, ok := findPageProps(doc.Root); ok && s != "" {
		return s, "nested pageProps.a", nil
	}
	return "", "", ErrNotFound
}

// findPageProps walks objects and arrays depth-first in document order
func findPageProps(node gjson.Result) (string, bool) {
	if !node.IsObject() && !node.IsArray() {
		return "", false
	}
	if node.IsObject() {
		if pp := objectField(node, "pageProps"); pp.IsObject() {
			if a := objectField(pp, "a"); a.Type == gjson.String {
				return a.Str, true
			}
		}
	}

	var (
		found string
		ok    bool
	)
	node.ForEach(func(_, value gjson.Result) bool {
		found, ok = findPageProps(value)
		return !ok
	})
	return found, ok
}

func lookup(node gjson.Result, keys []string) gjson.Result {
	for _, k := range keys {
		if !node.IsObject() {
			return gjson.Result{}
		}
		node = objectField(node, k)
	}
	return node
}

// objectField looks up a literal key, without gjson path syntax. The last
// duplicate wins, as with a decoded map.
func objectField(obj gjson.Result, key string) gjson.Result {
	var out gjson.Result
	obj.ForEach(func(k, v gjson.Result) bool {
		if k.Str == key {
			out = v
		}
		return true
	})
	return out
}
