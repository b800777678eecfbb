package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

const indentUnit = "  "

// formatJSON renders a value with 2-space indentation, keeping key order and
// leaving non-ASCII characters unescaped. Numbers keep their source text
// rather than being re-serialised: 1.0, 1.50 and 1E5 are written as they
// appear, not normalised to 1.0, 1.5 and 100000.0.
func formatJSON(v gjson.Result) ([]byte, error) {
	var buf bytes.Buffer
	if err := appendValue(&buf, v, 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func appendValue(buf *bytes.Buffer, v gjson.Result, depth int) error {
	switch v.Type {
	case gjson.Null:
		buf.WriteString("null")
	case gjson.True:
		buf.WriteString("true")
	case gjson.False:
		buf.WriteString("false")
	case gjson.Number:
		buf.WriteString(v.Raw)
	case gjson.String:
		return appendString(buf, v.Str)
	case gjson.JSON:
		if v.IsArray() {
			return appendArray(buf, v, depth)
		}
		return appendObject(buf, v, depth)
	default:
		return fmt.Errorf("unexpected JSON token %q", v.Raw)
	}
	return nil
}

func appendArray(buf *bytes.Buffer, v gjson.Result, depth int) error {
	items := v.Array()
	if len(items) == 0 {
		buf.WriteString("[]")
		return nil
	}

	buf.WriteString("[\n")
	for i, item := range items {
		if i > 0 {
			buf.WriteString(",\n")
		}
		buf.WriteString(strings.Repeat(indentUnit, depth+1))
		if err := appendValue(buf, item, depth+1); err != nil {
			return err
		}
	}
	buf.WriteByte('\n')
	buf.WriteString(strings.Repeat(indentUnit, depth))
	buf.WriteByte(']')
	return nil
}

type field struct {
	key   string
	value gjson.Result
}

func appendObject(buf *bytes.Buffer, v gjson.Result, depth int) error {
	// A repeated key keeps its first position and takes the last value
	var fields []field
	seen := make(map[string]int)
	v.ForEach(func(k, val gjson.Result) bool {
		if i, ok := seen[k.Str]; ok {
			fields[i].value = val
			return true
		}
		seen[k.Str] = len(fields)
		fields = append(fields, field{key: k.Str, value: val})
		return true
	})

	if len(fields) == 0 {
		buf.WriteString("{}")
		return nil
	}

	buf.WriteString("{\n")
	for i, f := range fields {
		if i > 0 {
			buf.WriteString(",\n")
		}
		buf.WriteString(strings.Repeat(indentUnit, depth+1))
		if err := appendString(buf, f.key); err != nil {
			return err
		}
		buf.WriteString(": ")
		if err := appendValue(buf, f.value, depth+1); err != nil {
			return err
		}
	}
	buf.WriteByte('\n')
	buf.WriteString(strings.Repeat(indentUnit, depth))
	buf.WriteByte('}')
	return nil
}

// appendString quotes s. encoding/json always escapes U+2028 and U+2029, so
// those are written raw between separately encoded segments.
func appendString(buf *bytes.Buffer, s string) error {
	buf.WriteByte('"')
	for {
		i := strings.IndexAny(s, "\u2028\u2029")
		seg := s
		if i >= 0 {
			seg = s[:i]
		}
		if err := appendStringBody(buf, seg); err != nil {
			return err
		}
		if i < 0 {
			break
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		buf.WriteRune(r)
		s = s[i+size:]
	}
	buf.WriteByte('"')
	return nil
}

// appendStringBody writes the escaped contents of s without quotes
func appendStringBody(buf *bytes.Buffer, s string) error {
	if s == "" {
		return nil
	}
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	out := bytes.TrimSuffix(tmp.Bytes(), []byte("\n"))
	buf.Write(out[1 : len(out)-1])
	return nil
}

// emit writes the formatted JSON to path, or to stdout when path is empty.
// Nothing is written unless formatting succeeds.
func emit(v gjson.Result, path string, stdout io.Writer) error {
	out, err := formatJSON(v)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	if path == "" {
		if _, err := fmt.Fprintln(stdout, string(out)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if _, err := fmt.Fprintf(stdout, "OK: wrote decrypted JSON to %s\n", path); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
