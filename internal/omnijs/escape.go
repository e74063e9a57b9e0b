package omnijs

import (
	"encoding/json"
	"fmt"
	"strings"
)

// EscapeSingleQuotes escapes a value for embedding inside a single-quoted
// OmniJS string literal. Only the quote character itself needs escaping;
// callers embedding anything structurally richer (newlines, backslashes,
// nested objects) must use Literal instead.
func EscapeSingleQuotes(s string) string {
	return strings.ReplaceAll(s, "'", `\'`)
}

// escapeBackticks escapes backticks so a script can be embedded inside the
// backtick-delimited template literal of the JXA wrapper.
func escapeBackticks(s string) string {
	return strings.ReplaceAll(s, "`", "\\`")
}

// Literal encodes a value as a JSON literal suitable for direct embedding in
// OmniJS source. JSON escaping subsumes quote, backslash, and control
// character handling, so the embedded value always parses as data regardless
// of its contents. This is the required path for booleans, lists, notes, and
// whole objects; string concatenation of such values is a bug.
func Literal(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode script literal: %w", err)
	}
	return string(b), nil
}

// MustLiteral is Literal for values that cannot fail to encode (strings,
// bools, string slices, and structs without cyclic or channel fields).
func MustLiteral(v any) string {
	s, err := Literal(v)
	if err != nil {
		panic(err)
	}
	return s
}
