package omnijs

import (
	"encoding/json"
	"fmt"
)

// Result is the outcome of one bridge execution: either a parsed JSON value,
// a bare string the script returned, or nothing at all.
type Result struct {
	value  any
	raw    string
	isJSON bool
}

// ParseOutput builds a Result from the bridge's trimmed standard output.
// Non-empty output that parses as JSON is authoritative; anything else is
// kept verbatim because some scripts intentionally return plain strings.
func ParseOutput(out string) Result {
	if out == "" {
		return Result{}
	}
	var v any
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		return Result{raw: out}
	}
	return Result{value: v, isJSON: true}
}

// IsNull reports whether the execution produced no value at all: empty
// output, or the JSON literal null.
func (r Result) IsNull() bool {
	return !r.isJSON && r.raw == "" || r.isJSON && r.value == nil
}

// Value returns the parsed JSON value, or nil when the output was empty or
// not JSON.
func (r Result) Value() any {
	return r.value
}

// Text returns the raw trimmed output for executions whose script returned a
// bare string rather than JSON.
func (r Result) Text() string {
	return r.raw
}

// ErrMessage detects the {error: <string>} shape the per-script error
// boundary produces. It must be consulted before any success-path access: an
// error-tagged object is a failure regardless of which operation ran.
func (r Result) ErrMessage() (string, bool) {
	obj, ok := r.value.(map[string]any)
	if !ok {
		return "", false
	}
	msg, ok := obj["error"].(string)
	if !ok || msg == "" {
		return "", false
	}
	return msg, true
}

// Object returns the result as a JSON object, if it is one.
func (r Result) Object() (map[string]any, bool) {
	obj, ok := r.value.(map[string]any)
	return obj, ok
}

// List returns the result as a JSON array, if it is one.
func (r Result) List() ([]any, bool) {
	list, ok := r.value.([]any)
	return list, ok
}

// Decode re-marshals the parsed value into dst, converting the loosely typed
// bridge result into the caller's typed contract.
func (r Result) Decode(dst any) error {
	b, err := json.Marshal(r.value)
	if err != nil {
		return fmt.Errorf("failed to re-encode bridge result: %w", err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("bridge result does not match expected shape: %w", err)
	}
	return nil
}

// Describe returns a short human-readable description of the result shape
// for error messages.
func (r Result) Describe() string {
	switch {
	case r.IsNull():
		return "empty result"
	case !r.isJSON:
		return fmt.Sprintf("plain text %q", truncate(r.raw, 80))
	default:
		switch r.value.(type) {
		case map[string]any:
			return "object"
		case []any:
			return "array"
		default:
			return fmt.Sprintf("%T", r.value)
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
