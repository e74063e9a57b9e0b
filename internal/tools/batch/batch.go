package batch

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseStringOrArray parses a parameter that can be either a single string or an array of strings
func ParseStringOrArray(param interface{}, paramName string) ([]string, error) {
	if param == nil {
		return nil, fmt.Errorf("%s is required", paramName)
	}

	var result []string

	switch v := param.(type) {
	case string:
		if v == "" {
			return nil, fmt.Errorf("%s cannot be empty", paramName)
		}
		// Some clients send arrays as JSON-encoded strings.
		if strings.HasPrefix(strings.TrimSpace(v), "[") {
			var decoded []string
			if err := json.Unmarshal([]byte(v), &decoded); err == nil {
				if len(decoded) == 0 {
					return nil, fmt.Errorf("%s cannot be empty", paramName)
				}
				for i, str := range decoded {
					if str == "" {
						return nil, fmt.Errorf("%s[%d] cannot be empty", paramName, i)
					}
				}
				return decoded, nil
			}
		}
		result = []string{v}
	case []interface{}:
		if len(v) == 0 {
			return nil, fmt.Errorf("%s cannot be empty", paramName)
		}
		for i, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s[%d] must be a string", paramName, i)
			}
			if str == "" {
				return nil, fmt.Errorf("%s[%d] cannot be empty", paramName, i)
			}
			result = append(result, str)
		}
	default:
		return nil, fmt.Errorf("%s must be a string or array of strings", paramName)
	}

	return result, nil
}

// ParseObjectArray decodes a parameter holding an array of JSON objects into
// dst, which must be a pointer to a slice. The parameter arrives from the MCP
// request as []interface{}, so it goes through a JSON round trip to pick up
// the struct tags of the destination type.
func ParseObjectArray(param interface{}, paramName string, dst interface{}) error {
	if param == nil {
		return fmt.Errorf("%s is required", paramName)
	}

	arr, ok := param.([]interface{})
	if !ok {
		return fmt.Errorf("%s must be an array of objects", paramName)
	}
	if len(arr) == 0 {
		return fmt.Errorf("%s cannot be empty", paramName)
	}

	raw, err := json.Marshal(arr)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", paramName, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("failed to decode %s: %w", paramName, err)
	}

	return nil
}
