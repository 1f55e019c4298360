// Package util holds small helpers shared across the verification suite.
package util

import (
	"encoding/json"
	"fmt"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"
)

// ExtractField evaluates a JMESPath expression against a raw JSON document
// and returns the matched value. Missing paths return (nil, nil) so callers
// can distinguish absence from evaluation errors.
func ExtractField(doc json.RawMessage, path string) (any, error) {
	var data any
	if err := json.Unmarshal(doc, &data); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}

	result, err := jmespath.Search(path, data)
	if err != nil {
		return nil, fmt.Errorf("evaluate %q: %w", path, err)
	}
	return result, nil
}

// ExtractString is ExtractField narrowed to string values. Absent or
// non-string values return "".
func ExtractString(doc json.RawMessage, path string) (string, error) {
	v, err := ExtractField(doc, path)
	if err != nil {
		return "", err
	}
	s, _ := v.(string)
	return s, nil
}

// HasFields reports which of the named top-level fields are missing from the
// document. An empty return means all fields are present.
func HasFields(doc json.RawMessage, fields []string) ([]string, error) {
	var data map[string]json.RawMessage
	if err := json.Unmarshal(doc, &data); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}

	var missing []string
	for _, f := range fields {
		if _, ok := data[f]; !ok {
			missing = append(missing, f)
		}
	}
	return missing, nil
}

var sensitiveKeys = []string{"password", "secret", "token", "api_key", "authorization"}

// MaskSensitive redacts credential-looking values in a flat map before it is
// logged.
func MaskSensitive(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
		lk := strings.ToLower(k)
		for _, s := range sensitiveKeys {
			if strings.Contains(lk, s) {
				out[k] = "[redacted]"
				break
			}
		}
	}
	return out
}
