package api

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// APIError is a non-2xx backend response. Payload is the decoded JSON body,
// untouched, so callers can surface field errors exactly as the backend sent them.
type APIError struct {
	StatusCode int
	Payload    any
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message())
}

// Message flattens the payload into one displayable line. It prefers the
// "error" and "detail" keys and falls back to "field: message" pairs.
func (e *APIError) Message() string {
	switch p := e.Payload.(type) {
	case map[string]any:
		for _, key := range []string{"error", "detail", "non_field_errors"} {
			if v, ok := p[key]; ok {
				return flatten(v)
			}
		}
		keys := make([]string, 0, len(p))
		for k := range p {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+flatten(p[k]))
		}
		return strings.Join(parts, "; ")
	case nil:
		if len(e.Body) > 0 {
			return strings.TrimSpace(string(e.Body))
		}
		return fmt.Sprintf("status %d", e.StatusCode)
	default:
		return flatten(p)
	}
}

func flatten(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, flatten(item))
		}
		return strings.Join(parts, " ")
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}

// TransportError is a request that never produced an HTTP response.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
