package services

import (
	"encoding/json"
	"strings"
)

// ExtractionError carries the untouched completion text so callers can show it.
type ExtractionError struct {
	Raw string
	Err error
}

func (e *ExtractionError) Error() string {
	return "failed to parse json from completion: " + e.Err.Error()
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// ExtractJSON recovers a JSON value from a completion that may wrap it in prose.
// It parses the span from the first '{' to the last '}' and falls back to the
// whole text. The span is not nesting-aware; stray braces in the surrounding
// prose can break it.
func ExtractJSON(raw string) (any, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		var v any
		if err := json.Unmarshal([]byte(raw[start:end+1]), &v); err == nil {
			return v, nil
		}
	}

	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, &ExtractionError{Raw: raw, Err: err}
	}
	return v, nil
}
