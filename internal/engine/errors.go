package engine

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError reports malformed or missing request fields. No stage runs
// when it is returned; the HTTP layer maps it to a 422 with the field map.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func newValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

// AnalysisError reports that the single fatal stage (query analysis) failed
// or produced no usable result. The run aborts and no brief is produced.
type AnalysisError struct {
	Stage   string
	Message string
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis stage %s failed: %s", e.Stage, e.Message)
}
