package errors

import (
	"fmt"
	"strings"
)

// SchemaError reports a required input column that is absent. It is fatal to
// the run that raised it.
type SchemaError struct {
	Dataset string
	Field   string
}

func (e *SchemaError) Error() string {
	if e.Dataset != "" {
		return fmt.Sprintf("%s: required column %q missing", e.Dataset, e.Field)
	}
	return fmt.Sprintf("required column %q missing", e.Field)
}

// ParseError reports a single row whose value could not be parsed. Rows with
// parse errors are dropped and counted; they never abort a run.
type ParseError struct {
	Row   int
	Field string
	Value string
	Cause error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("row %d: cannot parse %s %q", e.Row, e.Field, e.Value)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// EmptyInputError reports a stage that received no usable rows
type EmptyInputError struct {
	Stage string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("%s: no usable rows", e.Stage)
}

// ClusteringError reports that the customer base is too small to form the
// required number of clusters
type ClusteringError struct {
	Required int
	Got      int
	Reason   string
}

func (e *ClusteringError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "distinct customers"
	}
	return fmt.Sprintf("clustering needs at least %d %s, got %d", e.Required, reason, e.Got)
}

// ParseErrors joins a sample of row errors for logging
func ParseErrors(errs []*ParseError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "; ")
}
