// Package metadata parses uploaded metadata items into flat tag documents.
package metadata

import "fmt"

// InvalidJSONError indicates a metadata item is not valid JSON.
type InvalidJSONError struct {
	Name  string
	Cause error
}

func (e *InvalidJSONError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid JSON in %s: %v", e.Name, e.Cause)
	}
	return fmt.Sprintf("invalid JSON in %s", e.Name)
}

func (e *InvalidJSONError) Unwrap() error {
	return e.Cause
}

// UnsupportedShapeError indicates valid JSON that is neither a mapping nor a
// list whose first element is a mapping.
type UnsupportedShapeError struct {
	Name  string
	Shape string // e.g. "string", "array of number"
	Cause error
}

func (e *UnsupportedShapeError) Error() string {
	return fmt.Sprintf("unsupported metadata shape in %s: got %s, want object or array of objects", e.Name, e.Shape)
}

func (e *UnsupportedShapeError) Unwrap() error {
	return e.Cause
}
