// Package ingestion loads uploaded items from disk or multipart forms and decodes their text.
package ingestion

import "fmt"

// DecodeError indicates an item's bytes are not valid UTF-8.
type DecodeError struct {
	Name   string
	Offset int // byte offset of the first invalid sequence
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error: %s is not valid UTF-8 (byte %d)", e.Name, e.Offset)
}

// LoadError represents an error reading an uploaded item
type LoadError struct {
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("load error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("load error: %s", e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
