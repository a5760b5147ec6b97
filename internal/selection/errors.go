// Package selection models the caller's tag choices: metadata keys to prepend
// and free-form custom tags.
package selection

import (
	"fmt"
	"strings"
)

// Error represents an invalid tag selection
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// UnknownTagsError lists selected tags that no representative document offers.
type UnknownTagsError struct {
	Tags []string
}

func (e *UnknownTagsError) Error() string {
	return fmt.Sprintf("unknown tags selected: %s", strings.Join(e.Tags, ", "))
}
