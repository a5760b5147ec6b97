package pipeline

import (
	"errors"

	"github.com/jonathan/file-tagger/internal/ingestion"
	"github.com/jonathan/file-tagger/internal/metadata"
	"github.com/jonathan/file-tagger/internal/types"
)

// ErrorKind classifies a render failure.
func ErrorKind(err error) string {
	var invalid *metadata.InvalidJSONError
	var unsupported *metadata.UnsupportedShapeError
	var decodeErr *ingestion.DecodeError
	switch {
	case errors.As(err, &invalid):
		return types.ErrorKindInvalidJSON
	case errors.As(err, &unsupported):
		return types.ErrorKindUnsupportedShape
	case errors.As(err, &decodeErr):
		return types.ErrorKindDecode
	default:
		return types.ErrorKindRender
	}
}

// ToItemError converts a render failure into a user-visible item error.
func ToItemError(name string, err error) types.ItemError {
	return types.ItemError{
		Name:    name,
		Kind:    ErrorKind(err),
		Message: err.Error(),
	}
}
