// Package server provides the HTTP API for pairing, tagging, and downloading batches.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/file-tagger/internal/ingestion"
	"github.com/jonathan/file-tagger/internal/selection"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrBatchNotFound indicates a batch id is unknown or its download expired
type ErrBatchNotFound struct {
	BatchID string
}

func (e *ErrBatchNotFound) Error() string {
	return fmt.Sprintf("batch not found or expired: %s", e.BatchID)
}

// ErrFileNotFound indicates a batch has no file with the given name
type ErrFileNotFound struct {
	BatchID  string
	Filename string
}

func (e *ErrFileNotFound) Error() string {
	return fmt.Sprintf("file %s not found in batch %s", e.Filename, e.BatchID)
}

// ErrNoParseableMetadata indicates no uploaded metadata item could provide tags
type ErrNoParseableMetadata struct{}

func (e *ErrNoParseableMetadata) Error() string {
	return "no parseable metadata item"
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		batchErr      *ErrBatchNotFound
		fileErr       *ErrFileNotFound
		noMetaErr     *ErrNoParseableMetadata
		maxBytesErr   *http.MaxBytesError
		loadErr       *ingestion.LoadError
		selectionErr  *selection.Error
	)
	switch {
	case errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &validationErr), errors.As(err, &loadErr), errors.As(err, &selectionErr):
		return http.StatusBadRequest
	case errors.As(err, &batchErr), errors.As(err, &fileErr):
		return http.StatusNotFound
	case errors.As(err, &noMetaErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
