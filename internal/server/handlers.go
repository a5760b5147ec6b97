package server

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jonathan/file-tagger/internal/archive"
	"github.com/jonathan/file-tagger/internal/ingestion"
	"github.com/jonathan/file-tagger/internal/pipeline"
	"github.com/jonathan/file-tagger/internal/selection"
	"github.com/jonathan/file-tagger/internal/types"
)

// Multipart form field names
const (
	fieldText         = "text"
	fieldMetadata     = "metadata"
	fieldSelectedTags = "selected_tags"
	fieldCustomTags   = "custom_tags"
	fieldWorkers      = "workers"
)

// processRequest holds the validated form of a POST /process upload
type processRequest struct {
	Files        int      `validate:"gt=0"`
	SelectedTags []string `validate:"unique"`
	Workers      int      `validate:"gte=0,lte=64"`
}

// ProcessResponse represents the response for /process
type ProcessResponse struct {
	BatchID           string               `json:"batch_id"`
	ArchiveURL        string               `json:"archive_url"`
	Matched           int                  `json:"matched"`
	UnmatchedText     []string             `json:"unmatched_text"`
	UnmatchedMetadata []string             `json:"unmatched_metadata"`
	Results           []types.RenderResult `json:"results"`
	Errors            []types.ItemError    `json:"errors"`
}

// TagsResponse represents the response for /tags
type TagsResponse struct {
	Tags   []string          `json:"tags"`
	Source string            `json:"source"`
	Errors []types.ItemError `json:"errors"`
}

// handleProcess pairs the uploaded files, renders them, and keeps the batch for download
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	form, err := s.parseForm(w, r)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}
	defer func() { _ = form.RemoveAll() }()

	texts, err := ingestion.FromMultipart(form.File[fieldText], s.maxUploadBytes)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}
	metas, err := ingestion.FromMultipart(form.File[fieldMetadata], s.maxUploadBytes)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	req := processRequest{
		Files:        len(texts) + len(metas),
		SelectedTags: form.Value[fieldSelectedTags],
		Workers:      s.workers,
	}
	if raw := firstValue(form, fieldWorkers); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.errorFromErr(w, &ErrValidation{Field: fieldWorkers, Message: "must be an integer"})
			return
		}
		req.Workers = n
	}
	if err := validate.Struct(req); err != nil {
		s.errorFromErr(w, toValidationError(err))
		return
	}

	sel := selection.New(req.SelectedTags, firstValue(form, fieldCustomTags))
	if err := sel.Validate(nil); err != nil {
		s.errorFromErr(w, err)
		return
	}

	pairs, batch, err := pipeline.Process(r.Context(), texts, metas, sel, pipeline.Options{
		Workers: req.Workers,
		Logger:  s.logger,
	})
	if err != nil {
		s.errorFromErr(w, fmt.Errorf("batch interrupted: %w", err))
		return
	}

	id := s.batches.put(batch)
	s.logger.Info("batch stored",
		zap.String("batch_id", id),
		zap.Int("results", len(batch.Results)),
		zap.Int("errors", len(batch.Errors)))

	s.jsonResponse(w, http.StatusOK, ProcessResponse{
		BatchID:           id,
		ArchiveURL:        "/batches/" + id + "/archive.zip",
		Matched:           len(pairs.Matched),
		UnmatchedText:     names(pairs.UnmatchedText),
		UnmatchedMetadata: names(pairs.UnmatchedMetadata),
		Results:           batch.Results,
		Errors:            batch.Errors,
	})
}

// handleTags reports the tags offered by the first parseable uploaded metadata item
func (s *Server) handleTags(w http.ResponseWriter, r *http.Request) {
	form, err := s.parseForm(w, r)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}
	defer func() { _ = form.RemoveAll() }()

	metas, err := ingestion.FromMultipart(form.File[fieldMetadata], s.maxUploadBytes)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}
	if len(metas) == 0 {
		s.errorFromErr(w, &ErrValidation{Field: fieldMetadata, Message: "at least one file is required"})
		return
	}

	tags, source, itemErrs := pipeline.FirstTags(metas)
	if source == "" {
		noMeta := &ErrNoParseableMetadata{}
		s.jsonResponse(w, HTTPStatus(noMeta), map[string]any{
			"error":  noMeta.Error(),
			"errors": itemErrs,
		})
		return
	}

	s.jsonResponse(w, http.StatusOK, TagsResponse{Tags: tags, Source: source, Errors: itemErrs})
}

// handleArchive streams a stored batch as a zip archive
func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	batch, ok := s.batches.get(id)
	if !ok {
		s.errorFromErr(w, &ErrBatchNotFound{BatchID: id})
		return
	}

	data, err := archive.Bytes(batch.Results)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "batch-"+id+".zip"))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Warn("failed to write archive", zap.String("batch_id", id), zap.Error(err))
	}
}

// handleFile returns a single rendered file from a stored batch
func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	name := r.PathValue("name")
	batch, ok := s.batches.get(id)
	if !ok {
		s.errorFromErr(w, &ErrBatchNotFound{BatchID: id})
		return
	}

	content, ok := batch.Files()[name]
	if !ok {
		s.errorFromErr(w, &ErrFileNotFound{BatchID: id, Filename: name})
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(content)); err != nil {
		s.logger.Warn("failed to write file", zap.String("batch_id", id), zap.Error(err))
	}
}

// parseForm bounds the request body and parses the multipart upload
func (s *Server) parseForm(w http.ResponseWriter, r *http.Request) (*multipart.Form, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, err
		}
		return nil, &ErrValidation{Field: "body", Message: "expected multipart/form-data: " + err.Error()}
	}
	return r.MultipartForm, nil
}

func toValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ErrValidation{Field: fe.Field(), Message: fmt.Sprintf("failed %q check", fe.Tag())}
	}
	return &ErrValidation{Field: "request", Message: err.Error()}
}

func firstValue(form *multipart.Form, key string) string {
	if v := form.Value[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

func names(items []types.UploadedItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Name)
	}
	return out
}
