package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jonathan/file-tagger/internal/types"
)

// entryTime is stamped on every entry so identical batches produce identical archives.
var entryTime = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Write packs each result into one zip entry named by its filename. Results
// sharing a filename collapse into one entry holding the last content.
func Write(w io.Writer, results []types.RenderResult) error {
	results, err := checkNames(results)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	for _, r := range results {
		header := &zip.FileHeader{
			Name:     r.Filename,
			Method:   zip.Deflate,
			Modified: entryTime,
		}
		fw, err := zw.CreateHeader(header)
		if err != nil {
			return &WriteError{Message: fmt.Sprintf("create entry %s", r.Filename), Cause: err}
		}
		if _, err := io.WriteString(fw, r.Content); err != nil {
			return &WriteError{Message: fmt.Sprintf("write entry %s", r.Filename), Cause: err}
		}
	}

	if err := zw.Close(); err != nil {
		return &WriteError{Message: "finalize archive", Cause: err}
	}
	return nil
}

// Bytes returns the zip archive for results.
func Bytes(results []types.RenderResult) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, results); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile writes the zip archive to path, replacing it only once the archive is complete.
func WriteFile(path string, results []types.RenderResult) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &WriteError{Message: "create output directory", Cause: err}
		}
	}

	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return &WriteError{Message: "create archive file", Cause: err}
	}
	defer os.Remove(tmpPath)

	if err := Write(f, results); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return &WriteError{Message: "close archive file", Cause: err}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return &WriteError{Message: "move archive into place", Cause: err}
	}
	return nil
}

// WriteDir writes each result as a file inside dir, creating dir if needed.
// Results sharing a filename are written once with the last content.
func WriteDir(dir string, results []types.RenderResult) error {
	results, err := checkNames(results)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &WriteError{Message: "create output directory", Cause: err}
	}

	for _, r := range results {
		path := filepath.Join(dir, r.Filename)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return &WriteError{Message: fmt.Sprintf("create directory for %s", r.Filename), Cause: err}
		}
		if err := os.WriteFile(path, []byte(r.Content), 0644); err != nil {
			return &WriteError{Message: fmt.Sprintf("write %s", r.Filename), Cause: err}
		}
	}
	return nil
}

// checkNames rejects names that would escape the output root and collapses
// duplicate filenames last-wins.
func checkNames(results []types.RenderResult) ([]types.RenderResult, error) {
	for _, r := range results {
		if !filepath.IsLocal(r.Filename) {
			return nil, &WriteError{Message: fmt.Sprintf("invalid entry name %q", r.Filename)}
		}
	}
	unique, _ := types.DedupeResults(results)
	return unique, nil
}
