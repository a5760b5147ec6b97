package ingestion

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jonathan/file-tagger/internal/types"
)

// NormalizeExt lowercases ext and ensures a leading dot. Empty stays empty.
func NormalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" || strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}

// LoadFile reads a single file into an UploadedItem named by its base name.
func LoadFile(path string) (types.UploadedItem, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return types.UploadedItem{}, &LoadError{Message: fmt.Sprintf("file not found: %s", path), Cause: err}
		}
		return types.UploadedItem{}, &LoadError{Message: fmt.Sprintf("failed to read file: %s", path), Cause: err}
	}
	return types.UploadedItem{Name: filepath.Base(path), Content: content}, nil
}

// LoadFiles reads each path in order.
func LoadFiles(paths []string) ([]types.UploadedItem, error) {
	items := make([]types.UploadedItem, 0, len(paths))
	for _, p := range paths {
		it, err := LoadFile(p)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

// LoadDir reads the regular files directly inside dir whose extension matches ext
// (case-insensitive; empty ext accepts every file). Items are sorted by name.
// Subdirectories and hidden files are skipped.
func LoadDir(dir, ext string) ([]types.UploadedItem, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &LoadError{Message: fmt.Sprintf("failed to read directory: %s", dir), Cause: err}
	}

	ext = NormalizeExt(ext)
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if ext != "" && strings.ToLower(filepath.Ext(e.Name())) != ext {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)

	return LoadFiles(paths)
}

// FromMultipart reads uploaded form files. Files larger than maxBytes fail
// (maxBytes <= 0 disables the check).
func FromMultipart(headers []*multipart.FileHeader, maxBytes int64) ([]types.UploadedItem, error) {
	items := make([]types.UploadedItem, 0, len(headers))
	for _, h := range headers {
		if maxBytes > 0 && h.Size > maxBytes {
			return nil, &LoadError{Message: fmt.Sprintf("%s exceeds %d bytes", h.Filename, maxBytes)}
		}
		content, err := readPart(h)
		if err != nil {
			return nil, &LoadError{Message: fmt.Sprintf("failed to read upload %s", h.Filename), Cause: err}
		}
		items = append(items, types.UploadedItem{Name: filepath.Base(h.Filename), Content: content})
	}
	return items, nil
}

func readPart(h *multipart.FileHeader) ([]byte, error) {
	f, err := h.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return io.ReadAll(f)
}
