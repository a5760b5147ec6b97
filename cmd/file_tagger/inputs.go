package main

import (
	"fmt"

	"github.com/jonathan/file-tagger/internal/ingestion"
	"github.com/jonathan/file-tagger/internal/types"
)

// loadItems reads every file with ext from dir (when set) followed by the
// explicitly listed files.
func loadItems(dir, ext string, files []string) ([]types.UploadedItem, error) {
	var items []types.UploadedItem
	if dir != "" {
		fromDir, err := ingestion.LoadDir(dir, ext)
		if err != nil {
			return nil, err
		}
		items = append(items, fromDir...)
	}
	if len(files) > 0 {
		listed, err := ingestion.LoadFiles(files)
		if err != nil {
			return nil, err
		}
		items = append(items, listed...)
	}
	return items, nil
}

// requireInputs fails when neither text nor metadata items were found.
func requireInputs(textItems, metaItems []types.UploadedItem) error {
	if len(textItems) == 0 && len(metaItems) == 0 {
		return fmt.Errorf("no input files: pass --text-dir, --text, --meta-dir, or --metadata")
	}
	return nil
}
