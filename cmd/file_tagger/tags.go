package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/file-tagger/internal/observability"
	"github.com/jonathan/file-tagger/internal/pipeline"
	"github.com/jonathan/file-tagger/internal/types"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List the tags offered by the metadata files",
	Long: "Parses metadata files in order and lists the keys of the first one that parses. " +
		"These are the tags that can be passed to 'process --tag'.",
	RunE: runTags,
}

var (
	tagsMetaDir   string
	tagsMetaFiles []string
	tagsJSON      bool
)

func init() {
	tagsCmd.Flags().StringVar(&tagsMetaDir, "meta-dir", "", "Directory of JSON metadata files")
	tagsCmd.Flags().StringSliceVarP(&tagsMetaFiles, "metadata", "m", nil, "JSON metadata file (repeatable)")
	tagsCmd.Flags().BoolVar(&tagsJSON, "json", false, "Print the result as JSON")

	rootCmd.AddCommand(tagsCmd)
}

// tagsReport is the JSON form of the tags command output
type tagsReport struct {
	Tags   []string          `json:"tags"`
	Source string            `json:"source"`
	Errors []types.ItemError `json:"errors"`
}

func runTags(cmd *cobra.Command, _ []string) error {
	dir := settings.MetadataDir
	if cmd.Flags().Changed("meta-dir") {
		dir = tagsMetaDir
	}
	items, err := loadItems(dir, settings.MetadataExt, tagsMetaFiles)
	if err != nil {
		return fmt.Errorf("failed to load metadata files: %w", err)
	}
	return listTags(items, tagsJSON, os.Stdout, os.Stderr)
}

// listTags prints the tags of the first parseable item.
func listTags(items []types.UploadedItem, asJSON bool, stdout, stderr io.Writer) error {
	if len(items) == 0 {
		return fmt.Errorf("no metadata files: pass --meta-dir or --metadata")
	}

	tags, source, itemErrs := pipeline.FirstTags(items)
	for _, e := range itemErrs {
		_, _ = fmt.Fprintf(stderr, "Warning: skipped %s (%s): %s\n", e.Name, e.Kind, e.Message)
	}
	if source == "" {
		return fmt.Errorf("none of the %d metadata files could be parsed", len(items))
	}

	if asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(tagsReport{Tags: tags, Source: source, Errors: itemErrs})
	}

	observability.NewPrinter(stdout).PrintTags(tags, source)
	return nil
}
