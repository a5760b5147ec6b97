package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/file-tagger/internal/observability"
	"github.com/jonathan/file-tagger/internal/pairing"
	"github.com/jonathan/file-tagger/internal/types"
)

var pairCmd = &cobra.Command{
	Use:   "pair",
	Short: "Show how text and metadata files pair up",
	Long:  "Matches text files with metadata files by filename stem and reports matched and unmatched files without rendering anything.",
	RunE:  runPair,
}

var (
	pairTextDir   string
	pairTextFiles []string
	pairMetaDir   string
	pairMetaFiles []string
	pairJSON      bool
)

func init() {
	pairCmd.Flags().StringVar(&pairTextDir, "text-dir", "", "Directory of text files")
	pairCmd.Flags().StringSliceVar(&pairTextFiles, "text", nil, "Text file (repeatable)")
	pairCmd.Flags().StringVar(&pairMetaDir, "meta-dir", "", "Directory of JSON metadata files")
	pairCmd.Flags().StringSliceVar(&pairMetaFiles, "metadata", nil, "JSON metadata file (repeatable)")
	pairCmd.Flags().BoolVar(&pairJSON, "json", false, "Print the report as JSON")

	rootCmd.AddCommand(pairCmd)
}

// pairReport is the JSON form of the pair command output
type pairReport struct {
	Matched           [][2]string `json:"matched"`
	UnmatchedText     []string    `json:"unmatched_text"`
	UnmatchedMetadata []string    `json:"unmatched_metadata"`
}

func newPairReport(pairs types.PairResult) pairReport {
	report := pairReport{
		Matched:           make([][2]string, 0, len(pairs.Matched)),
		UnmatchedText:     make([]string, 0, len(pairs.UnmatchedText)),
		UnmatchedMetadata: make([]string, 0, len(pairs.UnmatchedMetadata)),
	}
	for _, m := range pairs.Matched {
		report.Matched = append(report.Matched, [2]string{m.Text.Name, m.Metadata.Name})
	}
	for _, it := range pairs.UnmatchedText {
		report.UnmatchedText = append(report.UnmatchedText, it.Name)
	}
	for _, it := range pairs.UnmatchedMetadata {
		report.UnmatchedMetadata = append(report.UnmatchedMetadata, it.Name)
	}
	return report
}

func runPair(cmd *cobra.Command, _ []string) error {
	textDir, metaDir := settings.TextDir, settings.MetadataDir
	if cmd.Flags().Changed("text-dir") {
		textDir = pairTextDir
	}
	if cmd.Flags().Changed("meta-dir") {
		metaDir = pairMetaDir
	}

	textItems, err := loadItems(textDir, settings.TextExt, pairTextFiles)
	if err != nil {
		return fmt.Errorf("failed to load text files: %w", err)
	}
	metaItems, err := loadItems(metaDir, settings.MetadataExt, pairMetaFiles)
	if err != nil {
		return fmt.Errorf("failed to load metadata files: %w", err)
	}
	if err := requireInputs(textItems, metaItems); err != nil {
		return err
	}

	return printPairs(pairing.Pair(textItems, metaItems), pairJSON, os.Stdout)
}

func printPairs(pairs types.PairResult, asJSON bool, out io.Writer) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(newPairReport(pairs))
	}
	observability.NewPrinter(out).PrintPairing(pairs)
	return nil
}
