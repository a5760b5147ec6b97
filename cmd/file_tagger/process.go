package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/file-tagger/internal/archive"
	"github.com/jonathan/file-tagger/internal/config"
	"github.com/jonathan/file-tagger/internal/observability"
	"github.com/jonathan/file-tagger/internal/pairing"
	"github.com/jonathan/file-tagger/internal/pipeline"
	"github.com/jonathan/file-tagger/internal/selection"
	"github.com/jonathan/file-tagger/internal/types"
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Pair, tag, and export a batch of files",
	Long: "Pairs text files with metadata files by stem, prepends the selected tags " +
		"and custom tags, and writes the results to a .zip archive or a directory. " +
		"Items that fail to render are reported on stderr and skipped.",
	RunE: runProcess,
}

var (
	processTextDir    string
	processTextFiles  []string
	processMetaDir    string
	processMetaFiles  []string
	processTags       []string
	processCustomTags string
	processOutput     string
	processWorkers    int
	processPreview    bool
	processStrictTags bool
)

func init() {
	processCmd.Flags().StringVar(&processTextDir, "text-dir", "", "Directory of text files")
	processCmd.Flags().StringSliceVar(&processTextFiles, "text", nil, "Text file (repeatable)")
	processCmd.Flags().StringVar(&processMetaDir, "meta-dir", "", "Directory of JSON metadata files")
	processCmd.Flags().StringSliceVar(&processMetaFiles, "metadata", nil, "JSON metadata file (repeatable)")
	processCmd.Flags().StringArrayVarP(&processTags, "tag", "t", nil, "Metadata tag to prepend (repeatable, order is kept)")
	processCmd.Flags().StringVarP(&processCustomTags, "custom-tags", "c", "", "Comma-separated custom tags")
	processCmd.Flags().StringVarP(&processOutput, "out", "o", "", "Output .zip file or directory")
	processCmd.Flags().IntVarP(&processWorkers, "workers", "w", 0, "Concurrent renders (default from config)")
	processCmd.Flags().BoolVar(&processPreview, "preview", false, "Print rendered files instead of (or before) writing them")
	processCmd.Flags().BoolVar(&processStrictTags, "strict-tags", false, "Fail when a --tag is not offered by the first parseable metadata file")

	rootCmd.AddCommand(processCmd)
}

// processOptions is the fully resolved input of a process run
type processOptions struct {
	TextDir     string
	TextFiles   []string
	MetaDir     string
	MetaFiles   []string
	TextExt     string
	MetadataExt string
	Selection   selection.Selection
	Output      string
	Workers     int
	Preview     bool
	StrictTags  bool
	Progress    bool // print one line per rendered item to stderr
}

func runProcess(cmd *cobra.Command, _ []string) error {
	opts := processOptionsFrom(cmd, settings)
	_, err := processBatch(cmd.Context(), opts, os.Stdout, os.Stderr, logger)
	return err
}

// processOptionsFrom applies changed flags over the resolved settings.
func processOptionsFrom(cmd *cobra.Command, cfg config.Config) processOptions {
	flags := cmd.Flags()
	if flags.Changed("text-dir") {
		cfg.TextDir = processTextDir
	}
	if flags.Changed("meta-dir") {
		cfg.MetadataDir = processMetaDir
	}
	if flags.Changed("tag") {
		cfg.SelectedTags = processTags
	}
	if flags.Changed("custom-tags") {
		cfg.CustomTags = processCustomTags
	}
	if flags.Changed("out") {
		cfg.Output = processOutput
	}
	if flags.Changed("workers") {
		cfg.Workers = processWorkers
	}
	if flags.Changed("preview") {
		cfg.Preview = processPreview
	}

	return processOptions{
		TextDir:     cfg.TextDir,
		TextFiles:   processTextFiles,
		MetaDir:     cfg.MetadataDir,
		MetaFiles:   processMetaFiles,
		TextExt:     cfg.TextExt,
		MetadataExt: cfg.MetadataExt,
		Selection:   selection.New(cfg.SelectedTags, cfg.CustomTags),
		Output:      cfg.Output,
		Workers:     cfg.Workers,
		Preview:     cfg.Preview,
		StrictTags:  processStrictTags,
		Progress:    cfg.Verbose,
	}
}

// processBatch loads inputs, renders them, and writes the output. Item
// failures are printed to stderr and do not make it fail.
func processBatch(ctx context.Context, opts processOptions, stdout, stderr io.Writer, log *zap.Logger) (types.BatchResult, error) {
	if opts.Output == "" && !opts.Preview {
		return types.BatchResult{}, fmt.Errorf("--out is required unless --preview is set")
	}
	if err := opts.Selection.Validate(nil); err != nil {
		return types.BatchResult{}, err
	}

	textItems, err := loadItems(opts.TextDir, opts.TextExt, opts.TextFiles)
	if err != nil {
		return types.BatchResult{}, fmt.Errorf("failed to load text files: %w", err)
	}
	metaItems, err := loadItems(opts.MetaDir, opts.MetadataExt, opts.MetaFiles)
	if err != nil {
		return types.BatchResult{}, fmt.Errorf("failed to load metadata files: %w", err)
	}
	if err := requireInputs(textItems, metaItems); err != nil {
		return types.BatchResult{}, err
	}

	pairs := pairing.Pair(textItems, metaItems)
	if opts.StrictTags {
		available, source, _ := pipeline.RepresentativeTags(pairs)
		if source == "" {
			return types.BatchResult{}, fmt.Errorf("--strict-tags: no metadata file could be parsed")
		}
		if err := opts.Selection.Validate(available); err != nil {
			return types.BatchResult{}, fmt.Errorf("--strict-tags: %w (available in %s: %s)", err, source, strings.Join(available, ", "))
		}
	}

	pipelineOpts := pipeline.Options{
		Workers: opts.Workers,
		Reporter: pipeline.ReporterFunc(func(itemErr types.ItemError) {
			_, _ = fmt.Fprintf(stderr, "Warning: skipped %s (%s): %s\n", itemErr.Name, itemErr.Kind, itemErr.Message)
		}),
		Logger: log,
	}
	if opts.Progress {
		pipelineOpts.OnProgress = func(e pipeline.ProgressEvent) {
			status := "ok"
			if !e.OK {
				status = "failed"
			}
			_, _ = fmt.Fprintf(stderr, "[%d/%d] %s (%s) %s\n", e.Index+1, e.Total, e.Name, e.Mode, status)
		}
	}

	batch, err := pipeline.RenderBatch(ctx, pairs, opts.Selection, pipelineOpts)
	if err != nil {
		return batch, fmt.Errorf("batch interrupted: %w", err)
	}

	printer := observability.NewPrinter(stdout)
	if opts.Preview {
		printer.PrintPairing(pairs)
		for _, r := range batch.Results {
			printer.PrintPreview(r)
		}
		printer.PrintBatchSummary(batch)
	}

	if opts.Output == "" {
		return batch, nil
	}
	if err := writeOutput(opts.Output, batch.Results); err != nil {
		return batch, err
	}

	_, _ = fmt.Fprintf(stdout, "Wrote %d files to %s (%d skipped)\n", len(batch.Results), opts.Output, len(batch.Errors))
	return batch, nil
}

// writeOutput writes a zip archive when out ends in .zip, otherwise a directory.
func writeOutput(out string, results []types.RenderResult) error {
	if strings.EqualFold(filepath.Ext(out), ".zip") {
		return archive.WriteFile(out, results)
	}
	return archive.WriteDir(out, results)
}
