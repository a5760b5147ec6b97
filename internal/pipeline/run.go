// Package pipeline orchestrates pairing and rendering of an uploaded batch.
package pipeline

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/file-tagger/internal/ingestion"
	"github.com/jonathan/file-tagger/internal/metadata"
	"github.com/jonathan/file-tagger/internal/pairing"
	"github.com/jonathan/file-tagger/internal/rendering"
	"github.com/jonathan/file-tagger/internal/selection"
	"github.com/jonathan/file-tagger/internal/types"
)

// ProgressEvent represents one finished render during batch execution
type ProgressEvent struct {
	Index int    `json:"index"`
	Total int    `json:"total"`
	Name  string `json:"name"`
	Mode  string `json:"mode"`
	OK    bool   `json:"ok"`
}

// ProgressCallback is called when an item finishes rendering
type ProgressCallback func(event ProgressEvent)

// Reporter receives per-item failures for user-visible display.
type Reporter interface {
	ReportError(itemErr types.ItemError)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(itemErr types.ItemError)

// ReportError calls f(itemErr).
func (f ReporterFunc) ReportError(itemErr types.ItemError) {
	f(itemErr)
}

// Options configures a batch run. The zero value renders sequentially and
// discards logs.
type Options struct {
	// Workers bounds concurrent renders; values below 2 render sequentially.
	Workers    int
	Reporter   Reporter
	Logger     *zap.Logger
	OnProgress ProgressCallback
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// job is one render call: a matched pair, a lone text item or a lone metadata item.
type job struct {
	text *types.UploadedItem
	meta *types.UploadedItem
}

func (j job) name() string {
	if j.text != nil {
		return j.text.Name
	}
	return j.meta.Name
}

// failedName names the item responsible for a failure. Metadata problems are
// attributed to the metadata item, everything else to the text item.
func (j job) failedName(err error) string {
	var invalid *metadata.InvalidJSONError
	var unsupported *metadata.UnsupportedShapeError
	var decodeErr *ingestion.DecodeError
	switch {
	case errors.As(err, &invalid):
		return invalid.Name
	case errors.As(err, &unsupported):
		return unsupported.Name
	case errors.As(err, &decodeErr):
		return decodeErr.Name
	default:
		return j.name()
	}
}

func jobsFor(pairs types.PairResult) []job {
	jobs := make([]job, 0, pairs.Len())
	for i := range pairs.Matched {
		jobs = append(jobs, job{text: &pairs.Matched[i].Text, meta: &pairs.Matched[i].Metadata})
	}
	for i := range pairs.UnmatchedText {
		jobs = append(jobs, job{text: &pairs.UnmatchedText[i]})
	}
	for i := range pairs.UnmatchedMetadata {
		jobs = append(jobs, job{meta: &pairs.UnmatchedMetadata[i]})
	}
	return jobs
}

// outcome is the slot a render writes into.
type outcome struct {
	result types.RenderResult
	err    error
	done   bool
}

// RenderBatch renders matched pairs, then unmatched text, then unmatched
// metadata. A failing item is reported and left out of the results; it never
// stops the rest of the batch. Result order is the same whether or not
// renders run concurrently. Renders that produce the same filename collapse
// into one result: the first position keeps the last content.
//
// The returned error is non-nil only when ctx is cancelled; the partial batch
// is still returned.
func RenderBatch(ctx context.Context, pairs types.PairResult, sel selection.Selection, opts Options) (types.BatchResult, error) {
	log := opts.logger()
	jobs := jobsFor(pairs)
	outcomes := make([]outcome, len(jobs))

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	var progressMu sync.Mutex
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range jobs {
		if gCtx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			j := jobs[i]
			result, err := rendering.Render(j.text, j.meta, sel)
			outcomes[i] = outcome{result: result, err: err, done: true}

			if opts.OnProgress != nil {
				mode, _ := rendering.ModeOf(j.text, j.meta)
				progressMu.Lock()
				opts.OnProgress(ProgressEvent{
					Index: i,
					Total: len(jobs),
					Name:  j.name(),
					Mode:  mode.String(),
					OK:    err == nil,
				})
				progressMu.Unlock()
			}
			return nil
		})
	}
	waitErr := g.Wait()
	if waitErr == nil {
		waitErr = ctx.Err()
	}

	batch := types.BatchResult{
		Results: make([]types.RenderResult, 0, len(jobs)),
		Errors:  []types.ItemError{},
	}
	for i, o := range outcomes {
		if !o.done {
			continue
		}
		if o.err != nil {
			itemErr := ToItemError(jobs[i].failedName(o.err), o.err)
			batch.Errors = append(batch.Errors, itemErr)
			log.Warn("skipping item",
				zap.String("name", itemErr.Name),
				zap.String("kind", itemErr.Kind),
				zap.Error(o.err))
			if opts.Reporter != nil {
				opts.Reporter.ReportError(itemErr)
			}
			continue
		}
		batch.Results = append(batch.Results, o.result)
		log.Debug("rendered item",
			zap.String("name", jobs[i].name()),
			zap.String("filename", o.result.Filename))
	}

	var overwritten []string
	batch.Results, overwritten = types.DedupeResults(batch.Results)
	for _, name := range overwritten {
		log.Warn("overwriting duplicate output", zap.String("filename", name))
	}

	log.Info("batch rendered",
		zap.Int("items", len(jobs)),
		zap.Int("rendered", len(batch.Results)),
		zap.Int("failed", len(batch.Errors)),
		zap.Int("workers", workers))

	return batch, waitErr
}

// Process pairs the uploads and renders the whole batch.
func Process(ctx context.Context, textItems, metaItems []types.UploadedItem, sel selection.Selection, opts Options) (types.PairResult, types.BatchResult, error) {
	pairs := pairing.Pair(textItems, metaItems)
	opts.logger().Info("paired uploads",
		zap.Int("matched", len(pairs.Matched)),
		zap.Int("unmatched_text", len(pairs.UnmatchedText)),
		zap.Int("unmatched_metadata", len(pairs.UnmatchedMetadata)))

	batch, err := RenderBatch(ctx, pairs, sel, opts)
	return pairs, batch, err
}
