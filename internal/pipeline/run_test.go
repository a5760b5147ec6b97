package pipeline

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/jonathan/file-tagger/internal/archive"
	"github.com/jonathan/file-tagger/internal/pairing"
	"github.com/jonathan/file-tagger/internal/selection"
	"github.com/jonathan/file-tagger/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func item(name, content string) types.UploadedItem {
	return types.UploadedItem{Name: name, Content: []byte(content)}
}

type recordingReporter struct {
	mu   sync.Mutex
	errs []types.ItemError
}

func (r *recordingReporter) ReportError(itemErr types.ItemError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, itemErr)
}

func filenames(results []types.RenderResult) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.Filename)
	}
	return out
}

func TestRenderBatch_OrderMatchedThenTextThenMetadata(t *testing.T) {
	pairs := pairing.Pair(
		[]types.UploadedItem{item("a.txt", "A"), item("lonely.txt", "L")},
		[]types.UploadedItem{item("solo.json", `{"k": "v"}`), item("a.json", `{"k": "x"}`)},
	)
	sel := selection.Selection{Selected: []string{"k"}}

	batch, err := RenderBatch(context.Background(), pairs, sel, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"processed_no-tags_a.txt",
		"processed_no-tags_lonely.txt",
		"processed_no-tags_solo.txt",
	}, filenames(batch.Results))
	assert.Equal(t, "k: x\n\nA", batch.Results[0].Content)
	assert.Equal(t, "File Type: txt\n\nL", batch.Results[1].Content)
	assert.Equal(t, "File Type: json\nk: v\n", batch.Results[2].Content)
	assert.Empty(t, batch.Errors)
}

func TestRenderBatch_FailureDoesNotAbortBatch(t *testing.T) {
	pairs := pairing.Pair(
		[]types.UploadedItem{item("good.txt", "ok"), item("bad.txt", "never")},
		[]types.UploadedItem{
			item("good.json", `{"k": "v"}`),
			item("bad.json", `{not json`),
			item("broken.json", `{"a":`),
			item("fine.json", `{}`),
		},
	)
	reporter := &recordingReporter{}

	batch, err := RenderBatch(context.Background(), pairs, selection.Selection{}, Options{Reporter: reporter})
	require.NoError(t, err)

	assert.Equal(t, []string{"processed_no-tags_good.txt", "processed_no-tags_fine.txt"}, filenames(batch.Results))
	require.Len(t, batch.Errors, 2)
	assert.Equal(t, types.ItemError{
		Name:    "bad.json",
		Kind:    types.ErrorKindInvalidJSON,
		Message: batch.Errors[0].Message,
	}, batch.Errors[0])
	assert.Equal(t, "broken.json", batch.Errors[1].Name)
	assert.Contains(t, batch.Errors[1].Message, "broken.json")
	assert.Equal(t, batch.Errors, reporter.errs)
}

func TestRenderBatch_ErrorKinds(t *testing.T) {
	pairs := types.PairResult{
		UnmatchedText: []types.UploadedItem{{Name: "bin.txt", Content: []byte{0xff}}},
		UnmatchedMetadata: []types.UploadedItem{
			item("scalar.json", `42`),
			item("syntax.json", `[`),
		},
	}

	batch, err := RenderBatch(context.Background(), pairs, selection.Selection{}, Options{})
	require.NoError(t, err)

	assert.Empty(t, batch.Results)
	require.Len(t, batch.Errors, 3)
	assert.Equal(t, types.ErrorKindDecode, batch.Errors[0].Kind)
	assert.Equal(t, "bin.txt", batch.Errors[0].Name)
	assert.Equal(t, types.ErrorKindUnsupportedShape, batch.Errors[1].Kind)
	assert.Equal(t, types.ErrorKindInvalidJSON, batch.Errors[2].Kind)
}

func TestRenderBatch_PairErrorNamesMetadataItem(t *testing.T) {
	pairs := pairing.Pair(
		[]types.UploadedItem{item("doc.txt", "x")},
		[]types.UploadedItem{item("doc.json", `"scalar"`)},
	)

	batch, err := RenderBatch(context.Background(), pairs, selection.Selection{}, Options{})
	require.NoError(t, err)
	require.Len(t, batch.Errors, 1)
	assert.Equal(t, "doc.json", batch.Errors[0].Name)
}

func TestRenderBatch_ConcurrentMatchesSequential(t *testing.T) {
	var text, meta []types.UploadedItem
	for i := 0; i < 40; i++ {
		text = append(text, item(fmt.Sprintf("f%02d.txt", i), fmt.Sprintf("body %d", i)))
		if i%3 != 0 {
			meta = append(meta, item(fmt.Sprintf("f%02d.json", i), fmt.Sprintf(`{"n": %d}`, i)))
		}
		if i%7 == 0 {
			meta = append(meta, item(fmt.Sprintf("bad%02d.json", i), `{`))
		}
	}
	pairs := pairing.Pair(text, meta)
	sel := selection.Selection{Selected: []string{"n"}, Custom: []string{"batch"}}

	sequential, err := RenderBatch(context.Background(), pairs, sel, Options{Workers: 1})
	require.NoError(t, err)
	concurrent, err := RenderBatch(context.Background(), pairs, sel, Options{Workers: 8})
	require.NoError(t, err)

	assert.Equal(t, sequential, concurrent)
	assert.Len(t, sequential.Results, 40)
	assert.Len(t, sequential.Errors, 6)
}

func TestRenderBatch_Progress(t *testing.T) {
	pairs := pairing.Pair(
		[]types.UploadedItem{item("a.txt", "A"), item("b.txt", "B")},
		[]types.UploadedItem{item("a.json", `{}`)},
	)

	var events []ProgressEvent
	_, err := RenderBatch(context.Background(), pairs, selection.Selection{}, Options{
		OnProgress: func(e ProgressEvent) { events = append(events, e) },
	})
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, ProgressEvent{Index: 0, Total: 2, Name: "a.txt", Mode: "pair", OK: true}, events[0])
	assert.Equal(t, "text-only", events[1].Mode)
}

func TestRenderBatch_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pairs := pairing.Pair([]types.UploadedItem{item("a.txt", "A")}, nil)
	batch, err := RenderBatch(ctx, pairs, selection.Selection{}, Options{})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, batch.Results)
}

func TestRenderBatch_LogsSkippedItems(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	pairs := types.PairResult{UnmatchedMetadata: []types.UploadedItem{item("x.json", "nope")}}

	_, err := RenderBatch(context.Background(), pairs, selection.Selection{}, Options{Logger: zap.New(core)})
	require.NoError(t, err)

	entries := logs.FilterMessage("skipping item").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "x.json", entries[0].ContextMap()["name"])
}

func TestProcess_DuplicateOutputLastWins(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	reporter := &recordingReporter{}

	pairs, batch, err := Process(context.Background(),
		[]types.UploadedItem{item("a.txt", "A-text"), item("b.txt", "B-text")},
		[]types.UploadedItem{item("a.json", `{"v": 1}`), item("a.v2.json", `{"v": 2}`), item("b.json", `{}`)},
		selection.Selection{},
		Options{Logger: zap.New(core), Reporter: reporter},
	)
	require.NoError(t, err)

	require.Len(t, pairs.Matched, 2)
	assert.Equal(t, "a.v2.json", pairs.Matched[0].Metadata.Name)
	require.Len(t, pairs.UnmatchedMetadata, 1)
	assert.Equal(t, "a.json", pairs.UnmatchedMetadata[0].Name)

	assert.Equal(t, []types.RenderResult{
		{Filename: "processed_no-tags_a.txt", Content: "File Type: json\n"},
		{Filename: "processed_no-tags_b.txt", Content: "\nB-text"},
	}, batch.Results)
	assert.Equal(t, batch.Files()["processed_no-tags_a.txt"], batch.Results[0].Content)
	assert.Empty(t, batch.Errors)
	assert.Empty(t, reporter.errs)

	entries := logs.FilterMessage("overwriting duplicate output").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "processed_no-tags_a.txt", entries[0].ContextMap()["filename"])

	data, err := archive.Bytes(batch.Results)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestProcess(t *testing.T) {
	reporter := &recordingReporter{}
	pairs, batch, err := Process(context.Background(),
		[]types.UploadedItem{item("doc.txt", "hello")},
		[]types.UploadedItem{item("doc.json", `{"color": "red", "size": "M"}`), item("bad.json", `x`)},
		selection.Selection{Selected: []string{"color"}},
		Options{Reporter: reporter},
	)
	require.NoError(t, err)

	assert.Len(t, pairs.Matched, 1)
	require.Len(t, batch.Results, 1)
	assert.Equal(t, "color: red\n\nhello", batch.Results[0].Content)
	require.Len(t, reporter.errs, 1)
	assert.Equal(t, "bad.json", reporter.errs[0].Name)
}

func TestReporterFunc(t *testing.T) {
	var got types.ItemError
	var r Reporter = ReporterFunc(func(e types.ItemError) { got = e })
	r.ReportError(types.ItemError{Name: "n"})
	assert.Equal(t, "n", got.Name)
}
