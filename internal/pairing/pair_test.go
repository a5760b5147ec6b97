package pairing

import (
	"testing"

	"github.com/jonathan/file-tagger/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(name, content string) types.UploadedItem {
	return types.UploadedItem{Name: name, Content: []byte(content)}
}

func names(items []types.UploadedItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Name)
	}
	return out
}

func TestPair_DisjointStems(t *testing.T) {
	text := []types.UploadedItem{item("b.txt", "1"), item("a.txt", "2")}
	meta := []types.UploadedItem{item("c.json", "{}"), item("d.json", "{}")}

	result := Pair(text, meta)

	assert.Empty(t, result.Matched)
	assert.Equal(t, []string{"b.txt", "a.txt"}, names(result.UnmatchedText))
	assert.Equal(t, []string{"c.json", "d.json"}, names(result.UnmatchedMetadata))
}

func TestPair_SingleMatch(t *testing.T) {
	text := []types.UploadedItem{item("a.txt", "hello"), item("x.txt", "other")}
	meta := []types.UploadedItem{item("y.json", "{}"), item("a.json", `{"k":"v"}`)}

	result := Pair(text, meta)

	require.Len(t, result.Matched, 1)
	assert.Equal(t, "a.txt", result.Matched[0].Text.Name)
	assert.Equal(t, "a.json", result.Matched[0].Metadata.Name)
	assert.Equal(t, []string{"x.txt"}, names(result.UnmatchedText))
	assert.Equal(t, []string{"y.json"}, names(result.UnmatchedMetadata))
}

func TestPair_MatchedFollowsTextOrder(t *testing.T) {
	text := []types.UploadedItem{item("c.txt", ""), item("a.txt", ""), item("b.txt", "")}
	meta := []types.UploadedItem{item("a.json", ""), item("b.json", ""), item("c.json", "")}

	result := Pair(text, meta)

	require.Len(t, result.Matched, 3)
	assert.Equal(t, "c.txt", result.Matched[0].Text.Name)
	assert.Equal(t, "a.txt", result.Matched[1].Text.Name)
	assert.Equal(t, "b.txt", result.Matched[2].Text.Name)
	assert.Empty(t, result.UnmatchedText)
	assert.Empty(t, result.UnmatchedMetadata)
}

func TestPair_DuplicateStemLastWins(t *testing.T) {
	text := []types.UploadedItem{item("a.txt", "first"), item("a.md", "second")}
	meta := []types.UploadedItem{item("a.json", "{}")}

	result := Pair(text, meta)

	require.Len(t, result.Matched, 1)
	assert.Equal(t, "a.md", result.Matched[0].Text.Name)
	assert.Equal(t, "second", string(result.Matched[0].Text.Content))
	// The loser of the last-wins rule is unmatched even though its stem matched.
	assert.Equal(t, []string{"a.txt"}, names(result.UnmatchedText))
	assert.Empty(t, result.UnmatchedMetadata)
}

func TestPair_DuplicateMetadataStemLastWins(t *testing.T) {
	text := []types.UploadedItem{item("a.txt", "")}
	meta := []types.UploadedItem{item("a.json", `{"v":1}`), item("a.meta.json", `{"v":2}`)}

	result := Pair(text, meta)

	require.Len(t, result.Matched, 1)
	assert.Equal(t, "a.meta.json", result.Matched[0].Metadata.Name)
	assert.Equal(t, []string{"a.json"}, names(result.UnmatchedMetadata))
}

func TestPair_NoDotUsesWholeName(t *testing.T) {
	text := []types.UploadedItem{item("notes", "body")}
	meta := []types.UploadedItem{item("notes.json", "{}")}

	result := Pair(text, meta)

	require.Len(t, result.Matched, 1)
	assert.Equal(t, "notes", result.Matched[0].Text.Name)
}

func TestPair_EmptyInputs(t *testing.T) {
	result := Pair(nil, nil)

	assert.NotNil(t, result.Matched)
	assert.Empty(t, result.Matched)
	assert.Empty(t, result.UnmatchedText)
	assert.Empty(t, result.UnmatchedMetadata)
	assert.Equal(t, 0, result.Len())
}

func TestPair_EveryItemAccountedFor(t *testing.T) {
	text := []types.UploadedItem{
		item("a.txt", ""), item("b.txt", ""), item("a.text", ""), item("z", ""),
	}
	meta := []types.UploadedItem{
		item("b.json", ""), item("q.json", ""), item("a.json", ""), item("b.yaml.json", ""),
	}

	result := Pair(text, meta)

	assert.Equal(t, len(text), len(result.Matched)+len(result.UnmatchedText))
	assert.Equal(t, len(meta), len(result.Matched)+len(result.UnmatchedMetadata))
}
