package pipeline

import (
	"testing"

	"github.com/jonathan/file-tagger/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepresentativeTags_PrefersMatched(t *testing.T) {
	pairs := types.PairResult{
		Matched: []types.MatchedPair{
			{Text: item("a.txt", ""), Metadata: item("a.json", `{"title": "x", "author": "y"}`)},
		},
		UnmatchedMetadata: []types.UploadedItem{item("b.json", `{"other": 1}`)},
	}

	tags, source, errs := RepresentativeTags(pairs)
	assert.Equal(t, []string{"title", "author"}, tags)
	assert.Equal(t, "a.json", source)
	assert.Empty(t, errs)
}

func TestRepresentativeTags_SkipsUnparseable(t *testing.T) {
	pairs := types.PairResult{
		Matched: []types.MatchedPair{
			{Text: item("a.txt", ""), Metadata: item("a.json", `{oops`)},
		},
		UnmatchedMetadata: []types.UploadedItem{item("b.json", `[{"other": 1}]`)},
	}

	tags, source, errs := RepresentativeTags(pairs)
	assert.Equal(t, []string{"other"}, tags)
	assert.Equal(t, "b.json", source)
	require.Len(t, errs, 1)
	assert.Equal(t, types.ErrorKindInvalidJSON, errs[0].Kind)
}

func TestRepresentativeTags_None(t *testing.T) {
	tags, source, errs := RepresentativeTags(types.PairResult{})
	assert.Empty(t, tags)
	assert.Equal(t, "", source)
	assert.Empty(t, errs)
}
