// Package pairing groups uploaded text and metadata items by filename stem.
package pairing

import "github.com/jonathan/file-tagger/internal/types"

// Pair partitions text and metadata items into matched pairs and unmatched leftovers.
//
// When two items in the same list share a stem, the last one wins and the
// earlier ones are reported as unmatched. Matched pairs follow the input order
// of their text items; unmatched lists keep input order.
func Pair(textItems, metaItems []types.UploadedItem) types.PairResult {
	textByStem := indexByStem(textItems)
	metaByStem := indexByStem(metaItems)

	result := types.PairResult{
		Matched:           []types.MatchedPair{},
		UnmatchedText:     []types.UploadedItem{},
		UnmatchedMetadata: []types.UploadedItem{},
	}

	matchedText := make(map[int]bool)
	matchedMeta := make(map[int]bool)

	for i, item := range textItems {
		stem := item.Stem()
		if textByStem[stem] != i {
			continue
		}
		metaIdx, ok := metaByStem[stem]
		if !ok {
			continue
		}
		matchedText[i] = true
		matchedMeta[metaIdx] = true
		result.Matched = append(result.Matched, types.MatchedPair{
			Text:     item,
			Metadata: metaItems[metaIdx],
		})
	}

	for i, item := range textItems {
		if !matchedText[i] {
			result.UnmatchedText = append(result.UnmatchedText, item)
		}
	}
	for i, item := range metaItems {
		if !matchedMeta[i] {
			result.UnmatchedMetadata = append(result.UnmatchedMetadata, item)
		}
	}

	return result
}

// indexByStem maps each stem to the index of its last occurrence.
func indexByStem(items []types.UploadedItem) map[string]int {
	index := make(map[string]int, len(items))
	for i, item := range items {
		index[item.Stem()] = i
	}
	return index
}
