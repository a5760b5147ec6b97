package pipeline

import (
	"github.com/jonathan/file-tagger/internal/metadata"
	"github.com/jonathan/file-tagger/internal/types"
)

// RepresentativeTags returns the tags of the first metadata item that parses,
// looking at matched pairs first and unmatched metadata second. The name of
// that item is returned alongside; both are empty when no item parses. Items
// that fail to parse are returned as errors in the order they were tried.
func RepresentativeTags(pairs types.PairResult) (tags []string, source string, errs []types.ItemError) {
	candidates := make([]types.UploadedItem, 0, len(pairs.Matched)+len(pairs.UnmatchedMetadata))
	for _, p := range pairs.Matched {
		candidates = append(candidates, p.Metadata)
	}
	candidates = append(candidates, pairs.UnmatchedMetadata...)

	return FirstTags(candidates)
}

// FirstTags returns the tags of the first item in items that parses.
func FirstTags(items []types.UploadedItem) (tags []string, source string, errs []types.ItemError) {
	errs = []types.ItemError{}
	for _, it := range items {
		doc, err := metadata.Parse(it)
		if err != nil {
			errs = append(errs, ToItemError(it.Name, err))
			continue
		}
		return metadata.AvailableTags(doc), it.Name, errs
	}
	return []string{}, "", errs
}
