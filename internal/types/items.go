// Package types provides type definitions for structured data used throughout the file-tagger system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// UploadedItem is a named byte blob supplied by the caller. The core only reads it.
type UploadedItem struct {
	Name    string `json:"name"`
	Content []byte `json:"-"`
}

// Stem returns the pairing key of the item.
func (u UploadedItem) Stem() string {
	return Stem(u.Name)
}

// Stem returns the portion of name before the first '.', or the whole name
// when it has no '.'.
func Stem(name string) string {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return name
}

// MatchedPair is a text item and a metadata item sharing the same stem.
type MatchedPair struct {
	Text     UploadedItem `json:"text"`
	Metadata UploadedItem `json:"metadata"`
}

// PairResult partitions an upload into matched pairs and the two leftovers.
type PairResult struct {
	Matched           []MatchedPair  `json:"matched"`
	UnmatchedText     []UploadedItem `json:"unmatched_text"`
	UnmatchedMetadata []UploadedItem `json:"unmatched_metadata"`
}

// Len returns the number of render jobs the partition produces.
func (p PairResult) Len() int {
	return len(p.Matched) + len(p.UnmatchedText) + len(p.UnmatchedMetadata)
}
