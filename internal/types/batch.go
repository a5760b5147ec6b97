package types

// RenderResult is one regenerated text file.
type RenderResult struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// Error kinds reported for items that could not be rendered.
const (
	ErrorKindInvalidJSON      = "invalid_json"
	ErrorKindUnsupportedShape = "unsupported_shape"
	ErrorKindDecode           = "decode_error"
	ErrorKindRender           = "render_error"
)

// ItemError is a user-visible failure for a single uploaded item.
type ItemError struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// BatchResult holds the successful renders of a batch and the items that were skipped.
type BatchResult struct {
	Results []RenderResult `json:"results"`
	Errors  []ItemError    `json:"errors"`
}

// DedupeResults collapses results sharing a filename. Each filename keeps the
// position of its first occurrence and the content of its last, matching
// Files. The names that were overwritten are returned in order.
func DedupeResults(results []RenderResult) (unique []RenderResult, overwritten []string) {
	index := make(map[string]int, len(results))
	unique = make([]RenderResult, 0, len(results))
	for _, r := range results {
		if i, ok := index[r.Filename]; ok {
			unique[i].Content = r.Content
			overwritten = append(overwritten, r.Filename)
			continue
		}
		index[r.Filename] = len(unique)
		unique = append(unique, r)
	}
	return unique, overwritten
}

// Files returns the results as a filename to content mapping.
func (b BatchResult) Files() map[string]string {
	files := make(map[string]string, len(b.Results))
	for _, r := range b.Results {
		files[r.Filename] = r.Content
	}
	return files
}
