package selection

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// NoTagsSlug is the filename slug used when there are no custom tags.
const NoTagsSlug = "no-tags"

// Selection holds the two ordered tag lists supplied by the caller.
type Selection struct {
	// Selected are metadata keys to prepend, in output order. The empty
	// string is a valid JSON key and may be selected; repeats are not.
	Selected []string `json:"selected_tags" validate:"unique"`
	// Custom are free-form labels. Empty strings are allowed.
	Custom []string `json:"custom_tags"`
}

var validate = validator.New()

// New builds a Selection from selected keys and a raw comma-separated custom tag input.
func New(selected []string, customInput string) Selection {
	return Selection{
		Selected: selected,
		Custom:   ParseCustomTags(customInput),
	}
}

// ParseCustomTags splits a comma-separated input and trims each entry.
// An empty (or whitespace-only) input yields no tags. Empty segments are kept,
// so "a, b," yields ["a", "b", ""].
func ParseCustomTags(input string) []string {
	if strings.TrimSpace(input) == "" {
		return []string{}
	}
	parts := strings.Split(input, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		tags = append(tags, strings.TrimSpace(p))
	}
	return tags
}

// HasCustom reports whether any custom tag was given.
func (s Selection) HasCustom() bool {
	return len(s.Custom) > 0
}

// Slug derives the filename fragment from the custom tags: tags joined by '_'
// with spaces replaced by '-', or NoTagsSlug when there are none.
// Selected tags never contribute.
func (s Selection) Slug() string {
	if !s.HasCustom() {
		return NoTagsSlug
	}
	return strings.ReplaceAll(strings.Join(s.Custom, "_"), " ", "-")
}

// Validate checks that selected tags are distinct and, when available is
// non-nil, that each one is offered by the representative document.
func (s Selection) Validate(available []string) error {
	if err := validate.Struct(s); err != nil {
		return &Error{Message: "invalid tag selection", Cause: err}
	}
	if available == nil {
		return nil
	}

	offered := make(map[string]bool, len(available))
	for _, tag := range available {
		offered[tag] = true
	}

	var unknown []string
	for _, tag := range s.Selected {
		if !offered[tag] {
			unknown = append(unknown, tag)
		}
	}
	if len(unknown) > 0 {
		return &UnknownTagsError{Tags: unknown}
	}
	return nil
}
