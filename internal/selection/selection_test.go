package selection

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCustomTags(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"empty", "", []string{}},
		{"whitespace only", "   ", []string{}},
		{"single", "draft", []string{"draft"}},
		{"trims entries", " a ,  b c ,d", []string{"a", "b c", "d"}},
		{"trailing comma keeps empty tag", "a, b,", []string{"a", "b", ""}},
		{"blank middle entry kept", "a,  ,b", []string{"a", "", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseCustomTags(tt.input))
		})
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		name     string
		custom   []string
		expected string
	}{
		{"no custom tags", nil, "no-tags"},
		{"single", []string{"draft"}, "draft"},
		{"spaces become dashes", []string{"a", "b c"}, "a_b-c"},
		{"trailing empty tag", []string{"a", ""}, "a_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Selection{Selected: []string{"ignored"}, Custom: tt.custom}
			assert.Equal(t, tt.expected, s.Slug())
		})
	}
}

func TestNew(t *testing.T) {
	s := New([]string{"color"}, "x, y")
	assert.Equal(t, []string{"color"}, s.Selected)
	assert.Equal(t, []string{"x", "y"}, s.Custom)
	assert.True(t, s.HasCustom())

	assert.False(t, New(nil, "").HasCustom())
}

func TestValidate(t *testing.T) {
	available := []string{"color", "size"}

	assert.NoError(t, Selection{Selected: []string{"size", "color"}}.Validate(available))
	assert.NoError(t, Selection{}.Validate(available))
	assert.NoError(t, Selection{Selected: []string{"anything"}}.Validate(nil))

	err := Selection{Selected: []string{"color", "weight", "shape"}}.Validate(available)
	require.Error(t, err)
	var unknown *UnknownTagsError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, []string{"weight", "shape"}, unknown.Tags)
	assert.Equal(t, "unknown tags selected: weight, shape", err.Error())
}

func TestValidate_DuplicateSelectedTag(t *testing.T) {
	err := Selection{Selected: []string{"color", "size", "color"}}.Validate(nil)
	require.Error(t, err)

	var selErr *Error
	require.True(t, errors.As(err, &selErr))
	assert.Contains(t, err.Error(), "invalid tag selection")
}

func TestValidate_EmptyKeyIsSelectable(t *testing.T) {
	sel := Selection{Selected: []string{"", "color"}}

	assert.NoError(t, sel.Validate(nil))
	assert.NoError(t, sel.Validate([]string{"color", ""}))

	var unknown *UnknownTagsError
	require.ErrorAs(t, sel.Validate([]string{"color"}), &unknown)
	assert.Equal(t, []string{""}, unknown.Tags)
}
