package metadata

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jonathan/file-tagger/internal/ingestion"
	"github.com/jonathan/file-tagger/internal/schemas"
	"github.com/jonathan/file-tagger/internal/types"
	embedded "github.com/jonathan/file-tagger/schemas"
)

// Document is a flat tag-name to value mapping that remembers key order.
type Document struct {
	keys   []string
	values map[string]json.RawMessage
}

// Keys returns the tag names in the order they appear in the source document.
func (d *Document) Keys() []string {
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// Len returns the number of tags.
func (d *Document) Len() int {
	return len(d.keys)
}

// Has reports whether tag is a key of the document.
func (d *Document) Has(tag string) bool {
	_, ok := d.values[tag]
	return ok
}

// Lookup returns the value of tag in its natural textual form.
// Strings are returned without quotes, numbers in their literal form,
// booleans and null as true, false and null, arrays and objects as compact JSON.
func (d *Document) Lookup(tag string) (string, bool) {
	raw, ok := d.values[tag]
	if !ok {
		return "", false
	}
	return formatValue(raw), true
}

// Parse decodes and normalizes a metadata item.
//
// Errors: *ingestion.DecodeError for non UTF-8 bytes, *InvalidJSONError for
// syntax errors and *UnsupportedShapeError for any top-level value other than
// an object or an array whose first element is an object. An empty array
// yields an empty document.
func Parse(item types.UploadedItem) (*Document, error) {
	text, err := ingestion.DecodeText(item)
	if err != nil {
		return nil, err
	}
	data := []byte(text)

	if !json.Valid(data) {
		var v any
		cause := json.Unmarshal(data, &v)
		return nil, &InvalidJSONError{Name: item.Name, Cause: cause}
	}

	if err := schemas.Validate(embedded.MetadataShape, data); err != nil {
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			return nil, &UnsupportedShapeError{Name: item.Name, Shape: describeShape(data), Cause: err}
		}
		return nil, err
	}

	object := bytes.TrimSpace(data)
	if object[0] == '[' {
		first, err := firstElement(object)
		if err != nil {
			return nil, &InvalidJSONError{Name: item.Name, Cause: err}
		}
		if first == nil {
			return &Document{values: map[string]json.RawMessage{}}, nil
		}
		object = first
	}

	doc, err := decodeObject(object)
	if err != nil {
		return nil, &InvalidJSONError{Name: item.Name, Cause: err}
	}
	return doc, nil
}

// AvailableTags returns the tags a caller may select, in document order.
func AvailableTags(doc *Document) []string {
	if doc == nil {
		return []string{}
	}
	return doc.Keys()
}

// firstElement returns the first element of a JSON array without decoding
// the rest. It returns nil for an empty array.
func firstElement(data []byte) (json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if !dec.More() {
		return nil, nil
	}
	var first json.RawMessage
	if err := dec.Decode(&first); err != nil {
		return nil, err
	}
	return first, nil
}

// decodeObject reads a JSON object keeping first-seen key order. A repeated
// key keeps its first position and takes the last value.
func decodeObject(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	doc := &Document{values: map[string]json.RawMessage{}}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}

		if _, seen := doc.values[key]; !seen {
			doc.keys = append(doc.keys, key)
		}
		doc.values[key] = raw
	}

	return doc, nil
}

func formatValue(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ""
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	case '[', '{':
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err == nil {
			return buf.String()
		}
	}
	return string(trimmed)
}

// describeShape names the top-level JSON kind for error messages.
func describeShape(data []byte) string {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return "invalid"
	}
	if arr, ok := v.([]any); ok && len(arr) > 0 {
		return "array of " + kindOf(arr[0])
	}
	return kindOf(v)
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
