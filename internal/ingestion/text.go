package ingestion

import (
	"unicode/utf8"

	"github.com/jonathan/file-tagger/internal/types"
)

// DecodeText returns the item's content as a string, verbatim.
// It fails with a DecodeError when the bytes are not valid UTF-8.
func DecodeText(item types.UploadedItem) (string, error) {
	if offset := invalidUTF8Offset(item.Content); offset >= 0 {
		return "", &DecodeError{Name: item.Name, Offset: offset}
	}
	return string(item.Content), nil
}

// invalidUTF8Offset returns the byte offset of the first invalid sequence, or -1.
func invalidUTF8Offset(b []byte) int {
	if utf8.Valid(b) {
		return -1
	}
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return -1
}
