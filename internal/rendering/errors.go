// Package rendering regenerates text files with selected metadata tags prepended.
package rendering

import "errors"

// ErrNoInput is returned by Render when neither a text nor a metadata item is given.
var ErrNoInput = errors.New("rendering: no text or metadata item given")
