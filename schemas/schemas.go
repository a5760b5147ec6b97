// Package schemas embeds the JSON Schema files shipped with file-tagger.
package schemas

import "embed"

// Schema file names.
const (
	MetadataShape = "metadata_shape.schema.json"
	Config        = "config.schema.json"
)

// FS holds every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS
