package rendering

import (
	"strings"

	"github.com/jonathan/file-tagger/internal/ingestion"
	"github.com/jonathan/file-tagger/internal/metadata"
	"github.com/jonathan/file-tagger/internal/selection"
	"github.com/jonathan/file-tagger/internal/types"
)

const (
	filenamePrefix   = "processed_"
	customTagsLabel  = "Custom Tags: "
	textFileHeader   = "File Type: txt\n"
	metaFileHeader   = "File Type: json\n"
	metaOnlyFileExt  = ".txt"
	customTagsJoiner = ", "
)

// Mode identifies which inputs a render call received.
type Mode int

const (
	// ModePair renders a text item with its metadata.
	ModePair Mode = iota
	// ModeTextOnly renders a text item that has no metadata counterpart.
	ModeTextOnly
	// ModeMetadataOnly renders a metadata item that has no text counterpart.
	ModeMetadataOnly
)

func (m Mode) String() string {
	switch m {
	case ModePair:
		return "pair"
	case ModeTextOnly:
		return "text-only"
	case ModeMetadataOnly:
		return "metadata-only"
	default:
		return "unknown"
	}
}

// Render produces one output file from a text item, a metadata item, or both.
//
// Metadata errors (*metadata.InvalidJSONError, *metadata.UnsupportedShapeError)
// and *ingestion.DecodeError are returned unchanged so callers can report them
// by kind. Passing neither item returns ErrNoInput.
func Render(text, meta *types.UploadedItem, sel selection.Selection) (types.RenderResult, error) {
	switch {
	case text != nil && meta != nil:
		return renderPair(*text, *meta, sel)
	case text != nil:
		return renderTextOnly(*text, sel)
	case meta != nil:
		return renderMetadataOnly(*meta, sel)
	default:
		return types.RenderResult{}, ErrNoInput
	}
}

func renderPair(text, meta types.UploadedItem, sel selection.Selection) (types.RenderResult, error) {
	doc, err := metadata.Parse(meta)
	if err != nil {
		return types.RenderResult{}, err
	}
	body, err := ingestion.DecodeText(text)
	if err != nil {
		return types.RenderResult{}, err
	}

	var sb strings.Builder
	writeTagLines(&sb, doc, sel)
	writeCustomLine(&sb, sel)
	sb.WriteString("\n")
	sb.WriteString(body)

	return types.RenderResult{
		Filename: OutputFilename(text.Name, sel),
		Content:  sb.String(),
	}, nil
}

func renderTextOnly(text types.UploadedItem, sel selection.Selection) (types.RenderResult, error) {
	body, err := ingestion.DecodeText(text)
	if err != nil {
		return types.RenderResult{}, err
	}

	var sb strings.Builder
	sb.WriteString(textFileHeader)
	if sel.HasCustom() {
		writeCustomLine(&sb, sel)
	}
	sb.WriteString("\n")
	sb.WriteString(body)

	return types.RenderResult{
		Filename: OutputFilename(text.Name, sel),
		Content:  sb.String(),
	}, nil
}

func renderMetadataOnly(meta types.UploadedItem, sel selection.Selection) (types.RenderResult, error) {
	doc, err := metadata.Parse(meta)
	if err != nil {
		return types.RenderResult{}, err
	}

	var sb strings.Builder
	sb.WriteString(metaFileHeader)
	writeTagLines(&sb, doc, sel)
	writeCustomLine(&sb, sel)

	return types.RenderResult{
		Filename: OutputFilename(meta.Stem()+metaOnlyFileExt, sel),
		Content:  sb.String(),
	}, nil
}

// writeTagLines emits "<tag>: <value>" for each selected tag the document has.
func writeTagLines(sb *strings.Builder, doc *metadata.Document, sel selection.Selection) {
	for _, tag := range sel.Selected {
		value, ok := doc.Lookup(tag)
		if !ok {
			continue
		}
		sb.WriteString(tag)
		sb.WriteString(": ")
		sb.WriteString(value)
		sb.WriteString("\n")
	}
}

func writeCustomLine(sb *strings.Builder, sel selection.Selection) {
	if !sel.HasCustom() {
		return
	}
	sb.WriteString(customTagsLabel)
	sb.WriteString(strings.Join(sel.Custom, customTagsJoiner))
	sb.WriteString("\n")
}

// OutputFilename returns "processed_<slug>_<name>".
func OutputFilename(name string, sel selection.Selection) string {
	return filenamePrefix + sel.Slug() + "_" + name
}

// ModeOf reports the mode Render would use for the given inputs.
func ModeOf(text, meta *types.UploadedItem) (Mode, bool) {
	switch {
	case text != nil && meta != nil:
		return ModePair, true
	case text != nil:
		return ModeTextOnly, true
	case meta != nil:
		return ModeMetadataOnly, true
	default:
		return 0, false
	}
}
