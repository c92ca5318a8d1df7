// Package editor bridges a chosen media asset into the rich-text document.
// The editor collaborator only exposes whole-content primitives, so insertion
// is append-only: cursor-aware insertion would need an explicit
// insert-at-selection primitive the editor does not provide.
package editor

import (
	"errors"
	"fmt"
	"strings"
)

// Editor is the rich-text collaborator. The bridge never rewrites existing
// content in place; it appends a fragment to whatever GetContent returns.
type Editor interface {
	GetContent() (string, error)
	SetContent(content string) error
	AppendContent(fragment string) error
}

// Size presets map to a rendered width; Full and unknown presets leave the
// width unset. Custom uses the caller-provided pair.
const (
	PresetSmall  = "small"
	PresetMedium = "medium"
	PresetLarge  = "large"
	PresetFull   = "full"
	PresetCustom = "custom"
)

var presetWidths = map[string]int{
	PresetSmall:  400,
	PresetMedium: 600,
	PresetLarge:  800,
}

// Alignment values accepted by Insertion.
const (
	AlignLeft   = "left"
	AlignCenter = "center"
	AlignRight  = "right"
	AlignFull   = "full"
)

var (
	ErrMissingAlt     = errors.New("alt text is required")
	ErrEditorNotReady = errors.New("editor is not ready")
)

// Insertion is one requested image placement.
type Insertion struct {
	ImageURL  string
	AltText   string
	Preset    string // one of the Preset constants; "" behaves like full
	Width     int    // used when Preset is custom
	Height    int    // used when Preset is custom
	Alignment string // one of the Align constants; defaults to center
	Caption   string
}

// Dimensions resolves the preset to the width/height pair carried into the
// fragment; (0, 0) means natural size.
func (in *Insertion) Dimensions() (int, int) {
	switch in.Preset {
	case PresetCustom:
		return in.Width, in.Height
	case PresetFull, "":
		return 0, 0
	default:
		return presetWidths[in.Preset], 0
	}
}

type Bridge struct {
	editor Editor
}

func NewBridge(ed Editor) *Bridge {
	return &Bridge{editor: ed}
}

// Insert validates the request, renders the fragment and appends it to the
// document. A rejected insertion leaves the document untouched.
func (b *Bridge) Insert(in Insertion) (string, error) {
	fragment, err := Fragment(in)
	if err != nil {
		return "", err
	}
	if b.editor == nil {
		return "", ErrEditorNotReady
	}
	if err := b.editor.AppendContent(fragment); err != nil {
		return "", fmt.Errorf("append fragment: %w", err)
	}
	return fragment, nil
}

// Fragment renders the markdown block for one insertion: a plain image, or a
// figure with caption when one is supplied. Blank lines on both ends keep the
// block separated from surrounding markdown.
func Fragment(in Insertion) (string, error) {
	if strings.TrimSpace(in.AltText) == "" {
		return "", ErrMissingAlt
	}
	if strings.TrimSpace(in.ImageURL) == "" {
		return "", errors.New("image url is required")
	}

	img := imageTag(in)

	var block string
	if strings.TrimSpace(in.Caption) != "" {
		block = fmt.Sprintf(
			"<figure%s>\n\n%s\n\n<figcaption class=\"text-sm text-muted-foreground text-center\">%s</figcaption>\n\n</figure>",
			alignClass(in.Alignment), img, in.Caption)
	} else {
		block = img
	}

	return "\n\n" + block + "\n\n", nil
}

// imageTag prefers plain markdown; an explicit width forces the HTML form
// since markdown cannot carry dimensions.
func imageTag(in Insertion) string {
	w, h := in.Dimensions()
	if w == 0 && h == 0 {
		return fmt.Sprintf("![%s](%s)", in.AltText, in.ImageURL)
	}

	attrs := fmt.Sprintf(` src=%q alt=%q`, in.ImageURL, in.AltText)
	if w > 0 {
		attrs += fmt.Sprintf(` width="%d"`, w)
	}
	if h > 0 {
		attrs += fmt.Sprintf(` height="%d"`, h)
	}
	return "<img" + attrs + " />"
}

func alignClass(alignment string) string {
	switch alignment {
	case AlignLeft, AlignRight, AlignFull:
		return fmt.Sprintf(" class=%q", "align-"+alignment)
	default:
		// center is the editor default and needs no class
		return ""
	}
}
