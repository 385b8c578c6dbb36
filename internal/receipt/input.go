package receipt

import "github.com/cleared-dev/txparse/internal/model"

// Input is what the receipt parser works on. It is either WithGeometry,
// when the OCR engine returned layout, or TextOnly.
type Input interface {
	// FullText returns the page text.
	FullText() string
	isInput()
}

// WithGeometry carries the page text plus block layout and per-token
// annotations. Annotations[0] is the whole page and is never scored.
type WithGeometry struct {
	Text        string
	Blocks      []model.Block
	Annotations []model.Annotation
}

// TextOnly is plain OCR text with no layout.
type TextOnly struct {
	Text string
}

func (WithGeometry) isInput() {}
func (TextOnly) isInput()     {}

// FullText prefers Text and falls back to the whole-page annotation.
func (w WithGeometry) FullText() string {
	if w.Text == "" && len(w.Annotations) > 0 {
		return w.Annotations[0].Description
	}
	return w.Text
}

func (t TextOnly) FullText() string { return t.Text }

// NewInput picks the variant: without blocks there is no usable layout.
func NewInput(text string, blocks []model.Block, annotations []model.Annotation) Input {
	if len(blocks) == 0 {
		return TextOnly{Text: text}
	}
	return WithGeometry{Text: text, Blocks: blocks, Annotations: annotations}
}

// FromOCR builds an Input from a decoded OCR payload.
func FromOCR(r model.OCRResult) Input {
	return NewInput(r.Text, r.Blocks, r.Annotations)
}
