package model

// Vertex is one corner of a bounding polygon, in pixels.
type Vertex struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// BoundingPoly is a four-vertex region. Vertices start at the top-left
// corner and go clockwise, as OCR engines report them.
type BoundingPoly struct {
	Vertices []Vertex `json:"vertices"`
}

// Top returns the y of the first vertex, or 0 for an empty polygon.
func (p BoundingPoly) Top() float64 {
	if len(p.Vertices) == 0 {
		return 0
	}
	return p.Vertices[0].Y
}

// Left returns the x of the first vertex, or 0 for an empty polygon.
func (p BoundingPoly) Left() float64 {
	if len(p.Vertices) == 0 {
		return 0
	}
	return p.Vertices[0].X
}

// Height is the vertical extent across all vertices.
func (p BoundingPoly) Height() float64 {
	if len(p.Vertices) == 0 {
		return 0
	}
	lo, hi := p.Vertices[0].Y, p.Vertices[0].Y
	for _, v := range p.Vertices[1:] {
		lo = min(lo, v.Y)
		hi = max(hi, v.Y)
	}
	return hi - lo
}

// MaxX and MaxY return the furthest extent of the polygon.
func (p BoundingPoly) MaxX() float64 {
	var m float64
	for _, v := range p.Vertices {
		m = max(m, v.X)
	}
	return m
}

func (p BoundingPoly) MaxY() float64 {
	var m float64
	for _, v := range p.Vertices {
		m = max(m, v.Y)
	}
	return m
}

// Annotation is one recognized token. By convention the first annotation of
// an OCR result holds the whole page text.
type Annotation struct {
	Description  string       `json:"description"`
	BoundingPoly BoundingPoly `json:"boundingPoly"`
}

// Block is a region of text on the page.
type Block struct {
	BoundingBox BoundingPoly `json:"boundingBox"`
	Paragraphs  []Paragraph  `json:"paragraphs,omitempty"`
}

// Paragraph groups words inside a block.
type Paragraph struct {
	BoundingBox BoundingPoly `json:"boundingBox"`
	Words       []Word       `json:"words,omitempty"`
}

// Word is the smallest geometric unit inside a block.
type Word struct {
	BoundingBox BoundingPoly `json:"boundingBox"`
	Text        string       `json:"text,omitempty"`
}

// OCRResult is the raw payload an OCR engine hands over.
type OCRResult struct {
	Text        string       `json:"text"`
	Blocks      []Block      `json:"blocks,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
}
