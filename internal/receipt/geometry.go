package receipt

import (
	"strings"

	"github.com/cleared-dev/txparse/internal/model"
)

const (
	defaultPageHeight = 1000
	defaultWordHeight = 12
)

// Page is the extent of the receipt as seen through its block boxes.
type Page struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func measurePage(blocks []model.Block) Page {
	var p Page
	for _, b := range blocks {
		p.Width = max(p.Width, b.BoundingBox.MaxX())
		p.Height = max(p.Height, b.BoundingBox.MaxY())
	}
	if p.Height <= 0 {
		p.Height = defaultPageHeight
	}
	return p
}

// averageWordHeight is the mean glyph height over every word in blocks.
func averageWordHeight(blocks []model.Block) float64 {
	var sum float64
	var n int
	for _, b := range blocks {
		for _, para := range b.Paragraphs {
			for _, w := range para.Words {
				if h := w.BoundingBox.Height(); h > 0 {
					sum += h
					n++
				}
			}
		}
	}
	if n == 0 {
		return defaultWordHeight
	}
	return sum / float64(n)
}

// Type is a coarse guess at what kind of receipt this is.
type Type string

const (
	TypeRestaurant Type = "Restaurant"
	TypeFuel       Type = "Fuel"
	TypeGrocery    Type = "Grocery"
	TypeCab        Type = "Cab"
	TypeGeneral    Type = "General"
)

var typeKeywords = []struct {
	typ   Type
	words []string
}{
	{TypeRestaurant, []string{"restaurant", "cafe", "dine", "table no", "kot", "waiter", "food"}},
	{TypeFuel, []string{"petrol", "diesel", "fuel", "pump", "litre", "nozzle"}},
	{TypeGrocery, []string{"grocery", "supermarket", "mart", "provisions", "kirana"}},
	{TypeCab, []string{"trip", "ride", "driver", "cab", "fare"}},
}

// DetectType returns the first receipt type with a keyword in text.
func DetectType(text string) Type {
	lower := strings.ToLower(text)
	for _, tk := range typeKeywords {
		for _, w := range tk.words {
			if strings.Contains(lower, w) {
				return tk.typ
			}
		}
	}
	return TypeGeneral
}
