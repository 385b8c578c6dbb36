// Package taxonomy holds the static category and merchant tables used by the
// classifiers. A Taxonomy is loaded once and never mutated, so it can be
// shared freely between goroutines.
package taxonomy

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Category maps a category name to the words that identify it.
type Category struct {
	Name     string   `yaml:"name" json:"name"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// Merchant maps a known store name to a category. Key is searched as a
// lowercase substring of receipt header lines.
type Merchant struct {
	Key      string `yaml:"key" json:"key"`
	Name     string `yaml:"name" json:"name"`
	Category string `yaml:"category" json:"category"`
}

// Keyword is one keyword with the category it belongs to.
type Keyword struct {
	Word     string
	Category string
}

// Taxonomy is the full set of lookup tables.
type Taxonomy struct {
	Categories []Category `yaml:"categories" json:"categories"`
	Merchants  []Merchant `yaml:"merchants" json:"merchants"`
	Fallback   []Category `yaml:"fallback" json:"fallback"`

	keywords []Keyword
	byName   map[string]Category
}

// Default returns the embedded taxonomy. It panics if the embedded data is
// invalid, which would be a build defect.
func Default() *Taxonomy {
	t, err := Parse(defaultYAML)
	if err != nil {
		panic("invalid embedded taxonomy: " + err.Error())
	}
	return t
}

// Load reads a taxonomy YAML file from disk.
func Load(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading taxonomy: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing taxonomy %s: %w", path, err)
	}
	return t, nil
}

// LoadOrDefault loads path, or returns the embedded taxonomy when path is empty.
func LoadOrDefault(path string) (*Taxonomy, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Parse decodes and validates taxonomy YAML.
func Parse(data []byte) (*Taxonomy, error) {
	var t Taxonomy
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decoding taxonomy: %w", err)
	}
	if err := t.index(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *Taxonomy) index() error {
	if len(t.Categories) == 0 {
		return fmt.Errorf("taxonomy has no categories")
	}
	t.byName = make(map[string]Category, len(t.Categories))
	for i, c := range t.Categories {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return fmt.Errorf("category %d has no name", i)
		}
		if _, ok := t.byName[name]; ok {
			return fmt.Errorf("duplicate category %q", name)
		}
		t.byName[name] = c
		for _, kw := range c.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			t.keywords = append(t.keywords, Keyword{Word: kw, Category: name})
		}
	}
	for i := range t.Merchants {
		m := &t.Merchants[i]
		m.Key = strings.ToLower(strings.TrimSpace(m.Key))
		if m.Key == "" {
			return fmt.Errorf("merchant %d has no key", i)
		}
		if m.Name == "" {
			m.Name = m.Key
		}
		if m.Category != "" && !t.Exists(m.Category) {
			return fmt.Errorf("merchant %q: unknown category %q", m.Key, m.Category)
		}
	}
	for _, c := range t.Fallback {
		if !t.Exists(c.Name) {
			return fmt.Errorf("fallback: unknown category %q", c.Name)
		}
	}
	return nil
}

// Keywords returns every keyword in taxonomy order.
func (t *Taxonomy) Keywords() []Keyword {
	return t.keywords
}

// Category returns a category by name.
func (t *Taxonomy) Category(name string) (Category, bool) {
	c, ok := t.byName[name]
	return c, ok
}

// Exists reports whether a category name is defined.
func (t *Taxonomy) Exists(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// Names returns the category names in declaration order.
func (t *Taxonomy) Names() []string {
	names := make([]string, len(t.Categories))
	for i, c := range t.Categories {
		names[i] = c.Name
	}
	return names
}

// FindMerchant returns the first merchant whose key occurs in line.
func (t *Taxonomy) FindMerchant(line string) (Merchant, bool) {
	lower := strings.ToLower(line)
	for _, m := range t.Merchants {
		if strings.Contains(lower, m.Key) {
			return m, true
		}
	}
	return Merchant{}, false
}

// FallbackCategory returns the first fallback category with a keyword in text.
func (t *Taxonomy) FallbackCategory(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, c := range t.Fallback {
		for _, kw := range c.Keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				return c.Name, true
			}
		}
	}
	return "", false
}

// DefaultYAML returns the embedded taxonomy source, for users who want a
// starting point to edit.
func DefaultYAML() []byte {
	return append([]byte(nil), defaultYAML...)
}
