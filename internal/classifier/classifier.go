// Package classifier assigns a spending category to free text by fuzzy
// matching its words against the taxonomy keywords.
package classifier

import (
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/cleared-dev/txparse/internal/model"
	"github.com/cleared-dev/txparse/internal/taxonomy"
)

const (
	// DefaultMatchThreshold is the largest distance the matcher reports at all.
	DefaultMatchThreshold = 0.3
	// DefaultAcceptThreshold is the distance a match must stay under to
	// assign its category.
	DefaultAcceptThreshold = 0.4

	minTokenLen = 3
)

// Match is the outcome of Classify. Score is the best distance found; 1
// means nothing matched.
type Match struct {
	Category string  `json:"category"`
	Score    float64 `json:"score"`
	Keyword  string  `json:"keyword,omitempty"`
	Token    string  `json:"token,omitempty"`
}

// Matched reports whether a keyword was accepted.
func (m Match) Matched() bool {
	return m.Keyword != ""
}

// Confidence is 1 - Score.
func (m Match) Confidence() float64 {
	return 1 - m.Score
}

// NoMatch is returned when no token is close enough to any keyword.
var NoMatch = Match{Category: model.CategoryOther, Score: 1}

// Classifier is safe for concurrent use.
type Classifier struct {
	keywords []taxonomy.Keyword
	sim      Similarity
	match    float64
	accept   float64
	log      zerolog.Logger
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithSimilarity replaces the default edit-distance metric.
func WithSimilarity(s Similarity) Option {
	return func(c *Classifier) { c.sim = s }
}

// WithThresholds overrides the match and accept thresholds. Zero values keep
// the defaults.
func WithThresholds(match, accept float64) Option {
	return func(c *Classifier) {
		if match > 0 {
			c.match = match
		}
		if accept > 0 {
			c.accept = accept
		}
	}
}

// WithLogger sets the debug logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Classifier) { c.log = l }
}

// New creates a Classifier over the keywords of tx.
func New(tx *taxonomy.Taxonomy, opts ...Option) *Classifier {
	c := &Classifier{
		keywords: tx.Keywords(),
		sim:      EditDistance{},
		match:    DefaultMatchThreshold,
		accept:   DefaultAcceptThreshold,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify returns the category of the best-matching word in text. Text is
// expected to be normalized already (lowercase, stop words removed).
func (c *Classifier) Classify(text string) Match {
	best := NoMatch
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		if utf8.RuneCountInString(tok) < minTokenLen {
			continue
		}
		kw, dist, ok := c.Nearest(tok)
		if !ok || dist >= best.Score {
			continue
		}
		best = Match{Category: kw.Category, Score: dist, Keyword: kw.Word, Token: tok}
		if dist == 0 {
			break
		}
	}

	if best.Score >= c.accept {
		c.log.Debug().Str("text", text).Msg("no category match")
		return NoMatch
	}
	c.log.Debug().
		Str("token", best.Token).
		Str("keyword", best.Keyword).
		Str("category", best.Category).
		Float64("score", best.Score).
		Msg("category matched")
	return best
}

// Nearest returns the closest keyword to token within the match threshold.
// Earlier keywords win ties.
func (c *Classifier) Nearest(token string) (taxonomy.Keyword, float64, bool) {
	var (
		best     taxonomy.Keyword
		bestDist = 2.0
	)
	for _, kw := range c.keywords {
		d := c.sim.Distance(token, kw.Word)
		if d < bestDist {
			best, bestDist = kw, d
			if d == 0 {
				break
			}
		}
	}
	if bestDist > c.match {
		return taxonomy.Keyword{}, 0, false
	}
	return best, bestDist, true
}
