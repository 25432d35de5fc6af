package search

import (
	"github.com/knowledge-engine/textrep/internal/preprocessing"
	"github.com/knowledge-engine/textrep/internal/series"
)

// Document represents a searchable item
type Document struct {
	ID      string    `json:"id"`
	Title   string    `json:"title,omitempty"`
	Content string    `json:"content"`
	Vector  []float64 `json:"-"`

	tokens []string
}

// Analyzer turns raw text into the tokens that get indexed.
type Analyzer func(text string) []string

// DefaultAnalyzer cleans text with the default preprocessing pipeline and
// tokenizes what is left.
func DefaultAnalyzer(text string) []string {
	cleaned := preprocessing.Clean(series.FromText(text))
	return preprocessing.Tokenize(cleaned).Doc(0)
}
