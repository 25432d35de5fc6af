package preprocessing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/knowledge-engine/textrep/internal/series"
)

// ErrUnknownStep is returned when a pipeline names a step that does not exist.
var ErrUnknownStep = errors.New("unknown preprocessing step")

// Step transforms a series.
type Step func(series.Series) series.Series

// Pipeline is an ordered list of steps.
type Pipeline []Step

var steps = map[string]Step{
	"lowercase":          Lowercase,
	"remove_digits":      func(s series.Series) series.Series { return RemoveDigits(s, true) },
	"remove_all_digits":  func(s series.Series) series.Series { return RemoveDigits(s, false) },
	"remove_punctuation": RemovePunctuation,
	"remove_diacritics":  RemoveDiacritics,
	"remove_whitespace":  RemoveWhitespace,
	"remove_stopwords":   func(s series.Series) series.Series { return RemoveStopwords(s, nil) },
	"remove_html_tags":   RemoveHTMLTags,
	"stem":               Stem,
	"tokenize":           Tokenize,
}

// DefaultPipeline lowercases, drops digit blocks, punctuation, diacritics and
// stop words, then normalizes whitespace.
func DefaultPipeline() Pipeline {
	return Pipeline{
		Lowercase,
		steps["remove_digits"],
		RemovePunctuation,
		RemoveDiacritics,
		steps["remove_stopwords"],
		RemoveWhitespace,
	}
}

// ParsePipeline resolves step names such as "lowercase" or "stem".
func ParsePipeline(names []string) (Pipeline, error) {
	p := make(Pipeline, 0, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		step, ok := steps[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownStep, name)
		}
		p = append(p, step)
	}
	return p, nil
}

// Run applies every step in order.
func (p Pipeline) Run(s series.Series) series.Series {
	for _, step := range p {
		s = step(s)
	}
	return s
}

// Clean runs the given pipeline, or DefaultPipeline when none is given.
func Clean(s series.Series, pipeline ...Step) series.Series {
	if len(pipeline) == 0 {
		pipeline = DefaultPipeline()
	}
	return Pipeline(pipeline).Run(s)
}
