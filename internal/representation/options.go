package representation

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// ErrInvalidOption is returned when vocabulary options are out of range.
var ErrInvalidOption = errors.New("invalid representation option")

// Option configures TermFrequency, TFIDF and TfidfVectorizer.
type Option func(*options)

type docBound struct {
	value   float64
	isRatio bool
}

type options struct {
	maxFeatures int
	minDF       docBound
	maxDF       docBound
	logger      *logrus.Entry
}

func newOptions(opts []Option) (*options, error) {
	o := &options{
		minDF:  docBound{value: 1},
		maxDF:  docBound{value: 1, isRatio: true},
		logger: logrus.WithField("component", "representation"),
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.maxFeatures < 0 {
		return nil, fmt.Errorf("%w: max features %d is negative", ErrInvalidOption, o.maxFeatures)
	}
	for name, b := range map[string]docBound{"min_df": o.minDF, "max_df": o.maxDF} {
		if b.value < 0 {
			return nil, fmt.Errorf("%w: %s %v is negative", ErrInvalidOption, name, b.value)
		}
		if b.isRatio && b.value > 1 {
			return nil, fmt.Errorf("%w: %s proportion %v is above 1", ErrInvalidOption, name, b.value)
		}
	}
	return o, nil
}

// docBounds resolves the document-frequency bounds against a corpus of n
// documents.
func (o *options) docBounds(n int) (minDocs, maxDocs float64, err error) {
	resolve := func(b docBound) float64 {
		if b.isRatio {
			return b.value * float64(n)
		}
		return b.value
	}
	minDocs, maxDocs = resolve(o.minDF), resolve(o.maxDF)
	if maxDocs < minDocs {
		return 0, 0, fmt.Errorf("%w: max_df covers %v documents, fewer than min_df %v",
			ErrInvalidOption, maxDocs, minDocs)
	}
	return minDocs, maxDocs, nil
}

// WithMaxFeatures keeps only the n most frequent tokens. Zero keeps all.
func WithMaxFeatures(n int) Option {
	return func(o *options) { o.maxFeatures = n }
}

// WithMinDF ignores tokens present in fewer than the given proportion of
// documents.
func WithMinDF(ratio float64) Option {
	return func(o *options) { o.minDF = docBound{value: ratio, isRatio: true} }
}

// WithMaxDF ignores tokens present in more than the given proportion of
// documents.
func WithMaxDF(ratio float64) Option {
	return func(o *options) { o.maxDF = docBound{value: ratio, isRatio: true} }
}

// WithMinDFCount ignores tokens present in fewer than n documents.
func WithMinDFCount(n int) Option {
	return func(o *options) { o.minDF = docBound{value: float64(n)} }
}

// WithMaxDFCount ignores tokens present in more than n documents.
func WithMaxDFCount(n int) Option {
	return func(o *options) { o.maxDF = docBound{value: float64(n)} }
}

// WithLogger sets where warnings are logged.
func WithLogger(logger *logrus.Entry) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
