package representation

import (
	"github.com/knowledge-engine/textrep/internal/series"
)

// Vectorizer turns token sequences into vectors after learning from a corpus.
type Vectorizer interface {
	Fit(s series.Series) ([]Warning, error)
	Transform(tokens []string) []float64
}

// TfidfVectorizer learns a vocabulary and IDF weights from a corpus and
// applies them to any document.
type TfidfVectorizer struct {
	opts       []Option
	vocabulary *Vocabulary
	idf        []float64
}

// NewTfidfVectorizer creates an unfitted vectorizer. The options shape the
// vocabulary learned by Fit.
func NewTfidfVectorizer(opts ...Option) *TfidfVectorizer {
	return &TfidfVectorizer{
		opts:       opts,
		vocabulary: NewVocabulary(),
	}
}

// Fit analyzes the corpus to build vocabulary and IDF stats. Fitting again
// replaces what was learned before.
func (v *TfidfVectorizer) Fit(s series.Series) ([]Warning, error) {
	tf, err := TermFrequency(s, v.opts...)
	if err != nil {
		return nil, err
	}
	v.vocabulary = tf.Vocabulary
	v.idf = InverseDocumentFrequency(tf.Vectors)
	if v.idf == nil {
		v.idf = []float64{}
	}
	return tf.Warnings, nil
}

// Transform returns the unit-length TF-IDF vector of a tokenized document.
// Tokens outside the learned vocabulary are ignored.
func (v *TfidfVectorizer) Transform(tokens []string) []float64 {
	return weigh(countVector(tokens, v.vocabulary), v.idf)
}

// Vocabulary returns the learned vocabulary.
func (v *TfidfVectorizer) Vocabulary() *Vocabulary {
	return v.vocabulary
}

// IDF returns the learned weights, one per vocabulary position.
func (v *TfidfVectorizer) IDF() []float64 {
	return append([]float64(nil), v.idf...)
}
