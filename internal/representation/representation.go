package representation

import (
	"math"

	"github.com/knowledge-engine/textrep/internal/preprocessing"
	"github.com/knowledge-engine/textrep/internal/series"
)

// WarningKind classifies a non-fatal diagnostic.
type WarningKind string

// WarningDeprecation flags behavior that still works but will go away.
const WarningDeprecation WarningKind = "deprecation"

const untokenizedMessage = "input series is not tokenized; implicit tokenization is deprecated, " +
	"tokenize the series with preprocessing.Tokenize first"

// Warning is a diagnostic attached to a result.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Message string      `json:"message"`
}

// Result holds one vector per input document, aligned with the input, and
// the vocabulary giving each vector position its token.
type Result struct {
	Vocabulary *Vocabulary
	Vectors    series.VectorSeries
	Warnings   []Warning
}

// HasWarning reports whether a warning of the given kind was raised.
func (r *Result) HasWarning(kind WarningKind) bool {
	for _, w := range r.Warnings {
		if w.Kind == kind {
			return true
		}
	}
	return false
}

// ensureTokenized tokenizes a text series and reports the deprecation.
func ensureTokenized(s series.Series, o *options) (series.Series, []Warning) {
	if s.IsTokenized() {
		return s, nil
	}
	o.logger.WithField("documents", s.Len()).Warn(untokenizedMessage)
	return preprocessing.Tokenize(s), []Warning{{Kind: WarningDeprecation, Message: untokenizedMessage}}
}

// TermFrequency counts, for every document, how often each vocabulary token
// occurs in it. Tokens are case-sensitive and punctuation tokens count like
// any other. An untokenized series is tokenized first and the result carries
// a deprecation warning.
func TermFrequency(s series.Series, opts ...Option) (*Result, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}

	s, warnings := ensureTokenized(s, o)
	docs := s.Tokens()

	vocab, err := buildVocabulary(docs, o)
	if err != nil {
		return nil, err
	}

	vectors := make(series.VectorSeries, len(docs))
	for i, doc := range docs {
		vectors[i] = countVector(doc, vocab)
	}

	return &Result{
		Vocabulary: vocab,
		Vectors:    vectors,
		Warnings:   warnings,
	}, nil
}

// TFIDF weights term frequencies by smoothed inverse document frequency and
// scales every document vector to unit length.
func TFIDF(s series.Series, opts ...Option) (*Result, error) {
	tf, err := TermFrequency(s, opts...)
	if err != nil {
		return nil, err
	}

	idf := InverseDocumentFrequency(tf.Vectors)
	vectors := make(series.VectorSeries, len(tf.Vectors))
	for i, counts := range tf.Vectors {
		vectors[i] = weigh(counts, idf)
	}

	return &Result{
		Vocabulary: tf.Vocabulary,
		Vectors:    vectors,
		Warnings:   tf.Warnings,
	}, nil
}

// InverseDocumentFrequency computes ln((1+n)/(1+df))+1 for every column of a
// term-frequency matrix with n rows.
func InverseDocumentFrequency(tf series.VectorSeries) []float64 {
	if len(tf) == 0 {
		return nil
	}
	n := float64(len(tf))
	df := make([]float64, len(tf[0]))
	for _, counts := range tf {
		for j, c := range counts {
			if c > 0 {
				df[j]++
			}
		}
	}

	idf := make([]float64, len(df))
	for j, d := range df {
		idf[j] = math.Log((1+n)/(1+d)) + 1
	}
	return idf
}

func countVector(doc []string, vocab *Vocabulary) []float64 {
	vec := make([]float64, vocab.Len())
	for _, tok := range doc {
		if i, ok := vocab.Index(tok); ok {
			vec[i]++
		}
	}
	return vec
}

// weigh multiplies counts by idf and L2-normalizes. Zero vectors stay zero.
func weigh(counts, idf []float64) []float64 {
	out := make([]float64, len(counts))
	var norm float64
	for i, c := range counts {
		out[i] = c * idf[i]
		norm += out[i] * out[i]
	}
	if norm == 0 {
		return out
	}
	norm = math.Sqrt(norm)
	for i := range out {
		out[i] /= norm
	}
	return out
}
