package series

import (
	"math"
	"strings"
)

// Series is an ordered column of documents. A document is either a raw text
// string or, once tokenized, an ordered sequence of tokens.
type Series struct {
	text      []string
	tokens    [][]string
	tokenized bool
}

// FromText creates an untokenized series, one document per string.
func FromText(texts ...string) Series {
	cp := make([]string, len(texts))
	copy(cp, texts)
	return Series{text: cp}
}

// FromTokens creates a tokenized series. Token slices are copied.
func FromTokens(docs ...[]string) Series {
	cp := make([][]string, len(docs))
	for i, doc := range docs {
		cp[i] = append([]string(nil), doc...)
	}
	return Series{tokens: cp, tokenized: true}
}

// Len returns the number of documents.
func (s Series) Len() int {
	if s.tokenized {
		return len(s.tokens)
	}
	return len(s.text)
}

// IsTokenized reports whether the documents are token sequences.
func (s Series) IsTokenized() bool {
	return s.tokenized
}

// Text returns the raw documents. Tokenized documents are joined with a
// single space.
func (s Series) Text() []string {
	out := make([]string, s.Len())
	if s.tokenized {
		for i, doc := range s.tokens {
			out[i] = strings.Join(doc, " ")
		}
		return out
	}
	copy(out, s.text)
	return out
}

// Tokens returns the token sequences, or nil for an untokenized series.
func (s Series) Tokens() [][]string {
	if !s.tokenized {
		return nil
	}
	out := make([][]string, len(s.tokens))
	for i, doc := range s.tokens {
		out[i] = append([]string(nil), doc...)
	}
	return out
}

// Doc returns a copy of the tokens of document i, or nil for an untokenized
// series.
func (s Series) Doc(i int) []string {
	if !s.tokenized {
		return nil
	}
	return append([]string(nil), s.tokens[i]...)
}

// MapText applies fn to every document of a text series, or to every token
// of a tokenized one. Tokens mapped to the empty string are dropped.
func (s Series) MapText(fn func(string) string) Series {
	if !s.tokenized {
		out := make([]string, len(s.text))
		for i, t := range s.text {
			out[i] = fn(t)
		}
		return Series{text: out}
	}

	out := make([][]string, len(s.tokens))
	for i, doc := range s.tokens {
		mapped := make([]string, 0, len(doc))
		for _, tok := range doc {
			if m := fn(tok); m != "" {
				mapped = append(mapped, m)
			}
		}
		out[i] = mapped
	}
	return Series{tokens: out, tokenized: true}
}

// MapTokens applies fn to every document of a tokenized series. It is a
// no-op on text series.
func (s Series) MapTokens(fn func([]string) []string) Series {
	if !s.tokenized {
		return s
	}
	out := make([][]string, len(s.tokens))
	for i, doc := range s.tokens {
		out[i] = fn(append([]string(nil), doc...))
	}
	return Series{tokens: out, tokenized: true}
}

// VectorSeries is an ordered column of numeric vectors, aligned with the
// series it was computed from.
type VectorSeries [][]float64

// Len returns the number of vectors.
func (v VectorSeries) Len() int {
	return len(v)
}

// Equal compares two vector series elementwise.
func (v VectorSeries) Equal(other VectorSeries) bool {
	return v.AlmostEqual(other, 0)
}

// AlmostEqual compares two vector series elementwise with an absolute
// tolerance.
func (v VectorSeries) AlmostEqual(other VectorSeries, tol float64) bool {
	if len(v) != len(other) {
		return false
	}
	for i := range v {
		if len(v[i]) != len(other[i]) {
			return false
		}
		for j := range v[i] {
			if math.Abs(v[i][j]-other[i][j]) > tol {
				return false
			}
		}
	}
	return true
}
