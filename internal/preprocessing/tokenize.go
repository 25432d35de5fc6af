package preprocessing

import (
	"strings"
	"unicode"

	"github.com/knowledge-engine/textrep/internal/series"
)

// asciiPunctuation mirrors the classic printable punctuation set, underscore
// included.
const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// IsPunctuation reports whether r is split out as a token of its own.
func IsPunctuation(r rune) bool {
	if r <= unicode.MaxASCII {
		return strings.ContainsRune(asciiPunctuation, r)
	}
	return unicode.IsPunct(r)
}

// TokenizeText splits text on whitespace and emits every punctuation rune as
// a separate token. Case is preserved.
func TokenizeText(text string) []string {
	tokens := make([]string, 0, len(text)/4+1)
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			flush()
		case IsPunctuation(r):
			flush()
			tokens = append(tokens, string(r))
		default:
			current.WriteRune(r)
		}
	}
	flush()

	return tokens
}

// Tokenize turns a text series into a tokenized one. An already tokenized
// series is returned unchanged.
func Tokenize(s series.Series) series.Series {
	if s.IsTokenized() {
		return s
	}
	texts := s.Text()
	docs := make([][]string, len(texts))
	for i, text := range texts {
		docs[i] = TokenizeText(text)
	}
	return series.FromTokens(docs...)
}
