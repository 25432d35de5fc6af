package preprocessing

import (
	"io"
	"regexp"
	"strings"
	"unicode"

	"github.com/reiver/go-porterstemmer"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/knowledge-engine/textrep/internal/series"
)

var (
	digitBlockPattern = regexp.MustCompile(`\b\d+\b`)
	digitPattern      = regexp.MustCompile(`\d+`)
	wordPattern       = regexp.MustCompile(`[\p{L}\p{N}_]+`)
	spacePattern      = regexp.MustCompile(`\s+`)
)

// apply runs fn over every text document, or over every token of a tokenized
// series. A mapped token is split again on whitespace and dropped when
// nothing is left.
func apply(s series.Series, fn func(string) string) series.Series {
	if s.IsTokenized() {
		return s.MapTokens(func(doc []string) []string {
			out := make([]string, 0, len(doc))
			for _, tok := range doc {
				out = append(out, strings.Fields(fn(tok))...)
			}
			return out
		})
	}
	return s.MapText(fn)
}

// Lowercase lowercases every document.
func Lowercase(s series.Series) series.Series {
	return apply(s, strings.ToLower)
}

// RemoveDigits replaces digits with a space. With onlyBlocks set, only digit
// runs standing alone as words are removed, so "7ex7hero" survives.
func RemoveDigits(s series.Series, onlyBlocks bool) series.Series {
	re := digitPattern
	if onlyBlocks {
		re = digitBlockPattern
	}
	return apply(s, func(text string) string {
		return re.ReplaceAllString(text, " ")
	})
}

// RemovePunctuation replaces every punctuation rune with a space.
func RemovePunctuation(s series.Series) series.Series {
	return apply(s, func(text string) string {
		return strings.Map(func(r rune) rune {
			if IsPunctuation(r) {
				return ' '
			}
			return r
		}, text)
	})
}

// RemoveDiacritics strips combining marks, turning "café" into "cafe".
func RemoveDiacritics(s series.Series) series.Series {
	return apply(s, func(text string) string {
		t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
		out, _, err := transform.String(t, text)
		if err != nil {
			return text
		}
		return out
	})
}

// RemoveWhitespace collapses whitespace runs into one space and trims the ends.
func RemoveWhitespace(s series.Series) series.Series {
	return apply(s, func(text string) string {
		return strings.TrimSpace(spacePattern.ReplaceAllString(text, " "))
	})
}

// RemoveStopwords removes every word found in stopwords. A nil set means
// DefaultStopwords. Matching is case-sensitive.
func RemoveStopwords(s series.Series, stopwords map[string]struct{}) series.Series {
	if stopwords == nil {
		stopwords = DefaultStopwords
	}
	return apply(s, func(text string) string {
		return wordPattern.ReplaceAllStringFunc(text, func(word string) string {
			if _, ok := stopwords[word]; ok {
				return ""
			}
			return word
		})
	})
}

// RemoveHTMLTags keeps only the text content of markup. Script and style
// bodies are discarded and entities are decoded.
func RemoveHTMLTags(s series.Series) series.Series {
	return apply(s, stripHTML)
}

func stripHTML(text string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(text))
	var b strings.Builder
	inScript := false
	inStyle := false

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			if tokenizer.Err() != io.EOF {
				logrus.WithField("component", "preprocessing").
					WithError(tokenizer.Err()).Debug("Stopped parsing markup early")
			}
			return b.String()

		case html.StartTagToken:
			switch tokenizer.Token().Data {
			case "script":
				inScript = true
			case "style":
				inStyle = true
			}

		case html.EndTagToken:
			switch tokenizer.Token().Data {
			case "script":
				inScript = false
			case "style":
				inStyle = false
			}

		case html.TextToken:
			if !inScript && !inStyle {
				b.WriteString(tokenizer.Token().Data)
			}
		}
	}
}

// Stem reduces every word to its Porter stem. Text documents are split on
// whitespace and rejoined with single spaces.
func Stem(s series.Series) series.Series {
	if s.IsTokenized() {
		return s.MapText(stemWord)
	}
	return s.MapText(func(text string) string {
		words := strings.Fields(text)
		for i, w := range words {
			words[i] = stemWord(w)
		}
		return strings.Join(words, " ")
	})
}

func stemWord(word string) (stem string) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("component", "preprocessing").
				WithField("token", word).
				Warnf("Recovered from panic while stemming: %v", r)
			stem = word
		}
	}()
	return porterstemmer.StemString(word)
}
