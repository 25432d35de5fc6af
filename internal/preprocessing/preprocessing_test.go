package preprocessing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knowledge-engine/textrep/internal/preprocessing"
	"github.com/knowledge-engine/textrep/internal/series"
)

func TestTokenizeText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"Whitespace", "a b c c", []string{"a", "b", "c", "c"}},
		{"Underscore splits", "doc_one", []string{"doc", "_", "one"}},
		{"Punctuation kept", "one !", []string{"one", "!"}},
		{"Case kept", "one ONE", []string{"one", "ONE"}},
		{"Attached punctuation", "Hello, World!", []string{"Hello", ",", "World", "!"}},
		{"Unicode punctuation", "wait…", []string{"wait", "…"}},
		{"Empty", "   ", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, preprocessing.TokenizeText(tt.input))
		})
	}
}

func TestTokenize(t *testing.T) {
	s := preprocessing.Tokenize(series.FromText("doc_one", "doc_two"))

	require.True(t, s.IsTokenized())
	assert.Equal(t, [][]string{{"doc", "_", "one"}, {"doc", "_", "two"}}, s.Tokens())

	already := series.FromTokens([]string{"x_y"})
	assert.Equal(t, already.Tokens(), preprocessing.Tokenize(already).Tokens())
}

func TestLowercase(t *testing.T) {
	s := preprocessing.Lowercase(series.FromText("Hello WORLD"))
	assert.Equal(t, []string{"hello world"}, s.Text())
}

func TestRemoveDigits(t *testing.T) {
	s := series.FromText("version 1234 7ex7hero")

	blocks := preprocessing.RemoveWhitespace(preprocessing.RemoveDigits(s, true))
	assert.Equal(t, []string{"version 7ex7hero"}, blocks.Text())

	all := preprocessing.RemoveWhitespace(preprocessing.RemoveDigits(s, false))
	assert.Equal(t, []string{"version ex hero"}, all.Text())
}

func TestRemovePunctuation(t *testing.T) {
	s := preprocessing.RemovePunctuation(series.FromText("Hello, world!"))
	assert.Equal(t, []string{"Hello  world "}, s.Text())

	tokens := preprocessing.RemovePunctuation(series.FromTokens([]string{"one", "!"}))
	assert.Equal(t, [][]string{{"one"}}, tokens.Tokens())
}

func TestCleaningSplitsTokens(t *testing.T) {
	tokens := preprocessing.RemovePunctuation(series.FromTokens([]string{"state-of-art", "ok"}))
	assert.Equal(t, [][]string{{"state", "of", "art", "ok"}}, tokens.Tokens())

	tokens = preprocessing.RemoveDigits(series.FromTokens([]string{"a1b", "42"}), false)
	assert.Equal(t, [][]string{{"a", "b"}}, tokens.Tokens())

	tokens = preprocessing.RemoveStopwords(series.FromTokens([]string{"cat", "the", "mat"}), nil)
	assert.Equal(t, [][]string{{"cat", "mat"}}, tokens.Tokens())

	for _, doc := range tokens.Tokens() {
		for _, tok := range doc {
			assert.NotContains(t, tok, " ")
		}
	}
}

func TestRemoveDiacritics(t *testing.T) {
	s := preprocessing.RemoveDiacritics(series.FromText("café naïve"))
	assert.Equal(t, []string{"cafe naive"}, s.Text())
}

func TestRemoveStopwords(t *testing.T) {
	s := preprocessing.RemoveWhitespace(
		preprocessing.RemoveStopwords(series.FromText("the cat sat on the mat"), nil))
	assert.Equal(t, []string{"cat sat mat"}, s.Text())

	custom := preprocessing.NewStopwords("cat")
	s = preprocessing.RemoveWhitespace(
		preprocessing.RemoveStopwords(series.FromText("the cat sat"), custom))
	assert.Equal(t, []string{"the sat"}, s.Text())
}

func TestRemoveHTMLTags(t *testing.T) {
	s := preprocessing.RemoveHTMLTags(series.FromText(
		"<p>Hello <b>World</b></p><script>alert(1)</script><style>p{}</style>"))
	assert.Equal(t, []string{"Hello World"}, s.Text())
}

func TestStem(t *testing.T) {
	s := preprocessing.Stem(series.FromText("running cats"))
	assert.Equal(t, []string{"run cat"}, s.Text())

	tokens := preprocessing.Stem(series.FromTokens([]string{"running", "cats"}))
	assert.Equal(t, [][]string{{"run", "cat"}}, tokens.Tokens())
}

func TestClean(t *testing.T) {
	s := preprocessing.Clean(series.FromText("The 2 Cafés, here!"))
	assert.Equal(t, []string{"cafes"}, s.Text())

	custom := preprocessing.Clean(series.FromText("A B"), preprocessing.Lowercase)
	assert.Equal(t, []string{"a b"}, custom.Text())
}

func TestParsePipeline(t *testing.T) {
	p, err := preprocessing.ParsePipeline([]string{"Lowercase", " tokenize ", ""})
	require.NoError(t, err)
	require.Len(t, p, 2)

	out := p.Run(series.FromText("One TWO"))
	assert.Equal(t, [][]string{{"one", "two"}}, out.Tokens())

	_, err = preprocessing.ParsePipeline([]string{"lowercase", "nope"})
	assert.ErrorIs(t, err, preprocessing.ErrUnknownStep)
}
