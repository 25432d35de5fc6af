package representation_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knowledge-engine/textrep/internal/representation"
	"github.com/knowledge-engine/textrep/internal/series"
)

func TestTfidfVectorizer(t *testing.T) {
	docs := series.FromTokens(
		[]string{"apple", "banana"},
		[]string{"apple", "orange"},
	)

	vectorizer := representation.NewTfidfVectorizer()
	warnings, err := vectorizer.Fit(docs)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, []string{"apple", "banana", "orange"}, vectorizer.Vocabulary().Terms())

	idf := vectorizer.IDF()
	require.Len(t, idf, 3)
	assert.InDelta(t, 1.0, idf[0], tolerance)
	assert.InDelta(t, math.Log(3.0/2.0)+1, idf[1], tolerance)

	vec := vectorizer.Transform([]string{"banana", "kiwi"})
	require.Len(t, vec, 3)
	assert.InDelta(t, 0.0, vec[0], tolerance)
	assert.InDelta(t, 1.0, vec[1], tolerance)
	assert.InDelta(t, 0.0, vec[2], tolerance)
}

func TestTfidfVectorizerMatchesTFIDF(t *testing.T) {
	docs := series.FromTokens([]string{"a", "b", "b"}, []string{"b", "c"}, []string{"a"})

	res, err := representation.TFIDF(docs)
	require.NoError(t, err)

	vectorizer := representation.NewTfidfVectorizer()
	_, err = vectorizer.Fit(docs)
	require.NoError(t, err)

	transformed := make(series.VectorSeries, docs.Len())
	for i := 0; i < docs.Len(); i++ {
		transformed[i] = vectorizer.Transform(docs.Doc(i))
	}
	assert.True(t, res.Vectors.AlmostEqual(transformed, tolerance))
}

func TestTfidfVectorizerUnfitted(t *testing.T) {
	vectorizer := representation.NewTfidfVectorizer()
	assert.Empty(t, vectorizer.Transform([]string{"a"}))
}

func TestTfidfVectorizerFitTextWarns(t *testing.T) {
	logger, _ := quietLogger()
	vectorizer := representation.NewTfidfVectorizer(representation.WithLogger(logger))

	warnings, err := vectorizer.Fit(series.FromText("a b"))
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, representation.WarningDeprecation, warnings[0].Kind)
}

func TestVocabulary(t *testing.T) {
	v := representation.NewVocabulary("b", "a", "b")

	assert.Equal(t, 2, v.Len())
	assert.Equal(t, []string{"b", "a"}, v.Terms())

	i, ok := v.Index("a")
	assert.True(t, ok)
	assert.Equal(t, 1, i)

	_, ok = v.Index("z")
	assert.False(t, ok)

	assert.Equal(t, 2, v.Add("c"))
	assert.Equal(t, 0, v.Add("b"))

	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `["b","a","c"]`, string(data))
}
