package search

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/knowledge-engine/textrep/internal/representation"
	"github.com/knowledge-engine/textrep/internal/series"
)

// SearchResult holds a matching document and its score
type SearchResult struct {
	Document *Document
	Score    float64
}

// VectorStore holds the indexed documents
type VectorStore struct {
	analyzer   Analyzer
	logger     *logrus.Entry
	opts       []representation.Option
	vectorizer *representation.TfidfVectorizer

	mu        sync.RWMutex
	documents []*Document
}

// NewVectorStore creates an empty store. A nil analyzer means DefaultAnalyzer.
func NewVectorStore(analyzer Analyzer, logger *logrus.Entry, opts ...representation.Option) *VectorStore {
	if analyzer == nil {
		analyzer = DefaultAnalyzer
	}
	if logger == nil {
		logger = logrus.WithField("component", "vector_store")
	}
	opts = append([]representation.Option{representation.WithLogger(logger)}, opts...)
	return &VectorStore{
		analyzer:   analyzer,
		logger:     logger,
		opts:       opts,
		vectorizer: representation.NewTfidfVectorizer(opts...),
		documents:  make([]*Document, 0),
	}
}

// AddDocuments indexes docs and refits the vectorizer over every stored
// document, so earlier vectors reflect the new IDF weights. Documents
// without an ID get a random one.
func (vs *VectorStore) AddDocuments(docs []*Document) error {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	for _, d := range docs {
		if d.ID == "" {
			d.ID = uuid.NewString()
		}
		d.tokens = vs.analyzer(d.Content)
	}

	all := append(append([]*Document(nil), vs.documents...), docs...)
	corpus := make([][]string, len(all))
	for i, d := range all {
		corpus[i] = d.tokens
	}

	vectorizer := representation.NewTfidfVectorizer(vs.opts...)
	if _, err := vectorizer.Fit(series.FromTokens(corpus...)); err != nil {
		return fmt.Errorf("failed to fit vectorizer: %w", err)
	}

	for _, d := range all {
		d.Vector = vectorizer.Transform(d.tokens)
	}
	vs.vectorizer = vectorizer
	vs.documents = all

	vs.logger.WithFields(logrus.Fields{
		"added":      len(docs),
		"documents":  len(all),
		"vocabulary": vectorizer.Vocabulary().Len(),
	}).Debug("Refitted search index")
	return nil
}

// Search finds the most similar documents to the query
func (vs *VectorStore) Search(query string, topK int) []SearchResult {
	vs.mu.RLock()
	defer vs.mu.RUnlock()

	queryVector := vs.vectorizer.Transform(vs.analyzer(query))
	var results []SearchResult

	for _, doc := range vs.documents {
		score := CosineSimilarity(queryVector, doc.Vector)
		if score > 0 {
			results = append(results, SearchResult{
				Document: doc,
				Score:    score,
			})
		}
	}

	// Sort by descending score
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if topK > 0 && len(results) > topK {
		return results[:topK]
	}
	return results
}

// Len returns the number of indexed documents.
func (vs *VectorStore) Len() int {
	vs.mu.RLock()
	defer vs.mu.RUnlock()
	return len(vs.documents)
}

// VocabularySize returns the size of the fitted vocabulary.
func (vs *VectorStore) VocabularySize() int {
	vs.mu.RLock()
	defer vs.mu.RUnlock()
	return vs.vectorizer.Vocabulary().Len()
}

// CosineSimilarity calculates the cosine similarity between two vectors
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
