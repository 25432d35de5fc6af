package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/knowledge-engine/textrep/internal/config"
	"github.com/knowledge-engine/textrep/internal/preprocessing"
	"github.com/knowledge-engine/textrep/internal/representation"
	"github.com/knowledge-engine/textrep/internal/search"
	"github.com/knowledge-engine/textrep/internal/series"
)

// ErrInvalidRequest is returned for requests that carry both raw documents
// and tokens, or an unusable query.
var ErrInvalidRequest = errors.New("invalid request")

// Engine applies the configured preprocessing and vocabulary settings to
// representation requests and owns the search index.
type Engine struct {
	Config      *config.Config
	Logger      *logrus.Entry
	VectorStore *search.VectorStore

	pipeline preprocessing.Pipeline

	mu    sync.RWMutex
	stats EngineStats
}

// EngineStats counts served requests.
type EngineStats struct {
	TermFrequencyRequests int64
	TFIDFRequests         int64
	SearchRequests        int64
	DocumentsIndexed      int64
	WarningsEmitted       int64
	StartTime             time.Time
}

// Request is a corpus to vectorize: either raw Documents or pre-tokenized
// Tokens. Zero-valued limits fall back to the configuration.
type Request struct {
	Documents        []string
	Tokens           [][]string
	MaxFeatures      int
	MinDocumentCount int
	MaxDocumentRatio float64
}

func New(cfg *config.Config, logger *logrus.Entry) (*Engine, error) {
	if logger == nil {
		logger = logrus.WithField("service", "textrep")
	}

	pipeline, err := preprocessing.ParsePipeline(cfg.Preprocessing.Pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to build preprocessing pipeline: %w", err)
	}

	e := &Engine{
		Config:   cfg,
		Logger:   logger.WithField("component", "engine"),
		pipeline: pipeline,
		stats: EngineStats{
			StartTime: time.Now(),
		},
	}
	e.VectorStore = search.NewVectorStore(e.analyzer(), logger.WithField("component", "vector_store"),
		e.options(Request{})...)
	return e, nil
}

// analyzer runs indexed and query text through the configured pipeline. With
// no pipeline configured the index falls back to search.DefaultAnalyzer.
func (e *Engine) analyzer() search.Analyzer {
	if len(e.pipeline) == 0 {
		return search.DefaultAnalyzer
	}
	return func(text string) []string {
		s := preprocessing.Tokenize(e.pipeline.Run(series.FromText(text)))
		return s.Doc(0)
	}
}

// TermFrequency returns raw token counts for the request corpus.
func (e *Engine) TermFrequency(ctx context.Context, req Request) (*representation.Result, error) {
	res, err := e.represent(ctx, req, representation.TermFrequency)
	if err != nil {
		return nil, err
	}
	e.record(func(s *EngineStats) {
		s.TermFrequencyRequests++
		s.WarningsEmitted += int64(len(res.Warnings))
	})
	return res, nil
}

// TFIDF returns normalized TF-IDF weights for the request corpus.
func (e *Engine) TFIDF(ctx context.Context, req Request) (*representation.Result, error) {
	res, err := e.represent(ctx, req, representation.TFIDF)
	if err != nil {
		return nil, err
	}
	e.record(func(s *EngineStats) {
		s.TFIDFRequests++
		s.WarningsEmitted += int64(len(res.Warnings))
	})
	return res, nil
}

type representFunc func(series.Series, ...representation.Option) (*representation.Result, error)

func (e *Engine) represent(ctx context.Context, req Request, fn representFunc) (*representation.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(req.Documents) > 0 && len(req.Tokens) > 0 {
		return nil, fmt.Errorf("%w: documents and tokens are mutually exclusive", ErrInvalidRequest)
	}

	var s series.Series
	if len(req.Tokens) > 0 {
		s = series.FromTokens(req.Tokens...)
	} else {
		s = series.FromText(req.Documents...)
	}
	s = e.pipeline.Run(s)

	res, err := fn(s, e.options(req)...)
	if err != nil {
		return nil, err
	}

	e.Logger.WithFields(logrus.Fields{
		"documents":  res.Vectors.Len(),
		"vocabulary": res.Vocabulary.Len(),
		"warnings":   len(res.Warnings),
	}).Debug("Represented corpus")
	return res, nil
}

func (e *Engine) options(req Request) []representation.Option {
	rc := e.Config.Representation
	maxFeatures := rc.MaxFeatures
	if req.MaxFeatures > 0 {
		maxFeatures = req.MaxFeatures
	}
	minCount := rc.MinDocumentCount
	if req.MinDocumentCount > 0 {
		minCount = req.MinDocumentCount
	}
	maxRatio := rc.MaxDocumentRatio
	if req.MaxDocumentRatio > 0 {
		maxRatio = req.MaxDocumentRatio
	}
	if maxRatio <= 0 {
		maxRatio = 1
	}

	return []representation.Option{
		representation.WithLogger(e.Logger),
		representation.WithMaxFeatures(maxFeatures),
		representation.WithMinDFCount(minCount),
		representation.WithMaxDF(maxRatio),
	}
}

// Index adds documents to the search index.
func (e *Engine) Index(ctx context.Context, docs []*search.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := e.VectorStore.AddDocuments(docs); err != nil {
		return err
	}
	e.record(func(s *EngineStats) { s.DocumentsIndexed += int64(len(docs)) })
	e.Logger.WithField("count", len(docs)).Info("Indexed documents")
	return nil
}

// Search ranks indexed documents against query. topK is clamped to the
// configured range; zero means the default.
func (e *Engine) Search(ctx context.Context, query string, topK int) ([]search.SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", ErrInvalidRequest)
	}
	if topK <= 0 {
		topK = e.Config.Search.DefaultTopK
	}
	if limit := e.Config.Search.MaxTopK; limit > 0 && topK > limit {
		topK = limit
	}

	hits := e.VectorStore.Search(query, topK)
	e.record(func(s *EngineStats) { s.SearchRequests++ })
	return hits, nil
}

// Stats returns a snapshot of the request counters.
func (e *Engine) Stats() EngineStats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stats
}

func (e *Engine) record(fn func(*EngineStats)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(&e.stats)
}
