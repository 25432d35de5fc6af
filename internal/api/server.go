package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/knowledge-engine/textrep/internal/config"
	"github.com/knowledge-engine/textrep/internal/engine"
	"github.com/knowledge-engine/textrep/internal/representation"
	"github.com/knowledge-engine/textrep/internal/search"
)

// Service is the engine surface the handlers depend on.
type Service interface {
	TermFrequency(ctx context.Context, req engine.Request) (*representation.Result, error)
	TFIDF(ctx context.Context, req engine.Request) (*representation.Result, error)
	Index(ctx context.Context, docs []*search.Document) error
	Search(ctx context.Context, query string, topK int) ([]search.SearchResult, error)
	Stats() engine.EngineStats
}

type Server struct {
	Engine Service
	Config config.APIConfig
	Logger *logrus.Entry
	Router *http.ServeMux
}

func NewServer(svc Service, cfg config.APIConfig, logger *logrus.Entry) *Server {
	s := &Server{
		Engine: svc,
		Config: cfg,
		Logger: logger.WithField("component", "api"),
		Router: http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.Router.HandleFunc("/api/v1/term-frequency", s.handleTermFrequency)
	s.Router.HandleFunc("/api/v1/tfidf", s.handleTFIDF)
	s.Router.HandleFunc("/api/v1/index", s.handleIndex)
	s.Router.HandleFunc("/api/v1/search", s.handleSearch)
	s.Router.HandleFunc("/api/v1/status", s.handleStatus)
}

func (s *Server) Start(addr string) error {
	s.Logger.Infof("Starting API Server on %s", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Router,
		ReadTimeout:  s.Config.ReadTimeout,
		WriteTimeout: s.Config.WriteTimeout,
	}
	return srv.ListenAndServe()
}

// Requests

type VectorizeRequest struct {
	Documents        []string   `json:"documents,omitempty"`
	Tokens           [][]string `json:"tokens,omitempty"`
	MaxFeatures      int        `json:"max_features,omitempty"`
	MinDocumentCount int        `json:"min_document_count,omitempty"`
	MaxDocumentRatio float64    `json:"max_document_ratio,omitempty"`
}

type IndexRequest struct {
	Documents []search.Document `json:"documents"`
}

// Responses

type ErrorResponse struct {
	Error string `json:"error"`
}

type VectorizeResponse struct {
	Vocabulary []string                 `json:"vocabulary"`
	Vectors    [][]float64              `json:"vectors"`
	Warnings   []representation.Warning `json:"warnings"`
}

type IndexResponse struct {
	Indexed int      `json:"indexed"`
	IDs     []string `json:"ids"`
}

type SearchResponse struct {
	Query   string             `json:"query"`
	Results []SearchResultView `json:"results"`
}

type SearchResultView struct {
	ID    string  `json:"id"`
	Title string  `json:"title,omitempty"`
	Score float64 `json:"score"`
	Text  string  `json:"snippet"`
}

type StatusResponse struct {
	Uptime                string `json:"uptime"`
	TermFrequencyRequests int64  `json:"term_frequency_requests"`
	TFIDFRequests         int64  `json:"tfidf_requests"`
	SearchRequests        int64  `json:"search_requests"`
	DocumentsIndexed      int64  `json:"documents_indexed"`
	WarningsEmitted       int64  `json:"warnings_emitted"`
}

// Handlers

func (s *Server) handleTermFrequency(w http.ResponseWriter, r *http.Request) {
	s.handleVectorize(w, r, s.Engine.TermFrequency)
}

func (s *Server) handleTFIDF(w http.ResponseWriter, r *http.Request) {
	s.handleVectorize(w, r, s.Engine.TFIDF)
}

type vectorizeFunc func(context.Context, engine.Request) (*representation.Result, error)

func (s *Server) handleVectorize(w http.ResponseWriter, r *http.Request, fn vectorizeFunc) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req VectorizeRequest
	if !s.decode(w, r, &req) {
		return
	}

	res, err := fn(r.Context(), engine.Request{
		Documents:        req.Documents,
		Tokens:           req.Tokens,
		MaxFeatures:      req.MaxFeatures,
		MinDocumentCount: req.MinDocumentCount,
		MaxDocumentRatio: req.MaxDocumentRatio,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	response := VectorizeResponse{
		Vocabulary: res.Vocabulary.Terms(),
		Vectors:    res.Vectors,
		Warnings:   res.Warnings,
	}
	if response.Vocabulary == nil {
		response.Vocabulary = []string{}
	}
	if response.Vectors == nil {
		response.Vectors = [][]float64{}
	}
	if response.Warnings == nil {
		response.Warnings = []representation.Warning{}
	}

	jsonResponse(w, http.StatusOK, response)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.Config.EnableIndexing {
		jsonResponse(w, http.StatusForbidden, ErrorResponse{Error: "Indexing is disabled"})
		return
	}

	var req IndexRequest
	if !s.decode(w, r, &req) {
		return
	}
	if len(req.Documents) == 0 {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "At least one document is required"})
		return
	}

	docs := make([]*search.Document, len(req.Documents))
	for i := range req.Documents {
		docs[i] = &req.Documents[i]
	}

	if err := s.Engine.Index(r.Context(), docs); err != nil {
		s.writeError(w, err)
		return
	}

	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	jsonResponse(w, http.StatusCreated, IndexResponse{Indexed: len(docs), IDs: ids})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "Query 'q' is required"})
		return
	}

	topK := 0
	if k := r.URL.Query().Get("k"); k != "" {
		parsed, err := strconv.Atoi(k)
		if err != nil || parsed < 0 {
			jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "Parameter 'k' must be a non-negative integer"})
			return
		}
		topK = parsed
	}

	hits, err := s.Engine.Search(r.Context(), query, topK)
	if err != nil {
		s.writeError(w, err)
		return
	}

	response := SearchResponse{
		Query:   query,
		Results: make([]SearchResultView, len(hits)),
	}

	for i, hit := range hits {
		txt := snippet(hit.Document.Content, 200)
		response.Results[i] = SearchResultView{
			ID:    hit.Document.ID,
			Title: hit.Document.Title,
			Score: hit.Score,
			Text:  txt,
		}
	}

	jsonResponse(w, http.StatusOK, response)
}

// snippet cuts text to at most n runes.
func snippet(text string, n int) string {
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	return string([]rune(text)[:n]) + "..."
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	stats := s.Engine.Stats()

	jsonResponse(w, http.StatusOK, StatusResponse{
		Uptime:                time.Since(stats.StartTime).Round(time.Second).String(),
		TermFrequencyRequests: stats.TermFrequencyRequests,
		TFIDFRequests:         stats.TFIDFRequests,
		SearchRequests:        stats.SearchRequests,
		DocumentsIndexed:      stats.DocumentsIndexed,
		WarningsEmitted:       stats.WarningsEmitted,
	})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	body := r.Body
	if s.Config.MaxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, s.Config.MaxBodyBytes)
	}
	if err := json.NewDecoder(body).Decode(v); err != nil {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON"})
		return false
	}
	return true
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrInvalidRequest), errors.Is(err, representation.ErrInvalidOption):
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		s.Logger.WithError(err).Error("Request failed")
		jsonResponse(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}

func jsonResponse(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
