package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/knowledge-engine/textrep/internal/api"
	"github.com/knowledge-engine/textrep/internal/config"
	"github.com/knowledge-engine/textrep/internal/engine"
	"github.com/knowledge-engine/textrep/internal/representation"
	"github.com/knowledge-engine/textrep/internal/search"
	"github.com/knowledge-engine/textrep/internal/series"
)

// Mocks

type MockService struct {
	mock.Mock
}

func (m *MockService) TermFrequency(ctx context.Context, req engine.Request) (*representation.Result, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*representation.Result), args.Error(1)
}

func (m *MockService) TFIDF(ctx context.Context, req engine.Request) (*representation.Result, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*representation.Result), args.Error(1)
}

func (m *MockService) Index(ctx context.Context, docs []*search.Document) error {
	args := m.Called(ctx, docs)
	return args.Error(0)
}

func (m *MockService) Search(ctx context.Context, query string, topK int) ([]search.SearchResult, error) {
	args := m.Called(ctx, query, topK)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]search.SearchResult), args.Error(1)
}

func (m *MockService) Stats() engine.EngineStats {
	args := m.Called()
	return args.Get(0).(engine.EngineStats)
}

func apiConfig() config.APIConfig {
	return config.APIConfig{MaxBodyBytes: 1 << 20, EnableIndexing: true}
}

func nullLogger() *logrus.Entry {
	logger, _ := test.NewNullLogger()
	return logrus.NewEntry(logger)
}

func setupEngineServer(t *testing.T) *api.Server {
	t.Helper()
	cfg := &config.Config{
		Representation: config.RepresentationConfig{MinDocumentCount: 1, MaxDocumentRatio: 1},
		Search:         config.SearchConfig{DefaultTopK: 5, MaxTopK: 10},
		API:            apiConfig(),
	}
	eng, err := engine.New(cfg, nullLogger())
	require.NoError(t, err)
	return api.NewServer(eng, cfg.API, nullLogger())
}

func do(server *api.Server, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	return rr
}

func TestHandleTermFrequency(t *testing.T) {
	server := setupEngineServer(t)

	rr := do(server, http.MethodPost, "/api/v1/term-frequency", `{"tokens": [["a","b","c","c"]]}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp api.VectorizeResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, []string{"a", "b", "c"}, resp.Vocabulary)
	assert.Equal(t, [][]float64{{1, 1, 2}}, resp.Vectors)
	assert.Empty(t, resp.Warnings)
}

func TestHandleTermFrequencyUntokenized(t *testing.T) {
	server := setupEngineServer(t)

	rr := do(server, http.MethodPost, "/api/v1/term-frequency", `{"documents": ["doc_one", "doc_two"]}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp api.VectorizeResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, [][]float64{{1, 1, 1, 0}, {1, 1, 0, 1}}, resp.Vectors)
	require.Len(t, resp.Warnings, 1)
	assert.Equal(t, representation.WarningDeprecation, resp.Warnings[0].Kind)
}

func TestHandleTFIDF(t *testing.T) {
	server := setupEngineServer(t)

	rr := do(server, http.MethodPost, "/api/v1/tfidf", `{"tokens": [["ONE","one"]]}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp api.VectorizeResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Vectors, 1)
	assert.True(t, series.VectorSeries{{0.7071067811865475, 0.7071067811865475}}.
		AlmostEqual(resp.Vectors, 1e-9))
}

func TestHandleVectorizeErrors(t *testing.T) {
	server := setupEngineServer(t)

	tests := []struct {
		name   string
		method string
		body   string
		code   int
	}{
		{"Wrong method", http.MethodGet, "", http.StatusMethodNotAllowed},
		{"Invalid JSON", http.MethodPost, `{"documents": [`, http.StatusBadRequest},
		{"Both inputs", http.MethodPost, `{"documents": ["a"], "tokens": [["a"]]}`, http.StatusBadRequest},
		{"Bad ratio", http.MethodPost, `{"tokens": [["a"]], "max_document_ratio": 2}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(server, tt.method, "/api/v1/tfidf", tt.body)
			assert.Equal(t, tt.code, rr.Code)
		})
	}
}

func TestHandleVectorizeInternalError(t *testing.T) {
	svc := new(MockService)
	svc.On("TermFrequency", mock.Anything, mock.AnythingOfType("engine.Request")).
		Return(nil, errors.New("boom"))
	server := api.NewServer(svc, apiConfig(), nullLogger())

	rr := do(server, http.MethodPost, "/api/v1/term-frequency", `{"tokens": [["a"]]}`)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	svc.AssertExpectations(t)
}

func TestHandleIndexAndSearch(t *testing.T) {
	server := setupEngineServer(t)

	rr := do(server, http.MethodPost, "/api/v1/index", `{"documents": [
		{"id": "doc1", "content": "Hello world testing search."},
		{"content": "Unrelated banana text"}
	]}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	var indexed api.IndexResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &indexed))
	assert.Equal(t, 2, indexed.Indexed)
	assert.Equal(t, "doc1", indexed.IDs[0])
	assert.NotEmpty(t, indexed.IDs[1])

	rr = do(server, http.MethodGet, "/api/v1/search?q=hello", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp api.SearchResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "hello", resp.Query)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "doc1", resp.Results[0].ID)
}

func TestHandleIndexErrors(t *testing.T) {
	server := setupEngineServer(t)
	assert.Equal(t, http.StatusBadRequest, do(server, http.MethodPost, "/api/v1/index", `{"documents": []}`).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(server, http.MethodGet, "/api/v1/index", "").Code)

	cfg := apiConfig()
	cfg.EnableIndexing = false
	disabled := api.NewServer(new(MockService), cfg, nullLogger())
	assert.Equal(t, http.StatusForbidden,
		do(disabled, http.MethodPost, "/api/v1/index", `{"documents": [{"content": "x"}]}`).Code)
}

func TestHandleSearchParameters(t *testing.T) {
	svc := new(MockService)
	svc.On("Search", mock.Anything, "go", 3).Return([]search.SearchResult{
		{Document: &search.Document{ID: "d", Content: strings.Repeat("x", 250)}, Score: 0.5},
	}, nil)
	server := api.NewServer(svc, apiConfig(), nullLogger())

	rr := do(server, http.MethodGet, "/api/v1/search?q=go&k=3", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp api.SearchResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	assert.Len(t, resp.Results[0].Text, 203)

	assert.Equal(t, http.StatusBadRequest, do(server, http.MethodGet, "/api/v1/search", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(server, http.MethodGet, "/api/v1/search?q=go&k=x", "").Code)
	svc.AssertExpectations(t)
}

func TestHandleStatus(t *testing.T) {
	svc := new(MockService)
	svc.On("Stats").Return(engine.EngineStats{
		TFIDFRequests: 2,
		StartTime:     time.Now().Add(-time.Minute),
	})
	server := api.NewServer(svc, apiConfig(), nullLogger())

	rr := do(server, http.MethodGet, "/api/v1/status", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp api.StatusResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, int64(2), resp.TFIDFRequests)
	assert.NotEqual(t, "0s", resp.Uptime)
}

func TestHandleSearchSnippetKeepsRunes(t *testing.T) {
	svc := new(MockService)
	svc.On("Search", mock.Anything, "café", 0).Return([]search.SearchResult{
		{Document: &search.Document{ID: "d", Content: strings.Repeat("é", 250)}, Score: 0.5},
	}, nil)
	server := api.NewServer(svc, apiConfig(), nullLogger())

	rr := do(server, http.MethodGet, "/api/v1/search?q=caf%C3%A9", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp api.SearchResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	text := resp.Results[0].Text
	assert.True(t, utf8.ValidString(text))
	assert.NotContains(t, text, "\uFFFD")
	assert.Equal(t, strings.Repeat("é", 200)+"...", text)
	assert.Equal(t, 203, utf8.RuneCountInString(text))
	svc.AssertExpectations(t)
}
