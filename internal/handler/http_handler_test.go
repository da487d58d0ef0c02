package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiawesome/wes-io-live/spellcheck-service/internal/domain"
	"github.com/weiawesome/wes-io-live/spellcheck-service/internal/service"
)

type fakeService struct {
	lastReq    *domain.SearchRequest
	suggestion *domain.Suggestion
	err        error
	logs       []*domain.SuggestionLog
	lastLimit  int
}

func (f *fakeService) Search(_ context.Context, req *domain.SearchRequest) (*domain.SearchResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &domain.SearchResponse{Items: []domain.ResultItem{}, Suggestion: f.suggestion}, nil
}

func (f *fakeService) RecentSuggestions(_ context.Context, viewID string, limit int) ([]*domain.SuggestionLog, error) {
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.logs, nil
}

func (f *fakeService) InvalidateIndex(context.Context, string, ...string) error {
	return nil
}

func newRouter(svc service.SearchService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r)
	return r
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

var spellingSuggestion = &domain.Suggestion{
	Prefix: "Did you mean: ",
	Label:  "spelling",
	Href:   "/search?keys=spelling",
	Suffix: "?",
	Corrections: []domain.Correction{
		{Misspelling: "speling", Suggestion: "spelling", Filter: "keys"},
	},
}

func TestSearchRoute(t *testing.T) {
	svc := &fakeService{suggestion: spellingSuggestion}
	r := newRouter(svc)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/views/search?keys=speling&type=a&type=b&page=2", nil))
	require.Equal(t, http.StatusOK, w.Code)

	require.NotNil(t, svc.lastReq)
	assert.Equal(t, "search", svc.lastReq.ViewID)
	assert.Equal(t, map[string]string{"keys": "speling", "type": "a"}, svc.lastReq.Input)
	assert.Equal(t, 2, svc.lastReq.Page)
	assert.False(t, svc.lastReq.Preview)
	assert.Equal(t, "/api/v1/views/search", svc.lastReq.CurrentURL.Path)

	var body struct {
		Success bool                  `json:"success"`
		Data    domain.SearchResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.NotNil(t, body.Data.Suggestion)
	assert.Equal(t, "/search?keys=spelling", body.Data.Suggestion.Href)
}

func TestPreviewRoute(t *testing.T) {
	svc := &fakeService{}
	w := serve(newRouter(svc), httptest.NewRequest(http.MethodGet, "/api/v1/views/search/preview?keys=x", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, svc.lastReq.Preview)
}

func TestSearchRouteErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target string
		status int
	}{
		{"unknown view", service.ErrViewNotFound, "/api/v1/views/missing", http.StatusNotFound},
		{"backend failure", errors.New("es down"), "/api/v1/views/search?keys=x", http.StatusInternalServerError},
		{"negative page", nil, "/api/v1/views/search?page=-1", http.StatusBadRequest},
		{"bad page", nil, "/api/v1/views/search?page=abc", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(newRouter(&fakeService{err: tt.err}), httptest.NewRequest(http.MethodGet, tt.target, nil))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestSpellcheckFragmentRoute(t *testing.T) {
	svc := &fakeService{suggestion: spellingSuggestion}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/views/search/spellcheck?keys=speling", nil)
	req.Header.Set("Referer", "https://example.com/search?keys=speling")

	w := serve(newRouter(svc), req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `<span>Did you mean: </span><a href="/search?keys=spelling">spelling</a><span>?</span>`, w.Body.String())
	assert.Equal(t, "/search", svc.lastReq.CurrentURL.Path)
	assert.Equal(t, "keys=speling", svc.lastReq.CurrentURL.RawQuery)
}

func TestSpellcheckFragmentRouteEmpty(t *testing.T) {
	w := serve(newRouter(&fakeService{}), httptest.NewRequest(http.MethodGet, "/api/v1/views/search/spellcheck?keys=ok", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestSuggestionsRoute(t *testing.T) {
	svc := &fakeService{logs: []*domain.SuggestionLog{{ID: 1, ViewID: "search", Original: "speling", Corrected: "spelling"}}}
	r := newRouter(svc)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/views/search/suggestions?limit=5", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, svc.lastLimit)
	assert.Contains(t, w.Body.String(), `"corrected":"spelling"`)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/views/search/suggestions?limit=1000", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(newRouter(&fakeService{err: service.ErrViewNotFound}), httptest.NewRequest(http.MethodGet, "/api/v1/views/missing/suggestions", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
