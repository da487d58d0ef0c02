package handler

import (
	"errors"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/weiawesome/wes-io-live/spellcheck-service/internal/domain"
	"github.com/weiawesome/wes-io-live/spellcheck-service/internal/service"
	"github.com/weiawesome/wes-io-live/spellcheck-service/internal/spellcheck"
	"github.com/weiawesome/wes-io-live/spellcheck-service/pkg/log"
	"github.com/weiawesome/wes-io-live/spellcheck-service/pkg/response"
)

const pageParam = "page"

// Handler handles HTTP requests for spellcheck service.
type Handler struct {
	searchService service.SearchService
}

// NewHandler creates a new HTTP handler.
func NewHandler(searchService service.SearchService) *Handler {
	return &Handler{
		searchService: searchService,
	}
}

// RegisterRoutes registers all routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		views := api.Group("/views/:view")
		views.GET("", h.Search)
		views.GET("/preview", h.Preview)
		views.GET("/spellcheck", h.Spellcheck)
		views.GET("/suggestions", h.Suggestions)
	}
}

type pageQuery struct {
	Page int `form:"page" binding:"min=0"`
}

type suggestionsQuery struct {
	Limit int `form:"limit" binding:"min=0,max=100"`
}

// Search executes a view and returns its results and suggestion.
func (h *Handler) Search(c *gin.Context) {
	h.search(c, false)
}

// Preview executes a view without touching shared caches.
func (h *Handler) Preview(c *gin.Context) {
	h.search(c, true)
}

func (h *Handler) search(c *gin.Context, preview bool) {
	result, ok := h.execute(c, preview)
	if !ok {
		return
	}
	response.Success(c, result)
}

// Spellcheck returns the rendered suggestion area as an HTML fragment.
func (h *Handler) Spellcheck(c *gin.Context) {
	result, ok := h.execute(c, false)
	if !ok {
		return
	}

	html, err := spellcheck.RenderHTML(result.Suggestion)
	if err != nil {
		l := log.Ctx(c.Request.Context())
		l.Error().Err(err).Msg("render suggestion failed")
		response.InternalError(c, "render failed")
		return
	}
	response.Fragment(c, html)
}

// Suggestions lists the suggestions recently shown for a view.
func (h *Handler) Suggestions(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var q suggestionsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		l.Warn().Err(err).Msg("invalid suggestions request")
		response.BadRequest(c, err.Error())
		return
	}

	logs, err := h.searchService.RecentSuggestions(ctx, c.Param("view"), q.Limit)
	if err != nil {
		if errors.Is(err, service.ErrViewNotFound) {
			response.NotFound(c, "view not found")
			return
		}
		l.Error().Err(err).Msg("list suggestions failed")
		response.InternalError(c, "list suggestions failed")
		return
	}

	response.Success(c, logs)
}

func (h *Handler) execute(c *gin.Context, preview bool) (*domain.SearchResponse, bool) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		l.Warn().Err(err).Msg("invalid search request")
		response.BadRequest(c, err.Error())
		return nil, false
	}

	req := &domain.SearchRequest{
		ViewID:     c.Param("view"),
		Input:      exposedInput(c.Request.URL.Query()),
		Page:       q.Page,
		Preview:    preview,
		CurrentURL: currentURL(c),
	}

	result, err := h.searchService.Search(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrViewNotFound) {
			response.NotFound(c, "view not found")
			return nil, false
		}
		l.Error().Err(err).Str(log.FieldViewID, req.ViewID).Msg("search failed")
		response.InternalError(c, "search failed")
		return nil, false
	}

	return result, true
}

// exposedInput keeps the first value of every parameter except paging.
func exposedInput(values url.Values) map[string]string {
	input := make(map[string]string, len(values))
	for k, v := range values {
		if k == pageParam || len(v) == 0 {
			continue
		}
		input[k] = v[0]
	}
	return input
}

// currentURL is the page suggestion links point back at: the referring page
// when the request carries one, the request itself otherwise.
func currentURL(c *gin.Context) *url.URL {
	if ref := c.Request.Referer(); ref != "" {
		if u, err := url.Parse(ref); err == nil {
			return &url.URL{Path: u.Path, RawQuery: u.RawQuery}
		}
	}
	return &url.URL{Path: c.Request.URL.Path, RawQuery: c.Request.URL.RawQuery}
}
