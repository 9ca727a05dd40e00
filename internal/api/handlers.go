package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/guardianstack/guardian-engine/internal/models"
	"github.com/guardianstack/guardian-engine/internal/samples"
	"github.com/guardianstack/guardian-engine/internal/services"
)

// maxHistoryLimit caps the history page size a single request can ask for.
const maxHistoryLimit = 500

// Handlers binds the analysis service to HTTP endpoints.
type Handlers struct {
	logger  *slog.Logger
	service *services.AnalysisService
	version string
}

// NewHandlers constructs the endpoint set.
func NewHandlers(logger *slog.Logger, service *services.AnalysisService, version string) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{logger: logger, service: service, version: version}
}

// Register attaches all routes to the router.
func (h *Handlers) Register(router *gin.Engine) {
	router.GET("/", h.root)

	api := router.Group("/api")
	{
		api.POST("/analyze", h.analyze)
		api.POST("/analyze/batch", h.analyzeBatch)
		api.GET("/history", h.history)
		api.GET("/stats", h.stats)
		api.GET("/samples", h.samples)
		api.GET("/health", h.health)
	}
}

type analyzeRequest struct {
	Text    string         `json:"text"`
	Options map[string]any `json:"options"`
}

type analyzeBatchRequest struct {
	Emails []analyzeRequest `json:"emails"`
}

type batchItemResponse struct {
	Result *models.AnalysisResult `json:"result,omitempty"`
	Error  string                 `json:"error,omitempty"`
}

func (h *Handlers) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "guardian-engine",
		"version": h.version,
		"endpoints": []string{
			"POST /api/analyze",
			"POST /api/analyze/batch",
			"GET /api/history",
			"GET /api/stats",
			"GET /api/samples",
			"GET /api/health",
		},
	})
}

func (h *Handlers) analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.service.Analyze(c.Request.Context(), models.AnalysisRequest{
		Text:    req.Text,
		Options: req.Options,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handlers) analyzeBatch(c *gin.Context) {
	var req analyzeBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	reqs := make([]models.AnalysisRequest, len(req.Emails))
	for i, email := range req.Emails {
		reqs[i] = models.AnalysisRequest{Text: email.Text, Options: email.Options}
	}

	items, err := h.service.AnalyzeBatch(c.Request.Context(), reqs)
	if err != nil {
		h.writeError(c, err)
		return
	}

	results := make([]batchItemResponse, len(items))
	for i, item := range items {
		if item.Error != nil {
			results[i] = batchItemResponse{Error: item.Error.Error()}
			continue
		}
		results[i] = batchItemResponse{Result: item.Result}
	}

	c.JSON(http.StatusOK, gin.H{"results": results, "total": len(results)})
}

func (h *Handlers) history(c *gin.Context) {
	limit := 50
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		if n > maxHistoryLimit {
			n = maxHistoryLimit
		}
		limit = n
	}

	req := models.ListAnalysesRequest{Limit: limit}
	if v := strings.TrimSpace(c.Query("classification")); v != "" {
		req.Classification = models.Label(strings.ToLower(v))
	}

	resp, err := h.service.History(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"analyses": resp.Analyses, "total": resp.Total})
}

func (h *Handlers) stats(c *gin.Context) {
	rng := models.RangeWeek
	if v := strings.TrimSpace(c.Query("range")); v != "" {
		switch models.StatsRange(strings.ToLower(v)) {
		case models.RangeToday, models.RangeWeek, models.RangeMonth, models.RangeQuarter:
			rng = models.StatsRange(strings.ToLower(v))
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "range must be one of today, week, month, quarter"})
			return
		}
	}

	stats, err := h.service.Stats(c.Request.Context(), rng)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handlers) samples(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"samples": samples.Emails()})
}

func (h *Handlers) health(c *gin.Context) {
	classifier := "configured"
	if !h.service.ClassifierConfigured() {
		classifier = "fallback_only"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     "healthy",
		"version":    h.version,
		"classifier": classifier,
		"p95_ms":     h.service.LatencyP95().Milliseconds(),
	})
}

// writeError maps the error taxonomy onto HTTP statuses.
func (h *Handlers) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrEmptyInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrBatchTooLarge):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrClassifierUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "classification service unavailable"})
	default:
		h.logger.Error("request failed", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
