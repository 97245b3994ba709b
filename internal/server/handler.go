// Package server is the HTTP boundary around the scoring core: request
// validation, routing, rate limiting, response caching, and metrics. The core
// itself recognizes no errors; everything rejected here is a request-level
// fault.
package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/citywatch/sentinel/internal/analyzer"
	"github.com/citywatch/sentinel/internal/monitor"
)

const (
	// maxTextRunes is the hard input limit; longer submissions are rejected.
	maxTextRunes = 10000

	// scoreTextRunes is the scoring limit; accepted input is truncated to
	// this length before analysis.
	scoreTextRunes = 5000

	// recentThreatsLimit caps the /threats response.
	recentThreatsLimit = 20

	// maxBatchTexts caps one batch submission.
	maxBatchTexts = 100
)

// Handler exposes the analysis and reporting endpoints.
type Handler struct {
	monitor *monitor.Monitor
	logger  *zap.Logger
	version string
	now     func() time.Time
}

// NewHandler creates a Handler.
func NewHandler(m *monitor.Monitor, version string, logger *zap.Logger) *Handler {
	return &Handler{
		monitor: m,
		logger:  logger,
		version: version,
		now:     time.Now,
	}
}

// SetClock overrides the time source for tests.
func (h *Handler) SetClock(now func() time.Time) {
	h.now = now
}

// Register mounts the API routes on the given router group. cacheTTL governs
// the read-endpoint response cache; zero disables caching.
func (h *Handler) Register(rg *gin.RouterGroup, cacheTTL time.Duration) {
	reads := rg.Group("")
	if cacheTTL > 0 {
		reads.Use(ResponseCache(cacheTTL))
	}

	rg.POST("/analyze", h.Analyze)
	rg.POST("/analyze/batch", h.AnalyzeBatch)
	reads.GET("/statistics", h.Statistics)
	reads.GET("/threats", h.Threats)
	reads.GET("/prediction", h.Prediction)
	rg.GET("/status", h.Status)
}

type analyzeRequest struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

// Analyze handles POST /analyze: validates the submission, scores it,
// records it when high/critical, and returns the analysis with a
// single-submission probability estimate.
func (h *Handler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	text, ok := h.validateText(c, req.Text)
	if !ok {
		return
	}

	source := req.Source
	if source == "" {
		source = "api"
	}

	a, rec := h.monitor.CheckText(c.Request.Context(), source, text)

	var elevated []analyzer.Analysis
	if rec != nil {
		elevated = append(elevated, a)
	}
	prediction := analyzer.EstimateProbability(elevated, h.now().Hour())

	resp := gin.H{
		"id":         uuid.NewString()[:8],
		"analysis":   a,
		"prediction": prediction,
	}
	if rec != nil {
		resp["number"] = rec.ID
	}
	c.JSON(http.StatusOK, resp)
}

// AnalyzeBatch handles POST /analyze/batch: scores each text and returns
// only the elevated analyses. Batch results are not recorded to the log.
func (h *Handler) AnalyzeBatch(c *gin.Context) {
	var texts []string
	if err := c.ShouldBindJSON(&texts); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be a JSON array of strings"})
		return
	}
	if len(texts) > maxBatchTexts {
		c.JSON(http.StatusBadRequest, gin.H{"error": "too many texts in one batch"})
		return
	}

	found := []analyzer.Analysis{}
	for _, raw := range texts {
		text := strings.TrimSpace(raw)
		if text == "" {
			continue
		}
		if runes := []rune(text); len(runes) > scoreTextRunes {
			text = string(runes[:scoreTextRunes])
		}
		if a := h.monitor.Analyze(text); a.Level.Elevated() {
			found = append(found, a)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"total_analyzed": len(texts),
		"threats_found":  len(found),
		"threats":        found,
	})
}

// Statistics handles GET /statistics.
func (h *Handler) Statistics(c *gin.Context) {
	c.JSON(http.StatusOK, h.monitor.Statistics())
}

// Threats handles GET /threats, the most recent records in log order.
func (h *Handler) Threats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"threats": h.monitor.Recent(recentThreatsLimit),
		"total":   h.monitor.Len(),
	})
}

// Prediction handles GET /prediction.
func (h *Handler) Prediction(c *gin.Context) {
	c.JSON(http.StatusOK, h.monitor.Prediction())
}

// Status handles GET /status, a coarse system summary.
func (h *Handler) Status(c *gin.Context) {
	stats := h.monitor.Statistics()
	c.JSON(http.StatusOK, gin.H{
		"system":           "sentinel",
		"version":          h.version,
		"status":           "monitoring",
		"threats_detected": stats.TotalThreats,
		"last_check":       h.now().UTC(),
	})
}

// validateText enforces the boundary input contract: non-empty after
// trimming, at most maxTextRunes, truncated to scoreTextRunes for scoring.
func (h *Handler) validateText(c *gin.Context, raw string) (string, bool) {
	text := strings.TrimSpace(raw)
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return "", false
	}
	runes := []rune(text)
	if len(runes) > maxTextRunes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text exceeds maximum length"})
		return "", false
	}
	if len(runes) > scoreTextRunes {
		text = string(runes[:scoreTextRunes])
	}
	return text, true
}
