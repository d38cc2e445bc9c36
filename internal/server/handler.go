package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ppiankov/credence/internal/model"
)

// Analyzer runs analyses for the API handlers.
type Analyzer interface {
	AnalyzeURL(ctx context.Context, url string) (*model.Report, error)
	AnalyzeText(ctx context.Context, title, text, source string) (*model.Report, error)
}

// AnalyzeHandler serves report requests.
type AnalyzeHandler struct {
	analyzer Analyzer
}

// NewAnalyzeHandler creates the handler.
func NewAnalyzeHandler(analyzer Analyzer) *AnalyzeHandler {
	return &AnalyzeHandler{analyzer: analyzer}
}

// AnalyzeRequest is the POST /api/analyze body: a URL to fetch, or
// pasted text with optional title and source.
type AnalyzeRequest struct {
	URL    string `json:"url"`
	Text   string `json:"text"`
	Title  string `json:"title"`
	Source string `json:"source"`
}

// Analyze scores a URL or pasted text and returns the full report.
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.URL != "" && req.Text != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provide either url or text, not both"})
		return
	}
	if req.URL == "" && req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provide url or text to analyze"})
		return
	}

	if req.URL != "" {
		report, err := h.analyzer.AnalyzeURL(c.Request.Context(), req.URL)
		if err != nil {
			slog.Error("URL analysis failed", "url", req.URL, "error", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Analysis failed: could not fetch or process the URL"})
			return
		}
		c.JSON(http.StatusOK, report)
		return
	}

	report, err := h.analyzer.AnalyzeText(c.Request.Context(), req.Title, req.Text, req.Source)
	if err != nil {
		slog.Error("text analysis failed", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "No analyzable text in request"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// Health reports service liveness.
func (h *AnalyzeHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
