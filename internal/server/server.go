package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"gram-gold-watch/internal/news"
	"gram-gold-watch/internal/service"
)

// MetricsService assembles the per-range metrics response.
type MetricsService interface {
	Metrics(ctx context.Context, rangeKey string) service.Metrics
}

// HeadlineCache serves the cached headline payload.
type HeadlineCache interface {
	Get(ctx context.Context) news.Payload
}

// Handler holds the API route handlers and their collaborators.
type Handler struct {
	metrics   MetricsService
	headlines HeadlineCache
	logger    zerolog.Logger
}

// NewHandler constructs the API handler.
func NewHandler(metrics MetricsService, headlines HeadlineCache, logger zerolog.Logger) *Handler {
	return &Handler{
		metrics:   metrics,
		headlines: headlines,
		logger:    logger.With().Str("component", "server").Logger(),
	}
}

// SetupRoutes registers the API routes on the engine.
func (h *Handler) SetupRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.GET("/metrics", h.GetMetrics)
		api.GET("/news", h.GetNews)
	}
}

// NewEngine builds a gin engine with the API routes registered.
func NewEngine(h *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	h.SetupRoutes(r)
	return r
}

// GetMetrics serves the assembled metrics for the requested range.
func (h *Handler) GetMetrics(c *gin.Context) {
	rangeKey := c.DefaultQuery("range", "daily")
	c.JSON(http.StatusOK, h.metrics.Metrics(c.Request.Context(), rangeKey))
}

// GetNews serves the cached headline payload.
func (h *Handler) GetNews(c *gin.Context) {
	c.JSON(http.StatusOK, h.headlines.Get(c.Request.Context()))
}
