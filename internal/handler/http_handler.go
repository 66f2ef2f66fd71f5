package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kursline/rate-service/internal/dateparse"
	"github.com/kursline/rate-service/internal/model"
	"github.com/kursline/rate-service/internal/pairstore"
	"github.com/kursline/rate-service/internal/service"
)

// HTTPHandler handles HTTP requests
type HTTPHandler struct {
	rateService *service.RateService
	pairStore   pairstore.PairStore
	logger      *zap.Logger

	// now is replaceable in tests.
	now func() time.Time
}

// NewHTTPHandler creates a new HTTPHandler
func NewHTTPHandler(rateService *service.RateService, pairStore pairstore.PairStore, logger *zap.Logger) *HTTPHandler {
	return &HTTPHandler{
		rateService: rateService,
		pairStore:   pairStore,
		logger:      logger,
		now:         time.Now,
	}
}

// SetupRoutes configures the HTTP routes
func (h *HTTPHandler) SetupRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)

	api := r.Group("/api")
	{
		api.GET("/rates/:base/:target", h.GetRate)
		api.GET("/convert/:base/:target", h.Convert)

		api.PUT("/pairs/:userID", h.SetPair)
		api.GET("/pairs/:userID", h.GetPair)

		api.DELETE("/cache", h.ClearCache)
		api.GET("/cache/stats", h.CacheStats)
	}
}

// Health returns the health status
func (h *HTTPHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "rate-service",
	})
}

// Ready reports readiness, including pair store connectivity.
func (h *HTTPHandler) Ready(c *gin.Context) {
	if err := h.pairStore.Health(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ready",
		"service": "rate-service",
	})
}

// pairParams validates the base/target path parameters.
func (h *HTTPHandler) pairParams(c *gin.Context) (base, target string, ok bool) {
	base = model.NormalizeCode(c.Param("base"))
	target = model.NormalizeCode(c.Param("target"))

	if !model.IsSupportedPair(base, target) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": model.ErrUnsupportedPair{Base: base, Target: target}.Error(),
		})
		return "", "", false
	}
	return base, target, true
}

// dateParam parses the optional free-text date query, defaulting to today.
func (h *HTTPHandler) dateParam(c *gin.Context) (time.Time, bool) {
	text := c.Query("date")
	if text == "" {
		text = "today"
	}

	date, err := dateparse.Parse(text, h.now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return time.Time{}, false
	}
	return date, true
}

// GetRate resolves the rate for a pair on a date.
func (h *HTTPHandler) GetRate(c *gin.Context) {
	base, target, ok := h.pairParams(c)
	if !ok {
		return
	}
	date, ok := h.dateParam(c)
	if !ok {
		return
	}

	result, err := h.rateService.Resolve(c.Request.Context(), base, target, date)
	if err != nil {
		h.logger.Error("Failed to resolve rate", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if result == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no data"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Convert resolves the rate and applies it to the amount query parameter.
func (h *HTTPHandler) Convert(c *gin.Context) {
	base, target, ok := h.pairParams(c)
	if !ok {
		return
	}
	date, ok := h.dateParam(c)
	if !ok {
		return
	}

	amount, err := dateparse.ParseAmount(c.Query("amount"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conversion, err := h.rateService.Convert(c.Request.Context(), base, target, date, amount)
	if err != nil {
		h.logger.Error("Failed to convert amount", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if conversion == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no data"})
		return
	}

	c.JSON(http.StatusOK, conversion)
}

// setPairRequest is the body for pair registration.
type setPairRequest struct {
	Pair string `json:"pair" binding:"required"`
}

// SetPair registers a user's currency pair.
func (h *HTTPHandler) SetPair(c *gin.Context) {
	userID := c.Param("userID")

	var req setPairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	base, target, err := model.ParsePair(req.Pair)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pair := pairstore.Pair{Base: base, Target: target}
	if err := h.pairStore.SetPair(c.Request.Context(), userID, pair); err != nil {
		h.logger.Error("Failed to save pair", zap.String("userID", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save pair"})
		return
	}

	c.JSON(http.StatusOK, pair)
}

// GetPair returns a user's registered pair.
func (h *HTTPHandler) GetPair(c *gin.Context) {
	userID := c.Param("userID")

	pair, err := h.pairStore.GetPair(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to load pair", zap.String("userID", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load pair"})
		return
	}
	if pair == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no pair registered"})
		return
	}

	c.JSON(http.StatusOK, pair)
}

// ClearCache removes all cached rates (administrative).
func (h *HTTPHandler) ClearCache(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"cleared": h.rateService.ClearCache()})
}

// CacheStats returns rate cache statistics.
func (h *HTTPHandler) CacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.rateService.CacheStats())
}
