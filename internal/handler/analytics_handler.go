package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gradehub/gradebook-api/internal/models"
	"github.com/gradehub/gradebook-api/pkg/response"
)

// AnalyticsServiceAPI captures the analytics use-cases the handler depends on.
type AnalyticsServiceAPI interface {
	Summary(ctx context.Context) (*models.RosterSummary, bool, error)
}

// AnalyticsHandler exposes roster aggregates.
type AnalyticsHandler struct {
	service AnalyticsServiceAPI
}

// NewAnalyticsHandler creates a new handler.
func NewAnalyticsHandler(svc AnalyticsServiceAPI) *AnalyticsHandler {
	return &AnalyticsHandler{service: svc}
}

// Summary godoc
// @Summary Roster summary
// @Description Return roster-wide aggregates for the dashboard charts
// @Tags Analytics
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Security BearerAuth
// @Router /analytics/summary [get]
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	summary, cacheHit, err := h.service.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, map[string]interface{}{"cache_hit": cacheHit})
}
