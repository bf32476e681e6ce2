package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gradehub/gradebook-api/internal/service"
	"github.com/gradehub/gradebook-api/pkg/response"
)

// SeedServiceAPI captures the seeding use-case the handler depends on.
type SeedServiceAPI interface {
	Seed(ctx context.Context) (*service.SeedResult, error)
}

// SeedHandler loads the sample roster for demos.
type SeedHandler struct {
	service SeedServiceAPI
}

// NewSeedHandler creates a new handler.
func NewSeedHandler(svc SeedServiceAPI) *SeedHandler {
	return &SeedHandler{service: svc}
}

// Seed godoc
// @Summary Seed sample roster
// @Description Insert the demo students; existing records are skipped
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/seed [post]
func (h *SeedHandler) Seed(c *gin.Context) {
	result, err := h.service.Seed(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}
