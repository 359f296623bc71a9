package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cardshop/hotspot-api/internal/dto"
	appErrors "github.com/cardshop/hotspot-api/pkg/errors"
	"github.com/cardshop/hotspot-api/pkg/response"
)

type mediaService interface {
	List(ctx context.Context) ([]dto.MediaResponse, error)
	Minimal(ctx context.Context, requiredBytes int64) (*dto.MinimalMediaResponse, error)
}

// MediaHandler exposes media tiers.
type MediaHandler struct {
	service mediaService
}

// NewMediaHandler builds a media handler.
func NewMediaHandler(service mediaService) *MediaHandler {
	return &MediaHandler{service: service}
}

// List godoc
// @Summary List media tiers by ascending capacity
// @Tags Media
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /media [get]
func (h *MediaHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Minimal godoc
// @Summary Smallest media tier holding a byte requirement
// @Tags Media
// @Produce json
// @Param size query int true "Required bytes"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /media/minimal [get]
func (h *MediaHandler) Minimal(c *gin.Context) {
	size, err := strconv.ParseInt(c.Query("size"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "size must be an integer number of bytes"))
		return
	}
	resp, err := h.service.Minimal(c.Request.Context(), size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}
