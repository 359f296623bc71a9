package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cardshop/hotspot-api/internal/dto"
	"github.com/cardshop/hotspot-api/internal/models"
	appErrors "github.com/cardshop/hotspot-api/pkg/errors"
	"github.com/cardshop/hotspot-api/pkg/response"
)

type brandingService interface {
	SignedURL(ctx context.Context, id int64, kind models.BrandingKind, organization, downloadPath string) (*dto.BrandingURLResponse, error)
	Download(ctx context.Context, token string) (*dto.BrandingDownload, error)
}

// BrandingHandler serves time-limited branding downloads.
type BrandingHandler struct {
	service      brandingService
	downloadPath string
}

// NewBrandingHandler builds a handler whose links point at downloadPath.
func NewBrandingHandler(service brandingService, downloadPath string) *BrandingHandler {
	return &BrandingHandler{service: service, downloadPath: downloadPath}
}

// URL godoc
// @Summary Issue a signed download link for a branding asset
// @Tags Branding
// @Produce json
// @Param id path int true "Configuration ID"
// @Param kind path string true "logo, favicon or css"
// @Success 200 {object} response.Envelope
// @Router /configurations/{id}/branding/{kind}/url [get]
func (h *BrandingHandler) URL(c *gin.Context) {
	organization, err := organizationFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	id, err := idParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	link, err := h.service.SignedURL(c.Request.Context(), id, models.BrandingKind(c.Param("kind")), organization, h.downloadPath)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, link, nil)
}

// Download godoc
// @Summary Download a branding asset with a signed token
// @Tags Branding
// @Produce octet-stream
// @Param token query string true "Signed token"
// @Success 200 {file} binary
// @Failure 403 {object} response.Envelope
// @Router /branding/download [get]
func (h *BrandingHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}
	file, err := h.service.Download(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.ContentType, file.Filename, file.Data)
}
