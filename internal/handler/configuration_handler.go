package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cardshop/hotspot-api/internal/dto"
	"github.com/cardshop/hotspot-api/internal/middleware"
	"github.com/cardshop/hotspot-api/internal/models"
	appErrors "github.com/cardshop/hotspot-api/pkg/errors"
	"github.com/cardshop/hotspot-api/pkg/response"
)

// IdempotencyHeader carries the client key that makes creation replayable.
const IdempotencyHeader = "Idempotency-Key"

type configurationService interface {
	CreateFrom(ctx context.Context, raw interface{}, organization, idempotencyKey string) (*models.Configuration, bool, error)
	Get(ctx context.Context, id int64, organization string) (*dto.ConfigurationDetail, error)
	List(ctx context.Context, filter models.ConfigurationFilter) ([]dto.ConfigurationSummary, *models.Pagination, error)
	Export(ctx context.Context, id int64, organization string) (*dto.ConfigurationExport, error)
}

type configurationExporter interface {
	ConfigurationsCSV(ctx context.Context, organization string) ([]byte, error)
	ConfigurationSheet(ctx context.Context, id int64, organization string) ([]byte, string, error)
}

// ConfigurationHandler exposes hotspot configuration endpoints.
type ConfigurationHandler struct {
	service configurationService
	exports configurationExporter
}

// NewConfigurationHandler builds a new handler.
func NewConfigurationHandler(service configurationService, exports configurationExporter) *ConfigurationHandler {
	return &ConfigurationHandler{service: service, exports: exports}
}

// Create godoc
// @Summary Create a configuration from a raw payload
// @Description Fields that fail validation fall back to defaults; invalid branding entries are dropped.
// @Tags Configurations
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Replay key"
// @Param payload body object true "Configuration payload"
// @Success 201 {object} response.Envelope
// @Success 200 {object} response.Envelope "Idempotent replay"
// @Failure 409 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /configurations [post]
func (h *ConfigurationHandler) Create(c *gin.Context) {
	organization, err := organizationFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var raw interface{}
	if err := c.ShouldBindJSON(&raw); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "request body is not JSON"))
		return
	}

	cfg, replayed, err := h.service.CreateFrom(c.Request.Context(), raw, organization, c.GetHeader(IdempotencyHeader))
	if err != nil {
		response.Error(c, upstreamError(err))
		return
	}
	if replayed {
		middleware.SetIdempotentReplay(c, true)
		response.JSON(c, http.StatusOK, cfg, nil, middleware.ExtractMeta(c))
		return
	}
	response.JSON(c, http.StatusCreated, cfg, nil, middleware.ExtractMeta(c))
}

// List godoc
// @Summary List the organization's configurations, newest first
// @Tags Configurations
// @Produce json
// @Param page query int false "Page"
// @Param page_size query int false "Page size, 0 for all"
// @Success 200 {object} response.Envelope
// @Router /configurations [get]
func (h *ConfigurationHandler) List(c *gin.Context) {
	organization, err := organizationFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var filter models.ConfigurationFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	filter.Organization = organization
	items, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get a configuration with its collection, size and minimal media
// @Tags Configurations
// @Produce json
// @Param id path int true "Configuration ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /configurations/{id} [get]
func (h *ConfigurationHandler) Get(c *gin.Context) {
	organization, id, ok := h.scope(c)
	if !ok {
		return
	}
	detail, err := h.service.Get(c.Request.Context(), id, organization)
	if err != nil {
		response.Error(c, upstreamError(err))
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Export godoc
// @Summary Export the build payload of a configuration
// @Tags Configurations
// @Produce json
// @Param id path int true "Configuration ID"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /configurations/{id}/export [get]
func (h *ConfigurationHandler) Export(c *gin.Context) {
	organization, id, ok := h.scope(c)
	if !ok {
		return
	}
	payload, err := h.service.Export(c.Request.Context(), id, organization)
	if err != nil {
		response.Error(c, upstreamError(err))
		return
	}
	response.JSON(c, http.StatusOK, payload, nil)
}

// Sheet godoc
// @Summary Download a PDF summary of a configuration
// @Tags Configurations
// @Produce application/pdf
// @Param id path int true "Configuration ID"
// @Success 200 {file} binary
// @Router /configurations/{id}/sheet [get]
func (h *ConfigurationHandler) Sheet(c *gin.Context) {
	organization, id, ok := h.scope(c)
	if !ok {
		return
	}
	data, filename, err := h.exports.ConfigurationSheet(c.Request.Context(), id, organization)
	if err != nil {
		response.Error(c, upstreamError(err))
		return
	}
	response.Attachment(c, "application/pdf", filename, data)
}

// CSV godoc
// @Summary Download the organization's configurations as CSV
// @Tags Configurations
// @Produce text/csv
// @Success 200 {file} binary
// @Router /configurations/export.csv [get]
func (h *ConfigurationHandler) CSV(c *gin.Context) {
	organization, err := organizationFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	data, err := h.exports.ConfigurationsCSV(c.Request.Context(), organization)
	if err != nil {
		response.Error(c, upstreamError(err))
		return
	}
	response.Attachment(c, "text/csv", "configurations.csv", data)
}

func (h *ConfigurationHandler) scope(c *gin.Context) (string, int64, bool) {
	organization, err := organizationFromContext(c)
	if err != nil {
		response.Error(c, err)
		return "", 0, false
	}
	id, err := idParam(c)
	if err != nil {
		response.Error(c, err)
		return "", 0, false
	}
	return organization, id, true
}
