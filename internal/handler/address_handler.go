package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cardshop/hotspot-api/internal/dto"
	appErrors "github.com/cardshop/hotspot-api/pkg/errors"
	"github.com/cardshop/hotspot-api/pkg/response"
)

type addressService interface {
	List(ctx context.Context, organization string) ([]dto.AddressResponse, error)
	Create(ctx context.Context, organization string, req dto.AddressRequest) (*dto.AddressResponse, error)
	Update(ctx context.Context, organization string, id int64, req dto.AddressRequest) (*dto.AddressResponse, error)
}

// AddressHandler manages shipping addresses.
type AddressHandler struct {
	service addressService
}

// NewAddressHandler builds an address handler.
func NewAddressHandler(service addressService) *AddressHandler {
	return &AddressHandler{service: service}
}

// List godoc
// @Summary List shipping addresses
// @Tags Addresses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /addresses [get]
func (h *AddressHandler) List(c *gin.Context) {
	organization, err := organizationFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	items, err := h.service.List(c.Request.Context(), organization)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Create godoc
// @Summary Create a shipping address
// @Tags Addresses
// @Accept json
// @Produce json
// @Param payload body dto.AddressRequest true "Address payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /addresses [post]
func (h *AddressHandler) Create(c *gin.Context) {
	organization, err := organizationFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid address payload"))
		return
	}
	address, err := h.service.Create(c.Request.Context(), organization, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, address)
}

// Update godoc
// @Summary Update a shipping address
// @Tags Addresses
// @Accept json
// @Produce json
// @Param id path int true "Address ID"
// @Param payload body dto.AddressRequest true "Address payload"
// @Success 200 {object} response.Envelope
// @Router /addresses/{id} [put]
func (h *AddressHandler) Update(c *gin.Context) {
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
	var req dto.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid address payload"))
		return
	}
	address, err := h.service.Update(c.Request.Context(), organization, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, address, nil)
}
