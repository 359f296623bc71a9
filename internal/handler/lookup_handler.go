package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cardshop/hotspot-api/pkg/lookup"
	"github.com/cardshop/hotspot-api/pkg/response"
)

// LookupHandler serves the read-only enumerations.
type LookupHandler struct {
	catalog *lookup.Catalog
}

// NewLookupHandler builds a lookup handler.
func NewLookupHandler(catalog *lookup.Catalog) *LookupHandler {
	return &LookupHandler{catalog: catalog}
}

// Languages godoc
// @Summary Hotspot interface languages
// @Tags Lookups
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /lookups/languages [get]
func (h *LookupHandler) Languages(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.catalog.Languages.Items(), nil)
}

// Timezones godoc
// @Summary Known timezones
// @Tags Lookups
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /lookups/timezones [get]
func (h *LookupHandler) Timezones(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.catalog.Timezones.Items(), nil)
}

// Countries godoc
// @Summary Shipping countries
// @Tags Lookups
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /lookups/countries [get]
func (h *LookupHandler) Countries(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.catalog.Countries.Items(), nil)
}
