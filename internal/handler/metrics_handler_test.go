package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/cardshop/hotspot-api/internal/service"
	"github.com/cardshop/hotspot-api/pkg/lookup"
)

func TestMetricsHandlerReady(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ok := func(ctx context.Context) error { return nil }
	down := func(ctx context.Context) error { return errors.New("connection refused") }

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)
	NewMetricsHandler(nil, map[string]ReadinessCheck{"database": ok}).Ready(c)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)
	NewMetricsHandler(nil, map[string]ReadinessCheck{"database": ok, "redis": down}).Ready(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}

func TestMetricsHandlerPrometheus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	NewMetricsHandler(service.NewMetricsService(), nil).Prometheus(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "configurations_created_total")
}

func TestLookupHandler(t *testing.T) {
	handler := NewLookupHandler(&lookup.Catalog{
		Languages: lookup.Languages("en", "fr"),
		Timezones: lookup.Codes("UTC"),
		Countries: lookup.Countries("FR"),
	})
	c, w := newAuthedContext(http.MethodGet, "/lookups/languages", nil)
	handler.Languages(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"fr"`)

	c, w = newAuthedContext(http.MethodGet, "/lookups/countries", nil)
	handler.Countries(c)
	assert.Contains(t, w.Body.String(), "France")

	c, w = newAuthedContext(http.MethodGet, "/lookups/timezones", nil)
	handler.Timezones(c)
	assert.Contains(t, w.Body.String(), "UTC")
}
