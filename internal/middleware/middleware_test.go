package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardshop/hotspot-api/internal/models"
	"github.com/cardshop/hotspot-api/internal/service"
	appErrors "github.com/cardshop/hotspot-api/pkg/errors"
	"github.com/cardshop/hotspot-api/pkg/logger"
)

type tokenValidatorStub struct {
	claims *models.JWTClaims
}

func (s tokenValidatorStub) ValidateToken(token string) (*models.JWTClaims, error) {
	if token != "good" || s.claims == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
	}
	return s.claims, nil
}

func newProtectedRouter(validator tokenValidator, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := []gin.HandlerFunc{JWT(validator)}
	if len(roles) > 0 {
		handlers = append(handlers, RequireRoles(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(logger.OrganizationKey))
	})
	r.GET("/protected", handlers...)
	return r
}

func doRequest(r http.Handler, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestJWTSetsOrganization(t *testing.T) {
	r := newProtectedRouter(tokenValidatorStub{claims: &models.JWTClaims{Organization: "kiwix", Role: models.RoleManager}})

	rec := doRequest(r, "Bearer good")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "kiwix", rec.Body.String())

	for _, header := range []string{"", "Token good", "Bearer bad"} {
		rec = doRequest(r, header)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
	}
}

func TestRequireRoles(t *testing.T) {
	manager := tokenValidatorStub{claims: &models.JWTClaims{Organization: "kiwix", Role: models.RoleManager}}

	rec := doRequest(newProtectedRouter(manager, models.RoleAdmin, models.RoleManager), "Bearer good")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(newProtectedRouter(manager, models.RoleAdmin), "Bearer good")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestResponseMeta(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(WithResponseMeta())
	var captured map[string]interface{}
	r.GET("/", func(c *gin.Context) {
		SetIdempotentReplay(c, true)
		captured = ExtractMeta(c)
		c.Status(http.StatusNoContent)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotNil(t, captured)
	assert.Equal(t, true, captured[replayKey])
	assert.Contains(t, captured, "processing_time_ms")
}

func TestMetricsMiddlewareObservesRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	r := gin.New()
	r.Use(Metrics(metrics))
	r.GET("/items/:id", func(c *gin.Context) {
		time.Sleep(time.Millisecond)
		c.Status(http.StatusOK)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/7", nil))

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",path="/items/:id",status="200"} 1`)
}
