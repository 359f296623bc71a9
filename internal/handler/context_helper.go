package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cardshop/hotspot-api/internal/middleware"
	"github.com/cardshop/hotspot-api/internal/models"
	"github.com/cardshop/hotspot-api/pkg/catalog"
	appErrors "github.com/cardshop/hotspot-api/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// organizationFromContext returns the caller's organization or an UNAUTHORIZED error.
func organizationFromContext(c *gin.Context) (string, error) {
	claims := claimsFromContext(c)
	if claims == nil || claims.Organization == "" {
		return "", appErrors.ErrUnauthorized
	}
	return claims.Organization, nil
}

func idParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid id")
	}
	return id, nil
}

// upstreamError maps catalog outages to a gateway error; other errors pass through.
func upstreamError(err error) error {
	if errors.Is(err, catalog.ErrUnavailable) {
		return appErrors.Wrap(err, appErrors.ErrCatalogUnavailable.Code, appErrors.ErrCatalogUnavailable.Status, appErrors.ErrCatalogUnavailable.Message)
	}
	return err
}
