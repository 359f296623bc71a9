package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardshop/hotspot-api/internal/models"
	appErrors "github.com/cardshop/hotspot-api/pkg/errors"
	"github.com/cardshop/hotspot-api/pkg/storage"
)

type configurationFinderStub struct {
	cfg *models.Configuration
}

func (s *configurationFinderStub) Find(ctx context.Context, id int64, organization string) (*models.Configuration, error) {
	if s.cfg == nil || s.cfg.ID != id || s.cfg.Organization != organization {
		return nil, appErrors.Wrap(sql.ErrNoRows, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "configuration not found")
	}
	return s.cfg, nil
}

func newBrandingFixture(t *testing.T) (*BrandingService, *storage.BrandingStore, *models.Configuration) {
	t.Helper()
	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	store := storage.NewBrandingStore(files)
	ref, err := store.Save("logo.png", pngData)
	require.NoError(t, err)

	cfg := &models.Configuration{ID: 7, Organization: "kiwix", BrandingLogo: &ref}
	signer := storage.NewSignedURLSigner("branding-secret", time.Minute)
	return NewBrandingService(&configurationFinderStub{cfg: cfg}, store, signer, nil), store, cfg
}

func TestBrandingServiceSignedURLAndDownload(t *testing.T) {
	svc, _, _ := newBrandingFixture(t)

	link, err := svc.SignedURL(context.Background(), 7, models.BrandingLogo, "kiwix", "/api/v1/branding/download")
	require.NoError(t, err)
	assert.Equal(t, "logo.png", link.Filename)
	require.True(t, strings.HasPrefix(link.URL, "/api/v1/branding/download?token="))
	assert.WithinDuration(t, time.Now().Add(time.Minute), link.ExpiresAt, 5*time.Second)

	token := strings.TrimPrefix(link.URL, "/api/v1/branding/download?token=")
	download, err := svc.Download(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "logo.png", download.Filename)
	assert.Equal(t, "image/png", download.ContentType)
	decoded, err := storage.DecodeBase64(pngData)
	require.NoError(t, err)
	assert.Equal(t, decoded, download.Data)
}

func TestBrandingServiceSignedURLErrors(t *testing.T) {
	svc, _, _ := newBrandingFixture(t)

	_, err := svc.SignedURL(context.Background(), 7, models.BrandingKind("banner"), "kiwix", "/dl")
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.SignedURL(context.Background(), 7, models.BrandingFavicon, "kiwix", "/dl")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	_, err = svc.SignedURL(context.Background(), 7, models.BrandingLogo, "other", "/dl")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestBrandingServiceDownloadErrors(t *testing.T) {
	svc, store, cfg := newBrandingFixture(t)

	_, err := svc.Download(context.Background(), "garbage")
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))

	link, err := svc.SignedURL(context.Background(), 7, models.BrandingLogo, "kiwix", "/dl")
	require.NoError(t, err)
	require.NoError(t, store.Delete(*cfg.BrandingLogo))
	_, err = svc.Download(context.Background(), strings.TrimPrefix(link.URL, "/dl?token="))
	assert.True(t, errors.Is(err, appErrors.ErrAssetCorruption))
}
