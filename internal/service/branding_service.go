package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cardshop/hotspot-api/internal/dto"
	"github.com/cardshop/hotspot-api/internal/models"
	appErrors "github.com/cardshop/hotspot-api/pkg/errors"
	"github.com/cardshop/hotspot-api/pkg/storage"
)

type configurationFinder interface {
	Find(ctx context.Context, id int64, organization string) (*models.Configuration, error)
}

type brandingReader interface {
	Read(ref string) ([]byte, error)
}

type urlSigner interface {
	Generate(subject, ref string) (string, time.Time, error)
	Parse(token string) (subject, ref string, expiresAt time.Time, err error)
}

// BrandingService issues and redeems time-limited branding download links.
type BrandingService struct {
	configs configurationFinder
	assets  brandingReader
	signer  urlSigner
	logger  *zap.Logger
}

// NewBrandingService constructs a BrandingService.
func NewBrandingService(configs configurationFinder, assets brandingReader, signer urlSigner, logger *zap.Logger) *BrandingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BrandingService{configs: configs, assets: assets, signer: signer, logger: logger}
}

// SignedURL returns a download link for one branding slot, rooted at downloadPath.
func (s *BrandingService) SignedURL(ctx context.Context, id int64, kind models.BrandingKind, organization, downloadPath string) (*dto.BrandingURLResponse, error) {
	if _, ok := brandingMediaTypes[kind]; !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown branding kind")
	}
	cfg, err := s.configs.Find(ctx, id, organization)
	if err != nil {
		return nil, err
	}
	ref := cfg.Branding(kind)
	if ref == nil || *ref == "" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("configuration has no %s", kind))
	}
	token, expiresAt, err := s.signer.Generate(organization, *ref)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign branding url")
	}
	return &dto.BrandingURLResponse{
		URL:       fmt.Sprintf("%s?token=%s", downloadPath, token),
		Filename:  storage.DisplayName(*ref),
		ExpiresAt: expiresAt,
	}, nil
}

// Download redeems a token and returns the asset bytes.
func (s *BrandingService) Download(ctx context.Context, token string) (*dto.BrandingDownload, error) {
	_, ref, _, err := s.signer.Parse(token)
	if err != nil {
		if errors.Is(err, storage.ErrTokenExpired) {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "download link expired")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrForbidden.Code, appErrors.ErrForbidden.Status, "invalid download link")
	}
	data, err := s.assets.Read(ref)
	if err != nil {
		if errors.Is(err, storage.ErrAssetNotFound) {
			s.logger.Error("branding asset missing", zap.String("ref", ref))
			return nil, appErrors.Wrap(err, appErrors.ErrAssetCorruption.Code, appErrors.ErrAssetCorruption.Status, appErrors.ErrAssetCorruption.Message)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read branding asset")
	}
	name := storage.DisplayName(ref)
	contentType := mediaTypeForName(name)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &dto.BrandingDownload{Filename: name, ContentType: contentType, Data: data}, nil
}
