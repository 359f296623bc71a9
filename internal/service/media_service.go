package service

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"

	"github.com/cardshop/hotspot-api/internal/dto"
	"github.com/cardshop/hotspot-api/internal/models"
	appErrors "github.com/cardshop/hotspot-api/pkg/errors"
)

type mediaRepository interface {
	List(ctx context.Context) ([]models.Media, error)
}

// MinimalTierFor returns the smallest tier whose capacity covers requiredBytes.
// The requirement is floored to whole gigabytes before comparing, so up to one
// gigabyte may be under-recommended. No covering tier yields ErrNoSuitableMedia.
func MinimalTierFor(tiers []models.Media, requiredBytes int64) (*models.Media, error) {
	requiredGB := RequiredGB(requiredBytes)
	ordered := make([]models.Media, len(tiers))
	copy(ordered, tiers)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Size < ordered[j].Size })
	for i := range ordered {
		if int64(ordered[i].Size) >= requiredGB {
			tier := ordered[i]
			return &tier, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNoSuitableMedia, "")
}

// RequiredGB floors a byte count to whole gigabytes.
func RequiredGB(requiredBytes int64) int64 {
	if requiredBytes <= 0 {
		return 0
	}
	return requiredBytes / models.OneGB
}

// MediaService reads media tiers and selects among them.
type MediaService struct {
	repo    mediaRepository
	metrics *MetricsService
	logger  *zap.Logger
}

// NewMediaService constructs a MediaService.
func NewMediaService(repo mediaRepository, metrics *MetricsService, logger *zap.Logger) *MediaService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MediaService{repo: repo, metrics: metrics, logger: logger}
}

// List returns every tier by ascending capacity.
func (s *MediaService) List(ctx context.Context) ([]dto.MediaResponse, error) {
	tiers, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list media")
	}
	items := make([]dto.MediaResponse, 0, len(tiers))
	for _, tier := range tiers {
		items = append(items, dto.NewMediaResponse(tier))
	}
	return items, nil
}

// MinimalFor selects against the current tier list, read fresh on every call.
func (s *MediaService) MinimalFor(ctx context.Context, requiredBytes int64) (*models.Media, error) {
	tiers, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list media")
	}
	tier, err := MinimalTierFor(tiers, requiredBytes)
	if err != nil {
		if errors.Is(err, appErrors.ErrNoSuitableMedia) {
			s.metrics.RecordMediaSelection(false)
			s.logger.Info("no media large enough", zap.Int64("required_bytes", requiredBytes))
		}
		return nil, err
	}
	s.metrics.RecordMediaSelection(true)
	return tier, nil
}

// Minimal answers a selection request with the requirement echoed back.
func (s *MediaService) Minimal(ctx context.Context, requiredBytes int64) (*dto.MinimalMediaResponse, error) {
	if requiredBytes < 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "size must not be negative")
	}
	tier, err := s.MinimalFor(ctx, requiredBytes)
	if err != nil {
		return nil, err
	}
	return &dto.MinimalMediaResponse{
		RequiredBytes: requiredBytes,
		RequiredGB:    RequiredGB(requiredBytes),
		Media:         dto.NewMediaResponse(*tier),
	}, nil
}
