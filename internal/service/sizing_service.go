package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/cardshop/hotspot-api/internal/models"
)

type packageSizer interface {
	PackageSizes(ctx context.Context, ids []string) (map[string]int64, error)
	ResourceSize(ctx context.Context, url string) (int64, error)
}

// SizingConfig lists the footprint of the base image and bundled platforms, in bytes.
type SizingConfig struct {
	BaseImageSize  int64
	KaliteSizes    map[string]int64
	WikifundiSizes map[string]int64
	AflatounSize   int64
	EdupiSize      int64
}

// SizingService estimates the bytes a collection needs on media.
type SizingService struct {
	catalog packageSizer
	cfg     SizingConfig
	logger  *zap.Logger
}

// NewSizingService constructs a SizingService.
func NewSizingService(catalog packageSizer, cfg SizingConfig, logger *zap.Logger) *SizingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SizingService{catalog: catalog, cfg: cfg, logger: logger}
}

// RequiredSize sums the base image and every collection entry. No margin is added.
// Catalog failures are returned unchanged.
func (s *SizingService) RequiredSize(ctx context.Context, collection models.Collection) (int64, error) {
	total := s.cfg.BaseImageSize

	if ids := collection.PackageIDs(); len(ids) > 0 {
		sizes, err := s.catalog.PackageSizes(ctx, ids)
		if err != nil {
			return 0, err
		}
		for _, id := range ids {
			size, ok := sizes[id]
			if !ok {
				s.logger.Warn("package missing from catalog", zap.String("package_id", id))
				continue
			}
			total += size
		}
	}

	for _, entry := range collection {
		switch entry.Kind {
		case models.CollectionKalite:
			for _, lang := range entry.Languages {
				total += s.cfg.KaliteSizes[lang]
			}
		case models.CollectionWikifundi:
			for _, lang := range entry.Languages {
				total += s.cfg.WikifundiSizes[lang]
			}
		case models.CollectionAflatoun:
			total += s.cfg.AflatounSize
		case models.CollectionEdupi:
			total += s.cfg.EdupiSize
			if entry.Resources != nil {
				size, err := s.catalog.ResourceSize(ctx, *entry.Resources)
				if err != nil {
					return 0, err
				}
				total += size
			}
		}
	}
	return total, nil
}
