package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/cardshop/hotspot-api/internal/dto"
	"github.com/cardshop/hotspot-api/internal/models"
	appErrors "github.com/cardshop/hotspot-api/pkg/errors"
	"github.com/cardshop/hotspot-api/pkg/storage"
)

type configurationRepository interface {
	Create(ctx context.Context, cfg *models.Configuration) error
	FindByID(ctx context.Context, id int64) (*models.Configuration, error)
	ListByOrganization(ctx context.Context, filter models.ConfigurationFilter) ([]models.Configuration, int, error)
}

type organizationReader interface {
	FindBySlug(ctx context.Context, slug string) (*models.Organization, error)
}

type packageCatalog interface {
	PackageIDs(ctx context.Context) ([]string, error)
}

type brandingAssetStore interface {
	Save(name, payload string) (string, error)
	Load(ref string) (*storage.BrandingFile, error)
	Delete(ref string) error
}

type requiredSizer interface {
	RequiredSize(ctx context.Context, collection models.Collection) (int64, error)
}

type mediaSelector interface {
	MinimalFor(ctx context.Context, requiredBytes int64) (*models.Media, error)
}

// orphanSweeper retries deletion of assets a failed creation could not remove.
type orphanSweeper interface {
	Enqueue(ref string) error
}

type idempotencyCache interface {
	Enabled() bool
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	SetIfAbsent(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// pendingConfiguration marks an idempotency key whose creation is still running.
const pendingConfiguration int64 = 0

// ConfigurationServiceConfig tunes runtime behaviour.
type ConfigurationServiceConfig struct {
	IdempotencyTTL time.Duration
}

// ConfigurationService runs the creation pipeline and derives sizing on read.
type ConfigurationService struct {
	repo      configurationRepository
	orgs      organizationReader
	catalog   packageCatalog
	sanitizer *ConfigurationSanitizer
	assets    brandingAssetStore
	sizer     requiredSizer
	media     mediaSelector
	cache     idempotencyCache
	orphans   orphanSweeper
	metrics   *MetricsService
	logger    *zap.Logger
	cfg       ConfigurationServiceConfig
}

// ConfigurationServiceDeps groups the collaborators of ConfigurationService.
type ConfigurationServiceDeps struct {
	Repo          configurationRepository
	Organizations organizationReader
	Catalog       packageCatalog
	Sanitizer     *ConfigurationSanitizer
	Assets        brandingAssetStore
	Sizer         requiredSizer
	Media         mediaSelector
	Cache         idempotencyCache
	Orphans       orphanSweeper
	Metrics       *MetricsService
}

// NewConfigurationService constructs a ConfigurationService.
func NewConfigurationService(deps ConfigurationServiceDeps, logger *zap.Logger, cfg ConfigurationServiceConfig) *ConfigurationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConfigurationService{
		repo:      deps.Repo,
		orgs:      deps.Organizations,
		catalog:   deps.Catalog,
		sanitizer: deps.Sanitizer,
		assets:    deps.Assets,
		sizer:     deps.Sizer,
		media:     deps.Media,
		cache:     deps.Cache,
		orphans:   deps.Orphans,
		metrics:   deps.Metrics,
		logger:    logger,
		cfg:       cfg,
	}
}

// CreateFrom sanitizes raw into a new configuration of organization and persists it.
// Malformed fields never fail the call. Catalog errors are returned unchanged and
// before any asset is written. Asset or record failures remove the assets written
// by this attempt and surface as PERSISTENCE_FAILURE wrapping the original error.
// A non-empty idempotencyKey is reserved before the pipeline runs: a finished key
// replays its configuration and a key still in flight yields CONFLICT.
func (s *ConfigurationService) CreateFrom(ctx context.Context, raw interface{}, organization, idempotencyKey string) (_ *models.Configuration, _ bool, err error) {
	if _, err := s.orgs.FindBySlug(ctx, organization); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, appErrors.Clone(appErrors.ErrNotFound, "organization not found")
		}
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load organization")
	}

	replayed, reserved, err := s.reserve(ctx, organization, idempotencyKey)
	if err != nil {
		return nil, false, err
	}
	if replayed != nil {
		return replayed, true, nil
	}
	if reserved {
		defer func() {
			if err != nil {
				s.release(ctx, organization, idempotencyKey)
			}
		}()
	}

	packageIDs, err := s.catalog.PackageIDs(ctx)
	if err != nil {
		return nil, false, err
	}

	cfg, uploads := s.sanitizer.Sanitize(raw, organization, packageIDs)

	written := make([]string, 0, len(uploads))
	for _, upload := range uploads {
		ref, err := s.assets.Save(upload.Fname, upload.Data)
		if err != nil {
			s.cleanup(written)
			return nil, false, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to store branding asset")
		}
		written = append(written, ref)
		stored := ref
		cfg.SetBranding(upload.Kind, &stored)
	}

	if err := s.repo.Create(ctx, cfg); err != nil {
		s.logger.Warn("configuration insert failed", zap.String("organization", organization), zap.Error(err))
		s.cleanup(written)
		return nil, false, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to create configuration")
	}

	s.metrics.RecordConfigurationCreated()
	s.logger.Info("configuration created",
		zap.Int64("configuration_id", cfg.ID),
		zap.String("organization", organization),
		zap.Int("branding_assets", len(written)),
	)
	if reserved {
		s.settle(ctx, organization, idempotencyKey, cfg.ID)
	}
	return cfg, false, nil
}

// Get returns the configuration with its collection, size and minimal media recomputed.
// A configuration no media can hold is returned with a null min_media.
func (s *ConfigurationService) Get(ctx context.Context, id int64, organization string) (*dto.ConfigurationDetail, error) {
	cfg, err := s.find(ctx, id, organization)
	if err != nil {
		return nil, err
	}
	collection := CollectionFor(cfg)
	size, err := s.sizer.RequiredSize(ctx, collection)
	if err != nil {
		return nil, err
	}

	detail := &dto.ConfigurationDetail{
		Configuration:      *cfg,
		DisplayName:        cfg.DisplayName(),
		WifiProtected:      cfg.WifiProtected(),
		KaliteLanguages:    cfg.KaliteLanguages(),
		WikifundiLanguages: cfg.WikifundiLanguages(),
		Collection:         collection,
		RequiredSize:       size,
	}
	media, err := s.media.MinimalFor(ctx, size)
	switch {
	case err == nil:
		resp := dto.NewMediaResponse(*media)
		units := media.Units()
		detail.MinMedia = &resp
		detail.MinUnits = &units
	case errors.Is(err, appErrors.ErrNoSuitableMedia):
	default:
		return nil, err
	}
	return detail, nil
}

// List returns the organization's configurations, newest first.
func (s *ConfigurationService) List(ctx context.Context, filter models.ConfigurationFilter) ([]dto.ConfigurationSummary, *models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	configs, total, err := s.repo.ListByOrganization(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list configurations")
	}
	items := make([]dto.ConfigurationSummary, 0, len(configs))
	for i := range configs {
		items = append(items, dto.ConfigurationSummary{
			ID:          configs[i].ID,
			DisplayName: configs[i].DisplayName(),
			ProjectName: configs[i].ProjectName,
			Language:    configs[i].Language,
			UpdatedOn:   configs[i].UpdatedOn,
		})
	}
	pageSize := filter.PageSize
	if pageSize == 0 {
		pageSize = total
	}
	return items, &models.Pagination{Page: filter.Page, PageSize: pageSize, TotalCount: total}, nil
}

// Export builds the build payload. It fails with NO_SUITABLE_MEDIA when no tier
// fits and with ASSET_STORE_CORRUPTION when a referenced asset is gone.
func (s *ConfigurationService) Export(ctx context.Context, id int64, organization string) (*dto.ConfigurationExport, error) {
	cfg, err := s.find(ctx, id, organization)
	if err != nil {
		return nil, err
	}
	size, err := s.sizer.RequiredSize(ctx, CollectionFor(cfg))
	if err != nil {
		return nil, err
	}
	media, err := s.media.MinimalFor(ctx, size)
	if err != nil {
		return nil, err
	}

	payload := &dto.ConfigurationExport{
		ProjectName:  cfg.ProjectName,
		Language:     cfg.Language,
		Timezone:     cfg.Timezone,
		WifiPassword: cfg.WifiPassword,
		AdminAccount: dto.AdminAccountExport{Login: cfg.AdminAccount, Password: cfg.AdminPassword},
		Size:         media.Human(),
		Content: dto.ContentExport{
			Zims:           append([]string{}, cfg.ContentZims...),
			Kalite:         cfg.KaliteLanguages(),
			Wikifundi:      cfg.WikifundiLanguages(),
			Aflatoun:       cfg.ContentAflatoun,
			Edupi:          cfg.ContentEdupi,
			EdupiResources: cfg.ContentEdupiResources,
		},
	}
	for _, kind := range models.BrandingKinds {
		ref := cfg.Branding(kind)
		if ref == nil || *ref == "" {
			continue
		}
		file, err := s.assets.Load(*ref)
		if err != nil {
			if errors.Is(err, storage.ErrAssetNotFound) {
				s.logger.Error("branding asset missing", zap.Int64("configuration_id", cfg.ID), zap.String("kind", string(kind)), zap.String("ref", *ref))
				return nil, appErrors.Wrap(err, appErrors.ErrAssetCorruption.Code, appErrors.ErrAssetCorruption.Status, appErrors.ErrAssetCorruption.Message)
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load branding asset")
		}
		payload.Branding.Set(kind, file)
	}
	return payload, nil
}

// Find returns the raw record when it belongs to organization.
func (s *ConfigurationService) Find(ctx context.Context, id int64, organization string) (*models.Configuration, error) {
	return s.find(ctx, id, organization)
}

func (s *ConfigurationService) find(ctx context.Context, id int64, organization string) (*models.Configuration, error) {
	cfg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "configuration not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load configuration")
	}
	if cfg.Organization != organization {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "configuration not found")
	}
	return cfg, nil
}

// cleanup removes assets written by a failed attempt. Failures are logged, counted
// and handed to the orphan sweeper when one is configured; they never fail the call.
func (s *ConfigurationService) cleanup(refs []string) {
	for _, ref := range refs {
		err := s.assets.Delete(ref)
		if err == nil {
			continue
		}
		s.metrics.RecordCleanupFailure()
		s.logger.Error("branding asset cleanup failed", zap.String("ref", ref), zap.Error(err))
		if s.orphans != nil {
			if qerr := s.orphans.Enqueue(ref); qerr != nil {
				s.logger.Warn("orphan sweep not scheduled", zap.String("ref", ref), zap.Error(qerr))
			}
		}
	}
}

// reserve claims key for this request. When another request holds it, the
// finished configuration is returned or CONFLICT while it is still pending.
// Cache failures leave the request unguarded rather than failing it.
func (s *ConfigurationService) reserve(ctx context.Context, organization, key string) (*models.Configuration, bool, error) {
	if key == "" || s.cache == nil || !s.cache.Enabled() {
		return nil, false, nil
	}
	cacheKey := IdempotencyKey(organization, key)
	claimed, err := s.cache.SetIfAbsent(ctx, cacheKey, pendingConfiguration, s.cfg.IdempotencyTTL)
	if err != nil {
		return nil, false, nil
	}
	if claimed {
		return nil, true, nil
	}

	var id int64
	hit, err := s.cache.Get(ctx, cacheKey, &id)
	if err != nil || !hit {
		return nil, false, nil
	}
	if id == pendingConfiguration {
		return nil, false, appErrors.Clone(appErrors.ErrConflict, "a request with this idempotency key is in progress")
	}
	cfg, err := s.find(ctx, id, organization)
	if err != nil {
		s.logger.Warn("idempotent replay target unavailable", zap.Int64("configuration_id", id), zap.Error(err))
		return nil, false, nil
	}
	s.metrics.RecordIdempotentReplay()
	return cfg, false, nil
}

func (s *ConfigurationService) settle(ctx context.Context, organization, key string, id int64) {
	cacheKey := IdempotencyKey(organization, key)
	if err := s.cache.Set(context.WithoutCancel(ctx), cacheKey, id, s.cfg.IdempotencyTTL); err != nil {
		s.release(ctx, organization, key)
	}
}

// release frees a reservation so the client can retry with the same key.
func (s *ConfigurationService) release(ctx context.Context, organization, key string) {
	if err := s.cache.Invalidate(context.WithoutCancel(ctx), IdempotencyKey(organization, key)); err != nil {
		s.logger.Warn("idempotency key left reserved until expiry", zap.String("organization", organization), zap.String("key", key))
	}
}
