package service

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardshop/hotspot-api/internal/models"
	appErrors "github.com/cardshop/hotspot-api/pkg/errors"
	"github.com/cardshop/hotspot-api/pkg/storage"
)

type configurationRepoStub struct {
	items     map[int64]models.Configuration
	createErr error
	nextID    int64
	creates   int
}

func (s *configurationRepoStub) Create(ctx context.Context, cfg *models.Configuration) error {
	s.creates++
	if s.createErr != nil {
		return s.createErr
	}
	if s.items == nil {
		s.items = map[int64]models.Configuration{}
	}
	s.nextID++
	cfg.ID = s.nextID
	cfg.UpdatedOn = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s.items[cfg.ID] = *cfg
	return nil
}

func (s *configurationRepoStub) FindByID(ctx context.Context, id int64) (*models.Configuration, error) {
	if cfg, ok := s.items[id]; ok {
		return &cfg, nil
	}
	return nil, sql.ErrNoRows
}

func (s *configurationRepoStub) ListByOrganization(ctx context.Context, filter models.ConfigurationFilter) ([]models.Configuration, int, error) {
	var out []models.Configuration
	for id := s.nextID; id > 0; id-- {
		if cfg, ok := s.items[id]; ok && cfg.Organization == filter.Organization {
			out = append(out, cfg)
		}
	}
	return out, len(out), nil
}

type organizationStub struct {
	slugs map[string]bool
}

func (s *organizationStub) FindBySlug(ctx context.Context, slug string) (*models.Organization, error) {
	if s.slugs[slug] {
		return &models.Organization{Slug: slug, Name: slug}, nil
	}
	return nil, sql.ErrNoRows
}

type catalogStub struct {
	ids   []string
	err   error
	calls int
}

func (s *catalogStub) PackageIDs(ctx context.Context) ([]string, error) {
	s.calls++
	return s.ids, s.err
}

// assetStoreStub wraps a real store and can fail the nth save or every delete.
type assetStoreStub struct {
	inner      *storage.BrandingStore
	failOnSave int
	deleteErr  error
	saves      int
	saved      []string
	deleted    []string
}

func (s *assetStoreStub) Save(name, payload string) (string, error) {
	s.saves++
	if s.failOnSave == s.saves {
		return "", errors.New("disk full")
	}
	ref, err := s.inner.Save(name, payload)
	if err == nil {
		s.saved = append(s.saved, ref)
	}
	return ref, err
}

func (s *assetStoreStub) Load(ref string) (*storage.BrandingFile, error) {
	return s.inner.Load(ref)
}

func (s *assetStoreStub) Delete(ref string) error {
	s.deleted = append(s.deleted, ref)
	if s.deleteErr != nil {
		return s.deleteErr
	}
	return s.inner.Delete(ref)
}

type orphanSweeperStub struct {
	refs []string
}

func (s *orphanSweeperStub) Enqueue(ref string) error {
	s.refs = append(s.refs, ref)
	return nil
}

type sizerStub struct {
	size int64
	err  error
}

func (s *sizerStub) RequiredSize(ctx context.Context, collection models.Collection) (int64, error) {
	return s.size, s.err
}

type mediaSelectorStub struct {
	tiers []models.Media
}

func (s *mediaSelectorStub) MinimalFor(ctx context.Context, requiredBytes int64) (*models.Media, error) {
	return MinimalTierFor(s.tiers, requiredBytes)
}

type idempotencyCacheStub struct {
	values      map[string]int64
	invalidated []string
}

func (s *idempotencyCacheStub) Enabled() bool { return true }

func (s *idempotencyCacheStub) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	id, ok := s.values[key]
	if !ok {
		return false, nil
	}
	*dest.(*int64) = id
	return true, nil
}

func (s *idempotencyCacheStub) SetIfAbsent(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error) {
	if _, ok := s.values[key]; ok {
		return false, nil
	}
	s.values[key] = value.(int64)
	return true, nil
}

func (s *idempotencyCacheStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	s.values[key] = value.(int64)
	return nil
}

func (s *idempotencyCacheStub) Invalidate(ctx context.Context, key string) error {
	s.invalidated = append(s.invalidated, key)
	delete(s.values, key)
	return nil
}

type configurationFixture struct {
	svc     *ConfigurationService
	repo    *configurationRepoStub
	catalog *catalogStub
	assets  *assetStoreStub
	sizer   *sizerStub
	metrics *MetricsService
	cache   *idempotencyCacheStub
	orphans *orphanSweeperStub
}

func newConfigurationFixture(t *testing.T) *configurationFixture {
	t.Helper()
	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	f := &configurationFixture{
		repo:    &configurationRepoStub{},
		catalog: &catalogStub{ids: []string{"wikipedia", "gutenberg"}},
		assets:  &assetStoreStub{inner: storage.NewBrandingStore(files)},
		sizer:   &sizerStub{size: 3 * models.OneGB},
		metrics: NewMetricsService(),
		cache:   &idempotencyCacheStub{values: map[string]int64{}},
		orphans: &orphanSweeperStub{},
	}
	f.svc = NewConfigurationService(ConfigurationServiceDeps{
		Repo:          f.repo,
		Organizations: &organizationStub{slugs: map[string]bool{"kiwix": true, "other": true}},
		Catalog:       f.catalog,
		Sanitizer:     newTestSanitizer(),
		Assets:        f.assets,
		Sizer:         f.sizer,
		Media:         &mediaSelectorStub{tiers: []models.Media{tier(1, 4), tier(2, 8)}},
		Cache:         f.cache,
		Orphans:       f.orphans,
		Metrics:       f.metrics,
	}, nil, ConfigurationServiceConfig{IdempotencyTTL: time.Hour})
	return f
}

func brandedPayload() map[string]interface{} {
	return map[string]interface{}{
		"project_name": "School hotspot",
		"wifi":         map[string]interface{}{"protected": true, "password": "letmein"},
		"content":      map[string]interface{}{"zims": []interface{}{"gutenberg", "wikipedia"}, "kalite": []interface{}{"fr"}},
		"branding": map[string]interface{}{
			"logo": map[string]interface{}{"fname": "logo.png", "data": pngData},
			"css":  map[string]interface{}{"fname": "style.css", "data": base64.StdEncoding.EncodeToString([]byte("body{}"))},
		},
	}
}

func TestConfigurationServiceCreateFromStoresBranding(t *testing.T) {
	f := newConfigurationFixture(t)

	cfg, replayed, err := f.svc.CreateFrom(context.Background(), brandedPayload(), "kiwix", "")
	require.NoError(t, err)
	assert.False(t, replayed)
	assert.Equal(t, int64(1), cfg.ID)
	assert.Equal(t, "School hotspot", cfg.ProjectName)
	assert.Equal(t, models.PackageList{"wikipedia", "gutenberg"}, cfg.ContentZims)
	require.NotNil(t, cfg.BrandingLogo)
	require.NotNil(t, cfg.BrandingCSS)
	assert.Nil(t, cfg.BrandingFavicon)
	assert.Equal(t, f.assets.saved, []string{*cfg.BrandingLogo, *cfg.BrandingCSS})
	assert.Equal(t, 1, f.catalog.calls)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.configurationCreated))
}

func TestConfigurationServiceCreateFromDropsUnstorableBrandingName(t *testing.T) {
	for _, fname := range []string{strings.Repeat("a", 240) + ".png", "lo\x00go.png"} {
		f := newConfigurationFixture(t)
		payload := brandedPayload()
		payload["branding"].(map[string]interface{})["logo"] = map[string]interface{}{"fname": fname, "data": pngData}

		cfg, _, err := f.svc.CreateFrom(context.Background(), payload, "kiwix", "")
		require.NoError(t, err, "%q", fname)
		assert.Nil(t, cfg.BrandingLogo)
		require.NotNil(t, cfg.BrandingCSS)
		assert.Len(t, f.assets.saved, 1)
		assert.Equal(t, 1, f.repo.creates)
	}
}

func TestConfigurationServiceCreateFromUnknownOrganization(t *testing.T) {
	f := newConfigurationFixture(t)

	_, _, err := f.svc.CreateFrom(context.Background(), brandedPayload(), "nobody", "")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	assert.Zero(t, f.catalog.calls)
	assert.Empty(t, f.assets.saved)
}

func TestConfigurationServiceCreateFromCatalogFailureWritesNothing(t *testing.T) {
	f := newConfigurationFixture(t)
	boom := errors.New("catalog unreachable")
	f.catalog.err = boom

	_, _, err := f.svc.CreateFrom(context.Background(), brandedPayload(), "kiwix", "")
	require.ErrorIs(t, err, boom)
	assert.Zero(t, f.assets.saves)
	assert.Zero(t, f.repo.creates)
}

func TestConfigurationServiceCreateFromInsertFailureCleansUp(t *testing.T) {
	f := newConfigurationFixture(t)
	insertErr := errors.New("unique violation")
	f.repo.createErr = insertErr

	_, _, err := f.svc.CreateFrom(context.Background(), brandedPayload(), "kiwix", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrPersistence))
	assert.ErrorIs(t, err, insertErr)
	assert.ElementsMatch(t, f.assets.saved, f.assets.deleted)
	for _, ref := range f.assets.saved {
		_, loadErr := f.assets.Load(ref)
		assert.ErrorIs(t, loadErr, storage.ErrAssetNotFound)
	}
	assert.Zero(t, testutil.ToFloat64(f.metrics.cleanupFailures))
	assert.Empty(t, f.orphans.refs)
}

func TestConfigurationServiceCreateFromAssetFailureCleansUpEarlierWrites(t *testing.T) {
	f := newConfigurationFixture(t)
	f.assets.failOnSave = 2
	f.assets.deleteErr = errors.New("permission denied")

	_, _, err := f.svc.CreateFrom(context.Background(), brandedPayload(), "kiwix", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrPersistence))
	assert.Len(t, f.assets.saved, 1)
	assert.Equal(t, f.assets.saved, f.assets.deleted)
	assert.Zero(t, f.repo.creates)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.cleanupFailures))
	assert.Equal(t, f.assets.saved, f.orphans.refs)
}

func TestConfigurationServiceCreateFromIdempotentReplay(t *testing.T) {
	f := newConfigurationFixture(t)

	first, replayed, err := f.svc.CreateFrom(context.Background(), brandedPayload(), "kiwix", "req-1")
	require.NoError(t, err)
	require.False(t, replayed)

	second, replayed, err := f.svc.CreateFrom(context.Background(), brandedPayload(), "kiwix", "req-1")
	require.NoError(t, err)
	assert.True(t, replayed)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, f.repo.creates)
	assert.Len(t, f.assets.saved, 2)

	// keys are scoped per organization
	third, replayed, err := f.svc.CreateFrom(context.Background(), brandedPayload(), "other", "req-1")
	require.NoError(t, err)
	assert.False(t, replayed)
	assert.NotEqual(t, first.ID, third.ID)
	assert.Equal(t, first.ID, f.cache.values[IdempotencyKey("kiwix", "req-1")])
}

func TestConfigurationServiceCreateFromKeyInFlight(t *testing.T) {
	f := newConfigurationFixture(t)
	f.cache.values[IdempotencyKey("kiwix", "req-1")] = pendingConfiguration

	_, replayed, err := f.svc.CreateFrom(context.Background(), brandedPayload(), "kiwix", "req-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrConflict))
	assert.False(t, replayed)
	assert.Zero(t, f.catalog.calls)
	assert.Zero(t, f.repo.creates)
	assert.Empty(t, f.assets.saved)
	assert.Empty(t, f.cache.invalidated)
}

func TestConfigurationServiceCreateFromFailureReleasesKey(t *testing.T) {
	f := newConfigurationFixture(t)
	f.repo.createErr = errors.New("unique violation")
	key := IdempotencyKey("kiwix", "req-1")

	_, _, err := f.svc.CreateFrom(context.Background(), brandedPayload(), "kiwix", "req-1")
	require.Error(t, err)
	assert.Equal(t, []string{key}, f.cache.invalidated)
	assert.NotContains(t, f.cache.values, key)

	f.repo.createErr = nil
	cfg, replayed, err := f.svc.CreateFrom(context.Background(), brandedPayload(), "kiwix", "req-1")
	require.NoError(t, err)
	assert.False(t, replayed)
	assert.Equal(t, cfg.ID, f.cache.values[key])
}

func TestConfigurationServiceGetDerivesSizing(t *testing.T) {
	f := newConfigurationFixture(t)
	created, _, err := f.svc.CreateFrom(context.Background(), brandedPayload(), "kiwix", "")
	require.NoError(t, err)

	detail, err := f.svc.Get(context.Background(), created.ID, "kiwix")
	require.NoError(t, err)
	assert.Equal(t, "School hotspot", detail.DisplayName)
	assert.True(t, detail.WifiProtected)
	assert.Equal(t, []string{"fr"}, detail.KaliteLanguages)
	assert.Equal(t, int64(3*models.OneGB), detail.RequiredSize)
	require.NotNil(t, detail.MinMedia)
	assert.Equal(t, 4, detail.MinMedia.Size)
	require.NotNil(t, detail.MinUnits)
	assert.Len(t, detail.Collection, 3)

	f.sizer.size = 100 * models.OneGB
	detail, err = f.svc.Get(context.Background(), created.ID, "kiwix")
	require.NoError(t, err)
	assert.Nil(t, detail.MinMedia)
	assert.Nil(t, detail.MinUnits)

	_, err = f.svc.Get(context.Background(), created.ID, "other")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	_, err = f.svc.Get(context.Background(), 999, "kiwix")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestConfigurationServiceExportRoundTripsBranding(t *testing.T) {
	f := newConfigurationFixture(t)
	created, _, err := f.svc.CreateFrom(context.Background(), brandedPayload(), "kiwix", "")
	require.NoError(t, err)

	payload, err := f.svc.Export(context.Background(), created.ID, "kiwix")
	require.NoError(t, err)
	assert.Equal(t, "4GB", payload.Size)
	require.NotNil(t, payload.WifiPassword)
	assert.Equal(t, "letmein", *payload.WifiPassword)
	assert.Equal(t, []string{"wikipedia", "gutenberg"}, payload.Content.Zims)
	assert.Equal(t, []string{"fr"}, payload.Content.Kalite)
	require.NotNil(t, payload.Branding.Logo)
	assert.Equal(t, "logo.png", payload.Branding.Logo.Fname)
	assert.Equal(t, pngData, payload.Branding.Logo.Data)
	require.NotNil(t, payload.Branding.CSS)
	assert.Equal(t, "style.css", payload.Branding.CSS.Fname)
	assert.Nil(t, payload.Branding.Favicon)
}

func TestConfigurationServiceExportFailures(t *testing.T) {
	f := newConfigurationFixture(t)
	created, _, err := f.svc.CreateFrom(context.Background(), brandedPayload(), "kiwix", "")
	require.NoError(t, err)

	f.sizer.size = 9 * models.OneGB
	_, err = f.svc.Export(context.Background(), created.ID, "kiwix")
	assert.True(t, errors.Is(err, appErrors.ErrNoSuitableMedia))

	f.sizer.size = models.OneGB
	require.NoError(t, f.assets.inner.Delete(*created.BrandingLogo))
	_, err = f.svc.Export(context.Background(), created.ID, "kiwix")
	assert.True(t, errors.Is(err, appErrors.ErrAssetCorruption))
}

func TestConfigurationServiceList(t *testing.T) {
	f := newConfigurationFixture(t)
	for i := 0; i < 3; i++ {
		raw := map[string]interface{}{"project_name": fmt.Sprintf("Hotspot %d", i)}
		_, _, err := f.svc.CreateFrom(context.Background(), raw, "kiwix", "")
		require.NoError(t, err)
	}
	_, _, err := f.svc.CreateFrom(context.Background(), nil, "other", "")
	require.NoError(t, err)

	items, pagination, err := f.svc.List(context.Background(), models.ConfigurationFilter{Organization: "kiwix"})
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Hotspot 2", items[0].DisplayName)
	assert.Equal(t, 3, pagination.TotalCount)
	assert.Equal(t, 1, pagination.Page)
}
