package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/cardshop/hotspot-api/internal/models"
)

const configurationColumns = `id, organization, updated_on, name, project_name, language, timezone,
wifi_password, admin_account, admin_password, branding_logo, branding_favicon, branding_css,
content_zims, content_kalite_fr, content_kalite_en, content_kalite_es, content_wikifundi_fr,
content_wikifundi_en, content_aflatoun, content_edupi, content_edupi_resources`

// ConfigurationRepository persists hotspot configurations.
type ConfigurationRepository struct {
	db *sqlx.DB
}

// NewConfigurationRepository constructs the repository.
func NewConfigurationRepository(db *sqlx.DB) *ConfigurationRepository {
	return &ConfigurationRepository{db: db}
}

// Create inserts cfg inside its own transaction and fills the generated id and timestamp.
func (r *ConfigurationRepository) Create(ctx context.Context, cfg *models.Configuration) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin configuration tx: %w", err)
	}
	const query = `INSERT INTO configurations (organization, name, project_name, language, timezone,
wifi_password, admin_account, admin_password, branding_logo, branding_favicon, branding_css,
content_zims, content_kalite_fr, content_kalite_en, content_kalite_es, content_wikifundi_fr,
content_wikifundi_en, content_aflatoun, content_edupi, content_edupi_resources, updated_on)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, NOW())
RETURNING id, updated_on`
	row := tx.QueryRowxContext(ctx, query,
		cfg.Organization, cfg.Name, cfg.ProjectName, cfg.Language, cfg.Timezone,
		cfg.WifiPassword, cfg.AdminAccount, cfg.AdminPassword, cfg.BrandingLogo, cfg.BrandingFavicon, cfg.BrandingCSS,
		cfg.ContentZims, cfg.ContentKaliteFr, cfg.ContentKaliteEn, cfg.ContentKaliteEs, cfg.ContentWikifundiFr,
		cfg.ContentWikifundiEn, cfg.ContentAflatoun, cfg.ContentEdupi, cfg.ContentEdupiResources,
	)
	if err := row.Scan(&cfg.ID, &cfg.UpdatedOn); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("insert configuration: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit configuration tx: %w", err)
	}
	return nil
}

// FindByID fetches a configuration. Missing rows yield sql.ErrNoRows.
func (r *ConfigurationRepository) FindByID(ctx context.Context, id int64) (*models.Configuration, error) {
	query := fmt.Sprintf("SELECT %s FROM configurations WHERE id = $1", configurationColumns)
	var cfg models.Configuration
	if err := r.db.GetContext(ctx, &cfg, query, id); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ListByOrganization returns the newest configurations first along with the total count.
func (r *ConfigurationRepository) ListByOrganization(ctx context.Context, filter models.ConfigurationFilter) ([]models.Configuration, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM configurations WHERE organization = $1", filter.Organization); err != nil {
		return nil, 0, fmt.Errorf("count configurations: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM configurations WHERE organization = $1 ORDER BY id DESC", configurationColumns)
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = fmt.Sprintf("%s LIMIT %d OFFSET %d", query, filter.PageSize, (page-1)*filter.PageSize)
	}

	configs := []models.Configuration{}
	if err := r.db.SelectContext(ctx, &configs, query, filter.Organization); err != nil {
		return nil, 0, fmt.Errorf("list configurations: %w", err)
	}
	return configs, total, nil
}
