package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/cardshop/hotspot-api/internal/models"
)

// OrganizationRepository reads organizations.
type OrganizationRepository struct {
	db *sqlx.DB
}

// NewOrganizationRepository constructs an OrganizationRepository.
func NewOrganizationRepository(db *sqlx.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

// FindBySlug fetches an organization. Missing rows yield sql.ErrNoRows.
func (r *OrganizationRepository) FindBySlug(ctx context.Context, slug string) (*models.Organization, error) {
	const query = `SELECT slug, name, channel, email, units FROM organizations WHERE slug = $1`
	var org models.Organization
	if err := r.db.GetContext(ctx, &org, query, slug); err != nil {
		return nil, err
	}
	return &org, nil
}
