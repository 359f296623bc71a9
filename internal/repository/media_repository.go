package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/cardshop/hotspot-api/internal/models"
)

// MediaRepository reads the administrator-managed media tiers.
type MediaRepository struct {
	db *sqlx.DB
}

// NewMediaRepository constructs a MediaRepository.
func NewMediaRepository(db *sqlx.DB) *MediaRepository {
	return &MediaRepository{db: db}
}

// List returns every tier by ascending capacity.
func (r *MediaRepository) List(ctx context.Context) ([]models.Media, error) {
	const query = `SELECT id, name, kind, size, units_coef FROM media ORDER BY size ASC, id ASC`
	media := []models.Media{}
	if err := r.db.SelectContext(ctx, &media, query); err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	return media, nil
}

// FindByID fetches a single tier. Missing rows yield sql.ErrNoRows.
func (r *MediaRepository) FindByID(ctx context.Context, id int64) (*models.Media, error) {
	const query = `SELECT id, name, kind, size, units_coef FROM media WHERE id = $1`
	var media models.Media
	if err := r.db.GetContext(ctx, &media, query, id); err != nil {
		return nil, err
	}
	return &media, nil
}
