package dto

import "github.com/cardshop/hotspot-api/internal/models"

// MediaResponse exposes a media tier with its derived values.
type MediaResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Kind        string  `json:"kind"`
	VerboseKind string  `json:"verbose_kind"`
	Size        int     `json:"size"`
	Bytes       int64   `json:"bytes"`
	Human       string  `json:"human"`
	UnitsCoef   float64 `json:"units_coef"`
	Units       float64 `json:"units"`
}

// NewMediaResponse maps a tier to its response shape.
func NewMediaResponse(m models.Media) MediaResponse {
	return MediaResponse{
		ID:          m.ID,
		Name:        m.Name,
		Kind:        m.Kind,
		VerboseKind: m.VerboseKind(),
		Size:        m.Size,
		Bytes:       m.Bytes(),
		Human:       m.Human(),
		UnitsCoef:   m.UnitsCoef,
		Units:       m.Units(),
	}
}

// MinimalMediaResponse answers a tier selection for a byte requirement.
type MinimalMediaResponse struct {
	RequiredBytes int64         `json:"required_bytes"`
	RequiredGB    int64         `json:"required_gb"`
	Media         MediaResponse `json:"media"`
}
