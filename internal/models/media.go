package models

import "fmt"

// OneGB is the byte size of a media gigabyte.
const OneGB int64 = 1 << 30

// MediaKindRegular is the only media kind offered today.
const MediaKindRegular = "regular"

var mediaKindNames = map[string]string{MediaKindRegular: "Regular"}

// Media is a storage tier a hotspot image can be written to.
type Media struct {
	ID        int64   `db:"id" json:"id"`
	Name      string  `db:"name" json:"name"`
	Kind      string  `db:"kind" json:"kind"`
	Size      int     `db:"size" json:"size"`
	UnitsCoef float64 `db:"units_coef" json:"units_coef"`
}

// Bytes is the nominal capacity in bytes.
func (m Media) Bytes() int64 {
	return int64(m.Size) * OneGB
}

// Human renders the capacity, e.g. "16GB".
func (m Media) Human() string {
	return fmt.Sprintf("%dGB", m.Size)
}

// Units is the cost of the tier.
func (m Media) Units() float64 {
	return float64(m.Size) * m.UnitsCoef
}

// VerboseKind is the display label of the kind.
func (m Media) VerboseKind() string {
	if name, ok := mediaKindNames[m.Kind]; ok {
		return name
	}
	return m.Kind
}
