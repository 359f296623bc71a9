package dto

import (
	"time"

	"github.com/cardshop/hotspot-api/internal/models"
	"github.com/cardshop/hotspot-api/pkg/storage"
)

// ConfigurationSummary is one row of the configuration listing.
type ConfigurationSummary struct {
	ID          int64     `json:"id"`
	DisplayName string    `json:"display_name"`
	ProjectName string    `json:"project_name"`
	Language    string    `json:"language"`
	UpdatedOn   time.Time `json:"updated_on"`
}

// ConfigurationDetail is a stored configuration with its freshly derived sizing.
type ConfigurationDetail struct {
	models.Configuration
	DisplayName        string            `json:"display_name"`
	WifiProtected      bool              `json:"wifi_protected"`
	KaliteLanguages    []string          `json:"kalite_languages"`
	WikifundiLanguages []string          `json:"wikifundi_languages"`
	Collection         models.Collection `json:"collection"`
	RequiredSize       int64             `json:"required_size"`
	MinMedia           *MediaResponse    `json:"min_media"`
	MinUnits           *float64          `json:"min_units"`
}

// ConfigurationExport is the build payload of a configuration. Field order is part of the contract.
type ConfigurationExport struct {
	ProjectName  string             `json:"project_name"`
	Language     string             `json:"language"`
	Timezone     string             `json:"timezone"`
	WifiPassword *string            `json:"wifi_password"`
	AdminAccount AdminAccountExport `json:"admin_account"`
	Size         string             `json:"size"`
	Content      ContentExport      `json:"content"`
	Branding     BrandingExport     `json:"branding"`
}

// AdminAccountExport holds the hotspot administrator credentials.
type AdminAccountExport struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// ContentExport lists the selected content.
type ContentExport struct {
	Zims           []string `json:"zims"`
	Kalite         []string `json:"kalite"`
	Wikifundi      []string `json:"wikifundi"`
	Aflatoun       bool     `json:"aflatoun"`
	Edupi          bool     `json:"edupi"`
	EdupiResources *string  `json:"edupi_resources"`
}

// BrandingExport embeds each branding asset, or null when unset.
type BrandingExport struct {
	Logo    *storage.BrandingFile `json:"logo"`
	Favicon *storage.BrandingFile `json:"favicon"`
	CSS     *storage.BrandingFile `json:"css"`
}

// Set assigns the file for kind.
func (b *BrandingExport) Set(kind models.BrandingKind, file *storage.BrandingFile) {
	switch kind {
	case models.BrandingLogo:
		b.Logo = file
	case models.BrandingFavicon:
		b.Favicon = file
	case models.BrandingCSS:
		b.CSS = file
	}
}

// BrandingURLResponse is a time-limited download link for a branding asset.
type BrandingURLResponse struct {
	URL       string    `json:"url"`
	Filename  string    `json:"filename"`
	ExpiresAt time.Time `json:"expires_at"`
}

// BrandingDownload is a resolved branding asset ready to stream.
type BrandingDownload struct {
	Filename    string
	ContentType string
	Data        []byte
}
