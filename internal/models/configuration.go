package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Platform language allow-lists, in canonical order.
var (
	KaliteLanguageCodes    = []string{"en", "fr", "es"}
	WikifundiLanguageCodes = []string{"en", "fr"}
	AflatounLanguageCodes  = []string{"fr", "en"}
)

// BrandingKind names one of the three branding slots of a configuration.
type BrandingKind string

const (
	BrandingLogo    BrandingKind = "logo"
	BrandingFavicon BrandingKind = "favicon"
	BrandingCSS     BrandingKind = "css"
)

// BrandingKinds lists the slots in export order.
var BrandingKinds = []BrandingKind{BrandingLogo, BrandingFavicon, BrandingCSS}

// PackageList is a JSON array column of package ids.
type PackageList []string

// Value implements driver.Valuer.
func (p PackageList) Value() (driver.Value, error) {
	if p == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(p))
}

// Scan implements sql.Scanner. NULL and empty values scan to an empty list.
func (p *PackageList) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*p = PackageList{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan package list: unsupported type %T", src)
	}
	if len(raw) == 0 || string(raw) == `""` || string(raw) == "null" {
		*p = PackageList{}
		return nil
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return fmt.Errorf("scan package list: %w", err)
	}
	*p = ids
	return nil
}

// Configuration is the persisted description of one hotspot.
type Configuration struct {
	ID                    int64       `db:"id" json:"id"`
	Organization          string      `db:"organization" json:"organization"`
	UpdatedOn             time.Time   `db:"updated_on" json:"updated_on"`
	Name                  *string     `db:"name" json:"name"`
	ProjectName           string      `db:"project_name" json:"project_name"`
	Language              string      `db:"language" json:"language"`
	Timezone              string      `db:"timezone" json:"timezone"`
	WifiPassword          *string     `db:"wifi_password" json:"wifi_password"`
	AdminAccount          string      `db:"admin_account" json:"admin_account"`
	AdminPassword         string      `db:"admin_password" json:"admin_password"`
	BrandingLogo          *string     `db:"branding_logo" json:"branding_logo"`
	BrandingFavicon       *string     `db:"branding_favicon" json:"branding_favicon"`
	BrandingCSS           *string     `db:"branding_css" json:"branding_css"`
	ContentZims           PackageList `db:"content_zims" json:"content_zims"`
	ContentKaliteFr       bool        `db:"content_kalite_fr" json:"content_kalite_fr"`
	ContentKaliteEn       bool        `db:"content_kalite_en" json:"content_kalite_en"`
	ContentKaliteEs       bool        `db:"content_kalite_es" json:"content_kalite_es"`
	ContentWikifundiFr    bool        `db:"content_wikifundi_fr" json:"content_wikifundi_fr"`
	ContentWikifundiEn    bool        `db:"content_wikifundi_en" json:"content_wikifundi_en"`
	ContentAflatoun       bool        `db:"content_aflatoun" json:"content_aflatoun"`
	ContentEdupi          bool        `db:"content_edupi" json:"content_edupi"`
	ContentEdupiResources *string     `db:"content_edupi_resources" json:"content_edupi_resources"`
}

// WifiProtected reports whether the hotspot WiFi requires a password.
func (c *Configuration) WifiProtected() bool {
	return c.WifiPassword != nil && *c.WifiPassword != ""
}

// DisplayName falls back to the project name when no internal name is set.
func (c *Configuration) DisplayName() string {
	if c.Name != nil && *c.Name != "" {
		return *c.Name
	}
	return c.ProjectName
}

// KaliteLanguages returns the enabled KA-Lite languages in canonical order.
func (c *Configuration) KaliteLanguages() []string {
	enabled := map[string]bool{"en": c.ContentKaliteEn, "fr": c.ContentKaliteFr, "es": c.ContentKaliteEs}
	return pick(KaliteLanguageCodes, enabled)
}

// WikifundiLanguages returns the enabled WikiFundi languages in canonical order.
func (c *Configuration) WikifundiLanguages() []string {
	enabled := map[string]bool{"en": c.ContentWikifundiEn, "fr": c.ContentWikifundiFr}
	return pick(WikifundiLanguageCodes, enabled)
}

// SetKaliteLanguages toggles the KA-Lite flags from a language list.
func (c *Configuration) SetKaliteLanguages(langs []string) {
	set := toSet(langs)
	c.ContentKaliteEn, c.ContentKaliteFr, c.ContentKaliteEs = set["en"], set["fr"], set["es"]
}

// SetWikifundiLanguages toggles the WikiFundi flags from a language list.
func (c *Configuration) SetWikifundiLanguages(langs []string) {
	set := toSet(langs)
	c.ContentWikifundiEn, c.ContentWikifundiFr = set["en"], set["fr"]
}

// Branding returns the asset reference stored for kind.
func (c *Configuration) Branding(kind BrandingKind) *string {
	switch kind {
	case BrandingLogo:
		return c.BrandingLogo
	case BrandingFavicon:
		return c.BrandingFavicon
	case BrandingCSS:
		return c.BrandingCSS
	}
	return nil
}

// SetBranding stores ref in the slot for kind.
func (c *Configuration) SetBranding(kind BrandingKind, ref *string) {
	switch kind {
	case BrandingLogo:
		c.BrandingLogo = ref
	case BrandingFavicon:
		c.BrandingFavicon = ref
	case BrandingCSS:
		c.BrandingCSS = ref
	}
}

func pick(order []string, enabled map[string]bool) []string {
	out := make([]string, 0, len(order))
	for _, lang := range order {
		if enabled[lang] {
			out = append(out, lang)
		}
	}
	return out
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
