package service

import (
	"encoding/json"
	"mime"
	"path"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"

	"github.com/cardshop/hotspot-api/internal/models"
	"github.com/cardshop/hotspot-api/pkg/lookup"
	"github.com/cardshop/hotspot-api/pkg/storage"
)

// ConfigurationDefaults are the values a rejected or missing field falls back to.
type ConfigurationDefaults struct {
	ProjectName   string
	Language      string
	Timezone      string
	AdminAccount  string
	AdminPassword string
}

var builtinConfigurationDefaults = ConfigurationDefaults{
	ProjectName:   "Kiwix Hotspot",
	Language:      "en",
	Timezone:      "Europe/Paris",
	AdminAccount:  "admin",
	AdminPassword: "admin-password",
}

// Per-field rules. A violation resets the field to its default.
const (
	ruleProjectName    = "required,max=100"
	ruleName           = "max=100"
	ruleWifiPassword   = "max=100"
	ruleAdminAccount   = "required,max=50"
	ruleAdminPassword  = "required,max=50"
	ruleEdupiResources = "max=500"
	ruleBrandingName   = "required,branding_fname"
)

// maxBrandingNameBytes keeps "<uuid>_<name>" within filesystem and column limits.
const maxBrandingNameBytes = 200

var brandingMediaTypes = map[models.BrandingKind][]string{
	models.BrandingLogo:    {"image/png"},
	models.BrandingFavicon: {"image/x-icon", "image/png"},
	models.BrandingCSS:     {"text/css", "text/plain"},
}

var extensionMediaTypes = map[string]string{
	".png":  "image/png",
	".ico":  "image/x-icon",
	".css":  "text/css",
	".txt":  "text/plain",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
}

// brandingUpload is a branding entry that passed its checks and awaits storage.
type brandingUpload struct {
	Kind     models.BrandingKind
	Fname    string
	Data     string
	MimeType string
}

type rawBrandingEntry struct {
	Fname    string `mapstructure:"fname"`
	Data     string `mapstructure:"data"`
	Type     string `mapstructure:"type"`
	Mimetype string `mapstructure:"mimetype"`
}

// ConfigurationSanitizer turns an untrusted nested payload into a configuration,
// validating field by field and falling back to defaults instead of failing.
type ConfigurationSanitizer struct {
	languages lookup.Enumeration
	timezones lookup.Enumeration
	validate  *validator.Validate
	defaults  ConfigurationDefaults
}

// NewConfigurationSanitizer constructs a sanitizer. Empty default overrides are ignored.
func NewConfigurationSanitizer(languages, timezones lookup.Enumeration, validate *validator.Validate, overrides ConfigurationDefaults) *ConfigurationSanitizer {
	if validate == nil {
		validate = validator.New()
	}
	validate.RegisterValidation("branding_fname", func(fl validator.FieldLevel) bool {
		return validBrandingName(fl.Field().String())
	})
	defaults := builtinConfigurationDefaults
	if overrides.ProjectName != "" {
		defaults.ProjectName = overrides.ProjectName
	}
	if overrides.Language != "" && languages.Contains(overrides.Language) {
		defaults.Language = overrides.Language
	}
	if overrides.Timezone != "" && timezones.Contains(overrides.Timezone) {
		defaults.Timezone = overrides.Timezone
	}
	if overrides.AdminAccount != "" {
		defaults.AdminAccount = overrides.AdminAccount
	}
	if overrides.AdminPassword != "" {
		defaults.AdminPassword = overrides.AdminPassword
	}
	return &ConfigurationSanitizer{languages: languages, timezones: timezones, validate: validate, defaults: defaults}
}

// Sanitize builds the configuration for organization from raw. packageIDs is the
// current catalog. It never fails: invalid fields take their default and invalid
// branding entries are dropped. Branding is returned separately for storage.
func (s *ConfigurationSanitizer) Sanitize(raw interface{}, organization string, packageIDs []string) (*models.Configuration, []brandingUpload) {
	cfg := &models.Configuration{
		Organization:  organization,
		Name:          s.optionalString(nestedKey(raw, "name"), ruleName),
		ProjectName:   s.stringOr(nestedKey(raw, "project_name"), ruleProjectName, s.defaults.ProjectName),
		Language:      stringIn(nestedKey(raw, "language"), s.languages, s.defaults.Language),
		Timezone:      stringIn(nestedKey(raw, "timezone"), s.timezones, s.defaults.Timezone),
		AdminAccount:  s.stringOr(nestedKey(raw, "admin_account", "login"), ruleAdminAccount, s.defaults.AdminAccount),
		AdminPassword: s.stringOr(nestedKey(raw, "admin_account", "password"), ruleAdminPassword, s.defaults.AdminPassword),
		ContentZims:   models.PackageList(listMatching(nestedKey(raw, "content", "zims"), packageIDs)),

		ContentAflatoun:       truthy(nestedKey(raw, "content", "aflatoun")),
		ContentEdupi:          truthy(nestedKey(raw, "content", "edupi")),
		ContentEdupiResources: s.optionalString(nestedKey(raw, "content", "edupi_resources"), ruleEdupiResources),
	}
	cfg.SetKaliteLanguages(listMatching(nestedKey(raw, "content", "kalite"), models.KaliteLanguageCodes))
	cfg.SetWikifundiLanguages(listMatching(nestedKey(raw, "content", "wikifundi"), models.WikifundiLanguageCodes))

	if truthy(nestedKey(raw, "wifi", "protected")) {
		cfg.WifiPassword = s.optionalString(nestedKey(raw, "wifi", "password"), ruleWifiPassword)
	}

	var uploads []brandingUpload
	for _, kind := range models.BrandingKinds {
		if upload, ok := s.extractBranding(raw, kind); ok {
			uploads = append(uploads, upload)
		}
	}
	return cfg, uploads
}

// stringOr accepts value when it is a string satisfying rule.
func (s *ConfigurationSanitizer) stringOr(value interface{}, rule, fallback string) string {
	str, ok := value.(string)
	if !ok || s.validate.Var(str, rule) != nil {
		return fallback
	}
	return str
}

// optionalString is stringOr for nullable fields: empty or rejected values become nil.
func (s *ConfigurationSanitizer) optionalString(value interface{}, rule string) *string {
	str, ok := value.(string)
	if !ok || str == "" || s.validate.Var(str, rule) != nil {
		return nil
	}
	return &str
}

func stringIn(value interface{}, allowed lookup.Enumeration, fallback string) string {
	if str, ok := value.(string); ok && allowed.Contains(str) {
		return str
	}
	return fallback
}

// nestedKey walks object keys; any non-object along the path yields nil.
func nestedKey(raw interface{}, keys ...string) interface{} {
	current := raw
	for _, key := range keys {
		obj, ok := current.(map[string]interface{})
		if !ok {
			return nil
		}
		current = obj[key]
	}
	return current
}

// listMatching keeps the allowed values present in value, in allowed order.
// Anything but a list yields an empty result.
func listMatching(value interface{}, allowed []string) []string {
	requested := map[string]struct{}{}
	switch items := value.(type) {
	case []interface{}:
		for _, item := range items {
			if str, ok := item.(string); ok {
				requested[str] = struct{}{}
			}
		}
	case []string:
		for _, item := range items {
			requested[item] = struct{}{}
		}
	default:
		return []string{}
	}
	out := make([]string, 0, len(requested))
	seen := make(map[string]struct{}, len(requested))
	for _, candidate := range allowed {
		if _, ok := requested[candidate]; !ok {
			continue
		}
		if _, dup := seen[candidate]; dup {
			continue
		}
		seen[candidate] = struct{}{}
		out = append(out, candidate)
	}
	return out
}

// truthy follows JSON-ish truthiness: false, zero, empty and null are false.
func truthy(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case json.Number:
		f, err := v.Float64()
		return err != nil || f != 0
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	case reflect.Ptr, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}

// extractBranding returns the entry for kind when every part of it is usable.
func (s *ConfigurationSanitizer) extractBranding(raw interface{}, kind models.BrandingKind) (brandingUpload, bool) {
	entry, ok := nestedKey(raw, "branding", string(kind)).(map[string]interface{})
	if !ok {
		return brandingUpload{}, false
	}
	var decoded rawBrandingEntry
	if err := mapstructure.Decode(entry, &decoded); err != nil {
		return brandingUpload{}, false
	}
	if strings.TrimSpace(decoded.Fname) == "" || decoded.Data == "" {
		return brandingUpload{}, false
	}
	fname := storage.CleanName(decoded.Fname)
	if s.validate.Var(fname, ruleBrandingName) != nil {
		return brandingUpload{}, false
	}
	mediaType := declaredMediaType(decoded)
	if !containsString(brandingMediaTypes[kind], mediaType) {
		return brandingUpload{}, false
	}
	if _, err := storage.DecodeBase64(decoded.Data); err != nil {
		return brandingUpload{}, false
	}
	return brandingUpload{Kind: kind, Fname: fname, Data: decoded.Data, MimeType: mediaType}, true
}

func validBrandingName(name string) bool {
	if len(name) > maxBrandingNameBytes || !utf8.ValidString(name) {
		return false
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

// declaredMediaType prefers the entry's declared type and falls back to the file extension.
func declaredMediaType(entry rawBrandingEntry) string {
	declared := entry.Type
	if declared == "" {
		declared = entry.Mimetype
	}
	if declared != "" {
		if parsed, _, err := mime.ParseMediaType(declared); err == nil {
			return parsed
		}
		return strings.ToLower(strings.TrimSpace(declared))
	}
	return mediaTypeForName(entry.Fname)
}

func mediaTypeForName(name string) string {
	return extensionMediaTypes[strings.ToLower(path.Ext(name))]
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
