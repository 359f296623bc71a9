package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// OneGB is the byte size of one media gigabyte.
const OneGB int64 = 1 << 30

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database    DatabaseConfig
	Migrations  MigrationsConfig
	Redis       RedisConfig
	JWT         JWTConfig
	CORS        CORSConfig
	Log         LogConfig
	Branding    BrandingConfig
	Catalog     CatalogConfig
	Content     ContentConfig
	Idempotency IdempotencyConfig
	Defaults    HotspotDefaults
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// MigrationsConfig controls schema migrations at startup.
type MigrationsConfig struct {
	Run bool
	Dir string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// JWTConfig holds the shared secret used to verify tokens issued by the account service.
type JWTConfig struct {
	Secret string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// BrandingConfig controls where branding assets live and how download links are signed.
type BrandingConfig struct {
	StorageDir      string
	SignedURLSecret string
	SignedURLTTL    time.Duration
}

// CatalogConfig points at the package catalog service.
type CatalogConfig struct {
	URL     string
	Timeout time.Duration
}

// ContentConfig lists the on-disk footprint of every bundled platform, in bytes.
type ContentConfig struct {
	BaseImageSize  int64
	KaliteSizes    map[string]int64
	WikifundiSizes map[string]int64
	AflatounSize   int64
	EdupiSize      int64
}

// IdempotencyConfig toggles replay protection for configuration creation.
type IdempotencyConfig struct {
	Enabled bool
	TTL     time.Duration
}

// HotspotDefaults overrides the declared defaults of sanitized configurations.
type HotspotDefaults struct {
	ProjectName string
	Language    string
	Timezone    string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Migrations = MigrationsConfig{
		Run: v.GetBool("RUN_MIGRATIONS"),
		Dir: v.GetString("MIGRATIONS_DIR"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{Secret: v.GetString("JWT_SECRET")}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Branding = BrandingConfig{
		StorageDir:      v.GetString("BRANDING_STORAGE_DIR"),
		SignedURLSecret: v.GetString("BRANDING_SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("BRANDING_SIGNED_URL_TTL"), 15*time.Minute),
	}

	cfg.Catalog = CatalogConfig{
		URL:     strings.TrimRight(v.GetString("CATALOG_URL"), "/"),
		Timeout: parseDuration(v.GetString("CATALOG_TIMEOUT"), 10*time.Second),
	}

	cfg.Content = ContentConfig{
		BaseImageSize: v.GetInt64("CONTENT_BASE_SIZE"),
		KaliteSizes: map[string]int64{
			"en": v.GetInt64("CONTENT_KALITE_SIZE_EN"),
			"fr": v.GetInt64("CONTENT_KALITE_SIZE_FR"),
			"es": v.GetInt64("CONTENT_KALITE_SIZE_ES"),
		},
		WikifundiSizes: map[string]int64{
			"en": v.GetInt64("CONTENT_WIKIFUNDI_SIZE_EN"),
			"fr": v.GetInt64("CONTENT_WIKIFUNDI_SIZE_FR"),
		},
		AflatounSize: v.GetInt64("CONTENT_AFLATOUN_SIZE"),
		EdupiSize:    v.GetInt64("CONTENT_EDUPI_SIZE"),
	}

	cfg.Idempotency = IdempotencyConfig{
		Enabled: v.GetBool("ENABLE_IDEMPOTENCY"),
		TTL:     parseDuration(v.GetString("IDEMPOTENCY_TTL"), 24*time.Hour),
	}

	cfg.Defaults = HotspotDefaults{
		ProjectName: v.GetString("DEFAULT_PROJECT_NAME"),
		Language:    v.GetString("DEFAULT_LANGUAGE"),
		Timezone:    v.GetString("DEFAULT_TIMEZONE"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "cardshop")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("RUN_MIGRATIONS", false)
	v.SetDefault("MIGRATIONS_DIR", "./migrations")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("BRANDING_STORAGE_DIR", "./media")
	v.SetDefault("BRANDING_SIGNED_URL_SECRET", "dev_branding_secret")
	v.SetDefault("BRANDING_SIGNED_URL_TTL", "15m")

	v.SetDefault("CATALOG_URL", "http://localhost:8000/catalog")
	v.SetDefault("CATALOG_TIMEOUT", "10s")

	v.SetDefault("CONTENT_BASE_SIZE", 7*OneGB)
	v.SetDefault("CONTENT_KALITE_SIZE_EN", 41*OneGB)
	v.SetDefault("CONTENT_KALITE_SIZE_FR", 10*OneGB)
	v.SetDefault("CONTENT_KALITE_SIZE_ES", 20*OneGB)
	v.SetDefault("CONTENT_WIKIFUNDI_SIZE_EN", 700*(OneGB/1024))
	v.SetDefault("CONTENT_WIKIFUNDI_SIZE_FR", 700*(OneGB/1024))
	v.SetDefault("CONTENT_AFLATOUN_SIZE", 900*(OneGB/1024))
	v.SetDefault("CONTENT_EDUPI_SIZE", 25*(OneGB/1024))

	v.SetDefault("ENABLE_IDEMPOTENCY", false)
	v.SetDefault("IDEMPOTENCY_TTL", "24h")

	v.SetDefault("DEFAULT_PROJECT_NAME", "Kiwix Hotspot")
	v.SetDefault("DEFAULT_LANGUAGE", "en")
	v.SetDefault("DEFAULT_TIMEZONE", "Europe/Paris")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// viper reports a missing explicit config file as a plain fs error rather than ConfigFileNotFoundError.
func isMissingFile(err error) bool {
	return strings.Contains(err.Error(), "no such file or directory")
}
