package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const devJWTSecret = "dev-secret-only"

type Config struct {
	AppPort string `mapstructure:"APP_PORT"`
	LogMode string `mapstructure:"LOG_MODE"`

	DBDriver string `mapstructure:"DB_DRIVER"`
	DSN      string `mapstructure:"DB_DSN"`

	JWTSecret string        `mapstructure:"JWT_SECRET"`
	JWTTTL    time.Duration `mapstructure:"JWT_TTL"`

	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`

	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RabbitMQURL    string `mapstructure:"RABBITMQ_URL"`
	EventsExchange string `mapstructure:"EVENTS_EXCHANGE"`

	MediaStorage  string `mapstructure:"MEDIA_STORAGE"`
	MediaDir      string `mapstructure:"MEDIA_DIR"`
	MediaBaseURL  string `mapstructure:"MEDIA_BASE_URL"`
	MediaMaxBytes int64  `mapstructure:"MEDIA_MAX_BYTES"`

	GCSBucket string `mapstructure:"GCS_BUCKET"`

	// GCSPublicBaseURL prefixes object URLs in gcs mode; empty means storage.googleapis.com.
	GCSPublicBaseURL string `mapstructure:"GCS_PUBLIC_BASE_URL"`

	SchedulerEnabled       bool   `mapstructure:"SCHEDULER_ENABLED"`
	ContentPublishSchedule string `mapstructure:"CONTENT_PUBLISH_SCHEDULE"`

	InvitationTTL   time.Duration `mapstructure:"INVITATION_TTL"`
	MaxFailedLogins int           `mapstructure:"MAX_FAILED_LOGINS"`
	LockoutDuration time.Duration `mapstructure:"LOCKOUT_DURATION"`

	SeedOnStart       bool   `mapstructure:"SEED_ON_START"`
	SeedAdminEmail    string `mapstructure:"SEED_ADMIN_EMAIL"`
	SeedAdminPassword string `mapstructure:"SEED_ADMIN_PASSWORD"`

	// Notes are startup remarks for the caller to log once a logger exists.
	Notes []string `mapstructure:"-"`
}

var defaults = map[string]any{
	"APP_PORT":                 "8080",
	"LOG_MODE":                 "development",
	"DB_DRIVER":                "mysql",
	"DB_DSN":                   "",
	"MYSQL_DSN":                "",
	"JWT_SECRET":               "",
	"JWT_TTL":                  "24h",
	"CORS_ORIGINS":             "",
	"REDIS_ADDR":               "",
	"RABBITMQ_URL":             "",
	"EVENTS_EXCHANGE":          "saas_admin.events",
	"MEDIA_STORAGE":            "local",
	"MEDIA_DIR":                "./data/media",
	"MEDIA_BASE_URL":           "/media",
	"MEDIA_MAX_BYTES":          25 << 20,
	"GCS_BUCKET":               "",
	"GCS_PUBLIC_BASE_URL":      "",
	"SCHEDULER_ENABLED":        true,
	"CONTENT_PUBLISH_SCHEDULE": "@every 1m",
	"INVITATION_TTL":           "168h",
	"MAX_FAILED_LOGINS":        5,
	"LOCKOUT_DURATION":         "15m",
	"SEED_ON_START":            true,
	"SEED_ADMIN_EMAIL":         "admin@example.com",
	"SEED_ADMIN_PASSWORD":      "admin123",
}

// Load reads .env when present, then the process environment.
func Load() (Config, error) {
	var notes []string
	if err := godotenv.Load(); err != nil {
		notes = append(notes, ".env file not found, using system environment variables")
	} else {
		notes = append(notes, ".env file loaded")
	}

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	cfg.Notes = notes
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	cfg.MediaStorage = strings.ToLower(strings.TrimSpace(cfg.MediaStorage))
	cfg.CORSOrigins = splitList(cfg.CORSOrigins)

	if cfg.DSN == "" {
		cfg.DSN = v.GetString("MYSQL_DSN")
	}
	if cfg.DSN == "" {
		if cfg.DBDriver != "sqlite" {
			return Config{}, errors.New("DB_DSN not set in environment")
		}
		cfg.DSN = "saas_admin.db"
	}
	switch cfg.DBDriver {
	case "mysql", "postgres", "sqlite":
	default:
		return Config{}, errors.New("DB_DRIVER must be mysql, postgres or sqlite")
	}
	switch cfg.MediaStorage {
	case "local":
	case "gcs":
		if cfg.GCSBucket == "" {
			return Config{}, errors.New("GCS_BUCKET is required when MEDIA_STORAGE=gcs")
		}
	default:
		return Config{}, errors.New("MEDIA_STORAGE must be local or gcs")
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = devJWTSecret
		cfg.Notes = append(cfg.Notes, "JWT_SECRET not set, using the development secret")
	}
	if cfg.MaxFailedLogins < 1 {
		cfg.MaxFailedLogins = 1
	}
	return cfg, nil
}

// splitList accepts both a single comma separated value and repeated entries.
func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// StoreBaseURL is the prefix the media store puts in front of object keys.
// MediaBaseURL is routed for local storage only.
func (c Config) StoreBaseURL() string {
	if c.MediaStorage == "gcs" {
		return c.GCSPublicBaseURL
	}
	return c.MediaBaseURL
}
