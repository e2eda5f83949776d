package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Features FeaturesConfig `mapstructure:"features"`
}

type ServerConfig struct {
	Port     string `mapstructure:"port" validate:"required,numeric"`
	LogLevel string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	// JWTSecret guards mutating routes; empty leaves them open.
	JWTSecret string `mapstructure:"jwt_secret"`
	// CronSpec schedules seeding and archival; empty disables the scheduler.
	CronSpec string `mapstructure:"cron_spec"`
	Timezone string `mapstructure:"timezone" validate:"omitempty,timezone"`
}

type DatabaseConfig struct {
	Driver      string `mapstructure:"driver" validate:"oneof=postgres memory"`
	Host        string `mapstructure:"host" validate:"required_if=Driver postgres"`
	Port        string `mapstructure:"port" validate:"required_if=Driver postgres,omitempty,numeric"`
	User        string `mapstructure:"user"`
	Password    string `mapstructure:"password"`
	Name        string `mapstructure:"name" validate:"required_if=Driver postgres"`
	SSLMode     string `mapstructure:"sslmode" validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

// FeaturesConfig lists the engine capabilities enabled for this deployment.
type FeaturesConfig struct {
	Origins           []string `mapstructure:"origins" validate:"dive,oneof=ticket sunday vestry operations"`
	SundayHorizonDays int      `mapstructure:"sunday_horizon_days" validate:"gte=0,lte=366"`
	ComputeSundays    bool     `mapstructure:"compute_sundays"`
	VestryMonthsAhead int      `mapstructure:"vestry_months_ahead" validate:"gte=0,lte=24"`
	TicketSLADays     int      `mapstructure:"ticket_sla_days" validate:"gte=0,lte=365"`
	TicketDefaultStep bool     `mapstructure:"ticket_default_step"`
	LegacyCleanup     bool     `mapstructure:"legacy_cleanup"`
	ArchiveOnRead     bool     `mapstructure:"archive_on_read"`
	CollapseSundays   bool     `mapstructure:"collapse_sundays"`
	SeedOnStart       bool     `mapstructure:"seed_on_start"`
	// TemplateCatalog is a YAML catalog path; empty installs the built-in one.
	TemplateCatalog  string `mapstructure:"template_catalog"`
	InstallTemplates bool   `mapstructure:"install_templates"`
}

// URL renders the postgres connection URL.
func (d DatabaseConfig) URL() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   d.Host + ":" + d.Port,
		Path:   "/" + d.Name,
	}
	if d.SSLMode != "" {
		u.RawQuery = "sslmode=" + url.QueryEscape(d.SSLMode)
	}
	return u.String()
}

// envKeys keeps the established variable names for each setting.
var envKeys = map[string]string{
	"server.port":                  "SERVER_PORT",
	"server.log_level":             "LOG_LEVEL",
	"server.jwt_secret":            "JWT_SECRET",
	"server.cron_spec":             "CRON_SPEC",
	"server.timezone":              "TASK_TIMEZONE",
	"database.driver":              "STORE_DRIVER",
	"database.host":                "DB_HOST",
	"database.port":                "DB_PORT",
	"database.user":                "DB_USER",
	"database.password":            "DB_PASSWORD",
	"database.name":                "DB_NAME",
	"database.sslmode":             "DB_SSLMODE",
	"database.auto_migrate":        "DB_AUTO_MIGRATE",
	"features.origins":             "TASK_ORIGINS",
	"features.sunday_horizon_days": "SUNDAY_HORIZON_DAYS",
	"features.compute_sundays":     "COMPUTE_SUNDAYS",
	"features.vestry_months_ahead": "VESTRY_MONTHS_AHEAD",
	"features.ticket_sla_days":     "TICKET_SLA_DAYS",
	"features.ticket_default_step": "TICKET_DEFAULT_STEP",
	"features.legacy_cleanup":      "LEGACY_CLEANUP",
	"features.archive_on_read":     "ARCHIVE_ON_READ",
	"features.collapse_sundays":    "COLLAPSE_SUNDAYS",
	"features.seed_on_start":       "SEED_ON_START",
	"features.template_catalog":    "TEMPLATE_CATALOG",
	"features.install_templates":   "INSTALL_TEMPLATES",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.cron_spec", "5 0 * * *")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "parish")
	v.SetDefault("database.password", "parish")
	v.SetDefault("database.name", "parish_tasks")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("features.origins", []string{"ticket", "sunday", "vestry", "operations"})
	v.SetDefault("features.sunday_horizon_days", 21)
	v.SetDefault("features.compute_sundays", true)
	v.SetDefault("features.vestry_months_ahead", 1)
	v.SetDefault("features.ticket_sla_days", 3)
	v.SetDefault("features.ticket_default_step", true)
	v.SetDefault("features.legacy_cleanup", true)
	v.SetDefault("features.archive_on_read", true)
	v.SetDefault("features.collapse_sundays", true)
	v.SetDefault("features.seed_on_start", true)
	v.SetDefault("features.install_templates", true)
}

// Load reads .env, an optional YAML file (TASKS_CONFIG, else ./config.yaml)
// and the environment, in increasing precedence, then validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using system environment variables")
	}

	v := viper.New()
	setDefaults(v)
	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if path := os.Getenv("TASKS_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Database.Driver = strings.ToLower(cfg.Database.Driver)
	for i, o := range cfg.Features.Origins {
		cfg.Features.Origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
