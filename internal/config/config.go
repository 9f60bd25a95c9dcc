package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/text/language"

	"github.com/newthinker/screener/internal/core"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Backend   BackendConfig   `mapstructure:"backend"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Watchlist WatchlistConfig `mapstructure:"watchlist"`
	Runs      RunsConfig      `mapstructure:"runs"`
	Archive   ArchiveConfig   `mapstructure:"archive"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

type ServerConfig struct {
	Host   string `mapstructure:"host"`
	Port   int    `mapstructure:"port"`
	Mode   string `mapstructure:"mode"`
	APIKey string `mapstructure:"api_key"`
}

// LogConfig selects the logger flavor.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// BackendConfig points at the screening backend.
type BackendConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	Timeout        time.Duration `mapstructure:"timeout"`
	RequestsPerSec float64       `mapstructure:"requests_per_sec"`
	UserAgent      string        `mapstructure:"user_agent"`
}

// DashboardConfig holds presentation settings.
type DashboardConfig struct {
	UniverseSize        int           `mapstructure:"universe_size"`
	ResetDelay          time.Duration `mapstructure:"reset_delay"`
	NotificationTTL     time.Duration `mapstructure:"notification_ttl"`
	Locale              string        `mapstructure:"locale"`
	CurrencySymbol      string        `mapstructure:"currency_symbol"`
	SymbolSuffix        string        `mapstructure:"symbol_suffix"`
	Timezone            string        `mapstructure:"timezone"`
	TimeLayout          string        `mapstructure:"time_layout"`
	DetailSequenceGuard bool          `mapstructure:"detail_sequence_guard"`
}

// WatchlistConfig selects stub or backend-backed watchlist adds.
type WatchlistConfig struct {
	Remote bool `mapstructure:"remote"`
}

// RunsConfig bounds the scan run history.
type RunsConfig struct {
	Max int           `mapstructure:"max"`
	TTL time.Duration `mapstructure:"ttl"`
}

// ArchiveConfig selects where scan snapshots go.
type ArchiveConfig struct {
	Type string   `mapstructure:"type"` // "none", "localfs" or "s3"
	Path string   `mapstructure:"path"` // For localfs
	S3   S3Config `mapstructure:"s3"`   // For S3
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load reads configuration from file. Keys missing from the file keep
// their Defaults value.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v, Defaults())

	// Support environment variable overrides
	v.SetEnvPrefix("SCREENER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.mode", d.Server.Mode)
	v.SetDefault("server.api_key", d.Server.APIKey)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("backend.base_url", d.Backend.BaseURL)
	v.SetDefault("backend.timeout", d.Backend.Timeout)
	v.SetDefault("backend.requests_per_sec", d.Backend.RequestsPerSec)
	v.SetDefault("backend.user_agent", d.Backend.UserAgent)
	v.SetDefault("dashboard.universe_size", d.Dashboard.UniverseSize)
	v.SetDefault("dashboard.reset_delay", d.Dashboard.ResetDelay)
	v.SetDefault("dashboard.notification_ttl", d.Dashboard.NotificationTTL)
	v.SetDefault("dashboard.locale", d.Dashboard.Locale)
	v.SetDefault("dashboard.currency_symbol", d.Dashboard.CurrencySymbol)
	v.SetDefault("dashboard.symbol_suffix", d.Dashboard.SymbolSuffix)
	v.SetDefault("dashboard.timezone", d.Dashboard.Timezone)
	v.SetDefault("dashboard.time_layout", d.Dashboard.TimeLayout)
	v.SetDefault("dashboard.detail_sequence_guard", d.Dashboard.DetailSequenceGuard)
	v.SetDefault("watchlist.remote", d.Watchlist.Remote)
	v.SetDefault("runs.max", d.Runs.Max)
	v.SetDefault("runs.ttl", d.Runs.TTL)
	v.SetDefault("archive.type", d.Archive.Type)
	v.SetDefault("archive.path", d.Archive.Path)
	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.path", d.Metrics.Path)
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Mode: "release",
		},
		Log: LogConfig{
			Level: "info",
		},
		Backend: BackendConfig{
			BaseURL:        "http://localhost:5000",
			Timeout:        2 * time.Minute,
			RequestsPerSec: 5,
			UserAgent:      "screener-dashboard",
		},
		Dashboard: DashboardConfig{
			UniverseSize:        50,
			ResetDelay:          time.Second,
			NotificationTTL:     5 * time.Second,
			Locale:              "en-IN",
			CurrencySymbol:      "₹",
			SymbolSuffix:        ".NS",
			Timezone:            "UTC",
			TimeLayout:          "2 Jan 2006, 15:04:05",
			DetailSequenceGuard: true,
		},
		Runs: RunsConfig{
			Max: 100,
			TTL: 24 * time.Hour,
		},
		Archive: ArchiveConfig{
			Type: "none",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("port must be between 1 and 65535, got %d", c.Server.Port))
	}

	if c.Backend.BaseURL == "" {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("backend base_url is required"))
	}
	if c.Backend.Timeout < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("backend timeout cannot be negative, got %s", c.Backend.Timeout))
	}
	if c.Backend.RequestsPerSec < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("requests_per_sec cannot be negative, got %f", c.Backend.RequestsPerSec))
	}

	if c.Dashboard.UniverseSize < 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("universe_size must be positive, got %d", c.Dashboard.UniverseSize))
	}
	if c.Dashboard.ResetDelay < 0 || c.Dashboard.NotificationTTL < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("dashboard delays cannot be negative"))
	}
	if c.Dashboard.Locale != "" {
		if _, err := language.Parse(c.Dashboard.Locale); err != nil {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("locale %q: %w", c.Dashboard.Locale, err))
		}
	}
	if c.Dashboard.Timezone != "" {
		if _, err := time.LoadLocation(c.Dashboard.Timezone); err != nil {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("timezone %q: %w", c.Dashboard.Timezone, err))
		}
	}

	switch c.Archive.Type {
	case "", "none":
	case "localfs":
		if c.Archive.Path == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("archive path required when type is localfs"))
		}
	case "s3":
		if c.Archive.S3.Bucket == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("s3 bucket required when archive type is s3"))
		}
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown archive type %q", c.Archive.Type))
	}

	return nil
}
