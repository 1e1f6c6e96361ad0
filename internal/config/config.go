package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by NewConfig.
const EnvPrefix = "LINKDEPOT"

type (
	Config struct {
		HTTP
		Global
		Database
		Site
		Logging
		Favicon
		Tasks
		Backfill
		Session
		Security
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path     string
		LogLevel string // gorm logger: "silent" | "error" | "warn" | "info"
	}
	Site struct {
		AppName    string
		Path       string // URL prefix the application is mounted under, e.g. "/linkdepot"
		StaticPath string // Serve static assets from disk instead of the embedded copy
	}
	Logging struct {
		Level  string // "debug" | "info" | "warn" | "error"
		Pretty bool   // true => zap development encoder, false => JSON
	}
	Favicon struct {
		ProxyURL  string // fmt template receiving the link host, e.g. "https://www.google.com/s2/favicons?domain=%s"
		Timeout   time.Duration
		MaxBytes  int64
		UserAgent string
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Backfill struct {
		Enabled  bool
		Schedule string // Cron format: "0 3 * * *" = daily at 03:00
	}
	Session struct {
		Enabled       bool
		Lifetime      time.Duration
		SecureCookies bool
	}
	Security struct {
		CSRFSecret    string // Enables CSRF protection for HTML form posts when set
		SecureCookies bool
	}
)

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("db_log_level", "warn")

	// Site definitions
	v.SetDefault("app_name", DefaultAppName)
	v.SetDefault("site_path", "")
	v.SetDefault("static_path", "")

	// Logging
	v.SetDefault("log_level", "info")
	v.SetDefault("pretty_log", true)

	// Favicon fetching
	v.SetDefault("favicon_proxy_url", DefaultFaviconProxyURL)
	v.SetDefault("favicon_timeout", "10s")
	v.SetDefault("favicon_max_bytes", 512*1024)
	v.SetDefault("favicon_user_agent", "LinkDepot/1.0")

	// Task queue defaults
	v.SetDefault("tasks_enabled", false)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "5m")
	v.SetDefault("task_cleanup_interval", "1h")

	// Favicon backfill
	v.SetDefault("backfill_enabled", false)
	v.SetDefault("backfill_schedule", "0 3 * * *")

	// Sessions
	v.SetDefault("session_enabled", true)
	v.SetDefault("session_lifetime", "720h")
	v.SetDefault("session_secure_cookies", false)

	// Security
	v.SetDefault("csrf_secret", "")
	v.SetDefault("secure_cookies", false)

	return v
}

// NewConfig builds the configuration from LINKDEPOT_* environment variables.
func NewConfig() *Config {
	cfg, _ := Load("")
	return cfg
}

// Load builds the configuration from an optional YAML/TOML/JSON file and the
// environment. Environment variables take precedence over the file.
func Load(configFile string) (*Config, error) {
	v := newViper()
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fromViper(v), fmt.Errorf("read config file %s: %w", configFile, err)
		}
	}
	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("port"),
			Host: v.GetString("host"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("shutdown_timeout_in_seconds"),
		},
		Database: Database{
			Path:     v.GetString("database_path"),
			LogLevel: v.GetString("db_log_level"),
		},
		Site: Site{
			AppName:    v.GetString("app_name"),
			Path:       normalizeSitePath(v.GetString("site_path")),
			StaticPath: v.GetString("static_path"),
		},
		Logging: Logging{
			Level:  strings.ToLower(v.GetString("log_level")),
			Pretty: v.GetBool("pretty_log"),
		},
		Favicon: Favicon{
			ProxyURL:  v.GetString("favicon_proxy_url"),
			Timeout:   v.GetDuration("favicon_timeout"),
			MaxBytes:  v.GetInt64("favicon_max_bytes"),
			UserAgent: v.GetString("favicon_user_agent"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("tasks_enabled"),
			Workers:         v.GetInt("task_workers"),
			ReleaseAfter:    v.GetDuration("task_release_after"),
			CleanupInterval: v.GetDuration("task_cleanup_interval"),
		},
		Backfill: Backfill{
			Enabled:  v.GetBool("backfill_enabled"),
			Schedule: v.GetString("backfill_schedule"),
		},
		Session: Session{
			Enabled:       v.GetBool("session_enabled"),
			Lifetime:      v.GetDuration("session_lifetime"),
			SecureCookies: v.GetBool("session_secure_cookies"),
		},
		Security: Security{
			CSRFSecret:    v.GetString("csrf_secret"),
			SecureCookies: v.GetBool("secure_cookies"),
		},
	}
}

// normalizeSitePath turns "linkdepot", "/linkdepot/" and "/linkdepot" into
// "/linkdepot". The root path is represented by an empty string.
func normalizeSitePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	return "/" + p
}
