package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sethvargo/go-envconfig"
)

const (
	defaultMaxRequestBodyMB = 800
	defaultReadTimeout      = 10 * time.Minute
	defaultWriteTimeout     = 10 * time.Minute
)

var (
	DefaultAllowedImageExt = []string{"png", "jpg", "jpeg", "gif", "webp"}
	DefaultAllowedVideoExt = []string{"mp4", "webm", "mov", "m4v"}
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// postgres (ignored when DATABASE_URL is set)
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	// redis - admin sessions and login rate limiting
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`
	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	// uploads
	UploadRoot       string   `toml:"upload_root"`
	MaxRequestBodyMB int64    `toml:"max_request_body_mb"`
	AllowedImageExt  []string `toml:"allowed_image_ext"`
	AllowedVideoExt  []string `toml:"allowed_video_ext"`
	// http
	ReadTimeout                 duration `toml:"read_timeout"`
	WriteTimeout                duration `toml:"write_timeout"`
	SecureCookies               bool     `toml:"secure_cookies"`
	LoginRateLimitAllowedPerMin int      `toml:"login_rate_limit_allowed_per_min"`
}

// duration lets timeouts be written as "30s" in the TOML file
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("config section for env [%s] missing", env)
	}
	return cfg, nil
}

// Env holds the values that come from the environment (or the .env file).
// Secrets never live in the TOML file.
type Env struct {
	AdminUsername string `env:"ADMIN_USERNAME, default=admin"`
	AdminPassword string `env:"ADMIN_PASSWORD, default=admin123"`
	SecretKey     string `env:"SECRET_KEY"`
	DatabaseURL   string `env:"DATABASE_URL"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	SentryDSN     string `env:"SENTRY_DSN"`

	HoneycombEnabled bool `env:"HONEYCOMB_ENABLED, default=false"`

	// optional overrides of the TOML values
	UploadRoot       string   `env:"UPLOAD_FOLDER"`
	MaxRequestBodyMB int64    `env:"MAX_CONTENT_LENGTH_MB"`
	AllowedImageExt  []string `env:"ALLOWED_IMAGE_EXT"`
	AllowedVideoExt  []string `env:"ALLOWED_VIDEO_EXT"`
}

// Load reads the TOML config section for the given env, applies defaults,
// and then applies the environment overrides.
func Load(env, path string) (*Config, *Env, error) {
	var tomlCfg Toml
	if _, err := toml.DecodeFile(path, &tomlCfg); err != nil {
		return nil, nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	cfg, err := tomlCfg.Get(env)
	if err != nil {
		return nil, nil, err
	}

	envCfg, err := LoadEnv(context.Background(), envconfig.OsLookuper())
	if err != nil {
		return nil, nil, err
	}

	cfg.applyDefaults()
	cfg.applyEnv(envCfg)

	if err := cfg.validate(envCfg); err != nil {
		return nil, nil, err
	}

	return cfg, envCfg, nil
}

func LoadEnv(ctx context.Context, lookuper envconfig.Lookuper) (*Env, error) {
	var envCfg Env
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &envCfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	return &envCfg, nil
}

func (c *Config) IsProduction() bool {
	switch strings.ToLower(c.Environment) {
	case "prod", "production":
		return true
	default:
		return false
	}
}

func (c *Config) MaxRequestBodyBytes() int64 {
	return c.MaxRequestBodyMB * 1024 * 1024
}

func (c *Config) applyDefaults() {
	if c.MaxRequestBodyMB <= 0 {
		c.MaxRequestBodyMB = defaultMaxRequestBodyMB
	}
	if len(c.AllowedImageExt) == 0 {
		c.AllowedImageExt = DefaultAllowedImageExt
	}
	if len(c.AllowedVideoExt) == 0 {
		c.AllowedVideoExt = DefaultAllowedVideoExt
	}
	if c.ReadTimeout.Duration == 0 {
		c.ReadTimeout.Duration = defaultReadTimeout
	}
	if c.WriteTimeout.Duration == 0 {
		c.WriteTimeout.Duration = defaultWriteTimeout
	}
	if c.LoginRateLimitAllowedPerMin <= 0 {
		c.LoginRateLimitAllowedPerMin = 10
	}
}

func (c *Config) applyEnv(env *Env) {
	if env.UploadRoot != "" {
		c.UploadRoot = env.UploadRoot
	}
	if env.MaxRequestBodyMB > 0 {
		c.MaxRequestBodyMB = env.MaxRequestBodyMB
	}
	if len(env.AllowedImageExt) > 0 {
		c.AllowedImageExt = env.AllowedImageExt
	}
	if len(env.AllowedVideoExt) > 0 {
		c.AllowedVideoExt = env.AllowedVideoExt
	}
}

func (c *Config) validate(env *Env) error {
	if c.UploadRoot == "" {
		return errors.New("upload root not set (upload_root / UPLOAD_FOLDER)")
	}
	if c.IsProduction() && env.SecretKey == "" {
		return errors.New("SECRET_KEY must be set in production")
	}
	return nil
}
