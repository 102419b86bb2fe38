package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	StorageBackendRedis  = "redis"
	StorageBackendSQLite = "sqlite"
	StorageBackendMemory = "memory"
)

type Config struct {
	Environment string `toml:"-"`

	Host string `toml:"host"`
	Port int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// storage
	StorageBackend     string `toml:"storage_backend"`
	RedisHost          string `toml:"redis_host"`
	RedisPort          string `toml:"redis_port"`
	SQLitePath         string `toml:"sqlite_path"`
	ProgressStorageKey string `toml:"progress_storage_key"`
	HistoryStorageKey  string `toml:"history_storage_key"`
	AccountsStorageKey string `toml:"accounts_storage_key"`

	// progress
	CatalogPath              string             `toml:"catalog_path"`
	CategoryBudgets          map[string]float64 `toml:"category_budgets"`
	DefaultDailyCalorieGoal  float64            `toml:"default_daily_calorie_goal"`
	DefaultWeeklyWorkoutGoal int                `toml:"default_weekly_workout_goal"`
	HistoryRolloverSchedule  string             `toml:"history_rollover_schedule"`

	// metrics and limits
	PrometheusMetricsHost       string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort       string `toml:"prometheus_metrics_port"`
	LoginRateLimitAllowedPerMin int    `toml:"login_rate_limit_allowed_per_min"`
}

type Toml struct {
	Development *Config `toml:"development"`
	Production  *Config `toml:"production"`
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
		return nil, fmt.Errorf("no config section for env: %s", env)
	}
	return cfg, nil
}

// Load reads the TOML config file, picks the section for env,
// then applies defaults and FITPROGRESS_* env var overrides.
func Load(env, path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(env, string(data))
}

func Parse(env, data string) (*Config, error) {
	var t Toml
	if _, err := toml.Decode(data, &t); err != nil {
		return nil, fmt.Errorf("decode toml config: %w", err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	cfg.Environment = normalizeEnv(env)

	cfg.applyDefaults()
	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func normalizeEnv(env string) string {
	switch strings.ToLower(env) {
	case "prod", "production":
		return "production"
	default:
		return "development"
	}
}

func (c *Config) applyDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.StorageBackend == "" {
		c.StorageBackend = StorageBackendSQLite
	}
	if c.RedisHost == "" {
		c.RedisHost = "localhost"
	}
	if c.RedisPort == "" {
		c.RedisPort = "6379"
	}
	if c.ProgressStorageKey == "" {
		c.ProgressStorageKey = "fitprogress||progress-v1"
	}
	if c.HistoryStorageKey == "" {
		c.HistoryStorageKey = "fitprogress||weekly-history-v1"
	}
	if c.AccountsStorageKey == "" {
		c.AccountsStorageKey = "fitprogress||accounts-v1"
	}
	if c.DefaultDailyCalorieGoal == 0 {
		c.DefaultDailyCalorieGoal = 2200
	}
	if c.DefaultWeeklyWorkoutGoal == 0 {
		c.DefaultWeeklyWorkoutGoal = 4
	}
	if c.HistoryRolloverSchedule == "" {
		c.HistoryRolloverSchedule = "0 0 * * *"
	}
	if c.PrometheusMetricsHost == "" {
		c.PrometheusMetricsHost = "localhost"
	}
	if c.PrometheusMetricsPort == "" {
		c.PrometheusMetricsPort = "2112"
	}
	if c.LoginRateLimitAllowedPerMin == 0 {
		c.LoginRateLimitAllowedPerMin = 15
	}
}

func applyEnvOverrides(c *Config) {
	if v := os.Getenv("FITPROGRESS_HOST"); v != "" {
		c.Host = v
	}
	if v := os.Getenv("FITPROGRESS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
	if v := os.Getenv("FITPROGRESS_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("FITPROGRESS_STORAGE_BACKEND"); v != "" {
		c.StorageBackend = v
	}
	if v := os.Getenv("FITPROGRESS_REDIS_HOST"); v != "" {
		c.RedisHost = v
	}
	if v := os.Getenv("FITPROGRESS_REDIS_PORT"); v != "" {
		c.RedisPort = v
	}
	if v := os.Getenv("FITPROGRESS_SQLITE_PATH"); v != "" {
		c.SQLitePath = v
	}
	if v := os.Getenv("FITPROGRESS_CATALOG_PATH"); v != "" {
		c.CatalogPath = v
	}
}

func (c *Config) validate() error {
	if c.Port <= 0 {
		return errors.New("port is required")
	}
	switch c.StorageBackend {
	case StorageBackendRedis, StorageBackendMemory:
	case StorageBackendSQLite:
		if c.SQLitePath == "" {
			return errors.New("sqlite_path is required for the sqlite storage backend")
		}
	default:
		return fmt.Errorf("unknown storage backend: %s", c.StorageBackend)
	}
	for category, budget := range c.CategoryBudgets {
		if budget < 0 {
			return fmt.Errorf("category budget for %s is negative", category)
		}
	}
	if c.DefaultDailyCalorieGoal < 0 {
		return errors.New("default_daily_calorie_goal must not be negative")
	}
	if c.DefaultWeeklyWorkoutGoal < 0 {
		return errors.New("default_weekly_workout_goal must not be negative")
	}
	return nil
}
