package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const keyEnv = "ENV"
const envLocal = "local"

const (
	defaultPort               = "3000"
	defaultBackendURL         = "http://localhost:8080/api"
	defaultPageSize           = 10
	defaultRecentSearches     = 5
	defaultBannerDismiss      = 5 * time.Second
	defaultAnalyticsDays      = 30
	defaultPanelDays          = 7
	defaultRateLimitPerMinute = 60
	defaultRateLimitBurst     = 10
	defaultLogLevel           = "info"
)

type Config struct {
	config *viper.Viper
}

// Load reads config/config.<env>.yaml when it can be found. Environment
// variables always take precedence over the file.
func Load(env string) (*Config, error) {

	if len(env) == 0 {
		if env = os.Getenv(keyEnv); len(env) == 0 {
			env = envLocal
		}
	}

	configPath, err := getConfigPath(env)

	viperConfig := viper.New()
	if err == nil {
		viperConfig.SetConfigFile(configPath)
		if err := viperConfig.ReadInConfig(); err != nil {
			slog.Warn(fmt.Sprintf("error reading config file, %s", err))
		}
	}
	viperConfig.AutomaticEnv()

	cfg := &Config{
		config: viperConfig,
	}

	return cfg, nil
}

func (c *Config) GetPort() string {
	port := c.getString("PORT", "server.port")
	if len(port) == 0 {
		port = defaultPort
	}

	return port
}

func (c *Config) GetBackendURL() string {
	backendURL := c.getString("BACKEND_URL", "backend.base_url")
	if len(backendURL) == 0 {
		backendURL = defaultBackendURL
	}

	return strings.TrimRight(backendURL, "/")
}

// GetBackendTimeout returns 0 unless a timeout is configured, leaving
// deadlines to the request context.
func (c *Config) GetBackendTimeout() time.Duration {
	return c.getDuration("BACKEND_TIMEOUT", "backend.timeout", 0)
}

func (c *Config) GetPageSize() int {
	return c.getPositiveInt("PAGE_SIZE", "ui.page_size", defaultPageSize)
}

func (c *Config) GetRecentSearches() int {
	return c.getPositiveInt("RECENT_SEARCHES", "ui.recent_searches", defaultRecentSearches)
}

func (c *Config) GetBannerDismiss() time.Duration {
	return c.getDuration("BANNER_DISMISS", "ui.banner_dismiss", defaultBannerDismiss)
}

func (c *Config) GetAnalyticsDays() int {
	return c.getPositiveInt("ANALYTICS_DAYS", "ui.analytics_days", defaultAnalyticsDays)
}

func (c *Config) GetPanelDays() int {
	return c.getPositiveInt("PANEL_DAYS", "ui.panel_days", defaultPanelDays)
}

func (c *Config) GetCORSOrigins() []string {
	raw := c.getString("CORS_ORIGINS", "server.cors_origins")
	if len(raw) == 0 {
		if origins := c.config.GetStringSlice("server.cors_origins"); len(origins) > 0 {
			return origins
		}
		return []string{"*"}
	}

	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}

	return origins
}

func (c *Config) GetRateLimitPerMinute() int {
	return c.getPositiveInt("RATE_LIMIT_PER_MINUTE", "server.rate_limit_per_minute", defaultRateLimitPerMinute)
}

func (c *Config) GetRateLimitBurst() int {
	return c.getPositiveInt("RATE_LIMIT_BURST", "server.rate_limit_burst", defaultRateLimitBurst)
}

func (c *Config) GetLogLevel() slog.Level {
	level := c.getString("LOG_LEVEL", "log.level")
	if len(level) == 0 {
		level = defaultLogLevel
	}

	var parsed slog.Level
	if err := parsed.UnmarshalText([]byte(level)); err != nil {
		slog.Warn("unknown log level, falling back to info", "level", level)
		return slog.LevelInfo
	}

	return parsed
}

func (c *Config) getString(envKey string, fileKey string) string {
	value := c.config.GetString(envKey)
	if len(value) == 0 {
		value = c.config.GetString(fileKey)
	}

	return value
}

func (c *Config) getPositiveInt(envKey string, fileKey string, fallback int) int {
	value := c.config.GetInt(envKey)
	if value <= 0 {
		value = c.config.GetInt(fileKey)
	}
	if value <= 0 {
		value = fallback
	}

	return value
}

func (c *Config) getDuration(envKey string, fileKey string, fallback time.Duration) time.Duration {
	key := envKey
	if !c.config.IsSet(key) {
		key = fileKey
	}
	if !c.config.IsSet(key) {
		return fallback
	}

	value := c.config.GetDuration(key)
	if value < 0 {
		return fallback
	}

	return value
}

func getProjectRoot() (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}

	for {
		configDir := filepath.Join(currentDir, "config")
		if info, err := os.Stat(configDir); err == nil && info.IsDir() {
			return currentDir, nil
		}

		parent := filepath.Dir(currentDir)

		if parent == currentDir {
			break
		}

		currentDir = parent
	}

	return "", fmt.Errorf("could not find project root (directory containing 'config' folder)")
}

func getConfigPath(env string) (string, error) {
	configFile := fmt.Sprintf("config.%s.yaml", env)

	projectRoot, err := getProjectRoot()
	if err != nil {
		slog.Warn("failed to find project root with config directory, will use environment variables instead", "err", err.Error())
		return "", fmt.Errorf("failed to find project root: %w", err)
	}
	configPath := filepath.Join(projectRoot, "config", configFile)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		slog.Warn("failed to find config file within config directory, will use environment variables instead", "err", err.Error())
		return "", fmt.Errorf("config file does not exist: %s", configPath)
	}

	return configPath, nil
}
