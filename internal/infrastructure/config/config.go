package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Guard     GuardConfig     `mapstructure:"guard"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Upload    UploadConfig    `mapstructure:"upload"`
	Recipes   RecipesConfig   `mapstructure:"recipes"`
	LogLevel  string          `mapstructure:"log_level"`
	LogDir    string          `mapstructure:"log_dir"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
}

// ProvidersConfig holds the three outbound collaborators. Every call is a
// single attempt bounded by Timeout.
type ProvidersConfig struct {
	Timeout     time.Duration     `mapstructure:"timeout"`
	Spoonacular SpoonacularConfig `mapstructure:"spoonacular"`
	TheMealDB   TheMealDBConfig   `mapstructure:"themealdb"`
	OpenWeather OpenWeatherConfig `mapstructure:"openweather"`
}

// SpoonacularConfig Western catalog
type SpoonacularConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// TheMealDBConfig regional catalog
type TheMealDBConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// OpenWeatherConfig weather provider
type OpenWeatherConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// DatabaseConfig selects the relational store. An empty URL keeps everything
// in memory.
type DatabaseConfig struct {
	URL          string `mapstructure:"url"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

// RedisConfig backs the provider cache and the interaction guard when Addr is set.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CacheConfig 緩存配置
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// GuardConfig bounds how long a duplicate-submission guard may be held if the
// holder dies without releasing it.
type GuardConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// UploadConfig 上傳設定
type UploadConfig struct {
	Dir          string `mapstructure:"dir"`
	PublicPrefix string `mapstructure:"public_prefix"`
	MaxSizeBytes int64  `mapstructure:"max_size_bytes"`
}

// RecipesConfig 食譜顯示設定
type RecipesConfig struct {
	PlaceholderImage string `mapstructure:"placeholder_image"`
	DefaultCity      string `mapstructure:"default_city"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// .env 可有可無
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnv(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// MaskAPIKey 遮罩 API Key，只顯示前後各 4 個字符
func MaskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func bindEnv(v *viper.Viper) {
	_ = v.BindEnv("server.port", "SERVER_PORT", "PORT")
	_ = v.BindEnv("providers.timeout", "PROVIDER_TIMEOUT")
	_ = v.BindEnv("providers.spoonacular.api_key", "SPOONACULAR_KEY")
	_ = v.BindEnv("providers.spoonacular.base_url", "SPOONACULAR_BASE_URL")
	_ = v.BindEnv("providers.themealdb.base_url", "THEMEALDB_BASE_URL")
	_ = v.BindEnv("providers.openweather.api_key", "OPENWEATHER_KEY")
	_ = v.BindEnv("providers.openweather.base_url", "OPENWEATHER_BASE_URL")
	_ = v.BindEnv("database.url", "DATABASE_URL")
	_ = v.BindEnv("redis.addr", "REDIS_ADDR")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("cache.enabled", "CACHE_ENABLED")
	_ = v.BindEnv("cache.ttl", "CACHE_TTL")
	_ = v.BindEnv("guard.ttl", "GUARD_TTL")
	_ = v.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	_ = v.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	_ = v.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	_ = v.BindEnv("upload.dir", "UPLOAD_DIR")
	_ = v.BindEnv("recipes.placeholder_image", "PLACEHOLDER_IMAGE")
	_ = v.BindEnv("recipes.default_city", "DEFAULT_CITY")
	_ = v.BindEnv("log_level", "LOG_LEVEL")
	_ = v.BindEnv("log_dir", "LOG_DIR")
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "recipe-app")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "60s")
	v.SetDefault("server.max_body_bytes", 10<<20)

	v.SetDefault("providers.timeout", "5s")
	v.SetDefault("providers.spoonacular.base_url", "https://api.spoonacular.com")
	v.SetDefault("providers.themealdb.base_url", "https://www.themealdb.com/api/json/v1/1")
	v.SetDefault("providers.openweather.base_url", "http://api.openweathermap.org/data/2.5")

	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)

	v.SetDefault("redis.db", 0)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.max_size", 1000)
	v.SetDefault("cache.ttl", "300s")
	v.SetDefault("cache.cleanup_interval", "10m")

	v.SetDefault("guard.ttl", "10s")

	// 200 per day / 50 per hour in the legacy limiter; one bucket per client
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 50)
	v.SetDefault("rate_limit.window", "1h")

	v.SetDefault("upload.dir", "static/uploads")
	v.SetDefault("upload.public_prefix", "/static/uploads")
	v.SetDefault("upload.max_size_bytes", 5<<20)

	v.SetDefault("recipes.placeholder_image", "/static/assets/default_recipe.jpg")
	v.SetDefault("recipes.default_city", "Jakarta")

	v.SetDefault("log_level", "info")
	v.SetDefault("log_dir", "logs")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}
	if config.Providers.Timeout <= 0 {
		return fmt.Errorf("invalid provider timeout")
	}
	if config.Cache.Enabled {
		if config.Cache.MaxSize <= 0 {
			return fmt.Errorf("invalid cache max size")
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
		if config.Cache.CleanupInterval <= 0 {
			return fmt.Errorf("invalid cache cleanup interval")
		}
	}
	if config.Guard.TTL <= 0 {
		return fmt.Errorf("invalid guard ttl")
	}
	if config.RateLimit.Enabled && (config.RateLimit.Requests <= 0 || config.RateLimit.Window <= 0) {
		return fmt.Errorf("invalid rate limit")
	}
	return nil
}
