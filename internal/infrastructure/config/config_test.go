package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Providers.Timeout)
	assert.Equal(t, "https://www.themealdb.com/api/json/v1/1", cfg.Providers.TheMealDB.BaseURL)
	assert.Equal(t, 300*time.Second, cfg.Cache.TTL)
	assert.Equal(t, "/static/assets/default_recipe.jpg", cfg.Recipes.PlaceholderImage)
	assert.Equal(t, "Jakarta", cfg.Recipes.DefaultCity)
	assert.Empty(t, cfg.Database.URL)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("SPOONACULAR_KEY", "spoon-key")
	t.Setenv("OPENWEATHER_KEY", "weather-key")
	t.Setenv("PROVIDER_TIMEOUT", "2s")
	t.Setenv("DATABASE_URL", "postgres://app@localhost/recipes")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "spoon-key", cfg.Providers.Spoonacular.APIKey)
	assert.Equal(t, "weather-key", cfg.Providers.OpenWeather.APIKey)
	assert.Equal(t, 2*time.Second, cfg.Providers.Timeout)
	assert.Equal(t, "postgres://app@localhost/recipes", cfg.Database.URL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoadConfigRejectsBadTimeout(t *testing.T) {
	t.Setenv("PROVIDER_TIMEOUT", "0s")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", MaskAPIKey("short"))
	assert.Equal(t, "abcd...wxyz", MaskAPIKey("abcdefghijklmnopqrstuvwxyz"))
}
