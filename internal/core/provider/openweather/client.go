package openweather

import (
	"context"
	"errors"
	"strconv"

	"github.com/go-resty/resty/v2"

	"github.com/pasarde/recipe-app/internal/core/cache"
	"github.com/pasarde/recipe-app/internal/core/provider"
	"github.com/pasarde/recipe-app/internal/pkg/common"
)

const (
	name = "openweather"
	path = "/weather"
)

// Client OpenWeatherMap 天氣客戶端
type Client struct {
	http   *resty.Client
	apiKey string
	cache  cache.Store
}

type weatherResponse struct {
	Name    string `json:"name"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Main *struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
}

var errIncomplete = errors.New("weather payload missing weather[0] or main.temp")

// NewClient 創建新的天氣客戶端
func NewClient(cfg provider.Config) *Client {
	return &Client{
		http:   provider.NewHTTPClient(cfg),
		apiKey: cfg.APIKey,
		cache:  cfg.Cache,
	}
}

// ByCity returns the current weather for city, or nil when unavailable.
// The snapshot keeps the requested city name.
func (c *Client) ByCity(ctx context.Context, city string) *common.Weather {
	return cache.Remember(ctx, c.cache, name, "city|"+city, func() (*common.Weather, bool) {
		w := c.fetch(ctx, map[string]string{"q": city})
		if w == nil {
			return nil, false
		}
		w.City = city
		return w, true
	})
}

// ByCoords returns the current weather at lat/lon, or nil when unavailable.
// The snapshot city is the name the provider reports.
func (c *Client) ByCoords(ctx context.Context, lat, lon float64) *common.Weather {
	latS := strconv.FormatFloat(lat, 'f', -1, 64)
	lonS := strconv.FormatFloat(lon, 'f', -1, 64)
	return cache.Remember(ctx, c.cache, name, "coords|"+latS+","+lonS, func() (*common.Weather, bool) {
		w := c.fetch(ctx, map[string]string{"lat": latS, "lon": lonS})
		return w, w != nil
	})
}

func (c *Client) fetch(ctx context.Context, params map[string]string) *common.Weather {
	params["appid"] = c.apiKey
	params["units"] = "metric"

	body, err := provider.Get(ctx, c.http, name, path, params)
	if err != nil {
		return nil
	}

	var resp weatherResponse
	if err := common.ParseJSONBytes(body, &resp); err != nil {
		provider.Malformed(name, path, err)
		return nil
	}
	if len(resp.Weather) == 0 || resp.Main == nil {
		provider.Malformed(name, path, errIncomplete)
		return nil
	}

	return &common.Weather{
		City:        resp.Name,
		Condition:   resp.Weather[0].Description,
		Temp:        resp.Main.Temp,
		WeatherMain: resp.Weather[0].Main,
	}
}
