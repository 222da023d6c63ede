package recipe

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pasarde/recipe-app/internal/api/handlers"
	"github.com/pasarde/recipe-app/internal/core/history"
	recipeService "github.com/pasarde/recipe-app/internal/core/recipe"
	"github.com/pasarde/recipe-app/internal/pkg/common"
)

// ErrNoSearchInput is returned by Suggest when there is nothing to search for.
const ErrNoSearchInput = "Please provide a search query or select a region."

// HomeResponse 首頁資料
type HomeResponse struct {
	Weather         *common.Weather         `json:"weather"`
	Recommendations []common.Recipe         `json:"recommendations"`
	RandomRecipes   []common.Recipe         `json:"random_recipes"`
	SearchResults   []common.Recipe         `json:"search_results"`
	RelatedSearches []history.RelatedSearch `json:"related_searches"`
	Query           string                  `json:"query,omitempty"`
	Warnings        []string                `json:"warnings,omitempty"`
}

// CoordsRequest 座標天氣請求
type CoordsRequest struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

// RecommendRequest 依天氣與地區推薦的請求
type RecommendRequest struct {
	Weather *common.Weather `json:"weather"`
	Region  string          `json:"region"`
}

// Home assembles the landing feed: weather for the city, weather based
// recommendations, random picks, search results and related searches.
func (h *Handler) Home(c *gin.Context) {
	ctx := c.Request.Context()
	city := c.DefaultQuery("city", h.defaultCity)
	query := strings.TrimSpace(c.Query("query"))
	cuisine := c.DefaultQuery("cuisine", recipeService.CuisineWestern)
	region := c.DefaultQuery("region", common.AllRegions)

	resp := HomeResponse{
		Recommendations: []common.Recipe{},
		SearchResults:   []common.Recipe{},
		Query:           query,
	}
	if query != "" {
		resp.Warnings = h.record(c, query, cuisine, region)
	}

	resp.RandomRecipes = nonNil(h.recipes.Random(ctx, 5))

	resp.Weather = h.weather.ByCity(ctx, city)
	if resp.Weather != nil {
		resp.Recommendations = nonNil(h.recipes.Recommend(ctx, resp.Weather, region, recipeService.RecommendCount))
	}

	if query != "" {
		resp.SearchResults = nonNil(h.recipes.Search(ctx, recipeService.SearchParams{
			Query:       query,
			Cuisine:     cuisine,
			Type:        recipeService.SearchTypeName,
			Region:      region,
			Constraints: constraintsFrom(c),
		}))
	}

	resp.RelatedSearches = h.history.Related(ctx, resp.Weather)
	c.JSON(http.StatusOK, resp)
}

// Suggest 搜尋建議 API
func (h *Handler) Suggest(c *gin.Context) {
	params := recipeService.SearchParams{
		Query:       strings.TrimSpace(c.Query("query")),
		Cuisine:     c.DefaultQuery("cuisine", recipeService.CuisineWestern),
		Type:        c.DefaultQuery("type", recipeService.SearchTypeName),
		Region:      c.DefaultQuery("region", common.AllRegions),
		Constraints: constraintsFrom(c),
	}

	warnings := h.record(c, params.Query, params.Cuisine, params.Region)

	if params.Query == "" && (params.Region == "" || params.Region == common.AllRegions) {
		common.LogWarn("suggest called without query or region")
		handlers.BadRequest(c, ErrNoSearchInput)
		return
	}

	recipes := nonNil(h.recipes.Search(c.Request.Context(), params))
	common.LogDebug("suggest results",
		zap.String("query", params.Query),
		zap.String("cuisine", params.Cuisine),
		zap.String("region", params.Region),
		zap.Int("count", len(recipes)),
	)

	resp := gin.H{"recipes": recipes}
	if len(warnings) > 0 {
		resp["warnings"] = warnings
	}
	c.JSON(http.StatusOK, resp)
}

// WeatherByCoords 依座標查詢天氣
func (h *Handler) WeatherByCoords(c *gin.Context) {
	var req CoordsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Lat == nil || req.Lon == nil {
		handlers.BadRequest(c, "Latitude and longitude are required")
		return
	}

	weather := h.weather.ByCoords(c.Request.Context(), *req.Lat, *req.Lon)
	if weather == nil {
		c.JSON(http.StatusInternalServerError, common.ErrorResponse{
			Code:    common.ErrCodeProviderUnavailable,
			Message: "Failed to fetch weather data",
		})
		return
	}
	c.JSON(http.StatusOK, weather)
}

// RecommendByLocation 依天氣與地區推薦食譜
func (h *Handler) RecommendByLocation(c *gin.Context) {
	var req RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Weather == nil {
		handlers.BadRequest(c, "Weather data is required")
		return
	}

	recs := h.recipes.Recommend(c.Request.Context(), req.Weather, req.Region, recipeService.RecommendCount)
	c.JSON(http.StatusOK, gin.H{"recommendations": nonNil(recs)})
}
