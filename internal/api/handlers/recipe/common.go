package recipe

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pasarde/recipe-app/internal/api/middleware"
	"github.com/pasarde/recipe-app/internal/core/history"
	"github.com/pasarde/recipe-app/internal/core/interaction"
	recipeService "github.com/pasarde/recipe-app/internal/core/recipe"
	"github.com/pasarde/recipe-app/internal/pkg/common"
)

// WeatherProvider looks up current weather. A nil snapshot means the
// provider could not answer.
type WeatherProvider interface {
	ByCity(ctx context.Context, city string) *common.Weather
	ByCoords(ctx context.Context, lat, lon float64) *common.Weather
}

// Handler 食譜處理程序
type Handler struct {
	recipes      *recipeService.Service
	weather      WeatherProvider
	history      *history.Tracker
	interactions *interaction.Service
	defaultCity  string
}

// NewHandler 創建新的食譜處理程序
func NewHandler(recipes *recipeService.Service, weather WeatherProvider, tracker *history.Tracker, interactions *interaction.Service, defaultCity string) *Handler {
	if defaultCity == "" {
		defaultCity = "Jakarta"
	}
	return &Handler{
		recipes:      recipes,
		weather:      weather,
		history:      tracker,
		interactions: interactions,
		defaultCity:  defaultCity,
	}
}

// constraintsFrom reads the optional provider filters.
func constraintsFrom(c *gin.Context) common.SearchConstraints {
	return common.SearchConstraints{
		MaxReadyTime: strings.TrimSpace(c.Query("max_time")),
		Diet:         strings.TrimSpace(c.Query("diet")),
	}
}

// record counts a search and returns the soft warnings it produced.
func (h *Handler) record(c *gin.Context, query, cuisine, region string) []string {
	if err := h.history.Record(c.Request.Context(), query, cuisine, region); err != nil {
		return []string{history.WarnRecordFailed}
	}
	return nil
}

// callerID is the authenticated user, or 0 for anonymous callers.
func callerID(c *gin.Context) int64 {
	id, _ := middleware.UserID(c)
	return id
}

// nonNil keeps empty lists as [] in JSON.
func nonNil(recipes []common.Recipe) []common.Recipe {
	if recipes == nil {
		return []common.Recipe{}
	}
	return recipes
}
