package common

import (
	"strings"
)

// Source identifies where a recipe comes from. The recipe id is only unique
// inside its source, so (Source, ID) is the identity key.
type Source string

const (
	SourceSpoonacular Source = "spoonacular" // Western catalog
	SourceTheMealDB   Source = "themealdb"   // regional catalog
	SourceFallback    Source = "fallback"    // static curated catalog
	SourceUser        Source = "user"        // user submissions
)

// Sources lists every known source.
var Sources = []Source{SourceSpoonacular, SourceTheMealDB, SourceFallback, SourceUser}

// ParseSource validates a source tag coming from a request.
func ParseSource(s string) (Source, bool) {
	for _, src := range Sources {
		if string(src) == s {
			return src, true
		}
	}
	return "", false
}

// DefaultPlaceholderImage is shown when no provider image is available.
const DefaultPlaceholderImage = "/static/assets/default_recipe.jpg"

// AllRegions is the region sentinel meaning "no region filter".
const AllRegions = "All Regions"

// Recipe is the normalized recipe shared by every source.
type Recipe struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Source       Source   `json:"source"`
	Image        string   `json:"image"`
	Ingredients  []string `json:"ingredients,omitempty"`
	Instructions string   `json:"instructions,omitempty"`
}

// Key returns the (source, id) identity of the recipe.
func (r Recipe) Key() string {
	return string(r.Source) + ":" + r.ID
}

// ImageOr returns the first non-blank candidate, or placeholder.
func ImageOr(placeholder string, candidates ...string) string {
	for _, c := range candidates {
		if strings.TrimSpace(c) != "" {
			return c
		}
	}
	if placeholder == "" {
		return DefaultPlaceholderImage
	}
	return placeholder
}

// Weather is a per-request weather snapshot. It is never persisted.
type Weather struct {
	City        string  `json:"city"`
	Condition   string  `json:"condition"`
	Temp        float64 `json:"temp"`
	WeatherMain string  `json:"weather_main"`
}

// IsRainy reports whether either condition field mentions rain.
func (w Weather) IsRainy() bool {
	return strings.Contains(strings.ToLower(w.WeatherMain), "rain") ||
		strings.Contains(strings.ToLower(w.Condition), "rain")
}

// SearchConstraints are optional provider filters.
type SearchConstraints struct {
	MaxReadyTime string
	Diet         string
}
