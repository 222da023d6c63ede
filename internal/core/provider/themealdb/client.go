package themealdb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/pasarde/recipe-app/internal/core/cache"
	"github.com/pasarde/recipe-app/internal/core/provider"
	"github.com/pasarde/recipe-app/internal/pkg/common"
)

const (
	name = "themealdb"

	// maxIngredients is the number of strIngredientN/strMeasureN pairs a meal carries.
	maxIngredients = 20
)

// Meal TheMealDB 餐點（已解碼）
type Meal struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Thumb        string   `json:"thumb"`
	Image        string   `json:"image,omitempty"`
	Area         string   `json:"area,omitempty"`
	Category     string   `json:"category,omitempty"`
	Instructions string   `json:"instructions,omitempty"`
	Ingredients  []string `json:"ingredients,omitempty"`
}

// Client TheMealDB API 客戶端（區域食譜）
type Client struct {
	http  *resty.Client
	cache cache.Store
}

// NewClient 創建新的 TheMealDB 客戶端
func NewClient(cfg provider.Config) *Client {
	return &Client{
		http:  provider.NewHTTPClient(cfg),
		cache: cfg.Cache,
	}
}

// Search looks meals up by name. The query is trimmed and lowercased. Any
// failure, a body that is not an object, or a missing meals list yields an
// empty slice.
func (c *Client) Search(ctx context.Context, query string) []Meal {
	q := strings.ToLower(strings.TrimSpace(query))
	return cache.Remember(ctx, c.cache, name, "search|"+q, func() ([]Meal, bool) {
		meals, err := c.fetch(ctx, "/search.php", map[string]string{"s": q})
		if err != nil {
			return []Meal{}, false
		}
		return meals, true
	})
}

// Lookup fetches one meal by id. An empty result is ErrNotFound.
func (c *Client) Lookup(ctx context.Context, id string) (*Meal, error) {
	if strings.TrimSpace(id) == "" {
		return nil, common.ErrNotFound
	}
	meals, err := c.fetch(ctx, "/lookup.php", map[string]string{"i": id})
	if err != nil {
		return nil, err
	}
	if len(meals) == 0 {
		return nil, common.ErrNotFound
	}
	return &meals[0], nil
}

func (c *Client) fetch(ctx context.Context, path string, params map[string]string) ([]Meal, error) {
	body, err := provider.Get(ctx, c.http, name, path, params)
	if err != nil {
		return nil, err
	}
	meals, err := decodeMeals(body)
	if err != nil {
		return nil, provider.Malformed(name, path, err)
	}
	return meals, nil
}

var errNotObject = errors.New("response body is not a JSON object")

// decodeMeals tolerates a non-object body (error), a null or non-list meals
// field (empty) and non-object list elements (skipped).
func decodeMeals(body []byte) ([]Meal, error) {
	var raw any
	if err := common.ParseJSONBytes(body, &raw); err != nil {
		return nil, err
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, errNotObject
	}

	list, ok := obj["meals"].([]any)
	if !ok {
		return []Meal{}, nil
	}

	meals := make([]Meal, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		meals = append(meals, toMeal(m))
	}
	return meals, nil
}

func toMeal(m map[string]any) Meal {
	meal := Meal{
		ID:           str(m, "idMeal"),
		Name:         str(m, "strMeal"),
		Thumb:        str(m, "strMealThumb"),
		Image:        str(m, "image"),
		Area:         str(m, "strArea"),
		Category:     str(m, "strCategory"),
		Instructions: str(m, "strInstructions"),
	}
	for i := 1; i <= maxIngredients; i++ {
		ingredient := str(m, fmt.Sprintf("strIngredient%d", i))
		if strings.TrimSpace(ingredient) == "" {
			continue
		}
		measure := str(m, fmt.Sprintf("strMeasure%d", i))
		meal.Ingredients = append(meal.Ingredients, strings.TrimSpace(measure+" "+ingredient))
	}
	return meal
}

// str reads a string-ish field; numeric ids are formatted, null is "".
func str(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	default:
		return ""
	}
}
