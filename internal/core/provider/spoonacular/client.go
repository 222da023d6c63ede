package spoonacular

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/pasarde/recipe-app/internal/core/cache"
	"github.com/pasarde/recipe-app/internal/core/provider"
	"github.com/pasarde/recipe-app/internal/pkg/common"
)

const name = "spoonacular"

// Client Spoonacular API 客戶端（西式食譜）
type Client struct {
	http        *resty.Client
	apiKey      string
	placeholder string
	cache       cache.Store
}

// searchResult is one entry of complexSearch or findByIngredients.
type searchResult struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Image string `json:"image"`
}

type complexSearchResponse struct {
	Results []searchResult `json:"results"`
}

// Information is the detail payload of /recipes/{id}/information.
type Information struct {
	ID                  int64        `json:"id"`
	Title               string       `json:"title"`
	Image               string       `json:"image"`
	Instructions        string       `json:"instructions"`
	ExtendedIngredients []Ingredient `json:"extendedIngredients"`
}

// Ingredient is one line of extendedIngredients.
type Ingredient struct {
	Original string `json:"original"`
}

// NewClient 創建新的 Spoonacular 客戶端
func NewClient(cfg provider.Config) *Client {
	return &Client{
		http:        provider.NewHTTPClient(cfg),
		apiKey:      cfg.APIKey,
		placeholder: cfg.Placeholder,
		cache:       cfg.Cache,
	}
}

// SearchByName returns main-course recipes matching query. Failures yield an
// empty list.
func (c *Client) SearchByName(ctx context.Context, query string, number int, constraints common.SearchConstraints) []common.Recipe {
	key := fmt.Sprintf("name|%s|%d|%s|%s", query, number, constraints.MaxReadyTime, constraints.Diet)
	return cache.Remember(ctx, c.cache, name, key, func() ([]common.Recipe, bool) {
		path := "/recipes/complexSearch"
		body, err := provider.Get(ctx, c.http, name, path, provider.WithConstraints(map[string]string{
			"apiKey":               c.apiKey,
			"query":                query,
			"number":               strconv.Itoa(number),
			"addRecipeInformation": "true",
			"instructionsRequired": "true",
			"type":                 "main course",
		}, constraints))
		if err != nil {
			return []common.Recipe{}, false
		}

		var resp complexSearchResponse
		if err := common.ParseJSONBytes(body, &resp); err != nil {
			provider.Malformed(name, path, err)
			return []common.Recipe{}, false
		}
		return c.toRecipes(resp.Results), true
	})
}

// SearchByIngredients returns recipes using the given ingredients, ranked to
// maximise used ingredients.
func (c *Client) SearchByIngredients(ctx context.Context, ingredients []string, number int, constraints common.SearchConstraints) []common.Recipe {
	cleaned := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		if ing = strings.TrimSpace(ing); ing != "" {
			cleaned = append(cleaned, ing)
		}
	}
	joined := strings.Join(cleaned, ",")

	key := fmt.Sprintf("ingredients|%s|%d|%s|%s", joined, number, constraints.MaxReadyTime, constraints.Diet)
	return cache.Remember(ctx, c.cache, name, key, func() ([]common.Recipe, bool) {
		path := "/recipes/findByIngredients"
		body, err := provider.Get(ctx, c.http, name, path, provider.WithConstraints(map[string]string{
			"apiKey":      c.apiKey,
			"ingredients": joined,
			"number":      strconv.Itoa(number),
			"ranking":     "1",
		}, constraints))
		if err != nil {
			return []common.Recipe{}, false
		}

		var results []searchResult
		if err := common.ParseJSONBytes(body, &results); err != nil {
			provider.Malformed(name, path, err)
			return []common.Recipe{}, false
		}
		return c.toRecipes(results), true
	})
}

// Information fetches the full recipe. Errors are ProviderUnavailable or
// MalformedResponse.
func (c *Client) Information(ctx context.Context, id string) (*Information, error) {
	if _, err := strconv.ParseInt(id, 10, 64); err != nil {
		return nil, common.ErrNotFound
	}

	path := "/recipes/" + id + "/information"
	body, err := provider.Get(ctx, c.http, name, path, map[string]string{"apiKey": c.apiKey})
	if err != nil {
		return nil, err
	}

	var info Information
	if err := common.ParseJSONBytes(body, &info); err != nil {
		return nil, provider.Malformed(name, path, err)
	}
	return &info, nil
}

// IngredientLines returns the original ingredient lines in order.
func (i *Information) IngredientLines() []string {
	lines := make([]string, 0, len(i.ExtendedIngredients))
	for _, ing := range i.ExtendedIngredients {
		if ing.Original != "" {
			lines = append(lines, ing.Original)
		}
	}
	return lines
}

func (c *Client) toRecipes(results []searchResult) []common.Recipe {
	recipes := make([]common.Recipe, 0, len(results))
	for _, r := range results {
		recipes = append(recipes, common.Recipe{
			ID:     strconv.FormatInt(r.ID, 10),
			Title:  r.Title,
			Source: common.SourceSpoonacular,
			Image:  common.ImageOr(c.placeholder, r.Image),
		})
	}
	return recipes
}
