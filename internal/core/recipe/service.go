package recipe

import (
	"context"
	"math/rand"
	"strings"

	"github.com/pasarde/recipe-app/internal/pkg/common"

	"go.uber.org/zap"
)

// Service 食譜聚合服務
type Service struct {
	western     WesternCatalog
	regional    RegionalCatalog
	users       UserRecipeStore
	images      ImageSaver
	resolver    *Resolver
	placeholder string

	// shuffle permutes n elements. Replaced in tests for deterministic sampling.
	shuffle func(n int, swap func(i, j int))
}

// NewService 創建新的食譜服務
func NewService(western WesternCatalog, regional RegionalCatalog, users UserRecipeStore, images ImageSaver, placeholder string) *Service {
	if placeholder == "" {
		placeholder = common.DefaultPlaceholderImage
	}
	return &Service{
		western:  western,
		regional: regional,
		users:    users,
		images:   images,
		resolver: NewResolver(
			westernNormalizer{catalog: western, placeholder: placeholder},
			regionalNormalizer{catalog: regional, placeholder: placeholder},
			fallbackNormalizer{placeholder: placeholder},
			userNormalizer{store: users, placeholder: placeholder},
		),
		placeholder: placeholder,
		shuffle:     rand.Shuffle,
	}
}

// Resolve returns the full recipe for (source, id).
func (s *Service) Resolve(ctx context.Context, source common.Source, id string) (*common.Recipe, error) {
	return s.resolver.Resolve(ctx, source, id)
}

// SearchWestern searches the western catalog by name.
func (s *Service) SearchWestern(ctx context.Context, query string, constraints common.SearchConstraints) []common.Recipe {
	return s.western.SearchByName(ctx, query, SearchLimit, constraints)
}

// SearchByIngredients splits a comma separated ingredient list and searches
// the western catalog.
func (s *Service) SearchByIngredients(ctx context.Context, ingredients string, constraints common.SearchConstraints) []common.Recipe {
	return s.western.SearchByIngredients(ctx, strings.Split(ingredients, ","), SearchLimit, constraints)
}

// SearchUserRecipes returns up to SearchLimit user recipes whose title
// contains query. Store failures yield an empty list.
func (s *Service) SearchUserRecipes(ctx context.Context, query string) []common.Recipe {
	found, err := s.users.SearchUserRecipes(ctx, query, SearchLimit)
	if err != nil {
		common.LogError("user recipe search failed", zap.String("query", query), zap.Error(err))
		return []common.Recipe{}
	}
	out := make([]common.Recipe, 0, len(found))
	for _, r := range found {
		out = append(out, r.Summary(s.placeholder))
	}
	return out
}

// Search runs the search matching cuisine: western by name or by
// ingredients, indonesian through the regional path. Other cuisines only
// match user recipes. Matching user recipes are always appended.
func (s *Service) Search(ctx context.Context, params SearchParams) []common.Recipe {
	var results []common.Recipe
	switch params.Cuisine {
	case CuisineWestern:
		if params.Type == SearchTypeIngredients {
			results = s.SearchByIngredients(ctx, params.Query, params.Constraints)
		} else {
			results = s.SearchWestern(ctx, params.Query, params.Constraints)
		}
	case CuisineIndonesian:
		results = s.SearchRegional(ctx, params.Query, params.Region, SearchLimit)
	}

	out := make([]common.Recipe, 0, len(results)+SearchLimit)
	out = append(out, results...)
	return append(out, s.SearchUserRecipes(ctx, params.Query)...)
}

// Random samples min(n, available) recipes across the western catalog, the
// regional path and user submissions.
func (s *Service) Random(ctx context.Context, n int) []common.Recipe {
	if n <= 0 {
		return []common.Recipe{}
	}

	pool := s.western.SearchByName(ctx, "main course", n, common.SearchConstraints{})
	pool = append(pool, s.SearchRegional(ctx, "indonesian", "", n)...)

	users, err := s.users.ListUserRecipes(ctx, n)
	if err != nil {
		common.LogError("listing user recipes failed", zap.Error(err))
	}
	for _, r := range users {
		pool = append(pool, r.Summary(s.placeholder))
	}

	s.shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if n > len(pool) {
		n = len(pool)
	}
	return pool[:n]
}
