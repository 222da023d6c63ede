package recipe

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pasarde/recipe-app/internal/pkg/common"
)

// Normalizer resolves a recipe of one source into the common shape with
// ingredients and sanitised instructions.
type Normalizer interface {
	Source() common.Source
	Lookup(ctx context.Context, id string) (*common.Recipe, error)
}

type westernNormalizer struct {
	catalog     WesternCatalog
	placeholder string
}

func (n westernNormalizer) Source() common.Source { return common.SourceSpoonacular }

func (n westernNormalizer) Lookup(ctx context.Context, id string) (*common.Recipe, error) {
	info, err := n.catalog.Information(ctx, id)
	if err != nil {
		return nil, err
	}
	return &common.Recipe{
		ID:           strconv.FormatInt(info.ID, 10),
		Title:        info.Title,
		Source:       common.SourceSpoonacular,
		Image:        common.ImageOr(n.placeholder, info.Image),
		Ingredients:  info.IngredientLines(),
		Instructions: sanitizeInstructions(info.Instructions),
	}, nil
}

type regionalNormalizer struct {
	catalog     RegionalCatalog
	placeholder string
}

func (n regionalNormalizer) Source() common.Source { return common.SourceTheMealDB }

func (n regionalNormalizer) Lookup(ctx context.Context, id string) (*common.Recipe, error) {
	meal, err := n.catalog.Lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	title := meal.Name
	if title == "" {
		title = "TheMealDB Recipe"
	}
	return &common.Recipe{
		ID:           id,
		Title:        title,
		Source:       common.SourceTheMealDB,
		Image:        common.ImageOr(n.placeholder, meal.Thumb, meal.Image),
		Ingredients:  meal.Ingredients,
		Instructions: sanitizeInstructions(meal.Instructions),
	}, nil
}

type fallbackNormalizer struct {
	placeholder string
}

func (n fallbackNormalizer) Source() common.Source { return common.SourceFallback }

func (n fallbackNormalizer) Lookup(_ context.Context, id string) (*common.Recipe, error) {
	r, ok := FallbackByID(id)
	if !ok {
		return nil, common.ErrNotFound
	}
	out := r.Recipe
	out.Image = common.ImageOr(n.placeholder, out.Image)
	return &out, nil
}

type userNormalizer struct {
	store       UserRecipeStore
	placeholder string
}

func (n userNormalizer) Source() common.Source { return common.SourceUser }

func (n userNormalizer) Lookup(ctx context.Context, id string) (*common.Recipe, error) {
	recipeID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, common.ErrNotFound
	}
	ur, err := n.store.GetUserRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	out := ur.Summary(n.placeholder)
	out.Ingredients = strings.Split(ur.Ingredients, "\n")
	out.Instructions = Sanitize(ur.Instructions)
	return &out, nil
}

// Resolver dispatches lookups to the normalizer of each source.
type Resolver struct {
	normalizers map[common.Source]Normalizer
}

// NewResolver registers one normalizer per source.
func NewResolver(normalizers ...Normalizer) *Resolver {
	r := &Resolver{normalizers: make(map[common.Source]Normalizer, len(normalizers))}
	for _, n := range normalizers {
		r.normalizers[n.Source()] = n
	}
	return r
}

// Resolve looks (source, id) up. Unknown sources are ErrNotFound.
func (r *Resolver) Resolve(ctx context.Context, source common.Source, id string) (*common.Recipe, error) {
	n, ok := r.normalizers[source]
	if !ok {
		return nil, common.ErrNotFound.Wrap(fmt.Errorf("unknown source %q", source))
	}
	return n.Lookup(ctx, id)
}
