package recipe

import (
	"context"
	"io"

	"github.com/pasarde/recipe-app/internal/core/provider/spoonacular"
	"github.com/pasarde/recipe-app/internal/core/provider/themealdb"
	"github.com/pasarde/recipe-app/internal/pkg/common"
)

// WesternCatalog 西式食譜來源（Spoonacular）
type WesternCatalog interface {
	SearchByName(ctx context.Context, query string, number int, constraints common.SearchConstraints) []common.Recipe
	SearchByIngredients(ctx context.Context, ingredients []string, number int, constraints common.SearchConstraints) []common.Recipe
	Information(ctx context.Context, id string) (*spoonacular.Information, error)
}

// RegionalCatalog 區域食譜來源（TheMealDB）
type RegionalCatalog interface {
	Search(ctx context.Context, query string) []themealdb.Meal
	Lookup(ctx context.Context, id string) (*themealdb.Meal, error)
}

// UserRecipeStore persists user submissions. GetUserRecipe returns
// common.ErrNotFound for unknown ids.
type UserRecipeStore interface {
	GetUserRecipe(ctx context.Context, id int64) (*common.UserRecipe, error)
	ListUserRecipes(ctx context.Context, limit int) ([]common.UserRecipe, error)
	SearchUserRecipes(ctx context.Context, query string, limit int) ([]common.UserRecipe, error)
	CreateUserRecipe(ctx context.Context, r *common.UserRecipe) (int64, error)
}

// ImageSaver stores an uploaded image and returns its public path.
type ImageSaver interface {
	Save(ctx context.Context, filename string, src io.Reader) (string, error)
}

// Upload 上傳的圖片
type Upload struct {
	Filename string
	Body     io.Reader
}

// SubmitInput 使用者提交食譜的內容
type SubmitInput struct {
	Title        string
	Ingredients  string
	Instructions string
	Cuisine      string
	Region       string
	Image        *Upload
}

const (
	// CuisineWestern routes searches to the western catalog.
	CuisineWestern = "western"
	// CuisineIndonesian routes searches to the regional path.
	CuisineIndonesian = "indonesian"

	// SearchLimit is the number of results per provider search.
	SearchLimit = 5

	SearchTypeName        = "name"
	SearchTypeIngredients = "ingredients"
)

// SearchParams 搜尋參數
type SearchParams struct {
	Query       string
	Cuisine     string
	Type        string
	Region      string
	Constraints common.SearchConstraints
}
