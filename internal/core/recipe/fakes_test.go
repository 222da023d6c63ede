package recipe

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/pasarde/recipe-app/internal/core/provider/spoonacular"
	"github.com/pasarde/recipe-app/internal/core/provider/themealdb"
	"github.com/pasarde/recipe-app/internal/pkg/common"
)

type fakeWestern struct {
	byQuery map[string][]common.Recipe
	info    map[string]*spoonacular.Information
	queries []string
}

func (f *fakeWestern) SearchByName(_ context.Context, query string, number int, _ common.SearchConstraints) []common.Recipe {
	f.queries = append(f.queries, query)
	res := f.byQuery[query]
	if len(res) > number {
		res = res[:number]
	}
	return append([]common.Recipe{}, res...)
}

func (f *fakeWestern) SearchByIngredients(_ context.Context, ingredients []string, number int, _ common.SearchConstraints) []common.Recipe {
	f.queries = append(f.queries, "ingredients:"+strings.Join(ingredients, ","))
	return []common.Recipe{}
}

func (f *fakeWestern) Information(_ context.Context, id string) (*spoonacular.Information, error) {
	if info, ok := f.info[id]; ok {
		return info, nil
	}
	return nil, common.ErrProviderUnavailable
}

type fakeRegional struct {
	byQuery map[string][]themealdb.Meal
	meals   map[string]*themealdb.Meal
	queries []string
}

func (f *fakeRegional) Search(_ context.Context, query string) []themealdb.Meal {
	f.queries = append(f.queries, query)
	return append([]themealdb.Meal{}, f.byQuery[query]...)
}

func (f *fakeRegional) Lookup(_ context.Context, id string) (*themealdb.Meal, error) {
	if m, ok := f.meals[id]; ok {
		return m, nil
	}
	return nil, common.ErrNotFound
}

type fakeUsers struct {
	recipes []common.UserRecipe
	err     error
	created []*common.UserRecipe
}

func (f *fakeUsers) GetUserRecipe(_ context.Context, id int64) (*common.UserRecipe, error) {
	for i := range f.recipes {
		if f.recipes[i].ID == id {
			return &f.recipes[i], nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUsers) ListUserRecipes(_ context.Context, limit int) ([]common.UserRecipe, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.recipes) > limit {
		return f.recipes[:limit], nil
	}
	return f.recipes, nil
}

func (f *fakeUsers) SearchUserRecipes(_ context.Context, query string, limit int) ([]common.UserRecipe, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []common.UserRecipe
	for _, r := range f.recipes {
		if strings.Contains(strings.ToLower(r.Title), strings.ToLower(query)) && len(out) < limit {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeUsers) CreateUserRecipe(_ context.Context, r *common.UserRecipe) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.created = append(f.created, r)
	return int64(100 + len(f.created)), nil
}

type fakeImages struct {
	saved []string
	err   error
}

func (f *fakeImages) Save(_ context.Context, filename string, src io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if _, err := io.ReadAll(src); err != nil {
		return "", err
	}
	f.saved = append(f.saved, filename)
	return "/static/uploads/" + filename, nil
}

var errStore = errors.New("store down")

type fixture struct {
	western  *fakeWestern
	regional *fakeRegional
	users    *fakeUsers
	images   *fakeImages
	svc      *Service
}

func newFixture() *fixture {
	f := &fixture{
		western:  &fakeWestern{byQuery: map[string][]common.Recipe{}, info: map[string]*spoonacular.Information{}},
		regional: &fakeRegional{byQuery: map[string][]themealdb.Meal{}, meals: map[string]*themealdb.Meal{}},
		users:    &fakeUsers{},
		images:   &fakeImages{},
	}
	f.svc = NewService(f.western, f.regional, f.users, f.images, common.DefaultPlaceholderImage)
	// identity permutation keeps sampling deterministic
	f.svc.shuffle = func(int, func(i, j int)) {}
	return f
}

func ids(recipes []common.Recipe) []string {
	out := make([]string, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, r.ID)
	}
	return out
}
