package themealdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pasarde/recipe-app/internal/core/provider"
	"github.com/pasarde/recipe-app/internal/pkg/common"
)

func newTestClient(t *testing.T, body string, status int) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewClient(provider.Config{BaseURL: srv.URL, Timeout: time.Second})
}

func TestSearchNormalisesQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search.php", r.URL.Path)
		assert.Equal(t, "soto", r.URL.Query().Get("s"))
		w.Write([]byte(`{"meals":[{"idMeal":"52772","strMeal":"Soto","strMealThumb":"https://img/s.jpg","strArea":"Indonesian","strCategory":"Chicken"}]}`))
	}))
	defer srv.Close()
	client := NewClient(provider.Config{BaseURL: srv.URL, Timeout: time.Second})

	meals := client.Search(context.Background(), "  SOTO ")
	require.Len(t, meals, 1)
	assert.Equal(t, Meal{ID: "52772", Name: "Soto", Thumb: "https://img/s.jpg", Area: "Indonesian", Category: "Chicken"}, meals[0])
}

func TestSearchToleratesOddBodies(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"null meals", `{"meals":null}`, http.StatusOK},
		{"missing meals", `{}`, http.StatusOK},
		{"meals not a list", `{"meals":"none"}`, http.StatusOK},
		{"list body", `[1,2,3]`, http.StatusOK},
		{"invalid json", `<html>`, http.StatusOK},
		{"server error", `oops`, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meals := newTestClient(t, tt.body, tt.status).Search(context.Background(), "x")
			assert.NotNil(t, meals)
			assert.Empty(t, meals)
		})
	}
}

func TestSearchSkipsNonObjectElements(t *testing.T) {
	meals := newTestClient(t, `{"meals":[1,"x",{"idMeal":"1","strMeal":"Rendang"}]}`, http.StatusOK).
		Search(context.Background(), "rendang")
	require.Len(t, meals, 1)
	assert.Equal(t, "Rendang", meals[0].Name)
}

func TestLookupCollectsIngredients(t *testing.T) {
	body := `{"meals":[{"idMeal":"1","strMeal":"Gado","strInstructions":"Mix",
		"strIngredient1":"Tofu","strMeasure1":"200g",
		"strIngredient2":" ","strMeasure2":"1 tsp",
		"strIngredient3":"Peanut Sauce","strMeasure3":"",
		"strIngredient4":null,"strMeasure4":null}]}`
	meal, err := newTestClient(t, body, http.StatusOK).Lookup(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, []string{"200g Tofu", "Peanut Sauce"}, meal.Ingredients)
	assert.Equal(t, "Mix", meal.Instructions)
}

func TestLookupErrors(t *testing.T) {
	_, err := newTestClient(t, `{"meals":null}`, http.StatusOK).Lookup(context.Background(), "1")
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = newTestClient(t, ``, http.StatusNotFound).Lookup(context.Background(), "1")
	assert.ErrorIs(t, err, common.ErrProviderUnavailable)

	_, err = newTestClient(t, `[]`, http.StatusOK).Lookup(context.Background(), "1")
	assert.ErrorIs(t, err, common.ErrMalformedResponse)
}
