package spoonacular

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pasarde/recipe-app/internal/core/cache"
	"github.com/pasarde/recipe-app/internal/core/provider"
	"github.com/pasarde/recipe-app/internal/infrastructure/config"
	"github.com/pasarde/recipe-app/internal/pkg/common"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, store cache.Store) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(provider.Config{
		BaseURL:     srv.URL,
		APIKey:      "test-key",
		Timeout:     time.Second,
		Placeholder: common.DefaultPlaceholderImage,
		Cache:       store,
	})
}

func TestSearchByNameSendsParameters(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/recipes/complexSearch", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "test-key", q.Get("apiKey"))
		assert.Equal(t, "pasta", q.Get("query"))
		assert.Equal(t, "5", q.Get("number"))
		assert.Equal(t, "main course", q.Get("type"))
		assert.Equal(t, "true", q.Get("addRecipeInformation"))
		assert.Equal(t, "30", q.Get("maxReadyTime"))
		assert.False(t, q.Has("diet"))
		w.Write([]byte(`{"results":[{"id":42,"title":"Creamy Pasta","image":"https://img/42.jpg"},{"id":7,"title":"Plain Pasta"}]}`))
	}, nil)

	got := client.SearchByName(context.Background(), "pasta", 5, common.SearchConstraints{MaxReadyTime: "30"})
	require.Len(t, got, 2)
	assert.Equal(t, common.Recipe{ID: "42", Title: "Creamy Pasta", Source: common.SourceSpoonacular, Image: "https://img/42.jpg"}, got[0])
	assert.Equal(t, common.DefaultPlaceholderImage, got[1].Image)
}

func TestSearchDegradesToEmpty(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"non-200", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusPaymentRequired)
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler, nil)
			got := client.SearchByName(context.Background(), "soup", 1, common.SearchConstraints{})
			assert.NotNil(t, got)
			assert.Empty(t, got)

			got = client.SearchByIngredients(context.Background(), []string{"egg"}, 1, common.SearchConstraints{})
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestTransportErrorDegradesToEmpty(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client := NewClient(provider.Config{BaseURL: srv.URL, Timeout: time.Second})

	assert.Empty(t, client.SearchByName(context.Background(), "soup", 1, common.SearchConstraints{}))
	_, err := client.Information(context.Background(), "1")
	assert.ErrorIs(t, err, common.ErrProviderUnavailable)
}

func TestSearchByIngredients(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/recipes/findByIngredients", r.URL.Path)
		assert.Equal(t, "egg,rice", r.URL.Query().Get("ingredients"))
		assert.Equal(t, "1", r.URL.Query().Get("ranking"))
		assert.Equal(t, "vegetarian", r.URL.Query().Get("diet"))
		w.Write([]byte(`[{"id":9,"title":"Fried Rice","image":""}]`))
	}, nil)

	got := client.SearchByIngredients(context.Background(), []string{" egg", "rice ", ""}, 5, common.SearchConstraints{Diet: "vegetarian"})
	require.Len(t, got, 1)
	assert.Equal(t, "9", got[0].ID)
	assert.Equal(t, common.DefaultPlaceholderImage, got[0].Image)
}

func TestSearchIsMemoisedOnlyOnSuccess(t *testing.T) {
	m := cache.NewManager(config.CacheConfig{Enabled: true, MaxSize: 10, TTL: time.Minute})
	defer m.Close()

	calls := 0
	status := http.StatusInternalServerError
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(status)
		if status == http.StatusOK {
			w.Write([]byte(`{"results":[{"id":1,"title":"Soup"}]}`))
		}
	}, m)

	ctx := context.Background()
	assert.Empty(t, client.SearchByName(ctx, "soup", 1, common.SearchConstraints{}))
	status = http.StatusOK
	assert.Len(t, client.SearchByName(ctx, "soup", 1, common.SearchConstraints{}), 1)
	assert.Len(t, client.SearchByName(ctx, "soup", 1, common.SearchConstraints{}), 1)
	assert.Equal(t, 2, calls)
}

func TestInformation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/recipes/716429/information", r.URL.Path)
		w.Write([]byte(`{"id":716429,"title":"Pasta","image":"https://img/p.jpg","instructions":"<p>Boil</p>",
			"extendedIngredients":[{"original":"1 lb pasta"},{"original":"2 cups water"}]}`))
	}, nil)

	info, err := client.Information(context.Background(), "716429")
	require.NoError(t, err)
	assert.Equal(t, "Pasta", info.Title)
	assert.Equal(t, []string{"1 lb pasta", "2 cups water"}, info.IngredientLines())

	_, err = client.Information(context.Background(), "not-a-number")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
