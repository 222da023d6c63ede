package recipe

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pasarde/recipe-app/internal/pkg/common"
)

func TestSubmitValidation(t *testing.T) {
	tests := []struct {
		name string
		in   SubmitInput
	}{
		{"missing title", SubmitInput{Ingredients: "a", Instructions: "b", Cuisine: "western"}},
		{"missing ingredients", SubmitInput{Title: "t", Instructions: "b", Cuisine: "western"}},
		{"instructions empty after sanitising", SubmitInput{Title: "t", Ingredients: "a", Instructions: "<script>x</script>", Cuisine: "western"}},
		{"missing cuisine", SubmitInput{Title: "t", Ingredients: "a", Instructions: "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.svc.Submit(context.Background(), 1, tt.in)
			require.Error(t, err)
			assert.True(t, common.IsValidationError(err))
			assert.Equal(t, ErrMissingFields, err.Error())
			assert.Empty(t, f.users.created)
		})
	}
}

func TestSubmitRegionOnlyForIndonesian(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	r, err := f.svc.Submit(ctx, 1, SubmitInput{Title: "Rawon", Ingredients: "beef\nkluwek", Instructions: "Cook", Cuisine: "indonesian", Region: "Java"})
	require.NoError(t, err)
	require.NotNil(t, r.Region)
	assert.Equal(t, "Java", *r.Region)
	assert.Equal(t, int64(101), r.ID)

	r, err = f.svc.Submit(ctx, 1, SubmitInput{Title: "Stew", Ingredients: "beef", Instructions: "Cook", Cuisine: "western", Region: "Java"})
	require.NoError(t, err)
	assert.Nil(t, r.Region)
}

func TestSubmitWithImage(t *testing.T) {
	f := newFixture()

	r, err := f.svc.Submit(context.Background(), 2, SubmitInput{
		Title: "Klepon", Ingredients: "rice flour", Instructions: "<strong>Boil</strong>", Cuisine: "indonesian",
		Image: &Upload{Filename: "klepon.png", Body: strings.NewReader("png")},
	})
	require.NoError(t, err)
	require.NotNil(t, r.Image)
	assert.Equal(t, "/static/uploads/klepon.png", *r.Image)
	assert.Equal(t, "<strong>Boil</strong>", r.Instructions)
}

func TestSubmitFailures(t *testing.T) {
	f := newFixture()
	f.images.err = common.NewValidationError("File type not allowed.")
	_, err := f.svc.Submit(context.Background(), 2, SubmitInput{
		Title: "x", Ingredients: "y", Instructions: "z", Cuisine: "western",
		Image: &Upload{Filename: "a.exe", Body: strings.NewReader("")},
	})
	assert.True(t, common.IsValidationError(err))

	f = newFixture()
	f.users.err = errors.New("insert failed")
	_, err = f.svc.Submit(context.Background(), 2, SubmitInput{Title: "x", Ingredients: "y", Instructions: "z", Cuisine: "western"})
	assert.ErrorIs(t, err, common.ErrPersistence)
}
