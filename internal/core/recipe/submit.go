package recipe

import (
	"context"
	"fmt"
	"strings"

	"github.com/pasarde/recipe-app/internal/pkg/common"

	"go.uber.org/zap"
)

// ErrMissingFields is the validation message for incomplete submissions.
const ErrMissingFields = "Please fill out all required fields."

// Submit validates and stores a user recipe. Instructions are sanitised
// before the required-field check. The region is kept only for indonesian
// cuisine. Nothing is persisted when validation fails.
func (s *Service) Submit(ctx context.Context, userID int64, in SubmitInput) (*common.UserRecipe, error) {
	title := strings.TrimSpace(in.Title)
	ingredients := strings.TrimSpace(in.Ingredients)
	instructions := Sanitize(in.Instructions)
	cuisine := strings.TrimSpace(in.Cuisine)

	if title == "" || ingredients == "" || instructions == "" || cuisine == "" {
		return nil, common.NewValidationError(ErrMissingFields)
	}

	r := &common.UserRecipe{
		Title:        title,
		Ingredients:  ingredients,
		Instructions: instructions,
		Cuisine:      cuisine,
		UserID:       userID,
	}
	if region := strings.TrimSpace(in.Region); cuisine == CuisineIndonesian && region != "" {
		r.Region = &region
	}

	if in.Image != nil && in.Image.Filename != "" && s.images != nil {
		path, err := s.images.Save(ctx, in.Image.Filename, in.Image.Body)
		if err != nil {
			if common.IsValidationError(err) {
				return nil, err
			}
			return nil, common.ErrPersistence.Wrap(fmt.Errorf("save image: %w", err))
		}
		r.Image = &path
	}

	id, err := s.users.CreateUserRecipe(ctx, r)
	if err != nil {
		return nil, common.ErrPersistence.Wrap(err)
	}
	r.ID = id

	common.LogInfo("user recipe submitted",
		zap.Int64("recipe_id", id),
		zap.Int64("user_id", userID),
		zap.String("cuisine", cuisine),
	)
	return r, nil
}
