package interaction

import (
	"context"

	"github.com/pasarde/recipe-app/internal/core/recipe"
	"github.com/pasarde/recipe-app/internal/pkg/common"

	"go.uber.org/zap"
)

// ErrEmptyComment is the validation message for blank comments.
const ErrEmptyComment = "Comment cannot be empty."

// AddComment sanitises and stores a comment.
func (s *Service) AddComment(ctx context.Context, userID int64, source common.Source, recipeID, content string) (*common.Comment, error) {
	clean := recipe.Sanitize(content)
	if clean == "" {
		return nil, common.NewValidationError(ErrEmptyComment)
	}

	c := &common.Comment{
		Content:      clean,
		UserID:       userID,
		RecipeSource: source,
		RecipeID:     recipeID,
		Timestamp:    s.now().UTC(),
	}
	id, err := s.store.AddComment(ctx, c)
	if err != nil {
		common.LogError("saving comment failed",
			zap.Int64("user_id", userID),
			zap.String("source", string(source)),
			zap.String("recipe_id", recipeID),
			zap.Error(err),
		)
		return nil, common.ErrPersistence.Wrap(err)
	}
	c.ID = id
	return c, nil
}

// Comments returns one page of a recipe's comments, newest first.
func (s *Service) Comments(ctx context.Context, source common.Source, recipeID string, page int) ([]common.Comment, common.Page, error) {
	p := common.NewPage(page, CommentsPerPage, 0)
	comments, total, err := s.store.ListComments(ctx, source, recipeID, CommentsPerPage, p.Offset())
	if err != nil {
		return nil, p, common.ErrPersistence.Wrap(err)
	}
	return comments, common.NewPage(page, CommentsPerPage, total), nil
}
