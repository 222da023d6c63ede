package interaction

import (
	"context"

	"github.com/pasarde/recipe-app/internal/pkg/common"

	"go.uber.org/zap"
)

// LikedRecipe pairs a like with the recipe it points at.
type LikedRecipe struct {
	Recipe      common.Recipe      `json:"recipe"`
	Interaction common.Interaction `json:"interaction"`
}

// Profile 使用者個人頁
type Profile struct {
	Liked []LikedRecipe        `json:"liked"`
	Page  common.Page          `json:"page"`
	Saved []common.Interaction `json:"saved"`
}

// Profile pages the caller's likes, resolving each through its source, and
// lists every save. Likes whose recipe cannot be resolved are skipped.
func (s *Service) Profile(ctx context.Context, userID int64, page int) (*Profile, error) {
	p := common.NewPage(page, LikedPerPage, 0)
	liked, total, err := s.store.ListInteractions(ctx, userID, common.KindLike, LikedPerPage, p.Offset())
	if err != nil {
		return nil, common.ErrPersistence.Wrap(err)
	}

	out := &Profile{
		Liked: make([]LikedRecipe, 0, len(liked)),
		Page:  common.NewPage(page, LikedPerPage, total),
	}
	for _, in := range liked {
		r, err := s.resolver.Resolve(ctx, in.RecipeSource, in.RecipeID)
		if err != nil {
			common.LogWarn("skipping unresolvable liked recipe",
				zap.String("source", string(in.RecipeSource)),
				zap.String("recipe_id", in.RecipeID),
				zap.Error(err),
			)
			continue
		}
		summary := *r
		summary.Ingredients = nil
		summary.Instructions = ""
		out.Liked = append(out.Liked, LikedRecipe{Recipe: summary, Interaction: in})
	}

	saved, _, err := s.store.ListInteractions(ctx, userID, common.KindSave, 0, 0)
	if err != nil {
		return nil, common.ErrPersistence.Wrap(err)
	}
	if saved == nil {
		saved = []common.Interaction{}
	}
	out.Saved = saved
	return out, nil
}
