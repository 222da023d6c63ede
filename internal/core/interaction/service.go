package interaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pasarde/recipe-app/internal/pkg/common"

	"go.uber.org/zap"
)

const (
	// CommentsPerPage 每頁留言數
	CommentsPerPage = 5
	// LikedPerPage 個人頁每頁按讚食譜數
	LikedPerPage = 3
)

// Store persists the interaction ledger and comments.
type Store interface {
	// ToggleInteraction flips the interaction inside one transaction and keeps
	// user recipe counters in step, floored at zero. It reports whether the
	// interaction is active afterwards and returns common.ErrNotFound when
	// source is user and the recipe does not exist.
	ToggleInteraction(ctx context.Context, userID int64, source common.Source, recipeID string, kind common.InteractionKind) (bool, error)
	CountInteractions(ctx context.Context, source common.Source, recipeID string, kind common.InteractionKind) (int, error)
	HasInteraction(ctx context.Context, userID int64, source common.Source, recipeID string, kind common.InteractionKind) (bool, error)
	// ListInteractions pages a user's interactions of one kind, oldest first.
	// A non-positive limit returns all of them.
	ListInteractions(ctx context.Context, userID int64, kind common.InteractionKind, limit, offset int) ([]common.Interaction, int, error)

	AddComment(ctx context.Context, c *common.Comment) (int64, error)
	// ListComments pages a recipe's comments, newest first.
	ListComments(ctx context.Context, source common.Source, recipeID string, limit, offset int) ([]common.Comment, int, error)
}

// Resolver turns a (source, id) reference into a recipe.
type Resolver interface {
	Resolve(ctx context.Context, source common.Source, id string) (*common.Recipe, error)
}

// State is the like/save view of one recipe for one caller.
type State struct {
	Likes     int  `json:"likes"`
	Saves     int  `json:"saves"`
	UserLiked bool `json:"user_liked"`
	UserSaved bool `json:"user_saved"`
}

// Service 互動服務（按讚、收藏、留言）
type Service struct {
	store    Store
	guard    Guard
	resolver Resolver
	now      func() time.Time
}

// NewService 創建新的互動服務
func NewService(store Store, guard Guard, resolver Resolver) *Service {
	return &Service{
		store:    store,
		guard:    guard,
		resolver: resolver,
		now:      time.Now,
	}
}

// GuardKey identifies one user action for the duplicate-submission guard.
func GuardKey(userID int64, source common.Source, recipeID string, kind common.InteractionKind) string {
	return fmt.Sprintf("interact_%d_%s_%s_%s", userID, source, recipeID, kind)
}

// Toggle flips a like or save and returns the resulting state. A second
// toggle for the same key while one is in flight gets ErrDuplicateAction.
// The guard is released on every path, including failures.
func (s *Service) Toggle(ctx context.Context, userID int64, source common.Source, recipeID string, kind common.InteractionKind) (*State, error) {
	key := GuardKey(userID, source, recipeID, kind)

	ok, err := s.guard.Acquire(ctx, key)
	if err != nil {
		common.LogError("acquiring interaction guard failed", zap.String("key", key), zap.Error(err))
		return nil, common.ErrPersistence.Wrap(err)
	}
	if !ok {
		return nil, common.ErrDuplicateAction
	}
	defer func() {
		// release even when the request context is already cancelled
		if err := s.guard.Release(context.WithoutCancel(ctx), key); err != nil {
			common.LogError("releasing interaction guard failed", zap.String("key", key), zap.Error(err))
		}
	}()

	active, err := s.store.ToggleInteraction(ctx, userID, source, recipeID, kind)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		common.LogError("interaction toggle failed",
			zap.Int64("user_id", userID),
			zap.String("source", string(source)),
			zap.String("recipe_id", recipeID),
			zap.String("action", string(kind)),
			zap.Error(err),
		)
		return nil, common.ErrPersistence.Wrap(err)
	}

	common.LogDebug("interaction toggled",
		zap.String("key", key),
		zap.Bool("active", active),
	)

	state, err := s.State(ctx, userID, source, recipeID)
	if err != nil {
		return nil, err
	}
	return state, nil
}

// State counts likes and saves from the ledger for every source. userID 0
// means an anonymous caller.
func (s *Service) State(ctx context.Context, userID int64, source common.Source, recipeID string) (*State, error) {
	var st State
	var err error

	if st.Likes, err = s.store.CountInteractions(ctx, source, recipeID, common.KindLike); err != nil {
		return nil, common.ErrPersistence.Wrap(err)
	}
	if st.Saves, err = s.store.CountInteractions(ctx, source, recipeID, common.KindSave); err != nil {
		return nil, common.ErrPersistence.Wrap(err)
	}
	if userID == 0 {
		return &st, nil
	}
	if st.UserLiked, err = s.store.HasInteraction(ctx, userID, source, recipeID, common.KindLike); err != nil {
		return nil, common.ErrPersistence.Wrap(err)
	}
	if st.UserSaved, err = s.store.HasInteraction(ctx, userID, source, recipeID, common.KindSave); err != nil {
		return nil, common.ErrPersistence.Wrap(err)
	}
	return &st, nil
}
