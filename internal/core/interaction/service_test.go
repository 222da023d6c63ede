package interaction

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pasarde/recipe-app/internal/pkg/common"
)

type fakeStore struct {
	mu           sync.Mutex
	interactions []common.Interaction
	comments     []common.Comment
	userRecipes  map[string]*common.UserRecipe
	toggleErr    error
	commentErr   error

	// entered and proceed let a test hold ToggleInteraction open.
	entered chan struct{}
	proceed chan struct{}
}

func newFakeStore() *fakeStore {
	return &fakeStore{userRecipes: map[string]*common.UserRecipe{}}
}

func (f *fakeStore) ToggleInteraction(_ context.Context, userID int64, source common.Source, recipeID string, kind common.InteractionKind) (bool, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
		<-f.proceed
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.toggleErr != nil {
		return false, f.toggleErr
	}

	var ur *common.UserRecipe
	if source == common.SourceUser {
		ur = f.userRecipes[recipeID]
		if ur == nil {
			return false, common.ErrNotFound
		}
	}
	counter := func(delta int) {
		if ur == nil {
			return
		}
		if kind == common.KindLike {
			ur.Likes = max(0, ur.Likes+delta)
		} else {
			ur.Saves = max(0, ur.Saves+delta)
		}
	}

	for i, in := range f.interactions {
		if in.UserID == userID && in.RecipeSource == source && in.RecipeID == recipeID && in.Kind == kind {
			f.interactions = append(f.interactions[:i], f.interactions[i+1:]...)
			counter(-1)
			return false, nil
		}
	}
	f.interactions = append(f.interactions, common.Interaction{
		ID: int64(len(f.interactions) + 1), UserID: userID, RecipeSource: source, RecipeID: recipeID, Kind: kind,
	})
	counter(1)
	return true, nil
}

func (f *fakeStore) CountInteractions(_ context.Context, source common.Source, recipeID string, kind common.InteractionKind) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, in := range f.interactions {
		if in.RecipeSource == source && in.RecipeID == recipeID && in.Kind == kind {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) HasInteraction(_ context.Context, userID int64, source common.Source, recipeID string, kind common.InteractionKind) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, in := range f.interactions {
		if in.UserID == userID && in.RecipeSource == source && in.RecipeID == recipeID && in.Kind == kind {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) ListInteractions(_ context.Context, userID int64, kind common.InteractionKind, limit, offset int) ([]common.Interaction, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []common.Interaction
	for _, in := range f.interactions {
		if in.UserID == userID && in.Kind == kind {
			all = append(all, in)
		}
	}
	total := len(all)
	if limit <= 0 {
		return all, total, nil
	}
	if offset >= total {
		return []common.Interaction{}, total, nil
	}
	return all[offset:min(total, offset+limit)], total, nil
}

func (f *fakeStore) AddComment(_ context.Context, c *common.Comment) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.commentErr != nil {
		return 0, f.commentErr
	}
	c.ID = int64(len(f.comments) + 1)
	f.comments = append(f.comments, *c)
	return c.ID, nil
}

func (f *fakeStore) ListComments(_ context.Context, source common.Source, recipeID string, limit, offset int) ([]common.Comment, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []common.Comment
	for _, c := range f.comments {
		if c.RecipeSource == source && c.RecipeID == recipeID {
			all = append(all, c)
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Timestamp.After(all[j].Timestamp) })
	total := len(all)
	if offset >= total {
		return []common.Comment{}, total, nil
	}
	return all[offset:min(total, offset+limit)], total, nil
}

type fakeResolver struct{}

func (fakeResolver) Resolve(_ context.Context, source common.Source, id string) (*common.Recipe, error) {
	if id == "gone" {
		return nil, common.ErrNotFound
	}
	return &common.Recipe{ID: id, Title: "Recipe " + id, Source: source, Image: "i", Ingredients: []string{"x"}}, nil
}

func newTestService(store *fakeStore) (*Service, *MemoryGuard) {
	guard := NewMemoryGuard(10*time.Second, 0)
	return NewService(store, guard, fakeResolver{}), guard
}

func TestToggleLikeTwiceRestoresState(t *testing.T) {
	store := newFakeStore()
	store.userRecipes["7"] = &common.UserRecipe{ID: 7, Likes: 0}
	svc, guard := newTestService(store)
	ctx := context.Background()

	st, err := svc.Toggle(ctx, 1, common.SourceUser, "7", common.KindLike)
	require.NoError(t, err)
	assert.Equal(t, State{Likes: 1, Saves: 0, UserLiked: true}, *st)
	assert.Equal(t, 1, store.userRecipes["7"].Likes)

	st, err = svc.Toggle(ctx, 1, common.SourceUser, "7", common.KindLike)
	require.NoError(t, err)
	assert.Equal(t, State{}, *st)
	assert.Equal(t, 0, store.userRecipes["7"].Likes)

	assert.False(t, guard.Held(GuardKey(1, common.SourceUser, "7", common.KindLike)))
}

func TestToggleCountsComeFromLedger(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store)
	ctx := context.Background()

	_, err := svc.Toggle(ctx, 1, common.SourceFallback, "rendang", common.KindLike)
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, 2, common.SourceFallback, "rendang", common.KindLike)
	require.NoError(t, err)
	st, err := svc.Toggle(ctx, 2, common.SourceFallback, "rendang", common.KindSave)
	require.NoError(t, err)
	assert.Equal(t, State{Likes: 2, Saves: 1, UserLiked: true, UserSaved: true}, *st)

	anon, err := svc.State(ctx, 0, common.SourceFallback, "rendang")
	require.NoError(t, err)
	assert.Equal(t, State{Likes: 2, Saves: 1}, *anon)
}

func TestToggleRejectsConcurrentDuplicate(t *testing.T) {
	store := newFakeStore()
	store.entered = make(chan struct{})
	store.proceed = make(chan struct{})
	svc, guard := newTestService(store)
	ctx := context.Background()
	key := GuardKey(1, common.SourceSpoonacular, "42", common.KindSave)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Toggle(ctx, 1, common.SourceSpoonacular, "42", common.KindSave)
		done <- err
	}()
	<-store.entered

	_, err := svc.Toggle(ctx, 1, common.SourceSpoonacular, "42", common.KindSave)
	assert.ErrorIs(t, err, common.ErrDuplicateAction)
	assert.True(t, guard.Held(key))

	close(store.proceed)
	require.NoError(t, <-done)
	assert.False(t, guard.Held(key))
}

func TestToggleFailuresReleaseGuard(t *testing.T) {
	store := newFakeStore()
	svc, guard := newTestService(store)
	ctx := context.Background()

	_, err := svc.Toggle(ctx, 1, common.SourceUser, "404", common.KindLike)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.False(t, guard.Held(GuardKey(1, common.SourceUser, "404", common.KindLike)))

	store.toggleErr = errors.New("deadlock detected")
	_, err = svc.Toggle(ctx, 1, common.SourceTheMealDB, "1", common.KindLike)
	assert.ErrorIs(t, err, common.ErrPersistence)
	assert.Equal(t, "An error occurred while processing your request.", err.(*common.CustomError).Message)
	assert.False(t, guard.Held(GuardKey(1, common.SourceTheMealDB, "1", common.KindLike)))
}

func TestAddComment(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store)
	ctx := context.Background()

	c, err := svc.AddComment(ctx, 1, common.SourceFallback, "soto", `<em>Enak</em><script>x()</script>`)
	require.NoError(t, err)
	assert.Equal(t, "<em>Enak</em>", c.Content)
	assert.Equal(t, int64(1), c.ID)

	_, err = svc.AddComment(ctx, 1, common.SourceFallback, "soto", "  <iframe></iframe> ")
	assert.True(t, common.IsValidationError(err))
	assert.Len(t, store.comments, 1)

	store.commentErr = errors.New("disk full")
	_, err = svc.AddComment(ctx, 1, common.SourceFallback, "soto", "again")
	assert.ErrorIs(t, err, common.ErrPersistence)
}

func TestCommentsPaginateNewestFirst(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		at := base.Add(time.Duration(i) * time.Minute)
		svc.now = func() time.Time { return at }
		_, err := svc.AddComment(ctx, 1, common.SourceUser, "3", "c"+strconv.Itoa(i))
		require.NoError(t, err)
	}

	first, page, err := svc.Comments(ctx, common.SourceUser, "3", 1)
	require.NoError(t, err)
	require.Len(t, first, CommentsPerPage)
	assert.Equal(t, "c6", first[0].Content)
	assert.True(t, page.HasNext)
	assert.False(t, page.HasPrev)

	second, page, err := svc.Comments(ctx, common.SourceUser, "3", 2)
	require.NoError(t, err)
	assert.Len(t, second, 2)
	assert.False(t, page.HasNext)
	assert.Equal(t, 7, page.Total)
}

func TestProfileSkipsUnresolvable(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store)
	ctx := context.Background()

	for _, id := range []string{"a", "gone", "b", "c"} {
		_, err := svc.Toggle(ctx, 1, common.SourceFallback, id, common.KindLike)
		require.NoError(t, err)
	}
	_, err := svc.Toggle(ctx, 1, common.SourceFallback, "a", common.KindSave)
	require.NoError(t, err)

	p, err := svc.Profile(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, p.Liked, 2)
	assert.Equal(t, "a", p.Liked[0].Recipe.ID)
	assert.Nil(t, p.Liked[0].Recipe.Ingredients)
	assert.Equal(t, "b", p.Liked[1].Recipe.ID)
	assert.True(t, p.Page.HasNext)
	assert.Len(t, p.Saved, 1)

	p, err = svc.Profile(ctx, 2, 1)
	require.NoError(t, err)
	assert.Empty(t, p.Liked)
	assert.NotNil(t, p.Saved)
}
