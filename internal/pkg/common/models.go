package common

import (
	"strconv"
	"strings"
	"time"
)

// User 使用者帳號
type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// UserRecipe is a recipe submitted by a user. Likes and Saves are the
// denormalised counters kept alongside the interaction ledger.
type UserRecipe struct {
	ID           int64     `db:"id" json:"id"`
	Title        string    `db:"title" json:"title"`
	Ingredients  string    `db:"ingredients" json:"ingredients"`
	Instructions string    `db:"instructions" json:"instructions"`
	Cuisine      string    `db:"cuisine" json:"cuisine"`
	UserID       int64     `db:"user_id" json:"user_id"`
	Region       *string   `db:"region" json:"region,omitempty"`
	Image        *string   `db:"image" json:"image,omitempty"`
	Likes        int       `db:"likes" json:"likes"`
	Saves        int       `db:"saves" json:"saves"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Summary returns the list-view shape of the recipe.
func (r UserRecipe) Summary(placeholder string) Recipe {
	image := ""
	if r.Image != nil {
		image = *r.Image
	}
	return Recipe{
		ID:     strconv.FormatInt(r.ID, 10),
		Title:  r.Title,
		Source: SourceUser,
		Image:  ImageOr(placeholder, image),
	}
}

// InteractionKind 互動類型
type InteractionKind string

const (
	KindLike InteractionKind = "like"
	KindSave InteractionKind = "save"
)

// ParseInteractionKind validates an action coming from a request.
func ParseInteractionKind(s string) (InteractionKind, bool) {
	switch InteractionKind(strings.ToLower(strings.TrimSpace(s))) {
	case KindLike:
		return KindLike, true
	case KindSave:
		return KindSave, true
	}
	return "", false
}

// Interaction is one active like or save. Its absence means inactive.
type Interaction struct {
	ID           int64           `db:"id" json:"id"`
	UserID       int64           `db:"user_id" json:"user_id"`
	RecipeSource Source          `db:"recipe_source" json:"recipe_source"`
	RecipeID     string          `db:"recipe_id" json:"recipe_id"`
	Kind         InteractionKind `db:"interaction_type" json:"interaction_type"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}

// Comment 食譜留言
type Comment struct {
	ID           int64     `db:"id" json:"id"`
	Content      string    `db:"content" json:"content"`
	UserID       int64     `db:"user_id" json:"user_id"`
	Username     string    `db:"username" json:"username"`
	RecipeSource Source    `db:"recipe_source" json:"recipe_source"`
	RecipeID     string    `db:"recipe_id" json:"recipe_id"`
	Timestamp    time.Time `db:"timestamp" json:"timestamp"`
}

// SearchEntry is the popularity counter of one (query, cuisine, region).
type SearchEntry struct {
	ID        int64     `db:"id" json:"id"`
	Query     string    `db:"query" json:"query"`
	Cuisine   string    `db:"cuisine" json:"cuisine"`
	Region    string    `db:"region" json:"region"`
	Timestamp time.Time `db:"timestamp" json:"timestamp"`
	Count     int       `db:"count" json:"count"`
}
