package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/pasarde/recipe-app/internal/pkg/common"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		username VARCHAR(80) UNIQUE NOT NULL,
		email VARCHAR(120) UNIQUE NOT NULL,
		password_hash VARCHAR(128) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS user_recipes (
		id SERIAL PRIMARY KEY,
		title VARCHAR(200) NOT NULL,
		ingredients TEXT NOT NULL,
		instructions TEXT NOT NULL,
		cuisine VARCHAR(50) NOT NULL,
		user_id INTEGER NOT NULL REFERENCES users(id),
		region VARCHAR(100),
		image VARCHAR(200),
		likes INTEGER NOT NULL DEFAULT 0,
		saves INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS interactions (
		id SERIAL PRIMARY KEY,
		user_id INTEGER NOT NULL REFERENCES users(id),
		recipe_source VARCHAR(50) NOT NULL,
		recipe_id VARCHAR(100) NOT NULL,
		interaction_type VARCHAR(20) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (user_id, recipe_source, recipe_id, interaction_type)
	)`,
	`CREATE TABLE IF NOT EXISTS comments (
		id SERIAL PRIMARY KEY,
		content TEXT NOT NULL,
		user_id INTEGER NOT NULL REFERENCES users(id),
		recipe_source VARCHAR(50) NOT NULL,
		recipe_id VARCHAR(100) NOT NULL,
		timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS search_history (
		id SERIAL PRIMARY KEY,
		query VARCHAR(200) NOT NULL,
		cuisine VARCHAR(50) NOT NULL DEFAULT '',
		region VARCHAR(100) NOT NULL DEFAULT '',
		timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		count INTEGER NOT NULL DEFAULT 1,
		UNIQUE (query, cuisine, region)
	)`,
}

// counterColumn maps an interaction kind to its user_recipes counter.
var counterColumn = map[common.InteractionKind]string{
	common.KindLike: "likes",
	common.KindSave: "saves",
}

// PostgresStore PostgreSQL 儲存層
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore connects, applies the schema and tunes the pool.
func NewPostgresStore(dataSourceName string, maxOpen, maxIdle int) (*PostgresStore, error) {
	db, err := sqlx.Connect("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if maxOpen > 0 {
		db.SetMaxOpenConns(maxOpen)
	}
	if maxIdle > 0 {
		db.SetMaxIdleConns(maxIdle)
	}
	db.SetConnMaxLifetime(30 * time.Minute)

	s := NewPostgresStoreFromDB(db)
	if err := s.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewPostgresStoreFromDB wraps an open handle.
func NewPostgresStoreFromDB(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates missing tables.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// Ping checks the connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close 關閉連線
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrNotFound.Wrap(fmt.Errorf("%s not found", what))
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}

// CreateUser 新增使用者
func (s *PostgresStore) CreateUser(ctx context.Context, u *common.User) (int64, error) {
	var id int64
	err := s.db.QueryRowxContext(ctx,
		"INSERT INTO users (username, email, password_hash) VALUES ($1, $2, $3) RETURNING id",
		u.Username, u.Email, u.PasswordHash,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	return id, nil
}

// GetUser 依 ID 取得使用者
func (s *PostgresStore) GetUser(ctx context.Context, id int64) (*common.User, error) {
	return s.getUser(ctx, "id = $1", id)
}

// GetUserByUsername 依帳號取得使用者
func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (*common.User, error) {
	return s.getUser(ctx, "username = $1", username)
}

// GetUserByEmail 依信箱取得使用者
func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*common.User, error) {
	return s.getUser(ctx, "email = $1", email)
}

func (s *PostgresStore) getUser(ctx context.Context, where string, arg any) (*common.User, error) {
	var u common.User
	err := s.db.GetContext(ctx, &u,
		"SELECT id, username, email, password_hash, created_at FROM users WHERE "+where, arg)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return &u, nil
}

const userRecipeColumns = "id, title, ingredients, instructions, cuisine, user_id, region, image, likes, saves, created_at"

// GetUserRecipe 取得使用者食譜
func (s *PostgresStore) GetUserRecipe(ctx context.Context, id int64) (*common.UserRecipe, error) {
	var r common.UserRecipe
	if err := s.db.GetContext(ctx, &r, "SELECT "+userRecipeColumns+" FROM user_recipes WHERE id = $1", id); err != nil {
		return nil, notFound(err, "user recipe")
	}
	return &r, nil
}

// ListUserRecipes 列出使用者食譜
func (s *PostgresStore) ListUserRecipes(ctx context.Context, limit int) ([]common.UserRecipe, error) {
	recipes := []common.UserRecipe{}
	if err := s.db.SelectContext(ctx, &recipes,
		"SELECT "+userRecipeColumns+" FROM user_recipes ORDER BY id LIMIT $1", limit); err != nil {
		return nil, fmt.Errorf("failed to list user recipes: %w", err)
	}
	return recipes, nil
}

// SearchUserRecipes matches titles case-insensitively.
func (s *PostgresStore) SearchUserRecipes(ctx context.Context, query string, limit int) ([]common.UserRecipe, error) {
	recipes := []common.UserRecipe{}
	if err := s.db.SelectContext(ctx, &recipes,
		"SELECT "+userRecipeColumns+" FROM user_recipes WHERE title ILIKE '%' || $1::text || '%' ORDER BY id LIMIT $2",
		query, limit); err != nil {
		return nil, fmt.Errorf("failed to search user recipes: %w", err)
	}
	return recipes, nil
}

// CreateUserRecipe 新增使用者食譜
func (s *PostgresStore) CreateUserRecipe(ctx context.Context, r *common.UserRecipe) (int64, error) {
	var id int64
	err := s.db.QueryRowxContext(ctx,
		`INSERT INTO user_recipes (title, ingredients, instructions, cuisine, user_id, region, image)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		r.Title, r.Ingredients, r.Instructions, r.Cuisine, r.UserID, r.Region, r.Image,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create user recipe: %w", err)
	}
	return id, nil
}

// ToggleInteraction flips one interaction in a transaction. For user
// recipes the row is locked and its counter moved with the ledger.
func (s *PostgresStore) ToggleInteraction(ctx context.Context, userID int64, source common.Source, recipeID string, kind common.InteractionKind) (bool, error) {
	column, ok := counterColumn[kind]
	if !ok {
		return false, fmt.Errorf("unknown interaction kind %q", kind)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var userRecipeID int64
	if source == common.SourceUser {
		if userRecipeID, err = strconv.ParseInt(recipeID, 10, 64); err != nil {
			return false, common.ErrNotFound
		}
		var locked int64
		if err := tx.GetContext(ctx, &locked, "SELECT id FROM user_recipes WHERE id = $1 FOR UPDATE", userRecipeID); err != nil {
			return false, notFound(err, "user recipe")
		}
	}

	res, err := tx.ExecContext(ctx,
		"DELETE FROM interactions WHERE user_id = $1 AND recipe_source = $2 AND recipe_id = $3 AND interaction_type = $4",
		userID, source, recipeID, kind)
	if err != nil {
		return false, fmt.Errorf("failed to delete interaction: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	delta := -1
	if removed == 0 {
		delta = 1
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO interactions (user_id, recipe_source, recipe_id, interaction_type)
			VALUES ($1, $2, $3, $4) ON CONFLICT DO NOTHING`,
			userID, source, recipeID, kind); err != nil {
			return false, fmt.Errorf("failed to insert interaction: %w", err)
		}
	}

	if source == common.SourceUser {
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf("UPDATE user_recipes SET %[1]s = GREATEST(%[1]s + $1, 0) WHERE id = $2", column),
			delta, userRecipeID); err != nil {
			return false, fmt.Errorf("failed to update %s: %w", column, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit interaction: %w", err)
	}
	return delta > 0, nil
}

// CountInteractions 計算互動數
func (s *PostgresStore) CountInteractions(ctx context.Context, source common.Source, recipeID string, kind common.InteractionKind) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n,
		"SELECT COUNT(*) FROM interactions WHERE recipe_source = $1 AND recipe_id = $2 AND interaction_type = $3",
		source, recipeID, kind)
	if err != nil {
		return 0, fmt.Errorf("failed to count interactions: %w", err)
	}
	return n, nil
}

// HasInteraction 檢查使用者是否已互動
func (s *PostgresStore) HasInteraction(ctx context.Context, userID int64, source common.Source, recipeID string, kind common.InteractionKind) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM interactions
		WHERE user_id = $1 AND recipe_source = $2 AND recipe_id = $3 AND interaction_type = $4)`,
		userID, source, recipeID, kind)
	if err != nil {
		return false, fmt.Errorf("failed to check interaction: %w", err)
	}
	return exists, nil
}

// ListInteractions 分頁列出使用者互動
func (s *PostgresStore) ListInteractions(ctx context.Context, userID int64, kind common.InteractionKind, limit, offset int) ([]common.Interaction, int, error) {
	var total int
	if err := s.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM interactions WHERE user_id = $1 AND interaction_type = $2", userID, kind); err != nil {
		return nil, 0, fmt.Errorf("failed to count interactions: %w", err)
	}

	query := `SELECT id, user_id, recipe_source, recipe_id, interaction_type, created_at
		FROM interactions WHERE user_id = $1 AND interaction_type = $2 ORDER BY id`
	args := []any{userID, kind}
	if limit > 0 {
		query += " LIMIT $3 OFFSET $4"
		args = append(args, limit, offset)
	}

	items := []common.Interaction{}
	if err := s.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list interactions: %w", err)
	}
	return items, total, nil
}

// AddComment 新增留言
func (s *PostgresStore) AddComment(ctx context.Context, c *common.Comment) (int64, error) {
	var id int64
	err := s.db.QueryRowxContext(ctx,
		`INSERT INTO comments (content, user_id, recipe_source, recipe_id, timestamp)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		c.Content, c.UserID, c.RecipeSource, c.RecipeID, c.Timestamp,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to add comment: %w", err)
	}
	return id, nil
}

// ListComments 分頁列出留言（新到舊）
func (s *PostgresStore) ListComments(ctx context.Context, source common.Source, recipeID string, limit, offset int) ([]common.Comment, int, error) {
	var total int
	if err := s.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM comments WHERE recipe_source = $1 AND recipe_id = $2", source, recipeID); err != nil {
		return nil, 0, fmt.Errorf("failed to count comments: %w", err)
	}

	comments := []common.Comment{}
	err := s.db.SelectContext(ctx, &comments,
		`SELECT c.id, c.content, c.user_id, u.username, c.recipe_source, c.recipe_id, c.timestamp
		FROM comments c JOIN users u ON u.id = c.user_id
		WHERE c.recipe_source = $1 AND c.recipe_id = $2
		ORDER BY c.timestamp DESC, c.id DESC LIMIT $3 OFFSET $4`,
		source, recipeID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, total, nil
}

// UpsertSearch counts one search for (query, cuisine, region).
func (s *PostgresStore) UpsertSearch(ctx context.Context, query, cuisine, region string, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO search_history (query, cuisine, region, timestamp, count)
		VALUES ($1, $2, $3, $4, 1)
		ON CONFLICT (query, cuisine, region)
		DO UPDATE SET count = search_history.count + 1, timestamp = EXCLUDED.timestamp`,
		query, cuisine, region, at)
	if err != nil {
		return fmt.Errorf("failed to upsert search history: %w", err)
	}
	return nil
}

// TopSearches 取得最熱門的搜尋
func (s *PostgresStore) TopSearches(ctx context.Context, limit int) ([]common.SearchEntry, error) {
	entries := []common.SearchEntry{}
	if err := s.db.SelectContext(ctx, &entries,
		"SELECT id, query, cuisine, region, timestamp, count FROM search_history ORDER BY count DESC, id LIMIT $1",
		limit); err != nil {
		return nil, fmt.Errorf("failed to query search history: %w", err)
	}
	return entries, nil
}
