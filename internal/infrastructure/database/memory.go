package database

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pasarde/recipe-app/internal/pkg/common"
)

type interactionKey struct {
	userID   int64
	source   common.Source
	recipeID string
	kind     common.InteractionKind
}

type searchKey struct {
	query, cuisine, region string
}

// MemoryStore 記憶體儲存層，供開發與測試使用
type MemoryStore struct {
	mu sync.RWMutex

	nextID       int64
	users        []common.User
	recipes      []common.UserRecipe
	interactions map[interactionKey]common.Interaction
	comments     []common.Comment
	searches     map[searchKey]*common.SearchEntry

	now func() time.Time
}

// NewMemoryStore 創建新的記憶體儲存層
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		interactions: make(map[interactionKey]common.Interaction),
		searches:     make(map[searchKey]*common.SearchEntry),
		now:          time.Now,
	}
}

func (m *MemoryStore) id() int64 {
	m.nextID++
	return m.nextID
}

// Ping 永遠成功
func (m *MemoryStore) Ping(context.Context) error { return nil }

// Close 無資源需釋放
func (m *MemoryStore) Close() error { return nil }

// CreateUser 新增使用者
func (m *MemoryStore) CreateUser(_ context.Context, u *common.User) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return 0, fmt.Errorf("failed to create user: duplicate username or email")
		}
	}
	stored := *u
	stored.ID = m.id()
	stored.CreatedAt = m.now()
	m.users = append(m.users, stored)
	return stored.ID, nil
}

// GetUser 依 ID 取得使用者
func (m *MemoryStore) GetUser(_ context.Context, id int64) (*common.User, error) {
	return m.findUser(func(u common.User) bool { return u.ID == id })
}

// GetUserByUsername 依帳號取得使用者
func (m *MemoryStore) GetUserByUsername(_ context.Context, username string) (*common.User, error) {
	return m.findUser(func(u common.User) bool { return u.Username == username })
}

// GetUserByEmail 依信箱取得使用者
func (m *MemoryStore) GetUserByEmail(_ context.Context, email string) (*common.User, error) {
	return m.findUser(func(u common.User) bool { return u.Email == email })
}

func (m *MemoryStore) findUser(match func(common.User) bool) (*common.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if match(u) {
			found := u
			return &found, nil
		}
	}
	return nil, common.ErrNotFound.Wrap(fmt.Errorf("user not found"))
}

func (m *MemoryStore) username(id int64) string {
	for _, u := range m.users {
		if u.ID == id {
			return u.Username
		}
	}
	return ""
}

// GetUserRecipe 取得使用者食譜
func (m *MemoryStore) GetUserRecipe(_ context.Context, id int64) (*common.UserRecipe, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if i := m.recipeIndex(id); i >= 0 {
		r := m.recipes[i]
		return &r, nil
	}
	return nil, common.ErrNotFound.Wrap(fmt.Errorf("user recipe not found"))
}

func (m *MemoryStore) recipeIndex(id int64) int {
	for i, r := range m.recipes {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// ListUserRecipes 列出使用者食譜
func (m *MemoryStore) ListUserRecipes(_ context.Context, limit int) ([]common.UserRecipe, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := min(limit, len(m.recipes))
	out := make([]common.UserRecipe, n)
	copy(out, m.recipes[:n])
	return out, nil
}

// SearchUserRecipes matches titles case-insensitively.
func (m *MemoryStore) SearchUserRecipes(_ context.Context, query string, limit int) ([]common.UserRecipe, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	q := strings.ToLower(query)
	out := []common.UserRecipe{}
	for _, r := range m.recipes {
		if len(out) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(r.Title), q) {
			out = append(out, r)
		}
	}
	return out, nil
}

// CreateUserRecipe 新增使用者食譜
func (m *MemoryStore) CreateUserRecipe(_ context.Context, r *common.UserRecipe) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *r
	stored.ID = m.id()
	stored.Likes, stored.Saves = 0, 0
	stored.CreatedAt = m.now()
	m.recipes = append(m.recipes, stored)
	return stored.ID, nil
}

// ToggleInteraction flips one interaction under the write lock and moves the
// user recipe counter with it, floored at zero.
func (m *MemoryStore) ToggleInteraction(_ context.Context, userID int64, source common.Source, recipeID string, kind common.InteractionKind) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := -1
	if source == common.SourceUser {
		id, err := strconv.ParseInt(recipeID, 10, 64)
		if err != nil {
			return false, common.ErrNotFound
		}
		if idx = m.recipeIndex(id); idx < 0 {
			return false, common.ErrNotFound.Wrap(fmt.Errorf("user recipe not found"))
		}
	}

	key := interactionKey{userID: userID, source: source, recipeID: recipeID, kind: kind}
	_, exists := m.interactions[key]
	delta := 1
	if exists {
		delete(m.interactions, key)
		delta = -1
	} else {
		m.interactions[key] = common.Interaction{
			ID:           m.id(),
			UserID:       userID,
			RecipeSource: source,
			RecipeID:     recipeID,
			Kind:         kind,
			CreatedAt:    m.now(),
		}
	}

	if idx >= 0 {
		r := &m.recipes[idx]
		switch kind {
		case common.KindLike:
			r.Likes = max(r.Likes+delta, 0)
		case common.KindSave:
			r.Saves = max(r.Saves+delta, 0)
		}
	}
	return !exists, nil
}

// CountInteractions 計算互動數
func (m *MemoryStore) CountInteractions(_ context.Context, source common.Source, recipeID string, kind common.InteractionKind) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for k := range m.interactions {
		if k.source == source && k.recipeID == recipeID && k.kind == kind {
			n++
		}
	}
	return n, nil
}

// HasInteraction 檢查使用者是否已互動
func (m *MemoryStore) HasInteraction(_ context.Context, userID int64, source common.Source, recipeID string, kind common.InteractionKind) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.interactions[interactionKey{userID: userID, source: source, recipeID: recipeID, kind: kind}]
	return ok, nil
}

// ListInteractions 分頁列出使用者互動
func (m *MemoryStore) ListInteractions(_ context.Context, userID int64, kind common.InteractionKind, limit, offset int) ([]common.Interaction, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := []common.Interaction{}
	for k, v := range m.interactions {
		if k.userID == userID && k.kind == kind {
			all = append(all, v)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return paginate(all, limit, offset), len(all), nil
}

// AddComment 新增留言
func (m *MemoryStore) AddComment(_ context.Context, c *common.Comment) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *c
	stored.ID = m.id()
	if stored.Timestamp.IsZero() {
		stored.Timestamp = m.now()
	}
	m.comments = append(m.comments, stored)
	return stored.ID, nil
}

// ListComments 分頁列出留言（新到舊）
func (m *MemoryStore) ListComments(_ context.Context, source common.Source, recipeID string, limit, offset int) ([]common.Comment, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := []common.Comment{}
	for _, c := range m.comments {
		if c.RecipeSource == source && c.RecipeID == recipeID {
			c.Username = m.username(c.UserID)
			all = append(all, c)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].Timestamp.Equal(all[j].Timestamp) {
			return all[i].Timestamp.After(all[j].Timestamp)
		}
		return all[i].ID > all[j].ID
	})
	return paginate(all, limit, offset), len(all), nil
}

// UpsertSearch counts one search for (query, cuisine, region).
func (m *MemoryStore) UpsertSearch(_ context.Context, query, cuisine, region string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := searchKey{query: query, cuisine: cuisine, region: region}
	if e, ok := m.searches[key]; ok {
		e.Count++
		e.Timestamp = at
		return nil
	}
	m.searches[key] = &common.SearchEntry{
		ID:        m.id(),
		Query:     query,
		Cuisine:   cuisine,
		Region:    region,
		Timestamp: at,
		Count:     1,
	}
	return nil
}

// TopSearches 取得最熱門的搜尋
func (m *MemoryStore) TopSearches(_ context.Context, limit int) ([]common.SearchEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make([]common.SearchEntry, 0, len(m.searches))
	for _, e := range m.searches {
		all = append(all, *e)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Count != all[j].Count {
			return all[i].Count > all[j].Count
		}
		return all[i].ID < all[j].ID
	})
	return paginate(all, limit, 0), nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
