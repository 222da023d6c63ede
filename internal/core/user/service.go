package user

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/pasarde/recipe-app/internal/pkg/common"

	"go.uber.org/zap"
)

// 驗證訊息
const (
	ErrMissingFields     = "Please fill out all required fields."
	ErrPasswordMismatch  = "Passwords do not match."
	ErrUsernameTaken     = "Username already exists."
	ErrEmailTaken        = "Email already registered."
	ErrInvalidCredential = "Invalid username or password."
)

// Store persists user accounts. Lookups return common.ErrNotFound for
// unknown users.
type Store interface {
	CreateUser(ctx context.Context, u *common.User) (int64, error)
	GetUser(ctx context.Context, id int64) (*common.User, error)
	GetUserByUsername(ctx context.Context, username string) (*common.User, error)
	GetUserByEmail(ctx context.Context, email string) (*common.User, error)
}

// RegisterInput 註冊表單
type RegisterInput struct {
	Username        string `json:"username" form:"username"`
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

// Service 使用者服務
type Service struct {
	store Store
	cost  int
}

// NewService 創建新的使用者服務
func NewService(store Store) *Service {
	return &Service{store: store, cost: bcrypt.DefaultCost}
}

// Register validates the form and creates the account with a bcrypt hash.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*common.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if username == "" || email == "" || in.Password == "" {
		return nil, common.NewValidationError(ErrMissingFields)
	}
	if in.Password != in.ConfirmPassword {
		return nil, common.NewValidationError(ErrPasswordMismatch)
	}

	if taken, err := s.exists(s.store.GetUserByUsername(ctx, username)); err != nil {
		return nil, err
	} else if taken {
		return nil, common.NewValidationError(ErrUsernameTaken)
	}
	if taken, err := s.exists(s.store.GetUserByEmail(ctx, email)); err != nil {
		return nil, err
	} else if taken {
		return nil, common.NewValidationError(ErrEmailTaken)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, common.ErrInternalError.Wrap(err)
	}

	u := &common.User{Username: username, Email: email, PasswordHash: string(hash)}
	id, err := s.store.CreateUser(ctx, u)
	if err != nil {
		common.LogError("creating user failed", zap.String("username", username), zap.Error(err))
		return nil, common.ErrPersistence.Wrap(err)
	}
	u.ID = id

	common.LogInfo("user registered", zap.Int64("user_id", id))
	return u, nil
}

// Authenticate checks a username and password pair.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*common.User, error) {
	u, err := s.store.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewValidationError(ErrInvalidCredential)
		}
		return nil, common.ErrPersistence.Wrap(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, common.NewValidationError(ErrInvalidCredential)
	}
	return u, nil
}

// Get 取得使用者
func (s *Service) Get(ctx context.Context, id int64) (*common.User, error) {
	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, common.ErrPersistence.Wrap(err)
	}
	return u, nil
}

func (s *Service) exists(_ *common.User, err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, common.ErrNotFound):
		return false, nil
	default:
		return false, common.ErrPersistence.Wrap(err)
	}
}
