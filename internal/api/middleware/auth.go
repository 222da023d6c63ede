package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pasarde/recipe-app/internal/pkg/common"
)

const (
	// UserHeader carries the authenticated user id set by the session layer.
	UserHeader = "X-User-ID"

	userIDKey = "user_id"
)

// UserLookup confirms that a user id refers to an existing account.
type UserLookup interface {
	Get(ctx context.Context, id int64) (*common.User, error)
}

// CurrentUser resolves the caller from UserHeader. Unknown or malformed ids
// leave the request anonymous.
func CurrentUser(users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(UserHeader))
		if raw == "" {
			c.Next()
			return
		}

		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			common.LogDebug("ignoring malformed user header", zap.String("value", raw))
			c.Next()
			return
		}

		if _, err := users.Get(c.Request.Context(), id); err != nil {
			if !errors.Is(err, common.ErrNotFound) {
				common.LogError("user lookup failed", zap.Int64("user_id", id), zap.Error(err))
			}
			c.Next()
			return
		}

		c.Set(userIDKey, id)
		c.Next()
	}
}

// RequireUser rejects anonymous requests.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := UserID(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, common.ErrorResponse{
				Code:    common.ErrCodeUnauthorized,
				Message: common.ErrUnauthorized.Message,
			})
			return
		}
		c.Next()
	}
}

// UserID returns the caller resolved by CurrentUser.
func UserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
