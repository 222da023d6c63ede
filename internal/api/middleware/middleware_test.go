package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/pasarde/recipe-app/internal/pkg/common"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type knownUsers map[int64]bool

func (k knownUsers) Get(_ context.Context, id int64) (*common.User, error) {
	if k[id] {
		return &common.User{ID: id}, nil
	}
	return nil, common.ErrNotFound
}

func TestClientLimiterPerIP(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cl := NewClientLimiter(2, 2*time.Second)
	cl.now = func() time.Time { return now }

	assert.True(t, cl.Allow("1.1.1.1"))
	assert.True(t, cl.Allow("1.1.1.1"))
	assert.False(t, cl.Allow("1.1.1.1"))
	assert.True(t, cl.Allow("2.2.2.2"), "buckets are per client")

	now = now.Add(time.Second)
	assert.True(t, cl.Allow("1.1.1.1"), "half a window refills one token")
	assert.False(t, cl.Allow("1.1.1.1"))
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(1, time.Hour))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "3600", w.Header().Get("Retry-After"))
}

func TestCurrentUserAndRequireUser(t *testing.T) {
	r := gin.New()
	r.Use(CurrentUser(knownUsers{7: true}), RequireUser())
	r.GET("/", func(c *gin.Context) {
		id, _ := UserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id})
	})

	cases := []struct {
		header string
		status int
	}{
		{"", http.StatusUnauthorized},
		{"abc", http.StatusUnauthorized},
		{"-3", http.StatusUnauthorized},
		{"8", http.StatusUnauthorized},
		{"7", http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			req.Header.Set(UserHeader, tc.header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, tc.status, w.Code, "header %q", tc.header)
	}
}

func TestBodySizeLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodySizeLimit(8))
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("this body is too long")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestRecoveryAnswersInternalError(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), common.ErrCodeInternalError)
}
