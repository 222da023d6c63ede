package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pasarde/recipe-app/internal/api/handlers"
	userService "github.com/pasarde/recipe-app/internal/core/user"
	"github.com/pasarde/recipe-app/internal/pkg/common"
)

const (
	MsgRegistered = "Registration successful! Please log in."
	MsgLoggedIn   = "Logged in successfully!"
)

// LoginRequest 登入表單
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Handler 使用者處理程序
type Handler struct {
	svc *userService.Service
}

// NewHandler 創建新的使用者處理程序
func NewHandler(svc *userService.Service) *Handler {
	return &Handler{svc: svc}
}

// Register 註冊
func (h *Handler) Register(c *gin.Context) {
	var in userService.RegisterInput
	if err := c.ShouldBind(&in); err != nil {
		handlers.BadRequest(c, "Invalid request format")
		return
	}

	u, err := h.svc.Register(c.Request.Context(), in)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	common.LogInfo("user registered", zap.Int64("user_id", u.ID))
	c.JSON(http.StatusCreated, gin.H{
		"message": MsgRegistered,
		"user":    u,
	})
}

// Login checks credentials and returns the user id the session layer
// forwards in the user header.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		handlers.BadRequest(c, "Invalid request format")
		return
	}

	u, err := h.svc.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  MsgLoggedIn,
		"user_id":  u.ID,
		"username": u.Username,
	})
}
