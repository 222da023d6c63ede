package interaction

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pasarde/recipe-app/internal/api/handlers"
	"github.com/pasarde/recipe-app/internal/api/middleware"
	interactionService "github.com/pasarde/recipe-app/internal/core/interaction"
	"github.com/pasarde/recipe-app/internal/pkg/common"
)

// InteractRequest 按讚或收藏請求
type InteractRequest struct {
	Source   string `json:"source" form:"source"`
	RecipeID string `json:"recipe_id" form:"recipe_id"`
	Action   string `json:"action" form:"action"`
}

// CommentRequest 留言請求
type CommentRequest struct {
	Source   string `json:"source" form:"source"`
	RecipeID string `json:"recipe_id" form:"recipe_id"`
	Content  string `json:"content" form:"content"`
}

// Handler 互動處理程序
type Handler struct {
	svc *interactionService.Service
}

// NewHandler 創建新的互動處理程序
func NewHandler(svc *interactionService.Service) *Handler {
	return &Handler{svc: svc}
}

// target validates the (source, recipe id) pair of a request.
func target(c *gin.Context, rawSource, recipeID string) (common.Source, string, bool) {
	source, ok := common.ParseSource(strings.TrimSpace(rawSource))
	recipeID = strings.TrimSpace(recipeID)
	if !ok || recipeID == "" {
		handlers.BadRequest(c, "Invalid recipe reference")
		return "", "", false
	}
	return source, recipeID, true
}

// Interact toggles a like or save for the caller.
func (h *Handler) Interact(c *gin.Context) {
	var req InteractRequest
	if err := c.ShouldBind(&req); err != nil {
		handlers.BadRequest(c, "Invalid request format")
		return
	}
	source, recipeID, ok := target(c, req.Source, req.RecipeID)
	if !ok {
		return
	}
	kind, ok := common.ParseInteractionKind(req.Action)
	if !ok {
		handlers.BadRequest(c, "Invalid action")
		return
	}

	userID, _ := middleware.UserID(c)
	state, err := h.svc.Toggle(c.Request.Context(), userID, source, recipeID, kind)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// AddComment 新增留言
func (h *Handler) AddComment(c *gin.Context) {
	var req CommentRequest
	if err := c.ShouldBind(&req); err != nil {
		handlers.BadRequest(c, "Invalid request format")
		return
	}
	source, recipeID, ok := target(c, req.Source, req.RecipeID)
	if !ok {
		return
	}

	userID, _ := middleware.UserID(c)
	comment, err := h.svc.AddComment(c.Request.Context(), userID, source, recipeID, req.Content)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

// Profile 個人頁：按讚（分頁）與收藏
func (h *Handler) Profile(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	profile, err := h.svc.Profile(c.Request.Context(), userID, common.ClampPage(c.Query("page")))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
