package recipe

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pasarde/recipe-app/internal/api/handlers"
	"github.com/pasarde/recipe-app/internal/core/interaction"
	"github.com/pasarde/recipe-app/internal/pkg/common"
)

// DetailResponse 食譜詳情
type DetailResponse struct {
	Recipe   *common.Recipe   `json:"recipe"`
	Comments []common.Comment `json:"comments"`
	Page     common.Page      `json:"page"`
	interaction.State
}

// Detail shows one recipe with a page of comments and its like/save state.
func (h *Handler) Detail(c *gin.Context) {
	ctx := c.Request.Context()
	source, ok := common.ParseSource(c.Param("source"))
	if !ok {
		handlers.RespondError(c, common.ErrNotFound)
		return
	}
	id := c.Param("id")

	recipe, err := h.recipes.Resolve(ctx, source, id)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			common.LogWarn("recipe lookup failed",
				zap.String("source", string(source)),
				zap.String("id", id),
				zap.Error(err),
			)
		}
		handlers.RespondError(c, err)
		return
	}

	comments, page, err := h.interactions.Comments(ctx, source, id, common.ClampPage(c.Query("page")))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	state, err := h.interactions.State(ctx, callerID(c), source, id)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	if comments == nil {
		comments = []common.Comment{}
	}
	c.JSON(http.StatusOK, DetailResponse{
		Recipe:   recipe,
		Comments: comments,
		Page:     page,
		State:    *state,
	})
}
