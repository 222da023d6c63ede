package recipe

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pasarde/recipe-app/internal/api/handlers"
	recipeService "github.com/pasarde/recipe-app/internal/core/recipe"
	"github.com/pasarde/recipe-app/internal/pkg/common"
)

// MsgSubmitted 提交成功訊息
const MsgSubmitted = "Recipe submitted successfully!"

// Submit stores a user recipe from a multipart form with an optional image.
func (h *Handler) Submit(c *gin.Context) {
	in := recipeService.SubmitInput{
		Title:        c.PostForm("title"),
		Ingredients:  c.PostForm("ingredients"),
		Instructions: c.PostForm("instructions"),
		Cuisine:      c.PostForm("cuisine"),
		Region:       c.PostForm("region"),
	}

	file, err := c.FormFile("image")
	switch {
	case err == nil && file.Filename != "":
		f, err := file.Open()
		if err != nil {
			common.LogError("opening upload failed", zap.String("file", file.Filename), zap.Error(err))
			handlers.BadRequest(c, "Could not read uploaded image")
			return
		}
		defer f.Close()
		in.Image = &recipeService.Upload{Filename: file.Filename, Body: f}
	case err != nil && !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart):
		handlers.BadRequest(c, "Invalid upload")
		return
	}

	created, err := h.recipes.Submit(c.Request.Context(), callerID(c), in)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": MsgSubmitted,
		"recipe":  created,
	})
}
