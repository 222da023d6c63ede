package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pasarde/recipe-app/internal/pkg/common"
)

// RespondError translates a service error into the JSON error envelope.
// Validation failures carry their own message; everything else answers with
// the generic message of its CustomError.
func RespondError(c *gin.Context, err error) {
	if common.IsValidationError(err) {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeValidationFailed,
			Message: err.Error(),
		})
		return
	}

	var ce *common.CustomError
	if !errors.As(err, &ce) {
		ce = common.ErrInternalError
	}
	if ce.Status >= http.StatusInternalServerError {
		common.LogError("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", requestid.Get(c)),
			zap.Error(err),
		)
	}
	_ = c.Error(err)
	c.JSON(ce.Status, common.ErrorResponse{
		Code:    ce.Code,
		Message: ce.Message,
	})
}

// BadRequest answers 400 with a specific message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, common.ErrorResponse{
		Code:    common.ErrCodeInvalidRequest,
		Message: message,
	})
}
