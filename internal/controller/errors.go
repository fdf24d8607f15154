package controller

import (
	"errors"
	"net/http"
	"portfolio_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// handleError 把服务层错误映射为HTTP状态码
func handleError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPersonNotFound):
		util.NotFoundMsg(ctx, err.Error())
	case errors.Is(err, util.ErrInvalidInput),
		errors.Is(err, util.ErrOutOfRange),
		errors.Is(err, util.ErrInvalidBet),
		errors.Is(err, util.ErrNothingToApply):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrUnauthorized):
		util.Unauthorized(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrAlreadyExists), errors.Is(err, util.ErrPersonExists):
		util.Conflict(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

func parseID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil || id == 0 {
		util.BadRequest(ctx, "invalid id")
		return 0, false
	}
	return uint(id), true
}

func notFoundOr(ctx *gin.Context, found bool, err error, onFound func()) {
	if err != nil {
		handleError(ctx, err)
		return
	}
	if !found {
		util.Error(ctx, http.StatusNotFound, "Resource not found")
		return
	}
	onFound()
}
