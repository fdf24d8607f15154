package controller

import (
	"errors"
	"net/http"
	"portfolio_backend/internal/service"
	"portfolio_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserEventController struct {
	EventService *service.UserEventService
}

func NewUserEventController(eventService *service.UserEventService) *UserEventController {
	return &UserEventController{EventService: eventService}
}

func githubError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrGitHubUserNotFound):
		util.NotFoundMsg(ctx, util.ErrGitHubUserNotFound.Error())
	case errors.Is(err, util.ErrGitHubRateLimited):
		util.Error(ctx, http.StatusForbidden, util.ErrGitHubRateLimited.Error())
	default:
		handleError(ctx, err)
	}
}

type SyncEventsRequest struct {
	GitHubLogin string `json:"githubLogin" binding:"required"`
	Course      string `json:"course"`
}

// Sync godoc
// @Summary 同步GitHub公开事件
// @Description 提交、PR、Issue按权重记录，重复事件自动跳过
// @Tags 学习行为
// @Accept  json
// @Produce  json
// @Param   body body SyncEventsRequest true "GitHub账号与课程"
// @Success 200 {object} util.Response{data=service.SyncResult}
// @Failure 403 {object} util.Response "GitHub限流"
// @Failure 404 {object} util.Response "GitHub用户不存在"
// @Router /api/events/github/sync [post]
func (c *UserEventController) Sync(ctx *gin.Context) {
	var req SyncEventsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	result, err := c.EventService.SyncGitHub(ctx.Request.Context(), req.GitHubLogin, req.Course)
	if err != nil {
		githubError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// List godoc
// @Summary 用户的GitHub事件
// @Tags 学习行为
// @Produce  json
// @Param login path string true "GitHub账号"
// @Success 200 {object} util.Response{data=[]model.UserEvent}
// @Router /api/events/github/{login} [get]
func (c *UserEventController) List(ctx *gin.Context) {
	events, err := c.EventService.List(ctx.Param("login"))
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, events)
}

// RateLimit godoc
// @Summary GitHub API剩余额度
// @Tags 学习行为
// @Produce  json
// @Success 200 {object} util.Response{data=object}
// @Router /api/events/github/rate-limit [get]
func (c *UserEventController) RateLimit(ctx *gin.Context) {
	raw, err := c.EventService.RateLimit(ctx.Request.Context())
	if err != nil {
		githubError(ctx, err)
		return
	}
	util.Success(ctx, raw)
}
