package controller

import (
	"portfolio_backend/internal/model"
	"portfolio_backend/internal/service"
	"portfolio_backend/internal/util"
	"strings"

	"github.com/gin-gonic/gin"
)

type ResumeController struct {
	ResumeService *service.ResumeService
}

func NewResumeController(resumeService *service.ResumeService) *ResumeController {
	return &ResumeController{ResumeService: resumeService}
}

// resumeOwner 优先取登录用户，其次取username查询参数
func resumeOwner(ctx *gin.Context) string {
	if claims := util.GetUserFromContext(ctx); claims != nil && claims.UID != "" {
		return claims.UID
	}
	return strings.TrimSpace(ctx.Query("username"))
}

// Get godoc
// @Summary 获取简历
// @Tags 简历
// @Produce  json
// @Security ApiKeyAuth
// @Param username query string false "未登录时指定用户名"
// @Success 200 {object} util.Response{data=model.Resume}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/resume/me [get]
func (c *ResumeController) Get(ctx *gin.Context) {
	username := resumeOwner(ctx)
	if username == "" {
		util.BadRequest(ctx, "username is required")
		return
	}
	resume, err := c.ResumeService.Get(username)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, resume)
}

type SaveResumeRequest struct {
	ProfessionalSummary string             `json:"professionalSummary"`
	Experiences         []model.Experience `json:"experiences"`
}

// Save godoc
// @Summary 保存简历
// @Description 不存在则创建；工作经历整体替换
// @Tags 简历
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param username query string false "未登录时指定用户名"
// @Param   body body SaveResumeRequest true "简历"
// @Success 200 {object} util.Response{data=model.Resume}
// @Failure 400 {object} util.Response
// @Router /api/resume/me [post]
func (c *ResumeController) Save(ctx *gin.Context) {
	username := resumeOwner(ctx)
	if username == "" {
		util.BadRequest(ctx, "username is required")
		return
	}
	var req SaveResumeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	for i := range req.Experiences {
		req.Experiences[i].ID = 0
	}
	resume, err := c.ResumeService.Save(&model.Resume{
		Username:            username,
		ProfessionalSummary: req.ProfessionalSummary,
		Experiences:         req.Experiences,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, resume)
}
