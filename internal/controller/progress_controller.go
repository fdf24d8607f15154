package controller

import (
	"portfolio_backend/internal/model"
	"portfolio_backend/internal/service"
	"portfolio_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressBarService
}

func NewProgressController(progressService *service.ProgressBarService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

type ProgressView struct {
	UserID           string  `json:"userId"`
	CompletedLessons int     `json:"completedLessons"`
	TotalLessons     int     `json:"totalLessons"`
	Percentage       float64 `json:"percentage"`
	Complete         bool    `json:"complete"`
}

func progressView(pb *model.ProgressBar) ProgressView {
	return ProgressView{
		UserID:           pb.UserID,
		CompletedLessons: pb.CompletedLessons,
		TotalLessons:     model.MaxCompletedLessons,
		Percentage:       pb.Percentage(),
		Complete:         pb.Complete(),
	}
}

// Get godoc
// @Summary 查询课程进度条
// @Tags 进度
// @Produce  json
// @Param userId path string true "用户ID"
// @Success 200 {object} util.Response{data=ProgressView}
// @Router /api/progress/{userId} [get]
func (c *ProgressController) Get(ctx *gin.Context) {
	pb, err := c.ProgressService.Get(ctx.Param("userId"))
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, progressView(pb))
}

type UpdateProgressRequest struct {
	UserID           string `json:"userId" binding:"required"`
	CompletedLessons *int   `json:"completedLessons" binding:"required"`
}

// Update godoc
// @Summary 设置已完成课时
// @Tags 进度
// @Accept  json
// @Produce  json
// @Param   body body UpdateProgressRequest true "进度"
// @Success 200 {object} util.Response{data=ProgressView}
// @Failure 400 {object} util.Response "超出0-6范围"
// @Router /api/progress/update [post]
func (c *ProgressController) Update(ctx *gin.Context) {
	var req UpdateProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	pb, err := c.ProgressService.Update(req.UserID, *req.CompletedLessons)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, progressView(pb))
}

// Increment godoc
// @Summary 完成一课
// @Tags 进度
// @Produce  json
// @Param userId path string true "用户ID"
// @Success 200 {object} util.Response{data=ProgressView}
// @Router /api/progress/{userId}/increment [post]
func (c *ProgressController) Increment(ctx *gin.Context) {
	pb, err := c.ProgressService.Increment(ctx.Param("userId"))
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, progressView(pb))
}
