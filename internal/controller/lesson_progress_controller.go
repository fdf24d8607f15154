package controller

import (
	"portfolio_backend/internal/model"
	"portfolio_backend/internal/service"
	"portfolio_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LessonProgressController struct {
	LessonService *service.LessonProgressService
}

func NewLessonProgressController(lessonService *service.LessonProgressService) *LessonProgressController {
	return &LessonProgressController{LessonService: lessonService}
}

// Create godoc
// @Summary 新建课程学习记录
// @Tags 课程进度
// @Accept  json
// @Produce  json
// @Param   body body model.LessonProgress true "学习记录"
// @Success 201 {object} util.Response{data=model.LessonProgress}
// @Failure 400 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/lesson-progress [post]
func (c *LessonProgressController) Create(ctx *gin.Context) {
	var lp model.LessonProgress
	if err := ctx.ShouldBindJSON(&lp); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	lp.ID = 0
	if err := c.LessonService.Create(&lp); err != nil {
		handleError(ctx, err)
		return
	}
	util.Created(ctx, lp)
}

// GetOrCreate godoc
// @Summary 获取（不存在则创建）课程学习记录
// @Tags 课程进度
// @Produce  json
// @Param userId path string true "用户ID"
// @Param lessonKey path string true "课程标识"
// @Success 200 {object} util.Response{data=model.LessonProgress}
// @Router /api/lesson-progress/{userId}/{lessonKey} [get]
func (c *LessonProgressController) GetOrCreate(ctx *gin.Context) {
	lp, err := c.LessonService.GetOrCreate(ctx.Param("userId"), ctx.Param("lessonKey"))
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, lp)
}

// Update godoc
// @Summary 更新课程学习记录
// @Description 闪卡列表整体替换
// @Tags 课程进度
// @Accept  json
// @Produce  json
// @Param id path int true "记录ID"
// @Param   body body model.LessonProgress true "学习记录"
// @Success 200 {object} util.Response{data=model.LessonProgress}
// @Failure 404 {object} util.Response
// @Router /api/lesson-progress/{id} [put]
func (c *LessonProgressController) Update(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	var in model.LessonProgress
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	lp, err := c.LessonService.Update(id, &in)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, lp)
}

// List godoc
// @Summary 课程学习记录列表
// @Tags 课程进度
// @Produce  json
// @Param userId query string false "按用户过滤"
// @Success 200 {object} util.Response{data=[]model.LessonProgress}
// @Router /api/lesson-progress [get]
func (c *LessonProgressController) List(ctx *gin.Context) {
	list, err := c.LessonService.List(ctx.Query("userId"))
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// Delete godoc
// @Summary 删除课程学习记录
// @Tags 课程进度
// @Param id path int true "记录ID"
// @Success 204
// @Failure 404 {object} util.Response
// @Router /api/lesson-progress/{id} [delete]
func (c *LessonProgressController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	deleted, err := c.LessonService.Delete(id)
	notFoundOr(ctx, deleted, err, func() { util.NoContent(ctx) })
}
