package controller

import (
	"portfolio_backend/internal/model"
	"portfolio_backend/internal/service"
	"portfolio_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestController struct {
	QuestService *service.QuestService
}

func NewQuestController(questService *service.QuestService) *QuestController {
	return &QuestController{QuestService: questService}
}

// List godoc
// @Summary 任务列表
// @Tags 任务
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.Quest}
// @Router /api/quests [get]
func (c *QuestController) List(ctx *gin.Context) {
	quests, err := c.QuestService.List()
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, quests)
}

// Get godoc
// @Summary 任务详情
// @Tags 任务
// @Produce  json
// @Param id path int true "任务ID"
// @Success 200 {object} util.Response{data=model.Quest}
// @Failure 404 {object} util.Response
// @Router /api/quests/{id} [get]
func (c *QuestController) Get(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	quest, err := c.QuestService.Get(id)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, quest)
}

// Create godoc
// @Summary 创建任务
// @Tags 任务
// @Accept  json
// @Produce  json
// @Param   body body model.Quest true "任务"
// @Success 201 {object} util.Response{data=model.Quest}
// @Failure 400 {object} util.Response
// @Failure 409 {object} util.Response "permalink重复"
// @Router /api/quests/create [post]
func (c *QuestController) Create(ctx *gin.Context) {
	var quest model.Quest
	if err := ctx.ShouldBindJSON(&quest); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	quest.ID = 0
	if err := c.QuestService.Create(&quest); err != nil {
		handleError(ctx, err)
		return
	}
	util.Created(ctx, quest)
}

// Update godoc
// @Summary 部分更新任务
// @Tags 任务
// @Accept  json
// @Produce  json
// @Param id path int true "任务ID"
// @Param   body body service.QuestPatch true "待更新字段"
// @Success 200 {object} util.Response{data=model.Quest}
// @Failure 404 {object} util.Response
// @Router /api/quests/update/{id} [put]
func (c *QuestController) Update(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	var patch service.QuestPatch
	if err := ctx.ShouldBindJSON(&patch); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	quest, err := c.QuestService.Update(id, patch)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, quest)
}

// Delete godoc
// @Summary 删除任务
// @Tags 任务
// @Param id path int true "任务ID"
// @Success 204
// @Failure 404 {object} util.Response
// @Router /api/quests/{id} [delete]
func (c *QuestController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	deleted, err := c.QuestService.Delete(id)
	notFoundOr(ctx, deleted, err, func() { util.NoContent(ctx) })
}
