package controller

import (
	"errors"
	"portfolio_backend/internal/model"
	"portfolio_backend/internal/service"
	"portfolio_backend/internal/util"
	"strings"

	"github.com/gin-gonic/gin"
)

type PlantController struct {
	PlantService *service.PlantService
}

func NewPlantController(plantService *service.PlantService) *PlantController {
	return &PlantController{PlantService: plantService}
}

type PlantView struct {
	*model.Plant
	FullyGrown bool `json:"fullyGrown"`
}

func plantView(p *model.Plant) PlantView {
	return PlantView{Plant: p, FullyGrown: p.FullyGrown()}
}

// All godoc
// @Summary 所有植物
// @Tags 植物
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.Plant}
// @Router /api/plant/all [get]
func (c *PlantController) All(ctx *gin.Context) {
	plants, err := c.PlantService.All()
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, plants)
}

// Get godoc
// @Summary 查询用户的植物
// @Tags 植物
// @Produce  json
// @Param uid path string true "用户uid"
// @Success 200 {object} util.Response{data=PlantView}
// @Failure 404 {object} util.Response
// @Router /api/plant/user/{uid} [get]
func (c *PlantController) Get(ctx *gin.Context) {
	plant, err := c.PlantService.Get(ctx.Param("uid"))
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, plantView(plant))
}

type AddPlantRequest struct {
	UID string `json:"uid" binding:"required"`
}

// Add godoc
// @Summary 为用户种下植物
// @Tags 植物
// @Accept  json
// @Produce  json
// @Param   body body AddPlantRequest true "uid"
// @Success 201 {object} util.Response{data=PlantView}
// @Failure 400 {object} util.Response "已存在"
// @Router /api/plant/add [post]
func (c *PlantController) Add(ctx *gin.Context) {
	var req AddPlantRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	plant, err := c.PlantService.Add(strings.TrimSpace(req.UID))
	if err != nil {
		if errors.Is(err, util.ErrAlreadyExists) {
			util.BadRequest(ctx, "Plant already exists for this user")
			return
		}
		handleError(ctx, err)
		return
	}
	util.Created(ctx, plantView(plant))
}

// NextStage godoc
// @Summary 植物成长一阶
// @Tags 植物
// @Produce  json
// @Param uid path string true "用户uid"
// @Success 200 {object} util.Response{data=PlantView}
// @Router /api/plant/user/{uid}/next [post]
func (c *PlantController) NextStage(ctx *gin.Context) {
	plant, err := c.PlantService.NextStage(ctx.Param("uid"))
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, plantView(plant))
}

// Reset godoc
// @Summary 重置植物
// @Tags 植物
// @Produce  json
// @Param uid path string true "用户uid"
// @Success 200 {object} util.Response{data=PlantView}
// @Failure 404 {object} util.Response
// @Router /api/plant/user/{uid}/reset [post]
func (c *PlantController) Reset(ctx *gin.Context) {
	plant, err := c.PlantService.Reset(ctx.Param("uid"))
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, plantView(plant))
}

// Stage godoc
// @Summary 查询植物阶段
// @Description 未种植时返回阶段1
// @Tags 植物
// @Produce  json
// @Param uid path string true "用户uid"
// @Success 200 {object} util.Response{data=object}
// @Router /api/plant/stage/{uid} [get]
func (c *PlantController) Stage(ctx *gin.Context) {
	plant, err := c.PlantService.Stage(ctx.Param("uid"))
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"uid":                   plant.UID,
		"stage":                 plant.Stage,
		"totalLessonsCompleted": plant.TotalLessonsCompleted,
		"fullyGrown":            plant.FullyGrown(),
	})
}

// Delete godoc
// @Summary 删除植物
// @Tags 植物
// @Param uid path string true "用户uid"
// @Success 204
// @Failure 404 {object} util.Response
// @Router /api/plant/user/{uid} [delete]
func (c *PlantController) Delete(ctx *gin.Context) {
	deleted, err := c.PlantService.Delete(ctx.Param("uid"))
	notFoundOr(ctx, deleted, err, func() { util.NoContent(ctx) })
}
