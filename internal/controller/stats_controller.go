package controller

import (
	"errors"
	"net/http"
	"portfolio_backend/internal/model"
	"portfolio_backend/internal/service"
	"portfolio_backend/internal/util"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type StatsController struct {
	StatsService *service.StatsService
}

func NewStatsController(statsService *service.StatsService) *StatsController {
	return &StatsController{StatsService: statsService}
}

// List godoc
// @Summary 学习统计
// @Description 不传username返回全部；指定用户无记录时404
// @Tags 统计
// @Produce  json
// @Param username query string false "用户名"
// @Success 200 {object} util.Response{data=[]model.Stats}
// @Failure 404 {object} util.Response
// @Router /api/stats [get]
func (c *StatsController) List(ctx *gin.Context) {
	list, err := c.StatsService.List(strings.TrimSpace(ctx.Query("username")))
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// Create godoc
// @Summary 新增统计
// @Tags 统计
// @Accept  json
// @Produce  json
// @Param   body body model.Stats true "统计"
// @Success 201 {object} util.Response{data=model.Stats}
// @Failure 409 {object} util.Response "已存在"
// @Router /api/stats [post]
func (c *StatsController) Create(ctx *gin.Context) {
	var st model.Stats
	if err := ctx.ShouldBindJSON(&st); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	st.ID = 0
	if err := c.StatsService.Create(&st); err != nil {
		handleError(ctx, err)
		return
	}
	util.Created(ctx, st)
}

// Update godoc
// @Summary 更新统计
// @Description 需要username、module、submodule，至少一个待更新字段
// @Tags 统计
// @Accept  json
// @Produce  json
// @Param   body body service.StatsUpdate true "更新内容"
// @Success 200 {object} util.Response{data=model.Stats}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/stats [put]
func (c *StatsController) Update(ctx *gin.Context) {
	var in service.StatsUpdate
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	st, err := c.StatsService.Update(in)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidInput):
			util.BadRequest(ctx, "username, module and submodule are required")
		case errors.Is(err, util.ErrNothingToApply):
			util.BadRequest(ctx, "No fields to update")
		default:
			handleError(ctx, err)
		}
		return
	}
	util.Success(ctx, st)
}

type GradeStatsRequest struct {
	service.StatsKey
	Question string `json:"question"`
	Response string `json:"response"`
}

// Grade godoc
// @Summary AI评分并写入统计
// @Description 分数截断到[0.55, 0.9]；新建返回201，更新返回200
// @Tags 统计
// @Accept  json
// @Produce  json
// @Param   body body GradeStatsRequest true "题目与作答"
// @Success 200 {object} util.Response{data=model.Stats}
// @Success 201 {object} util.Response{data=model.Stats}
// @Failure 400 {object} util.Response
// @Failure 429 {object} util.Response "Gemini配额耗尽"
// @Router /api/stats/grade [post]
func (c *StatsController) Grade(ctx *gin.Context) {
	var req GradeStatsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	st, created, err := c.StatsService.Grade(ctx.Request.Context(), req.StatsKey, req.Question, req.Response)
	if err != nil {
		geminiError(ctx, err)
		return
	}
	if created {
		util.Created(ctx, st)
		return
	}
	util.Success(ctx, st)
}

// Delete godoc
// @Summary 删除统计
// @Description 按username，可再按module与submodule缩小范围
// @Tags 统计
// @Produce  json
// @Param username query string true "用户名"
// @Param module query string false "模块"
// @Param submodule query int false "子模块（需同时指定module）"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/stats [delete]
func (c *StatsController) Delete(ctx *gin.Context) {
	key := service.StatsKey{
		Username: strings.TrimSpace(ctx.Query("username")),
		Module:   strings.TrimSpace(ctx.Query("module")),
	}
	if raw := ctx.Query("submodule"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || key.Module == "" {
			util.BadRequest(ctx, "submodule must be an integer and requires module")
			return
		}
		key.Submodule = &n
	}
	if key.Username == "" {
		util.BadRequest(ctx, "username is required")
		return
	}

	deleted, err := c.StatsService.Delete(key)
	if err != nil {
		handleError(ctx, err)
		return
	}
	if deleted == 0 {
		util.Error(ctx, http.StatusNotFound, "No matching stats found")
		return
	}
	util.Success(ctx, gin.H{"deleted": deleted})
}
