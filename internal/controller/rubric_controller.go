package controller

import (
	"encoding/json"
	"portfolio_backend/internal/service"
	"portfolio_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type RubricController struct {
	RubricService *service.RubricService
}

func NewRubricController(rubricService *service.RubricService) *RubricController {
	return &RubricController{RubricService: rubricService}
}

// Get godoc
// @Summary 查询评分细则
// @Tags 评分细则
// @Produce  json
// @Param uid query string true "学生uid"
// @Param assignment query string true "作业"
// @Success 200 {object} util.Response{data=model.Rubric}
// @Failure 404 {object} util.Response
// @Router /api/rubrics [get]
func (c *RubricController) Get(ctx *gin.Context) {
	uid, assignment := ctx.Query("uid"), ctx.Query("assignment")
	if uid == "" || assignment == "" {
		util.BadRequest(ctx, "uid and assignment are required")
		return
	}
	rubric, err := c.RubricService.Get(uid, assignment)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, rubric)
}

// ByStudent godoc
// @Summary 学生的全部评分细则
// @Tags 评分细则
// @Produce  json
// @Param uid path string true "学生uid"
// @Success 200 {object} util.Response{data=[]model.Rubric}
// @Router /api/rubrics/student/{uid} [get]
func (c *RubricController) ByStudent(ctx *gin.Context) {
	rubrics, err := c.RubricService.ByStudent(ctx.Param("uid"))
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, rubrics)
}

// ByAssignment godoc
// @Summary 作业的全部评分细则
// @Tags 评分细则
// @Produce  json
// @Param assignment path string true "作业"
// @Success 200 {object} util.Response{data=[]model.Rubric}
// @Router /api/rubrics/assignment/{assignment} [get]
func (c *RubricController) ByAssignment(ctx *gin.Context) {
	rubrics, err := c.RubricService.ByAssignment(ctx.Param("assignment"))
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, rubrics)
}

type UpsertRubricRequest struct {
	UID        string          `json:"uid"`
	Assignment string          `json:"assignment"`
	Rubric     json.RawMessage `json:"rubric" swaggertype:"object"`
}

// rubricText 细则可以是JSON字符串或任意JSON值，统一存为文本
func rubricText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	if string(raw) == "null" {
		return ""
	}
	return string(raw)
}

// Upsert godoc
// @Summary 新建或更新评分细则
// @Tags 评分细则
// @Accept  json
// @Produce  json
// @Param   body body UpsertRubricRequest true "评分细则"
// @Success 200 {object} util.Response{data=model.Rubric} "已更新"
// @Success 201 {object} util.Response{data=model.Rubric} "已创建"
// @Failure 400 {object} util.Response
// @Router /api/rubrics [post]
func (c *RubricController) Upsert(ctx *gin.Context) {
	var req UpsertRubricRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	rubric, created, err := c.RubricService.Upsert(req.UID, req.Assignment, rubricText(req.Rubric))
	if err != nil {
		handleError(ctx, err)
		return
	}
	if created {
		util.Created(ctx, rubric)
		return
	}
	util.Success(ctx, rubric)
}

// Delete godoc
// @Summary 删除评分细则
// @Tags 评分细则
// @Param id path int true "细则ID"
// @Success 204
// @Failure 404 {object} util.Response
// @Router /api/rubrics/{id} [delete]
func (c *RubricController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	deleted, err := c.RubricService.Delete(id)
	notFoundOr(ctx, deleted, err, func() { util.NoContent(ctx) })
}
