package controller

import (
	"errors"
	"portfolio_backend/internal/model"
	"portfolio_backend/internal/service"
	"portfolio_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EvaluationController struct {
	EvaluationService *service.EvaluationService
}

func NewEvaluationController(evaluationService *service.EvaluationService) *EvaluationController {
	return &EvaluationController{EvaluationService: evaluationService}
}

// CreateAdmin godoc
// @Summary 提交管理员评价
// @Tags 评价
// @Accept  json
// @Produce  json
// @Param   body body model.AdminEvaluation true "评价"
// @Success 201 {object} util.Response{data=model.AdminEvaluation}
// @Failure 400 {object} util.Response "缺少userId"
// @Router /api/admin-evaluation/post [post]
func (c *EvaluationController) CreateAdmin(ctx *gin.Context) {
	var e model.AdminEvaluation
	if err := ctx.ShouldBindJSON(&e); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	e.ID = 0
	if err := c.EvaluationService.CreateAdmin(&e); err != nil {
		if errors.Is(err, util.ErrInvalidInput) {
			util.BadRequest(ctx, "userId is required")
			return
		}
		handleError(ctx, err)
		return
	}
	util.Created(ctx, e)
}

// ListAdmin godoc
// @Summary 管理员评价列表
// @Tags 评价
// @Produce  json
// @Success 200 {object} util.Response{data=util.ListResponse}
// @Router /api/admin-evaluation/get [get]
func (c *EvaluationController) ListAdmin(ctx *gin.Context) {
	list, err := c.EvaluationService.ListAdmin()
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, util.ListResponse{Count: int64(len(list)), Results: list})
}

// CreateStudent godoc
// @Summary 提交学生自评
// @Description 每位学生只能提交一次
// @Tags 评价
// @Accept  json
// @Produce  json
// @Param   body body model.StudentEvaluation true "自评"
// @Success 201 {object} util.Response{data=model.StudentEvaluation}
// @Failure 400 {object} util.Response "缺少user_id或重复提交"
// @Router /api/student-evaluation/post [post]
func (c *EvaluationController) CreateStudent(ctx *gin.Context) {
	var e model.StudentEvaluation
	if err := ctx.ShouldBindJSON(&e); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	e.ID = 0
	if err := c.EvaluationService.CreateStudent(&e); err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidInput):
			util.BadRequest(ctx, "user_id is required")
		case errors.Is(err, util.ErrAlreadyExists):
			util.BadRequest(ctx, "Evaluation already submitted for this user")
		default:
			handleError(ctx, err)
		}
		return
	}
	util.Created(ctx, e)
}

// GetStudent godoc
// @Summary 查询学生自评
// @Tags 评价
// @Produce  json
// @Param user_id path string true "学生ID"
// @Success 200 {object} util.Response{data=model.StudentEvaluation}
// @Failure 404 {object} util.Response
// @Router /api/student-evaluation/get/{user_id} [get]
func (c *EvaluationController) GetStudent(ctx *gin.Context) {
	e, err := c.EvaluationService.GetStudent(ctx.Param("user_id"))
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, e)
}

// UpdateStudent godoc
// @Summary 部分更新学生自评
// @Tags 评价
// @Accept  json
// @Produce  json
// @Param user_id path string true "学生ID"
// @Param   body body service.EvaluationPatch true "待更新评分项"
// @Success 200 {object} util.Response{data=model.StudentEvaluation}
// @Failure 404 {object} util.Response
// @Router /api/student-evaluation/update/{user_id} [put]
func (c *EvaluationController) UpdateStudent(ctx *gin.Context) {
	var patch service.EvaluationPatch
	if err := ctx.ShouldBindJSON(&patch); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	e, err := c.EvaluationService.UpdateStudent(ctx.Param("user_id"), patch)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, e)
}

// DeleteStudent godoc
// @Summary 删除学生自评
// @Tags 评价
// @Param user_id path string true "学生ID"
// @Success 204
// @Failure 404 {object} util.Response
// @Router /api/student-evaluation/delete/{user_id} [delete]
func (c *EvaluationController) DeleteStudent(ctx *gin.Context) {
	deleted, err := c.EvaluationService.DeleteStudent(ctx.Param("user_id"))
	notFoundOr(ctx, deleted, err, func() { util.NoContent(ctx) })
}
