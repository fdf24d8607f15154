package controller

import (
	"portfolio_backend/internal/model"
	"portfolio_backend/internal/service"
	"portfolio_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizScoreService
}

func NewQuizController(quizService *service.QuizScoreService) *QuizController {
	return &QuizController{QuizService: quizService}
}

type SubmitScoreRequest struct {
	Username string `json:"username" binding:"required"`
	Score    *int   `json:"score" binding:"required,min=0"`
}

// Submit godoc
// @Summary 提交测验成绩
// @Tags 测验
// @Accept  json
// @Produce  json
// @Param   body body SubmitScoreRequest true "成绩"
// @Success 201 {object} util.Response{data=model.QuizScore}
// @Failure 400 {object} util.Response
// @Router /api/quiz/score [post]
func (c *QuizController) Submit(ctx *gin.Context) {
	var req SubmitScoreRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	score := &model.QuizScore{Username: req.Username, Score: *req.Score}
	if err := c.QuizService.Submit(ctx.Request.Context(), score); err != nil {
		handleError(ctx, err)
		return
	}
	util.Created(ctx, score)
}

// Top godoc
// @Summary 测验排行榜
// @Description 分数降序，同分按提交时间升序
// @Tags 测验
// @Produce  json
// @Param limit query int false "条数（默认10，最大100）"
// @Success 200 {object} util.Response{data=[]model.QuizScore}
// @Router /api/quiz/top [get]
func (c *QuizController) Top(ctx *gin.Context) {
	limit := util.ParseIntDefault(ctx.Query("limit"), 10, 1, service.QuizLeaderboardMax)
	scores, err := c.QuizService.Top(ctx.Request.Context(), limit)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, scores)
}

// ByUser godoc
// @Summary 用户测验成绩
// @Tags 测验
// @Produce  json
// @Param username path string true "用户名（不区分大小写）"
// @Success 200 {object} util.Response{data=[]model.QuizScore}
// @Router /api/quiz/user/{username} [get]
func (c *QuizController) ByUser(ctx *gin.Context) {
	scores, err := c.QuizService.ByUser(ctx.Param("username"))
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, scores)
}
