package controller

import (
	"errors"
	"portfolio_backend/internal/service"
	"portfolio_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type RunnerController struct {
	RunnerService *service.RunnerService
}

func NewRunnerController(runnerService *service.RunnerService) *RunnerController {
	return &RunnerController{RunnerService: runnerService}
}

type RunJavaRequest struct {
	Code string `json:"code"`
}

type RunRequest struct {
	Language string `json:"language"`
	Code     string `json:"code"`
}

func (c *RunnerController) run(ctx *gin.Context, language, code string) {
	output, err := c.RunnerService.Run(ctx.Request.Context(), language, code)
	if err != nil {
		var re *service.RunnerError
		if errors.As(err, &re) {
			util.BadRequest(ctx, re.Message)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"output": output})
}

// RunJava godoc
// @Summary 运行Java代码
// @Description 在无网络的docker沙箱中编译运行，超时或编译失败时返回提示文本
// @Tags 代码运行
// @Accept  json
// @Produce  json
// @Param   body body RunJavaRequest true "Java源码"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Failure 429 {object} util.Response
// @Router /run/java [post]
func (c *RunnerController) RunJava(ctx *gin.Context) {
	var req RunJavaRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	c.run(ctx, service.LangJava, req.Code)
}

// Run godoc
// @Summary 运行代码
// @Tags 代码运行
// @Accept  json
// @Produce  json
// @Param   body body RunRequest true "语言(java|python)与源码"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Failure 429 {object} util.Response
// @Router /api/run [post]
func (c *RunnerController) Run(ctx *gin.Context) {
	var req RunRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	c.run(ctx, req.Language, req.Code)
}
