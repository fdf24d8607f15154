package controller

import (
	"errors"
	"portfolio_backend/internal/service"
	"portfolio_backend/internal/util"
	"strings"

	"github.com/gin-gonic/gin"
)

type GeminiController struct {
	GeminiService *service.GeminiService
}

func NewGeminiController(geminiService *service.GeminiService) *GeminiController {
	return &GeminiController{GeminiService: geminiService}
}

// geminiError 配额耗尽429，未配置与其他上游错误500
func geminiError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrGeminiQuota):
		util.TooManyRequests(ctx, util.ErrGeminiQuota.Error())
	case errors.Is(err, util.ErrInvalidInput):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrGeminiNotConfigured):
		util.LogInternalError(ctx, err)
	default:
		handleError(ctx, err)
	}
}

type ChatRequest struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

// Chat godoc
// @Summary 与Gemini对话
// @Tags AI
// @Accept  json
// @Produce  json
// @Param   body body ChatRequest true "对话内容"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Failure 429 {object} util.Response
// @Router /api/chat [post]
func (c *GeminiController) Chat(ctx *gin.Context) {
	var req ChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if strings.TrimSpace(req.UserID) == "" || strings.TrimSpace(req.Message) == "" {
		util.BadRequest(ctx, "userId and message are required")
		return
	}
	chat, err := c.GeminiService.Chat(ctx.Request.Context(), req.UserID, req.Message)
	if err != nil {
		geminiError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"response": chat.Response})
}

// History godoc
// @Summary Gemini对话历史
// @Tags AI
// @Produce  json
// @Param userId path string true "用户ID"
// @Success 200 {object} util.Response{data=[]model.GeminiChat}
// @Router /api/gemini/history/{userId} [get]
func (c *GeminiController) History(ctx *gin.Context) {
	chats, err := c.GeminiService.History(ctx.Param("userId"))
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, chats)
}

type GradeRequest struct {
	Question string `json:"question"`
	Response string `json:"response"`
}

// Grade godoc
// @Summary Gemini批改主观题
// @Tags AI
// @Accept  json
// @Produce  json
// @Param   body body GradeRequest true "题目与作答"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Failure 429 {object} util.Response
// @Failure 500 {object} util.Response "未配置API Key"
// @Router /api/gemini/grade [post]
func (c *GeminiController) Grade(ctx *gin.Context) {
	var req GradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if strings.TrimSpace(req.Question) == "" || strings.TrimSpace(req.Response) == "" {
		util.BadRequest(ctx, "question and response are required")
		return
	}
	grading, err := c.GeminiService.GradeResponse(ctx.Request.Context(), req.Question, req.Response)
	if err != nil {
		geminiError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"status":      "success",
		"id":          grading.ID,
		"geminiReply": grading.GeminiReply,
	})
}
