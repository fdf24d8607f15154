package controller

import (
	"errors"
	"portfolio_backend/internal/service"
	"portfolio_backend/internal/util"
	"strings"

	"github.com/gin-gonic/gin"
)

type GroupChatController struct {
	ChatService *service.GroupChatService
}

func NewGroupChatController(chatService *service.GroupChatService) *GroupChatController {
	return &GroupChatController{ChatService: chatService}
}

// History godoc
// @Summary 小组聊天记录
// @Tags 小组聊天
// @Produce  json
// @Security ApiKeyAuth
// @Param groupId path string true "小组ID"
// @Success 200 {object} util.Response{data=[]model.GroupChatMessage}
// @Failure 400 {object} util.Response
// @Router /api/chat/{groupId} [get]
func (c *GroupChatController) History(ctx *gin.Context) {
	msgs, err := c.ChatService.History(ctx.Request.Context(), ctx.Param("groupId"))
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, msgs)
}

type PostChatRequest struct {
	Content string `json:"content"`
}

// Post godoc
// @Summary 发送小组消息
// @Description 发送人取自登录用户，返回更新后的聊天记录
// @Tags 小组聊天
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param groupId path string true "小组ID"
// @Param   body body PostChatRequest true "消息内容"
// @Success 200 {object} util.Response{data=[]model.GroupChatMessage}
// @Failure 400 {object} util.Response
// @Router /api/chat/{groupId} [post]
func (c *GroupChatController) Post(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	var req PostChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		util.BadRequest(ctx, "content is required")
		return
	}
	msgs, err := c.ChatService.Append(ctx.Request.Context(), ctx.Param("groupId"), claims.UID, req.Content)
	if err != nil {
		if errors.Is(err, util.ErrInvalidInput) {
			util.BadRequest(ctx, "invalid groupId")
			return
		}
		handleError(ctx, err)
		return
	}
	util.Success(ctx, msgs)
}
