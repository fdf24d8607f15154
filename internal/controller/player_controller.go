package controller

import (
	"portfolio_backend/internal/service"
	"portfolio_backend/internal/util"
	"portfolio_backend/pkg/logger"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PlayerController struct {
	PlayerService *service.PlayerService
	Hub           *service.PlayerHub
}

func NewPlayerController(playerService *service.PlayerService, hub *service.PlayerHub) *PlayerController {
	return &PlayerController{PlayerService: playerService, Hub: hub}
}

// Current godoc
// @Summary 当前玩家
// @Tags 多人地图
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.Player}
// @Failure 404 {object} util.Response
// @Router /api/players/current [get]
func (c *PlayerController) Current(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	player, err := c.PlayerService.Get(claims.UID)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, player)
}

type PlayerUIDRequest struct {
	UID string `json:"uid" binding:"required"`
}

// Connect godoc
// @Summary 玩家上线
// @Description 首次上线时根据用户资料创建玩家
// @Tags 多人地图
// @Accept  json
// @Produce  json
// @Param   body body PlayerUIDRequest true "uid"
// @Success 200 {object} util.Response{data=model.Player}
// @Failure 404 {object} util.Response "用户不存在"
// @Router /api/players/connect [post]
func (c *PlayerController) Connect(ctx *gin.Context) {
	var req PlayerUIDRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	player, err := c.PlayerService.Connect(strings.TrimSpace(req.UID))
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, player)
}

// Online godoc
// @Summary 在线玩家
// @Tags 多人地图
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.Player}
// @Router /api/players/online [get]
func (c *PlayerController) Online(ctx *gin.Context) {
	players, err := c.PlayerService.Online()
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, players)
}

type PlayerStatusRequest struct {
	UID    string `json:"uid" binding:"required"`
	Status string `json:"status" binding:"required"`
}

// UpdateStatus godoc
// @Summary 更新在线状态
// @Tags 多人地图
// @Accept  json
// @Produce  json
// @Param   body body PlayerStatusRequest true "online|offline"
// @Success 200 {object} util.Response{data=model.Player}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/players/status [put]
func (c *PlayerController) UpdateStatus(ctx *gin.Context) {
	var req PlayerStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	player, err := c.PlayerService.UpdateStatus(req.UID, strings.ToLower(req.Status))
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, player)
}

// Disconnect godoc
// @Summary 玩家下线
// @Tags 多人地图
// @Accept  json
// @Produce  json
// @Param   body body PlayerUIDRequest true "uid"
// @Success 200 {object} util.Response{data=model.Player}
// @Failure 404 {object} util.Response
// @Router /api/players/disconnect [post]
func (c *PlayerController) Disconnect(ctx *gin.Context) {
	var req PlayerUIDRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	player, err := c.PlayerService.Disconnect(req.UID)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, player)
}

type PlayerLocationRequest struct {
	UID string   `json:"uid" binding:"required"`
	X   *float64 `json:"x" binding:"required"`
	Y   *float64 `json:"y" binding:"required"`
}

// UpdateLocation godoc
// @Summary 更新玩家坐标
// @Tags 多人地图
// @Accept  json
// @Produce  json
// @Param   body body PlayerLocationRequest true "坐标"
// @Success 200 {object} util.Response{data=model.Player}
// @Failure 404 {object} util.Response
// @Router /api/players/location [put]
func (c *PlayerController) UpdateLocation(ctx *gin.Context) {
	var req PlayerLocationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	player, err := c.PlayerService.UpdateLocation(req.UID, *req.X, *req.Y)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, player)
}

type PlayerLevelRequest struct {
	UID   string `json:"uid" binding:"required"`
	Level int    `json:"level"`
}

// UpdateLevel godoc
// @Summary 更新玩家等级
// @Tags 多人地图
// @Accept  json
// @Produce  json
// @Param   body body PlayerLevelRequest true "等级（>=1）"
// @Success 200 {object} util.Response{data=model.Player}
// @Failure 400 {object} util.Response
// @Router /api/players/level [put]
func (c *PlayerController) UpdateLevel(ctx *gin.Context) {
	var req PlayerLevelRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	player, err := c.PlayerService.UpdateLevel(req.UID, req.Level)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, player)
}

// Locations godoc
// @Summary 在线玩家坐标
// @Tags 多人地图
// @Produce  json
// @Success 200 {object} util.Response{data=[]service.PlayerLocation}
// @Router /api/players/locations [get]
func (c *PlayerController) Locations(ctx *gin.Context) {
	locs, err := c.PlayerService.Locations()
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, locs)
}

// WebSocket godoc
// @Summary 玩家状态与坐标推送
// @Description 升级为WebSocket；客户端可发送LOCATION消息上报坐标。身份取自JWT（浏览器可用cookie或token查询参数），uid参数与登录用户不一致时拒绝
// @Tags 多人地图
// @Param uid query string false "可选，必须与登录用户一致"
// @Success 101
// @Failure 401 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/players/ws [get]
func (c *PlayerController) WebSocket(ctx *gin.Context) {
	uid, err := wsIdentity(util.GetUserFromContext(ctx), ctx.Query("uid"))
	if err != nil {
		handleError(ctx, err)
		return
	}
	if err := c.Hub.ServeWS(ctx.Writer, ctx.Request, uid); err != nil {
		logger.Log.Warn("websocket upgrade failed", zap.String("uid", uid), zap.Error(err))
	}
}

// wsIdentity 推送连接只认JWT中的用户
func wsIdentity(claims *util.Claims, requested string) (string, error) {
	if claims == nil {
		return "", util.ErrUnauthorized
	}
	if requested != "" && requested != claims.UID {
		return "", util.ErrPermissionDenied
	}
	return claims.UID, nil
}
