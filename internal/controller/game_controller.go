package controller

import (
	"portfolio_backend/internal/model"
	"portfolio_backend/internal/service"
	"portfolio_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type GameController struct {
	GameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{GameService: gameService}
}

// Combined godoc
// @Summary 用户游戏流水汇总
// @Tags 娱乐
// @Produce  json
// @Param personId path int true "用户ID"
// @Success 200 {object} util.Response{data=service.CombinedGames}
// @Router /game/combined/{personId} [get]
func (c *GameController) Combined(ctx *gin.Context) {
	personID, err := strconv.ParseUint(ctx.Param("personId"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid personId")
		return
	}
	combined, err := c.GameService.Combined(uint(personID))
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, combined)
}

// Create godoc
// @Summary 新增游戏流水
// @Tags 娱乐
// @Accept  json
// @Produce  json
// @Param   body body model.Game true "流水"
// @Success 201 {object} util.Response{data=model.Game}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response "用户不存在"
// @Router /game [post]
func (c *GameController) Create(ctx *gin.Context) {
	var game model.Game
	if err := ctx.ShouldBindJSON(&game); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	game.ID = 0
	if err := c.GameService.Create(&game); err != nil {
		handleError(ctx, err)
		return
	}
	util.Created(ctx, game)
}

// Get godoc
// @Summary 查询游戏流水
// @Tags 娱乐
// @Produce  json
// @Param id path int true "流水ID"
// @Success 200 {object} util.Response{data=model.Game}
// @Failure 404 {object} util.Response
// @Router /game/{id} [get]
func (c *GameController) Get(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	game, err := c.GameService.Get(id)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, game)
}

// Update godoc
// @Summary 修改游戏流水
// @Tags 娱乐
// @Accept  json
// @Produce  json
// @Param id path int true "流水ID"
// @Param   body body model.Game true "流水"
// @Success 200 {object} util.Response{data=model.Game}
// @Failure 404 {object} util.Response
// @Router /game/{id} [put]
func (c *GameController) Update(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	var patch model.Game
	if err := ctx.ShouldBindJSON(&patch); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	game, err := c.GameService.Update(id, &patch)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, game)
}

// Delete godoc
// @Summary 删除游戏流水
// @Tags 娱乐
// @Param id path int true "流水ID"
// @Success 204
// @Failure 404 {object} util.Response
// @Router /game/{id} [delete]
func (c *GameController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	deleted, err := c.GameService.Delete(id)
	notFoundOr(ctx, deleted, err, func() { util.NoContent(ctx) })
}
