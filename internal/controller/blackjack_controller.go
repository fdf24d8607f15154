package controller

import (
	"errors"
	"portfolio_backend/internal/model"
	"portfolio_backend/internal/service"
	"portfolio_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type BlackjackController struct {
	BlackjackService *service.BlackjackService
}

func NewBlackjackController(blackjackService *service.BlackjackService) *BlackjackController {
	return &BlackjackController{BlackjackService: blackjackService}
}

type BlackjackStartRequest struct {
	UID       string  `json:"uid" binding:"required"`
	BetAmount float64 `json:"betAmount"`
}

type BlackjackActionRequest struct {
	UID string `json:"uid" binding:"required"`
}

// BlackjackView 牌局对外视图，不暴露剩余牌堆
type BlackjackView struct {
	ID          uint     `json:"id"`
	Status      string   `json:"status"`
	BetAmount   float64  `json:"betAmount"`
	PlayerHand  []string `json:"playerHand"`
	DealerHand  []string `json:"dealerHand"`
	PlayerScore int      `json:"playerScore"`
	DealerScore int      `json:"dealerScore"`
	Result      string   `json:"result,omitempty"`
	DeckSize    int      `json:"deckSize"`
}

func renderBlackjack(ctx *gin.Context, game *model.Blackjack) {
	st, err := game.State()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, BlackjackView{
		ID:          game.ID,
		Status:      game.Status,
		BetAmount:   game.BetAmount,
		PlayerHand:  st.PlayerHand,
		DealerHand:  st.DealerHand,
		PlayerScore: st.PlayerScore,
		DealerScore: st.DealerScore,
		Result:      st.Result,
		DeckSize:    len(st.Deck),
	})
}

func blackjackError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrNoActiveGame):
		util.NotFoundMsg(ctx, err.Error())
	case errors.Is(err, util.ErrDeckEmpty):
		util.Success(ctx, gin.H{"message": err.Error()})
	default:
		handleError(ctx, err)
	}
}

// Start godoc
// @Summary 开始21点牌局
// @Description 洗牌后玩家与庄家各发两张
// @Tags 娱乐
// @Accept  json
// @Produce  json
// @Param   body body BlackjackStartRequest true "uid与下注金额"
// @Success 200 {object} util.Response{data=BlackjackView}
// @Failure 400 {object} util.Response "下注金额非法"
// @Failure 404 {object} util.Response "用户不存在"
// @Router /api/casino/blackjack/start [post]
func (c *BlackjackController) Start(ctx *gin.Context) {
	var req BlackjackStartRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	game, err := c.BlackjackService.Start(req.UID, req.BetAmount)
	if err != nil {
		blackjackError(ctx, err)
		return
	}
	renderBlackjack(ctx, game)
}

// Hit godoc
// @Summary 要牌
// @Tags 娱乐
// @Accept  json
// @Produce  json
// @Param   body body BlackjackActionRequest true "uid"
// @Success 200 {object} util.Response{data=BlackjackView}
// @Failure 404 {object} util.Response "没有进行中的牌局"
// @Router /api/casino/blackjack/hit [post]
func (c *BlackjackController) Hit(ctx *gin.Context) {
	var req BlackjackActionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	game, err := c.BlackjackService.Hit(req.UID)
	if err != nil {
		blackjackError(ctx, err)
		return
	}
	renderBlackjack(ctx, game)
}

// Stand godoc
// @Summary 停牌并结算
// @Tags 娱乐
// @Accept  json
// @Produce  json
// @Param   body body BlackjackActionRequest true "uid"
// @Success 200 {object} util.Response{data=BlackjackView}
// @Failure 404 {object} util.Response "没有进行中的牌局"
// @Router /api/casino/blackjack/stand [post]
func (c *BlackjackController) Stand(ctx *gin.Context) {
	var req BlackjackActionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	game, err := c.BlackjackService.Stand(req.UID)
	if err != nil {
		blackjackError(ctx, err)
		return
	}
	renderBlackjack(ctx, game)
}
