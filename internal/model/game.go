package model

import "gorm.io/datatypes"

const (
	GameTypeBlackjack = "blackjack"

	GameResultWin  = "WIN"
	GameResultLose = "LOSE"
	GameResultDraw = "DRAW"
)

// Game 游戏流水账，每局结束记录一行
// swagger:model Game
type Game struct {
	BaseModel
	PersonID  uint           `gorm:"index;not null" json:"personId"`
	PersonUID string         `gorm:"size:64;index" json:"personUid"`
	Type      string         `gorm:"size:32;index" json:"type"`
	TxID      string         `gorm:"size:36;uniqueIndex" json:"txId"`
	BetAmount float64        `json:"betAmount"`
	Amount    float64        `json:"amount"`
	Balance   float64        `json:"balance"`
	Result    string         `gorm:"size:16" json:"result"`
	Success   bool           `json:"success"`
	Details   datatypes.JSON `json:"details,omitempty"`
}

func (Game) TableName() string {
	return "games"
}
