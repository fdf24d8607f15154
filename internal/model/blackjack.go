package model

import (
	"encoding/json"

	"gorm.io/datatypes"
)

const (
	BlackjackActive   = "ACTIVE"
	BlackjackInactive = "INACTIVE"
)

type BlackjackState struct {
	Deck        []string `json:"deck"`
	PlayerHand  []string `json:"playerHand"`
	DealerHand  []string `json:"dealerHand"`
	PlayerScore int      `json:"playerScore"`
	DealerScore int      `json:"dealerScore"`
	Result      string   `json:"result,omitempty"`
}

// swagger:model Blackjack
type Blackjack struct {
	BaseModel
	PersonID  uint           `gorm:"index;not null" json:"personId"`
	Person    *Person        `gorm:"foreignKey:PersonID" json:"-"`
	Status    string         `gorm:"size:16;index" json:"status"`
	BetAmount float64        `json:"betAmount"`
	GameState datatypes.JSON `json:"gameState"`
	Version   uint           `gorm:"not null;default:0" json:"-"`
}

func (Blackjack) TableName() string {
	return "blackjack"
}

func (b *Blackjack) State() (BlackjackState, error) {
	var st BlackjackState
	if len(b.GameState) == 0 {
		return st, nil
	}
	err := json.Unmarshal(b.GameState, &st)
	return st, err
}

func (b *Blackjack) SetState(st BlackjackState) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return err
	}
	b.GameState = datatypes.JSON(raw)
	return nil
}
