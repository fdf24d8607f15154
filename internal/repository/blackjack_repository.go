package repository

import (
	"portfolio_backend/internal/model"

	"gorm.io/gorm"
)

type BlackjackRepository struct {
	DB *gorm.DB
}

func NewBlackjackRepository(db *gorm.DB) *BlackjackRepository {
	return &BlackjackRepository{DB: db}
}

func (r *BlackjackRepository) Create(game *model.Blackjack) error {
	return r.DB.Create(game).Error
}

// Advance 仅当牌局仍在进行且未被其他请求改动时写入新状态，返回是否写入
func (r *BlackjackRepository) Advance(tx *gorm.DB, game *model.Blackjack, status string) (bool, error) {
	if tx == nil {
		tx = r.DB
	}
	result := tx.Model(&model.Blackjack{}).
		Where("id = ? AND status = ? AND version = ?", game.ID, model.BlackjackActive, game.Version).
		Updates(map[string]interface{}{
			"status":     status,
			"game_state": game.GameState,
			"version":    game.Version + 1,
		})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	game.Status = status
	game.Version++
	return true, nil
}

// FindLatestActive 取该用户最近一局进行中的牌局
func (r *BlackjackRepository) FindLatestActive(personID uint) (*model.Blackjack, error) {
	var game model.Blackjack
	err := r.DB.Where("person_id = ? AND status = ?", personID, model.BlackjackActive).
		Order("id DESC").
		First(&game).Error
	return &game, err
}
