package repository

import (
	"portfolio_backend/internal/model"

	"gorm.io/gorm"
)

type GameRepository struct {
	DB *gorm.DB
}

func NewGameRepository(db *gorm.DB) *GameRepository {
	return &GameRepository{DB: db}
}

func (r *GameRepository) Create(tx *gorm.DB, game *model.Game) error {
	if tx == nil {
		tx = r.DB
	}
	return tx.Create(game).Error
}

func (r *GameRepository) FindByID(id uint) (*model.Game, error) {
	var game model.Game
	err := r.DB.First(&game, id).Error
	return &game, err
}

func (r *GameRepository) Update(game *model.Game) error {
	return r.DB.Save(game).Error
}

func (r *GameRepository) Delete(id uint) (bool, error) {
	res := r.DB.Unscoped().Delete(&model.Game{}, id)
	return res.RowsAffected > 0, res.Error
}

func (r *GameRepository) FindByPersonID(personID uint) ([]model.Game, error) {
	var games []model.Game
	err := r.DB.Where("person_id = ?", personID).Order("created_at DESC").Find(&games).Error
	return games, err
}

func (r *GameRepository) SumBalanceByPersonID(personID uint) (float64, error) {
	var total float64
	err := r.DB.Model(&model.Game{}).
		Where("person_id = ?", personID).
		Select("COALESCE(SUM(balance), 0)").
		Scan(&total).Error
	return total, err
}
