package repository

import (
	"portfolio_backend/internal/model"

	"gorm.io/gorm"
)

type PlayerRepository struct {
	DB *gorm.DB
}

func NewPlayerRepository(db *gorm.DB) *PlayerRepository {
	return &PlayerRepository{DB: db}
}

func (r *PlayerRepository) FindByUID(uid string) (*model.Player, error) {
	var p model.Player
	err := r.DB.Where("uid = ?", uid).First(&p).Error
	return &p, err
}

func (r *PlayerRepository) Save(p *model.Player) error {
	return r.DB.Save(p).Error
}

func (r *PlayerRepository) FindByStatus(status string) ([]model.Player, error) {
	var list []model.Player
	err := r.DB.Where("status = ?", status).Order("last_active DESC").Find(&list).Error
	return list, err
}

func (r *PlayerRepository) FindAll() ([]model.Player, error) {
	var list []model.Player
	err := r.DB.Order("id ASC").Find(&list).Error
	return list, err
}
