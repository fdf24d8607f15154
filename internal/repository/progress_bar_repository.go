package repository

import (
	"portfolio_backend/internal/model"

	"gorm.io/gorm"
)

type ProgressBarRepository struct {
	DB *gorm.DB
}

func NewProgressBarRepository(db *gorm.DB) *ProgressBarRepository {
	return &ProgressBarRepository{DB: db}
}

func (r *ProgressBarRepository) FindByUserID(userID string) (*model.ProgressBar, error) {
	var pb model.ProgressBar
	err := r.DB.Where("user_id = ?", userID).First(&pb).Error
	return &pb, err
}

func (r *ProgressBarRepository) Save(pb *model.ProgressBar) error {
	return r.DB.Save(pb).Error
}
