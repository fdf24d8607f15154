package repository

import (
	"portfolio_backend/internal/model"

	"gorm.io/gorm"
)

type GeminiRepository struct {
	DB *gorm.DB
}

func NewGeminiRepository(db *gorm.DB) *GeminiRepository {
	return &GeminiRepository{DB: db}
}

func (r *GeminiRepository) CreateChat(chat *model.GeminiChat) error {
	return r.DB.Create(chat).Error
}

func (r *GeminiRepository) FindChatsByUserID(userID string) ([]model.GeminiChat, error) {
	var list []model.GeminiChat
	err := r.DB.Where("user_id = ?", userID).Order("id ASC").Find(&list).Error
	return list, err
}

func (r *GeminiRepository) CreateGrading(g *model.GeminiGrading) error {
	return r.DB.Create(g).Error
}
