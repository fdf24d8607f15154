package repository

import (
	"portfolio_backend/internal/model"
	"strings"

	"gorm.io/gorm"
)

type QuizScoreRepository struct {
	DB *gorm.DB
}

func NewQuizScoreRepository(db *gorm.DB) *QuizScoreRepository {
	return &QuizScoreRepository{DB: db}
}

func (r *QuizScoreRepository) Create(s *model.QuizScore) error {
	return r.DB.Create(s).Error
}

// FindTop 分数降序，同分按提交时间升序
func (r *QuizScoreRepository) FindTop(limit int) ([]model.QuizScore, error) {
	var scores []model.QuizScore
	err := r.DB.Order("score DESC").Order("created_at ASC").Order("id ASC").
		Limit(limit).
		Find(&scores).Error
	return scores, err
}

func (r *QuizScoreRepository) FindByUsername(username string) ([]model.QuizScore, error) {
	var scores []model.QuizScore
	err := r.DB.Where("LOWER(username) = ?", strings.ToLower(username)).
		Order("score DESC").Order("created_at ASC").
		Find(&scores).Error
	return scores, err
}
