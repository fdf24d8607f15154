package repository

import (
	"portfolio_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserEventRepository struct {
	DB *gorm.DB
}

func NewUserEventRepository(db *gorm.DB) *UserEventRepository {
	return &UserEventRepository{DB: db}
}

// CreateIgnoreDuplicates 批量写入，已存在的事件跳过，返回实际新增条数
func (r *UserEventRepository) CreateIgnoreDuplicates(events []model.UserEvent) (int64, error) {
	if len(events) == 0 {
		return 0, nil
	}
	res := r.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&events)
	return res.RowsAffected, res.Error
}

func (r *UserEventRepository) FindByLogin(login string) ([]model.UserEvent, error) {
	var list []model.UserEvent
	err := r.DB.Where("github_login = ?", login).Order("timestamp DESC").Find(&list).Error
	return list, err
}
