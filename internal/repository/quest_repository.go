package repository

import (
	"portfolio_backend/internal/model"

	"gorm.io/gorm"
)

type QuestRepository struct {
	DB *gorm.DB
}

func NewQuestRepository(db *gorm.DB) *QuestRepository {
	return &QuestRepository{DB: db}
}

func (r *QuestRepository) Create(q *model.Quest) error {
	return r.DB.Create(q).Error
}

func (r *QuestRepository) FindByID(id uint) (*model.Quest, error) {
	var q model.Quest
	err := r.DB.First(&q, id).Error
	return &q, err
}

func (r *QuestRepository) FindAll() ([]model.Quest, error) {
	var quests []model.Quest
	err := r.DB.Order("id ASC").Find(&quests).Error
	return quests, err
}

func (r *QuestRepository) ExistsByPermalink(permalink string, excludeID uint) (bool, error) {
	var count int64
	q := r.DB.Model(&model.Quest{}).Where("permalink = ?", permalink)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *QuestRepository) Save(q *model.Quest) error {
	return r.DB.Save(q).Error
}

func (r *QuestRepository) Delete(id uint) (bool, error) {
	res := r.DB.Unscoped().Delete(&model.Quest{}, id)
	return res.RowsAffected > 0, res.Error
}
