package repository

import (
	"portfolio_backend/internal/model"

	"gorm.io/gorm"
)

type StatsRepository struct {
	DB *gorm.DB
}

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{DB: db}
}

func (r *StatsRepository) FindAll() ([]model.Stats, error) {
	var list []model.Stats
	err := r.DB.Order("username ASC, module ASC, submodule ASC").Find(&list).Error
	return list, err
}

func (r *StatsRepository) FindByUsername(username string) ([]model.Stats, error) {
	var list []model.Stats
	err := r.DB.Where("username = ?", username).
		Order("module ASC, submodule ASC").
		Find(&list).Error
	return list, err
}

func (r *StatsRepository) FindOne(username, module string, submodule int) (*model.Stats, error) {
	var s model.Stats
	err := r.DB.Where("username = ? AND module = ? AND submodule = ?", username, module, submodule).
		First(&s).Error
	return &s, err
}

func (r *StatsRepository) Create(s *model.Stats) error {
	return r.DB.Create(s).Error
}

func (r *StatsRepository) Save(s *model.Stats) error {
	return r.DB.Save(s).Error
}

// Delete 按用户名删除，可选限定模块与子模块
func (r *StatsRepository) Delete(username, module string, submodule *int) (int64, error) {
	q := r.DB.Unscoped().Where("username = ?", username)
	if module != "" {
		q = q.Where("module = ?", module)
		if submodule != nil {
			q = q.Where("submodule = ?", *submodule)
		}
	}
	res := q.Delete(&model.Stats{})
	return res.RowsAffected, res.Error
}
