package repository

import (
	"portfolio_backend/internal/model"

	"gorm.io/gorm"
)

type PlantRepository struct {
	DB *gorm.DB
}

func NewPlantRepository(db *gorm.DB) *PlantRepository {
	return &PlantRepository{DB: db}
}

func (r *PlantRepository) FindAll() ([]model.Plant, error) {
	var plants []model.Plant
	err := r.DB.Order("id ASC").Find(&plants).Error
	return plants, err
}

func (r *PlantRepository) FindByUID(uid string) (*model.Plant, error) {
	var plant model.Plant
	err := r.DB.Where("uid = ?", uid).First(&plant).Error
	return &plant, err
}

func (r *PlantRepository) Create(plant *model.Plant) error {
	return r.DB.Create(plant).Error
}

func (r *PlantRepository) Save(plant *model.Plant) error {
	return r.DB.Save(plant).Error
}

func (r *PlantRepository) DeleteByUID(uid string) (bool, error) {
	res := r.DB.Unscoped().Where("uid = ?", uid).Delete(&model.Plant{})
	return res.RowsAffected > 0, res.Error
}
