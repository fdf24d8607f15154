package repository

import (
	"portfolio_backend/internal/model"

	"gorm.io/gorm"
)

type RubricRepository struct {
	DB *gorm.DB
}

func NewRubricRepository(db *gorm.DB) *RubricRepository {
	return &RubricRepository{DB: db}
}

func (r *RubricRepository) FindByUIDAndAssignment(uid, assignment string) (*model.Rubric, error) {
	var rubric model.Rubric
	err := r.DB.Where("uid = ? AND assignment = ?", uid, assignment).First(&rubric).Error
	return &rubric, err
}

func (r *RubricRepository) FindByUID(uid string) ([]model.Rubric, error) {
	var rubrics []model.Rubric
	err := r.DB.Where("uid = ?", uid).Order("id ASC").Find(&rubrics).Error
	return rubrics, err
}

func (r *RubricRepository) FindByAssignment(assignment string) ([]model.Rubric, error) {
	var rubrics []model.Rubric
	err := r.DB.Where("assignment = ?", assignment).Order("id ASC").Find(&rubrics).Error
	return rubrics, err
}

func (r *RubricRepository) Save(rubric *model.Rubric) error {
	return r.DB.Save(rubric).Error
}

func (r *RubricRepository) Delete(id uint) (bool, error) {
	res := r.DB.Unscoped().Delete(&model.Rubric{}, id)
	return res.RowsAffected > 0, res.Error
}
