package repository

import (
	"portfolio_backend/internal/model"

	"gorm.io/gorm"
)

type EvaluationRepository struct {
	DB *gorm.DB
}

func NewEvaluationRepository(db *gorm.DB) *EvaluationRepository {
	return &EvaluationRepository{DB: db}
}

func (r *EvaluationRepository) CreateAdmin(e *model.AdminEvaluation) error {
	return r.DB.Create(e).Error
}

func (r *EvaluationRepository) FindAllAdmin() ([]model.AdminEvaluation, error) {
	var list []model.AdminEvaluation
	err := r.DB.Order("id ASC").Find(&list).Error
	return list, err
}

func (r *EvaluationRepository) CreateStudent(e *model.StudentEvaluation) error {
	return r.DB.Create(e).Error
}

func (r *EvaluationRepository) FindStudentByUserID(userID string) (*model.StudentEvaluation, error) {
	var e model.StudentEvaluation
	err := r.DB.Where("user_id = ?", userID).First(&e).Error
	return &e, err
}

func (r *EvaluationRepository) SaveStudent(e *model.StudentEvaluation) error {
	return r.DB.Save(e).Error
}

func (r *EvaluationRepository) DeleteStudentByUserID(userID string) (bool, error) {
	res := r.DB.Unscoped().Where("user_id = ?", userID).Delete(&model.StudentEvaluation{})
	return res.RowsAffected > 0, res.Error
}
