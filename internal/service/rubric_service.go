package service

import (
	"errors"
	"portfolio_backend/internal/model"
	"portfolio_backend/internal/repository"
	"portfolio_backend/internal/util"
	"strings"

	"gorm.io/gorm"
)

type RubricService struct {
	repo *repository.RubricRepository
}

func NewRubricService(repo *repository.RubricRepository) *RubricService {
	return &RubricService{repo: repo}
}

func (s *RubricService) Get(uid, assignment string) (*model.Rubric, error) {
	return s.repo.FindByUIDAndAssignment(uid, assignment)
}

func (s *RubricService) ByStudent(uid string) ([]model.Rubric, error) {
	return s.repo.FindByUID(uid)
}

func (s *RubricService) ByAssignment(assignment string) ([]model.Rubric, error) {
	return s.repo.FindByAssignment(assignment)
}

// Upsert 同一学生同一作业只保留一份评分细则；返回是否新建
func (s *RubricService) Upsert(uid, assignment, body string) (*model.Rubric, bool, error) {
	uid, assignment = strings.TrimSpace(uid), strings.TrimSpace(assignment)
	if uid == "" || assignment == "" || strings.TrimSpace(body) == "" {
		return nil, false, util.ErrInvalidInput
	}

	rubric, err := s.repo.FindByUIDAndAssignment(uid, assignment)
	created := false
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, err
		}
		rubric = &model.Rubric{UID: uid, Assignment: assignment}
		created = true
	}
	rubric.Rubric = body
	return rubric, created, s.repo.Save(rubric)
}

func (s *RubricService) Delete(id uint) (bool, error) {
	return s.repo.Delete(id)
}
