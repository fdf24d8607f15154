package service

import (
	"errors"
	"portfolio_backend/internal/model"
	"portfolio_backend/internal/repository"
	"portfolio_backend/internal/util"
	"strings"

	"gorm.io/gorm"
)

type EvaluationService struct {
	repo *repository.EvaluationRepository
}

func NewEvaluationService(repo *repository.EvaluationRepository) *EvaluationService {
	return &EvaluationService{repo: repo}
}

func (s *EvaluationService) CreateAdmin(e *model.AdminEvaluation) error {
	if strings.TrimSpace(e.UserID) == "" {
		return util.ErrInvalidInput
	}
	return s.repo.CreateAdmin(e)
}

func (s *EvaluationService) ListAdmin() ([]model.AdminEvaluation, error) {
	return s.repo.FindAllAdmin()
}

// CreateStudent 每位学生仅一份自评
func (s *EvaluationService) CreateStudent(e *model.StudentEvaluation) error {
	if strings.TrimSpace(e.UserID) == "" {
		return util.ErrInvalidInput
	}
	_, err := s.repo.FindStudentByUserID(e.UserID)
	if err == nil {
		return util.ErrAlreadyExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return s.repo.CreateStudent(e)
}

func (s *EvaluationService) GetStudent(userID string) (*model.StudentEvaluation, error) {
	return s.repo.FindStudentByUserID(userID)
}

// EvaluationPatch 只更新提交的评分项
type EvaluationPatch struct {
	Attendance    *int `json:"attendance"`
	WorkHabits    *int `json:"work_habits"`
	Behavior      *int `json:"behavior"`
	Timeliness    *int `json:"timeliness"`
	TechSense     *int `json:"tech_sense"`
	TechTalk      *int `json:"tech_talk"`
	TechGrowth    *int `json:"tech_growth"`
	Advocacy      *int `json:"advocacy"`
	Communication *int `json:"communication"`
	Integrity     *int `json:"integrity"`
	Organization  *int `json:"organization"`
}

func (p EvaluationPatch) apply(sc *model.EvaluationScores) {
	set := func(dst *int, v *int) {
		if v != nil {
			*dst = *v
		}
	}
	set(&sc.Attendance, p.Attendance)
	set(&sc.WorkHabits, p.WorkHabits)
	set(&sc.Behavior, p.Behavior)
	set(&sc.Timeliness, p.Timeliness)
	set(&sc.TechSense, p.TechSense)
	set(&sc.TechTalk, p.TechTalk)
	set(&sc.TechGrowth, p.TechGrowth)
	set(&sc.Advocacy, p.Advocacy)
	set(&sc.Communication, p.Communication)
	set(&sc.Integrity, p.Integrity)
	set(&sc.Organization, p.Organization)
}

func (s *EvaluationService) UpdateStudent(userID string, patch EvaluationPatch) (*model.StudentEvaluation, error) {
	e, err := s.repo.FindStudentByUserID(userID)
	if err != nil {
		return nil, err
	}
	patch.apply(&e.EvaluationScores)
	return e, s.repo.SaveStudent(e)
}

func (s *EvaluationService) DeleteStudent(userID string) (bool, error) {
	return s.repo.DeleteStudentByUserID(userID)
}
