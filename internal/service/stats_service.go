package service

import (
	"context"
	"errors"
	"portfolio_backend/internal/model"
	"portfolio_backend/internal/repository"
	"portfolio_backend/internal/util"
	"strings"

	"gorm.io/gorm"
)

type StatsService struct {
	repo   *repository.StatsRepository
	grader *GeminiService
}

func NewStatsService(repo *repository.StatsRepository, grader *GeminiService) *StatsService {
	return &StatsService{repo: repo, grader: grader}
}

// StatsKey 唯一定位一条统计
type StatsKey struct {
	Username  string `json:"username"`
	Module    string `json:"module"`
	Submodule *int   `json:"submodule"`
}

func (k StatsKey) complete() bool {
	return strings.TrimSpace(k.Username) != "" && strings.TrimSpace(k.Module) != "" && k.Submodule != nil
}

type StatsUpdate struct {
	StatsKey
	Finished *bool    `json:"finished"`
	Time     *float64 `json:"time"`
	Grades   *float64 `json:"grades"`
}

func (s *StatsService) List(username string) ([]model.Stats, error) {
	if username == "" {
		return s.repo.FindAll()
	}
	list, err := s.repo.FindByUsername(username)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return list, nil
}

func (s *StatsService) Create(st *model.Stats) error {
	if strings.TrimSpace(st.Username) == "" || strings.TrimSpace(st.Module) == "" {
		return util.ErrInvalidInput
	}
	_, err := s.repo.FindOne(st.Username, st.Module, st.Submodule)
	if err == nil {
		return util.ErrAlreadyExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return s.repo.Create(st)
}

func (s *StatsService) Update(in StatsUpdate) (*model.Stats, error) {
	if !in.complete() {
		return nil, util.ErrInvalidInput
	}
	if in.Finished == nil && in.Time == nil && in.Grades == nil {
		return nil, util.ErrNothingToApply
	}
	st, err := s.repo.FindOne(in.Username, in.Module, *in.Submodule)
	if err != nil {
		return nil, err
	}
	if in.Finished != nil {
		st.Finished = *in.Finished
	}
	if in.Time != nil {
		st.Time = *in.Time
	}
	if in.Grades != nil {
		st.Grades = in.Grades
	}
	return st, s.repo.Save(st)
}

// Grade 调用模型打分后写入，返回是否新建
func (s *StatsService) Grade(ctx context.Context, key StatsKey, question, response string) (*model.Stats, bool, error) {
	if !key.complete() || strings.TrimSpace(question) == "" || strings.TrimSpace(response) == "" {
		return nil, false, util.ErrInvalidInput
	}
	grade, err := s.grader.NumericGrade(ctx, question, response)
	if err != nil {
		return nil, false, err
	}

	st, err := s.repo.FindOne(key.Username, key.Module, *key.Submodule)
	if err == nil {
		st.Grades = &grade
		return st, false, s.repo.Save(st)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	st = &model.Stats{Username: key.Username, Module: key.Module, Submodule: *key.Submodule, Grades: &grade}
	return st, true, s.repo.Create(st)
}

// Delete 返回删除条数，为0表示无匹配
func (s *StatsService) Delete(key StatsKey) (int64, error) {
	if strings.TrimSpace(key.Username) == "" {
		return 0, util.ErrInvalidInput
	}
	return s.repo.Delete(key.Username, strings.TrimSpace(key.Module), key.Submodule)
}
