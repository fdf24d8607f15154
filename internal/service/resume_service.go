package service

import (
	"portfolio_backend/internal/model"
	"portfolio_backend/internal/repository"
	"portfolio_backend/internal/util"
	"strings"
)

type ResumeService struct {
	repo *repository.ResumeRepository
}

func NewResumeService(repo *repository.ResumeRepository) *ResumeService {
	return &ResumeService{repo: repo}
}

func (s *ResumeService) Get(username string) (*model.Resume, error) {
	return s.repo.FindByUsername(username)
}

func (s *ResumeService) Save(resume *model.Resume) (*model.Resume, error) {
	resume.Username = strings.TrimSpace(resume.Username)
	if resume.Username == "" {
		return nil, util.ErrInvalidInput
	}
	if resume.Experiences == nil {
		resume.Experiences = []model.Experience{}
	}
	if err := s.repo.Upsert(resume); err != nil {
		return nil, err
	}
	return s.repo.FindByUsername(resume.Username)
}
