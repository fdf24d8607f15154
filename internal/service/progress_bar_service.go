package service

import (
	"errors"
	"portfolio_backend/internal/model"
	"portfolio_backend/internal/repository"
	"portfolio_backend/internal/util"

	"gorm.io/gorm"
)

type ProgressBarService struct {
	repo *repository.ProgressBarRepository
}

func NewProgressBarService(repo *repository.ProgressBarRepository) *ProgressBarService {
	return &ProgressBarService{repo: repo}
}

// Get 没有记录时返回0进度
func (s *ProgressBarService) Get(userID string) (*model.ProgressBar, error) {
	pb, err := s.repo.FindByUserID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &model.ProgressBar{UserID: userID}, nil
	}
	return pb, err
}

func (s *ProgressBarService) Update(userID string, completed int) (*model.ProgressBar, error) {
	if completed < 0 || completed > model.MaxCompletedLessons {
		return nil, util.ErrOutOfRange
	}
	pb, err := s.Get(userID)
	if err != nil {
		return nil, err
	}
	pb.CompletedLessons = completed
	return pb, s.repo.Save(pb)
}

func (s *ProgressBarService) Increment(userID string) (*model.ProgressBar, error) {
	pb, err := s.Get(userID)
	if err != nil {
		return nil, err
	}
	if pb.CompletedLessons < model.MaxCompletedLessons {
		pb.CompletedLessons++
	}
	return pb, s.repo.Save(pb)
}
