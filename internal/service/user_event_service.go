package service

import (
	"context"
	"encoding/json"
	"portfolio_backend/internal/model"
	"portfolio_backend/internal/repository"
	"portfolio_backend/internal/util"
	"portfolio_backend/pkg/logger"
	"strings"

	"go.uber.org/zap"
)

type UserEventService struct {
	repo   *repository.UserEventRepository
	github *GitHubClient
}

func NewUserEventService(repo *repository.UserEventRepository, github *GitHubClient) *UserEventService {
	return &UserEventService{repo: repo, github: github}
}

type SyncResult struct {
	GitHubLogin string `json:"githubLogin"`
	Fetched     int    `json:"fetched"`
	Stored      int64  `json:"stored"`
}

// SyncGitHub 拉取公开事件并入库，重复事件按唯一索引跳过
func (s *UserEventService) SyncGitHub(ctx context.Context, login, course string) (*SyncResult, error) {
	login = strings.TrimSpace(login)
	if login == "" {
		return nil, util.ErrInvalidInput
	}

	raw, err := s.github.PublicEvents(ctx, login)
	if err != nil {
		return nil, err
	}

	events := make([]model.UserEvent, 0, len(raw))
	for _, ev := range raw {
		if ue, ok := ToUserEvent(ev, login, course); ok {
			events = append(events, ue)
		}
	}

	stored, err := s.repo.CreateIgnoreDuplicates(events)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("GitHub events synced",
		zap.String("login", login),
		zap.Int("fetched", len(events)),
		zap.Int64("stored", stored),
	)
	return &SyncResult{GitHubLogin: login, Fetched: len(events), Stored: stored}, nil
}

func (s *UserEventService) List(login string) ([]model.UserEvent, error) {
	return s.repo.FindByLogin(login)
}

func (s *UserEventService) RateLimit(ctx context.Context) (json.RawMessage, error) {
	return s.github.RateLimit(ctx)
}
