package service

import (
	"context"
	"encoding/json"
	"portfolio_backend/internal/model"
	"portfolio_backend/internal/repository"
	"portfolio_backend/internal/util"
	"portfolio_backend/pkg/logger"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	quizLeaderboardKey = "quiz:leaderboard"
	quizLeaderboardTTL = time.Minute
	// QuizLeaderboardMax 缓存与查询的最大条数
	QuizLeaderboardMax = 100
)

type QuizScoreService struct {
	repo  *repository.QuizScoreRepository
	redis *redis.Client
}

func NewQuizScoreService(repo *repository.QuizScoreRepository, rdb *redis.Client) *QuizScoreService {
	return &QuizScoreService{repo: repo, redis: rdb}
}

func (s *QuizScoreService) Submit(ctx context.Context, score *model.QuizScore) error {
	score.Username = strings.TrimSpace(score.Username)
	if score.Username == "" || score.Score < 0 {
		return util.ErrInvalidInput
	}
	if err := s.repo.Create(score); err != nil {
		return err
	}
	if s.redis != nil {
		if err := s.redis.Del(ctx, quizLeaderboardKey).Err(); err != nil {
			logger.Log.Warn("failed to invalidate quiz leaderboard", zap.Error(err))
		}
	}
	return nil
}

// Top 优先读缓存，缓存保存前QuizLeaderboardMax名
func (s *QuizScoreService) Top(ctx context.Context, limit int) ([]model.QuizScore, error) {
	if limit <= 0 || limit > QuizLeaderboardMax {
		limit = 10
	}

	if s.redis != nil {
		if raw, err := s.redis.Get(ctx, quizLeaderboardKey).Bytes(); err == nil {
			var cached []model.QuizScore
			if json.Unmarshal(raw, &cached) == nil {
				return head(cached, limit), nil
			}
		} else if err != redis.Nil {
			logger.Log.Warn("quiz leaderboard cache read failed", zap.Error(err))
		}
	}

	scores, err := s.repo.FindTop(QuizLeaderboardMax)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if raw, err := json.Marshal(scores); err == nil {
			s.redis.Set(ctx, quizLeaderboardKey, raw, quizLeaderboardTTL)
		}
	}
	return head(scores, limit), nil
}

func head(scores []model.QuizScore, n int) []model.QuizScore {
	if len(scores) > n {
		return scores[:n]
	}
	return scores
}

func (s *QuizScoreService) ByUser(username string) ([]model.QuizScore, error) {
	return s.repo.FindByUsername(strings.TrimSpace(username))
}
