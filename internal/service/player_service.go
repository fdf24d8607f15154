package service

import (
	"context"
	"errors"
	"portfolio_backend/internal/model"
	"portfolio_backend/internal/repository"
	"portfolio_backend/internal/util"
	"portfolio_backend/pkg/logger"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const onlinePlayersKey = "players:online"

type PlayerService struct {
	repo       *repository.PlayerRepository
	personRepo *repository.PersonRepository
	redis      *redis.Client
	hub        *PlayerHub
}

func NewPlayerService(repo *repository.PlayerRepository, personRepo *repository.PersonRepository, rdb *redis.Client, hub *PlayerHub) *PlayerService {
	s := &PlayerService{repo: repo, personRepo: personRepo, redis: rdb, hub: hub}
	if hub != nil {
		hub.OnLocation = func(uid string, x, y float64) {
			if _, err := s.UpdateLocation(uid, x, y); err != nil {
				logger.Log.Debug("ws location update ignored", zap.String("uid", uid), zap.Error(err))
			}
		}
	}
	return s
}

// PlayerLocation 地图上展示的精简信息
type PlayerLocation struct {
	UID   string  `json:"uid"`
	Name  string  `json:"name"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Level int     `json:"level"`
}

func (s *PlayerService) broadcast(msgType string, p *model.Player) {
	if s.hub == nil {
		return
	}
	s.hub.Broadcast(msgType, p)
}

func (s *PlayerService) markOnline(uid string, online bool) {
	if s.redis == nil {
		return
	}
	ctx := context.Background()
	var err error
	if online {
		err = s.redis.SAdd(ctx, onlinePlayersKey, uid).Err()
	} else {
		err = s.redis.SRem(ctx, onlinePlayersKey, uid).Err()
	}
	if err != nil {
		logger.Log.Warn("failed to update online set", zap.String("uid", uid), zap.Error(err))
	}
}

func (s *PlayerService) Get(uid string) (*model.Player, error) {
	return s.repo.FindByUID(uid)
}

// Connect 以Person资料建立或刷新玩家档案并标记在线
func (s *PlayerService) Connect(uid string) (*model.Player, error) {
	person, err := s.personRepo.FindByUID(uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPersonNotFound
		}
		return nil, err
	}

	player, err := s.repo.FindByUID(uid)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		player = &model.Player{UID: uid, Level: 1}
	}

	now := time.Now()
	player.Name = person.Name
	player.Email = person.Email
	player.Pfp = person.Pfp
	player.Status = model.PlayerOnline
	player.ConnectedAt = &now
	player.LastActive = now

	if err := s.repo.Save(player); err != nil {
		return nil, err
	}
	s.markOnline(uid, true)
	s.broadcast("PLAYER_CONNECTED", player)
	return player, nil
}

func (s *PlayerService) Online() ([]model.Player, error) {
	return s.repo.FindByStatus(model.PlayerOnline)
}

func (s *PlayerService) UpdateStatus(uid, status string) (*model.Player, error) {
	if status != model.PlayerOnline && status != model.PlayerOffline {
		return nil, util.ErrInvalidInput
	}
	player, err := s.repo.FindByUID(uid)
	if err != nil {
		return nil, err
	}
	player.Status = status
	player.LastActive = time.Now()
	if err := s.repo.Save(player); err != nil {
		return nil, err
	}
	s.markOnline(uid, status == model.PlayerOnline)
	s.broadcast("PLAYER_STATUS", player)
	return player, nil
}

func (s *PlayerService) Disconnect(uid string) (*model.Player, error) {
	player, err := s.UpdateStatus(uid, model.PlayerOffline)
	if err != nil {
		return nil, err
	}
	return player, nil
}

func (s *PlayerService) UpdateLocation(uid string, x, y float64) (*model.Player, error) {
	player, err := s.repo.FindByUID(uid)
	if err != nil {
		return nil, err
	}
	player.X, player.Y = x, y
	player.LastActive = time.Now()
	if err := s.repo.Save(player); err != nil {
		return nil, err
	}
	s.broadcast("PLAYER_LOCATION", player)
	return player, nil
}

func (s *PlayerService) UpdateLevel(uid string, level int) (*model.Player, error) {
	if level < 1 {
		return nil, util.ErrOutOfRange
	}
	player, err := s.repo.FindByUID(uid)
	if err != nil {
		return nil, err
	}
	player.Level = level
	player.LastActive = time.Now()
	return player, s.repo.Save(player)
}

func (s *PlayerService) Locations() ([]PlayerLocation, error) {
	players, err := s.repo.FindByStatus(model.PlayerOnline)
	if err != nil {
		return nil, err
	}
	locs := make([]PlayerLocation, 0, len(players))
	for _, p := range players {
		locs = append(locs, PlayerLocation{UID: p.UID, Name: p.Name, X: p.X, Y: p.Y, Level: p.Level})
	}
	return locs, nil
}
