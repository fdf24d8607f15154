package service

import (
	"fmt"
	"portfolio_backend/internal/model"
	"portfolio_backend/internal/repository"
	"portfolio_backend/internal/util"
	"strings"
)

type QuestService struct {
	repo *repository.QuestRepository
}

func NewQuestService(repo *repository.QuestRepository) *QuestService {
	return &QuestService{repo: repo}
}

// QuestPatch 部分更新，nil字段保持不变
type QuestPatch struct {
	Name            *string `json:"name"`
	Difficulty      *string `json:"difficulty"`
	Permalink       *string `json:"permalink"`
	TotalSubmodules *int    `json:"totalSubmodules"`
	RewardPoints    *int    `json:"rewardPoints"`
}

func validateQuest(q *model.Quest) error {
	q.Difficulty = model.QuestDifficulty(strings.ToUpper(string(q.Difficulty)))
	switch {
	case strings.TrimSpace(q.Name) == "":
		return fmt.Errorf("%w: name is required", util.ErrInvalidInput)
	case !q.Difficulty.Valid():
		return fmt.Errorf("%w: difficulty must be EASY, MEDIUM or HARD", util.ErrInvalidInput)
	case !strings.HasPrefix(q.Permalink, "/"):
		return fmt.Errorf("%w: permalink must start with /", util.ErrInvalidInput)
	case q.TotalSubmodules < 0 || q.RewardPoints < 0:
		return fmt.Errorf("%w: counts must not be negative", util.ErrInvalidInput)
	}
	return nil
}

func (s *QuestService) Create(q *model.Quest) error {
	if err := validateQuest(q); err != nil {
		return err
	}
	exists, err := s.repo.ExistsByPermalink(q.Permalink, 0)
	if err != nil {
		return err
	}
	if exists {
		return util.ErrAlreadyExists
	}
	return s.repo.Create(q)
}

func (s *QuestService) Get(id uint) (*model.Quest, error) {
	return s.repo.FindByID(id)
}

func (s *QuestService) List() ([]model.Quest, error) {
	return s.repo.FindAll()
}

func (s *QuestService) Update(id uint, patch QuestPatch) (*model.Quest, error) {
	q, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		q.Name = *patch.Name
	}
	if patch.Difficulty != nil {
		q.Difficulty = model.QuestDifficulty(*patch.Difficulty)
	}
	if patch.Permalink != nil {
		q.Permalink = *patch.Permalink
	}
	if patch.TotalSubmodules != nil {
		q.TotalSubmodules = *patch.TotalSubmodules
	}
	if patch.RewardPoints != nil {
		q.RewardPoints = *patch.RewardPoints
	}
	if err := validateQuest(q); err != nil {
		return nil, err
	}
	exists, err := s.repo.ExistsByPermalink(q.Permalink, q.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, util.ErrAlreadyExists
	}
	return q, s.repo.Save(q)
}

func (s *QuestService) Delete(id uint) (bool, error) {
	return s.repo.Delete(id)
}
