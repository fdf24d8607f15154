package service

import (
	"errors"
	"portfolio_backend/internal/model"
	"portfolio_backend/internal/repository"
	"portfolio_backend/internal/util"

	"gorm.io/gorm"
)

type PlantService struct {
	repo *repository.PlantRepository
}

func NewPlantService(repo *repository.PlantRepository) *PlantService {
	return &PlantService{repo: repo}
}

func (s *PlantService) All() ([]model.Plant, error) {
	return s.repo.FindAll()
}

func (s *PlantService) Get(uid string) (*model.Plant, error) {
	return s.repo.FindByUID(uid)
}

// Add 每个uid只能有一株植物
func (s *PlantService) Add(uid string) (*model.Plant, error) {
	_, err := s.repo.FindByUID(uid)
	if err == nil {
		return nil, util.ErrAlreadyExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	plant := &model.Plant{UID: uid, Stage: model.PlantMinStage}
	return plant, s.repo.Create(plant)
}

// NextStage 完成一课：课时数总是加一，阶段封顶6；植物不存在时自动创建
func (s *PlantService) NextStage(uid string) (*model.Plant, error) {
	plant, err := s.repo.FindByUID(uid)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		plant = &model.Plant{UID: uid, Stage: model.PlantMinStage}
	}

	plant.TotalLessonsCompleted++
	if plant.Stage < model.PlantMaxStage {
		plant.Stage++
	}
	return plant, s.repo.Save(plant)
}

func (s *PlantService) Reset(uid string) (*model.Plant, error) {
	plant, err := s.repo.FindByUID(uid)
	if err != nil {
		return nil, err
	}
	plant.Stage = model.PlantMinStage
	plant.TotalLessonsCompleted = 0
	return plant, s.repo.Save(plant)
}

// Stage 植物不存在时返回初始阶段而不建档
func (s *PlantService) Stage(uid string) (*model.Plant, error) {
	plant, err := s.repo.FindByUID(uid)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &model.Plant{UID: uid, Stage: model.PlantMinStage}, nil
	}
	return plant, err
}

func (s *PlantService) Delete(uid string) (bool, error) {
	return s.repo.DeleteByUID(uid)
}
