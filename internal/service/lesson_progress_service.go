package service

import (
	"errors"
	"portfolio_backend/internal/model"
	"portfolio_backend/internal/repository"
	"portfolio_backend/internal/util"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type LessonProgressService struct {
	repo *repository.LessonProgressRepository
}

func NewLessonProgressService(repo *repository.LessonProgressRepository) *LessonProgressService {
	return &LessonProgressService{repo: repo}
}

func validateFlashcards(cards []model.FlashcardMark) error {
	for i := range cards {
		if cards[i].Status == "" {
			cards[i].Status = model.FlashcardUnseen
		}
		if !cards[i].Status.Valid() {
			return util.ErrInvalidInput
		}
		if cards[i].MarkedAt.IsZero() {
			cards[i].MarkedAt = time.Now()
		}
	}
	return nil
}

func (s *LessonProgressService) Create(lp *model.LessonProgress) error {
	if lp.UserID == "" || lp.LessonKey == "" {
		return util.ErrInvalidInput
	}
	if err := validateFlashcards(lp.Flashcards); err != nil {
		return err
	}
	_, err := s.repo.FindByUserAndLesson(lp.UserID, lp.LessonKey)
	if err == nil {
		return util.ErrAlreadyExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if len(lp.Badges) == 0 {
		lp.Badges = datatypes.JSON("[]")
	}
	return s.repo.Create(lp)
}

// GetOrCreate 首次访问课程时建档
func (s *LessonProgressService) GetOrCreate(userID, lessonKey string) (*model.LessonProgress, error) {
	lp, err := s.repo.FindByUserAndLesson(userID, lessonKey)
	if err == nil {
		return lp, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	now := time.Now()
	lp = &model.LessonProgress{
		UserID:      userID,
		LessonKey:   lessonKey,
		LastVisited: &now,
		Badges:      datatypes.JSON("[]"),
		Flashcards:  []model.FlashcardMark{},
	}
	return lp, s.repo.Create(lp)
}

func (s *LessonProgressService) Update(id uint, in *model.LessonProgress) (*model.LessonProgress, error) {
	lp, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if err := validateFlashcards(in.Flashcards); err != nil {
		return nil, err
	}

	lp.TotalTimeMs = in.TotalTimeMs
	lp.Completed = in.Completed
	lp.CurrentFlashcardIndex = in.CurrentFlashcardIndex
	lp.ReflectionText = in.ReflectionText
	if in.LastVisited != nil {
		lp.LastVisited = in.LastVisited
	} else {
		now := time.Now()
		lp.LastVisited = &now
	}
	if len(in.Badges) > 0 {
		lp.Badges = in.Badges
	}
	if in.Flashcards != nil {
		lp.Flashcards = in.Flashcards
	}
	if err := s.repo.Replace(lp); err != nil {
		return nil, err
	}
	return lp, nil
}

func (s *LessonProgressService) List(userID string) ([]model.LessonProgress, error) {
	return s.repo.FindAll(userID)
}

func (s *LessonProgressService) Delete(id uint) (bool, error) {
	return s.repo.Delete(id)
}
