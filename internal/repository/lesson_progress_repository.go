package repository

import (
	"portfolio_backend/internal/model"

	"gorm.io/gorm"
)

type LessonProgressRepository struct {
	DB *gorm.DB
}

func NewLessonProgressRepository(db *gorm.DB) *LessonProgressRepository {
	return &LessonProgressRepository{DB: db}
}

func (r *LessonProgressRepository) Create(lp *model.LessonProgress) error {
	return r.DB.Create(lp).Error
}

func (r *LessonProgressRepository) FindByID(id uint) (*model.LessonProgress, error) {
	var lp model.LessonProgress
	err := r.DB.Preload("Flashcards").First(&lp, id).Error
	return &lp, err
}

func (r *LessonProgressRepository) FindByUserAndLesson(userID, lessonKey string) (*model.LessonProgress, error) {
	var lp model.LessonProgress
	err := r.DB.Preload("Flashcards").
		Where("user_id = ? AND lesson_key = ?", userID, lessonKey).
		First(&lp).Error
	return &lp, err
}

func (r *LessonProgressRepository) FindAll(userID string) ([]model.LessonProgress, error) {
	var list []model.LessonProgress
	q := r.DB.Preload("Flashcards").Order("id ASC")
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	err := q.Find(&list).Error
	return list, err
}

// Replace 保存主记录并整体替换闪卡子记录
func (r *LessonProgressRepository) Replace(lp *model.LessonProgress) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Flashcards").Save(lp).Error; err != nil {
			return err
		}
		if err := tx.Where("lesson_progress_id = ?", lp.ID).Delete(&model.FlashcardMark{}).Error; err != nil {
			return err
		}
		for i := range lp.Flashcards {
			lp.Flashcards[i].ID = 0
			lp.Flashcards[i].LessonProgressID = lp.ID
		}
		if len(lp.Flashcards) > 0 {
			return tx.Create(&lp.Flashcards).Error
		}
		return nil
	})
}

func (r *LessonProgressRepository) Delete(id uint) (bool, error) {
	var affected int64
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lesson_progress_id = ?", id).Delete(&model.FlashcardMark{}).Error; err != nil {
			return err
		}
		res := tx.Unscoped().Delete(&model.LessonProgress{}, id)
		affected = res.RowsAffected
		return res.Error
	})
	return affected > 0, err
}
