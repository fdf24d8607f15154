package repository

import (
	"portfolio_backend/internal/model"

	"gorm.io/gorm"
)

type ResumeRepository struct {
	DB *gorm.DB
}

func NewResumeRepository(db *gorm.DB) *ResumeRepository {
	return &ResumeRepository{DB: db}
}

func (r *ResumeRepository) FindByUsername(username string) (*model.Resume, error) {
	var resume model.Resume
	err := r.DB.Preload("Experiences", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).Where("username = ?", username).First(&resume).Error
	return &resume, err
}

// Upsert 按用户名新建或更新简历，经历列表整体替换
func (r *ResumeRepository) Upsert(resume *model.Resume) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var existing model.Resume
		err := tx.Where("username = ?", resume.Username).First(&existing).Error
		switch {
		case err == nil:
			resume.ID = existing.ID
			resume.CreatedAt = existing.CreatedAt
		case err != gorm.ErrRecordNotFound:
			return err
		}

		if err := tx.Omit("Experiences").Save(resume).Error; err != nil {
			return err
		}
		if err := tx.Where("resume_id = ?", resume.ID).Delete(&model.Experience{}).Error; err != nil {
			return err
		}
		for i := range resume.Experiences {
			resume.Experiences[i].ID = 0
			resume.Experiences[i].ResumeID = resume.ID
		}
		if len(resume.Experiences) > 0 {
			return tx.Create(&resume.Experiences).Error
		}
		return nil
	})
}
