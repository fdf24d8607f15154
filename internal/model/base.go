package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// swagger:model
type BaseModel struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func GenerateUUID() string {
	return uuid.New().String()
}

// AllModels 需要自动迁移的实体
func AllModels() []interface{} {
	return []interface{}{
		&Person{},
		&Game{},
		&Blackjack{},
		&Plant{},
		&ProgressBar{},
		&LessonProgress{},
		&FlashcardMark{},
		&Quest{},
		&QuizScore{},
		&Resume{},
		&Experience{},
		&Rubric{},
		&AdminEvaluation{},
		&StudentEvaluation{},
		&Stats{},
		&Player{},
		&GeminiChat{},
		&GeminiGrading{},
		&UserEvent{},
	}
}
