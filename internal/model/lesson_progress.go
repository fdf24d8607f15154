package model

import (
	"time"

	"gorm.io/datatypes"
)

type FlashcardStatus string

const (
	FlashcardKnown  FlashcardStatus = "KNOWN"
	FlashcardReview FlashcardStatus = "REVIEW"
	FlashcardUnseen FlashcardStatus = "UNSEEN"
)

func (s FlashcardStatus) Valid() bool {
	switch s {
	case FlashcardKnown, FlashcardReview, FlashcardUnseen:
		return true
	}
	return false
}

// swagger:model LessonProgress
type LessonProgress struct {
	BaseModel
	UserID                string          `gorm:"size:64;not null;uniqueIndex:idx_lesson_user_key" json:"userId"`
	LessonKey             string          `gorm:"size:128;not null;uniqueIndex:idx_lesson_user_key" json:"lessonKey"`
	TotalTimeMs           int64           `json:"totalTimeMs"`
	LastVisited           *time.Time      `json:"lastVisited"`
	Completed             bool            `json:"completed"`
	Badges                datatypes.JSON  `json:"badges"`
	CurrentFlashcardIndex int             `json:"currentFlashcardIndex"`
	ReflectionText        string          `gorm:"type:text" json:"reflectionText"`
	Flashcards            []FlashcardMark `gorm:"foreignKey:LessonProgressID;constraint:OnDelete:CASCADE" json:"flashcards"`
}

func (LessonProgress) TableName() string {
	return "lesson_progress"
}

// swagger:model FlashcardMark
type FlashcardMark struct {
	ID               uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	LessonProgressID uint            `gorm:"index;not null" json:"-"`
	CardIndex        int             `json:"cardIndex"`
	Status           FlashcardStatus `gorm:"size:16" json:"status"`
	MarkedAt         time.Time       `json:"markedAt"`
}

func (FlashcardMark) TableName() string {
	return "lesson_flashcards"
}
