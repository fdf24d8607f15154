package model

type QuestDifficulty string

const (
	QuestEasy   QuestDifficulty = "EASY"
	QuestMedium QuestDifficulty = "MEDIUM"
	QuestHard   QuestDifficulty = "HARD"
)

func (d QuestDifficulty) Valid() bool {
	switch d {
	case QuestEasy, QuestMedium, QuestHard:
		return true
	}
	return false
}

// swagger:model Quest
type Quest struct {
	BaseModel
	Name            string          `gorm:"size:200;not null" json:"name"`
	Difficulty      QuestDifficulty `gorm:"size:16;not null" json:"difficulty"`
	Permalink       string          `gorm:"size:255;uniqueIndex;not null" json:"permalink"`
	TotalSubmodules int             `json:"totalSubmodules"`
	RewardPoints    int             `json:"rewardPoints"`
}

func (Quest) TableName() string {
	return "quests"
}
