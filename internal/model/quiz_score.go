package model

// swagger:model QuizScore
type QuizScore struct {
	BaseModel
	Username string `gorm:"size:100;index;not null" json:"username"`
	Score    int    `gorm:"not null" json:"score"`
}

func (QuizScore) TableName() string {
	return "quiz_scores"
}
