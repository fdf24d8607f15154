package model

const MaxCompletedLessons = 6

// swagger:model ProgressBar
type ProgressBar struct {
	BaseModel
	UserID           string `gorm:"size:64;uniqueIndex;not null" json:"userId"`
	CompletedLessons int    `gorm:"default:0" json:"completedLessons"`
}

func (ProgressBar) TableName() string {
	return "progress_bars"
}

func (p *ProgressBar) Percentage() float64 {
	return float64(p.CompletedLessons) * 100 / MaxCompletedLessons
}

func (p *ProgressBar) Complete() bool {
	return p.CompletedLessons >= MaxCompletedLessons
}
