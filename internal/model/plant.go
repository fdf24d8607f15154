package model

const (
	PlantMinStage = 1
	PlantMaxStage = 6
)

// swagger:model Plant
type Plant struct {
	BaseModel
	UID                   string `gorm:"size:64;uniqueIndex;not null" json:"uid"`
	Stage                 int    `gorm:"default:1" json:"stage"`
	TotalLessonsCompleted int    `gorm:"default:0" json:"totalLessonsCompleted"`
}

func (Plant) TableName() string {
	return "plants"
}

func (p *Plant) FullyGrown() bool {
	return p.Stage >= PlantMaxStage
}
