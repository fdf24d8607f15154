package model

// swagger:model Rubric
type Rubric struct {
	BaseModel
	UID        string `gorm:"size:64;not null;uniqueIndex:idx_rubric_uid_assignment" json:"uid"`
	Assignment string `gorm:"size:128;not null;uniqueIndex:idx_rubric_uid_assignment" json:"assignment"`
	Rubric     string `gorm:"type:text;not null" json:"rubric"`
}

func (Rubric) TableName() string {
	return "rubrics"
}
