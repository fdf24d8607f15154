package model

// swagger:model Resume
type Resume struct {
	BaseModel
	Username            string       `gorm:"size:100;uniqueIndex;not null" json:"username"`
	ProfessionalSummary string       `gorm:"type:text" json:"professionalSummary"`
	Experiences         []Experience `gorm:"foreignKey:ResumeID;constraint:OnDelete:CASCADE" json:"experiences"`
}

func (Resume) TableName() string {
	return "resumes"
}

// swagger:model Experience
type Experience struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	ResumeID    uint   `gorm:"index;not null" json:"-"`
	JobTitle    string `gorm:"size:200" json:"jobTitle"`
	Company     string `gorm:"size:200" json:"company"`
	Dates       string `gorm:"size:100" json:"dates"`
	Description string `gorm:"type:text" json:"description"`
}

func (Experience) TableName() string {
	return "resume_experiences"
}
