package model

// EvaluationScores 管理员评价与学生自评共用的11项评分
type EvaluationScores struct {
	Attendance    int `json:"attendance"`
	WorkHabits    int `json:"work_habits"`
	Behavior      int `json:"behavior"`
	Timeliness    int `json:"timeliness"`
	TechSense     int `json:"tech_sense"`
	TechTalk      int `json:"tech_talk"`
	TechGrowth    int `json:"tech_growth"`
	Advocacy      int `json:"advocacy"`
	Communication int `json:"communication"`
	Integrity     int `json:"integrity"`
	Organization  int `json:"organization"`
}

// swagger:model AdminEvaluation
type AdminEvaluation struct {
	BaseModel
	UserID string `gorm:"size:64;index;not null" json:"userId"`
	EvaluationScores
}

func (AdminEvaluation) TableName() string {
	return "admin_evaluations"
}

// swagger:model StudentEvaluation
type StudentEvaluation struct {
	BaseModel
	UserID string `gorm:"size:64;uniqueIndex;not null" json:"user_id"`
	EvaluationScores
}

func (StudentEvaluation) TableName() string {
	return "student_evaluations"
}
