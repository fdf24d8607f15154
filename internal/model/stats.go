package model

// Stats 学习模块完成情况，(username, module, submodule) 唯一
// swagger:model Stats
type Stats struct {
	BaseModel
	Username  string   `gorm:"size:100;not null;uniqueIndex:idx_stats_key" json:"username"`
	Module    string   `gorm:"size:100;not null;uniqueIndex:idx_stats_key" json:"module"`
	Submodule int      `gorm:"not null;uniqueIndex:idx_stats_key" json:"submodule"`
	Finished  bool     `json:"finished"`
	Time      float64  `json:"time"`
	Grades    *float64 `json:"grades"`
}

func (Stats) TableName() string {
	return "stats"
}
