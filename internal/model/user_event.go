package model

import "time"

const (
	EventSourceGitHub = "github"

	EventCommit = "commit"
	EventPR     = "pr"
	EventIssue  = "issue"
)

// UserEvent 外部平台活动记录（目前仅GitHub）
// swagger:model UserEvent
type UserEvent struct {
	BaseModel
	GitHubLogin string    `gorm:"column:github_login;size:100;not null;uniqueIndex:idx_user_event_dedup" json:"githubLogin"`
	Source      string    `gorm:"size:32" json:"source"`
	Course      string    `gorm:"size:64" json:"course"`
	Artifact    string    `gorm:"size:255;uniqueIndex:idx_user_event_dedup" json:"artifact"`
	EventType   string    `gorm:"size:16;uniqueIndex:idx_user_event_dedup" json:"eventType"`
	EventWeight float64   `json:"eventWeight"`
	Timestamp   time.Time `gorm:"uniqueIndex:idx_user_event_dedup" json:"timestamp"`
}

func (UserEvent) TableName() string {
	return "user_events"
}
