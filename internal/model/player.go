package model

import "time"

const (
	PlayerOnline  = "online"
	PlayerOffline = "offline"
)

// swagger:model Player
type Player struct {
	BaseModel
	UID         string     `gorm:"size:64;uniqueIndex;not null" json:"uid"`
	Name        string     `gorm:"size:100" json:"name"`
	Email       string     `gorm:"size:100" json:"email"`
	Pfp         string     `gorm:"size:255" json:"pfp"`
	Status      string     `gorm:"size:16;index;default:'offline'" json:"status"`
	LastActive  time.Time  `json:"lastActive"`
	ConnectedAt *time.Time `json:"connectedAt"`
	X           float64    `json:"x"`
	Y           float64    `json:"y"`
	Level       int        `gorm:"default:1" json:"level"`
}

func (Player) TableName() string {
	return "players"
}
