package model

type PersonRole string

const (
	RoleStudent PersonRole = "student"
	RoleTeacher PersonRole = "teacher"
	RoleAdmin   PersonRole = "admin"
)

// swagger:model Person
type Person struct {
	BaseModel
	UID         string     `gorm:"size:64;uniqueIndex;not null" json:"uid"`
	Name        string     `gorm:"size:100;not null" json:"name"`
	Email       string     `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password    string     `gorm:"size:100;not null" json:"-"`
	Role        PersonRole `gorm:"size:16;default:'student'" json:"role"`
	Balance     float64    `gorm:"default:100000" json:"balance"`
	Pfp         string     `gorm:"size:255" json:"pfp"`
	GitHubLogin string     `gorm:"column:github_login;size:100" json:"githubLogin"`
}

func (Person) TableName() string {
	return "persons"
}

func (p *Person) IsAdmin() bool {
	return p.Role == RoleAdmin
}
