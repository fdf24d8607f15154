package model

// swagger:model GeminiChat
type GeminiChat struct {
	BaseModel
	UserID   string `gorm:"size:64;index;not null" json:"userId"`
	Message  string `gorm:"type:text" json:"message"`
	Response string `gorm:"type:text" json:"response"`
}

func (GeminiChat) TableName() string {
	return "gemini_chats"
}

// swagger:model GeminiGrading
type GeminiGrading struct {
	BaseModel
	Question    string `gorm:"type:text" json:"question"`
	Response    string `gorm:"type:text" json:"response"`
	GeminiReply string `gorm:"type:text" json:"geminiReply"`
}

func (GeminiGrading) TableName() string {
	return "gemini_gradings"
}
