package models

import (
	"gorm.io/datatypes"
)

// ChatTurn is one logged user/assistant exchange. Turns are append-only.
type ChatTurn struct {
	Base
	UserMessage string         `gorm:"type:text;not null" json:"user_message"`
	AIResponse  string         `gorm:"column:ai_response;type:text;not null" json:"ai_response"`
	ContextType string         `gorm:"type:varchar(20);not null;default:general" json:"context_type"`
	Metadata    datatypes.JSON `json:"metadata,omitempty"`
	TokensUsed  int            `gorm:"not null;default:0" json:"tokens_used"`
}

// TableName overrides the default table name.
func (ChatTurn) TableName() string {
	return "ai_chat_history"
}
