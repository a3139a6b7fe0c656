package models

import "time"

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message statuses.
const (
	MessageStatusStreaming = "streaming"
	MessageStatusDone      = "done"
	MessageStatusError     = "error"
)

// Message is one entry in a conversation. Seq fixes insertion order within
// the conversation; an edit truncates everything with a higher Seq.
type Message struct {
	ID             string `json:"id" gorm:"primaryKey"`
	ConversationID string `json:"-" gorm:"index"`

	Role    string `json:"role"`
	Content string `json:"content"`
	Status  string `json:"status"`

	Attachments []Attachment `json:"attachments,omitempty" gorm:"serializer:json"`
	Regenerated bool         `json:"regenerated,omitempty"`

	Seq       int64     `json:"-" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
}

func (Message) TableName() string { return "messages" }
