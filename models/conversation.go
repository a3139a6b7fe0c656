package models

import "time"

// Conversation is a titled thread of messages owned by one user and tied to
// one catalog model. Ordering in list views follows the most recent bump:
// UpdatedAt descending, with BumpSeq breaking timestamp ties.
type Conversation struct {
	ID      string `json:"id" gorm:"primaryKey"`
	UserID  string `json:"-" gorm:"index"`
	ModelID string `json:"model_id"`

	Title   string `json:"title"`
	Preview string `json:"preview"`

	UpdatedAt time.Time `json:"updated_at"`
	BumpSeq   int64     `json:"-" gorm:"index"`

	CreatedAt time.Time `json:"created_at"`
}

func (Conversation) TableName() string { return "conversations" }
