package models

import "time"

// Attachment statuses.
const (
	AttachmentQueued    = "queued"
	AttachmentUploading = "uploading"
	AttachmentUploaded  = "uploaded"
	AttachmentFailed    = "failed"
)

// Attachment records an uploaded file. The ID may be supplied by the client;
// retrying an upload with the same id returns the existing record instead of
// creating a duplicate.
type Attachment struct {
	ID     string `json:"id" gorm:"primaryKey"`
	UserID string `json:"-" gorm:"index"`

	Filename  string `json:"filename"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`
	URL       string `json:"url,omitempty"`
	Status    string `json:"status"`

	CreatedAt time.Time `json:"created_at"`
}

func (Attachment) TableName() string { return "attachments" }
