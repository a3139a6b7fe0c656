package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"navid/server/models"
	"navid/server/storage"
	"navid/server/store"
)

// Mime type families accepted for upload.
var allowedMimePrefixes = []string{"image/", "text/"}

var allowedMimeTypes = map[string]bool{
	"application/pdf": true,
}

// AttachmentService validates and stores uploaded files. Uploads are
// idempotent on a client-provided id: retrying a failed upload with the same
// id never creates a duplicate resource.
type AttachmentService struct {
	atts     store.AttachmentStore
	files    *storage.FileStore
	maxBytes int64
	log      *zap.Logger
}

func NewAttachmentService(atts store.AttachmentStore, files *storage.FileStore, maxBytes int64, log *zap.Logger) *AttachmentService {
	return &AttachmentService{atts: atts, files: files, maxBytes: maxBytes, log: log}
}

// UploadInput describes one incoming multipart file.
type UploadInput struct {
	// ID is optional and client-generated; used for idempotent retries.
	ID        string
	Filename  string
	MimeType  string
	SizeBytes int64
	Content   io.Reader
}

// Upload validates the file, persists its bytes and records the attachment.
func (s *AttachmentService) Upload(ctx context.Context, userID string, in UploadInput) (*models.Attachment, error) {
	if in.Filename == "" {
		return nil, ErrInvalidAttachment.WithDetails(map[string]any{"reason": "missing filename"})
	}
	if in.SizeBytes <= 0 || in.SizeBytes > s.maxBytes {
		return nil, ErrInvalidAttachment.WithDetails(map[string]any{
			"reason":    "file too large",
			"max_bytes": s.maxBytes,
		})
	}
	if !allowedMime(in.MimeType) {
		return nil, ErrInvalidAttachment.WithDetails(map[string]any{
			"reason":    "unsupported type",
			"mime_type": in.MimeType,
		})
	}

	if in.ID != "" {
		existing, err := s.atts.Get(ctx, in.ID)
		if err == nil {
			// Same owner retrying: hand back the existing record. An id
			// already claimed by someone else is rejected, not adopted.
			if existing.UserID != userID {
				return nil, ErrInvalidAttachment.WithDetails(map[string]any{"reason": "id already in use"})
			}
			return existing, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	id := in.ID
	if id == "" {
		id = uuid.NewString()
	}

	written, err := s.files.Save(id, in.Filename, io.LimitReader(in.Content, s.maxBytes))
	if err != nil {
		return nil, err
	}

	att := models.Attachment{
		ID:        id,
		UserID:    userID,
		Filename:  in.Filename,
		MimeType:  in.MimeType,
		SizeBytes: written,
		URL:       fmt.Sprintf("/files/%s/%s", id, in.Filename),
		Status:    models.AttachmentUploaded,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.atts.Create(ctx, &att); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrInvalidAttachment.WithDetails(map[string]any{"reason": "id already in use"})
		}
		return nil, err
	}
	s.log.Info("attachment uploaded",
		zap.String("attachment_id", id),
		zap.Int64("size_bytes", written))
	return &att, nil
}

func allowedMime(mimeType string) bool {
	if allowedMimeTypes[mimeType] {
		return true
	}
	for _, prefix := range allowedMimePrefixes {
		if strings.HasPrefix(mimeType, prefix) {
			return true
		}
	}
	return false
}
