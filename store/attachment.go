package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"navid/server/models"
)

// AttachmentStore persists attachment records.
type AttachmentStore interface {
	// Get looks the id up across all owners; ids are globally unique, so
	// idempotency checks must see other users' records too.
	Get(ctx context.Context, id string) (*models.Attachment, error)
	Create(ctx context.Context, att *models.Attachment) error
}

type attachmentStore struct {
	db *gorm.DB
}

func NewAttachmentStore(db *gorm.DB) AttachmentStore {
	return &attachmentStore{db: db}
}

func (s *attachmentStore) Get(ctx context.Context, id string) (*models.Attachment, error) {
	var att models.Attachment
	if err := s.db.WithContext(ctx).First(&att, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("getting attachment %s: %w", id, err)
	}
	return &att, nil
}

func (s *attachmentStore) Create(ctx context.Context, att *models.Attachment) error {
	if err := s.db.WithContext(ctx).Create(att).Error; err != nil {
		return fmt.Errorf("creating attachment: %w", err)
	}
	return nil
}
