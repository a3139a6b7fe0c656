package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"navid/server/models"
)

// MessageStore persists messages, ordered by Seq within their conversation.
type MessageStore interface {
	ListByConversation(ctx context.Context, convID string) ([]models.Message, error)
	Get(ctx context.Context, convID, id string) (*models.Message, error)
	GetUserMessage(ctx context.Context, convID, id string) (*models.Message, error)
	LastByRole(ctx context.Context, convID, role string) (*models.Message, error)
	Append(ctx context.Context, msg *models.Message) error
	Save(ctx context.Context, msg *models.Message) error
	Delete(ctx context.Context, id string) error
	DeleteAfter(ctx context.Context, convID string, seq int64) error
	DeleteByConversation(ctx context.Context, convID string) error
	NextSeq(ctx context.Context, convID string) (int64, error)
}

type messageStore struct {
	db *gorm.DB
}

func NewMessageStore(db *gorm.DB) MessageStore {
	return &messageStore{db: db}
}

func (s *messageStore) ListByConversation(ctx context.Context, convID string) ([]models.Message, error) {
	var list []models.Message
	err := s.db.WithContext(ctx).
		Where("conversation_id = ?", convID).
		Order("seq ASC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	return list, nil
}

func (s *messageStore) Get(ctx context.Context, convID, id string) (*models.Message, error) {
	var msg models.Message
	err := s.db.WithContext(ctx).
		Where("id = ? AND conversation_id = ?", id, convID).
		First(&msg).Error
	if err != nil {
		return nil, fmt.Errorf("getting message %s: %w", id, err)
	}
	return &msg, nil
}

func (s *messageStore) GetUserMessage(ctx context.Context, convID, id string) (*models.Message, error) {
	var msg models.Message
	err := s.db.WithContext(ctx).
		Where("id = ? AND conversation_id = ? AND role = ?", id, convID, models.RoleUser).
		First(&msg).Error
	if err != nil {
		return nil, fmt.Errorf("getting user message %s: %w", id, err)
	}
	return &msg, nil
}

func (s *messageStore) LastByRole(ctx context.Context, convID, role string) (*models.Message, error) {
	var msg models.Message
	err := s.db.WithContext(ctx).
		Where("conversation_id = ? AND role = ?", convID, role).
		Order("seq DESC").
		First(&msg).Error
	if err != nil {
		return nil, fmt.Errorf("getting last %s message: %w", role, err)
	}
	return &msg, nil
}

func (s *messageStore) Append(ctx context.Context, msg *models.Message) error {
	if err := s.db.WithContext(ctx).Create(msg).Error; err != nil {
		return fmt.Errorf("appending message: %w", err)
	}
	return nil
}

func (s *messageStore) Save(ctx context.Context, msg *models.Message) error {
	if err := s.db.WithContext(ctx).Save(msg).Error; err != nil {
		return fmt.Errorf("saving message %s: %w", msg.ID, err)
	}
	return nil
}

func (s *messageStore) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&models.Message{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("deleting message %s: %w", id, err)
	}
	return nil
}

func (s *messageStore) DeleteAfter(ctx context.Context, convID string, seq int64) error {
	err := s.db.WithContext(ctx).
		Where("conversation_id = ? AND seq > ?", convID, seq).
		Delete(&models.Message{}).Error
	if err != nil {
		return fmt.Errorf("truncating messages after %d: %w", seq, err)
	}
	return nil
}

func (s *messageStore) DeleteByConversation(ctx context.Context, convID string) error {
	err := s.db.WithContext(ctx).
		Where("conversation_id = ?", convID).
		Delete(&models.Message{}).Error
	if err != nil {
		return fmt.Errorf("deleting messages of %s: %w", convID, err)
	}
	return nil
}

func (s *messageStore) NextSeq(ctx context.Context, convID string) (int64, error) {
	var current int64
	err := s.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("conversation_id = ?", convID).
		Select("COALESCE(MAX(seq), 0)").
		Scan(&current).Error
	if err != nil {
		return 0, fmt.Errorf("next message seq: %w", err)
	}
	return current + 1, nil
}
