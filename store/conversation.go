package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"navid/server/models"
)

// ConversationStore persists conversations. Every read is scoped to an owner:
// a conversation that exists but belongs to someone else behaves exactly like
// one that does not exist.
type ConversationStore interface {
	ListByUser(ctx context.Context, userID string) ([]models.Conversation, error)
	GetOwned(ctx context.Context, userID, id string) (*models.Conversation, error)
	Create(ctx context.Context, conv *models.Conversation) error
	Save(ctx context.Context, conv *models.Conversation) error
	Delete(ctx context.Context, id string) error
	// NextBumpSeq hands out the ordering tiebreaker for the next bump.
	NextBumpSeq(ctx context.Context) (int64, error)
}

type conversationStore struct {
	db *gorm.DB
}

func NewConversationStore(db *gorm.DB) ConversationStore {
	return &conversationStore{db: db}
}

func (s *conversationStore) ListByUser(ctx context.Context, userID string) ([]models.Conversation, error) {
	var list []models.Conversation
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC, bump_seq DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}
	return list, nil
}

func (s *conversationStore) GetOwned(ctx context.Context, userID, id string) (*models.Conversation, error) {
	var conv models.Conversation
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&conv).Error
	if err != nil {
		return nil, fmt.Errorf("getting conversation %s: %w", id, err)
	}
	return &conv, nil
}

func (s *conversationStore) Create(ctx context.Context, conv *models.Conversation) error {
	if err := s.db.WithContext(ctx).Create(conv).Error; err != nil {
		return fmt.Errorf("creating conversation: %w", err)
	}
	return nil
}

func (s *conversationStore) Save(ctx context.Context, conv *models.Conversation) error {
	if err := s.db.WithContext(ctx).Save(conv).Error; err != nil {
		return fmt.Errorf("saving conversation %s: %w", conv.ID, err)
	}
	return nil
}

func (s *conversationStore) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&models.Conversation{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("deleting conversation %s: %w", id, err)
	}
	return nil
}

func (s *conversationStore) NextBumpSeq(ctx context.Context) (int64, error) {
	var current int64
	err := s.db.WithContext(ctx).
		Model(&models.Conversation{}).
		Select("COALESCE(MAX(bump_seq), 0)").
		Scan(&current).Error
	if err != nil {
		return 0, fmt.Errorf("next bump seq: %w", err)
	}
	return current + 1, nil
}
