package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"navid/server/models"
)

// HelpStore reads the static help-center content.
type HelpStore interface {
	List(ctx context.Context) ([]models.HelpArticle, error)
	Get(ctx context.Context, id string) (*models.HelpArticle, error)
}

type helpStore struct {
	db *gorm.DB
}

func NewHelpStore(db *gorm.DB) HelpStore {
	return &helpStore{db: db}
}

func (s *helpStore) List(ctx context.Context) ([]models.HelpArticle, error) {
	var list []models.HelpArticle
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("listing help articles: %w", err)
	}
	return list, nil
}

func (s *helpStore) Get(ctx context.Context, id string) (*models.HelpArticle, error) {
	var a models.HelpArticle
	if err := s.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("getting help article %s: %w", id, err)
	}
	return &a, nil
}
