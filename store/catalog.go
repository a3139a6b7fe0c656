package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"navid/server/models"
)

// ModelStore reads the seeded model catalog.
type ModelStore interface {
	List(ctx context.Context) ([]models.Model, error)
	Get(ctx context.Context, id string) (*models.Model, error)
}

type modelStore struct {
	db *gorm.DB
}

func NewModelStore(db *gorm.DB) ModelStore {
	return &modelStore{db: db}
}

func (s *modelStore) List(ctx context.Context) ([]models.Model, error) {
	var list []models.Model
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("listing models: %w", err)
	}
	return list, nil
}

func (s *modelStore) Get(ctx context.Context, id string) (*models.Model, error) {
	var m models.Model
	if err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("getting model %s: %w", id, err)
	}
	return &m, nil
}
