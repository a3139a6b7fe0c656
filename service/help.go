package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"navid/server/models"
	"navid/server/store"
)

// HelpService reads the static help-center content.
type HelpService struct {
	articles store.HelpStore
}

func NewHelpService(articles store.HelpStore) *HelpService {
	return &HelpService{articles: articles}
}

func (s *HelpService) ListArticles(ctx context.Context) ([]models.HelpArticle, error) {
	return s.articles.List(ctx)
}

func (s *HelpService) GetArticle(ctx context.Context, id string) (*models.HelpArticle, error) {
	article, err := s.articles.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return article, nil
}
