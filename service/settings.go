package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"navid/server/models"
	"navid/server/store"
)

// SettingsService mutates profile and preference fields of the current user.
type SettingsService struct {
	users   store.UserStore
	catalog store.ModelStore
	log     *zap.Logger
}

func NewSettingsService(users store.UserStore, catalog store.ModelStore, log *zap.Logger) *SettingsService {
	return &SettingsService{users: users, catalog: catalog, log: log}
}

func (s *SettingsService) GetProfile(ctx context.Context, userID string) (models.Profile, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return models.Profile{}, err
	}
	return models.Profile{Name: user.Name, Email: user.Email}, nil
}

func (s *SettingsService) UpdateProfile(ctx context.Context, userID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return Validation("Name is required.")
	}
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	user.Name = name
	user.UpdatedAt = time.Now().UTC()
	return s.users.Save(ctx, user)
}

func (s *SettingsService) GetPreferences(ctx context.Context, userID string) (models.Preferences, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return models.Preferences{}, err
	}
	return models.Preferences{Theme: user.Theme, DefaultModelID: user.DefaultModelID}, nil
}

// UpdatePreferences overwrites theme and default model as a pair. Saving
// preferences also completes onboarding: the client's onboarding flow ends on
// this screen.
func (s *SettingsService) UpdatePreferences(ctx context.Context, userID string, prefs models.Preferences) error {
	if !models.ValidTheme(prefs.Theme) {
		return Validation("Unknown theme.")
	}
	if _, err := s.catalog.Get(ctx, prefs.DefaultModelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidModel
		}
		return err
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	user.Theme = prefs.Theme
	user.DefaultModelID = prefs.DefaultModelID
	if !user.OnboardingComplete {
		user.OnboardingComplete = true
		s.log.Info("onboarding completed via preferences", zap.String("user_id", userID))
	}
	user.UpdatedAt = time.Now().UTC()
	return s.users.Save(ctx, user)
}

// CompleteOnboarding marks onboarding done without touching preferences.
func (s *SettingsService) CompleteOnboarding(ctx context.Context, userID string) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.OnboardingComplete {
		return nil
	}
	user.OnboardingComplete = true
	user.UpdatedAt = time.Now().UTC()
	return s.users.Save(ctx, user)
}

func (s *SettingsService) getUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	return user, nil
}
