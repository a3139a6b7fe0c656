package models

import "time"

// Theme values accepted for user preferences.
const (
	ThemeSystem = "system"
	ThemeLight  = "light"
	ThemeDark   = "dark"
)

// ValidTheme reports whether s is one of the supported themes.
func ValidTheme(s string) bool {
	return s == ThemeSystem || s == ThemeLight || s == ThemeDark
}

// User is an account record. Users are never hard-deleted.
type User struct {
	ID           string `json:"id" gorm:"primaryKey"`
	Email        string `json:"email" gorm:"uniqueIndex"`
	PasswordHash string `json:"-"`
	Name         string `json:"name"`

	OnboardingComplete bool `json:"onboarding_complete"`

	// Preferences are always written as a pair.
	Theme          string `json:"theme"`
	DefaultModelID string `json:"default_model_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }
