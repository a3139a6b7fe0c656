package models

// Session is the authenticated identity view returned to the client. It is
// never persisted; it is recomputed from the user row on every request.
type Session struct {
	UserID             string `json:"user_id"`
	Email              string `json:"email"`
	Name               string `json:"name"`
	OnboardingComplete bool   `json:"onboarding_complete"`
}

// SessionFromUser derives the session view for u.
func SessionFromUser(u *User) Session {
	return Session{
		UserID:             u.ID,
		Email:              u.Email,
		Name:               u.Name,
		OnboardingComplete: u.OnboardingComplete,
	}
}

// Preferences is the settings view: both fields are always read and written
// together.
type Preferences struct {
	Theme          string `json:"theme"`
	DefaultModelID string `json:"default_model_id"`
}

// Profile is the editable identity view.
type Profile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
