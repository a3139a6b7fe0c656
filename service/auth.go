package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"navid/server/models"
	"navid/server/store"
)

// The canonical account created by the simulated Google sign-in.
const (
	googleEmail = "google-user@navid.ai"
	googleName  = "Google User"
)

// minResetTokenLen is the minimal sanity check a reset token must pass.
const minResetTokenLen = 10

type sessionEntry struct {
	userID    string
	expiresAt time.Time
}

// AuthService owns account entry points and the token session registry.
// Sessions live in process memory only; the session view itself is always
// recomputed from the user row.
type AuthService struct {
	users   store.UserStore
	catalog store.ModelStore
	log     *zap.Logger

	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]sessionEntry
}

func NewAuthService(users store.UserStore, catalog store.ModelStore, ttl time.Duration, log *zap.Logger) *AuthService {
	return &AuthService{
		users:    users,
		catalog:  catalog,
		log:      log,
		ttl:      ttl,
		sessions: make(map[string]sessionEntry),
	}
}

// ResolveToken maps a session token to its user id. The second return is
// false for unknown or expired tokens.
func (s *AuthService) ResolveToken(token string) (string, bool) {
	if token == "" {
		return "", false
	}
	s.mu.RLock()
	entry, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		return "", false
	}
	return entry.userID, true
}

// Me returns the session for token, or nil when nobody is signed in. A
// missing session is a valid state, not an error.
func (s *AuthService) Me(ctx context.Context, token string) (*models.Session, error) {
	userID, ok := s.ResolveToken(token)
	if !ok {
		return nil, nil
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	sess := models.SessionFromUser(user)
	return &sess, nil
}

// Login authenticates by email and password and issues a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (models.Session, string, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Session{}, "", ErrInvalidCredentials
		}
		return models.Session{}, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.Session{}, "", ErrInvalidCredentials
	}
	token := s.issueToken(user.ID)
	s.log.Info("user logged in", zap.String("user_id", user.ID))
	return models.SessionFromUser(user), token, nil
}

// Signup registers a new account with default preferences (system theme,
// first catalog model) and signs it in.
func (s *AuthService) Signup(ctx context.Context, email, password string) (models.Session, string, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return models.Session{}, "", Validation("A valid email is required.")
	}
	if len(password) < 8 {
		return models.Session{}, "", Validation("Password must be at least 8 characters.")
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return models.Session{}, "", ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Session{}, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.Session{}, "", err
	}

	now := time.Now().UTC()
	user := models.User{
		ID:             uuid.NewString(),
		Email:          email,
		PasswordHash:   string(hash),
		Name:           nameFromEmail(email),
		Theme:          models.ThemeSystem,
		DefaultModelID: s.defaultModelID(ctx),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		// A concurrent signup can win the email between the check and the
		// insert; the unique index reports it as a duplicate key.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.Session{}, "", ErrEmailTaken
		}
		return models.Session{}, "", err
	}

	token := s.issueToken(user.ID)
	s.log.Info("user signed up", zap.String("user_id", user.ID))
	return models.SessionFromUser(&user), token, nil
}

// Logout forgets the token. Unknown tokens are ignored; logout never fails.
func (s *AuthService) Logout(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// ForgotPassword always succeeds so callers cannot probe which emails exist.
func (s *AuthService) ForgotPassword(_ context.Context, email string) {
	s.log.Info("password reset requested", zap.String("email", normalizeEmail(email)))
}

// ResetPassword overwrites the credential of the session user when one is
// present, otherwise of the first registered user. The token only has to
// pass a minimal length check in this simulation.
func (s *AuthService) ResetPassword(ctx context.Context, resetToken, password, sessionUserID string) error {
	if len(resetToken) < minResetTokenLen {
		return ErrInvalidToken
	}
	if len(password) < 8 {
		return Validation("Password must be at least 8 characters.")
	}

	var user *models.User
	var err error
	if sessionUserID != "" {
		user, err = s.users.GetByID(ctx, sessionUserID)
	} else {
		user, err = s.users.First(ctx)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoUser
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}
	s.log.Info("password reset", zap.String("user_id", user.ID))
	return nil
}

// GoogleOAuth finds or creates the canonical OAuth-linked account, marks it
// onboarded and signs it in.
func (s *AuthService) GoogleOAuth(ctx context.Context) (models.Session, string, error) {
	user, err := s.users.GetByEmail(ctx, googleEmail)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Session{}, "", err
		}
		now := time.Now().UTC()
		user = &models.User{
			ID:                 uuid.NewString(),
			Email:              googleEmail,
			Name:               googleName,
			OnboardingComplete: true,
			Theme:              models.ThemeSystem,
			DefaultModelID:     s.defaultModelID(ctx),
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return models.Session{}, "", err
		}
	} else if !user.OnboardingComplete {
		user.OnboardingComplete = true
		user.UpdatedAt = time.Now().UTC()
		if err := s.users.Save(ctx, user); err != nil {
			return models.Session{}, "", err
		}
	}

	token := s.issueToken(user.ID)
	s.log.Info("google oauth sign-in", zap.String("user_id", user.ID))
	return models.SessionFromUser(user), token, nil
}

// Sweep drops expired sessions and returns how many were removed.
func (s *AuthService) Sweep() int {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for token, entry := range s.sessions {
		if now.After(entry.expiresAt) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

func (s *AuthService) issueToken(userID string) string {
	token := uuid.NewString()
	s.mu.Lock()
	s.sessions[token] = sessionEntry{userID: userID, expiresAt: time.Now().Add(s.ttl)}
	s.mu.Unlock()
	return token
}

func (s *AuthService) defaultModelID(ctx context.Context) string {
	catalog, err := s.catalog.List(ctx)
	if err != nil || len(catalog) == 0 {
		return ""
	}
	return catalog[0].ID
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func nameFromEmail(email string) string {
	local := email
	if i := strings.IndexByte(email, '@'); i > 0 {
		local = email[:i]
	}
	return local
}
