package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"navid/server/database"
	"navid/server/store"
)

type testEnv struct {
	db       *gorm.DB
	auth     *AuthService
	chat     *ChatService
	settings *SettingsService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.Open("file::memory:")
	require.NoError(t, err)
	require.NoError(t, database.Seed(db))

	log := zap.NewNop()
	users := store.NewUserStore(db)
	catalog := store.NewModelStore(db)

	return &testEnv{
		db:       db,
		auth:     NewAuthService(users, catalog, time.Hour, log),
		chat:     NewChatService(db, TemplateGenerator{}, log),
		settings: NewSettingsService(users, catalog, log),
	}
}

// openBareDB opens a migrated but unseeded database.
func openBareDB(t *testing.T) (*gorm.DB, error) {
	t.Helper()
	return database.Open("file::memory:")
}

// signup registers a throwaway user and returns its id.
func (e *testEnv) signup(t *testing.T, email string) string {
	t.Helper()
	sess, _, err := e.auth.Signup(context.Background(), email, "secret-password")
	require.NoError(t, err)
	return sess.UserID
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var e *Error
	require.ErrorAs(t, err, &e)
	require.Equal(t, code, e.Code)
}
