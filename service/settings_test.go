package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"navid/server/models"
)

func TestUpdatePreferencesCompletesOnboarding(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.signup(t, "fresh@example.com")

	prefs, err := env.settings.GetPreferences(ctx, userID)
	require.NoError(t, err)

	// Changing only the theme still flips onboarding to complete.
	prefs.Theme = models.ThemeDark
	require.NoError(t, env.settings.UpdatePreferences(ctx, userID, prefs))

	updated, err := env.settings.GetPreferences(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, models.ThemeDark, updated.Theme)

	var user models.User
	require.NoError(t, env.db.First(&user, "id = ?", userID).Error)
	assert.True(t, user.OnboardingComplete)
}

func TestUpdatePreferencesValidates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.signup(t, "fresh@example.com")

	err := env.settings.UpdatePreferences(ctx, userID, models.Preferences{
		Theme:          "neon",
		DefaultModelID: "navid-pro",
	})
	requireCode(t, err, CodeValidation)

	err = env.settings.UpdatePreferences(ctx, userID, models.Preferences{
		Theme:          models.ThemeLight,
		DefaultModelID: "no-such-model",
	})
	requireCode(t, err, CodeInvalidModel)

	// Neither failed update completed onboarding.
	var user models.User
	require.NoError(t, env.db.First(&user, "id = ?", userID).Error)
	assert.False(t, user.OnboardingComplete)
}

func TestCompleteOnboardingExplicitly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.signup(t, "fresh@example.com")

	require.NoError(t, env.settings.CompleteOnboarding(ctx, userID))
	require.NoError(t, env.settings.CompleteOnboarding(ctx, userID))

	var user models.User
	require.NoError(t, env.db.First(&user, "id = ?", userID).Error)
	assert.True(t, user.OnboardingComplete)
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.signup(t, "fresh@example.com")

	require.NoError(t, env.settings.UpdateProfile(ctx, userID, "Fresh Name"))

	profile, err := env.settings.GetProfile(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "Fresh Name", profile.Name)
	assert.Equal(t, "fresh@example.com", profile.Email)

	err = env.settings.UpdateProfile(ctx, userID, "   ")
	requireCode(t, err, CodeValidation)
}
