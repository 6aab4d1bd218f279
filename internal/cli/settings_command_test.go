package cli

import (
	"context"
	"testing"

	apperrors "task-manager/internal/errors"
	"task-manager/internal/settings"
	"task-manager/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsCommand_Execute(t *testing.T) {
	app, out := setupTestApp(t)
	cmd := NewSettingsCommand(app)
	ctx := context.Background()

	t.Run("lists every key with defaults", func(t *testing.T) {
		require.NoError(t, cmd.Execute(ctx, nil))
		for _, key := range settings.Keys() {
			assert.Contains(t, out.String(), key)
		}
		assert.Contains(t, out.String(), "English")
	})

	t.Run("sets and gets a value", func(t *testing.T) {
		out.Reset()
		require.NoError(t, cmd.Execute(ctx, []string{"set", settings.KeyLanguage, "spanish"}))
		assert.Equal(t, "language = Spanish\n", out.String())

		out.Reset()
		require.NoError(t, cmd.Execute(ctx, []string{"get", settings.KeyLanguage}))
		assert.Equal(t, "Spanish\n", out.String())

		saved, err := app.rt.Settings.Load()
		require.NoError(t, err)
		assert.Equal(t, settings.LanguageSpanish, saved.Language)
	})

	t.Run("rejects invalid values and keys", func(t *testing.T) {
		err := cmd.Execute(ctx, []string{"set", settings.KeyDarkMode, "maybe"})
		assert.True(t, validation.IsValidationError(err))

		err = cmd.Execute(ctx, []string{"get", "volume"})
		assert.True(t, validation.IsValidationError(err))
	})

	t.Run("rejects malformed usage", func(t *testing.T) {
		err := cmd.Execute(ctx, []string{"set", settings.KeyDarkMode})
		assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeInvalidInput))
	})
}
