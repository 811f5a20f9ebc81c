package repository

import (
	"context"
	"testing"

	"github.com/projectdesk/projectdesk/internal/models"
	"github.com/projectdesk/projectdesk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_LazyDefaultsThenUpsert(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	f := testutil.Fixtures{T: t, DB: db}
	user := f.User("alice@example.com")
	repo := NewSettingsRepository(db)
	ctx := context.Background()

	settings, err := repo.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "light", settings.Theme)
	assert.Zero(t, settings.ID)
	assert.Zero(t, f.Count(&models.Settings{}, ""))

	settings.Theme = "dark"
	require.NoError(t, repo.Upsert(ctx, settings))
	require.NoError(t, repo.Upsert(ctx, &models.Settings{UserID: user.ID, Theme: "dark", DefaultView: "tasks"}))

	stored, err := repo.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "dark", stored.Theme)
	assert.Equal(t, "tasks", stored.DefaultView)
	assert.EqualValues(t, 1, f.Count(&models.Settings{}, "user_id = ?", user.ID))
}

func TestSettings_TouchPasswordChangeKeepsTheme(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	f := testutil.Fixtures{T: t, DB: db}
	user := f.User("alice@example.com")
	repo := NewSettingsRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &models.Settings{UserID: user.ID, Theme: "dark", DefaultView: "tasks"}))
	require.NoError(t, repo.TouchPasswordChange(ctx, user.ID))

	stored, err := repo.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "dark", stored.Theme)
	require.NotNil(t, stored.LastPasswordChange)
}
