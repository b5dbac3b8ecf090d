package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avan-studio/avan-backend/internal/settings/domain"
	"github.com/avan-studio/avan-backend/internal/storage/kv"
)

func setupService(t *testing.T) (*Service, kv.Store) {
	t.Helper()
	backend := kv.NewMemoryBackend()
	return New(backend), backend.For("u1")
}

func TestLoad_DefaultsAndMerge(t *testing.T) {
	svc, store := setupService(t)
	ctx := context.Background()

	s, err := svc.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), s)

	require.NoError(t, store.Set(ctx, SettingsKey, `{"largeText":true,"theme":"light"}`))
	s, err = svc.Load(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, s.LargeText)
	assert.Equal(t, domain.ThemeLight, s.Theme)
	assert.True(t, s.SoundEnabled, "missing keys keep their defaults")
}

func TestLoad_CorruptFallsBackToDefaults(t *testing.T) {
	svc, store := setupService(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, SettingsKey, `{"largeText":true,"theme":`))
	s, err := svc.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), s)
}

func TestUpdateAndReset(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	s, err := svc.Update(ctx, "u1", []byte(`{"theme":"light","soundEnabled":false,"grayscale":true,"readableFont":true,"reduceMotion":true}`))
	require.NoError(t, err)
	assert.True(t, s.Grayscale)

	s, err = svc.ResetAccessibility(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, s.Grayscale)
	assert.False(t, s.ReadableFont)
	assert.Equal(t, domain.ThemeLight, s.Theme)
	assert.False(t, s.SoundEnabled)
	assert.True(t, s.ReduceMotion)

	loaded, err := svc.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, s, loaded)

	_, err = svc.Update(ctx, "u1", []byte(`{"theme":"neon"}`))
	assert.ErrorIs(t, err, domain.ErrInvalidTheme)
}

func TestPreferences(t *testing.T) {
	svc, store := setupService(t)
	ctx := context.Background()

	p, err := svc.Preferences(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.Preferences{Language: "en"}, p)

	he := "he"
	yes := true
	p, err = svc.UpdatePreferences(ctx, "u1", PreferencesUpdate{Language: &he, AcceptedTerms: &yes})
	require.NoError(t, err)
	assert.Equal(t, domain.Preferences{Language: "he", AcceptedTerms: true}, p)

	raw, ok, err := store.Get(ctx, LanguageKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "he", raw)
	assert.Equal(t, "he", svc.Language(ctx, "u1"))

	bad := "ar"
	_, err = svc.UpdatePreferences(ctx, "u1", PreferencesUpdate{Language: &bad})
	assert.ErrorIs(t, err, domain.ErrUnsupportedLanguage)
	assert.Equal(t, "he", svc.Language(ctx, "u1"))
}
