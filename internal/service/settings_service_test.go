package service

import (
	"context"
	"testing"

	"nutrifit/backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsDefaultsOnFirstAccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewSettingsService(f.settingsRepo)

	alice := f.createUser(t, "alice@example.com", domain.RoleUser)

	settings, err := svc.Get(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "light", settings.Theme)
	assert.True(t, settings.NotificationsEnabled)

	// Second read returns the persisted row.
	again, err := svc.Get(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, settings.Theme, again.Theme)
}

func TestSettingsUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewSettingsService(f.settingsRepo)

	alice := f.createUser(t, "alice@example.com", domain.RoleUser)

	updated, err := svc.Update(ctx, alice, SettingsInput{Theme: "dark", NotificationsEnabled: false, Locale: "de"})
	require.NoError(t, err)
	assert.Equal(t, "dark", updated.Theme)
	assert.False(t, updated.NotificationsEnabled)

	stored, err := svc.Get(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "dark", stored.Theme)
	assert.Equal(t, "de", stored.Locale)

	_, err = svc.Update(ctx, alice, SettingsInput{Theme: "neon"})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestSubscriptionLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewSubscriptionService(f.subscriptionRepo, NewStubPaymentProvider())

	alice := f.createUser(t, "alice@example.com", domain.RoleUser)

	_, err := svc.Current(ctx, alice)
	assert.ErrorIs(t, err, ErrNotFound)

	session, err := svc.Checkout(ctx, alice, "pro", 29.90, "EUR")
	require.NoError(t, err)
	assert.NotEmpty(t, session.URL)

	sub, err := svc.Activate(ctx, alice, "pro", 29.90, "EUR")
	require.NoError(t, err)
	assert.True(t, sub.IsActive)

	current, err := svc.Current(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "pro", current.Plan)

	require.NoError(t, svc.Cancel(ctx, alice))
	_, err = svc.Current(ctx, alice)
	assert.ErrorIs(t, err, ErrNotFound)

	history, err := svc.List(ctx, alice, 0, 20)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}
