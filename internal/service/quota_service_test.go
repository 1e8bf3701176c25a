package service

import (
	"context"
	"errors"
	"testing"

	"nutrifit/backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientQuotaFreeTier(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.createUser(t, "alice@example.com", domain.RoleUser)

	// Free tier allows 3 clients. The checks run before each insert.
	for i := 0; i < 3; i++ {
		require.NoError(t, f.quota.EnsureCanCreateClient(ctx, alice))
		f.createClient(t, uintPtr(alice), "client")
	}

	err := f.quota.EnsureCanCreateClient(ctx, alice)
	var limitErr *LimitError
	require.True(t, errors.As(err, &limitErr))
	assert.Equal(t, "clients", limitErr.Resource)
	assert.Equal(t, 3, limitErr.Max)
}

func TestClientQuotaPaidPlan(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.createUser(t, "alice@example.com", domain.RoleUser)
	_, err := f.subscriptionRepo.Create(ctx, &domain.Subscription{
		UserID: alice, Plan: "basic", IsActive: true,
	})
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		f.createClient(t, uintPtr(alice), "client")
	}
	// 4 clients is over the free cap but fine on basic.
	assert.NoError(t, f.quota.EnsureCanCreateClient(ctx, alice))
}

func TestClientQuotaLatestActiveSubscriptionWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.createUser(t, "alice@example.com", domain.RoleUser)
	_, err := f.subscriptionRepo.Create(ctx, &domain.Subscription{UserID: alice, Plan: "basic", IsActive: true})
	require.NoError(t, err)
	_, err = f.subscriptionRepo.Create(ctx, &domain.Subscription{UserID: alice, Plan: "pro", IsActive: true})
	require.NoError(t, err)

	for i := 0; i < 11; i++ {
		f.createClient(t, uintPtr(alice), "client")
	}
	// 11 clients exceeds basic, pro is the newer active row and applies.
	assert.NoError(t, f.quota.EnsureCanCreateClient(ctx, alice))
}

func TestCancelledSubscriptionFallsBackToFree(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.createUser(t, "alice@example.com", domain.RoleUser)
	subID, err := f.subscriptionRepo.Create(ctx, &domain.Subscription{UserID: alice, Plan: "pro", IsActive: true})
	require.NoError(t, err)
	require.NoError(t, f.subscriptionRepo.Deactivate(ctx, subID))

	for i := 0; i < 3; i++ {
		f.createClient(t, uintPtr(alice), "client")
	}
	err = f.quota.EnsureCanCreateClient(ctx, alice)
	var limitErr *LimitError
	assert.True(t, errors.As(err, &limitErr))
}

func TestWorkoutPlanQuotaPerClient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.createUser(t, "alice@example.com", domain.RoleUser)
	clientID := f.createClient(t, uintPtr(alice), "client")

	for i := 0; i < 2; i++ {
		require.NoError(t, f.quota.EnsureCanCreateWorkoutPlan(ctx, alice, clientID))
		f.createWorkoutPlan(t, clientID, "plan")
	}

	err := f.quota.EnsureCanCreateWorkoutPlan(ctx, alice, clientID)
	var limitErr *LimitError
	require.True(t, errors.As(err, &limitErr))
	assert.Equal(t, "workout plans", limitErr.Resource)
}

func TestWorkoutPlanQuotaSkipsForeignClient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.createUser(t, "alice@example.com", domain.RoleUser)
	coach := f.createUser(t, "coach@example.com", domain.RoleProfessional)
	clientID := f.createClient(t, uintPtr(alice), "client")

	// Fill the client up to the owner's cap.
	f.createWorkoutPlan(t, clientID, "plan 1")
	f.createWorkoutPlan(t, clientID, "plan 2")

	// The check is keyed on the checked user owning the client. A coach
	// creating on behalf of someone else is not charged against a quota.
	assert.NoError(t, f.quota.EnsureCanCreateWorkoutPlan(ctx, coach, clientID))

	// Same for a client id that does not exist, authorization handles that.
	assert.NoError(t, f.quota.EnsureCanCreateWorkoutPlan(ctx, alice, 9999))
}
