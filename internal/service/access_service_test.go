package service

import (
	"context"
	"testing"

	"nutrifit/backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorizeClientOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.createUser(t, "alice@example.com", domain.RoleUser)
	bob := f.createUser(t, "bob@example.com", domain.RoleUser)
	clientID := f.createClient(t, uintPtr(alice), "Alice's client")

	// Owner sees their own client.
	client, err := f.access.AuthorizeClient(ctx, alice, roleSet(domain.RoleUser), clientID)
	require.NoError(t, err)
	assert.Equal(t, "Alice's client", client.DisplayName)

	// Another plain user is rejected.
	_, err = f.access.AuthorizeClient(ctx, bob, roleSet(domain.RoleUser), clientID)
	assert.ErrorIs(t, err, ErrForbidden)

	// Missing client reads as not found, not forbidden.
	_, err = f.access.AuthorizeClient(ctx, alice, roleSet(domain.RoleUser), 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAuthorizeClientUnlinked(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.createUser(t, "alice@example.com", domain.RoleUser)
	clientID := f.createClient(t, nil, "Orphan")

	// A client with no linked user is off limits for plain users.
	_, err := f.access.AuthorizeClient(ctx, alice, roleSet(domain.RoleUser), clientID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAuthorizeClientPrivilegedBypass(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.createUser(t, "alice@example.com", domain.RoleUser)
	pro := f.createUser(t, "coach@example.com", domain.RoleProfessional)
	admin := f.createUser(t, "admin@example.com", domain.RoleAdmin)
	gym := f.createUser(t, "gym@example.com", domain.RoleGym)
	clientID := f.createClient(t, uintPtr(alice), "Alice's client")

	_, err := f.access.AuthorizeClient(ctx, pro, roleSet(domain.RoleProfessional), clientID)
	assert.NoError(t, err)

	_, err = f.access.AuthorizeClient(ctx, admin, roleSet(domain.RoleAdmin), clientID)
	assert.NoError(t, err)

	// Gym accounts do not bypass ownership.
	_, err = f.access.AuthorizeClient(ctx, gym, roleSet(domain.RoleGym), clientID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAuthorizeWorkoutPlanFollowsClientOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.createUser(t, "alice@example.com", domain.RoleUser)
	bob := f.createUser(t, "bob@example.com", domain.RoleUser)
	clientID := f.createClient(t, uintPtr(alice), "Alice's client")
	planID := f.createWorkoutPlan(t, clientID, "Strength block")

	plan, err := f.access.AuthorizeWorkoutPlan(ctx, alice, roleSet(domain.RoleUser), planID)
	require.NoError(t, err)
	assert.Equal(t, clientID, plan.ClientID)

	_, err = f.access.AuthorizeWorkoutPlan(ctx, bob, roleSet(domain.RoleUser), planID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.access.AuthorizeWorkoutPlan(ctx, alice, roleSet(domain.RoleUser), 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOwnerFilter(t *testing.T) {
	assert.Nil(t, OwnerFilter(7, roleSet(domain.RoleAdmin)))
	assert.Nil(t, OwnerFilter(7, roleSet(domain.RoleProfessional)))

	filter := OwnerFilter(7, roleSet(domain.RoleUser))
	require.NotNil(t, filter)
	assert.Equal(t, uint(7), *filter)
}
