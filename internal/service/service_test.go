package service

import (
	"context"
	"testing"

	"nutrifit/backend/internal/domain"
	"nutrifit/backend/internal/repository"
	"nutrifit/backend/internal/repository/gormdb"

	"github.com/stretchr/testify/require"
)

// fixture wires the full service stack against a fresh in-memory database.
type fixture struct {
	userRepo         repository.UserRepository
	clientRepo       repository.ClientRepository
	workoutRepo      repository.WorkoutRepository
	dietRepo         repository.DietRepository
	protocolRepo     repository.ProtocolRepository
	subscriptionRepo repository.SubscriptionRepository
	notificationRepo repository.NotificationRepository
	settingsRepo     repository.SettingsRepository

	access AccessService
	quota  QuotaService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gormdb.Open(gormdb.InMemoryDSN, false)
	require.NoError(t, err)

	f := &fixture{
		userRepo:         gormdb.NewUserRepository(db),
		clientRepo:       gormdb.NewClientRepository(db),
		workoutRepo:      gormdb.NewWorkoutRepository(db),
		dietRepo:         gormdb.NewDietRepository(db),
		protocolRepo:     gormdb.NewProtocolRepository(db),
		subscriptionRepo: gormdb.NewSubscriptionRepository(db),
		notificationRepo: gormdb.NewNotificationRepository(db),
		settingsRepo:     gormdb.NewSettingsRepository(db),
	}
	f.access = NewAccessService(f.clientRepo, f.workoutRepo, f.dietRepo, f.protocolRepo)
	f.quota = NewQuotaService(f.subscriptionRepo, f.clientRepo, f.workoutRepo, f.dietRepo)
	return f
}

// createUser inserts a user with the given roles and returns its id.
func (f *fixture) createUser(t *testing.T, email string, roles ...domain.Role) uint {
	t.Helper()
	ctx := context.Background()
	id, err := f.userRepo.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: "x",
		IsActive:     true,
	})
	require.NoError(t, err)
	for _, role := range roles {
		require.NoError(t, f.userRepo.AssignRole(ctx, id, string(role)))
	}
	return id
}

// createClient inserts a client linked to the given owner.
func (f *fixture) createClient(t *testing.T, owner *uint, name string) uint {
	t.Helper()
	id, err := f.clientRepo.Create(context.Background(), &domain.Client{
		UserID:      owner,
		DisplayName: name,
	})
	require.NoError(t, err)
	return id
}

func (f *fixture) createWorkoutPlan(t *testing.T, clientID uint, title string) uint {
	t.Helper()
	id, err := f.workoutRepo.CreatePlan(context.Background(), &domain.WorkoutPlan{
		ClientID: clientID,
		Title:    title,
	})
	require.NoError(t, err)
	return id
}

// roleSet builds a RoleSet literal for tests.
func roleSet(roles ...domain.Role) domain.RoleSet {
	set := make(domain.RoleSet, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

func uintPtr(v uint) *uint { return &v }
