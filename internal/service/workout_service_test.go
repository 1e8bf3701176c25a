package service

import (
	"context"
	"errors"
	"testing"

	"nutrifit/backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkoutPlanCreateChecksClientAndQuota(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewWorkoutService(f.workoutRepo, f.access, f.quota)

	alice := f.createUser(t, "alice@example.com", domain.RoleUser)
	bob := f.createUser(t, "bob@example.com", domain.RoleUser)
	clientID := f.createClient(t, uintPtr(alice), "Client")

	plan, err := svc.CreatePlan(ctx, alice, roleSet(domain.RoleUser), WorkoutPlanInput{
		ClientID: clientID, Title: "Block 1",
	})
	require.NoError(t, err)
	assert.Equal(t, clientID, plan.ClientID)

	// Foreign client is rejected before any quota consideration.
	_, err = svc.CreatePlan(ctx, bob, roleSet(domain.RoleUser), WorkoutPlanInput{
		ClientID: clientID, Title: "Block 1",
	})
	assert.ErrorIs(t, err, ErrForbidden)

	// Free tier caps workout plans per client at 2.
	_, err = svc.CreatePlan(ctx, alice, roleSet(domain.RoleUser), WorkoutPlanInput{
		ClientID: clientID, Title: "Block 2",
	})
	require.NoError(t, err)
	_, err = svc.CreatePlan(ctx, alice, roleSet(domain.RoleUser), WorkoutPlanInput{
		ClientID: clientID, Title: "Block 3",
	})
	var limitErr *LimitError
	assert.True(t, errors.As(err, &limitErr))
}

func TestWorkoutPlanReparentRequiresTargetAccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewWorkoutService(f.workoutRepo, f.access, f.quota)

	alice := f.createUser(t, "alice@example.com", domain.RoleUser)
	bob := f.createUser(t, "bob@example.com", domain.RoleUser)
	mine := f.createClient(t, uintPtr(alice), "Mine")
	alsoMine := f.createClient(t, uintPtr(alice), "Also mine")
	theirs := f.createClient(t, uintPtr(bob), "Theirs")
	planID := f.createWorkoutPlan(t, mine, "Plan")

	// Moving onto someone else's client fails and leaves the plan put.
	_, err := svc.UpdatePlan(ctx, alice, roleSet(domain.RoleUser), planID, WorkoutPlanInput{
		ClientID: theirs, Title: "Plan",
	})
	assert.ErrorIs(t, err, ErrForbidden)

	stored, err := f.workoutRepo.GetPlanByID(ctx, planID)
	require.NoError(t, err)
	assert.Equal(t, mine, stored.ClientID)

	// Moving between the caller's own clients is fine.
	updated, err := svc.UpdatePlan(ctx, alice, roleSet(domain.RoleUser), planID, WorkoutPlanInput{
		ClientID: alsoMine, Title: "Plan",
	})
	require.NoError(t, err)
	assert.Equal(t, alsoMine, updated.ClientID)
}

func TestWorkoutExerciseLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewWorkoutService(f.workoutRepo, f.access, f.quota)

	alice := f.createUser(t, "alice@example.com", domain.RoleUser)
	clientID := f.createClient(t, uintPtr(alice), "Client")
	planID := f.createWorkoutPlan(t, clientID, "Plan")
	otherPlanID := f.createWorkoutPlan(t, clientID, "Other")

	exercise, err := svc.AddExercise(ctx, alice, roleSet(domain.RoleUser), planID, WorkoutExerciseInput{Name: "Deadlift"})
	require.NoError(t, err)
	// Defaults apply when sets and reps are omitted.
	assert.Equal(t, 3, exercise.Sets)
	assert.Equal(t, 10, exercise.Reps)

	exercises, err := svc.ListExercises(ctx, alice, roleSet(domain.RoleUser), planID)
	require.NoError(t, err)
	assert.Len(t, exercises, 1)

	// Deleting through the wrong plan id does not work.
	err = svc.DeleteExercise(ctx, alice, roleSet(domain.RoleUser), otherPlanID, exercise.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.DeleteExercise(ctx, alice, roleSet(domain.RoleUser), planID, exercise.ID))
}

func TestWorkoutLogValidatesPlanClientMatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewWorkoutService(f.workoutRepo, f.access, f.quota)

	alice := f.createUser(t, "alice@example.com", domain.RoleUser)
	clientA := f.createClient(t, uintPtr(alice), "A")
	clientB := f.createClient(t, uintPtr(alice), "B")
	planID := f.createWorkoutPlan(t, clientA, "Plan")

	log, err := svc.CreateLog(ctx, alice, roleSet(domain.RoleUser), WorkoutLogInput{
		ClientID: clientA, PlanID: &planID,
	})
	require.NoError(t, err)
	assert.False(t, log.Date.IsZero())

	_, err = svc.CreateLog(ctx, alice, roleSet(domain.RoleUser), WorkoutLogInput{
		ClientID: clientB, PlanID: &planID,
	})
	assert.ErrorIs(t, err, ErrValidationFailed)

	logs, err := svc.ListLogs(ctx, alice, roleSet(domain.RoleUser), clientA, 0, 20)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}
