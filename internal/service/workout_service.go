package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nutrifit/backend/internal/domain"
	"nutrifit/backend/internal/repository"
)

// WorkoutPlanInput carries the mutable fields of a workout plan.
type WorkoutPlanInput struct {
	ClientID    uint
	Title       string
	Description string
	StartDate   *time.Time
	EndDate     *time.Time
}

// WorkoutExerciseInput carries the mutable fields of a plan exercise.
type WorkoutExerciseInput struct {
	Name        string
	Sets        int
	Reps        int
	RestSeconds *int
	Notes       string
}

// WorkoutLogInput carries the fields of a completed session entry.
type WorkoutLogInput struct {
	ClientID uint
	PlanID   *uint
	Date     time.Time
	Notes    string
}

// WorkoutService handles workout plans, their exercises and workout logs.
type WorkoutService interface {
	CreatePlan(ctx context.Context, caller uint, roles domain.RoleSet, input WorkoutPlanInput) (*domain.WorkoutPlan, error)
	GetPlan(ctx context.Context, caller uint, roles domain.RoleSet, planID uint) (*domain.WorkoutPlan, error)
	ListPlans(ctx context.Context, caller uint, roles domain.RoleSet, offset, limit int) ([]domain.WorkoutPlan, error)
	UpdatePlan(ctx context.Context, caller uint, roles domain.RoleSet, planID uint, input WorkoutPlanInput) (*domain.WorkoutPlan, error)
	DeletePlan(ctx context.Context, caller uint, roles domain.RoleSet, planID uint) error

	AddExercise(ctx context.Context, caller uint, roles domain.RoleSet, planID uint, input WorkoutExerciseInput) (*domain.WorkoutExercise, error)
	ListExercises(ctx context.Context, caller uint, roles domain.RoleSet, planID uint) ([]domain.WorkoutExercise, error)
	DeleteExercise(ctx context.Context, caller uint, roles domain.RoleSet, planID, exerciseID uint) error

	CreateLog(ctx context.Context, caller uint, roles domain.RoleSet, input WorkoutLogInput) (*domain.WorkoutLog, error)
	ListLogs(ctx context.Context, caller uint, roles domain.RoleSet, clientID uint, offset, limit int) ([]domain.WorkoutLog, error)
}

type workoutService struct {
	workoutRepo repository.WorkoutRepository
	access      AccessService
	quota       QuotaService
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(workoutRepo repository.WorkoutRepository, access AccessService, quota QuotaService) WorkoutService {
	return &workoutService{workoutRepo: workoutRepo, access: access, quota: quota}
}

func (s *workoutService) CreatePlan(ctx context.Context, caller uint, roles domain.RoleSet, input WorkoutPlanInput) (*domain.WorkoutPlan, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", ErrValidationFailed)
	}
	if _, err := s.access.AuthorizeClient(ctx, caller, roles, input.ClientID); err != nil {
		return nil, err
	}
	if err := s.quota.EnsureCanCreateWorkoutPlan(ctx, caller, input.ClientID); err != nil {
		return nil, err
	}

	plan := &domain.WorkoutPlan{
		ClientID:    input.ClientID,
		Title:       input.Title,
		Description: input.Description,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
	}
	id, err := s.workoutRepo.CreatePlan(ctx, plan)
	if err != nil {
		return nil, err
	}
	plan.ID = id
	return plan, nil
}

func (s *workoutService) GetPlan(ctx context.Context, caller uint, roles domain.RoleSet, planID uint) (*domain.WorkoutPlan, error) {
	return s.access.AuthorizeWorkoutPlan(ctx, caller, roles, planID)
}

func (s *workoutService) ListPlans(ctx context.Context, caller uint, roles domain.RoleSet, offset, limit int) ([]domain.WorkoutPlan, error) {
	return s.workoutRepo.ListPlans(ctx, OwnerFilter(caller, roles), offset, limit)
}

func (s *workoutService) UpdatePlan(ctx context.Context, caller uint, roles domain.RoleSet, planID uint, input WorkoutPlanInput) (*domain.WorkoutPlan, error) {
	plan, err := s.access.AuthorizeWorkoutPlan(ctx, caller, roles, planID)
	if err != nil {
		return nil, err
	}
	if input.Title == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", ErrValidationFailed)
	}

	if input.ClientID != 0 && input.ClientID != plan.ClientID {
		// Moving a plan to another client requires access to the target too.
		if _, err := s.access.AuthorizeClient(ctx, caller, roles, input.ClientID); err != nil {
			return nil, err
		}
		plan.ClientID = input.ClientID
	}

	plan.Title = input.Title
	plan.Description = input.Description
	plan.StartDate = input.StartDate
	plan.EndDate = input.EndDate
	if err := s.workoutRepo.UpdatePlan(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *workoutService) DeletePlan(ctx context.Context, caller uint, roles domain.RoleSet, planID uint) error {
	if _, err := s.access.AuthorizeWorkoutPlan(ctx, caller, roles, planID); err != nil {
		return err
	}
	return s.workoutRepo.DeletePlan(ctx, planID)
}

func (s *workoutService) AddExercise(ctx context.Context, caller uint, roles domain.RoleSet, planID uint, input WorkoutExerciseInput) (*domain.WorkoutExercise, error) {
	if _, err := s.access.AuthorizeWorkoutPlan(ctx, caller, roles, planID); err != nil {
		return nil, err
	}
	if input.Name == "" {
		return nil, fmt.Errorf("%w: exercise name cannot be empty", ErrValidationFailed)
	}
	if input.Sets <= 0 {
		input.Sets = 3
	}
	if input.Reps <= 0 {
		input.Reps = 10
	}

	exercise := &domain.WorkoutExercise{
		PlanID:      planID,
		Name:        input.Name,
		Sets:        input.Sets,
		Reps:        input.Reps,
		RestSeconds: input.RestSeconds,
		Notes:       input.Notes,
	}
	id, err := s.workoutRepo.AddExercise(ctx, exercise)
	if err != nil {
		return nil, err
	}
	exercise.ID = id
	return exercise, nil
}

func (s *workoutService) ListExercises(ctx context.Context, caller uint, roles domain.RoleSet, planID uint) ([]domain.WorkoutExercise, error) {
	if _, err := s.access.AuthorizeWorkoutPlan(ctx, caller, roles, planID); err != nil {
		return nil, err
	}
	return s.workoutRepo.ListExercises(ctx, planID)
}

func (s *workoutService) DeleteExercise(ctx context.Context, caller uint, roles domain.RoleSet, planID, exerciseID uint) error {
	if _, err := s.access.AuthorizeWorkoutPlan(ctx, caller, roles, planID); err != nil {
		return err
	}
	exercise, err := s.workoutRepo.GetExerciseByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if exercise.PlanID != planID {
		return ErrNotFound
	}
	return s.workoutRepo.DeleteExercise(ctx, exerciseID)
}

func (s *workoutService) CreateLog(ctx context.Context, caller uint, roles domain.RoleSet, input WorkoutLogInput) (*domain.WorkoutLog, error) {
	if _, err := s.access.AuthorizeClient(ctx, caller, roles, input.ClientID); err != nil {
		return nil, err
	}
	if input.PlanID != nil {
		plan, err := s.access.AuthorizeWorkoutPlan(ctx, caller, roles, *input.PlanID)
		if err != nil {
			return nil, err
		}
		if plan.ClientID != input.ClientID {
			return nil, fmt.Errorf("%w: plan does not belong to this client", ErrValidationFailed)
		}
	}
	if input.Date.IsZero() {
		input.Date = time.Now()
	}

	log := &domain.WorkoutLog{
		ClientID: input.ClientID,
		PlanID:   input.PlanID,
		Date:     input.Date,
		Notes:    input.Notes,
	}
	id, err := s.workoutRepo.CreateLog(ctx, log)
	if err != nil {
		return nil, err
	}
	log.ID = id
	return log, nil
}

func (s *workoutService) ListLogs(ctx context.Context, caller uint, roles domain.RoleSet, clientID uint, offset, limit int) ([]domain.WorkoutLog, error) {
	if _, err := s.access.AuthorizeClient(ctx, caller, roles, clientID); err != nil {
		return nil, err
	}
	return s.workoutRepo.ListLogsByClient(ctx, clientID, offset, limit)
}
