package service

import (
	"context"
	"errors"

	"nutrifit/backend/internal/domain"
	"nutrifit/backend/internal/repository"
)

// AccessService decides whether a caller may act on a resource. Every
// decision reduces to the same rule: walk the resource's parent chain to its
// root client, take that client's linked user as the effective owner, and
// allow the caller iff they are that owner or hold a bypassing role.
type AccessService interface {
	AuthorizeClient(ctx context.Context, caller uint, roles domain.RoleSet, clientID uint) (*domain.Client, error)
	AuthorizeWorkoutPlan(ctx context.Context, caller uint, roles domain.RoleSet, planID uint) (*domain.WorkoutPlan, error)
	AuthorizeDietPlan(ctx context.Context, caller uint, roles domain.RoleSet, planID uint) (*domain.DietPlan, error)
	AuthorizeGoal(ctx context.Context, caller uint, roles domain.RoleSet, goalID uint) (*domain.ProtocolGoal, error)
}

// OwnerFilter returns the owner restriction to apply to list queries:
// nil (no restriction) for bypassing roles, the caller id otherwise.
func OwnerFilter(caller uint, roles domain.RoleSet) *uint {
	if roles.BypassesOwnership() {
		return nil
	}
	return &caller
}

type accessService struct {
	clientRepo   repository.ClientRepository
	workoutRepo  repository.WorkoutRepository
	dietRepo     repository.DietRepository
	protocolRepo repository.ProtocolRepository
}

// NewAccessService creates a new instance of accessService.
func NewAccessService(
	clientRepo repository.ClientRepository,
	workoutRepo repository.WorkoutRepository,
	dietRepo repository.DietRepository,
	protocolRepo repository.ProtocolRepository,
) AccessService {
	return &accessService{
		clientRepo:   clientRepo,
		workoutRepo:  workoutRepo,
		dietRepo:     dietRepo,
		protocolRepo: protocolRepo,
	}
}

// AuthorizeClient is the root of every ownership chain. A client with no
// linked user is reachable only by bypassing roles; ownership can never
// match for it.
func (s *accessService) AuthorizeClient(ctx context.Context, caller uint, roles domain.RoleSet, clientID uint) (*domain.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if roles.BypassesOwnership() {
		return client, nil
	}
	owner := client.Owner()
	if owner == nil || *owner != caller {
		return nil, ErrForbidden
	}
	return client, nil
}

func (s *accessService) AuthorizeWorkoutPlan(ctx context.Context, caller uint, roles domain.RoleSet, planID uint) (*domain.WorkoutPlan, error) {
	plan, err := s.workoutRepo.GetPlanByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if _, err := s.AuthorizeClient(ctx, caller, roles, plan.ClientID); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *accessService) AuthorizeDietPlan(ctx context.Context, caller uint, roles domain.RoleSet, planID uint) (*domain.DietPlan, error) {
	plan, err := s.dietRepo.GetPlanByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if _, err := s.AuthorizeClient(ctx, caller, roles, plan.ClientID); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *accessService) AuthorizeGoal(ctx context.Context, caller uint, roles domain.RoleSet, goalID uint) (*domain.ProtocolGoal, error) {
	goal, err := s.protocolRepo.GetGoalByID(ctx, goalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if _, err := s.AuthorizeClient(ctx, caller, roles, goal.ClientID); err != nil {
		return nil, err
	}
	return goal, nil
}
