package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nutrifit/backend/internal/domain"
	"nutrifit/backend/internal/repository"
)

// DietPlanInput carries the mutable fields of a diet plan.
type DietPlanInput struct {
	ClientID    uint
	Title       string
	Description string
	StartDate   *time.Time
	EndDate     *time.Time
}

// FoodItemInput carries the fields of a catalog food item.
type FoodItemInput struct {
	Name     string
	Calories float64
	ProteinG float64
	CarbsG   float64
	FatsG    float64
}

// DietEntryInput carries the fields of a plan entry.
type DietEntryInput struct {
	FoodItemID uint
	Date       time.Time
	Quantity   float64
	MealType   string
}

// DietService handles diet plans, their entries and the food item catalog.
type DietService interface {
	CreatePlan(ctx context.Context, caller uint, roles domain.RoleSet, input DietPlanInput) (*domain.DietPlan, error)
	GetPlan(ctx context.Context, caller uint, roles domain.RoleSet, planID uint) (*domain.DietPlan, error)
	ListPlans(ctx context.Context, caller uint, roles domain.RoleSet, offset, limit int) ([]domain.DietPlan, error)
	UpdatePlan(ctx context.Context, caller uint, roles domain.RoleSet, planID uint, input DietPlanInput) (*domain.DietPlan, error)
	DeletePlan(ctx context.Context, caller uint, roles domain.RoleSet, planID uint) error

	CreateFoodItem(ctx context.Context, input FoodItemInput) (*domain.FoodItem, error)
	ListFoodItems(ctx context.Context, offset, limit int) ([]domain.FoodItem, error)

	AddEntry(ctx context.Context, caller uint, roles domain.RoleSet, planID uint, input DietEntryInput) (*domain.DietEntry, error)
	ListEntries(ctx context.Context, caller uint, roles domain.RoleSet, planID uint, offset, limit int) ([]domain.DietEntry, error)
	DeleteEntry(ctx context.Context, caller uint, roles domain.RoleSet, planID, entryID uint) error
}

type dietService struct {
	dietRepo repository.DietRepository
	access   AccessService
	quota    QuotaService
}

// NewDietService creates a new instance of dietService.
func NewDietService(dietRepo repository.DietRepository, access AccessService, quota QuotaService) DietService {
	return &dietService{dietRepo: dietRepo, access: access, quota: quota}
}

func (s *dietService) CreatePlan(ctx context.Context, caller uint, roles domain.RoleSet, input DietPlanInput) (*domain.DietPlan, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", ErrValidationFailed)
	}
	if _, err := s.access.AuthorizeClient(ctx, caller, roles, input.ClientID); err != nil {
		return nil, err
	}
	if err := s.quota.EnsureCanCreateDietPlan(ctx, caller, input.ClientID); err != nil {
		return nil, err
	}

	plan := &domain.DietPlan{
		ClientID:    input.ClientID,
		Title:       input.Title,
		Description: input.Description,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
	}
	id, err := s.dietRepo.CreatePlan(ctx, plan)
	if err != nil {
		return nil, err
	}
	plan.ID = id
	return plan, nil
}

func (s *dietService) GetPlan(ctx context.Context, caller uint, roles domain.RoleSet, planID uint) (*domain.DietPlan, error) {
	return s.access.AuthorizeDietPlan(ctx, caller, roles, planID)
}

func (s *dietService) ListPlans(ctx context.Context, caller uint, roles domain.RoleSet, offset, limit int) ([]domain.DietPlan, error) {
	return s.dietRepo.ListPlans(ctx, OwnerFilter(caller, roles), offset, limit)
}

func (s *dietService) UpdatePlan(ctx context.Context, caller uint, roles domain.RoleSet, planID uint, input DietPlanInput) (*domain.DietPlan, error) {
	plan, err := s.access.AuthorizeDietPlan(ctx, caller, roles, planID)
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
	if err := s.dietRepo.UpdatePlan(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *dietService) DeletePlan(ctx context.Context, caller uint, roles domain.RoleSet, planID uint) error {
	if _, err := s.access.AuthorizeDietPlan(ctx, caller, roles, planID); err != nil {
		return err
	}
	return s.dietRepo.DeletePlan(ctx, planID)
}

func (s *dietService) CreateFoodItem(ctx context.Context, input FoodItemInput) (*domain.FoodItem, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: food item name cannot be empty", ErrValidationFailed)
	}

	item := &domain.FoodItem{
		Name:     input.Name,
		Calories: input.Calories,
		ProteinG: input.ProteinG,
		CarbsG:   input.CarbsG,
		FatsG:    input.FatsG,
	}
	id, err := s.dietRepo.CreateFoodItem(ctx, item)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrFoodItemExists
		}
		return nil, err
	}
	item.ID = id
	return item, nil
}

func (s *dietService) ListFoodItems(ctx context.Context, offset, limit int) ([]domain.FoodItem, error) {
	return s.dietRepo.ListFoodItems(ctx, offset, limit)
}

func (s *dietService) AddEntry(ctx context.Context, caller uint, roles domain.RoleSet, planID uint, input DietEntryInput) (*domain.DietEntry, error) {
	if _, err := s.access.AuthorizeDietPlan(ctx, caller, roles, planID); err != nil {
		return nil, err
	}
	if _, err := s.dietRepo.GetFoodItemByID(ctx, input.FoodItemID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown food item", ErrValidationFailed)
		}
		return nil, err
	}
	if input.Quantity <= 0 {
		input.Quantity = 1
	}
	if input.Date.IsZero() {
		input.Date = time.Now()
	}

	entry := &domain.DietEntry{
		PlanID:     planID,
		FoodItemID: input.FoodItemID,
		Date:       input.Date,
		Quantity:   input.Quantity,
		MealType:   input.MealType,
	}
	id, err := s.dietRepo.AddEntry(ctx, entry)
	if err != nil {
		return nil, err
	}
	entry.ID = id
	return entry, nil
}

func (s *dietService) ListEntries(ctx context.Context, caller uint, roles domain.RoleSet, planID uint, offset, limit int) ([]domain.DietEntry, error) {
	if _, err := s.access.AuthorizeDietPlan(ctx, caller, roles, planID); err != nil {
		return nil, err
	}
	return s.dietRepo.ListEntries(ctx, planID, offset, limit)
}

func (s *dietService) DeleteEntry(ctx context.Context, caller uint, roles domain.RoleSet, planID, entryID uint) error {
	if _, err := s.access.AuthorizeDietPlan(ctx, caller, roles, planID); err != nil {
		return err
	}
	entry, err := s.dietRepo.GetEntryByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if entry.PlanID != planID {
		return ErrNotFound
	}
	return s.dietRepo.DeleteEntry(ctx, entryID)
}
