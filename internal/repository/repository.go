package repository

import (
	"context"
	"time"

	"nutrifit/backend/internal/domain"
)

// Error constants for repository layer
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate record")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (uint, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uint) (*domain.User, error)
	// EnsureRole creates the role if it does not exist yet and returns it.
	EnsureRole(ctx context.Context, name, description string) (*domain.RoleRecord, error)
	AssignRole(ctx context.Context, userID uint, roleName string) error
}

// ClientRepository defines the interface for interacting with client data.
// List methods take an optional owner filter: nil means no filtering
// (privileged callers), a user id restricts to clients linked to that user.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) (uint, error)
	GetByID(ctx context.Context, id uint) (*domain.Client, error)
	List(ctx context.Context, owner *uint, offset, limit int) ([]domain.Client, error)
	CountByOwner(ctx context.Context, userID uint) (int64, error)
	Update(ctx context.Context, client *domain.Client) error
	// Delete removes the client and cascades to plans, goals and logs.
	Delete(ctx context.Context, id uint) error
}

// WorkoutRepository defines the interface for workout plans, their exercises
// and workout logs.
type WorkoutRepository interface {
	CreatePlan(ctx context.Context, plan *domain.WorkoutPlan) (uint, error)
	GetPlanByID(ctx context.Context, id uint) (*domain.WorkoutPlan, error)
	ListPlans(ctx context.Context, owner *uint, offset, limit int) ([]domain.WorkoutPlan, error)
	CountPlansByClient(ctx context.Context, clientID uint) (int64, error)
	UpdatePlan(ctx context.Context, plan *domain.WorkoutPlan) error
	// DeletePlan removes the plan and cascades to its exercises.
	DeletePlan(ctx context.Context, id uint) error

	AddExercise(ctx context.Context, exercise *domain.WorkoutExercise) (uint, error)
	GetExerciseByID(ctx context.Context, id uint) (*domain.WorkoutExercise, error)
	ListExercises(ctx context.Context, planID uint) ([]domain.WorkoutExercise, error)
	DeleteExercise(ctx context.Context, id uint) error

	CreateLog(ctx context.Context, log *domain.WorkoutLog) (uint, error)
	ListLogsByClient(ctx context.Context, clientID uint, offset, limit int) ([]domain.WorkoutLog, error)
}

// DietRepository defines the interface for diet plans, entries and food items.
type DietRepository interface {
	CreatePlan(ctx context.Context, plan *domain.DietPlan) (uint, error)
	GetPlanByID(ctx context.Context, id uint) (*domain.DietPlan, error)
	ListPlans(ctx context.Context, owner *uint, offset, limit int) ([]domain.DietPlan, error)
	CountPlansByClient(ctx context.Context, clientID uint) (int64, error)
	UpdatePlan(ctx context.Context, plan *domain.DietPlan) error
	// DeletePlan removes the plan and cascades to its entries.
	DeletePlan(ctx context.Context, id uint) error

	CreateFoodItem(ctx context.Context, item *domain.FoodItem) (uint, error)
	GetFoodItemByID(ctx context.Context, id uint) (*domain.FoodItem, error)
	ListFoodItems(ctx context.Context, offset, limit int) ([]domain.FoodItem, error)

	AddEntry(ctx context.Context, entry *domain.DietEntry) (uint, error)
	GetEntryByID(ctx context.Context, id uint) (*domain.DietEntry, error)
	ListEntries(ctx context.Context, planID uint, offset, limit int) ([]domain.DietEntry, error)
	DeleteEntry(ctx context.Context, id uint) error
}

// ProtocolRepository defines the interface for protocol goals and progress.
type ProtocolRepository interface {
	CreateGoal(ctx context.Context, goal *domain.ProtocolGoal) (uint, error)
	GetGoalByID(ctx context.Context, id uint) (*domain.ProtocolGoal, error)
	ListGoals(ctx context.Context, owner *uint, offset, limit int) ([]domain.ProtocolGoal, error)
	UpdateGoal(ctx context.Context, goal *domain.ProtocolGoal) error
	// DeleteGoal removes the goal and cascades to its progress points.
	DeleteGoal(ctx context.Context, id uint) error

	AddProgress(ctx context.Context, progress *domain.GoalProgress) (uint, error)
	GetProgressByID(ctx context.Context, id uint) (*domain.GoalProgress, error)
	ListProgress(ctx context.Context, goalID uint, offset, limit int) ([]domain.GoalProgress, error)
	UpdateProgress(ctx context.Context, progress *domain.GoalProgress) error
	DeleteProgress(ctx context.Context, id uint) error
}

// SubscriptionRepository defines the interface for subscription rows.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *domain.Subscription) (uint, error)
	// GetActiveByUser returns the most recently created active subscription
	// (highest id wins when several rows are active). ErrNotFound when none.
	GetActiveByUser(ctx context.Context, userID uint) (*domain.Subscription, error)
	ListByUser(ctx context.Context, userID uint, offset, limit int) ([]domain.Subscription, error)
	Deactivate(ctx context.Context, id uint) error
}

// NotificationRepository defines the interface for notification rows.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) (uint, error)
	GetByID(ctx context.Context, id uint) (*domain.Notification, error)
	ListByUser(ctx context.Context, userID uint, offset, limit int) ([]domain.Notification, error)
	Update(ctx context.Context, n *domain.Notification) error
	Delete(ctx context.Context, id uint) error
}

// SettingsRepository defines the interface for per-user settings.
type SettingsRepository interface {
	GetByUser(ctx context.Context, userID uint) (*domain.UserSettings, error)
	Save(ctx context.Context, settings *domain.UserSettings) error
}

// EntityCounts aggregates high-level row counts for the reports module.
type EntityCounts struct {
	Clients       int64 `json:"clients"`
	WorkoutPlans  int64 `json:"workout_plans"`
	DietPlans     int64 `json:"diet_plans"`
	ProtocolGoals int64 `json:"protocol_goals"`
}

// DateCount is one point of an activity trend, ordered by date ascending.
type DateCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// ClientBreakdown is a per-client summary of plan counts.
type ClientBreakdown struct {
	ClientID     uint   `json:"client_id"`
	DisplayName  string `json:"display_name"`
	WorkoutPlans int64  `json:"workout_plans"`
	DietPlans    int64  `json:"diet_plans"`
}

// ReportRepository defines aggregate queries across entities. The owner
// filter follows the same convention as the List methods above.
type ReportRepository interface {
	EntityCounts(ctx context.Context, owner *uint) (*EntityCounts, error)
	WorkoutLogTrend(ctx context.Context, owner *uint, start, end time.Time) ([]DateCount, error)
	DietEntryTrend(ctx context.Context, owner *uint, start, end time.Time) ([]DateCount, error)
	ClientPlanBreakdown(ctx context.Context, owner *uint) ([]ClientBreakdown, error)
}
