package gormdb

import (
	"context"

	"nutrifit/backend/internal/domain"
	"nutrifit/backend/internal/repository"

	"gorm.io/gorm"
)

// workoutRepository implements repository.WorkoutRepository on GORM.
type workoutRepository struct {
	db *gorm.DB
}

// NewWorkoutRepository creates a GORM-backed workout repository.
func NewWorkoutRepository(db *gorm.DB) repository.WorkoutRepository {
	return &workoutRepository{db: db}
}

func (r *workoutRepository) CreatePlan(ctx context.Context, plan *domain.WorkoutPlan) (uint, error) {
	if err := r.db.WithContext(ctx).Create(plan).Error; err != nil {
		return 0, err
	}
	return plan.ID, nil
}

func (r *workoutRepository) GetPlanByID(ctx context.Context, id uint) (*domain.WorkoutPlan, error) {
	var plan domain.WorkoutPlan
	if err := r.db.WithContext(ctx).First(&plan, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &plan, nil
}

func (r *workoutRepository) ListPlans(ctx context.Context, owner *uint, offset, limit int) ([]domain.WorkoutPlan, error) {
	q := r.db.WithContext(ctx).Model(&domain.WorkoutPlan{})
	if owner != nil {
		q = q.Joins("JOIN clients ON clients.id = workout_plans.client_id").
			Where("clients.user_id = ?", *owner)
	}
	var plans []domain.WorkoutPlan
	err := q.Order("workout_plans.id DESC").Offset(offset).Limit(limit).Find(&plans).Error
	return plans, err
}

func (r *workoutRepository) CountPlansByClient(ctx context.Context, clientID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.WorkoutPlan{}).
		Where("client_id = ?", clientID).Count(&count).Error
	return count, err
}

func (r *workoutRepository) UpdatePlan(ctx context.Context, plan *domain.WorkoutPlan) error {
	res := r.db.WithContext(ctx).Model(&domain.WorkoutPlan{ID: plan.ID}).
		Select("ClientID", "Title", "Description", "StartDate", "EndDate").
		Updates(plan)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *workoutRepository) DeletePlan(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("plan_id = ?", id).Delete(&domain.WorkoutExercise{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.WorkoutPlan{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}

func (r *workoutRepository) AddExercise(ctx context.Context, exercise *domain.WorkoutExercise) (uint, error) {
	if err := r.db.WithContext(ctx).Create(exercise).Error; err != nil {
		return 0, err
	}
	return exercise.ID, nil
}

func (r *workoutRepository) GetExerciseByID(ctx context.Context, id uint) (*domain.WorkoutExercise, error) {
	var exercise domain.WorkoutExercise
	if err := r.db.WithContext(ctx).First(&exercise, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &exercise, nil
}

func (r *workoutRepository) ListExercises(ctx context.Context, planID uint) ([]domain.WorkoutExercise, error) {
	var exercises []domain.WorkoutExercise
	err := r.db.WithContext(ctx).Where("plan_id = ?", planID).Order("id").Find(&exercises).Error
	return exercises, err
}

func (r *workoutRepository) DeleteExercise(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.WorkoutExercise{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *workoutRepository) CreateLog(ctx context.Context, log *domain.WorkoutLog) (uint, error) {
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return 0, err
	}
	return log.ID, nil
}

func (r *workoutRepository) ListLogsByClient(ctx context.Context, clientID uint, offset, limit int) ([]domain.WorkoutLog, error) {
	var logs []domain.WorkoutLog
	err := r.db.WithContext(ctx).Where("client_id = ?", clientID).
		Order("id DESC").Offset(offset).Limit(limit).Find(&logs).Error
	return logs, err
}
