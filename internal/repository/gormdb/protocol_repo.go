package gormdb

import (
	"context"

	"nutrifit/backend/internal/domain"
	"nutrifit/backend/internal/repository"

	"gorm.io/gorm"
)

// protocolRepository implements repository.ProtocolRepository on GORM.
type protocolRepository struct {
	db *gorm.DB
}

// NewProtocolRepository creates a GORM-backed protocol repository.
func NewProtocolRepository(db *gorm.DB) repository.ProtocolRepository {
	return &protocolRepository{db: db}
}

func (r *protocolRepository) CreateGoal(ctx context.Context, goal *domain.ProtocolGoal) (uint, error) {
	if err := r.db.WithContext(ctx).Create(goal).Error; err != nil {
		return 0, err
	}
	return goal.ID, nil
}

func (r *protocolRepository) GetGoalByID(ctx context.Context, id uint) (*domain.ProtocolGoal, error) {
	var goal domain.ProtocolGoal
	if err := r.db.WithContext(ctx).First(&goal, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &goal, nil
}

func (r *protocolRepository) ListGoals(ctx context.Context, owner *uint, offset, limit int) ([]domain.ProtocolGoal, error) {
	q := r.db.WithContext(ctx).Model(&domain.ProtocolGoal{})
	if owner != nil {
		q = q.Joins("JOIN clients ON clients.id = protocol_goals.client_id").
			Where("clients.user_id = ?", *owner)
	}
	var goals []domain.ProtocolGoal
	err := q.Order("protocol_goals.id DESC").Offset(offset).Limit(limit).Find(&goals).Error
	return goals, err
}

func (r *protocolRepository) UpdateGoal(ctx context.Context, goal *domain.ProtocolGoal) error {
	res := r.db.WithContext(ctx).Model(&domain.ProtocolGoal{ID: goal.ID}).
		Select("ClientID", "Type", "Title", "TargetValue", "Unit", "Notes", "StartDate", "EndDate").
		Updates(goal)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *protocolRepository) DeleteGoal(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("goal_id = ?", id).Delete(&domain.GoalProgress{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.ProtocolGoal{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}

func (r *protocolRepository) AddProgress(ctx context.Context, progress *domain.GoalProgress) (uint, error) {
	if err := r.db.WithContext(ctx).Create(progress).Error; err != nil {
		return 0, err
	}
	return progress.ID, nil
}

func (r *protocolRepository) GetProgressByID(ctx context.Context, id uint) (*domain.GoalProgress, error) {
	var progress domain.GoalProgress
	if err := r.db.WithContext(ctx).First(&progress, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &progress, nil
}

func (r *protocolRepository) ListProgress(ctx context.Context, goalID uint, offset, limit int) ([]domain.GoalProgress, error) {
	var points []domain.GoalProgress
	err := r.db.WithContext(ctx).Where("goal_id = ?", goalID).
		Order("id DESC").Offset(offset).Limit(limit).Find(&points).Error
	return points, err
}

func (r *protocolRepository) UpdateProgress(ctx context.Context, progress *domain.GoalProgress) error {
	res := r.db.WithContext(ctx).Model(&domain.GoalProgress{ID: progress.ID}).
		Select("Date", "Value", "Notes", "PhotoKey").
		Updates(progress)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *protocolRepository) DeleteProgress(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.GoalProgress{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
