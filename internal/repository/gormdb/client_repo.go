package gormdb

import (
	"context"

	"nutrifit/backend/internal/domain"
	"nutrifit/backend/internal/repository"

	"gorm.io/gorm"
)

// clientRepository implements repository.ClientRepository on GORM.
type clientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a GORM-backed client repository.
func NewClientRepository(db *gorm.DB) repository.ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) (uint, error) {
	if err := r.db.WithContext(ctx).Create(client).Error; err != nil {
		return 0, err
	}
	return client.ID, nil
}

func (r *clientRepository) GetByID(ctx context.Context, id uint) (*domain.Client, error) {
	var client domain.Client
	if err := r.db.WithContext(ctx).First(&client, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &client, nil
}

func (r *clientRepository) List(ctx context.Context, owner *uint, offset, limit int) ([]domain.Client, error) {
	q := r.db.WithContext(ctx).Model(&domain.Client{})
	if owner != nil {
		q = q.Where("user_id = ?", *owner)
	}
	var clients []domain.Client
	err := q.Order("id DESC").Offset(offset).Limit(limit).Find(&clients).Error
	return clients, err
}

func (r *clientRepository) CountByOwner(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Client{}).
		Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *clientRepository) Update(ctx context.Context, client *domain.Client) error {
	res := r.db.WithContext(ctx).Model(&domain.Client{ID: client.ID}).
		Select("UserID", "DisplayName", "DateOfBirth", "Notes").
		Updates(client)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes the client together with everything reachable from it:
// workout plans (and their exercises), diet plans (and their entries),
// protocol goals (and their progress) and workout logs. One transaction.
func (r *clientRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var planIDs []uint
		if err := tx.Model(&domain.WorkoutPlan{}).Where("client_id = ?", id).Pluck("id", &planIDs).Error; err != nil {
			return err
		}
		if len(planIDs) > 0 {
			if err := tx.Where("plan_id IN ?", planIDs).Delete(&domain.WorkoutExercise{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("client_id = ?", id).Delete(&domain.WorkoutPlan{}).Error; err != nil {
			return err
		}

		var dietIDs []uint
		if err := tx.Model(&domain.DietPlan{}).Where("client_id = ?", id).Pluck("id", &dietIDs).Error; err != nil {
			return err
		}
		if len(dietIDs) > 0 {
			if err := tx.Where("plan_id IN ?", dietIDs).Delete(&domain.DietEntry{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("client_id = ?", id).Delete(&domain.DietPlan{}).Error; err != nil {
			return err
		}

		var goalIDs []uint
		if err := tx.Model(&domain.ProtocolGoal{}).Where("client_id = ?", id).Pluck("id", &goalIDs).Error; err != nil {
			return err
		}
		if len(goalIDs) > 0 {
			if err := tx.Where("goal_id IN ?", goalIDs).Delete(&domain.GoalProgress{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("client_id = ?", id).Delete(&domain.ProtocolGoal{}).Error; err != nil {
			return err
		}

		if err := tx.Where("client_id = ?", id).Delete(&domain.WorkoutLog{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&domain.Client{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}
