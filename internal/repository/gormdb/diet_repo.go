package gormdb

import (
	"context"
	"errors"
	"strings"

	"nutrifit/backend/internal/domain"
	"nutrifit/backend/internal/repository"

	"gorm.io/gorm"
)

// dietRepository implements repository.DietRepository on GORM.
type dietRepository struct {
	db *gorm.DB
}

// NewDietRepository creates a GORM-backed diet repository.
func NewDietRepository(db *gorm.DB) repository.DietRepository {
	return &dietRepository{db: db}
}

func (r *dietRepository) CreatePlan(ctx context.Context, plan *domain.DietPlan) (uint, error) {
	if err := r.db.WithContext(ctx).Create(plan).Error; err != nil {
		return 0, err
	}
	return plan.ID, nil
}

func (r *dietRepository) GetPlanByID(ctx context.Context, id uint) (*domain.DietPlan, error) {
	var plan domain.DietPlan
	if err := r.db.WithContext(ctx).First(&plan, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &plan, nil
}

func (r *dietRepository) ListPlans(ctx context.Context, owner *uint, offset, limit int) ([]domain.DietPlan, error) {
	q := r.db.WithContext(ctx).Model(&domain.DietPlan{})
	if owner != nil {
		q = q.Joins("JOIN clients ON clients.id = diet_plans.client_id").
			Where("clients.user_id = ?", *owner)
	}
	var plans []domain.DietPlan
	err := q.Order("diet_plans.id DESC").Offset(offset).Limit(limit).Find(&plans).Error
	return plans, err
}

func (r *dietRepository) CountPlansByClient(ctx context.Context, clientID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.DietPlan{}).
		Where("client_id = ?", clientID).Count(&count).Error
	return count, err
}

func (r *dietRepository) UpdatePlan(ctx context.Context, plan *domain.DietPlan) error {
	res := r.db.WithContext(ctx).Model(&domain.DietPlan{ID: plan.ID}).
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

func (r *dietRepository) DeletePlan(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("plan_id = ?", id).Delete(&domain.DietEntry{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.DietPlan{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}

func (r *dietRepository) CreateFoodItem(ctx context.Context, item *domain.FoodItem) (uint, error) {
	err := r.db.WithContext(ctx).Create(item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return 0, repository.ErrDuplicate
		}
		return 0, err
	}
	return item.ID, nil
}

func (r *dietRepository) GetFoodItemByID(ctx context.Context, id uint) (*domain.FoodItem, error) {
	var item domain.FoodItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &item, nil
}

func (r *dietRepository) ListFoodItems(ctx context.Context, offset, limit int) ([]domain.FoodItem, error) {
	var items []domain.FoodItem
	err := r.db.WithContext(ctx).Order("id DESC").Offset(offset).Limit(limit).Find(&items).Error
	return items, err
}

func (r *dietRepository) AddEntry(ctx context.Context, entry *domain.DietEntry) (uint, error) {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return 0, err
	}
	return entry.ID, nil
}

func (r *dietRepository) GetEntryByID(ctx context.Context, id uint) (*domain.DietEntry, error) {
	var entry domain.DietEntry
	if err := r.db.WithContext(ctx).First(&entry, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &entry, nil
}

func (r *dietRepository) ListEntries(ctx context.Context, planID uint, offset, limit int) ([]domain.DietEntry, error) {
	var entries []domain.DietEntry
	err := r.db.WithContext(ctx).Where("plan_id = ?", planID).
		Order("id DESC").Offset(offset).Limit(limit).Find(&entries).Error
	return entries, err
}

func (r *dietRepository) DeleteEntry(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.DietEntry{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
