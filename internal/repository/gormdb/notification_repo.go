package gormdb

import (
	"context"

	"nutrifit/backend/internal/domain"
	"nutrifit/backend/internal/repository"

	"gorm.io/gorm"
)

// notificationRepository implements repository.NotificationRepository on GORM.
type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a GORM-backed notification repository.
func NewNotificationRepository(db *gorm.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) (uint, error) {
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return 0, err
	}
	return n.ID, nil
}

func (r *notificationRepository) GetByID(ctx context.Context, id uint) (*domain.Notification, error) {
	var n domain.Notification
	if err := r.db.WithContext(ctx).First(&n, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &n, nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]domain.Notification, error) {
	var items []domain.Notification
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("id DESC").Offset(offset).Limit(limit).Find(&items).Error
	return items, err
}

func (r *notificationRepository) Update(ctx context.Context, n *domain.Notification) error {
	res := r.db.WithContext(ctx).Model(&domain.Notification{}).
		Where("id = ?", n.ID).Update("is_read", n.IsRead)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *notificationRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Notification{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
