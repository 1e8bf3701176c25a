package gormdb

import (
	"context"

	"nutrifit/backend/internal/domain"
	"nutrifit/backend/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// settingsRepository implements repository.SettingsRepository on GORM.
type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a GORM-backed settings repository.
func NewSettingsRepository(db *gorm.DB) repository.SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) GetByUser(ctx context.Context, userID uint) (*domain.UserSettings, error) {
	var settings domain.UserSettings
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&settings).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &settings, nil
}

// Save upserts on the user id so concurrent first reads cannot race into
// duplicate rows.
func (r *settingsRepository) Save(ctx context.Context, settings *domain.UserSettings) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"theme", "notifications_enabled", "locale"}),
	}).Create(settings).Error
}
