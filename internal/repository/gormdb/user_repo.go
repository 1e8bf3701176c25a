package gormdb

import (
	"context"
	"errors"
	"strings"

	"nutrifit/backend/internal/domain"
	"nutrifit/backend/internal/repository"

	"gorm.io/gorm"
)

// userRepository implements repository.UserRepository on GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a GORM-backed user repository.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) (uint, error) {
	err := r.db.WithContext(ctx).Create(user).Error
	if err != nil {
		// SQLite reports unique violations as plain errors, not
		// gorm.ErrDuplicatedKey, so the message is inspected as well.
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return 0, repository.ErrDuplicate
		}
		return 0, err
	}
	return user.ID, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Preload("Roles").Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Preload("Roles").First(&user, id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (r *userRepository) EnsureRole(ctx context.Context, name, description string) (*domain.RoleRecord, error) {
	var role domain.RoleRecord
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		Attrs(domain.RoleRecord{Name: name, Description: description}).
		FirstOrCreate(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *userRepository) AssignRole(ctx context.Context, userID uint, roleName string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var role domain.RoleRecord
		if err := tx.Where("name = ?", roleName).First(&role).Error; err != nil {
			return translateError(err)
		}
		var user domain.User
		if err := tx.First(&user, userID).Error; err != nil {
			return translateError(err)
		}
		return tx.Model(&user).Association("Roles").Append(&role)
	})
}
