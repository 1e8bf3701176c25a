package service

import (
	"context"
	"errors"
	"fmt"

	"nutrifit/backend/internal/domain"
	"nutrifit/backend/internal/repository"
)

// SettingsInput carries the mutable fields of user settings.
type SettingsInput struct {
	Theme                string
	NotificationsEnabled bool
	Locale               string
}

// SettingsService handles per-user preferences.
type SettingsService interface {
	// Get returns the user's settings, creating the defaults on first access.
	Get(ctx context.Context, userID uint) (*domain.UserSettings, error)
	Update(ctx context.Context, userID uint, input SettingsInput) (*domain.UserSettings, error)
}

type settingsService struct {
	settingsRepo repository.SettingsRepository
}

// NewSettingsService creates a new instance of settingsService.
func NewSettingsService(settingsRepo repository.SettingsRepository) SettingsService {
	return &settingsService{settingsRepo: settingsRepo}
}

func (s *settingsService) Get(ctx context.Context, userID uint) (*domain.UserSettings, error) {
	settings, err := s.settingsRepo.GetByUser(ctx, userID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	defaults := domain.DefaultSettings(userID)
	settings = &defaults
	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *settingsService) Update(ctx context.Context, userID uint, input SettingsInput) (*domain.UserSettings, error) {
	switch input.Theme {
	case "light", "dark", "system":
	default:
		return nil, fmt.Errorf("%w: unknown theme %q", ErrValidationFailed, input.Theme)
	}

	settings, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	settings.Theme = input.Theme
	settings.NotificationsEnabled = input.NotificationsEnabled
	settings.Locale = input.Locale
	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
