package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nutrifit/backend/internal/domain"
	"nutrifit/backend/internal/repository"
)

// Pusher delivers a notification to a user's live connections. Delivery is
// best effort: a user with no open connections simply receives nothing.
type Pusher interface {
	Push(userID uint, notification *domain.Notification)
}

// NotificationService handles per-user notifications.
type NotificationService interface {
	Create(ctx context.Context, userID uint, title, message string) (*domain.Notification, error)
	List(ctx context.Context, userID uint, offset, limit int) ([]domain.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID uint) (*domain.Notification, error)
	Delete(ctx context.Context, userID, notificationID uint) error
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
	pusher           Pusher
}

// NewNotificationService creates a new instance of notificationService.
// pusher may be nil when live delivery is not wired up.
func NewNotificationService(notificationRepo repository.NotificationRepository, pusher Pusher) NotificationService {
	return &notificationService{notificationRepo: notificationRepo, pusher: pusher}
}

func (s *notificationService) Create(ctx context.Context, userID uint, title, message string) (*domain.Notification, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", ErrValidationFailed)
	}

	n := &domain.Notification{
		UserID:    userID,
		Title:     title,
		Message:   message,
		CreatedAt: time.Now(),
	}
	id, err := s.notificationRepo.Create(ctx, n)
	if err != nil {
		return nil, err
	}
	n.ID = id

	if s.pusher != nil {
		s.pusher.Push(userID, n)
	}
	return n, nil
}

func (s *notificationService) List(ctx context.Context, userID uint, offset, limit int) ([]domain.Notification, error) {
	return s.notificationRepo.ListByUser(ctx, userID, offset, limit)
}

func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID uint) (*domain.Notification, error) {
	n, err := s.authorize(ctx, userID, notificationID)
	if err != nil {
		return nil, err
	}
	n.IsRead = true
	if err := s.notificationRepo.Update(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *notificationService) Delete(ctx context.Context, userID, notificationID uint) error {
	if _, err := s.authorize(ctx, userID, notificationID); err != nil {
		return err
	}
	return s.notificationRepo.Delete(ctx, notificationID)
}

// authorize fetches the notification and checks it belongs to the caller.
// Foreign notifications read as not found, their existence is not revealed.
func (s *notificationService) authorize(ctx context.Context, userID, notificationID uint) (*domain.Notification, error) {
	n, err := s.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if n.UserID != userID {
		return nil, ErrNotFound
	}
	return n, nil
}
