package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nutrifit/backend/internal/domain"
	"nutrifit/backend/internal/repository"

	"github.com/google/uuid"
)

// CheckoutSession is what a payment provider hands back when a checkout
// is initiated. The client completes payment at URL.
type CheckoutSession struct {
	ID  string
	URL string
}

// PaymentProvider abstracts the external billing backend.
type PaymentProvider interface {
	CreateCheckoutSession(ctx context.Context, userID uint, plan string, price float64, currency string) (*CheckoutSession, error)
}

// stubPaymentProvider fakes a billing backend for development and tests.
type stubPaymentProvider struct{}

// NewStubPaymentProvider returns a provider that always succeeds.
func NewStubPaymentProvider() PaymentProvider {
	return stubPaymentProvider{}
}

func (stubPaymentProvider) CreateCheckoutSession(ctx context.Context, userID uint, plan string, price float64, currency string) (*CheckoutSession, error) {
	id := uuid.NewString()
	return &CheckoutSession{
		ID:  id,
		URL: fmt.Sprintf("https://pay.example.com/checkout/%s?plan=%s", id, plan),
	}, nil
}

// SubscriptionService handles plan subscriptions and billing.
type SubscriptionService interface {
	// Checkout initiates payment for a plan without changing state yet.
	Checkout(ctx context.Context, userID uint, plan string, price float64, currency string) (*CheckoutSession, error)
	// Activate records a paid subscription as the user's current plan.
	Activate(ctx context.Context, userID uint, plan string, price float64, currency string) (*domain.Subscription, error)
	// Current returns the active subscription, ErrNotFound when the user
	// is on the implicit free tier.
	Current(ctx context.Context, userID uint) (*domain.Subscription, error)
	List(ctx context.Context, userID uint, offset, limit int) ([]domain.Subscription, error)
	// Cancel deactivates the current subscription, dropping the user back
	// to the free tier.
	Cancel(ctx context.Context, userID uint) error
}

type subscriptionService struct {
	subRepo  repository.SubscriptionRepository
	provider PaymentProvider
}

// NewSubscriptionService creates a new instance of subscriptionService.
func NewSubscriptionService(subRepo repository.SubscriptionRepository, provider PaymentProvider) SubscriptionService {
	return &subscriptionService{subRepo: subRepo, provider: provider}
}

func (s *subscriptionService) Checkout(ctx context.Context, userID uint, plan string, price float64, currency string) (*CheckoutSession, error) {
	if plan == "" {
		return nil, fmt.Errorf("%w: plan cannot be empty", ErrValidationFailed)
	}
	return s.provider.CreateCheckoutSession(ctx, userID, plan, price, currency)
}

func (s *subscriptionService) Activate(ctx context.Context, userID uint, plan string, price float64, currency string) (*domain.Subscription, error) {
	if plan == "" {
		return nil, fmt.Errorf("%w: plan cannot be empty", ErrValidationFailed)
	}
	if currency == "" {
		currency = "USD"
	}

	sub := &domain.Subscription{
		UserID:    userID,
		Plan:      plan,
		Price:     price,
		Currency:  currency,
		StartDate: time.Now(),
		IsActive:  true,
	}
	id, err := s.subRepo.Create(ctx, sub)
	if err != nil {
		return nil, err
	}
	sub.ID = id
	return sub, nil
}

func (s *subscriptionService) Current(ctx context.Context, userID uint) (*domain.Subscription, error) {
	sub, err := s.subRepo.GetActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sub, nil
}

func (s *subscriptionService) List(ctx context.Context, userID uint, offset, limit int) ([]domain.Subscription, error) {
	return s.subRepo.ListByUser(ctx, userID, offset, limit)
}

func (s *subscriptionService) Cancel(ctx context.Context, userID uint) error {
	sub, err := s.subRepo.GetActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.subRepo.Deactivate(ctx, sub.ID)
}
