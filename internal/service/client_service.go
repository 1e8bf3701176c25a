package service

import (
	"context"
	"fmt"
	"time"

	"nutrifit/backend/internal/domain"
	"nutrifit/backend/internal/repository"
)

// ClientInput carries the mutable fields of a client record.
type ClientInput struct {
	UserID      *uint
	DisplayName string
	DateOfBirth *time.Time
	Notes       string
}

// ClientService handles the client lifecycle.
type ClientService interface {
	Create(ctx context.Context, caller uint, roles domain.RoleSet, input ClientInput) (*domain.Client, error)
	Get(ctx context.Context, caller uint, roles domain.RoleSet, clientID uint) (*domain.Client, error)
	List(ctx context.Context, caller uint, roles domain.RoleSet, offset, limit int) ([]domain.Client, error)
	Update(ctx context.Context, caller uint, roles domain.RoleSet, clientID uint, input ClientInput) (*domain.Client, error)
	Delete(ctx context.Context, caller uint, roles domain.RoleSet, clientID uint) error
}

type clientService struct {
	clientRepo repository.ClientRepository
	access     AccessService
	quota      QuotaService
}

// NewClientService creates a new instance of clientService.
func NewClientService(clientRepo repository.ClientRepository, access AccessService, quota QuotaService) ClientService {
	return &clientService{clientRepo: clientRepo, access: access, quota: quota}
}

func (s *clientService) Create(ctx context.Context, caller uint, roles domain.RoleSet, input ClientInput) (*domain.Client, error) {
	if input.DisplayName == "" {
		return nil, fmt.Errorf("%w: display name cannot be empty", ErrValidationFailed)
	}

	owner := input.UserID
	if owner == nil {
		// Self-service creation: the new client belongs to the caller.
		owner = &caller
	} else if *owner != caller && !roles.BypassesOwnership() {
		return nil, ErrForbidden
	}

	if err := s.quota.EnsureCanCreateClient(ctx, caller); err != nil {
		return nil, err
	}

	client := &domain.Client{
		UserID:      owner,
		DisplayName: input.DisplayName,
		DateOfBirth: input.DateOfBirth,
		Notes:       input.Notes,
	}
	id, err := s.clientRepo.Create(ctx, client)
	if err != nil {
		return nil, err
	}
	client.ID = id
	return client, nil
}

func (s *clientService) Get(ctx context.Context, caller uint, roles domain.RoleSet, clientID uint) (*domain.Client, error) {
	return s.access.AuthorizeClient(ctx, caller, roles, clientID)
}

func (s *clientService) List(ctx context.Context, caller uint, roles domain.RoleSet, offset, limit int) ([]domain.Client, error) {
	return s.clientRepo.List(ctx, OwnerFilter(caller, roles), offset, limit)
}

func (s *clientService) Update(ctx context.Context, caller uint, roles domain.RoleSet, clientID uint, input ClientInput) (*domain.Client, error) {
	client, err := s.access.AuthorizeClient(ctx, caller, roles, clientID)
	if err != nil {
		return nil, err
	}
	if input.DisplayName == "" {
		return nil, fmt.Errorf("%w: display name cannot be empty", ErrValidationFailed)
	}

	owner := client.UserID
	if input.UserID != nil {
		// Relinking a client to a different user is a privileged operation.
		if (owner == nil || *input.UserID != *owner) && !roles.BypassesOwnership() {
			return nil, ErrForbidden
		}
		owner = input.UserID
	}

	client.UserID = owner
	client.DisplayName = input.DisplayName
	client.DateOfBirth = input.DateOfBirth
	client.Notes = input.Notes
	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *clientService) Delete(ctx context.Context, caller uint, roles domain.RoleSet, clientID uint) error {
	if _, err := s.access.AuthorizeClient(ctx, caller, roles, clientID); err != nil {
		return err
	}
	return s.clientRepo.Delete(ctx, clientID)
}
