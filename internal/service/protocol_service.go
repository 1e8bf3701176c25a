package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"nutrifit/backend/internal/domain"
	"nutrifit/backend/internal/repository"
	"nutrifit/backend/internal/storage"

	"github.com/google/uuid"
)

// ProtocolGoalInput carries the mutable fields of a protocol goal.
type ProtocolGoalInput struct {
	ClientID    uint
	Type        string
	Title       string
	TargetValue *float64
	Unit        string
	Notes       string
	StartDate   *time.Time
	EndDate     *time.Time
}

// GoalProgressInput carries the fields of a measurement point.
type GoalProgressInput struct {
	Date  time.Time
	Value float64
	Notes string
}

// ProgressPhotoUpload is the result of requesting a photo upload slot:
// the presigned URL the client PUTs the image to, and the stored key.
type ProgressPhotoUpload struct {
	UploadURL string
	ObjectKey string
}

// ProtocolService handles protocol goals, their progress points and
// progress photos.
type ProtocolService interface {
	CreateGoal(ctx context.Context, caller uint, roles domain.RoleSet, input ProtocolGoalInput) (*domain.ProtocolGoal, error)
	GetGoal(ctx context.Context, caller uint, roles domain.RoleSet, goalID uint) (*domain.ProtocolGoal, error)
	ListGoals(ctx context.Context, caller uint, roles domain.RoleSet, offset, limit int) ([]domain.ProtocolGoal, error)
	UpdateGoal(ctx context.Context, caller uint, roles domain.RoleSet, goalID uint, input ProtocolGoalInput) (*domain.ProtocolGoal, error)
	DeleteGoal(ctx context.Context, caller uint, roles domain.RoleSet, goalID uint) error

	AddProgress(ctx context.Context, caller uint, roles domain.RoleSet, goalID uint, input GoalProgressInput) (*domain.GoalProgress, error)
	ListProgress(ctx context.Context, caller uint, roles domain.RoleSet, goalID uint, offset, limit int) ([]domain.GoalProgress, error)
	DeleteProgress(ctx context.Context, caller uint, roles domain.RoleSet, goalID, progressID uint) error

	// RequestProgressPhotoUpload presigns a PUT slot for a photo attached to
	// a progress point, stores the object key on the point, and returns the
	// upload URL to the client.
	RequestProgressPhotoUpload(ctx context.Context, caller uint, roles domain.RoleSet, goalID, progressID uint, contentType string) (*ProgressPhotoUpload, error)
	// ProgressPhotoURL presigns a GET URL for the photo of a progress point.
	ProgressPhotoURL(ctx context.Context, caller uint, roles domain.RoleSet, goalID, progressID uint) (string, error)
}

type protocolService struct {
	protocolRepo repository.ProtocolRepository
	access       AccessService
	fileStorage  storage.FileStorage
}

// NewProtocolService creates a new instance of protocolService. fileStorage
// may be nil, in which case photo operations return ErrValidationFailed.
func NewProtocolService(protocolRepo repository.ProtocolRepository, access AccessService, fileStorage storage.FileStorage) ProtocolService {
	return &protocolService{protocolRepo: protocolRepo, access: access, fileStorage: fileStorage}
}

func (s *protocolService) CreateGoal(ctx context.Context, caller uint, roles domain.RoleSet, input ProtocolGoalInput) (*domain.ProtocolGoal, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", ErrValidationFailed)
	}
	if _, err := s.access.AuthorizeClient(ctx, caller, roles, input.ClientID); err != nil {
		return nil, err
	}

	goal := &domain.ProtocolGoal{
		ClientID:    input.ClientID,
		Type:        input.Type,
		Title:       input.Title,
		TargetValue: input.TargetValue,
		Unit:        input.Unit,
		Notes:       input.Notes,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
	}
	id, err := s.protocolRepo.CreateGoal(ctx, goal)
	if err != nil {
		return nil, err
	}
	goal.ID = id
	return goal, nil
}

func (s *protocolService) GetGoal(ctx context.Context, caller uint, roles domain.RoleSet, goalID uint) (*domain.ProtocolGoal, error) {
	return s.access.AuthorizeGoal(ctx, caller, roles, goalID)
}

func (s *protocolService) ListGoals(ctx context.Context, caller uint, roles domain.RoleSet, offset, limit int) ([]domain.ProtocolGoal, error) {
	return s.protocolRepo.ListGoals(ctx, OwnerFilter(caller, roles), offset, limit)
}

func (s *protocolService) UpdateGoal(ctx context.Context, caller uint, roles domain.RoleSet, goalID uint, input ProtocolGoalInput) (*domain.ProtocolGoal, error) {
	goal, err := s.access.AuthorizeGoal(ctx, caller, roles, goalID)
	if err != nil {
		return nil, err
	}
	if input.Title == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", ErrValidationFailed)
	}

	if input.ClientID != 0 && input.ClientID != goal.ClientID {
		// Moving a goal to another client requires access to the target too.
		if _, err := s.access.AuthorizeClient(ctx, caller, roles, input.ClientID); err != nil {
			return nil, err
		}
		goal.ClientID = input.ClientID
	}

	goal.Type = input.Type
	goal.Title = input.Title
	goal.TargetValue = input.TargetValue
	goal.Unit = input.Unit
	goal.Notes = input.Notes
	goal.StartDate = input.StartDate
	goal.EndDate = input.EndDate
	if err := s.protocolRepo.UpdateGoal(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *protocolService) DeleteGoal(ctx context.Context, caller uint, roles domain.RoleSet, goalID uint) error {
	if _, err := s.access.AuthorizeGoal(ctx, caller, roles, goalID); err != nil {
		return err
	}
	return s.protocolRepo.DeleteGoal(ctx, goalID)
}

func (s *protocolService) AddProgress(ctx context.Context, caller uint, roles domain.RoleSet, goalID uint, input GoalProgressInput) (*domain.GoalProgress, error) {
	if _, err := s.access.AuthorizeGoal(ctx, caller, roles, goalID); err != nil {
		return nil, err
	}
	if input.Date.IsZero() {
		input.Date = time.Now()
	}

	progress := &domain.GoalProgress{
		GoalID: goalID,
		Date:   input.Date,
		Value:  input.Value,
		Notes:  input.Notes,
	}
	id, err := s.protocolRepo.AddProgress(ctx, progress)
	if err != nil {
		return nil, err
	}
	progress.ID = id
	return progress, nil
}

func (s *protocolService) ListProgress(ctx context.Context, caller uint, roles domain.RoleSet, goalID uint, offset, limit int) ([]domain.GoalProgress, error) {
	if _, err := s.access.AuthorizeGoal(ctx, caller, roles, goalID); err != nil {
		return nil, err
	}
	return s.protocolRepo.ListProgress(ctx, goalID, offset, limit)
}

func (s *protocolService) DeleteProgress(ctx context.Context, caller uint, roles domain.RoleSet, goalID, progressID uint) error {
	progress, err := s.authorizeProgress(ctx, caller, roles, goalID, progressID)
	if err != nil {
		return err
	}
	if err := s.protocolRepo.DeleteProgress(ctx, progressID); err != nil {
		return err
	}
	if progress.PhotoKey != "" && s.fileStorage != nil {
		// Best effort, the row is already gone.
		if err := s.fileStorage.DeleteObject(ctx, progress.PhotoKey); err != nil {
			log.Printf("WARN: failed to delete progress photo '%s': %v", progress.PhotoKey, err)
		}
	}
	return nil
}

func (s *protocolService) RequestProgressPhotoUpload(ctx context.Context, caller uint, roles domain.RoleSet, goalID, progressID uint, contentType string) (*ProgressPhotoUpload, error) {
	if s.fileStorage == nil {
		return nil, fmt.Errorf("%w: photo storage is not configured", ErrValidationFailed)
	}
	progress, err := s.authorizeProgress(ctx, caller, roles, goalID, progressID)
	if err != nil {
		return nil, err
	}
	if contentType == "" {
		contentType = "image/jpeg"
	}

	objectKey := fmt.Sprintf("progress/%d/%s", goalID, uuid.NewString())
	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, err
	}

	old := progress.PhotoKey
	progress.PhotoKey = objectKey
	if err := s.protocolRepo.UpdateProgress(ctx, progress); err != nil {
		return nil, err
	}
	if old != "" {
		if err := s.fileStorage.DeleteObject(ctx, old); err != nil {
			log.Printf("WARN: failed to delete replaced progress photo '%s': %v", old, err)
		}
	}

	return &ProgressPhotoUpload{UploadURL: uploadURL, ObjectKey: objectKey}, nil
}

func (s *protocolService) ProgressPhotoURL(ctx context.Context, caller uint, roles domain.RoleSet, goalID, progressID uint) (string, error) {
	if s.fileStorage == nil {
		return "", fmt.Errorf("%w: photo storage is not configured", ErrValidationFailed)
	}
	progress, err := s.authorizeProgress(ctx, caller, roles, goalID, progressID)
	if err != nil {
		return "", err
	}
	if progress.PhotoKey == "" {
		return "", ErrNotFound
	}
	return s.fileStorage.GeneratePresignedDownloadURL(ctx, progress.PhotoKey, storage.DefaultPresignedURLExpiry)
}

// authorizeProgress checks goal access and that the point belongs to the goal.
func (s *protocolService) authorizeProgress(ctx context.Context, caller uint, roles domain.RoleSet, goalID, progressID uint) (*domain.GoalProgress, error) {
	if _, err := s.access.AuthorizeGoal(ctx, caller, roles, goalID); err != nil {
		return nil, err
	}
	progress, err := s.protocolRepo.GetProgressByID(ctx, progressID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if progress.GoalID != goalID {
		return nil, ErrNotFound
	}
	return progress, nil
}
