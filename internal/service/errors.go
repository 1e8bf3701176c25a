package service

import (
	"errors"
	"fmt"
)

// --- Error Definitions ---
var (
	// ErrUnauthenticated covers missing, invalid or expired credentials and
	// tokens whose subject no longer resolves to an active user.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrNotFound means the addressed resource does not exist.
	ErrNotFound = errors.New("resource not found")
	// ErrForbidden means the resource exists but the caller has no rights
	// over it.
	ErrForbidden = errors.New("not authorized to access this resource")
	// ErrUserAlreadyExists is returned for duplicate registration emails.
	ErrUserAlreadyExists = errors.New("user with this email already exists")
	// ErrAuthenticationFailed covers bad login credentials.
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	// ErrValidationFailed covers malformed input caught at the service layer.
	ErrValidationFailed = errors.New("validation failed")
	// ErrFoodItemExists is returned for duplicate food item names.
	ErrFoodItemExists = errors.New("food item with this name already exists")
	// ErrHashingFailed and ErrTokenGeneration cover internal auth failures.
	ErrHashingFailed   = errors.New("failed to hash password")
	ErrTokenGeneration = errors.New("failed to generate authentication token")
)

// LimitError reports a breached subscription quota. It carries the plan tier
// name and the numeric maximum so callers can render an upgrade prompt.
type LimitError struct {
	Resource string // e.g. "clients", "workout plans"
	Plan     string
	Max      int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("%s limit reached for plan %q (max %d)", e.Resource, e.Plan, e.Max)
}
