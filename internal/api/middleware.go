package api

import (
	"errors"
	"net/http"
	"strings"

	"nutrifit/backend/internal/domain"
	"nutrifit/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// Constants for context keys
const (
	ContextUserIDKey    = "userID"
	ContextUserRolesKey = "userRoles"
)

// AuthMiddleware creates a Gin middleware that authenticates the bearer
// token. Resolution goes through the auth service so revoked or deactivated
// accounts are rejected even while their token is still within its lifetime.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header is missing")
			return
		}

		// Expecting "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}

		user, roles, err := authService.Resolve(c.Request.Context(), parts[1])
		if err != nil {
			if errors.Is(err, service.ErrUnauthenticated) {
				abortWithError(c, http.StatusUnauthorized, "Invalid or expired token")
			} else {
				abortWithError(c, http.StatusInternalServerError, "Failed to authenticate request")
			}
			return
		}

		c.Set(ContextUserIDKey, user.ID)
		c.Set(ContextUserRolesKey, roles)
		c.Next()
	}
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// Helper function to get the user ID from context (used by handlers)
func getUserIDFromContext(c *gin.Context) (uint, error) {
	idRaw, exists := c.Get(ContextUserIDKey)
	if !exists {
		return 0, errors.New("user ID not found in context")
	}
	id, ok := idRaw.(uint)
	if !ok {
		return 0, errors.New("invalid user ID type in context")
	}
	return id, nil
}

// Helper function to get the caller's roles from context (used by handlers)
func getRolesFromContext(c *gin.Context) (domain.RoleSet, error) {
	rolesRaw, exists := c.Get(ContextUserRolesKey)
	if !exists {
		return nil, errors.New("user roles not found in context")
	}
	roles, ok := rolesRaw.(domain.RoleSet)
	if !ok {
		return nil, errors.New("invalid user roles type in context")
	}
	return roles, nil
}

// callerFromContext bundles the two context lookups handlers always do
// together. Aborts with 401 when the middleware did not run.
func callerFromContext(c *gin.Context) (uint, domain.RoleSet, bool) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user.")
		return 0, nil, false
	}
	roles, err := getRolesFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user.")
		return 0, nil, false
	}
	return userID, roles, true
}

// handleServiceError maps service layer errors onto HTTP status codes.
func handleServiceError(c *gin.Context, err error) {
	var limitErr *service.LimitError
	switch {
	case errors.Is(err, service.ErrNotFound):
		abortWithError(c, http.StatusNotFound, "Resource not found.")
	case errors.Is(err, service.ErrForbidden):
		abortWithError(c, http.StatusForbidden, "You do not have access to this resource.")
	case errors.Is(err, service.ErrValidationFailed):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.As(err, &limitErr):
		abortWithError(c, http.StatusPaymentRequired, limitErr.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred.")
	}
}
