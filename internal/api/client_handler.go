package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"nutrifit/backend/internal/domain"
	"nutrifit/backend/internal/service"

	"github.com/gin-gonic/gin"
)

type ClientHandler struct {
	clientService service.ClientService
}

func NewClientHandler(clientService service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// --- Request/Response Structs ---

type ClientRequest struct {
	UserID      *uint      `json:"user_id"`
	DisplayName string     `json:"display_name" binding:"required"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Notes       string     `json:"notes"`
}

type ClientResponse struct {
	ID          uint       `json:"id"`
	UserID      *uint      `json:"user_id,omitempty"`
	DisplayName string     `json:"display_name"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func MapClientToResponse(client *domain.Client) ClientResponse {
	return ClientResponse{
		ID:          client.ID,
		UserID:      client.UserID,
		DisplayName: client.DisplayName,
		DateOfBirth: client.DateOfBirth,
		Notes:       client.Notes,
		CreatedAt:   client.CreatedAt,
	}
}

func MapClientsToResponse(clients []domain.Client) []ClientResponse {
	responses := make([]ClientResponse, 0, len(clients))
	for i := range clients {
		responses = append(responses, MapClientToResponse(&clients[i]))
	}
	return responses
}

func (r ClientRequest) toInput() service.ClientInput {
	return service.ClientInput{
		UserID:      r.UserID,
		DisplayName: r.DisplayName,
		DateOfBirth: r.DateOfBirth,
		Notes:       r.Notes,
	}
}

// idParam parses a numeric path parameter.
func idParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid %s.", name))
		return 0, false
	}
	return uint(id), true
}

// --- Handler Methods ---

// Create godoc
// @Summary Create a client
// @Description Creates a client record owned by the caller, or by another user for privileged roles.
// @Tags Clients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param client body ClientRequest true "Client details"
// @Success 201 {object} ClientResponse "Client created"
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 402 {object} gin.H "Plan limit reached"
// @Failure 403 {object} gin.H "Forbidden"
// @Router /clients [post]
func (h *ClientHandler) Create(c *gin.Context) {
	userID, roles, ok := callerFromContext(c)
	if !ok {
		return
	}
	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	client, err := h.clientService.Create(c.Request.Context(), userID, roles, req.toInput())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapClientToResponse(client))
}

// List godoc
// @Summary List visible clients
// @Description Lists the caller's clients, or all clients for privileged roles. Newest first.
// @Tags Clients
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param page_size query int false "Page size (max 100)"
// @Success 200 {array} ClientResponse "List of clients"
// @Router /clients [get]
func (h *ClientHandler) List(c *gin.Context) {
	userID, roles, ok := callerFromContext(c)
	if !ok {
		return
	}
	p := parsePagination(c)

	clients, err := h.clientService.List(c.Request.Context(), userID, roles, p.Offset(), p.PageSize)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapClientsToResponse(clients))
}

// Get godoc
// @Summary Get a client
// @Tags Clients
// @Produce json
// @Security BearerAuth
// @Param id path int true "Client ID"
// @Success 200 {object} ClientResponse
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Not found"
// @Router /clients/{id} [get]
func (h *ClientHandler) Get(c *gin.Context) {
	userID, roles, ok := callerFromContext(c)
	if !ok {
		return
	}
	clientID, ok := idParam(c, "id")
	if !ok {
		return
	}

	client, err := h.clientService.Get(c.Request.Context(), userID, roles, clientID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapClientToResponse(client))
}

// Update godoc
// @Summary Update a client
// @Tags Clients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Client ID"
// @Param client body ClientRequest true "Client details"
// @Success 200 {object} ClientResponse
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Not found"
// @Router /clients/{id} [put]
func (h *ClientHandler) Update(c *gin.Context) {
	userID, roles, ok := callerFromContext(c)
	if !ok {
		return
	}
	clientID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	client, err := h.clientService.Update(c.Request.Context(), userID, roles, clientID, req.toInput())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapClientToResponse(client))
}

// Delete godoc
// @Summary Delete a client
// @Description Removes the client and all their plans, goals and logs.
// @Tags Clients
// @Security BearerAuth
// @Param id path int true "Client ID"
// @Success 204 "Deleted"
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Not found"
// @Router /clients/{id} [delete]
func (h *ClientHandler) Delete(c *gin.Context) {
	userID, roles, ok := callerFromContext(c)
	if !ok {
		return
	}
	clientID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.clientService.Delete(c.Request.Context(), userID, roles, clientID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
