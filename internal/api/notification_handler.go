package api

import (
	"fmt"
	"net/http"
	"time"

	"nutrifit/backend/internal/domain"
	"nutrifit/backend/internal/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationService service.NotificationService
}

func NewNotificationHandler(notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// --- Request/Response Structs ---

type NotificationRequest struct {
	Title   string `json:"title" binding:"required"`
	Message string `json:"message"`
}

type NotificationResponse struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

func MapNotificationToResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

// --- Handler Methods ---

// Create godoc
// @Summary Create a notification for the caller
// @Description Stores the notification and pushes it to the caller's live websocket connections.
// @Tags Notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param notification body NotificationRequest true "Notification details"
// @Success 201 {object} NotificationResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Router /notifications [post]
func (h *NotificationHandler) Create(c *gin.Context) {
	userID, _, ok := callerFromContext(c)
	if !ok {
		return
	}
	var req NotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	n, err := h.notificationService.Create(c.Request.Context(), userID, req.Title, req.Message)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapNotificationToResponse(n))
}

// List godoc
// @Summary List the caller's notifications
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param page_size query int false "Page size (max 100)"
// @Success 200 {array} NotificationResponse
// @Router /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	userID, _, ok := callerFromContext(c)
	if !ok {
		return
	}
	p := parsePagination(c)

	notifications, err := h.notificationService.List(c.Request.Context(), userID, p.Offset(), p.PageSize)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	responses := make([]NotificationResponse, 0, len(notifications))
	for i := range notifications {
		responses = append(responses, MapNotificationToResponse(&notifications[i]))
	}
	c.JSON(http.StatusOK, responses)
}

// MarkRead godoc
// @Summary Mark a notification as read
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 200 {object} NotificationResponse
// @Failure 404 {object} gin.H "Not found"
// @Router /notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, _, ok := callerFromContext(c)
	if !ok {
		return
	}
	notificationID, ok := idParam(c, "id")
	if !ok {
		return
	}

	n, err := h.notificationService.MarkRead(c.Request.Context(), userID, notificationID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapNotificationToResponse(n))
}

// Delete godoc
// @Summary Delete a notification
// @Tags Notifications
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 204 "Deleted"
// @Failure 404 {object} gin.H "Not found"
// @Router /notifications/{id} [delete]
func (h *NotificationHandler) Delete(c *gin.Context) {
	userID, _, ok := callerFromContext(c)
	if !ok {
		return
	}
	notificationID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.notificationService.Delete(c.Request.Context(), userID, notificationID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
