package api

import (
	"fmt"
	"net/http"
	"time"

	"nutrifit/backend/internal/domain"
	"nutrifit/backend/internal/service"

	"github.com/gin-gonic/gin"
)

type ProtocolHandler struct {
	protocolService service.ProtocolService
}

func NewProtocolHandler(protocolService service.ProtocolService) *ProtocolHandler {
	return &ProtocolHandler{protocolService: protocolService}
}

// --- Request/Response Structs ---

type ProtocolGoalRequest struct {
	ClientID    uint       `json:"client_id" binding:"required"`
	Type        string     `json:"type"`
	Title       string     `json:"title" binding:"required"`
	TargetValue *float64   `json:"target_value"`
	Unit        string     `json:"unit"`
	Notes       string     `json:"notes"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

type ProtocolGoalResponse struct {
	ID          uint       `json:"id"`
	ClientID    uint       `json:"client_id"`
	Type        string     `json:"type,omitempty"`
	Title       string     `json:"title"`
	TargetValue *float64   `json:"target_value,omitempty"`
	Unit        string     `json:"unit,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type GoalProgressRequest struct {
	Date  *time.Time `json:"date"`
	Value float64    `json:"value"`
	Notes string     `json:"notes"`
}

type GoalProgressResponse struct {
	ID       uint      `json:"id"`
	GoalID   uint      `json:"goal_id"`
	Date     time.Time `json:"date"`
	Value    float64   `json:"value"`
	Notes    string    `json:"notes,omitempty"`
	HasPhoto bool      `json:"has_photo"`
}

type ProgressPhotoRequest struct {
	ContentType string `json:"content_type"`
}

type ProgressPhotoUploadResponse struct {
	UploadURL string `json:"upload_url"`
	ObjectKey string `json:"object_key"`
}

func MapProtocolGoalToResponse(goal *domain.ProtocolGoal) ProtocolGoalResponse {
	return ProtocolGoalResponse{
		ID:          goal.ID,
		ClientID:    goal.ClientID,
		Type:        goal.Type,
		Title:       goal.Title,
		TargetValue: goal.TargetValue,
		Unit:        goal.Unit,
		Notes:       goal.Notes,
		StartDate:   goal.StartDate,
		EndDate:     goal.EndDate,
		CreatedAt:   goal.CreatedAt,
	}
}

func MapGoalProgressToResponse(p *domain.GoalProgress) GoalProgressResponse {
	return GoalProgressResponse{
		ID:       p.ID,
		GoalID:   p.GoalID,
		Date:     p.Date,
		Value:    p.Value,
		Notes:    p.Notes,
		HasPhoto: p.PhotoKey != "",
	}
}

func (r ProtocolGoalRequest) toInput() service.ProtocolGoalInput {
	return service.ProtocolGoalInput{
		ClientID:    r.ClientID,
		Type:        r.Type,
		Title:       r.Title,
		TargetValue: r.TargetValue,
		Unit:        r.Unit,
		Notes:       r.Notes,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
	}
}

// --- Handler Methods ---

// CreateGoal godoc
// @Summary Create a protocol goal
// @Tags Protocols
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param goal body ProtocolGoalRequest true "Goal details"
// @Success 201 {object} ProtocolGoalResponse
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Client not found"
// @Router /protocol-goals [post]
func (h *ProtocolHandler) CreateGoal(c *gin.Context) {
	userID, roles, ok := callerFromContext(c)
	if !ok {
		return
	}
	var req ProtocolGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	goal, err := h.protocolService.CreateGoal(c.Request.Context(), userID, roles, req.toInput())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapProtocolGoalToResponse(goal))
}

// ListGoals godoc
// @Summary List visible protocol goals
// @Tags Protocols
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param page_size query int false "Page size (max 100)"
// @Success 200 {array} ProtocolGoalResponse
// @Router /protocol-goals [get]
func (h *ProtocolHandler) ListGoals(c *gin.Context) {
	userID, roles, ok := callerFromContext(c)
	if !ok {
		return
	}
	p := parsePagination(c)

	goals, err := h.protocolService.ListGoals(c.Request.Context(), userID, roles, p.Offset(), p.PageSize)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	responses := make([]ProtocolGoalResponse, 0, len(goals))
	for i := range goals {
		responses = append(responses, MapProtocolGoalToResponse(&goals[i]))
	}
	c.JSON(http.StatusOK, responses)
}

// GetGoal godoc
// @Summary Get a protocol goal
// @Tags Protocols
// @Produce json
// @Security BearerAuth
// @Param id path int true "Goal ID"
// @Success 200 {object} ProtocolGoalResponse
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Not found"
// @Router /protocol-goals/{id} [get]
func (h *ProtocolHandler) GetGoal(c *gin.Context) {
	userID, roles, ok := callerFromContext(c)
	if !ok {
		return
	}
	goalID, ok := idParam(c, "id")
	if !ok {
		return
	}

	goal, err := h.protocolService.GetGoal(c.Request.Context(), userID, roles, goalID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapProtocolGoalToResponse(goal))
}

// UpdateGoal godoc
// @Summary Update a protocol goal
// @Tags Protocols
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Goal ID"
// @Param goal body ProtocolGoalRequest true "Goal details"
// @Success 200 {object} ProtocolGoalResponse
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Not found"
// @Router /protocol-goals/{id} [put]
func (h *ProtocolHandler) UpdateGoal(c *gin.Context) {
	userID, roles, ok := callerFromContext(c)
	if !ok {
		return
	}
	goalID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req ProtocolGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	goal, err := h.protocolService.UpdateGoal(c.Request.Context(), userID, roles, goalID, req.toInput())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapProtocolGoalToResponse(goal))
}

// DeleteGoal godoc
// @Summary Delete a protocol goal
// @Tags Protocols
// @Security BearerAuth
// @Param id path int true "Goal ID"
// @Success 204 "Deleted"
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Not found"
// @Router /protocol-goals/{id} [delete]
func (h *ProtocolHandler) DeleteGoal(c *gin.Context) {
	userID, roles, ok := callerFromContext(c)
	if !ok {
		return
	}
	goalID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.protocolService.DeleteGoal(c.Request.Context(), userID, roles, goalID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddProgress godoc
// @Summary Record a progress point for a goal
// @Tags Protocols
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Goal ID"
// @Param progress body GoalProgressRequest true "Progress details"
// @Success 201 {object} GoalProgressResponse
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Not found"
// @Router /protocol-goals/{id}/progress [post]
func (h *ProtocolHandler) AddProgress(c *gin.Context) {
	userID, roles, ok := callerFromContext(c)
	if !ok {
		return
	}
	goalID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req GoalProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	input := service.GoalProgressInput{Value: req.Value, Notes: req.Notes}
	if req.Date != nil {
		input.Date = *req.Date
	}

	progress, err := h.protocolService.AddProgress(c.Request.Context(), userID, roles, goalID, input)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapGoalProgressToResponse(progress))
}

// ListProgress godoc
// @Summary List the progress points of a goal
// @Tags Protocols
// @Produce json
// @Security BearerAuth
// @Param id path int true "Goal ID"
// @Param page query int false "Page number (1-based)"
// @Param page_size query int false "Page size (max 100)"
// @Success 200 {array} GoalProgressResponse
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Not found"
// @Router /protocol-goals/{id}/progress [get]
func (h *ProtocolHandler) ListProgress(c *gin.Context) {
	userID, roles, ok := callerFromContext(c)
	if !ok {
		return
	}
	goalID, ok := idParam(c, "id")
	if !ok {
		return
	}
	p := parsePagination(c)

	points, err := h.protocolService.ListProgress(c.Request.Context(), userID, roles, goalID, p.Offset(), p.PageSize)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	responses := make([]GoalProgressResponse, 0, len(points))
	for i := range points {
		responses = append(responses, MapGoalProgressToResponse(&points[i]))
	}
	c.JSON(http.StatusOK, responses)
}

// DeleteProgress godoc
// @Summary Remove a progress point
// @Tags Protocols
// @Security BearerAuth
// @Param id path int true "Goal ID"
// @Param progressId path int true "Progress ID"
// @Success 204 "Deleted"
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Not found"
// @Router /protocol-goals/{id}/progress/{progressId} [delete]
func (h *ProtocolHandler) DeleteProgress(c *gin.Context) {
	userID, roles, ok := callerFromContext(c)
	if !ok {
		return
	}
	goalID, ok := idParam(c, "id")
	if !ok {
		return
	}
	progressID, ok := idParam(c, "progressId")
	if !ok {
		return
	}

	if err := h.protocolService.DeleteProgress(c.Request.Context(), userID, roles, goalID, progressID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RequestPhotoUpload godoc
// @Summary Request an upload URL for a progress photo
// @Description Returns a presigned PUT URL. The client uploads the image directly to object storage.
// @Tags Protocols
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Goal ID"
// @Param progressId path int true "Progress ID"
// @Param photo body ProgressPhotoRequest false "Upload details"
// @Success 200 {object} ProgressPhotoUploadResponse
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Not found"
// @Router /protocol-goals/{id}/progress/{progressId}/photo [post]
func (h *ProtocolHandler) RequestPhotoUpload(c *gin.Context) {
	userID, roles, ok := callerFromContext(c)
	if !ok {
		return
	}
	goalID, ok := idParam(c, "id")
	if !ok {
		return
	}
	progressID, ok := idParam(c, "progressId")
	if !ok {
		return
	}
	var req ProgressPhotoRequest
	// Body is optional, defaults apply.
	_ = c.ShouldBindJSON(&req)

	upload, err := h.protocolService.RequestProgressPhotoUpload(c.Request.Context(), userID, roles, goalID, progressID, req.ContentType)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ProgressPhotoUploadResponse{UploadURL: upload.UploadURL, ObjectKey: upload.ObjectKey})
}

// GetPhotoURL godoc
// @Summary Get a download URL for a progress photo
// @Tags Protocols
// @Produce json
// @Security BearerAuth
// @Param id path int true "Goal ID"
// @Param progressId path int true "Progress ID"
// @Success 200 {object} gin.H "Presigned download URL"
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "No photo attached"
// @Router /protocol-goals/{id}/progress/{progressId}/photo [get]
func (h *ProtocolHandler) GetPhotoURL(c *gin.Context) {
	userID, roles, ok := callerFromContext(c)
	if !ok {
		return
	}
	goalID, ok := idParam(c, "id")
	if !ok {
		return
	}
	progressID, ok := idParam(c, "progressId")
	if !ok {
		return
	}

	url, err := h.protocolService.ProgressPhotoURL(c.Request.Context(), userID, roles, goalID, progressID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
