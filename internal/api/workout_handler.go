package api

import (
	"fmt"
	"net/http"
	"time"

	"nutrifit/backend/internal/domain"
	"nutrifit/backend/internal/service"

	"github.com/gin-gonic/gin"
)

type WorkoutHandler struct {
	workoutService service.WorkoutService
}

func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// --- Request/Response Structs ---

type WorkoutPlanRequest struct {
	ClientID    uint       `json:"client_id" binding:"required"`
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

type WorkoutPlanResponse struct {
	ID          uint       `json:"id"`
	ClientID    uint       `json:"client_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type WorkoutExerciseRequest struct {
	Name        string `json:"name" binding:"required"`
	Sets        int    `json:"sets"`
	Reps        int    `json:"reps"`
	RestSeconds *int   `json:"rest_seconds"`
	Notes       string `json:"notes"`
}

type WorkoutExerciseResponse struct {
	ID          uint   `json:"id"`
	PlanID      uint   `json:"plan_id"`
	Name        string `json:"name"`
	Sets        int    `json:"sets"`
	Reps        int    `json:"reps"`
	RestSeconds *int   `json:"rest_seconds,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

type WorkoutLogRequest struct {
	ClientID uint       `json:"client_id" binding:"required"`
	PlanID   *uint      `json:"plan_id"`
	Date     *time.Time `json:"date"`
	Notes    string     `json:"notes"`
}

type WorkoutLogResponse struct {
	ID       uint      `json:"id"`
	ClientID uint      `json:"client_id"`
	PlanID   *uint     `json:"plan_id,omitempty"`
	Date     time.Time `json:"date"`
	Notes    string    `json:"notes,omitempty"`
}

func MapWorkoutPlanToResponse(plan *domain.WorkoutPlan) WorkoutPlanResponse {
	return WorkoutPlanResponse{
		ID:          plan.ID,
		ClientID:    plan.ClientID,
		Title:       plan.Title,
		Description: plan.Description,
		StartDate:   plan.StartDate,
		EndDate:     plan.EndDate,
		CreatedAt:   plan.CreatedAt,
	}
}

func MapWorkoutPlansToResponse(plans []domain.WorkoutPlan) []WorkoutPlanResponse {
	responses := make([]WorkoutPlanResponse, 0, len(plans))
	for i := range plans {
		responses = append(responses, MapWorkoutPlanToResponse(&plans[i]))
	}
	return responses
}

func MapWorkoutExerciseToResponse(e *domain.WorkoutExercise) WorkoutExerciseResponse {
	return WorkoutExerciseResponse{
		ID:          e.ID,
		PlanID:      e.PlanID,
		Name:        e.Name,
		Sets:        e.Sets,
		Reps:        e.Reps,
		RestSeconds: e.RestSeconds,
		Notes:       e.Notes,
	}
}

func MapWorkoutLogToResponse(l *domain.WorkoutLog) WorkoutLogResponse {
	return WorkoutLogResponse{
		ID:       l.ID,
		ClientID: l.ClientID,
		PlanID:   l.PlanID,
		Date:     l.Date,
		Notes:    l.Notes,
	}
}

func (r WorkoutPlanRequest) toInput() service.WorkoutPlanInput {
	return service.WorkoutPlanInput{
		ClientID:    r.ClientID,
		Title:       r.Title,
		Description: r.Description,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
	}
}

// --- Handler Methods ---

// CreatePlan godoc
// @Summary Create a workout plan
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param plan body WorkoutPlanRequest true "Plan details"
// @Success 201 {object} WorkoutPlanResponse "Plan created"
// @Failure 402 {object} gin.H "Plan limit reached"
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Client not found"
// @Router /workout-plans [post]
func (h *WorkoutHandler) CreatePlan(c *gin.Context) {
	userID, roles, ok := callerFromContext(c)
	if !ok {
		return
	}
	var req WorkoutPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	plan, err := h.workoutService.CreatePlan(c.Request.Context(), userID, roles, req.toInput())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapWorkoutPlanToResponse(plan))
}

// ListPlans godoc
// @Summary List visible workout plans
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param page_size query int false "Page size (max 100)"
// @Success 200 {array} WorkoutPlanResponse
// @Router /workout-plans [get]
func (h *WorkoutHandler) ListPlans(c *gin.Context) {
	userID, roles, ok := callerFromContext(c)
	if !ok {
		return
	}
	p := parsePagination(c)

	plans, err := h.workoutService.ListPlans(c.Request.Context(), userID, roles, p.Offset(), p.PageSize)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapWorkoutPlansToResponse(plans))
}

// GetPlan godoc
// @Summary Get a workout plan
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Plan ID"
// @Success 200 {object} WorkoutPlanResponse
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Not found"
// @Router /workout-plans/{id} [get]
func (h *WorkoutHandler) GetPlan(c *gin.Context) {
	userID, roles, ok := callerFromContext(c)
	if !ok {
		return
	}
	planID, ok := idParam(c, "id")
	if !ok {
		return
	}

	plan, err := h.workoutService.GetPlan(c.Request.Context(), userID, roles, planID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapWorkoutPlanToResponse(plan))
}

// UpdatePlan godoc
// @Summary Update a workout plan
// @Description Changing client_id moves the plan, the caller needs access to the target client too.
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Plan ID"
// @Param plan body WorkoutPlanRequest true "Plan details"
// @Success 200 {object} WorkoutPlanResponse
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Not found"
// @Router /workout-plans/{id} [put]
func (h *WorkoutHandler) UpdatePlan(c *gin.Context) {
	userID, roles, ok := callerFromContext(c)
	if !ok {
		return
	}
	planID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req WorkoutPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	plan, err := h.workoutService.UpdatePlan(c.Request.Context(), userID, roles, planID, req.toInput())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapWorkoutPlanToResponse(plan))
}

// DeletePlan godoc
// @Summary Delete a workout plan
// @Tags Workouts
// @Security BearerAuth
// @Param id path int true "Plan ID"
// @Success 204 "Deleted"
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Not found"
// @Router /workout-plans/{id} [delete]
func (h *WorkoutHandler) DeletePlan(c *gin.Context) {
	userID, roles, ok := callerFromContext(c)
	if !ok {
		return
	}
	planID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.workoutService.DeletePlan(c.Request.Context(), userID, roles, planID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddExercise godoc
// @Summary Add an exercise to a workout plan
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Plan ID"
// @Param exercise body WorkoutExerciseRequest true "Exercise details"
// @Success 201 {object} WorkoutExerciseResponse
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Not found"
// @Router /workout-plans/{id}/exercises [post]
func (h *WorkoutHandler) AddExercise(c *gin.Context) {
	userID, roles, ok := callerFromContext(c)
	if !ok {
		return
	}
	planID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req WorkoutExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	exercise, err := h.workoutService.AddExercise(c.Request.Context(), userID, roles, planID, service.WorkoutExerciseInput{
		Name:        req.Name,
		Sets:        req.Sets,
		Reps:        req.Reps,
		RestSeconds: req.RestSeconds,
		Notes:       req.Notes,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapWorkoutExerciseToResponse(exercise))
}

// ListExercises godoc
// @Summary List the exercises of a workout plan
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Plan ID"
// @Success 200 {array} WorkoutExerciseResponse
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Not found"
// @Router /workout-plans/{id}/exercises [get]
func (h *WorkoutHandler) ListExercises(c *gin.Context) {
	userID, roles, ok := callerFromContext(c)
	if !ok {
		return
	}
	planID, ok := idParam(c, "id")
	if !ok {
		return
	}

	exercises, err := h.workoutService.ListExercises(c.Request.Context(), userID, roles, planID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	responses := make([]WorkoutExerciseResponse, 0, len(exercises))
	for i := range exercises {
		responses = append(responses, MapWorkoutExerciseToResponse(&exercises[i]))
	}
	c.JSON(http.StatusOK, responses)
}

// DeleteExercise godoc
// @Summary Remove an exercise from a workout plan
// @Tags Workouts
// @Security BearerAuth
// @Param id path int true "Plan ID"
// @Param exerciseId path int true "Exercise ID"
// @Success 204 "Deleted"
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Not found"
// @Router /workout-plans/{id}/exercises/{exerciseId} [delete]
func (h *WorkoutHandler) DeleteExercise(c *gin.Context) {
	userID, roles, ok := callerFromContext(c)
	if !ok {
		return
	}
	planID, ok := idParam(c, "id")
	if !ok {
		return
	}
	exerciseID, ok := idParam(c, "exerciseId")
	if !ok {
		return
	}

	if err := h.workoutService.DeleteExercise(c.Request.Context(), userID, roles, planID, exerciseID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateLog godoc
// @Summary Record a completed workout session
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param log body WorkoutLogRequest true "Log details"
// @Success 201 {object} WorkoutLogResponse
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Not found"
// @Router /workout-logs [post]
func (h *WorkoutHandler) CreateLog(c *gin.Context) {
	userID, roles, ok := callerFromContext(c)
	if !ok {
		return
	}
	var req WorkoutLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	input := service.WorkoutLogInput{
		ClientID: req.ClientID,
		PlanID:   req.PlanID,
		Notes:    req.Notes,
	}
	if req.Date != nil {
		input.Date = *req.Date
	}

	log, err := h.workoutService.CreateLog(c.Request.Context(), userID, roles, input)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapWorkoutLogToResponse(log))
}

// ListLogs godoc
// @Summary List a client's workout logs
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param clientId path int true "Client ID"
// @Param page query int false "Page number (1-based)"
// @Param page_size query int false "Page size (max 100)"
// @Success 200 {array} WorkoutLogResponse
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Not found"
// @Router /clients/{clientId}/workout-logs [get]
func (h *WorkoutHandler) ListLogs(c *gin.Context) {
	userID, roles, ok := callerFromContext(c)
	if !ok {
		return
	}
	clientID, ok := idParam(c, "id")
	if !ok {
		return
	}
	p := parsePagination(c)

	logs, err := h.workoutService.ListLogs(c.Request.Context(), userID, roles, clientID, p.Offset(), p.PageSize)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	responses := make([]WorkoutLogResponse, 0, len(logs))
	for i := range logs {
		responses = append(responses, MapWorkoutLogToResponse(&logs[i]))
	}
	c.JSON(http.StatusOK, responses)
}
