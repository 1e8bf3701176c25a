package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"nutrifit/backend/internal/domain"
	"nutrifit/backend/internal/service"

	"github.com/gin-gonic/gin"
)

type DietHandler struct {
	dietService service.DietService
}

func NewDietHandler(dietService service.DietService) *DietHandler {
	return &DietHandler{dietService: dietService}
}

// --- Request/Response Structs ---

type DietPlanRequest struct {
	ClientID    uint       `json:"client_id" binding:"required"`
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

type DietPlanResponse struct {
	ID          uint       `json:"id"`
	ClientID    uint       `json:"client_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type FoodItemRequest struct {
	Name     string  `json:"name" binding:"required"`
	Calories float64 `json:"calories" binding:"gte=0"`
	ProteinG float64 `json:"protein_g" binding:"gte=0"`
	CarbsG   float64 `json:"carbs_g" binding:"gte=0"`
	FatsG    float64 `json:"fats_g" binding:"gte=0"`
}

type FoodItemResponse struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatsG    float64 `json:"fats_g"`
}

type DietEntryRequest struct {
	FoodItemID uint       `json:"food_item_id" binding:"required"`
	Date       *time.Time `json:"date"`
	Quantity   float64    `json:"quantity"`
	MealType   string     `json:"meal_type"`
}

type DietEntryResponse struct {
	ID         uint      `json:"id"`
	PlanID     uint      `json:"plan_id"`
	FoodItemID uint      `json:"food_item_id"`
	Date       time.Time `json:"date"`
	Quantity   float64   `json:"quantity"`
	MealType   string    `json:"meal_type,omitempty"`
}

func MapDietPlanToResponse(plan *domain.DietPlan) DietPlanResponse {
	return DietPlanResponse{
		ID:          plan.ID,
		ClientID:    plan.ClientID,
		Title:       plan.Title,
		Description: plan.Description,
		StartDate:   plan.StartDate,
		EndDate:     plan.EndDate,
		CreatedAt:   plan.CreatedAt,
	}
}

func MapFoodItemToResponse(item *domain.FoodItem) FoodItemResponse {
	return FoodItemResponse{
		ID:       item.ID,
		Name:     item.Name,
		Calories: item.Calories,
		ProteinG: item.ProteinG,
		CarbsG:   item.CarbsG,
		FatsG:    item.FatsG,
	}
}

func MapDietEntryToResponse(entry *domain.DietEntry) DietEntryResponse {
	return DietEntryResponse{
		ID:         entry.ID,
		PlanID:     entry.PlanID,
		FoodItemID: entry.FoodItemID,
		Date:       entry.Date,
		Quantity:   entry.Quantity,
		MealType:   entry.MealType,
	}
}

func (r DietPlanRequest) toInput() service.DietPlanInput {
	return service.DietPlanInput{
		ClientID:    r.ClientID,
		Title:       r.Title,
		Description: r.Description,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
	}
}

// --- Handler Methods ---

// CreatePlan godoc
// @Summary Create a diet plan
// @Tags Diet
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param plan body DietPlanRequest true "Plan details"
// @Success 201 {object} DietPlanResponse "Plan created"
// @Failure 402 {object} gin.H "Plan limit reached"
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Client not found"
// @Router /diet-plans [post]
func (h *DietHandler) CreatePlan(c *gin.Context) {
	userID, roles, ok := callerFromContext(c)
	if !ok {
		return
	}
	var req DietPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	plan, err := h.dietService.CreatePlan(c.Request.Context(), userID, roles, req.toInput())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapDietPlanToResponse(plan))
}

// ListPlans godoc
// @Summary List visible diet plans
// @Tags Diet
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param page_size query int false "Page size (max 100)"
// @Success 200 {array} DietPlanResponse
// @Router /diet-plans [get]
func (h *DietHandler) ListPlans(c *gin.Context) {
	userID, roles, ok := callerFromContext(c)
	if !ok {
		return
	}
	p := parsePagination(c)

	plans, err := h.dietService.ListPlans(c.Request.Context(), userID, roles, p.Offset(), p.PageSize)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	responses := make([]DietPlanResponse, 0, len(plans))
	for i := range plans {
		responses = append(responses, MapDietPlanToResponse(&plans[i]))
	}
	c.JSON(http.StatusOK, responses)
}

// GetPlan godoc
// @Summary Get a diet plan
// @Tags Diet
// @Produce json
// @Security BearerAuth
// @Param id path int true "Plan ID"
// @Success 200 {object} DietPlanResponse
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Not found"
// @Router /diet-plans/{id} [get]
func (h *DietHandler) GetPlan(c *gin.Context) {
	userID, roles, ok := callerFromContext(c)
	if !ok {
		return
	}
	planID, ok := idParam(c, "id")
	if !ok {
		return
	}

	plan, err := h.dietService.GetPlan(c.Request.Context(), userID, roles, planID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapDietPlanToResponse(plan))
}

// UpdatePlan godoc
// @Summary Update a diet plan
// @Tags Diet
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Plan ID"
// @Param plan body DietPlanRequest true "Plan details"
// @Success 200 {object} DietPlanResponse
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Not found"
// @Router /diet-plans/{id} [put]
func (h *DietHandler) UpdatePlan(c *gin.Context) {
	userID, roles, ok := callerFromContext(c)
	if !ok {
		return
	}
	planID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req DietPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	plan, err := h.dietService.UpdatePlan(c.Request.Context(), userID, roles, planID, req.toInput())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapDietPlanToResponse(plan))
}

// DeletePlan godoc
// @Summary Delete a diet plan
// @Tags Diet
// @Security BearerAuth
// @Param id path int true "Plan ID"
// @Success 204 "Deleted"
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Not found"
// @Router /diet-plans/{id} [delete]
func (h *DietHandler) DeletePlan(c *gin.Context) {
	userID, roles, ok := callerFromContext(c)
	if !ok {
		return
	}
	planID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.dietService.DeletePlan(c.Request.Context(), userID, roles, planID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateFoodItem godoc
// @Summary Add a food item to the catalog
// @Description Food items are shared across all users.
// @Tags Diet
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param item body FoodItemRequest true "Food item details"
// @Success 201 {object} FoodItemResponse
// @Failure 409 {object} gin.H "Name already taken"
// @Router /food-items [post]
func (h *DietHandler) CreateFoodItem(c *gin.Context) {
	var req FoodItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	item, err := h.dietService.CreateFoodItem(c.Request.Context(), service.FoodItemInput{
		Name:     req.Name,
		Calories: req.Calories,
		ProteinG: req.ProteinG,
		CarbsG:   req.CarbsG,
		FatsG:    req.FatsG,
	})
	if err != nil {
		if errors.Is(err, service.ErrFoodItemExists) {
			abortWithError(c, http.StatusConflict, err.Error())
			return
		}
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapFoodItemToResponse(item))
}

// ListFoodItems godoc
// @Summary List the food item catalog
// @Tags Diet
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param page_size query int false "Page size (max 100)"
// @Success 200 {array} FoodItemResponse
// @Router /food-items [get]
func (h *DietHandler) ListFoodItems(c *gin.Context) {
	p := parsePagination(c)

	items, err := h.dietService.ListFoodItems(c.Request.Context(), p.Offset(), p.PageSize)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	responses := make([]FoodItemResponse, 0, len(items))
	for i := range items {
		responses = append(responses, MapFoodItemToResponse(&items[i]))
	}
	c.JSON(http.StatusOK, responses)
}

// AddEntry godoc
// @Summary Add an entry to a diet plan
// @Tags Diet
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Plan ID"
// @Param entry body DietEntryRequest true "Entry details"
// @Success 201 {object} DietEntryResponse
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Not found"
// @Router /diet-plans/{id}/entries [post]
func (h *DietHandler) AddEntry(c *gin.Context) {
	userID, roles, ok := callerFromContext(c)
	if !ok {
		return
	}
	planID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req DietEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	input := service.DietEntryInput{
		FoodItemID: req.FoodItemID,
		Quantity:   req.Quantity,
		MealType:   req.MealType,
	}
	if req.Date != nil {
		input.Date = *req.Date
	}

	entry, err := h.dietService.AddEntry(c.Request.Context(), userID, roles, planID, input)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapDietEntryToResponse(entry))
}

// ListEntries godoc
// @Summary List the entries of a diet plan
// @Tags Diet
// @Produce json
// @Security BearerAuth
// @Param id path int true "Plan ID"
// @Param page query int false "Page number (1-based)"
// @Param page_size query int false "Page size (max 100)"
// @Success 200 {array} DietEntryResponse
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Not found"
// @Router /diet-plans/{id}/entries [get]
func (h *DietHandler) ListEntries(c *gin.Context) {
	userID, roles, ok := callerFromContext(c)
	if !ok {
		return
	}
	planID, ok := idParam(c, "id")
	if !ok {
		return
	}
	p := parsePagination(c)

	entries, err := h.dietService.ListEntries(c.Request.Context(), userID, roles, planID, p.Offset(), p.PageSize)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	responses := make([]DietEntryResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, MapDietEntryToResponse(&entries[i]))
	}
	c.JSON(http.StatusOK, responses)
}

// DeleteEntry godoc
// @Summary Remove an entry from a diet plan
// @Tags Diet
// @Security BearerAuth
// @Param id path int true "Plan ID"
// @Param entryId path int true "Entry ID"
// @Success 204 "Deleted"
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Not found"
// @Router /diet-plans/{id}/entries/{entryId} [delete]
func (h *DietHandler) DeleteEntry(c *gin.Context) {
	userID, roles, ok := callerFromContext(c)
	if !ok {
		return
	}
	planID, ok := idParam(c, "id")
	if !ok {
		return
	}
	entryID, ok := idParam(c, "entryId")
	if !ok {
		return
	}

	if err := h.dietService.DeleteEntry(c.Request.Context(), userID, roles, planID, entryID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
