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

type SubscriptionHandler struct {
	subscriptionService service.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

// --- Request/Response Structs ---

type CheckoutRequest struct {
	Plan     string  `json:"plan" binding:"required"`
	Price    float64 `json:"price" binding:"gte=0"`
	Currency string  `json:"currency"`
}

type CheckoutResponse struct {
	SessionID   string `json:"session_id"`
	CheckoutURL string `json:"checkout_url"`
}

type SubscriptionResponse struct {
	ID        uint       `json:"id"`
	Plan      string     `json:"plan"`
	Price     float64    `json:"price"`
	Currency  string     `json:"currency"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	IsActive  bool       `json:"is_active"`
}

func MapSubscriptionToResponse(sub *domain.Subscription) SubscriptionResponse {
	return SubscriptionResponse{
		ID:        sub.ID,
		Plan:      sub.Plan,
		Price:     sub.Price,
		Currency:  sub.Currency,
		StartDate: sub.StartDate,
		EndDate:   sub.EndDate,
		IsActive:  sub.IsActive,
	}
}

// --- Handler Methods ---

// Checkout godoc
// @Summary Start a subscription checkout
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param checkout body CheckoutRequest true "Plan to purchase"
// @Success 200 {object} CheckoutResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Router /subscriptions/checkout [post]
func (h *SubscriptionHandler) Checkout(c *gin.Context) {
	userID, _, ok := callerFromContext(c)
	if !ok {
		return
	}
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	session, err := h.subscriptionService.Checkout(c.Request.Context(), userID, req.Plan, req.Price, req.Currency)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, CheckoutResponse{SessionID: session.ID, CheckoutURL: session.URL})
}

// Activate godoc
// @Summary Activate a paid subscription
// @Description Records the subscription as the caller's current plan. New limits apply immediately.
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param subscription body CheckoutRequest true "Paid plan"
// @Success 201 {object} SubscriptionResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Router /subscriptions/activate [post]
func (h *SubscriptionHandler) Activate(c *gin.Context) {
	userID, _, ok := callerFromContext(c)
	if !ok {
		return
	}
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	sub, err := h.subscriptionService.Activate(c.Request.Context(), userID, req.Plan, req.Price, req.Currency)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapSubscriptionToResponse(sub))
}

// Current godoc
// @Summary Get the caller's active subscription
// @Description Users without an active subscription are on the free tier.
// @Tags Subscriptions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SubscriptionResponse
// @Failure 404 {object} gin.H "No active subscription (free tier)"
// @Router /subscriptions/current [get]
func (h *SubscriptionHandler) Current(c *gin.Context) {
	userID, _, ok := callerFromContext(c)
	if !ok {
		return
	}

	sub, err := h.subscriptionService.Current(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			abortWithError(c, http.StatusNotFound, "No active subscription.")
			return
		}
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapSubscriptionToResponse(sub))
}

// List godoc
// @Summary List the caller's subscription history
// @Tags Subscriptions
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param page_size query int false "Page size (max 100)"
// @Success 200 {array} SubscriptionResponse
// @Router /subscriptions [get]
func (h *SubscriptionHandler) List(c *gin.Context) {
	userID, _, ok := callerFromContext(c)
	if !ok {
		return
	}
	p := parsePagination(c)

	subs, err := h.subscriptionService.List(c.Request.Context(), userID, p.Offset(), p.PageSize)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	responses := make([]SubscriptionResponse, 0, len(subs))
	for i := range subs {
		responses = append(responses, MapSubscriptionToResponse(&subs[i]))
	}
	c.JSON(http.StatusOK, responses)
}

// Cancel godoc
// @Summary Cancel the caller's active subscription
// @Description Drops the caller back to the free tier. Existing data is untouched.
// @Tags Subscriptions
// @Security BearerAuth
// @Success 204 "Cancelled"
// @Failure 404 {object} gin.H "No active subscription"
// @Router /subscriptions/current [delete]
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	userID, _, ok := callerFromContext(c)
	if !ok {
		return
	}

	if err := h.subscriptionService.Cancel(c.Request.Context(), userID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
