package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nutrifit/backend/internal/config"
	"nutrifit/backend/internal/repository/gormdb"
	"nutrifit/backend/internal/service"
	"nutrifit/backend/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testServer bundles the router with the pieces tests poke at directly.
type testServer struct {
	router *gin.Engine
	hub    *ws.Hub
	auth   service.AuthService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gormdb.Open(gormdb.InMemoryDSN, false)
	require.NoError(t, err)

	userRepo := gormdb.NewUserRepository(db)
	clientRepo := gormdb.NewClientRepository(db)
	workoutRepo := gormdb.NewWorkoutRepository(db)
	dietRepo := gormdb.NewDietRepository(db)
	protocolRepo := gormdb.NewProtocolRepository(db)
	subscriptionRepo := gormdb.NewSubscriptionRepository(db)
	notificationRepo := gormdb.NewNotificationRepository(db)
	settingsRepo := gormdb.NewSettingsRepository(db)
	reportRepo := gormdb.NewReportRepository(db)

	hub := ws.NewHub()
	go hub.Run()
	t.Cleanup(hub.Close)

	authService := service.NewAuthService(userRepo, "test-secret", time.Hour)
	accessService := service.NewAccessService(clientRepo, workoutRepo, dietRepo, protocolRepo)
	quotaService := service.NewQuotaService(subscriptionRepo, clientRepo, workoutRepo, dietRepo)
	services := Services{
		Auth:         authService,
		Client:       service.NewClientService(clientRepo, accessService, quotaService),
		Workout:      service.NewWorkoutService(workoutRepo, accessService, quotaService),
		Diet:         service.NewDietService(dietRepo, accessService, quotaService),
		Protocol:     service.NewProtocolService(protocolRepo, accessService, nil),
		Subscription: service.NewSubscriptionService(subscriptionRepo, service.NewStubPaymentProvider()),
		Notification: service.NewNotificationService(notificationRepo, hub),
		Settings:     service.NewSettingsService(settingsRepo),
		Report:       service.NewReportService(reportRepo),
	}

	router := gin.New()
	SetupRoutes(router, config.CORSConfig{AllowedOrigins: []string{"*"}}, services, hub)
	return &testServer{router: router, hub: hub, auth: authService}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// registerAndLogin creates an account over the API and returns its token.
func (s *testServer) registerAndLogin(t *testing.T, email string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email": email, "password": "password123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": email, "password": "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestPing(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)

	// Duplicate registration conflicts.
	rec := s.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{"email": "a@b.com", "password": "password123"})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{"email": "a@b.com", "password": "password123"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Wrong password.
	rec = s.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "a@b.com", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Protected routes reject missing and garbage tokens.
	rec = s.do(t, http.MethodGet, "/api/v1/clients", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = s.do(t, http.MethodGet, "/api/v1/clients", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token := s.registerAndLogin(t, "c@d.com")
	rec = s.do(t, http.MethodGet, "/api/v1/me", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id"`)
}

func TestClientIsolationBetweenUsers(t *testing.T) {
	s := newTestServer(t)
	tokenA := s.registerAndLogin(t, "alice@example.com")
	tokenB := s.registerAndLogin(t, "bob@example.com")

	rec := s.do(t, http.MethodPost, "/api/v1/clients", tokenA, gin.H{"display_name": "Alice's client"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	client := decodeJSON[ClientResponse](t, rec)

	// Bob cannot see, update or delete it.
	path := fmt.Sprintf("/api/v1/clients/%d", client.ID)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, path, tokenB, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPut, path, tokenB, gin.H{"display_name": "hijack"}).Code)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodDelete, path, tokenB, nil).Code)

	// Bob's list is empty, Alice's has one entry.
	listB := decodeJSON[[]ClientResponse](t, s.do(t, http.MethodGet, "/api/v1/clients", tokenB, nil))
	assert.Empty(t, listB)
	listA := decodeJSON[[]ClientResponse](t, s.do(t, http.MethodGet, "/api/v1/clients", tokenA, nil))
	assert.Len(t, listA, 1)
}

func TestQuotaReturnsPaymentRequired(t *testing.T) {
	s := newTestServer(t)
	token := s.registerAndLogin(t, "alice@example.com")

	for i := 0; i < 3; i++ {
		rec := s.do(t, http.MethodPost, "/api/v1/clients", token, gin.H{"display_name": fmt.Sprintf("client %d", i)})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}
	rec := s.do(t, http.MethodPost, "/api/v1/clients", token, gin.H{"display_name": "one too many"})
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)

	// Activating a paid plan lifts the cap immediately.
	rec = s.do(t, http.MethodPost, "/api/v1/subscriptions/activate", token, gin.H{"plan": "basic", "price": 9.90})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = s.do(t, http.MethodPost, "/api/v1/clients", token, gin.H{"display_name": "now it fits"})
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestWorkoutPlanEndToEnd(t *testing.T) {
	s := newTestServer(t)
	token := s.registerAndLogin(t, "alice@example.com")

	client := decodeJSON[ClientResponse](t, s.do(t, http.MethodPost, "/api/v1/clients", token, gin.H{"display_name": "Client"}))

	rec := s.do(t, http.MethodPost, "/api/v1/workout-plans", token, gin.H{"client_id": client.ID, "title": "Block 1"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	plan := decodeJSON[WorkoutPlanResponse](t, rec)

	rec = s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/workout-plans/%d/exercises", plan.ID), token, gin.H{"name": "Squat", "sets": 5, "reps": 5})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	exercises := decodeJSON[[]WorkoutExerciseResponse](t, s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/workout-plans/%d/exercises", plan.ID), token, nil))
	require.Len(t, exercises, 1)
	assert.Equal(t, "Squat", exercises[0].Name)

	rec = s.do(t, http.MethodPost, "/api/v1/workout-logs", token, gin.H{"client_id": client.ID, "plan_id": plan.ID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	logs := decodeJSON[[]WorkoutLogResponse](t, s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/clients/%d/workout-logs", client.ID), token, nil))
	assert.Len(t, logs, 1)

	rec = s.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/workout-plans/%d", plan.ID), token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDietPlanEndToEnd(t *testing.T) {
	s := newTestServer(t)
	token := s.registerAndLogin(t, "alice@example.com")

	client := decodeJSON[ClientResponse](t, s.do(t, http.MethodPost, "/api/v1/clients", token, gin.H{"display_name": "Client"}))

	rec := s.do(t, http.MethodPost, "/api/v1/food-items", token, gin.H{"name": "Oats", "calories": 389.0, "protein_g": 16.9})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	food := decodeJSON[FoodItemResponse](t, rec)

	// Duplicate names conflict, the catalog is shared.
	rec = s.do(t, http.MethodPost, "/api/v1/food-items", token, gin.H{"name": "Oats"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/diet-plans", token, gin.H{"client_id": client.ID, "title": "Cut"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	plan := decodeJSON[DietPlanResponse](t, rec)

	rec = s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/diet-plans/%d/entries", plan.ID), token, gin.H{"food_item_id": food.ID, "meal_type": "breakfast"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	entry := decodeJSON[DietEntryResponse](t, rec)
	assert.Equal(t, 1.0, entry.Quantity)

	// Unknown food item is a validation error.
	rec = s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/diet-plans/%d/entries", plan.ID), token, gin.H{"food_item_id": 9999})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProtocolGoalEndToEnd(t *testing.T) {
	s := newTestServer(t)
	token := s.registerAndLogin(t, "alice@example.com")

	client := decodeJSON[ClientResponse](t, s.do(t, http.MethodPost, "/api/v1/clients", token, gin.H{"display_name": "Client"}))

	rec := s.do(t, http.MethodPost, "/api/v1/protocol-goals", token, gin.H{"client_id": client.ID, "title": "Cut to 80kg", "type": "weight", "target_value": 80.0, "unit": "kg"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	goal := decodeJSON[ProtocolGoalResponse](t, rec)

	rec = s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/protocol-goals/%d/progress", goal.ID), token, gin.H{"value": 85.5})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	progress := decodeJSON[GoalProgressResponse](t, rec)
	assert.False(t, progress.HasPhoto)

	points := decodeJSON[[]GoalProgressResponse](t, s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/protocol-goals/%d/progress", goal.ID), token, nil))
	assert.Len(t, points, 1)

	// Photo endpoints report bad request while storage is not configured.
	rec = s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/protocol-goals/%d/progress/%d/photo", goal.ID, progress.ID), token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/protocol-goals/%d", goal.ID), token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestSettingsRoundTrip(t *testing.T) {
	s := newTestServer(t)
	token := s.registerAndLogin(t, "alice@example.com")

	settings := decodeJSON[SettingsResponse](t, s.do(t, http.MethodGet, "/api/v1/settings/me", token, nil))
	assert.Equal(t, "light", settings.Theme)

	rec := s.do(t, http.MethodPut, "/api/v1/settings/me", token, gin.H{"theme": "dark", "notifications_enabled": true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	settings = decodeJSON[SettingsResponse](t, s.do(t, http.MethodGet, "/api/v1/settings/me", token, nil))
	assert.Equal(t, "dark", settings.Theme)
}

func TestReportsEndpoints(t *testing.T) {
	s := newTestServer(t)
	token := s.registerAndLogin(t, "alice@example.com")

	client := decodeJSON[ClientResponse](t, s.do(t, http.MethodPost, "/api/v1/clients", token, gin.H{"display_name": "Client"}))
	rec := s.do(t, http.MethodPost, "/api/v1/workout-plans", token, gin.H{"client_id": client.ID, "title": "Block"})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/v1/workout-logs", token, gin.H{"client_id": client.ID})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/reports/counts", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"clients":1`)

	rec = s.do(t, http.MethodGet, "/api/v1/reports/workout-trend?days=7", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/reports/client-breakdown", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"workout_plans":1`)
}

func TestWebsocketNotificationPush(t *testing.T) {
	s := newTestServer(t)
	token := s.registerAndLogin(t, "alice@example.com")

	server := httptest.NewServer(s.router)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/ws/notifications?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// First frame is the connected handshake.
	var hello ws.Message
	require.NoError(t, conn.ReadJSON(&hello))
	assert.Equal(t, "connected", hello.Type)

	rec := s.do(t, http.MethodPost, "/api/v1/notifications", token, gin.H{"title": "Workout due", "message": "Leg day"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var pushed ws.Message
	require.NoError(t, conn.ReadJSON(&pushed))
	assert.Equal(t, "notification", pushed.Type)

	// Ping keepalive.
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("ping")))
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "pong", string(data))
}

func TestWebsocketPongInterleavedWithPushes(t *testing.T) {
	s := newTestServer(t)
	token := s.registerAndLogin(t, "alice@example.com")

	server := httptest.NewServer(s.router)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/ws/notifications?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	var hello ws.Message
	require.NoError(t, conn.ReadJSON(&hello))
	require.Equal(t, "connected", hello.Type)

	const rounds = 20

	// Pongs from the read loop race against pushes from the hub, both land
	// on the same connection.
	done := make(chan error, 1)
	go func() {
		for i := 0; i < rounds; i++ {
			if err := conn.WriteMessage(websocket.TextMessage, []byte("ping")); err != nil {
				done <- err
				return
			}
		}
		done <- nil
	}()

	for i := 0; i < rounds; i++ {
		rec := s.do(t, http.MethodPost, "/api/v1/notifications", token, gin.H{"title": "Reminder", "message": "Hydrate"})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}
	require.NoError(t, <-done)

	pongs, pushes := 0, 0
	for pongs < rounds || pushes < rounds {
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		if string(data) == "pong" {
			pongs++
			continue
		}
		var msg ws.Message
		require.NoError(t, json.Unmarshal(data, &msg))
		require.Equal(t, "notification", msg.Type)
		pushes++
	}
	assert.Equal(t, rounds, pongs)
	assert.Equal(t, rounds, pushes)
}

func TestWebsocketRejectsBadToken(t *testing.T) {
	s := newTestServer(t)
	server := httptest.NewServer(s.router)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/ws/notifications?token=garbage"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestNotificationAfterDisconnectDoesNotFail(t *testing.T) {
	s := newTestServer(t)
	token := s.registerAndLogin(t, "alice@example.com")

	server := httptest.NewServer(s.router)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/ws/notifications?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	var hello ws.Message
	require.NoError(t, conn.ReadJSON(&hello))
	conn.Close()

	// Creating a notification with no live connection still succeeds, the
	// row is stored and delivery is skipped.
	rec := s.do(t, http.MethodPost, "/api/v1/notifications", token, gin.H{"title": "Still works"})
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	list := decodeJSON[[]NotificationResponse](t, s.do(t, http.MethodGet, "/api/v1/notifications", token, nil))
	assert.Len(t, list, 1)
}
