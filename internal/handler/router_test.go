package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dormitory-backend/internal/middleware"
	"dormitory-backend/internal/models"
	"dormitory-backend/internal/realtime"
	"dormitory-backend/internal/repository"
	"dormitory-backend/internal/service"
	"dormitory-backend/internal/testutil"
	"dormitory-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

type apiTest struct {
	*testutil.Fixture
	router *gin.Engine
	hub    *realtime.Hub
}

func newAPITest(t *testing.T) *apiTest {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.InitJWT("test-access", "test-refresh", time.Minute, time.Hour)
	require.NoError(t, utils.RegisterValidators())

	f := testutil.NewFixture(t)
	db := f.DB

	userRepo := repository.NewUserRepo(db)
	auditRepo := repository.NewAuditRepo(db)
	catalogRepo := repository.NewCatalogRepo(db)
	dormitoryRepo := repository.NewDormitoryRepo(db)
	floorRepo := repository.NewFloorRepo(db)
	roomRepo := repository.NewRoomRepo(db)
	studentRepo := repository.NewStudentRepo(db)
	paymentRepo := repository.NewPaymentRepo(db)
	applicationRepo := repository.NewApplicationRepo(db)
	notificationRepo := repository.NewNotificationRepo(db)
	leaderRepo := repository.NewFloorLeaderRepo(db)

	hub := realtime.NewHub(4)
	reconciler := service.NewReconciler(db, roomRepo, studentRepo, paymentRepo, time.UTC)
	catalogService := service.NewCatalogService(catalogRepo, auditRepo)
	notificationService := service.NewNotificationService(db, notificationRepo, userRepo, studentRepo, auditRepo)

	r := gin.New()
	RegisterRoutes(r, &Handlers{
		Auth:         NewAuthHandler(service.NewAuthService(userRepo, auditRepo), false),
		User:         NewUserHandler(service.NewUserService(userRepo, dormitoryRepo, studentRepo, auditRepo)),
		Catalog:      NewCatalogHandler(catalogService),
		Dormitory:    NewDormitoryHandler(service.NewDormitoryService(db, dormitoryRepo, catalogRepo, userRepo, studentRepo, auditRepo)),
		Room:         NewRoomHandler(service.NewRoomService(db, roomRepo, floorRepo, auditRepo, reconciler), service.NewFloorService(floorRepo, auditRepo)),
		Student:      NewStudentHandler(service.NewStudentService(db, studentRepo, roomRepo, floorRepo, paymentRepo, auditRepo, reconciler)),
		Payment:      NewPaymentHandler(service.NewPaymentService(db, paymentRepo, studentRepo, applicationRepo, auditRepo, reconciler, notificationService)),
		Application:  NewApplicationHandler(service.NewApplicationService(applicationRepo, dormitoryRepo, roomRepo, auditRepo, notificationService, hub), hub),
		Notification: NewNotificationHandler(notificationService),
		FloorLeader:  NewFloorLeaderHandler(service.NewFloorLeaderService(db, leaderRepo, floorRepo, studentRepo, userRepo, auditRepo, reconciler)),
		Dashboard:    NewDashboardHandler(service.NewDashboardService(repository.NewDashboardRepo(db), paymentRepo, applicationRepo)),
		Task:         NewTaskHandler(service.NewTaskService(repository.NewTaskRepo(db))),
		Apartment:    NewApartmentHandler(service.NewApartmentService(repository.NewApartmentRepo(db), catalogService)),
	}, middleware.NewAccessControlMiddleware(dormitoryRepo, leaderRepo))

	return &apiTest{Fixture: f, router: r, hub: hub}
}

func tokenFor(t *testing.T, user models.User) string {
	t.Helper()
	token, err := utils.GenerateAccessToken(user.ID, user.Username, string(user.Role))
	require.NoError(t, err)
	return token
}

func (a *apiTest) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestHealth(t *testing.T) {
	a := newAPITest(t)
	w, env := a.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
}

func TestAuthorizationGates(t *testing.T) {
	a := newAPITest(t)
	student := testutil.CreateUser(t, a.DB, "student", models.RoleStudent)
	orphan := testutil.CreateUser(t, a.DB, "orphan-admin", models.RoleAdmin)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   interface{}
		want   int
	}{
		{name: "no token", method: http.MethodGet, path: "/students", want: http.StatusUnauthorized},
		{name: "garbage token", method: http.MethodGet, path: "/students", token: "nope", want: http.StatusUnauthorized},
		{name: "student cannot create rooms", method: http.MethodPost, path: "/rooms", token: tokenFor(t, student), body: gin.H{"floor_id": 1, "name": "1", "capacity": 1}, want: http.StatusForbidden},
		{name: "admin cannot create dormitories", method: http.MethodPost, path: "/dormitories", token: tokenFor(t, a.Admin), body: gin.H{}, want: http.StatusForbidden},
		{name: "admin without dormitory", method: http.MethodGet, path: "/dashboard", token: tokenFor(t, orphan), want: http.StatusForbidden},
		{name: "bad path id", method: http.MethodGet, path: "/rooms/abc", token: tokenFor(t, a.Admin), want: http.StatusBadRequest},
		{name: "missing room", method: http.MethodGet, path: "/rooms/9999", token: tokenFor(t, a.Admin), want: http.StatusNotFound},
		{name: "invalid body", method: http.MethodPost, path: "/rooms", token: tokenFor(t, a.Admin), body: gin.H{"capacity": 0}, want: http.StatusBadRequest},
		{name: "public listing", method: http.MethodGet, path: "/dormitories", want: http.StatusOK},
		{name: "student sees empty list", method: http.MethodGet, path: "/rooms", token: tokenFor(t, student), want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := a.do(t, tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestPlacementOverHTTP(t *testing.T) {
	a := newAPITest(t)
	admin := tokenFor(t, a.Admin)

	w, env := a.do(t, http.MethodPost, "/floors", admin, gin.H{"name": "1", "gender": "male"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	floor := decode[models.Floor](t, env.Data)

	w, env = a.do(t, http.MethodPost, "/rooms", admin, gin.H{"floor_id": floor.ID, "name": "101", "capacity": 1})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	room := decode[models.Room](t, env.Data)

	w, env = a.do(t, http.MethodPost, "/students", admin, gin.H{"name": "Aziz", "room_id": room.ID, "passport": "AB1234567"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	student := decode[models.Student](t, env.Data)
	assert.Equal(t, models.PlacementPlaced, student.PlacementStatus)
	assert.Equal(t, models.StudentDebtor, student.Status)

	w, env = a.do(t, http.MethodPost, "/students", admin, gin.H{"name": "Bekzod", "room_id": room.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "room is full", env.Error)

	w, _ = a.do(t, http.MethodPost, "/students", admin, gin.H{"name": "Davron", "passport": "ab12"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	validUntil := time.Now().UTC().AddDate(0, 1, 0).Format(time.RFC3339)
	w, _ = a.do(t, http.MethodPost, "/payments", admin, gin.H{"student_id": student.ID, "amount": 500000, "valid_until": validUntil})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, env = a.do(t, http.MethodGet, fmt.Sprintf("/students/%d", student.ID), admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.StudentPaidUp, decode[models.Student](t, env.Data).Status)

	w, env = a.do(t, http.MethodGet, fmt.Sprintf("/rooms/%d", room.ID), admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	room = decode[models.Room](t, env.Data)
	assert.Equal(t, 1, room.CurrentOccupancy)
	assert.Equal(t, models.RoomFullyOccupied, room.Status)

	w, _ = a.do(t, http.MethodDelete, fmt.Sprintf("/rooms/%d", room.ID), admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = a.do(t, http.MethodGet, "/students?status=Haqdor", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[struct {
		Items []models.Student `json:"items"`
		Total int64            `json:"total"`
	}](t, env.Data)
	assert.Equal(t, int64(1), list.Total)
}

func TestRegisterAndRefreshCookie(t *testing.T) {
	a := newAPITest(t)

	w, env := a.do(t, http.MethodPost, "/auth/register", "", gin.H{"username": "aziz", "password": "secret1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	data := decode[struct {
		AccessToken string `json:"access_token"`
	}](t, env.Data)
	assert.NotEmpty(t, data.AccessToken)

	var refresh *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == refreshCookie {
			refresh = c
		}
	}
	require.NotNil(t, refresh)
	assert.True(t, refresh.HttpOnly)

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	req.AddCookie(refresh)
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	w, _ = a.do(t, http.MethodPost, "/auth/refresh", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env = a.do(t, http.MethodGet, "/me", data.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[struct {
		User models.User `json:"user"`
	}](t, env.Data)
	assert.Equal(t, "aziz", me.User.Username)

	w, _ = a.do(t, http.MethodPost, "/auth/login", "", gin.H{"username": "aziz", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSubmitApplicationIsPublic(t *testing.T) {
	a := newAPITest(t)
	events, unsubscribe := a.hub.Subscribe(a.Dormitory.ID)
	defer unsubscribe()

	w, _ := a.do(t, http.MethodPost, "/applications", "", gin.H{
		"dormitory_id": a.Dormitory.ID,
		"name":         "Aziz",
		"phone":        "+998901234567",
		"passport":     "AB1234567",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	select {
	case event := <-events:
		assert.Equal(t, realtime.EventNewApplication, event.Type)
	case <-time.After(time.Second):
		t.Fatal("no new_application event")
	}

	w, env := a.do(t, http.MethodGet, "/applications?status=pending", tokenFor(t, a.Admin), nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[struct {
		Total int64 `json:"total"`
	}](t, env.Data)
	assert.Equal(t, int64(1), list.Total)
}
