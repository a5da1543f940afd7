package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dormitory-backend/internal/models"
	"dormitory-backend/internal/repository"
	"dormitory-backend/internal/testutil"
	"dormitory-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.InitJWT("test-access", "test-refresh", time.Minute, time.Hour)
}

func bearer(t *testing.T, user models.User) string {
	t.Helper()
	token, err := utils.GenerateAccessToken(user.ID, user.Username, string(user.Role))
	require.NoError(t, err)
	return "Bearer " + token
}

func serve(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	user := models.User{ID: 7, Username: "aziz", Role: models.RoleStudent}

	r := gin.New()
	r.GET("/", AuthMiddleware(), func(c *gin.Context) {
		id, _ := CurrentUserID(c)
		role, _ := CurrentRole(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "role": role})
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing header", want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", want: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer abc", want: http.StatusUnauthorized},
		{name: "valid token", header: bearer(t, user), want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, tt.header)
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				assert.JSONEq(t, `{"id":7,"role":"student"}`, w.Body.String())
			}
		})
	}
}

func TestOptionalAuthLetsAnonymousThrough(t *testing.T) {
	r := gin.New()
	r.GET("/", OptionalAuth(), func(c *gin.Context) {
		_, ok := CurrentUserID(c)
		c.JSON(http.StatusOK, gin.H{"authenticated": ok})
	})

	w := serve(r, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"authenticated":false}`, w.Body.String())

	w = serve(r, "Bearer broken")
	assert.JSONEq(t, `{"authenticated":false}`, w.Body.String())

	w = serve(r, bearer(t, models.User{ID: 1, Username: "root", Role: models.RoleSuperAdmin}))
	assert.JSONEq(t, `{"authenticated":true}`, w.Body.String())
}

func TestRequireRoles(t *testing.T) {
	r := gin.New()
	r.GET("/", AuthMiddleware(), RequireRoles(models.RoleSuperAdmin, models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	tests := []struct {
		role models.Role
		want int
	}{
		{role: models.RoleSuperAdmin, want: http.StatusNoContent},
		{role: models.RoleAdmin, want: http.StatusNoContent},
		{role: models.RoleStudent, want: http.StatusForbidden},
		{role: models.RoleLandlord, want: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			w := serve(r, bearer(t, models.User{ID: 3, Username: "u", Role: tt.role}))
			assert.Equal(t, tt.want, w.Code)
		})
	}

	bare := gin.New()
	bare.GET("/", RequireRoles(models.RoleAdmin), func(c *gin.Context) {})
	assert.Equal(t, http.StatusUnauthorized, serve(bare, "").Code)
}

func TestResolveScope(t *testing.T) {
	f := testutil.NewFixture(t)
	floor := f.CreateFloor(t, "1", models.GenderMale)
	leader := testutil.CreateUser(t, f.DB, "leader", models.RoleStudent)
	plain := testutil.CreateUser(t, f.DB, "plain", models.RoleStudent)
	orphan := testutil.CreateUser(t, f.DB, "orphan", models.RoleAdmin)
	require.NoError(t, f.DB.Create(&models.FloorLeader{FloorID: floor.ID, UserID: leader.ID}).Error)

	access := NewAccessControlMiddleware(repository.NewDormitoryRepo(f.DB), repository.NewFloorLeaderRepo(f.DB))

	var got repository.Scope
	r := gin.New()
	r.GET("/", AuthMiddleware(), access.ResolveScope(), func(c *gin.Context) {
		got = ScopeFrom(c)
		c.Status(http.StatusNoContent)
	})

	tests := []struct {
		name string
		user models.User
		want repository.Scope
	}{
		{name: "superadmin", user: f.SuperAdmin, want: repository.Scope{UserID: f.SuperAdmin.ID, Role: models.RoleSuperAdmin}},
		{name: "dormitory admin", user: f.Admin, want: repository.Scope{UserID: f.Admin.ID, Role: models.RoleAdmin, DormitoryID: f.Dormitory.ID}},
		{name: "admin without dormitory", user: orphan, want: repository.Scope{UserID: orphan.ID, Role: models.RoleAdmin}},
		{name: "floor leader", user: leader, want: repository.Scope{UserID: leader.ID, Role: models.RoleStudent, DormitoryID: f.Dormitory.ID, FloorID: floor.ID}},
		{name: "plain student", user: plain, want: repository.Scope{UserID: plain.ID, Role: models.RoleStudent}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got = repository.Scope{}
			w := serve(r, bearer(t, tt.user))
			require.Equal(t, http.StatusNoContent, w.Code)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScopeFromDefaultsToNobody(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	scope := ScopeFrom(c)
	assert.Equal(t, models.RoleStudent, scope.Role)
	assert.False(t, scope.IsFloorLeader())
	assert.False(t, scope.IsDormitoryAdmin())
}
