package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/projectdesk/projectdesk/internal/constants"
	"github.com/projectdesk/projectdesk/internal/models"
	"github.com/projectdesk/projectdesk/internal/repository"
	"github.com/projectdesk/projectdesk/internal/services"
	"github.com/projectdesk/projectdesk/internal/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testPassword = "supersecret"

// testAPI is the full router on an in-memory database with cookie sessions.
type testAPI struct {
	db       *gorm.DB
	fixtures testutil.Fixtures
	svc      Services
	router   *gin.Engine
}

func newTestAPI(t *testing.T, ai *services.AIService) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewSQLiteDB(t)
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	reportRepo := repository.NewReportRepository(db)

	svc := Services{
		Auth:    services.NewAuthService(userRepo, roleRepo, settingsRepo),
		Project: services.NewProjectService(projectRepo, userRepo),
		Task:    services.NewTaskService(taskRepo, projectRepo, teamRepo, userRepo, activityRepo, ai),
		Team:    services.NewTeamService(teamRepo, projectRepo, userRepo),
		User:    services.NewUserService(userRepo, roleRepo, settingsRepo),
		Report:  services.NewReportService(projectRepo, taskRepo, teamRepo, activityRepo, reportRepo, t.TempDir()),
	}

	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	RegisterRoutes(r, db, svc)

	return &testAPI{
		db:       db,
		fixtures: testutil.Fixtures{T: t, DB: db},
		svc:      svc,
		router:   r,
	}
}

// client carries the session cookie of one logged in user.
type client struct {
	api     *testAPI
	user    *models.User
	cookies []*http.Cookie
}

// login signs up a user with the given role and logs in over HTTP.
func (a *testAPI) login(t *testing.T, email, role string) *client {
	t.Helper()

	user, err := a.svc.Auth.Signup(context.Background(), services.SignupInput{
		Name:     "Test",
		LastName: "User",
		Email:    email,
		Password: testPassword,
	})
	require.NoError(t, err)
	if role != models.RoleMember {
		require.NoError(t, a.db.Model(user).Update("role_id", a.fixtures.Role(role).ID).Error)
	}

	anon := &client{api: a}
	w := anon.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": testPassword,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	return &client{api: a, user: user, cookies: cookies}
}

func (c *client) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}

	w := httptest.NewRecorder()
	c.api.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
