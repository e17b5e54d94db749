package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/lexicon/internal/config"
	"github.com/mrlokans/lexicon/internal/entities"
)

type authEvent struct {
	userID  uint
	action  string
	success bool
}

type recordingAuditor struct {
	mu     sync.Mutex
	events []authEvent
}

func (r *recordingAuditor) LogAuth(userID uint, action string, _, _ string, success bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, authEvent{userID: userID, action: action, success: success})
}

type authTestEnv struct {
	router  *gin.Engine
	service *Service
	auditor *recordingAuditor
}

func setupAuthRouter(t *testing.T) *authTestEnv {
	t.Helper()
	sm, svc := setupSessionManager(t)
	cfg := testAuthConfig(config.AuthModeLocal)
	auditor := &recordingAuditor{}

	controller := NewAuthController(svc, sm, cfg, auditor)
	t.Cleanup(controller.Stop)

	mw := NewMiddleware(svc, sm, cfg, nil)
	router := gin.New()
	router.Use(sm.LoadAndSave(), mw.Handler())
	controller.RegisterRoutes(router)

	api := router.Group("/api")
	NewAPITokenController(svc).RegisterRoutes(api)
	api.GET("/me", whoami)

	return &authTestEnv{router: router, service: svc, auditor: auditor}
}

func (env *authTestEnv) do(t *testing.T, method, path, body string, prepare func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if prepare != nil {
		prepare(req)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func withCookies(cookies []*http.Cookie) func(*http.Request) {
	return func(r *http.Request) {
		for _, c := range cookies {
			r.AddCookie(c)
		}
	}
}

func TestAuthController_Setup(t *testing.T) {
	env := setupAuthRouter(t)

	w := env.do(t, http.MethodPost, "/setup", `{"email":"admin@example.com","password":"`+testPassword+`"}`, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var user entities.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	assert.Equal(t, entities.UserRoleAdmin, user.Role)
	assert.Equal(t, "admin@example.com", user.Username)

	me := env.do(t, http.MethodGet, "/api/me", "", withCookies(w.Result().Cookies()))
	assert.Equal(t, http.StatusOK, me.Code)
	assert.Contains(t, me.Body.String(), `"auth_type":"session"`)

	again := env.do(t, http.MethodPost, "/setup", `{"email":"second@example.com","password":"`+testPassword+`"}`, nil)
	assert.Equal(t, http.StatusConflict, again.Code)
}

func TestAuthController_SetupValidation(t *testing.T) {
	env := setupAuthRouter(t)

	w := env.do(t, http.MethodPost, "/setup", `{"email":"not-an-email","password":"`+testPassword+`"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/setup", `{"email":"admin@example.com","password":"short"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthController_LoginLogout(t *testing.T) {
	env := setupAuthRouter(t)
	user := createUser(t, env.service, "tester@example.com", entities.UserRoleEditor)

	w := env.do(t, http.MethodPost, "/login", `{"login":"tester@example.com","password":"`+testPassword+`"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	me := env.do(t, http.MethodGet, "/api/me", "", withCookies(cookies))
	require.Equal(t, http.StatusOK, me.Code)
	assert.Contains(t, me.Body.String(), `"principal":"tester@example.com"`)

	out := env.do(t, http.MethodPost, "/logout", "", withCookies(cookies))
	assert.Equal(t, http.StatusOK, out.Code)

	me = env.do(t, http.MethodGet, "/api/me", "", withCookies(cookies))
	assert.Equal(t, http.StatusUnauthorized, me.Code)

	env.auditor.mu.Lock()
	defer env.auditor.mu.Unlock()
	assert.Equal(t, []authEvent{
		{userID: user.ID, action: "login", success: true},
		{userID: user.ID, action: "logout", success: true},
	}, env.auditor.events)
}

func TestAuthController_LoginFailures(t *testing.T) {
	env := setupAuthRouter(t)
	createUser(t, env.service, "tester@example.com", entities.UserRoleEditor)
	bad := `{"login":"tester@example.com","password":"definitely-wrong"}`

	w := env.do(t, http.MethodPost, "/login", `{"login":"tester@example.com"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	for range 2 {
		w = env.do(t, http.MethodPost, "/login", bad, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}

	// The third failure locks the account in the database.
	w = env.do(t, http.MethodPost, "/login", bad, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/login", `{"login":"tester@example.com","password":"`+testPassword+`"}`, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestAuthController_LoginLockedAccount(t *testing.T) {
	env := setupAuthRouter(t)
	createUser(t, env.service, "tester@example.com", entities.UserRoleEditor)

	// The limiter is keyed by client IP, the account lock is not.
	for range 3 {
		env.do(t, http.MethodPost, "/login", `{"login":"tester@example.com","password":"definitely-wrong"}`, func(r *http.Request) {
			r.RemoteAddr = "10.0.0.1:1234"
		})
	}

	w := env.do(t, http.MethodPost, "/login", `{"login":"tester@example.com","password":"`+testPassword+`"}`, func(r *http.Request) {
		r.RemoteAddr = "10.0.0.2:1234"
	})
	assert.Equal(t, http.StatusLocked, w.Code)
}

func TestAPITokenController(t *testing.T) {
	env := setupAuthRouter(t)
	createUser(t, env.service, "tester@example.com", entities.UserRoleEditor)

	login := env.do(t, http.MethodPost, "/login", `{"login":"tester@example.com","password":"`+testPassword+`"}`, nil)
	require.Equal(t, http.StatusOK, login.Code)
	cookies := login.Result().Cookies()

	w := env.do(t, http.MethodPost, "/api/auth/token", "", withCookies(cookies))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	bearer := func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+resp.Token) }
	me := env.do(t, http.MethodGet, "/api/me", "", bearer)
	require.Equal(t, http.StatusOK, me.Code)
	assert.Contains(t, me.Body.String(), `"auth_type":"bearer"`)

	revoke := env.do(t, http.MethodDelete, "/api/auth/token", "", bearer)
	assert.Equal(t, http.StatusOK, revoke.Code)

	me = env.do(t, http.MethodGet, "/api/me", "", bearer)
	assert.Equal(t, http.StatusUnauthorized, me.Code)
}
