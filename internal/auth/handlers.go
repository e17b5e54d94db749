package auth

import (
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/lexicon/internal/config"
	"github.com/mrlokans/lexicon/internal/entities"
)

// Auditor receives login, logout and setup outcomes. It may be nil.
type Auditor interface {
	LogAuth(userID uint, action string, ipAddr, userAgent string, success bool)
}

// AuthController serves the login, logout and first-run setup endpoints.
type AuthController struct {
	service        *Service
	sessionManager *SessionManager
	rateLimiter    *RateLimiter
	auditor        Auditor
	setupMu        sync.Mutex
}

func NewAuthController(service *Service, sessionManager *SessionManager, cfg config.Auth, auditor Auditor) *AuthController {
	return &AuthController{
		service:        service,
		sessionManager: sessionManager,
		auditor:        auditor,
		rateLimiter: NewRateLimiter(RateLimitConfig{
			MaxAttempts:     cfg.MaxLoginAttempts,
			WindowDuration:  cfg.RateLimitWindow,
			LockoutDuration: cfg.LockoutDuration,
		}),
	}
}

func (ac *AuthController) RegisterRoutes(router gin.IRouter) {
	router.POST("/login", ac.Login)
	router.POST("/logout", ac.Logout)
	router.POST("/setup", ac.Setup)
}

// Stop releases the rate limiter's background goroutine.
func (ac *AuthController) Stop() {
	ac.rateLimiter.Stop()
}

type loginRequest struct {
	Login    string `json:"login" form:"login" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type setupRequest struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

func (ac *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "login and password are required"})
		return
	}

	ip := c.ClientIP()
	if allowed, retryAfter := ac.rateLimiter.Allow(ip, req.Login); !allowed {
		c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many login attempts"})
		return
	}

	user, err := ac.service.Authenticate(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		ac.rateLimiter.RecordFailure(ip, req.Login)
		ac.audit(0, "login", c, false)

		if errors.Is(err, ErrAccountLocked) {
			c.JSON(http.StatusLocked, gin.H{"error": "account is locked, try again later"})
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid login or password"})
		return
	}
	ac.rateLimiter.RecordSuccess(ip, req.Login)

	if err := ac.startSession(c, user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}
	ac.audit(user.ID, "login", c, true)

	c.JSON(http.StatusOK, user)
}

func (ac *AuthController) Logout(c *gin.Context) {
	userID := uint(0)
	if ac.sessionManager != nil {
		userID = ac.sessionManager.GetUserID(c.Request)
		_ = ac.sessionManager.DestroySession(c.Request)
	}
	if userID != 0 {
		ac.audit(userID, "logout", c, true)
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Setup creates the first admin account. It is refused once any user exists.
func (ac *AuthController) Setup(c *gin.Context) {
	ac.setupMu.Lock()
	defer ac.setupMu.Unlock()

	hasUsers, err := ac.service.HasUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	if hasUsers {
		c.JSON(http.StatusConflict, gin.H{"error": "setup already completed"})
		return
	}

	var req setupRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a valid email and password are required"})
		return
	}

	user, err := ac.service.CreateUser(c.Request.Context(), req.Username, req.Email, req.Password, entities.UserRoleAdmin)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ErrUserExists) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	if err := ac.startSession(c, user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}
	ac.audit(user.ID, "setup", c, true)

	c.JSON(http.StatusCreated, user)
}

func (ac *AuthController) startSession(c *gin.Context, user *entities.User) error {
	if ac.sessionManager == nil {
		return nil
	}
	return ac.sessionManager.CreateSession(c.Request, user)
}

func (ac *AuthController) audit(userID uint, action string, c *gin.Context, success bool) {
	if ac.auditor != nil {
		ac.auditor.LogAuth(userID, action, c.ClientIP(), c.Request.UserAgent(), success)
	}
}

// APITokenController issues and revokes bearer tokens for the caller.
type APITokenController struct {
	service *Service
}

func NewAPITokenController(service *Service) *APITokenController {
	return &APITokenController{service: service}
}

func (tc *APITokenController) RegisterRoutes(router gin.IRouter) {
	router.POST("/auth/token", tc.GenerateToken)
	router.DELETE("/auth/token", tc.RevokeToken)
}

func (tc *APITokenController) GenerateToken(c *gin.Context) {
	userID := GetUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	token, err := tc.service.GenerateToken(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"message": "Store this token securely - it will not be shown again",
	})
}

func (tc *APITokenController) RevokeToken(c *gin.Context) {
	userID := GetUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	if err := tc.service.RevokeToken(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to revoke token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "token revoked"})
}
