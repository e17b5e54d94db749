package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/lexicon/internal/config"
	"github.com/mrlokans/lexicon/internal/entities"
)

// Gin context keys set by the middleware.
const (
	ContextKeyUserID   = "auth_user_id"
	ContextKeyEmail    = "auth_email"
	ContextKeyRole     = "auth_role"
	ContextKeyAuthType = "auth_type"
)

type AuthType string

const (
	AuthTypeNone    AuthType = "none"
	AuthTypeSession AuthType = "session"
	AuthTypeBearer  AuthType = "bearer"
)

// Middleware identifies the caller of every request and stores the
// principal on the request context.
type Middleware struct {
	service        *Service
	sessionManager *SessionManager
	config         config.Auth
	defaultUser    *entities.User
	publicPaths    map[string]bool
}

// NewMiddleware builds the middleware. defaultUser is the account used for
// every request in "none" mode and may be nil in "local" mode.
func NewMiddleware(service *Service, sessionManager *SessionManager, cfg config.Auth, defaultUser *entities.User) *Middleware {
	return &Middleware{
		service:        service,
		sessionManager: sessionManager,
		config:         cfg,
		defaultUser:    defaultUser,
		publicPaths: map[string]bool{
			"/health": true,
			"/ping":   true,
			"/login":  true,
			"/setup":  true,
		},
	}
}

func (m *Middleware) Handler() gin.HandlerFunc {
	if m.config.Mode == config.AuthModeNone {
		return m.noAuthHandler()
	}
	return m.authHandler()
}

func (m *Middleware) noAuthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.defaultUser != nil {
			m.setUser(c, m.defaultUser, AuthTypeNone)
		} else {
			c.Set(ContextKeyAuthType, AuthTypeNone)
		}
		c.Next()
	}
}

func (m *Middleware) authHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := m.tryBearerAuth(c); user != nil {
			m.setUser(c, user, AuthTypeBearer)
			c.Next()
			return
		}

		if user := m.trySessionAuth(c); user != nil {
			m.setUser(c, user, AuthTypeSession)
			c.Next()
			return
		}

		if m.publicPaths[c.Request.URL.Path] {
			c.Set(ContextKeyAuthType, AuthTypeNone)
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(c *gin.Context) (string, bool) {
	scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func (m *Middleware) tryBearerAuth(c *gin.Context) *entities.User {
	token, ok := bearerToken(c)
	if !ok {
		return nil
	}
	user, err := m.service.ValidateToken(c.Request.Context(), token)
	if err != nil {
		return nil
	}
	return user
}

func (m *Middleware) trySessionAuth(c *gin.Context) *entities.User {
	if m.sessionManager == nil {
		return nil
	}
	userID := m.sessionManager.GetUserID(c.Request)
	if userID == 0 {
		return nil
	}
	user, err := m.service.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		return nil
	}
	return user
}

// setUser exposes the user to handlers through gin keys and to services
// through the request context.
func (m *Middleware) setUser(c *gin.Context, user *entities.User, authType AuthType) {
	c.Set(ContextKeyUserID, user.ID)
	c.Set(ContextKeyEmail, user.Email)
	c.Set(ContextKeyRole, user.Role)
	c.Set(ContextKeyAuthType, authType)
	c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), user.Email))
}

// RequireRole rejects callers whose role is not listed.
func (m *Middleware) RequireRole(roles ...entities.UserRole) gin.HandlerFunc {
	allowed := make(map[entities.UserRole]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		if GetUserID(c) == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if !allowed[GetUserRole(c)] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			return
		}
		c.Next()
	}
}

// GetUserID returns 0 for anonymous requests.
func GetUserID(c *gin.Context) uint {
	return c.GetUint(ContextKeyUserID)
}

func GetEmail(c *gin.Context) string {
	return c.GetString(ContextKeyEmail)
}

func GetUserRole(c *gin.Context) entities.UserRole {
	role, _ := c.Value(ContextKeyRole).(entities.UserRole)
	return role
}

func GetAuthType(c *gin.Context) AuthType {
	if t, ok := c.Value(ContextKeyAuthType).(AuthType); ok {
		return t
	}
	return AuthTypeNone
}
