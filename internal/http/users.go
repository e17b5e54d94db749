package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/lexicon/internal/entities"
)

type UserStore interface {
	AddUser(ctx context.Context, user *entities.User) error
	CurrentUser(ctx context.Context) (*entities.User, error)
}

type OwnedWordLister interface {
	ListByOwner(ctx context.Context, userID uint, limit int) ([]entities.WordItem, error)
}

type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

type UsersController struct {
	users  UserStore
	words  OwnedWordLister
	hasher PasswordHasher
}

// NewUsersController builds the controller. hasher may be nil when accounts
// never sign in with a password.
func NewUsersController(users UserStore, words OwnedWordLister, hasher PasswordHasher) *UsersController {
	return &UsersController{users: users, words: words, hasher: hasher}
}

type CreateUserRequest struct {
	Username string            `json:"username"`
	Email    string            `json:"email"`
	Password string            `json:"password"`
	Role     entities.UserRole `json:"role"`
}

// Create handles POST /api/users. Without a password the account can only
// act as a principal, not log in.
func (uc *UsersController) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	user := &entities.User{Username: req.Username, Email: req.Email, Role: req.Role}
	if req.Password != "" {
		if uc.hasher == nil {
			respondBadRequest(c, "passwords are not supported in this auth mode")
			return
		}
		hash, err := uc.hasher.HashPassword(req.Password)
		if err != nil {
			respondBadRequest(c, err.Error())
			return
		}
		user.PasswordHash = hash
	}

	if err := uc.users.AddUser(c.Request.Context(), user); err != nil {
		respondServiceError(c, err, "add user")
		return
	}
	c.JSON(http.StatusCreated, user)
}

const recentWordsLimit = 20

// Me handles GET /api/users/me: the caller's account and its newest words.
func (uc *UsersController) Me(c *gin.Context) {
	user, err := uc.users.CurrentUser(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "current user")
		return
	}

	recent, err := uc.words.ListByOwner(c.Request.Context(), user.ID, recentWordsLimit)
	if err != nil {
		respondInternalError(c, err, "list recent words")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":         user,
		"recent_words": recent,
	})
}
