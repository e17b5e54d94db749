package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/lexicon/internal/config"
	"github.com/mrlokans/lexicon/internal/database/users"
	"github.com/mrlokans/lexicon/internal/entities"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.@+-]{3,255}$`)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUserExists       = errors.New("user already exists")
	ErrInvalidToken     = errors.New("invalid token")
	ErrTokenExpired     = errors.New("token expired")
	ErrInvalidRole      = errors.New("invalid role")
	ErrEmailRequired    = errors.New("email is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrAccountLocked    = errors.New("account is locked due to too many failed login attempts")
	ErrUsernameInvalid  = errors.New("username must be 3-255 characters without spaces")
)

// Service verifies credentials and manages API tokens.
type Service struct {
	db     *gorm.DB
	users  *users.Repository
	config config.Auth
}

func NewService(db *gorm.DB, cfg config.Auth) *Service {
	return &Service{
		db:     db,
		users:  users.NewRepository(db),
		config: cfg,
	}
}

// CreateUser stores a user with a bcrypt password. An empty username
// defaults to the email.
func (s *Service) CreateUser(ctx context.Context, username, email, password string, role entities.UserRole) (*entities.User, error) {
	email = strings.TrimSpace(email)
	username = strings.TrimSpace(username)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}
	if username == "" {
		username = email
	}
	if !usernamePattern.MatchString(username) {
		return nil, ErrUsernameInvalid
	}

	switch role {
	case entities.UserRoleAdmin, entities.UserRoleEditor, entities.UserRoleViewer:
	default:
		return nil, ErrInvalidRole
	}

	exists, err := s.users.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return nil, ErrUserExists
	}

	passwordHash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Authenticate checks a username or email against the stored password hash.
// Five consecutive failures lock the account for LockoutDuration.
func (s *Service) Authenticate(ctx context.Context, login, password string) (*entities.User, error) {
	user, err := s.users.GetByEmail(ctx, login)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user, err = s.users.GetByUsername(ctx, login)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if user.LockedUntil != nil && time.Now().Before(*user.LockedUntil) {
		return nil, ErrAccountLocked
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		s.recordFailedLogin(ctx, user)
		return nil, err
	}

	now := time.Now()
	s.db.WithContext(ctx).Model(user).Updates(map[string]any{
		"last_login_at":      now,
		"failed_login_count": 0,
		"locked_until":       nil,
	})
	user.LastLoginAt = &now

	return user, nil
}

func (s *Service) recordFailedLogin(ctx context.Context, user *entities.User) {
	user.FailedLoginCount++
	updates := map[string]any{"failed_login_count": user.FailedLoginCount}

	maxAttempts := s.config.MaxLoginAttempts
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if user.FailedLoginCount >= maxAttempts {
		lockout := s.config.LockoutDuration
		if lockout == 0 {
			lockout = 30 * time.Minute
		}
		updates["locked_until"] = time.Now().Add(lockout)
	}

	s.db.WithContext(ctx).Model(user).Updates(updates)
}

func (s *Service) GetUserByID(ctx context.Context, id uint) (*entities.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// ValidateToken resolves a plaintext bearer token to its user.
func (s *Service) ValidateToken(ctx context.Context, token string) (*entities.User, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	var user entities.User
	err := s.db.WithContext(ctx).Where("token_hash = ?", HashToken(token)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}

	if s.config.TokenExpiry > 0 && user.TokenCreatedAt != nil &&
		time.Since(*user.TokenCreatedAt) > s.config.TokenExpiry {
		return nil, ErrTokenExpired
	}
	return &user, nil
}

// GenerateToken replaces the user's API token and returns the plaintext,
// which is never stored.
func (s *Service) GenerateToken(ctx context.Context, userID uint) (string, error) {
	plaintext, hash, err := GenerateAPIToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	result := s.db.WithContext(ctx).Model(&entities.User{}).Where("id = ?", userID).Updates(map[string]any{
		"token_hash":       hash,
		"token_created_at": time.Now(),
	})
	if result.Error != nil {
		return "", fmt.Errorf("failed to save token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return "", ErrUserNotFound
	}
	return plaintext, nil
}

func (s *Service) RevokeToken(ctx context.Context, userID uint) error {
	err := s.db.WithContext(ctx).Model(&entities.User{}).Where("id = ?", userID).Updates(map[string]any{
		"token_hash":       "",
		"token_created_at": nil,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (s *Service) HasUsers(ctx context.Context) (bool, error) {
	count, err := s.users.Count(ctx)
	return count > 0, err
}

func (s *Service) IsAuthEnabled() bool {
	return s.config.Mode == config.AuthModeLocal
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *Service) HashPassword(password string) (string, error) {
	return HashPassword(password, s.config.BcryptCost)
}
