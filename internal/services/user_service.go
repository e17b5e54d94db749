package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/lexicon/internal/auth"
	"github.com/mrlokans/lexicon/internal/database/users"
	"github.com/mrlokans/lexicon/internal/entities"
)

// UserService creates accounts and resolves the principal of a request to a User.
type UserService struct {
	db    *gorm.DB
	users *users.Repository
	audit AuditLogger
}

func NewUserService(db *gorm.DB, audit AuditLogger) *UserService {
	return &UserService{
		db:    db,
		users: users.NewRepository(db),
		audit: audit,
	}
}

// AddUser stores a new user. The username defaults to the email and the role
// to editor. A taken email or username is ErrConflict.
func (s *UserService) AddUser(ctx context.Context, user *entities.User) error {
	user.Email = strings.TrimSpace(user.Email)
	user.Username = strings.TrimSpace(user.Username)
	if user.Username == "" {
		user.Username = user.Email
	}
	if user.Role == "" {
		user.Role = entities.UserRoleEditor
	}

	if err := validateStruct(user); err != nil {
		return err
	}
	switch user.Role {
	case entities.UserRoleAdmin, entities.UserRoleEditor, entities.UserRoleViewer:
	default:
		return validationf("unknown role %q", user.Role)
	}

	exists, err := s.users.ExistsByUsernameOrEmail(ctx, user.Username, user.Email)
	if err != nil {
		return fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return fmt.Errorf("%w: user %s already exists", ErrConflict, user.Email)
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: user %s already exists", ErrConflict, user.Email)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	if s.audit != nil {
		s.audit.LogCreate(user.ID, "user", user.ID, user.Email)
	}
	return nil
}

// GetByEmail looks a user up by the exact email.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, notFound(err, "user "+email)
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*entities.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("user %d", id))
	}
	return user, nil
}

// CurrentUser resolves the principal carried by ctx. A missing principal is
// ErrUnauthenticated; a principal without a user row matches both
// ErrUnauthenticated and ErrNotFound.
func (s *UserService) CurrentUser(ctx context.Context) (*entities.User, error) {
	return s.currentUser(ctx, s.users)
}

func (s *UserService) currentUser(ctx context.Context, repo *users.Repository) (*entities.User, error) {
	email, ok := auth.PrincipalFromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("%w: no principal in request", ErrUnauthenticated)
	}

	user, err := repo.GetByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %w: no user for principal %s", ErrUnauthenticated, ErrNotFound, email)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve principal: %w", err)
	}
	return user, nil
}

// actorID returns the id of the request's user for audit records, or 0.
func (s *UserService) actorID(ctx context.Context) uint {
	if s == nil {
		return 0
	}
	user, err := s.CurrentUser(ctx)
	if err != nil {
		return 0
	}
	return user.ID
}

// EnsureUser returns the user with the given email, creating it when absent.
// Used to seed the default principal when authentication is disabled.
func (s *UserService) EnsureUser(ctx context.Context, email string, role entities.UserRole) (*entities.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	user = &entities.User{Email: email, Role: role}
	if err := s.AddUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
