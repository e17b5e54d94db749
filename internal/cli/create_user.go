package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/mrlokans/lexicon/internal/audit"
	"github.com/mrlokans/lexicon/internal/auth"
	"github.com/mrlokans/lexicon/internal/config"
	"github.com/mrlokans/lexicon/internal/database"
	auditrepo "github.com/mrlokans/lexicon/internal/database/audit"
	"github.com/mrlokans/lexicon/internal/entities"
	"github.com/mrlokans/lexicon/internal/services"
)

type CreateUserCommand struct {
	DatabasePath string
	Email        string
	Username     string
	Password     string
	Role         string

	Out io.Writer
}

func NewCreateUserCommand() *CreateUserCommand {
	return &CreateUserCommand{Out: os.Stdout}
}

func (cmd *CreateUserCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the lexicon database")
	fs.StringVar(&cmd.Email, "email", "", "Email of the new user (required)")
	fs.StringVar(&cmd.Username, "username", "", "Username, defaults to the email")
	fs.StringVar(&cmd.Password, "password", "", "Password for AUTH_MODE=local logins, may be empty")
	fs.StringVar(&cmd.Role, "role", string(entities.UserRoleEditor), "Role: admin, editor or viewer")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-user [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create a user that can own words and concepts.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s create-user -email editor@example.com\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s create-user -email admin@example.com -role admin -password secret\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Email == "" {
		fs.Usage()
		return fmt.Errorf("email is required")
	}

	return nil
}

func (cmd *CreateUserCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	auditService := audit.NewService(auditrepo.NewRepository(db.DB))
	defer auditService.Flush()

	ctx := context.Background()
	role := entities.UserRole(cmd.Role)

	var user *entities.User
	if cmd.Password != "" {
		authService := auth.NewService(db.DB, config.NewConfig().Auth)
		user, err = authService.CreateUser(ctx, cmd.Username, cmd.Email, cmd.Password, role)
		if err == nil {
			auditService.LogCreate(user.ID, "user", user.ID, user.Email)
		}
	} else {
		user = &entities.User{Username: cmd.Username, Email: cmd.Email, Role: role}
		err = services.NewUserService(db.DB, auditService).AddUser(ctx, user)
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Fprintf(cmd.Out, "Created %s user %s (id %d)\n", user.Role, user.Email, user.ID)
	return nil
}
