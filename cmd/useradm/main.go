// Command useradm creates an administrator account directly against the
// database. It is meant for bootstrapping a fresh deployment, before any
// account exists that could be promoted.
package main

import (
	"bytes"
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/term"

	"github.com/nihil-template/nihil-auth/internal/flagx"
	"github.com/nihil-template/nihil-auth/internal/logging"
	"github.com/nihil-template/nihil-auth/internal/server/config"
	"github.com/nihil-template/nihil-auth/internal/server/mail"
	"github.com/nihil-template/nihil-auth/internal/server/models"
	"github.com/nihil-template/nihil-auth/internal/server/repositories/repomanager"
	"github.com/nihil-template/nihil-auth/internal/server/services"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

func promptPassword() ([]byte, error) {
	fmt.Println("Enter password")
	password, err := readPassword(int(os.Stdin.Fd()))
	if err != nil {
		return nil, err
	}

	fmt.Println("Confirm password")
	confirmation, err := readPassword(int(os.Stdin.Fd()))
	if err != nil {
		return nil, err
	}

	if !bytes.Equal(password, confirmation) {
		return nil, fmt.Errorf("passwords do not match")
	}
	if len(password) == 0 {
		return nil, fmt.Errorf("password must not be empty")
	}

	return password, nil
}

func run(ctx context.Context, email, name string) error {
	cfg := config.LoadConfig()

	password, err := promptPassword()
	if err != nil {
		return err
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	mailer := mail.NewSMTPMailer(cfg.SMTPAddr, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom)
	ss := services.NewSessionService(db, rm, mailer, logger, cfg)

	account, err := ss.SignUp(ctx, email, string(password), name, models.RoleAdmin)
	if err != nil {
		return err
	}

	fmt.Printf("created administrator %s (%s)\n", account.Email, account.ID)
	return nil
}

func main() {
	args := flagx.FilterArgs(os.Args[1:], []string{"-email", "-name"})

	fs := flag.NewFlagSet("useradm", flag.ExitOnError)
	email := fs.String("email", "", "administrator email address")
	name := fs.String("name", "", "administrator display name")
	_ = fs.Parse(args)

	if *email == "" || *name == "" {
		fmt.Fprintln(os.Stderr, "usage: useradm -email <address> -name <name>")
		os.Exit(2)
	}

	if err := run(context.Background(), *email, *name); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
