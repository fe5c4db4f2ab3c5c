// Package services contains server-side business logic. This file implements
// SessionService, which handles sign-up, sign-in, refresh-token rotation,
// sign-out, withdrawal, and the password-reset flow.
package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nihil-template/nihil-auth/internal/common"
	"github.com/nihil-template/nihil-auth/internal/dbx"
	"github.com/nihil-template/nihil-auth/internal/logging"
	"github.com/nihil-template/nihil-auth/internal/server/auth"
	"github.com/nihil-template/nihil-auth/internal/server/config"
	"github.com/nihil-template/nihil-auth/internal/server/mail"
	"github.com/nihil-template/nihil-auth/internal/server/models"
	"github.com/nihil-template/nihil-auth/internal/server/repositories/repomanager"
)

// SessionService provides the authentication lifecycle:
//   - SignUp: create an account with its credential record
//   - SignIn: verify credentials and mint an access/refresh pair
//   - Refresh: rotate the refresh token and mint a new pair
//   - SignOut / Withdraw / ChangePassword / Session
//   - ForgotPassword / NewPassword: the time-boxed reset flow
//
// An account has at most one active refresh token; every successful sign-in
// or refresh overwrites the stored value, evicting whatever session held it.
type SessionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	mailer      mail.Mailer
	logger      logging.Logger
	config      *config.Config
}

// NewSessionService constructs a SessionService using repositories, the
// outbound mailer, and server config.
func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, mailer mail.Mailer, logger logging.Logger, cfg *config.Config) *SessionService {
	return &SessionService{
		db:          db,
		repomanager: m,
		mailer:      mailer,
		logger:      logger,
		config:      cfg,
	}
}

// SignUp registers a new account. The duplicate-email check and the two
// record inserts run in one transaction, so a concurrent duplicate sign-up
// cannot race past the check and a crash can never leave an account without
// its credential record.
func (s *SessionService) SignUp(ctx context.Context, email, password, name string, role models.Role) (*models.Account, error) {
	var account *models.Account

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		accountRepo := s.repomanager.Accounts(tx)

		if _, err := accountRepo.GetByEmail(ctx, email); err == nil {
			return common.ErrorEmailExists
		} else if !errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("error checking email: %w", err)
		}

		hash, err := auth.HashPassword(password)
		if err != nil {
			return common.ErrorInternal
		}

		created, err := accountRepo.Create(ctx, &models.Account{Email: email, Name: name, Role: role})
		if err != nil {
			// a concurrent sign-up can slip past the check above and lose
			// the insert race on the unique email index
			if errors.Is(err, common.ErrorEmailExists) {
				return common.ErrorEmailExists
			}
			return fmt.Errorf("error creating account: %w", err)
		}

		if err := s.repomanager.Credentials(tx).Create(ctx, created.ID, hash); err != nil {
			return fmt.Errorf("error creating credential: %w", err)
		}

		account = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	return account, nil
}

// SignIn verifies the email/password pair and, on success, issues a fresh
// token pair and persists the refresh token. Unknown email and wrong
// password both return ErrorInvalidCredentials, so callers cannot probe
// which emails are registered.
func (s *SessionService) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	accountRepo := s.repomanager.Accounts(s.db)

	account, err := accountRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorInvalidCredentials
		}
		return nil, common.ErrorInternal
	}
	if !account.Active {
		return nil, common.ErrorInvalidCredentials
	}

	cred, err := s.repomanager.Credentials(s.db).Get(ctx, account.ID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// every account owns a credential record; its absence is a broken
			// invariant, not bad input
			s.logger.Error(ctx, "credential record missing", "account_id", account.ID)
			return nil, common.ErrorInternal
		}
		return nil, common.ErrorInternal
	}

	if !auth.CheckPassword(password, cred.PasswordHash) {
		return nil, common.ErrorInvalidCredentials
	}

	pair, err := s.issueTokens(ctx, account, s.db)
	if err != nil {
		return nil, err
	}

	if err := accountRepo.TouchLastLogin(ctx, account.ID); err != nil {
		s.logger.Warn(ctx, "failed to refresh last login", "account_id", account.ID, "error", err)
	}

	return &models.Session{Account: account, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

// Refresh validates a refresh token cryptographically and against the
// persisted value, then rotates it: a new pair is issued and stored,
// invalidating the token that was just used. A token that verifies but no
// longer matches the stored value has been rotated out (or stolen) and is
// rejected.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (*models.Session, error) {
	if refreshToken == "" {
		return nil, common.ErrorInvalidToken
	}

	claims, err := auth.ParseToken(refreshToken, []byte(s.config.RefreshTokenSecret))
	if err != nil {
		return nil, common.ErrorInvalidToken
	}

	account, err := s.repomanager.Accounts(s.db).GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, common.ErrorInvalidToken
	}

	cred, err := s.repomanager.Credentials(s.db).Get(ctx, account.ID)
	if err != nil {
		return nil, common.ErrorInvalidToken
	}

	if cred.RefreshToken == nil ||
		subtle.ConstantTimeCompare([]byte(*cred.RefreshToken), []byte(refreshToken)) != 1 {
		return nil, common.ErrorInvalidToken
	}

	// claims are rebuilt from the account, not copied from the old token,
	// so name/role changes take effect on rotation
	pair, err := s.issueTokens(ctx, account, s.db)
	if err != nil {
		return nil, err
	}

	return &models.Session{Account: account, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

// SignOut clears the stored refresh token. Idempotent: signing out with no
// active session is not an error.
func (s *SessionService) SignOut(ctx context.Context, accountID string) error {
	if err := s.repomanager.Credentials(s.db).UpdateRefreshToken(ctx, accountID, nil); err != nil {
		return common.ErrorInternal
	}
	return nil
}

// Session returns the account for a verified access token's subject.
// ErrorUnauthorized covers the case where the account was withdrawn after
// the token was issued but before it expired.
func (s *SessionService) Session(ctx context.Context, accountID string) (*models.Account, error) {
	account, err := s.repomanager.Accounts(s.db).GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	return account, nil
}

// Withdraw soft-deletes the account and its credential record in one
// transaction. Rows are retained with delete timestamps set.
func (s *SessionService) Withdraw(ctx context.Context, accountID string) error {
	now := time.Now()
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Accounts(tx).MarkWithdrawn(ctx, accountID, now); err != nil {
			return fmt.Errorf("error withdrawing account: %w", err)
		}
		if err := s.repomanager.Credentials(tx).MarkDeleted(ctx, accountID, now); err != nil {
			return fmt.Errorf("error deleting credential: %w", err)
		}
		return nil
	})
}

// ChangePassword verifies the current password and stores a hash of the new
// one. The active refresh token is left in place: an open session survives a
// password change.
func (s *SessionService) ChangePassword(ctx context.Context, accountID, currentPassword, newPassword string) error {
	credRepo := s.repomanager.Credentials(s.db)

	cred, err := credRepo.Get(ctx, accountID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Error(ctx, "credential record missing", "account_id", accountID)
		}
		return common.ErrorInternal
	}

	if !auth.CheckPassword(currentPassword, cred.PasswordHash) {
		return common.ErrorInvalidCredentials
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return common.ErrorInternal
	}

	if err := credRepo.UpdatePasswordHash(ctx, accountID, hash); err != nil {
		return common.ErrorInternal
	}
	return nil
}

// ForgotPassword signs a short-lived reset token and emails a reset link.
// Unknown emails succeed with no side effect, and delivery failures are
// swallowed after logging: from the caller's perspective the request always
// succeeds, so the endpoint reveals nothing about registered addresses.
func (s *SessionService) ForgotPassword(ctx context.Context, email string) error {
	account, err := s.repomanager.Accounts(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return common.ErrorInternal
	}

	// reset tokens share the access-token secret; the purpose claim is what
	// keeps an access token from being replayed against NewPassword
	token, err := auth.GenerateToken(
		auth.Claims{UserID: account.ID, Purpose: auth.PurposeResetPassword},
		[]byte(s.config.AccessTokenSecret),
		s.config.ResetTokenValidityDuration,
	)
	if err != nil {
		return common.ErrorInternal
	}

	msg := mail.NewResetMessage(s.config.AppName, s.config.AppBaseURL, token)
	if err := s.mailer.Send(ctx, account.Email, msg.Subject, msg.Text, msg.HTML); err != nil {
		s.logger.Error(ctx, "reset mail delivery failed", "account_id", account.ID, "error", err)
	}

	return nil
}

// NewPassword validates a reset token and stores a hash of the new password.
// Empty inputs, bad signatures, expiry, and a wrong purpose claim all
// collapse into the same generic error. The stored refresh token is not
// touched: an active session survives a reset.
func (s *SessionService) NewPassword(ctx context.Context, resetToken, newPassword string) error {
	if resetToken == "" || newPassword == "" {
		return common.ErrorInvalidResetToken
	}

	claims, err := auth.ParseToken(resetToken, []byte(s.config.AccessTokenSecret))
	if err != nil {
		return common.ErrorInvalidResetToken
	}
	if claims.Purpose != auth.PurposeResetPassword {
		return common.ErrorInvalidResetToken
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return common.ErrorInternal
	}

	if err := s.repomanager.Credentials(s.db).UpdatePasswordHash(ctx, claims.UserID, hash); err != nil {
		return common.ErrorInternal
	}
	return nil
}

// --- helpers below ---

func (s *SessionService) issueTokens(ctx context.Context, account *models.Account, db dbx.DBTX) (*models.TokenPair, error) {
	claims := auth.Claims{
		UserID: account.ID,
		Email:  account.Email,
		Name:   account.Name,
		Role:   string(account.Role),
	}

	access, err := auth.GenerateToken(claims, []byte(s.config.AccessTokenSecret), s.config.AccessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := auth.GenerateToken(claims, []byte(s.config.RefreshTokenSecret), s.config.RefreshTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	if err := s.repomanager.Credentials(db).UpdateRefreshToken(ctx, account.ID, &refresh); err != nil {
		return nil, common.ErrorInternal
	}

	return &models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
