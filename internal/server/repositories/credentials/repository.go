package credentials

import (
	"context"
	"time"

	"github.com/nihil-template/nihil-auth/internal/server/models"
)

// Repository is the credential half of the record store. Get returns
// common.ErrorNotFound when the account has no live credential row; for an
// existing account that is a data-integrity fault, which callers report as
// an internal error rather than Unauthorized.
type Repository interface {
	Create(ctx context.Context, accountID string, passwordHash string) error
	Get(ctx context.Context, accountID string) (*models.Credential, error)
	UpdateRefreshToken(ctx context.Context, accountID string, token *string) error
	UpdatePasswordHash(ctx context.Context, accountID string, hash string) error
	MarkDeleted(ctx context.Context, accountID string, at time.Time) error
}
