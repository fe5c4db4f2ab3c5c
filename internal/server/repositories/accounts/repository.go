package accounts

import (
	"context"
	"time"

	"github.com/nihil-template/nihil-auth/internal/server/models"
)

// Repository is the account half of the record store. Lookups return
// common.ErrorNotFound when no live (non-withdrawn) row matches.
type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	List(ctx context.Context, limit, offset int) ([]*models.Account, error)
	UpdateProfile(ctx context.Context, id string, name string, bio *string) (*models.Account, error)
	UpdateProfileImage(ctx context.Context, id string, key string) (*models.Account, error)
	TouchLastLogin(ctx context.Context, id string) error
	MarkWithdrawn(ctx context.Context, id string, at time.Time) error
}
