package users

import (
	"context"
	"time"

	"github.com/learninfinity/learninfinity/internal/server/models"
)

// Repository persists user records. Credit mutations are single guarded
// statements so that concurrent callers serialize on the database row.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, id string, name, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error

	// DeductCredit removes one credit and counts one learned hour. Returns
	// common.ErrInsufficientCredits when the balance is zero and
	// common.ErrorNotFound when the user does not exist.
	DeductCredit(ctx context.Context, id string, at time.Time) (*models.User, error)

	// AddCredits adds hours credits and taught hours and counts one
	// completed session.
	AddCredits(ctx context.Context, id string, hours int64) (*models.User, error)
}
