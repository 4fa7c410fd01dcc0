package skills

import (
	"context"

	"github.com/learninfinity/learninfinity/internal/server/models"
)

// Repository persists the ordered skill lists attached to a user. Rows keep
// a monotonically growing position per (user, side); ordering by position is
// what the legacy index-addressed removal resolves against.
type Repository interface {
	ListBySide(ctx context.Context, userID, side string) ([]models.Skill, error)
	Add(ctx context.Context, userID, side string, skill models.Skill) error

	// Remove deletes one skill row by its stable ID. Returns
	// common.ErrorNotFound when the row does not belong to the user/side.
	Remove(ctx context.Context, userID, side, skillID string) error
}
