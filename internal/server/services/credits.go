package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/learninfinity/learninfinity/internal/server/config"
	"github.com/learninfinity/learninfinity/internal/server/models"
	"github.com/learninfinity/learninfinity/internal/server/repositories/repomanager"
)

// CreditService implements the ledger operations. Every deduction — the
// accrual timer's and the explicit endpoint's — converges on the same
// guarded UPDATE, so no combination of concurrent callers can drive a
// balance negative.
type CreditService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCreditService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *CreditService {
	return &CreditService{db: db, repomanager: m}
}

// Deduct removes one credit and counts one learned hour, returning the
// refreshed user. common.ErrInsufficientCredits when the balance is zero.
func (s *CreditService) Deduct(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).DeductCredit(ctx, userID, time.Now())
	if err != nil {
		return nil, err
	}

	return attachSkills(ctx, s.repomanager.Skills(s.db), user)
}

// Add grants hours credits for teaching, counts the taught hours and one
// completed session, and returns the refreshed user.
func (s *CreditService) Add(ctx context.Context, userID string, hours int64) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).AddCredits(ctx, userID, hours)
	if err != nil {
		return nil, err
	}

	return attachSkills(ctx, s.repomanager.Skills(s.db), user)
}

// AccrueHour is the timer-driven variant of Deduct: same mutation, but the
// caller only needs the remaining balance to decide whether to re-arm.
func (s *CreditService) AccrueHour(ctx context.Context, userID string) (int64, error) {
	user, err := s.repomanager.Users(s.db).DeductCredit(ctx, userID, time.Now())
	if err != nil {
		return 0, err
	}

	return user.Credits, nil
}

// Balance returns the user's current credit balance.
func (s *CreditService) Balance(ctx context.Context, userID string) (int64, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	return user.Credits, nil
}
