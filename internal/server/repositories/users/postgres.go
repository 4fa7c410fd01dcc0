package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/learninfinity/learninfinity/internal/common"
	"github.com/learninfinity/learninfinity/internal/dbx"
	"github.com/learninfinity/learninfinity/internal/server/models"
)

const pgUniqueViolation = "23505"

const userColumns = `id, name, email, password_hash, credits, total_hours_taught,
	total_hours_learned, sessions_completed, joined_date, last_login, is_active`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash,
		&user.Credits, &user.TotalHoursTaught, &user.TotalHoursLearned,
		&user.SessionsCompleted, &user.JoinedDate, &user.LastLogin, &user.IsActive)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (id, name, email, password_hash, credits, joined_date, last_login, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $6, TRUE)
		 RETURNING ` + userColumns

	created, err := scanUser(r.db.QueryRowContext(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Credits, user.JoinedDate))

	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return created, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

// UpdateProfile overwrites name and/or email; empty arguments keep the
// stored value.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, id string, name, email string) (*models.User, error) {
	query :=
		`UPDATE users
		 SET name = COALESCE(NULLIF($2, ''), name),
		     email = COALESCE(NULLIF($3, ''), email)
		 WHERE id = $1
		 RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id, name, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		if isUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE users SET last_login = $2 WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id, at); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// DeductCredit is the single point every deduction goes through, both the
// accrual timer and the explicit endpoint. The `credits > 0` guard makes
// concurrent deductions race-free: only one of them can match the row when
// one credit is left.
func (r *PostgresRepository) DeductCredit(ctx context.Context, id string, at time.Time) (*models.User, error) {
	query :=
		`UPDATE users
		 SET credits = credits - 1,
		     total_hours_learned = total_hours_learned + 1,
		     last_login = $2
		 WHERE id = $1 AND credits > 0
		 RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id, at))
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("db error: %w", err)
	}

	// No row matched: either the user is gone or the balance is exhausted.
	var exists bool
	existsQuery := `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`
	if err := r.db.QueryRowContext(ctx, existsQuery, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if !exists {
		return nil, common.ErrorNotFound
	}
	return nil, common.ErrInsufficientCredits
}

func (r *PostgresRepository) AddCredits(ctx context.Context, id string, hours int64) (*models.User, error) {
	query :=
		`UPDATE users
		 SET credits = credits + $2,
		     total_hours_taught = total_hours_taught + $2,
		     sessions_completed = sessions_completed + 1
		 WHERE id = $1
		 RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id, hours))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}
