package skills

import (
	"context"
	"fmt"

	"github.com/learninfinity/learninfinity/internal/common"
	"github.com/learninfinity/learninfinity/internal/dbx"
	"github.com/learninfinity/learninfinity/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListBySide(ctx context.Context, userID, side string) ([]models.Skill, error) {
	query :=
		`SELECT id, skill, category, level, description FROM skills
		 WHERE user_id = $1 AND side = $2
		 ORDER BY position`

	rows, err := r.db.QueryContext(ctx, query, userID, side)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	list := []models.Skill{}
	for rows.Next() {
		var s models.Skill
		if err := rows.Scan(&s.ID, &s.Name, &s.Category, &s.Level, &s.Description); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return list, nil
}

// Add appends at the tail of the side's list. The position subquery and the
// insert run as one statement, so two concurrent appends cannot pick the
// same slot without one of them failing the unique index and surfacing the
// error to the caller.
func (r *PostgresRepository) Add(ctx context.Context, userID, side string, skill models.Skill) error {
	query :=
		`INSERT INTO skills (id, user_id, side, skill, category, level, description, position)
		 SELECT $1, $2, $3, $4, $5, $6, $7, COALESCE(MAX(position) + 1, 0)
		 FROM skills WHERE user_id = $2 AND side = $3`

	if _, err := r.db.ExecContext(ctx, query,
		skill.ID, userID, side, skill.Name, skill.Category, skill.Level, skill.Description); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Remove(ctx context.Context, userID, side, skillID string) error {
	query := `DELETE FROM skills WHERE id = $1 AND user_id = $2 AND side = $3`

	res, err := r.db.ExecContext(ctx, query, skillID, userID, side)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}
