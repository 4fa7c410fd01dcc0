package repomanager

import (
	"context"
	"database/sql"

	"github.com/learninfinity/learninfinity/internal/dbx"
	"github.com/learninfinity/learninfinity/internal/server/repositories/skills"
	"github.com/learninfinity/learninfinity/internal/server/repositories/users"
)

// RepositoryManager hands out repositories bound to a DBTX, which can be the
// shared *sql.DB or a transaction opened with dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Skills(db dbx.DBTX) skills.Repository
}
