// Package repomanager vends repository implementations and owns schema
// migrations, so services stay independent of the concrete storage backend.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/thecollekta/airbnb-clone-project/internal/dbx"
	"github.com/thecollekta/airbnb-clone-project/internal/server/repositories/accounts"
)

type RepositoryManager interface {
	Accounts(db dbx.DBTX) accounts.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
