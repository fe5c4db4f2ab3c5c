// Package repomanager binds repositories to a database handle. Services ask
// the manager for repositories per call, passing either the pooled *sql.DB
// or a transaction, so the same code paths work inside and outside an
// atomic unit of work.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/nihil-template/nihil-auth/internal/dbx"
	"github.com/nihil-template/nihil-auth/internal/server/repositories/accounts"
	"github.com/nihil-template/nihil-auth/internal/server/repositories/credentials"
)

type RepositoryManager interface {
	Accounts(db dbx.DBTX) accounts.Repository
	Credentials(db dbx.DBTX) credentials.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
