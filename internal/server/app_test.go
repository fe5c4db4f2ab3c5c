package server

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/nihil-template/nihil-auth/internal/server/config"
)

func TestNewApp_MigrationFailureClosesDB(t *testing.T) {
	orig := openDB
	t.Cleanup(func() { openDB = orig })

	// no expectations registered: the first migration query fails, and the
	// connection must be released on that path
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	mock.ExpectClose()

	openDB = func(driverName, dsn string) (*sql.DB, error) {
		return db, nil
	}

	cfg := &config.Config{}
	cfg.LoadDefaults()
	if _, err := NewApp(context.Background(), cfg); err == nil {
		t.Fatalf("expected migration error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("db not closed after migration failure: %v", err)
	}
}
