package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sugurico/internal/config"
	"sugurico/internal/logger"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DB{
		DbHOST:     "db",
		DbPORT:     "5432",
		DbUSER:     "app",
		DbPASSWORD: "secret",
		DbNAME:     "sugurico",
		DbSSLMODE:  "disable",
	})

	assert.Equal(t, "host=db port=5432 user=app password=secret dbname=sugurico sslmode=disable", dsn)
}

func TestRunMigrations(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer sqlDB.Close()

	db := &DB{DB: sqlx.NewDb(sqlDB, "sqlmock"), log: logger.Discard()}

	t.Run("missing file", func(t *testing.T) {
		err := db.RunMigrations(filepath.Join(t.TempDir(), "nope.sql"))
		assert.Error(t, err)
	})

	t.Run("applies file contents", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "001.sql")
		require.NoError(t, os.WriteFile(path, []byte("CREATE TABLE IF NOT EXISTS t (id int)"), 0o600))

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS t (id int)").WillReturnResult(sqlmock.NewResult(0, 0))

		assert.NoError(t, db.RunMigrations(path))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestHealthCheck_Nil(t *testing.T) {
	var db *DB
	assert.Error(t, db.HealthCheck(context.Background()))
}
