package errors

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumpCapturesPgxFields(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key", TableName: "users", Message: "duplicate key"}
	err := Wrap(CodeInternal, fmt.Errorf("create user: %w", pgErr), "register")

	d := Dump(err)
	assert.Equal(t, CodeInternal, d.Code)
	assert.Equal(t, DriverPostgres, d.Driver)
	assert.Equal(t, "23505", d.DBCode)
	assert.Equal(t, "users_username_key", d.DBConstraint)
	assert.Equal(t, "users", d.DBTable)
	assert.Len(t, d.Chain, 3)
}

func TestDumpCapturesPqFields(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pq.Error{Code: "23505", Constraint: "users_email_key", Table: "users"})

	d := Dump(err)
	assert.Empty(t, d.Code)
	assert.Equal(t, "23505", d.DBCode)
	assert.Equal(t, "users_email_key", d.DBConstraint)
}

func TestDumpNil(t *testing.T) {
	assert.Equal(t, ErrorDump{}, Dump(nil))
}

func TestDumpCapturesSQLiteConstraint(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE users (id INTEGER PRIMARY KEY, email TEXT UNIQUE)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO users (email) VALUES ('a@farm.com')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO users (email) VALUES ('a@farm.com')`)
	require.Error(t, err)

	d := Dump(Wrap(CodeValidation, fmt.Errorf("create user: %w", err), "Email already registered"))
	assert.Equal(t, DriverSQLite, d.Driver)
	assert.Equal(t, "2067", d.DBCode)
	assert.Equal(t, "users", d.DBTable)
	assert.Equal(t, "email", d.DBColumn)
	assert.Equal(t, "users.email", d.DBConstraint)

	fields := d.Fields()
	assert.Equal(t, "users", fields["db_table"])
	assert.NotContains(t, fields, "db_detail")
}

func TestDumpFieldsWithoutDriver(t *testing.T) {
	fields := Dump(New(CodeNotFound, "User not found")).Fields()
	assert.Equal(t, CodeNotFound, fields["error_code"])
	assert.NotContains(t, fields, "db_driver")
}

func TestSQLiteConstraintTarget(t *testing.T) {
	table, column := sqliteConstraintTarget("UNIQUE constraint failed: users.username, users.email")
	assert.Equal(t, "users", table)
	assert.Equal(t, "username", column)

	table, column = sqliteConstraintTarget("no such table: users")
	assert.Empty(t, table)
	assert.Empty(t, column)
}
