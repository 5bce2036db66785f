package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/cmlabs-hris/erp-backend-go/internal/pkg/database"
)

const schema = `
CREATE EXTENSION IF NOT EXISTS pgcrypto;

CREATE TABLE IF NOT EXISTS users (
	id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	provider_id TEXT UNIQUE,
	email       TEXT NOT NULL,
	name        TEXT NOT NULL,
	role        TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON users (LOWER(email));

CREATE TABLE IF NOT EXISTS departments (
	id               UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	name             TEXT NOT NULL UNIQUE,
	description      TEXT,
	manager_email    TEXT,
	location         TEXT,
	budget           NUMERIC(15,2),
	status           TEXT NOT NULL DEFAULT 'ACTIVE',
	established_date DATE NOT NULL DEFAULT CURRENT_DATE,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS employees (
	id                UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	user_id           UUID NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
	employee_code     TEXT NOT NULL UNIQUE,
	first_name        TEXT NOT NULL,
	last_name         TEXT NOT NULL,
	phone             TEXT,
	address           TEXT,
	position          TEXT NOT NULL,
	department_id     UUID REFERENCES departments(id) ON DELETE RESTRICT,
	salary            NUMERIC(15,2) NOT NULL DEFAULT 0,
	hire_date         DATE NOT NULL DEFAULT CURRENT_DATE,
	emergency_contact TEXT,
	status            TEXT NOT NULL DEFAULT 'ACTIVE',
	created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS attendances (
	id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	user_id    UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	date       DATE NOT NULL,
	check_in   TIMESTAMPTZ,
	check_out  TIMESTAMPTZ,
	status     TEXT,
	notes      TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (user_id, date)
);

CREATE TABLE IF NOT EXISTS payrolls (
	id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	user_id      UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	month        INT NOT NULL,
	year         INT NOT NULL,
	basic_salary NUMERIC(15,2) NOT NULL DEFAULT 0,
	allowances   NUMERIC(15,2) NOT NULL DEFAULT 0,
	deductions   NUMERIC(15,2) NOT NULL DEFAULT 0,
	net_salary   NUMERIC(15,2) NOT NULL DEFAULT 0,
	status       TEXT NOT NULL DEFAULT 'PENDING',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (user_id, month, year)
);
`

// TestDatabaseSetup initializes the integration test database
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies the schema. The
// test is skipped when the variable is unset.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolConfig{MaxConns: 4, MinConns: 1})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if _, err := db.Exec(ctx, schema); err != nil {
		db.Close()
		t.Fatalf("failed to apply schema: %v", err)
	}

	setup := &TestDatabaseSetup{DB: db}
	if err := setup.TruncateAllTables(ctx); err != nil {
		db.Close()
		t.Fatalf("failed to truncate: %v", err)
	}
	t.Cleanup(setup.Close)
	return setup
}

// TruncateAllTables removes all rows from the tables
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := t.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"payrolls",
		"attendances",
		"employees",
		"departments",
		"users",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

// Close closes the database connection
func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}
