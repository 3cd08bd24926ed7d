package postgresql_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/require"
)

// TestDatabaseSetup holds a migrated connection to the test database
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies migrations.
// The test is skipped when the variable is unset.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.Connect(context.Background(), database.PoolConfig{DSN: dsn, MaxConns: 8})
	require.NoError(t, err)

	_, err = postgresql.Migrate(context.Background(), db, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	setup := &TestDatabaseSetup{DB: db}
	require.NoError(t, setup.TruncateAllTables(context.Background()))
	t.Cleanup(setup.Close)
	return setup
}

// TruncateAllTables empties every application table
func (s *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := s.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"notification_preferences",
		"notifications",
		"public_holidays",
		"shifts",
		"salary_policies",
		"workplace_members",
		"workplaces",
	}

	for _, table := range tables {
		if _, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

// SeedWorkplace inserts a workplace with the given members
func (s *TestDatabaseSetup) SeedWorkplace(t *testing.T, id, ownerID, name string, members ...string) {
	t.Helper()
	ctx := context.Background()

	_, err := s.DB.Exec(ctx, `INSERT INTO workplaces (id, owner_id, name) VALUES ($1, $2, $3)`, id, ownerID, name)
	require.NoError(t, err)
	for _, m := range members {
		_, err := s.DB.Exec(ctx, `INSERT INTO workplace_members (workplace_id, worker_id) VALUES ($1, $2)`, id, m)
		require.NoError(t, err)
	}
}

func (s *TestDatabaseSetup) Close() {
	s.DB.Close()
}
