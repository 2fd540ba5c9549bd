//go:build integration

package migrate_test

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sepehr-khosravi/mazeh-backend/internal/db/dbtest"
	"github.com/Sepehr-khosravi/mazeh-backend/internal/db/migrate"
)

func tableExists(ctx context.Context, t *testing.T, dsn, table string) bool {
	t.Helper()
	conn, err := pgx.Connect(ctx, dsn)
	require.NoError(t, err)
	defer conn.Close(ctx)

	var exists bool
	err = conn.QueryRow(ctx, `SELECT EXISTS (
		SELECT FROM information_schema.tables
		WHERE table_schema = 'public' AND table_name = $1
	)`, table).Scan(&exists)
	require.NoError(t, err)
	return exists
}

func TestRun_UpDownUp(t *testing.T) {
	ctx := context.Background()
	dsn := dbtest.StartPostgres(t)

	require.NoError(t, migrate.Run(dsn, "up"))
	for _, table := range []string{"users", "recipes", "recipe_steps", "materials", "audit_logs"} {
		assert.True(t, tableExists(ctx, t, dsn, table), "table %s missing after up", table)
	}

	// second up is a no-op, not an error
	require.NoError(t, migrate.Run(dsn, "up"))

	require.NoError(t, migrate.Run(dsn, "down"))
	assert.False(t, tableExists(ctx, t, dsn, "users"))

	require.NoError(t, migrate.Run(dsn, "up"))
	assert.True(t, tableExists(ctx, t, dsn, "users"))
}

func TestSchema_UserIdentifierIndexes(t *testing.T) {
	ctx := context.Background()
	dsn := dbtest.StartPostgres(t)
	require.NoError(t, migrate.Run(dsn, "up"))

	conn, err := pgx.Connect(ctx, dsn)
	require.NoError(t, err)
	defer conn.Close(ctx)

	insert := `INSERT INTO users (username, email, password_hash) VALUES ($1, $2, 'x')`

	// absent identifiers are stored as '' and must not collide with each other
	_, err = conn.Exec(ctx, insert, "alice", "")
	require.NoError(t, err)
	_, err = conn.Exec(ctx, insert, "bob", "")
	require.NoError(t, err)

	_, err = conn.Exec(ctx, insert, "", "Carol@Example.com")
	require.NoError(t, err)
	_, err = conn.Exec(ctx, insert, "", "carol@example.com")
	assert.Error(t, err, "email uniqueness should be case-insensitive")

	_, err = conn.Exec(ctx, insert, "", "")
	assert.Error(t, err, "a user needs at least one identifier")
}
