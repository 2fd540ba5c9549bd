//go:build integration

package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sepehr-khosravi/mazeh-backend/internal/db/dbtest"
	"github.com/Sepehr-khosravi/mazeh-backend/internal/user/domain"
)

func TestPostgresRepository_Integration(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgresRepository(dbtest.MigratedPool(t))

	alice := &domain.User{Username: "alice", Email: "alice@example.com", PasswordHash: "h"}
	require.NoError(t, repo.Create(ctx, alice))
	require.NotZero(t, alice.ID)

	bob := &domain.User{Username: "bob", PasswordHash: "h"}
	require.NoError(t, repo.Create(ctx, bob))

	got, err := repo.FindByEmailOrUsername(ctx, "ALICE@example.com", "")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, alice.ID, got.ID)

	got, err = repo.FindByEmailOrUsername(ctx, "", "bob")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, bob.ID, got.ID)

	// bob has no email; an empty email lookup must not match him
	got, err = repo.FindByEmailOrUsername(ctx, "", "nobody")
	require.NoError(t, err)
	assert.Nil(t, got)

	err = repo.Create(ctx, &domain.User{Username: "bob", PasswordHash: "h"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	byID, err := repo.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
}
