package sqlite

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/userbase/accounts-api/internal/core/domain"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(Config{Path: fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func newAccount(name, email string) *domain.Account {
	return &domain.Account{Name: name, Email: email, PasswordHash: "$2a$10$hash", Role: domain.RoleUser}
}

func TestAccountRepository_CreateAssignsSequentialIDs(t *testing.T) {
	repo := NewAccountRepository(openTestDB(t))
	ctx := context.Background()

	first, err := repo.Create(ctx, newAccount("Ana", "ana@x.io"))
	require.NoError(t, err)
	second, err := repo.Create(ctx, newAccount("Bo", "bo@x.io"))
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	assert.False(t, first.CreatedAt.IsZero())
	assert.Equal(t, domain.RoleUser, first.Role)
}

func TestAccountRepository_CreateDuplicateEmail(t *testing.T) {
	repo := NewAccountRepository(openTestDB(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, newAccount("Ana", "ana@x.io"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newAccount("Other", "ana@x.io"))
	require.ErrorIs(t, err, domain.ErrEmailTaken)
	assert.ErrorIs(t, err, domain.ErrConflict)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestAccountRepository_Find(t *testing.T) {
	repo := NewAccountRepository(openTestDB(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, newAccount("Ana", "ana@x.io"))
	require.NoError(t, err)

	byEmail, err := repo.FindByEmail(ctx, "ana@x.io")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
	assert.Equal(t, "$2a$10$hash", byEmail.PasswordHash)

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", byID.Name)

	_, err = repo.FindByEmail(ctx, "nobody@x.io")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	_, err = repo.FindByID(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAccountRepository_ListOrderedByID(t *testing.T) {
	repo := NewAccountRepository(openTestDB(t))
	ctx := context.Background()

	empty, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	for _, email := range []string{"c@x.io", "a@x.io", "b@x.io"} {
		_, err := repo.Create(ctx, newAccount("n", email))
		require.NoError(t, err)
	}

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"c@x.io", "a@x.io", "b@x.io"}, []string{all[0].Email, all[1].Email, all[2].Email})
}

func TestAccountRepository_Update(t *testing.T) {
	repo := NewAccountRepository(openTestDB(t))
	ctx := context.Background()

	ana, err := repo.Create(ctx, newAccount("Ana", "ana@x.io"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newAccount("Bo", "bo@x.io"))
	require.NoError(t, err)

	ana.Name = "Ana Maria"
	ana.Role = domain.RoleAdmin
	ana.PasswordHash = "must-not-be-written"
	updated, err := repo.Update(ctx, ana)
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", updated.Name)
	assert.Equal(t, domain.RoleAdmin, updated.Role)
	assert.Equal(t, "$2a$10$hash", updated.PasswordHash)

	ana.Email = "bo@x.io"
	_, err = repo.Update(ctx, ana)
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	_, err = repo.Update(ctx, &domain.Account{ID: 42, Name: "x", Email: "x@x.io", Role: domain.RoleUser})
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestAccountRepository_Delete(t *testing.T) {
	repo := NewAccountRepository(openTestDB(t))
	ctx := context.Background()

	ana, err := repo.Create(ctx, newAccount("Ana", "ana@x.io"))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, ana.ID))
	_, err = repo.FindByID(ctx, ana.ID)
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, ana.ID), domain.ErrAccountNotFound)
}

func TestAccountRepository_Ping(t *testing.T) {
	repo := NewAccountRepository(openTestDB(t))
	assert.NoError(t, repo.Ping(context.Background()))
}
