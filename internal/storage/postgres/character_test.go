package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/undercroft-game/undercroft/internal/game/character"
	"github.com/undercroft-game/undercroft/internal/storage/postgres"
	"github.com/undercroft-game/undercroft/internal/testutil"
)

func uniqueName(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
}

func setupCharRepos(t *testing.T) (*postgres.CharacterRepository, int64) {
	t.Helper()
	pool := testutil.NewPool(t)
	acctRepo := postgres.NewAccountRepository(pool)
	acct, err := acctRepo.Create(context.Background(), uniqueName("user"), "password123")
	require.NoError(t, err)
	return postgres.NewCharacterRepository(pool), acct.ID
}

func makeTestCharacter(accountID int64, name string) *character.Character {
	return &character.Character{
		AccountID: accountID,
		Name:      name,
		Archetype: "delver",
		Location:  "gate_hall",
	}
}

func TestCharacterRepository_Create(t *testing.T) {
	repo, accountID := setupCharRepos(t)
	ctx := context.Background()

	c := makeTestCharacter(accountID, "Zara")
	created, err := repo.Create(ctx, c)
	require.NoError(t, err)

	assert.Greater(t, created.ID, int64(0))
	assert.Equal(t, accountID, created.AccountID)
	assert.Equal(t, "Zara", created.Name)
	assert.Equal(t, "delver", created.Archetype)
	assert.Equal(t, "gate_hall", created.Location)
	assert.False(t, created.CreatedAt.IsZero())
	assert.False(t, created.UpdatedAt.IsZero())
}

func TestCharacterRepository_DuplicateNameError(t *testing.T) {
	repo, accountID := setupCharRepos(t)
	ctx := context.Background()

	c := makeTestCharacter(accountID, "Zara")
	_, err := repo.Create(ctx, c)
	require.NoError(t, err)

	_, err = repo.Create(ctx, c) // same name, same account
	require.Error(t, err)
	assert.ErrorIs(t, err, postgres.ErrCharacterNameTaken)
}

func TestCharacterRepository_ListByAccount(t *testing.T) {
	repo, accountID := setupCharRepos(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, makeTestCharacter(accountID, "Alpha"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, makeTestCharacter(accountID, "Beta"))
	require.NoError(t, err)

	chars, err := repo.ListByAccount(ctx, accountID)
	require.NoError(t, err)
	assert.Len(t, chars, 2)
}

func TestCharacterRepository_ListByAccount_Empty(t *testing.T) {
	repo, accountID := setupCharRepos(t)
	chars, err := repo.ListByAccount(context.Background(), accountID)
	require.NoError(t, err)
	assert.NotNil(t, chars)
	assert.Empty(t, chars)
}

func TestCharacterRepository_GetByID(t *testing.T) {
	repo, accountID := setupCharRepos(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, makeTestCharacter(accountID, "Zara"))
	require.NoError(t, err)

	fetched, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "Zara", fetched.Name)
	assert.Equal(t, "delver", fetched.Archetype)
}

func TestCharacterRepository_GetByID_NotFound(t *testing.T) {
	repo, _ := setupCharRepos(t)
	_, err := repo.GetByID(context.Background(), 99999999)
	require.Error(t, err)
	assert.ErrorIs(t, err, postgres.ErrCharacterNotFound)
}

func TestCharacterRepository_UpdateLocation(t *testing.T) {
	repo, accountID := setupCharRepos(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, makeTestCharacter(accountID, "Zara"))
	require.NoError(t, err)

	err = repo.UpdateLocation(ctx, created.ID, "sunken_archive")
	require.NoError(t, err)

	fetched, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "sunken_archive", fetched.Location)
	assert.True(t, fetched.UpdatedAt.After(created.UpdatedAt) || fetched.UpdatedAt.Equal(created.UpdatedAt))
}

func TestCharacterRepository_UpdateLocation_NotFound(t *testing.T) {
	repo, _ := setupCharRepos(t)
	err := repo.UpdateLocation(context.Background(), 99999999, "gate_hall")
	require.Error(t, err)
	assert.ErrorIs(t, err, postgres.ErrCharacterNotFound)
}

func TestCharacterRepository_Delete(t *testing.T) {
	repo, accountID := setupCharRepos(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, makeTestCharacter(accountID, "Zara"))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))

	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, postgres.ErrCharacterNotFound)
}

func TestCharacterRepository_Delete_NotFound(t *testing.T) {
	repo, _ := setupCharRepos(t)
	err := repo.Delete(context.Background(), 99999999)
	require.Error(t, err)
	assert.ErrorIs(t, err, postgres.ErrCharacterNotFound)
}

// setupCharReposShared creates a single pool and account repository for use across
// multiple rapid iterations within one property test. Each iteration creates a fresh
// account to ensure isolation without spawning a new container per iteration.
func setupCharReposShared(t *testing.T) (*postgres.CharacterRepository, *postgres.AccountRepository) {
	t.Helper()
	pool := testutil.NewPool(t)
	return postgres.NewCharacterRepository(pool), postgres.NewAccountRepository(pool)
}

// TestCharacterRepository_Property_CreateThenGetByID verifies that for any valid
// character fields, Create followed by GetByID returns a character equal to the one created.
func TestCharacterRepository_Property_CreateThenGetByID(t *testing.T) {
	charRepo, acctRepo := setupCharReposShared(t)
	ctx := context.Background()

	rapid.Check(t, func(rt *rapid.T) {
		acct, err := acctRepo.Create(ctx, uniqueName("user"), "pass")
		require.NoError(t, err)

		name := rapid.StringMatching(`[A-Za-z][A-Za-z0-9]{1,10}`).Draw(rt, "name")
		loc := rapid.SampledFrom([]string{"gate_hall", "sunken_archive", "bone_gallery"}).Draw(rt, "loc")
		c := &character.Character{
			AccountID: acct.ID,
			Name:      name,
			Archetype: "delver",
			Location:  loc,
		}

		created, err := charRepo.Create(ctx, c)
		require.NoError(t, err)

		fetched, err := charRepo.GetByID(ctx, created.ID)
		require.NoError(t, err)

		assert.Equal(t, created.ID, fetched.ID)
		assert.Equal(t, name, fetched.Name)
		assert.Equal(t, loc, fetched.Location)
	})
}

// TestCharacterRepository_Property_ListCountMatchesCreates verifies that ListByAccount
// returns exactly as many characters as were created for a given account.
func TestCharacterRepository_Property_ListCountMatchesCreates(t *testing.T) {
	charRepo, acctRepo := setupCharReposShared(t)
	ctx := context.Background()

	rapid.Check(t, func(rt *rapid.T) {
		acct, err := acctRepo.Create(ctx, uniqueName("user"), "pass")
		require.NoError(t, err)

		n := rapid.IntRange(0, 5).Draw(rt, "count")
		for i := 0; i < n; i++ {
			_, err := charRepo.Create(ctx, makeTestCharacter(acct.ID, fmt.Sprintf("Char%d", i)))
			require.NoError(t, err)
		}

		chars, err := charRepo.ListByAccount(ctx, acct.ID)
		require.NoError(t, err)
		assert.Len(t, chars, n)
	})
}
