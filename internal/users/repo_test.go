package users

import (
	"context"
	"testing"
	"time"

	"github.com/gearghar/gearghar-backend/pkg/enums"
	"github.com/gearghar/gearghar-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  username TEXT UNIQUE,
  password_hash TEXT NOT NULL,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'user',
  status TEXT NOT NULL DEFAULT 'active',
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func seedUser(t *testing.T, repo *Repository, email string) uuid.UUID {
	t.Helper()
	user, err := repo.Create(context.Background(), CreateUserDTO{
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=8,t=1,p=1$c2FsdA$aGFzaA",
		FirstName:    "Jamie",
		LastName:     "Ortega",
	})
	require.NoError(t, err)
	return user.ID
}

func TestCreateAndFindByEmail(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateUserDTO{
		Email:        "Shopper@Example.com",
		PasswordHash: "hash",
		FirstName:    "Sam",
		LastName:     "Reed",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "shopper@example.com", created.Email)
	assert.Equal(t, enums.UserRoleUser, created.Role)
	assert.Equal(t, enums.UserStatusActive, created.Status)

	found, err := repo.FindByEmail(ctx, "  SHOPPER@example.COM ")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}

func TestCreateDuplicateEmailFails(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	ctx := context.Background()

	seedUser(t, repo, "dup@example.com")
	_, err := repo.Create(ctx, CreateUserDTO{
		Email:        "dup@example.com",
		PasswordHash: "hash",
		FirstName:    "Second",
		LastName:     "Entry",
	})
	require.Error(t, err)
}

func TestEmailExists(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	ctx := context.Background()

	seedUser(t, repo, "present@example.com")

	exists, err := repo.EmailExists(ctx, "PRESENT@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.EmailExists(ctx, "absent@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUsernameExists(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	ctx := context.Background()

	username := "jamie_o"
	_, err := repo.Create(ctx, CreateUserDTO{
		Email:        "jamie@example.com",
		Username:     &username,
		PasswordHash: "hash",
		FirstName:    "Jamie",
		LastName:     "Ortega",
	})
	require.NoError(t, err)

	exists, err := repo.UsernameExists(ctx, " Jamie_O ")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.UsernameExists(ctx, "someone_else")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUsersWithoutUsernameDoNotCollide(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))

	seedUser(t, repo, "one@example.com")
	seedUser(t, repo, "two@example.com")
}

func TestUpdateLastLogin(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	ctx := context.Background()

	id := seedUser(t, repo, "login@example.com")
	at := time.Date(2026, 2, 14, 18, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateLastLogin(ctx, id, at))

	user, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, user.LastLoginAt)
	assert.WithinDuration(t, at, *user.LastLoginAt, time.Second)
}

func TestUpdateAppliesOnlyProvidedFields(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	ctx := context.Background()

	id := seedUser(t, repo, "edit@example.com")
	role := enums.UserRoleAdmin
	updated, err := repo.Update(ctx, id, UpdateUserDTO{Role: &role})
	require.NoError(t, err)

	assert.Equal(t, enums.UserRoleAdmin, updated.Role)
	assert.Equal(t, "Jamie", updated.FirstName)

	_, err = repo.Update(ctx, uuid.New(), UpdateUserDTO{Role: &role})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDelete(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	ctx := context.Background()

	id := seedUser(t, repo, "gone@example.com")
	require.NoError(t, repo.Delete(ctx, id))

	_, err := repo.FindByID(ctx, id)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, id), gorm.ErrRecordNotFound)
}

func TestListPaginates(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		id := seedUser(t, repo, uuid.NewString()+"@example.com")
		// Spread created_at so ordering is deterministic.
		require.NoError(t, db.Exec(
			"UPDATE users SET created_at = ? WHERE id = ?",
			base.Add(time.Duration(i)*time.Hour), id,
		).Error)
	}

	first, cursor, err := repo.List(ctx, pagination.Params{Limit: 3})
	require.NoError(t, err)
	require.Len(t, first, 3)
	require.NotNil(t, cursor)

	second, next, err := repo.List(ctx, pagination.Params{
		Limit:  3,
		Cursor: pagination.EncodeCursor(*cursor),
	})
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Nil(t, next)

	assert.True(t, first[0].CreatedAt.After(second[len(second)-1].CreatedAt))
}

func TestCountByRole(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedUser(t, repo, "one@example.com")
	id := seedUser(t, repo, "two@example.com")
	role := enums.UserRoleAdmin
	_, err := repo.Update(ctx, id, UpdateUserDTO{Role: &role})
	require.NoError(t, err)

	counts, err := repo.CountByRole(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts["user"])
	assert.Equal(t, int64(1), counts["admin"])
}

func TestSplitName(t *testing.T) {
	first, last := SplitName("Dana Whitfield")
	assert.Equal(t, "Dana", first)
	assert.Equal(t, "Whitfield", last)

	first, last = SplitName("Cher")
	assert.Equal(t, "Cher", first)
	assert.Equal(t, "", last)

	first, last = SplitName("  Ana  Maria  Silva ")
	assert.Equal(t, "Ana", first)
	assert.Equal(t, "Maria  Silva", last)

	first, last = SplitName("   ")
	assert.Equal(t, "", first)
	assert.Equal(t, "", last)
}
