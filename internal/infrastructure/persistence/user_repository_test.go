package persistence

import (
	"context"
	"fmt"
	"testing"

	"github.com/landmarket/backend/internal/domain/identity"
	"github.com/landmarket/backend/internal/domain/media"
	"github.com/landmarket/backend/internal/domain/shared"
	"github.com/landmarket/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormUserRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "jane@example.com")

	t.Run("find by pk", func(t *testing.T) {
		got, err := repo.FindByPk(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "jane@example.com", got.Email)

		_, err = repo.FindByPk(ctx, 9999)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("find by email ignores case", func(t *testing.T) {
		got, err := repo.FindByEmail(ctx, "JANE@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)

		_, err = repo.FindByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("check user exists", func(t *testing.T) {
		ok, err := repo.CheckUserExists(ctx, "jane@example.com")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.CheckUserExists(ctx, "ghost@example.com")
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = repo.CheckUserExists(ctx, "")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("is admin", func(t *testing.T) {
		ok, err := repo.IsAdmin(ctx, user.ID)
		require.NoError(t, err)
		assert.False(t, ok)

		user.Role = identity.RoleAdmin
		require.NoError(t, repo.Update(ctx, user))
		ok, err = repo.IsAdmin(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.IsAdmin(ctx, 9999)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("duplicate email", func(t *testing.T) {
		dup, err := identity.NewUser("jane@example.com", "", "", "secret1")
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Create(ctx, dup), shared.ErrAlreadyExists)
	})

	t.Run("update missing user", func(t *testing.T) {
		ghost := &identity.User{BaseEntity: shared.BaseEntity{ID: 9999}, Email: "ghost@example.com", PasswordHash: "x"}
		assert.ErrorIs(t, repo.Update(ctx, ghost), shared.ErrNotFound)
	})
}

func TestGormUserRepository_DeleteRemovesSeller(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	seller := seedSeller(t, db, "gone@example.com")
	logo, err := media.NewImage(seller.Owner(), "logo.jpg", media.RenditionLogo)
	require.NoError(t, err)
	require.NoError(t, NewGormImageRepository(db).Save(ctx, logo))

	require.NoError(t, repo.Delete(ctx, seller.UserID))

	_, err = NewGormSellerRepository(db).FindByPk(ctx, seller.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	var images int64
	require.NoError(t, db.Model(&models.ImageModel{}).Count(&images).Error)
	assert.Zero(t, images)

	assert.ErrorIs(t, repo.Delete(ctx, seller.UserID), shared.ErrNotFound)
}

func TestGormAdminRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormAdminRepository(db)
	users := NewGormUserRepository(db)
	ctx := context.Background()

	names := [][2]string{{"Alice", "Stone"}, {"Bob", "Alison"}, {"Carl", "Marx"}, {"Dana", "Scully"}, {"Eve", "Polastri"}, {"Fay", "Wray"}, {"Gus", "Fring"}}
	var ids []uint64
	for i, n := range names {
		u, err := identity.NewUser(fmt.Sprintf("user%d@example.com", i), n[0], n[1], "secret1")
		require.NoError(t, err)
		if n[0] == "Carl" {
			u.Role = identity.RoleAdmin
		}
		require.NoError(t, users.Create(ctx, u))
		ids = append(ids, u.ID)
	}

	t.Run("get all users paginates by id", func(t *testing.T) {
		first, err := repo.GetAllUsers(ctx, shared.NewPage(1))
		require.NoError(t, err)
		assert.Len(t, first.Items, 5)
		assert.Equal(t, int64(7), first.Total)
		assert.Equal(t, ids[0], first.Items[0].ID)

		second, err := repo.GetAllUsers(ctx, shared.NewPage(2))
		require.NoError(t, err)
		assert.Len(t, second.Items, 2)
	})

	t.Run("name matches first or last name", func(t *testing.T) {
		page, err := repo.FindUsers(ctx, identity.UserFilters{"name": "ali"}, shared.NewPage(1))
		require.NoError(t, err)
		require.Len(t, page.Items, 2)
		assert.Equal(t, "Alice", page.Items[0].FirstName)
		assert.Equal(t, "Bob", page.Items[1].FirstName)
	})

	t.Run("role and unknown keys", func(t *testing.T) {
		page, err := repo.FindUsers(ctx, identity.UserFilters{"role": "1", "password": "x"}, shared.NewPage(1))
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "Carl", page.Items[0].FirstName)

		page, err = repo.FindUsers(ctx, identity.UserFilters{"role": "admin"}, shared.NewPage(1))
		require.NoError(t, err)
		assert.Empty(t, page.Items)
	})

	t.Run("email substring", func(t *testing.T) {
		page, err := repo.FindUsers(ctx, identity.UserFilters{"email": "USER3@"}, shared.NewPage(1))
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "Dana", page.Items[0].FirstName)
	})

	t.Run("users by ids", func(t *testing.T) {
		got, err := repo.FindUsersByIDs(ctx, []uint64{ids[4], ids[1]})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, ids[1], got[0].ID)

		all, err := repo.FindUsersByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Len(t, all, 7)
	})

	t.Run("wildcards in filters match literally", func(t *testing.T) {
		for _, f := range []identity.UserFilters{{"email": "_"}, {"email": "%"}, {"name": "a_i"}, {"name": `\`}} {
			page, err := repo.FindUsers(ctx, f, shared.NewPage(1))
			require.NoError(t, err)
			assert.Empty(t, page.Items, "%v", f)
			assert.Zero(t, page.Total, "%v", f)
		}

		u, err := identity.NewUser("under_score@example.com", "Hal", "Percent", "secret1")
		require.NoError(t, err)
		require.NoError(t, users.Create(ctx, u))

		page, err := repo.FindUsers(ctx, identity.UserFilters{"email": "er_"}, shared.NewPage(1))
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, u.ID, page.Items[0].ID)
	})

	t.Run("page past the end", func(t *testing.T) {
		page, err := repo.GetAllUsers(ctx, shared.NewPage(1<<62))
		require.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.Equal(t, int64(8), page.Total)
	})
}
