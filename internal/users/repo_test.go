package users

import (
	"context"
	"testing"

	"github.com/equilog/equilog-backend/internal/memberships"
	"github.com/equilog/equilog-backend/internal/testdb"
	"github.com/equilog/equilog-backend/pkg/db/models"
	"github.com/equilog/equilog-backend/pkg/enums"
	pkgerrors "github.com/equilog/equilog-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryFindByEmailIsCaseInsensitive(t *testing.T) {
	conn := testdb.Open(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateUserDTO{FirstName: "Ella", LastName: "Ek", Email: " Ella@Example.com", PasswordHash: "h"})
	require.NoError(t, err)
	assert.Equal(t, "ella@example.com", created.Email)

	found, err := repo.FindByEmail(ctx, "ELLA@example.COM")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}

func TestServiceProfileListsOnlyHorsesInStable(t *testing.T) {
	conn := testdb.Open(t)
	ctx := context.Background()

	user := testdb.SeedUser(t, conn, "Ella", "Ek")
	stable := testdb.SeedStable(t, conn, "Oak")
	other := testdb.SeedStable(t, conn, "Birch")
	testdb.SeedMembership(t, conn, user.ID, stable.ID, enums.StableRoleAdmin)

	housed := models.Horse{Name: "Spirit"}
	elsewhere := models.Horse{Name: "Comet"}
	require.NoError(t, conn.Create(&housed).Error)
	require.NoError(t, conn.Create(&elsewhere).Error)
	require.NoError(t, conn.Create(&models.StableHorse{StableID: stable.ID, HorseID: housed.ID}).Error)
	require.NoError(t, conn.Create(&models.StableHorse{StableID: other.ID, HorseID: elsewhere.ID}).Error)
	require.NoError(t, conn.Create(&models.UserHorse{UserID: user.ID, HorseID: housed.ID, UserRole: enums.HorseRoleOwner}).Error)
	require.NoError(t, conn.Create(&models.UserHorse{UserID: user.ID, HorseID: elsewhere.ID, UserRole: enums.HorseRoleRider}).Error)

	svc, err := NewService(NewRepository(conn), memberships.NewRepository(conn))
	require.NoError(t, err)

	profile, err := svc.Profile(ctx, user.ID, stable.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.StableRoleAdmin, profile.UserStableRole.Role)
	require.Len(t, profile.UserHorseRoles, 1)
	assert.Equal(t, "Spirit", profile.UserHorseRoles[0].HorseName)
	assert.Equal(t, enums.HorseRoleOwner, profile.UserHorseRoles[0].UserRole)

	_, err = svc.Profile(ctx, user.ID, other.ID)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestServiceDeleteCascadesMemberships(t *testing.T) {
	conn := testdb.Open(t)
	ctx := context.Background()

	user := testdb.SeedUser(t, conn, "Ella", "Ek")
	stable := testdb.SeedStable(t, conn, "Oak")
	testdb.SeedMembership(t, conn, user.ID, stable.ID, enums.StableRoleMember)

	svc, err := NewService(NewRepository(conn), memberships.NewRepository(conn))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, user.ID))
	assert.Zero(t, testdb.Count(t, conn, "user_stables", "user_id = ?", user.ID))

	err = svc.Delete(ctx, user.ID)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestServiceUpdateAndPicture(t *testing.T) {
	conn := testdb.Open(t)
	ctx := context.Background()
	user := testdb.SeedUser(t, conn, "Ella", "Ek")

	svc, err := NewService(NewRepository(conn), memberships.NewRepository(conn))
	require.NoError(t, err)

	desc := "Rides dressage"
	require.NoError(t, svc.Update(ctx, UpdateUserInput{ID: user.ID, FirstName: "Elin", LastName: "Ek", Email: user.Email, Description: &desc}))
	require.NoError(t, svc.SetProfilePicture(ctx, user.ID, "https://blob/pic.png"))

	got, err := svc.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Elin", got.FirstName)
	require.NotNil(t, got.Description)
	assert.Equal(t, desc, *got.Description)
	require.NotNil(t, got.ProfilePicture)
	assert.Equal(t, "https://blob/pic.png", *got.ProfilePicture)

	err = svc.SetProfilePicture(ctx, 9999, "x")
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}
