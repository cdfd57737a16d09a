package services

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/realestate-app/models"
	"github.com/yeremiapane/realestate-app/utils"
)

func TestCreateUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u, err := env.users.CreateUser(ctx, CreateUserInput{Email: " New@Example.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", u.Email)
	assert.Equal(t, models.NewRoleSet(models.RoleUser), u.Roles)
	assert.Equal(t, models.UserStatusActive, u.Status)
	assert.NotEqual(t, "secret1", u.Password)

	_, err = env.users.CreateUser(ctx, CreateUserInput{Email: "new@example.com", Password: "secret1"})
	assert.EqualError(t, err, "Email already exists")

	notifs, err := env.notifications.GetForUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	assert.Equal(t, models.PurposeUserRegistered, notifs[0].Purpose)
}

func TestDeleteUserProtectsAdmins(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.newUser(t, "admin@example.com", models.RoleAdmin)
	other := env.newUser(t, "other@example.com", models.RoleAdmin, models.RoleUser)
	user := env.newUser(t, "user@example.com", models.RoleUser)

	err := env.users.DeleteUser(ctx, admin, other.UserID)
	assert.True(t, errors.Is(err, utils.ErrUnauthorized))

	require.NoError(t, env.users.DeleteUser(ctx, admin, user.UserID))
	_, err = env.users.FindByID(ctx, user.UserID)
	assert.True(t, errors.Is(err, utils.ErrNotFound))

	entries, err := env.history.GetForUser(ctx, admin.UserID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.ActionUserDeleted, entries[0].Action)
}

func TestRequestRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.newUser(t, "user@example.com", models.RoleUser, models.RoleBuyer)

	assert.EqualError(t, env.users.RequestRole(ctx, user, "admin"), "Invalid role")
	assert.EqualError(t, env.users.RequestRole(ctx, user, "wizard"), "Invalid role")
	assert.EqualError(t, env.users.RequestRole(ctx, user, "buyer"), "User already has role buyer")

	require.NoError(t, env.users.RequestRole(ctx, user, "seller"))
	notifs, err := env.notifications.GetForUser(ctx, user.UserID)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	assert.Equal(t, models.PurposeRoleRequest, notifs[0].Purpose)
}

func TestUpgradeRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.newUser(t, "admin@example.com", models.RoleAdmin)
	user := env.newUser(t, "user@example.com", models.RoleUser)

	_, err := env.users.UpgradeRole(ctx, admin, user.UserID, "landlord", true)
	assert.EqualError(t, err, "Invalid role")

	u, err := env.users.UpgradeRole(ctx, admin, user.UserID, "seller", true)
	require.NoError(t, err)
	assert.True(t, u.Roles.Has(models.RoleSeller))

	u, err = env.users.UpgradeRole(ctx, admin, user.UserID, "seller", true)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, u.Roles.Ints())

	u, err = env.users.UpgradeRole(ctx, admin, user.UserID, "seller", false)
	require.NoError(t, err)
	assert.False(t, u.Roles.Has(models.RoleSeller))

	_, err = env.users.UpgradeRole(ctx, admin, admin.UserID, "admin", false)
	assert.True(t, errors.Is(err, utils.ErrBadRequest))
}

func TestFindAllUsers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.newUser(t, "b@example.com", models.RoleUser)
	env.newUser(t, "a@example.com", models.RoleUser, models.RoleAgent)
	env.newUser(t, "c@example.com", models.RoleAdmin)

	page, err := env.users.FindAll(ctx, UserListQuery{Role: "user", Sort: "email", Order: "asc"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
	assert.Equal(t, 10, page.Limit)
	require.Len(t, page.Users, 2)
	assert.Equal(t, "a@example.com", page.Users[0].Email)

	_, err = env.users.FindAll(ctx, UserListQuery{CreatedAfter: "yesterday"})
	assert.True(t, errors.Is(err, utils.ErrBadRequest))

	agents, err := env.users.FindActiveAgents(ctx)
	require.NoError(t, err)
	assert.Len(t, agents, 1)
}

func TestUpdateProfileAndPhoto(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.newUser(t, "user@example.com", models.RoleUser)

	first := "Ayu"
	u, err := env.users.UpdateProfile(ctx, user, UpdateProfileInput{
		FirstName: &first,
		Address:   &models.Address{City: "Bogor", ZipCode: "16111"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Ayu", u.FirstName)
	assert.Equal(t, "Bogor", u.Address.City)

	_, err = env.users.UploadProfileImage(ctx, user, nil)
	assert.True(t, errors.Is(err, utils.ErrBadRequest))

	u, err = env.users.UploadProfileImage(ctx, user, &multipart.FileHeader{Filename: "me.png"})
	require.NoError(t, err)
	require.Len(t, u.ProfilePhotos, 1)
	assert.Contains(t, u.ProfilePhotos[0], "/profile/")
}
