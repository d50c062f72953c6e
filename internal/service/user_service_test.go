package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svgecommerce/internal/access"
	"svgecommerce/internal/errors"
)

func registerInput(email string) RegisterInput {
	return RegisterInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Suffix:    "II",
		Email:     email,
		Password:  "s3cret-pass",
	}
}

func TestUserService_RegisterLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.users.Register(ctx, registerInput("ada@example.com"))
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
	assert.False(t, user.IsAdmin)
	assert.False(t, user.IsDesigner)

	_, err = f.users.Register(ctx, registerInput("ada@example.com"))
	requireRejection(t, err, "Email is already registered!")

	tests := []struct {
		name     string
		email    string
		password string
		reject   string
	}{
		{name: "success", email: "ada@example.com", password: "s3cret-pass"},
		{name: "unknown email", email: "bob@example.com", password: "s3cret-pass", reject: "User does not exist!"},
		{name: "wrong password", email: "ada@example.com", password: "guess", reject: "Password is incorrect!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := f.users.Login(ctx, tt.email, tt.password)
			if tt.reject != "" {
				requireRejection(t, err, tt.reject)
				return
			}
			require.NoError(t, err)

			claims, err := f.jwt.Validate(token)
			require.NoError(t, err)
			assert.Equal(t, user.ID, claims.UserID)
			assert.Equal(t, "ada@example.com", claims.Email)
		})
	}
}

func TestUserService_CheckEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.user(t, "taken@example.com", false, false)

	taken, err := f.users.CheckEmail(ctx, "taken@example.com")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = f.users.CheckEmail(ctx, "free@example.com")
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestUserService_DetailsCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	actor := f.user(t, "grace@example.com", false, false)

	user, err := f.users.Details(ctx, actor.ID)
	require.NoError(t, err)
	assert.Equal(t, "Grace", user.FirstName)
	assert.True(t, f.redis.Exists(userCacheKey(actor.ID)))

	update, err := f.users.UpdateDetails(ctx, actor.ID, ProfileInput{FirstName: "Amazing", LastName: "Grace", Address: "Arlington"})
	require.NoError(t, err)
	assert.Equal(t, "Amazing", update.UpdatedInfo.FirstName)
	assert.NotEmpty(t, update.Access)
	assert.False(t, f.redis.Exists(userCacheKey(actor.ID)))

	user, err = f.users.Details(ctx, actor.ID)
	require.NoError(t, err)
	assert.Equal(t, "Amazing", user.FirstName)
	assert.Equal(t, "Arlington", user.Address)
	assert.Equal(t, "grace@example.com", user.Email)

	_, err = f.users.Details(ctx, uuid.New())
	requireRejection(t, err, "User not found")
}

func TestUserService_DetailsWithoutRedis(t *testing.T) {
	f := newFixture(t)
	actor := f.user(t, "grace@example.com", false, false)
	f.redis.Close()

	user, err := f.users.Details(context.Background(), actor.ID)
	require.NoError(t, err)
	assert.Equal(t, actor.ID, user.ID)
}

func TestUserService_SetAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.user(t, "admin@example.com", true, false)
	regular := f.user(t, "regular@example.com", false, false)

	_, err := f.users.SetAdmin(ctx, regular, regular.ID)
	requireRejection(t, err, "Not authorized to update to admin")

	_, err = f.users.SetAdmin(ctx, admin, uuid.New())
	requireRejection(t, err, "Unable to set as admin. User ID not found")

	promoted, err := f.users.SetAdmin(ctx, admin, regular.ID)
	require.NoError(t, err)
	assert.True(t, promoted.IsAdmin)

	stored, err := f.store.Users().FindByID(ctx, regular.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsAdmin)
}

func TestUserService_SetDesigner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	regular := f.user(t, "regular@example.com", false, false)

	promotion, err := f.users.SetDesigner(ctx, regular)
	require.NoError(t, err)
	assert.True(t, promotion.User.IsDesigner)

	claims, err := f.jwt.Validate(promotion.Access)
	require.NoError(t, err)
	assert.True(t, claims.IsDesigner)

	_, err = f.users.SetDesigner(ctx, access.Actor{ID: uuid.New()})
	requireRejection(t, err, "Unable to set as designer. User ID not found")
}

func TestUserService_Follow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	star := f.user(t, "star@example.com", false, true)
	fan := f.user(t, "fan@example.com", false, false)
	other := f.user(t, "other@example.com", false, false)

	edge, err := f.users.Follow(ctx, fan, star.ID)
	require.NoError(t, err)
	assert.Equal(t, fan.ID, edge.FollowerID)
	assert.Equal(t, star.ID, edge.FollowingID)

	_, err = f.users.Follow(ctx, fan, star.ID)
	requireRejection(t, err, "You already follow this user")

	_, err = f.users.Follow(ctx, fan, fan.ID)
	requireRejection(t, err, "You cannot follow yourself")

	_, err = f.users.Follow(ctx, fan, uuid.New())
	requireRejection(t, err, "User not found!")

	_, err = f.users.Follow(ctx, other, star.ID)
	require.NoError(t, err)

	stored, err := f.store.Users().FindByID(ctx, star.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stored.Followers)

	followers, err := f.users.ListFollowers(ctx, star.ID)
	require.NoError(t, err)
	assert.Len(t, followers, 2)

	_, err = f.users.ListFollowers(ctx, uuid.New())
	requireRejection(t, err, "User not found!")
}

func TestUserService_Logout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.users.Logout(ctx, "token-id", time.Minute))

	revoked, err := f.tokens.IsRevoked(ctx, "token-id")
	require.NoError(t, err)
	assert.True(t, revoked)

	assert.Error(t, f.users.Logout(ctx, "", time.Minute))
}

func TestUserService_LogoutFailsWhenRevocationIsLost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.redis.Close()

	err := f.users.Logout(ctx, "token-id", time.Hour)
	require.Error(t, err)
	_, rejected := errors.AsRejection(err)
	assert.False(t, rejected)
}
