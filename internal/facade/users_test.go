package facade

import (
	"context"
	"testing"

	"hbnb/internal/domain/users"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	_, err := fx.f.Register(ctx, RegisterInput{FirstName: "Dup", LastName: "User", Email: "GUEST@hbnb.io", Password: "password1"})
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = fx.f.Register(ctx, RegisterInput{FirstName: "Short", LastName: "Pw", Email: "short@hbnb.io", Password: "123"})
	assert.ErrorIs(t, err, ErrValidation)

	u, err := fx.f.Authenticate(ctx, "Guest@HBNB.io", "password1")
	require.NoError(t, err)
	assert.Equal(t, fx.guest.ID, u.ID)
	assert.False(t, u.IsAdmin)

	_, err = fx.f.Authenticate(ctx, "guest@hbnb.io", "wrong-password")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = fx.f.Authenticate(ctx, "nobody@hbnb.io", "password1")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestModerateUser(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	_, err := fx.f.ModerateUser(ctx, fx.owner, fx.guest.ID, false)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = fx.f.ModerateUser(ctx, fx.admin, fx.admin.ID, false)
	assert.ErrorIs(t, err, ErrForbidden, "admins cannot be deactivated")

	u, err := fx.f.ModerateUser(ctx, fx.admin, fx.guest.ID, false)
	require.NoError(t, err)
	assert.False(t, u.IsActive)

	_, err = fx.f.Authenticate(ctx, "guest@hbnb.io", "password1")
	assert.ErrorIs(t, err, ErrForbidden, "deactivated users cannot log in")

	_, err = fx.f.ModerateUser(ctx, fx.admin, fx.guest.ID, true)
	require.NoError(t, err)
	_, err = fx.f.Authenticate(ctx, "guest@hbnb.io", "password1")
	assert.NoError(t, err)
}

func TestUpdateUser(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	name := "Gustav"
	u, err := fx.f.UpdateUser(ctx, fx.guest, fx.guest.ID, users.Patch{FirstName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Gustav", u.FirstName)

	_, err = fx.f.UpdateUser(ctx, fx.guest, fx.owner.ID, users.Patch{FirstName: &name})
	assert.ErrorIs(t, err, ErrForbidden)

	email := "new@hbnb.io"
	_, err = fx.f.UpdateUser(ctx, fx.guest, fx.guest.ID, users.Patch{Email: &email})
	assert.ErrorIs(t, err, ErrForbidden, "only admins change email")

	taken := "owner@hbnb.io"
	_, err = fx.f.UpdateUser(ctx, fx.admin, fx.guest.ID, users.Patch{Email: &taken})
	assert.ErrorIs(t, err, ErrDuplicate)

	password := "another-password"
	_, err = fx.f.UpdateUser(ctx, fx.admin, fx.guest.ID, users.Patch{Email: &email, Password: &password})
	require.NoError(t, err)
	_, err = fx.f.Authenticate(ctx, email, password)
	assert.NoError(t, err)
}

func TestListUsersIsAdminOnly(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	_, _, err := fx.f.ListUsers(ctx, fx.guest, 10, 0)
	assert.ErrorIs(t, err, ErrForbidden)

	list, total, err := fx.f.ListUsers(ctx, fx.admin, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, list, 2)
}

func TestCreateAdmin(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	in := RegisterInput{FirstName: "New", LastName: "Admin", Email: "second@hbnb.io", Password: "password1"}

	_, err := fx.f.CreateAdmin(ctx, fx.guest, in)
	assert.ErrorIs(t, err, ErrForbidden)

	u, err := fx.f.CreateAdmin(ctx, fx.admin, in)
	require.NoError(t, err)
	assert.True(t, u.IsAdmin)

	again, err := fx.f.BootstrapAdmin(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.ID, "bootstrap is idempotent")
}

func TestDeleteUserCascades(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	id := fx.book(t, fx.guest, jan(1), jan(3))

	assert.ErrorIs(t, fx.f.DeleteUser(ctx, fx.guest, fx.owner.ID), ErrForbidden)
	require.NoError(t, fx.f.DeleteUser(ctx, fx.owner, fx.owner.ID))

	_, err := fx.f.GetPlace(ctx, fx.place.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = fx.f.GetBooking(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteReviewerRecomputesRating(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	other, err := fx.f.Register(ctx, RegisterInput{FirstName: "Tess", LastName: "Traveller", Email: "tess@hbnb.io", Password: "password1"})
	require.NoError(t, err)
	tess := ActorFrom(other)

	mine := fx.book(t, fx.guest, jan(1), jan(3))
	theirs := fx.book(t, tess, jan(3), jan(5))
	fx.clock.Set(jan(6))

	_, err = fx.f.CreateReview(ctx, fx.guest, CreateReviewInput{BookingID: mine, Comment: "great", Rating: 4})
	require.NoError(t, err)
	_, err = fx.f.CreateReview(ctx, tess, CreateReviewInput{BookingID: theirs, Comment: "fine", Rating: 2})
	require.NoError(t, err)
	assert.Equal(t, 3.0, fx.rating(t))

	require.NoError(t, fx.f.DeleteUser(ctx, fx.guest, fx.guest.ID))

	left, err := fx.f.ListPlaceReviews(ctx, fx.place.ID)
	require.NoError(t, err)
	assert.Len(t, left, 1)
	assert.Equal(t, 2.0, fx.rating(t))

	require.NoError(t, fx.f.DeleteUser(ctx, fx.admin, tess.ID))

	left, err = fx.f.ListPlaceReviews(ctx, fx.place.ID)
	require.NoError(t, err)
	assert.Empty(t, left)
	assert.Equal(t, 0.0, fx.rating(t))
}

func TestPushTokens(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	assert.ErrorIs(t, fx.f.RegisterPushToken(ctx, fx.guest, " "), ErrValidation)
	require.NoError(t, fx.f.RegisterPushToken(ctx, fx.guest, "ExponentPushToken[abc]"))

	tokens, err := fx.db.PushTokens().TokensByUserIDs(ctx, []string{fx.guest.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"ExponentPushToken[abc]"}, tokens[fx.guest.ID])

	require.NoError(t, fx.f.RemovePushToken(ctx, fx.guest, "ExponentPushToken[abc]"))
	tokens, err = fx.db.PushTokens().TokensByUserIDs(ctx, []string{fx.guest.ID})
	require.NoError(t, err)
	assert.Empty(t, tokens[fx.guest.ID])
}
