package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterThenLogin(t *testing.T) {
	env := newTestEnv(t)
	svc := env.userService()
	ctx := context.Background()

	created, err := svc.Register(ctx, RegisterParams{
		FullName:  "Alice Example",
		Username:  "  Alice  ",
		Email:     "ALICE@X.COM",
		Password:  "secret123",
		AvatarURL: "https://cdn.example.com/alice.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", created.Username)
	assert.Equal(t, "alice@x.com", created.Email)
	assert.Empty(t, created.PasswordHash)
	assert.Empty(t, created.RefreshToken)

	// Email alone is a valid identifier.
	user, pair, err := svc.Login(ctx, "", "alice@x.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Empty(t, user.PasswordHash)
	assert.Empty(t, user.RefreshToken)

	// So is the username alone.
	_, _, err = svc.Login(ctx, "alice", "", "secret123")
	require.NoError(t, err)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	svc := env.userService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterParams{
		FullName:  "",
		Username:  "bob",
		Email:     "bob@x.com",
		Password:  "secret123",
		AvatarURL: "https://cdn.example.com/bob.png",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Register(ctx, RegisterParams{
		FullName: "Bob",
		Username: "bob",
		Email:    "bob@x.com",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRegisterDuplicateConflicts(t *testing.T) {
	env := newTestEnv(t)
	svc := env.userService()
	ctx := context.Background()

	env.registerUser(t, "carol")

	_, err := svc.Register(ctx, RegisterParams{
		FullName:  "Other Carol",
		Username:  "carol",
		Email:     "other@example.com",
		Password:  "secret123",
		AvatarURL: "https://cdn.example.com/c.png",
	})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	_, err = svc.Register(ctx, RegisterParams{
		FullName:  "Other Carol",
		Username:  "carol2",
		Email:     "carol@example.com",
		Password:  "secret123",
		AvatarURL: "https://cdn.example.com/c.png",
	})
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestLoginFailures(t *testing.T) {
	env := newTestEnv(t)
	svc := env.userService()
	ctx := context.Background()

	env.registerUser(t, "dave")

	_, _, err := svc.Login(ctx, "", "", "secret123")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, _, err = svc.Login(ctx, "nobody", "", "secret123")
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = svc.Login(ctx, "dave", "", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRotation(t *testing.T) {
	env := newTestEnv(t)
	svc := env.userService()
	ctx := context.Background()

	env.registerUser(t, "erin")
	_, pair, err := svc.Login(ctx, "erin", "", "secret123")
	require.NoError(t, err)

	rotated, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, rotated.AccessToken)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// The original token has been superseded and is single-use.
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// The rotated token still works exactly once.
	_, err = svc.Refresh(ctx, rotated.RefreshToken)
	require.NoError(t, err)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	env := newTestEnv(t)
	svc := env.userService()
	ctx := context.Background()

	_, err := svc.Refresh(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Refresh(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	env := newTestEnv(t)
	svc := env.userService()
	ctx := context.Background()

	env.registerUser(t, "frank")
	_, pair, err := svc.Login(ctx, "frank", "", "secret123")
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogoutInvalidatesRefreshToken(t *testing.T) {
	env := newTestEnv(t)
	svc := env.userService()
	ctx := context.Background()

	user := env.registerUser(t, "grace")
	_, pair, err := svc.Login(ctx, "grace", "", "secret123")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, user.ID))

	// Cryptographically the token is still valid, but the stored value is gone.
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	svc := env.userService()
	ctx := context.Background()

	user := env.registerUser(t, "heidi")

	err := svc.ChangePassword(ctx, user.ID, "wrong", "newsecret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(ctx, user.ID, "secret123", "newsecret1"))

	_, _, err = svc.Login(ctx, "heidi", "", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "heidi", "", "newsecret1")
	require.NoError(t, err)
}

func TestChannelProfile(t *testing.T) {
	env := newTestEnv(t)
	svc := env.userService()
	ctx := context.Background()

	channel := env.registerUser(t, "ivan")
	viewer := env.registerUser(t, "judy")

	subscribed, err := env.subs.Toggle(ctx, viewer.ID, channel.ID)
	require.NoError(t, err)
	require.True(t, subscribed)

	profile, err := svc.ChannelProfile(ctx, "ivan", viewer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), profile.SubscriberCount)
	assert.Equal(t, int64(0), profile.SubscribedTo)
	assert.True(t, profile.IsSubscribed)
	assert.Empty(t, profile.User.PasswordHash)

	anonymous, err := svc.ChannelProfile(ctx, "ivan", 0)
	require.NoError(t, err)
	assert.False(t, anonymous.IsSubscribed)

	_, err = svc.ChannelProfile(ctx, "missing", viewer.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWatchHistoryOrdering(t *testing.T) {
	env := newTestEnv(t)
	svc := env.userService()
	ctx := context.Background()

	owner := env.registerUser(t, "kate")
	viewer := env.registerUser(t, "leo")
	first := env.publishVideo(t, owner.ID, "first")
	second := env.publishVideo(t, owner.ID, "second")

	require.NoError(t, svc.RecordWatch(ctx, viewer.ID, first.ID))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, svc.RecordWatch(ctx, viewer.ID, second.ID))

	entries, err := svc.WatchHistory(ctx, viewer.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, second.ID, entries[0].VideoID)
	assert.Equal(t, first.ID, entries[1].VideoID)
	require.NotNil(t, entries[0].Video)
	assert.Equal(t, "kate", entries[0].Video.Owner.Username)
}
