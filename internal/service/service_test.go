package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"vidtube/internal/auth"
	"vidtube/internal/domain"
	"vidtube/internal/repository"
	"vidtube/internal/repository/sqlite"
)

// testEnv wires every repository against a throwaway sqlite file.
type testEnv struct {
	users     repository.UserRepository
	videos    repository.VideoRepository
	comments  repository.CommentRepository
	likes     repository.LikeRepository
	subs      repository.SubscriptionRepository
	tweets    repository.TweetRepository
	playlists repository.PlaylistRepository
	issuer    *auth.Issuer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "vidtube-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	env := &testEnv{
		users:     sqlite.NewUserRepository(db),
		videos:    sqlite.NewVideoRepository(db),
		comments:  sqlite.NewCommentRepository(db),
		likes:     sqlite.NewLikeRepository(db),
		subs:      sqlite.NewSubscriptionRepository(db),
		tweets:    sqlite.NewTweetRepository(db),
		playlists: sqlite.NewPlaylistRepository(db),
		issuer:    auth.NewIssuer("test-access-secret", "test-refresh-secret", 15*time.Minute, 240*time.Hour),
	}

	ctx := context.Background()
	require.NoError(t, env.users.Init(ctx))
	require.NoError(t, env.videos.Init(ctx))
	require.NoError(t, env.comments.Init(ctx))
	require.NoError(t, env.likes.Init(ctx))
	require.NoError(t, env.subs.Init(ctx))
	require.NoError(t, env.tweets.Init(ctx))
	require.NoError(t, env.playlists.Init(ctx))

	return env
}

func (e *testEnv) userService() UserService {
	return NewUserService(e.users, e.subs, e.issuer, bcrypt.MinCost)
}

func (e *testEnv) videoService() VideoService {
	return NewVideoService(e.videos, e.comments, e.likes, e.playlists)
}

func (e *testEnv) registerUser(t *testing.T, username string) *domain.User {
	t.Helper()
	user, err := e.userService().Register(context.Background(), RegisterParams{
		FullName:  "User " + username,
		Username:  username,
		Email:     username + "@example.com",
		Password:  "secret123",
		AvatarURL: "https://cdn.example.com/" + username + ".png",
	})
	require.NoError(t, err)
	return user
}

func (e *testEnv) publishVideo(t *testing.T, ownerID int64, title string) *domain.Video {
	t.Helper()
	video, err := e.videoService().Publish(context.Background(), PublishParams{
		OwnerID:      ownerID,
		Title:        title,
		Description:  "about " + title,
		VideoURL:     "https://cdn.example.com/" + title + ".mp4",
		ThumbnailURL: "https://cdn.example.com/" + title + ".jpg",
		Duration:     120,
	})
	require.NoError(t, err)
	return video
}
