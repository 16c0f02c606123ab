package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidtube/internal/domain"
	"vidtube/internal/repository"
)

func TestPublishAndGetIncrementsViews(t *testing.T) {
	env := newTestEnv(t)
	svc := env.videoService()
	ctx := context.Background()

	owner := env.registerUser(t, "mallory")
	video := env.publishVideo(t, owner.ID, "intro")
	assert.True(t, video.Published)

	got, err := svc.Get(ctx, video.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Views)

	got, err = svc.Get(ctx, video.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Views)

	_, err = svc.Get(ctx, 9999, 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPublishValidation(t *testing.T) {
	env := newTestEnv(t)
	svc := env.videoService()
	ctx := context.Background()

	owner := env.registerUser(t, "nina")

	_, err := svc.Publish(ctx, PublishParams{OwnerID: owner.ID, Title: "  ", VideoURL: "v", ThumbnailURL: "t"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Publish(ctx, PublishParams{OwnerID: owner.ID, Title: "no media"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUnpublishedVisibility(t *testing.T) {
	env := newTestEnv(t)
	svc := env.videoService()
	ctx := context.Background()

	owner := env.registerUser(t, "oscar")
	stranger := env.registerUser(t, "peggy")
	video := env.publishVideo(t, owner.ID, "draft")

	_, err := svc.TogglePublish(ctx, video.ID, owner.ID)
	require.NoError(t, err)

	_, err = svc.Get(ctx, video.ID, stranger.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Get(ctx, video.ID, 0)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := svc.Get(ctx, video.ID, owner.ID)
	require.NoError(t, err)
	assert.False(t, got.Published)
}

func TestListVideos(t *testing.T) {
	env := newTestEnv(t)
	svc := env.videoService()
	ctx := context.Background()

	owner := env.registerUser(t, "quinn")
	other := env.registerUser(t, "rita")
	env.publishVideo(t, owner.ID, "Cooking pasta")
	env.publishVideo(t, owner.ID, "Cooking rice")
	hidden := env.publishVideo(t, owner.ID, "Secret draft")
	env.publishVideo(t, other.ID, "Gardening")

	_, err := svc.TogglePublish(ctx, hidden.ID, owner.ID)
	require.NoError(t, err)

	videos, total, err := svc.List(ctx, ListVideosParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, videos, 3)

	videos, total, err = svc.List(ctx, ListVideosParams{Query: "cooking", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	videos, total, err = svc.List(ctx, ListVideosParams{OwnerID: &owner.ID, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	// Owners browsing their own channel see drafts too.
	videos, total, err = svc.List(ctx, ListVideosParams{OwnerID: &owner.ID, ViewerID: owner.ID, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	videos, total, err = svc.List(ctx, ListVideosParams{SortBy: "title", Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, videos, 2)
	assert.Equal(t, "Cooking pasta", videos[0].Title)

	_, _, err = svc.List(ctx, ListVideosParams{SortBy: "views; DROP TABLE videos", Page: 1, Limit: 10})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestVideoOwnershipEnforced(t *testing.T) {
	env := newTestEnv(t)
	svc := env.videoService()
	ctx := context.Background()

	owner := env.registerUser(t, "sybil")
	intruder := env.registerUser(t, "trent")
	video := env.publishVideo(t, owner.ID, "mine")

	_, err := svc.UpdateDetails(ctx, video.ID, intruder.ID, "stolen", "")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.TogglePublish(ctx, video.ID, intruder.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Delete(ctx, video.ID, intruder.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := svc.UpdateDetails(ctx, video.ID, owner.ID, "renamed", "new description")
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
	assert.Equal(t, "new description", updated.Description)
}

func TestDeleteVideoCascades(t *testing.T) {
	env := newTestEnv(t)
	svc := env.videoService()
	ctx := context.Background()

	owner := env.registerUser(t, "uma")
	fan := env.registerUser(t, "vic")
	video := env.publishVideo(t, owner.ID, "ephemeral")

	comments := NewCommentService(env.comments, env.videos, env.likes)
	likes := NewLikeService(env.likes, env.videos, env.comments, env.tweets)
	playlists := NewPlaylistService(env.playlists, env.videos, env.users)

	comment, err := comments.Add(ctx, video.ID, fan.ID, "great stuff")
	require.NoError(t, err)

	liked, err := likes.ToggleVideoLike(ctx, fan.ID, video.ID)
	require.NoError(t, err)
	require.True(t, liked)
	liked, err = likes.ToggleCommentLike(ctx, fan.ID, comment.ID)
	require.NoError(t, err)
	require.True(t, liked)

	playlist, err := playlists.Create(ctx, fan.ID, "favorites", "keepers")
	require.NoError(t, err)
	_, err = playlists.AddVideo(ctx, playlist.ID, video.ID, fan.ID)
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, video.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, video.ID, deleted.ID)

	_, err = env.videos.Get(ctx, video.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	remaining, _, err := env.comments.ListByVideo(ctx, video.ID, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	count, err := env.likes.Count(ctx, domain.LikeTargetVideo, video.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
	count, err = env.likes.Count(ctx, domain.LikeTargetComment, comment.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	inPlaylist, err := env.playlists.ListVideos(ctx, playlist.ID)
	require.NoError(t, err)
	assert.Empty(t, inPlaylist)
}
