package repository

import (
	"context"

	"vidtube/internal/domain"
)

// CommentRepository manages per-video comments.
type CommentRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, comment *domain.Comment) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Comment, error)
	ListByVideo(ctx context.Context, videoID int64, page, limit int) ([]domain.Comment, int64, error)
	UpdateContent(ctx context.Context, id int64, content string) error
	Delete(ctx context.Context, id int64) error
	DeleteByVideo(ctx context.Context, videoID int64) error
}

// LikeRepository manages likes across videos, comments and tweets.
type LikeRepository interface {
	Init(ctx context.Context) error
	// Toggle inserts the like if absent and removes it if present; liked
	// reports the state after the call.
	Toggle(ctx context.Context, userID int64, target domain.LikeTarget, targetID int64) (liked bool, err error)
	Count(ctx context.Context, target domain.LikeTarget, targetID int64) (int64, error)
	ListLikedVideos(ctx context.Context, userID int64) ([]domain.Video, error)
	DeleteForTarget(ctx context.Context, target domain.LikeTarget, targetID int64) error
	// DeleteForVideoComments removes comment likes belonging to the video's
	// comments, called before the comments themselves are deleted.
	DeleteForVideoComments(ctx context.Context, videoID int64) error
	// CountForChannelVideos sums likes over all videos owned by the channel.
	CountForChannelVideos(ctx context.Context, channelID int64) (int64, error)
}

// SubscriptionRepository manages channel subscriptions.
type SubscriptionRepository interface {
	Init(ctx context.Context) error
	Toggle(ctx context.Context, subscriberID, channelID int64) (subscribed bool, err error)
	IsSubscribed(ctx context.Context, subscriberID, channelID int64) (bool, error)
	CountSubscribers(ctx context.Context, channelID int64) (int64, error)
	CountSubscriptions(ctx context.Context, subscriberID int64) (int64, error)
	ListSubscribers(ctx context.Context, channelID int64) ([]domain.User, error)
	ListChannels(ctx context.Context, subscriberID int64) ([]domain.User, error)
}

// TweetRepository manages channel tweets.
type TweetRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, tweet *domain.Tweet) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Tweet, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Tweet, error)
	UpdateContent(ctx context.Context, id int64, content string) error
	Delete(ctx context.Context, id int64) error
}

// PlaylistRepository manages playlists and their video membership.
type PlaylistRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, playlist *domain.Playlist) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Playlist, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Playlist, error)
	UpdateDetails(ctx context.Context, id int64, name, description string) error
	Delete(ctx context.Context, id int64) error
	AddVideo(ctx context.Context, playlistID, videoID int64) error
	RemoveVideo(ctx context.Context, playlistID, videoID int64) error
	ListVideos(ctx context.Context, playlistID int64) ([]domain.Video, error)
	// RemoveVideoEverywhere drops the video from every playlist, used when
	// the video itself is deleted.
	RemoveVideoEverywhere(ctx context.Context, videoID int64) error
}
