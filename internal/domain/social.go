package domain

import "time"

// Comment is a user comment on a video.
type Comment struct {
	ID        int64
	VideoID   int64
	OwnerID   int64
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time

	Owner *User
}

// LikeTarget identifies the kind of entity a like points at.
type LikeTarget string

const (
	LikeTargetVideo   LikeTarget = "video"
	LikeTargetComment LikeTarget = "comment"
	LikeTargetTweet   LikeTarget = "tweet"
)

// Like records that a user liked a video, comment or tweet.
// At most one like per (user, target kind, target id).
type Like struct {
	ID        int64
	UserID    int64
	Target    LikeTarget
	TargetID  int64
	CreatedAt time.Time
}

// Subscription records that Subscriber follows Channel.
type Subscription struct {
	ID           int64
	SubscriberID int64
	ChannelID    int64
	CreatedAt    time.Time
}

// Tweet is a short text post on a user's channel.
type Tweet struct {
	ID        int64
	OwnerID   int64
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time

	Owner *User
}

// Playlist groups videos under a user-owned named list.
type Playlist struct {
	ID          int64
	OwnerID     int64
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Videos []Video
}

// ChannelStats aggregates a channel's totals for the dashboard.
type ChannelStats struct {
	TotalVideos      int64
	TotalViews       int64
	TotalSubscribers int64
	TotalLikes       int64
}
