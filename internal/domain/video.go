package domain

import "time"

// Video represents an uploaded video and its remote media locations.
type Video struct {
	ID           int64
	OwnerID      int64
	Title        string
	Description  string
	VideoURL     string
	ThumbnailURL string
	// StorageKeyPrefix is the object-storage prefix holding this video's
	// media, kept so deletion can remove the remote objects.
	StorageKeyPrefix string
	Duration         float64
	Views            int64
	Published        bool
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Owner *User
}

// WatchEntry is one row of a user's watch history, newest first.
type WatchEntry struct {
	VideoID   int64
	WatchedAt time.Time
	Video     *Video
}
