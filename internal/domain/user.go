package domain

import "time"

// User represents a registered account of the platform.
//
// PasswordHash and RefreshToken are credentials and must never be serialized
// in an API response; services return sanitized copies with both cleared.
type User struct {
	ID            int64
	Username      string
	Email         string
	FullName      string
	AvatarURL     string
	CoverImageURL string
	PasswordHash  string
	// RefreshToken is the single currently valid refresh token for the
	// account, empty when logged out. Overwritten on login and refresh.
	RefreshToken string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ChannelProfile is a user's public channel page with subscription counters.
type ChannelProfile struct {
	User            User
	SubscriberCount int64
	SubscribedTo    int64
	IsSubscribed    bool
}
