package repository

import (
	"context"

	"vidtube/internal/domain"
)

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	// GetByUsernameOrEmail resolves a login identifier: either predicate may
	// be empty, non-empty ones are combined with OR.
	GetByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error)
	UpdateDetails(ctx context.Context, id int64, fullName, email string) error
	UpdateAvatar(ctx context.Context, id int64, avatarURL string) error
	UpdateCoverImage(ctx context.Context, id int64, coverImageURL string) error
	UpdatePasswordHash(ctx context.Context, id int64, passwordHash string) error
	// SetRefreshToken overwrites the stored refresh token unconditionally
	// (login path).
	SetRefreshToken(ctx context.Context, id int64, token string) error
	// RotateRefreshToken replaces the stored refresh token only if it still
	// equals previous. Returns false when another writer rotated it first.
	RotateRefreshToken(ctx context.Context, id int64, previous, next string) (bool, error)
	// ClearRefreshToken removes the stored refresh token (logout path).
	ClearRefreshToken(ctx context.Context, id int64) error

	// AddWatchEntry records that the user watched the video; re-watching
	// moves the entry to the front of the history.
	AddWatchEntry(ctx context.Context, userID, videoID int64) error
	ListWatchHistory(ctx context.Context, userID int64) ([]domain.WatchEntry, error)
}
