package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"vidtube/internal/domain"
	"vidtube/internal/repository"
)

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL UNIQUE,
	full_name TEXT NOT NULL,
	avatar_url TEXT NOT NULL,
	cover_image_url TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL,
	refresh_token TEXT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

const createWatchHistoryTable = `
CREATE TABLE IF NOT EXISTS watch_history (
	user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	video_id INTEGER NOT NULL REFERENCES videos(id) ON DELETE CASCADE,
	watched_at DATETIME NOT NULL,
	PRIMARY KEY (user_id, video_id)
);
`

const userColumns = `id, username, email, full_name, avatar_url, cover_image_url, password_hash, COALESCE(refresh_token, ''), created_at, updated_at`

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createUsersTable); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, createWatchHistoryTable); err != nil {
		return fmt.Errorf("create watch history table: %w", err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (int64, error) {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO users (username, email, full_name, avatar_url, cover_image_url, password_hash, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.Username,
		user.Email,
		user.FullName,
		user.AvatarURL,
		user.CoverImageURL,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("insert user: %w", repository.ErrDuplicate)
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("user last insert id: %w", err)
	}
	user.ID = id
	return id, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+userColumns+`
FROM users
WHERE id = ?`,
		id,
	)
	return scanUser(row)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+userColumns+`
FROM users
WHERE username = ?`,
		username,
	)
	return scanUser(row)
}

func (r *UserRepository) GetByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+userColumns+`
FROM users
WHERE (username = ? AND ? != '') OR (email = ? AND ? != '')`,
		username, username,
		email, email,
	)
	return scanUser(row)
}

func (r *UserRepository) UpdateDetails(ctx context.Context, id int64, fullName, email string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE users
SET full_name = ?, email = ?, updated_at = ?
WHERE id = ?`,
		fullName, email, time.Now().UTC(), id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("update user details: %w", repository.ErrDuplicate)
		}
		return fmt.Errorf("update user details: %w", err)
	}
	return requireRow(res, "update user details")
}

func (r *UserRepository) UpdateAvatar(ctx context.Context, id int64, avatarURL string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE users SET avatar_url = ?, updated_at = ? WHERE id = ?`,
		avatarURL, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update user avatar: %w", err)
	}
	return requireRow(res, "update user avatar")
}

func (r *UserRepository) UpdateCoverImage(ctx context.Context, id int64, coverImageURL string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE users SET cover_image_url = ?, updated_at = ? WHERE id = ?`,
		coverImageURL, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update user cover image: %w", err)
	}
	return requireRow(res, "update user cover image")
}

func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id int64, passwordHash string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}
	return requireRow(res, "update password hash")
}

func (r *UserRepository) SetRefreshToken(ctx context.Context, id int64, token string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE users SET refresh_token = ?, updated_at = ? WHERE id = ?`,
		token, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("set refresh token: %w", err)
	}
	return requireRow(res, "set refresh token")
}

func (r *UserRepository) RotateRefreshToken(ctx context.Context, id int64, previous, next string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE users SET refresh_token = ?, updated_at = ?
WHERE id = ? AND refresh_token = ?`,
		next, time.Now().UTC(), id, previous,
	)
	if err != nil {
		return false, fmt.Errorf("rotate refresh token: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rotate refresh token rows: %w", err)
	}
	return n == 1, nil
}

func (r *UserRepository) ClearRefreshToken(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE users SET refresh_token = NULL, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("clear refresh token: %w", err)
	}
	return nil
}

func (r *UserRepository) AddWatchEntry(ctx context.Context, userID, videoID int64) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO watch_history (user_id, video_id, watched_at)
VALUES (?, ?, ?)
ON CONFLICT (user_id, video_id) DO UPDATE SET watched_at = excluded.watched_at`,
		userID, videoID, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("add watch entry: %w", err)
	}
	return nil
}

func (r *UserRepository) ListWatchHistory(ctx context.Context, userID int64) ([]domain.WatchEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT h.video_id, h.watched_at,
	v.id, v.owner_id, v.title, v.description, v.video_url, v.thumbnail_url, v.storage_key_prefix,
	v.duration, v.views, v.published, v.created_at, v.updated_at,
	u.id, u.username, u.full_name, u.avatar_url
FROM watch_history h
JOIN videos v ON v.id = h.video_id
JOIN users u ON u.id = v.owner_id
WHERE h.user_id = ?
ORDER BY h.watched_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list watch history: %w", err)
	}
	defer rows.Close()

	var entries []domain.WatchEntry
	for rows.Next() {
		var entry domain.WatchEntry
		var video domain.Video
		var owner domain.User
		if err := rows.Scan(
			&entry.VideoID,
			&entry.WatchedAt,
			&video.ID,
			&video.OwnerID,
			&video.Title,
			&video.Description,
			&video.VideoURL,
			&video.ThumbnailURL,
			&video.StorageKeyPrefix,
			&video.Duration,
			&video.Views,
			&video.Published,
			&video.CreatedAt,
			&video.UpdatedAt,
			&owner.ID,
			&owner.Username,
			&owner.FullName,
			&owner.AvatarURL,
		); err != nil {
			return nil, fmt.Errorf("scan watch entry: %w", err)
		}
		video.Owner = &owner
		entry.Video = &video
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate watch history: %w", err)
	}
	return entries, nil
}

func scanUser(row interface {
	Scan(dest ...any) error
}) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FullName,
		&user.AvatarURL,
		&user.CoverImageURL,
		&user.PasswordHash,
		&user.RefreshToken,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &user, nil
}

func requireRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}
	return nil
}
