package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"vidtube/internal/domain"
	"vidtube/internal/repository"
)

const createLikesTable = `
CREATE TABLE IF NOT EXISTS likes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	target TEXT NOT NULL,
	target_id INTEGER NOT NULL,
	created_at DATETIME NOT NULL,
	UNIQUE (user_id, target, target_id)
);
`

type LikeRepository struct {
	db *sql.DB
}

func NewLikeRepository(db *sql.DB) repository.LikeRepository {
	return &LikeRepository{db: db}
}

func (r *LikeRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createLikesTable); err != nil {
		return fmt.Errorf("create likes table: %w", err)
	}
	return nil
}

func (r *LikeRepository) Toggle(ctx context.Context, userID int64, target domain.LikeTarget, targetID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
DELETE FROM likes WHERE user_id = ? AND target = ? AND target_id = ?`,
		userID, string(target), targetID,
	)
	if err != nil {
		return false, fmt.Errorf("unlike: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("unlike rows: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO likes (user_id, target, target_id, created_at)
VALUES (?, ?, ?, ?)`,
		userID, string(target), targetID, time.Now().UTC(),
	)
	if err != nil {
		return false, fmt.Errorf("like: %w", err)
	}
	return true, nil
}

func (r *LikeRepository) Count(ctx context.Context, target domain.LikeTarget, targetID int64) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM likes WHERE target = ? AND target_id = ?`,
		string(target), targetID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	return count, nil
}

func (r *LikeRepository) ListLikedVideos(ctx context.Context, userID int64) ([]domain.Video, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+videoColumns+`, u.id, u.username, u.full_name, u.avatar_url
FROM likes l
JOIN videos v ON v.id = l.target_id
JOIN users u ON u.id = v.owner_id
WHERE l.user_id = ? AND l.target = ?
ORDER BY l.created_at DESC`,
		userID, string(domain.LikeTargetVideo),
	)
	if err != nil {
		return nil, fmt.Errorf("list liked videos: %w", err)
	}
	defer rows.Close()

	var videos []domain.Video
	for rows.Next() {
		video, err := scanVideoWithOwner(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, *video)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate liked videos: %w", err)
	}
	return videos, nil
}

func (r *LikeRepository) DeleteForTarget(ctx context.Context, target domain.LikeTarget, targetID int64) error {
	_, err := r.db.ExecContext(ctx, `
DELETE FROM likes WHERE target = ? AND target_id = ?`,
		string(target), targetID,
	)
	if err != nil {
		return fmt.Errorf("delete likes for target: %w", err)
	}
	return nil
}

func (r *LikeRepository) DeleteForVideoComments(ctx context.Context, videoID int64) error {
	_, err := r.db.ExecContext(ctx, `
DELETE FROM likes
WHERE target = ? AND target_id IN (SELECT id FROM comments WHERE video_id = ?)`,
		string(domain.LikeTargetComment), videoID,
	)
	if err != nil {
		return fmt.Errorf("delete comment likes for video: %w", err)
	}
	return nil
}

func (r *LikeRepository) CountForChannelVideos(ctx context.Context, channelID int64) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*)
FROM likes l
JOIN videos v ON v.id = l.target_id
WHERE l.target = ? AND v.owner_id = ?`,
		string(domain.LikeTargetVideo), channelID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count channel likes: %w", err)
	}
	return count, nil
}
