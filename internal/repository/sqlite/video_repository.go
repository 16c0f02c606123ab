package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"vidtube/internal/domain"
	"vidtube/internal/repository"
)

const createVideosTable = `
CREATE TABLE IF NOT EXISTS videos (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	owner_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	video_url TEXT NOT NULL,
	thumbnail_url TEXT NOT NULL,
	storage_key_prefix TEXT NOT NULL DEFAULT '',
	duration REAL NOT NULL DEFAULT 0,
	views INTEGER NOT NULL DEFAULT 0,
	published INTEGER NOT NULL DEFAULT 1,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

const videoColumns = `v.id, v.owner_id, v.title, v.description, v.video_url, v.thumbnail_url, v.storage_key_prefix, v.duration, v.views, v.published, v.created_at, v.updated_at`

type VideoRepository struct {
	db *sql.DB
}

func NewVideoRepository(db *sql.DB) repository.VideoRepository {
	return &VideoRepository{db: db}
}

func (r *VideoRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createVideosTable); err != nil {
		return fmt.Errorf("create videos table: %w", err)
	}
	return nil
}

func (r *VideoRepository) Create(ctx context.Context, video *domain.Video) (int64, error) {
	now := time.Now().UTC()
	video.CreatedAt = now
	video.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO videos (owner_id, title, description, video_url, thumbnail_url, storage_key_prefix, duration, views, published, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		video.OwnerID,
		video.Title,
		video.Description,
		video.VideoURL,
		video.ThumbnailURL,
		video.StorageKeyPrefix,
		video.Duration,
		video.Views,
		video.Published,
		video.CreatedAt,
		video.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert video: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("video last insert id: %w", err)
	}
	video.ID = id
	return id, nil
}

func (r *VideoRepository) Get(ctx context.Context, id int64) (*domain.Video, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+videoColumns+`, u.id, u.username, u.full_name, u.avatar_url
FROM videos v
JOIN users u ON u.id = v.owner_id
WHERE v.id = ?`,
		id,
	)

	video, err := scanVideoWithOwner(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("video: %w", repository.ErrNotFound)
		}
		return nil, err
	}
	return video, nil
}

var videoSortColumns = map[string]string{
	"":           "v.created_at",
	"created_at": "v.created_at",
	"views":      "v.views",
	"duration":   "v.duration",
	"title":      "v.title",
}

func (r *VideoRepository) List(ctx context.Context, filter repository.VideoFilter) ([]domain.Video, int64, error) {
	var conds []string
	var args []any

	if !filter.IncludeUnpublished {
		conds = append(conds, "v.published = 1")
	}
	if filter.OwnerID != nil {
		conds = append(conds, "v.owner_id = ?")
		args = append(args, *filter.OwnerID)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		conds = append(conds, "(v.title LIKE ? COLLATE NOCASE OR v.description LIKE ? COLLATE NOCASE)")
		like := "%" + q + "%"
		args = append(args, like, like)
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM videos v`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count videos: %w", err)
	}

	sortCol, ok := videoSortColumns[filter.SortBy]
	if !ok {
		return nil, 0, fmt.Errorf("invalid sort field %q", filter.SortBy)
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	query := `
SELECT ` + videoColumns + `, u.id, u.username, u.full_name, u.avatar_url
FROM videos v
JOIN users u ON u.id = v.owner_id` + where + `
ORDER BY ` + sortCol + ` ` + direction + `, v.id ` + direction + `
LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	var videos []domain.Video
	for rows.Next() {
		video, err := scanVideoWithOwner(rows)
		if err != nil {
			return nil, 0, err
		}
		videos = append(videos, *video)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate videos: %w", err)
	}
	return videos, total, nil
}

func (r *VideoRepository) UpdateDetails(ctx context.Context, id int64, title, description string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE videos SET title = ?, description = ?, updated_at = ? WHERE id = ?`,
		title, description, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update video details: %w", err)
	}
	return requireRow(res, "update video details")
}

func (r *VideoRepository) UpdateThumbnail(ctx context.Context, id int64, thumbnailURL string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE videos SET thumbnail_url = ?, updated_at = ? WHERE id = ?`,
		thumbnailURL, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update video thumbnail: %w", err)
	}
	return requireRow(res, "update video thumbnail")
}

func (r *VideoRepository) SetPublished(ctx context.Context, id int64, published bool) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE videos SET published = ?, updated_at = ? WHERE id = ?`,
		published, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("set video published: %w", err)
	}
	return requireRow(res, "set video published")
}

func (r *VideoRepository) IncrementViews(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE videos SET views = views + 1 WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("increment video views: %w", err)
	}
	return nil
}

func (r *VideoRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM videos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	return nil
}

func (r *VideoRepository) CountByOwner(ctx context.Context, ownerID int64) (int64, int64, error) {
	var videos, views int64
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*), COALESCE(SUM(views), 0) FROM videos WHERE owner_id = ?`,
		ownerID,
	).Scan(&videos, &views)
	if err != nil {
		return 0, 0, fmt.Errorf("count videos by owner: %w", err)
	}
	return videos, views, nil
}

func scanVideoWithOwner(row interface {
	Scan(dest ...any) error
}) (*domain.Video, error) {
	var video domain.Video
	var owner domain.User
	if err := row.Scan(
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
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan video: %w", err)
	}
	video.Owner = &owner
	return &video, nil
}
