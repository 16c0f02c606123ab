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

const createCommentsTable = `
CREATE TABLE IF NOT EXISTS comments (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	video_id INTEGER NOT NULL REFERENCES videos(id) ON DELETE CASCADE,
	owner_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	content TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

type CommentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) repository.CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createCommentsTable); err != nil {
		return fmt.Errorf("create comments table: %w", err)
	}
	return nil
}

func (r *CommentRepository) Create(ctx context.Context, comment *domain.Comment) (int64, error) {
	now := time.Now().UTC()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO comments (video_id, owner_id, content, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)`,
		comment.VideoID,
		comment.OwnerID,
		comment.Content,
		comment.CreatedAt,
		comment.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert comment: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("comment last insert id: %w", err)
	}
	comment.ID = id
	return id, nil
}

func (r *CommentRepository) Get(ctx context.Context, id int64) (*domain.Comment, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, video_id, owner_id, content, created_at, updated_at
FROM comments
WHERE id = ?`,
		id,
	)

	var comment domain.Comment
	if err := row.Scan(
		&comment.ID,
		&comment.VideoID,
		&comment.OwnerID,
		&comment.Content,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("comment: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan comment: %w", err)
	}
	return &comment, nil
}

func (r *CommentRepository) ListByVideo(ctx context.Context, videoID int64, page, limit int) ([]domain.Comment, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM comments WHERE video_id = ?`, videoID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}

	if limit <= 0 {
		limit = 10
	}
	if page <= 0 {
		page = 1
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT c.id, c.video_id, c.owner_id, c.content, c.created_at, c.updated_at,
	u.id, u.username, u.full_name, u.avatar_url
FROM comments c
JOIN users u ON u.id = c.owner_id
WHERE c.video_id = ?
ORDER BY c.created_at DESC, c.id DESC
LIMIT ? OFFSET ?`,
		videoID, limit, (page-1)*limit,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		var comment domain.Comment
		var owner domain.User
		if err := rows.Scan(
			&comment.ID,
			&comment.VideoID,
			&comment.OwnerID,
			&comment.Content,
			&comment.CreatedAt,
			&comment.UpdatedAt,
			&owner.ID,
			&owner.Username,
			&owner.FullName,
			&owner.AvatarURL,
		); err != nil {
			return nil, 0, fmt.Errorf("scan comment: %w", err)
		}
		comment.Owner = &owner
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate comments: %w", err)
	}
	return comments, total, nil
}

func (r *CommentRepository) UpdateContent(ctx context.Context, id int64, content string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE comments SET content = ?, updated_at = ? WHERE id = ?`,
		content, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	return requireRow(res, "update comment")
}

func (r *CommentRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

func (r *CommentRepository) DeleteByVideo(ctx context.Context, videoID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE video_id = ?`, videoID)
	if err != nil {
		return fmt.Errorf("delete comments for video: %w", err)
	}
	return nil
}
