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

const createPlaylistsTable = `
CREATE TABLE IF NOT EXISTS playlists (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	owner_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

const createPlaylistVideosTable = `
CREATE TABLE IF NOT EXISTS playlist_videos (
	playlist_id INTEGER NOT NULL REFERENCES playlists(id) ON DELETE CASCADE,
	video_id INTEGER NOT NULL REFERENCES videos(id) ON DELETE CASCADE,
	added_at DATETIME NOT NULL,
	PRIMARY KEY (playlist_id, video_id)
);
`

type PlaylistRepository struct {
	db *sql.DB
}

func NewPlaylistRepository(db *sql.DB) repository.PlaylistRepository {
	return &PlaylistRepository{db: db}
}

func (r *PlaylistRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createPlaylistsTable); err != nil {
		return fmt.Errorf("create playlists table: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, createPlaylistVideosTable); err != nil {
		return fmt.Errorf("create playlist videos table: %w", err)
	}
	return nil
}

func (r *PlaylistRepository) Create(ctx context.Context, playlist *domain.Playlist) (int64, error) {
	now := time.Now().UTC()
	playlist.CreatedAt = now
	playlist.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO playlists (owner_id, name, description, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)`,
		playlist.OwnerID,
		playlist.Name,
		playlist.Description,
		playlist.CreatedAt,
		playlist.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert playlist: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("playlist last insert id: %w", err)
	}
	playlist.ID = id
	return id, nil
}

func (r *PlaylistRepository) Get(ctx context.Context, id int64) (*domain.Playlist, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, owner_id, name, description, created_at, updated_at
FROM playlists
WHERE id = ?`,
		id,
	)

	var playlist domain.Playlist
	if err := row.Scan(
		&playlist.ID,
		&playlist.OwnerID,
		&playlist.Name,
		&playlist.Description,
		&playlist.CreatedAt,
		&playlist.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("playlist: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan playlist: %w", err)
	}
	return &playlist, nil
}

func (r *PlaylistRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Playlist, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, owner_id, name, description, created_at, updated_at
FROM playlists
WHERE owner_id = ?
ORDER BY created_at DESC, id DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	defer rows.Close()

	var playlists []domain.Playlist
	for rows.Next() {
		var playlist domain.Playlist
		if err := rows.Scan(
			&playlist.ID,
			&playlist.OwnerID,
			&playlist.Name,
			&playlist.Description,
			&playlist.CreatedAt,
			&playlist.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan playlist: %w", err)
		}
		playlists = append(playlists, playlist)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate playlists: %w", err)
	}
	return playlists, nil
}

func (r *PlaylistRepository) UpdateDetails(ctx context.Context, id int64, name, description string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE playlists SET name = ?, description = ?, updated_at = ? WHERE id = ?`,
		name, description, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update playlist: %w", err)
	}
	return requireRow(res, "update playlist")
}

func (r *PlaylistRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM playlists WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}
	return nil
}

func (r *PlaylistRepository) AddVideo(ctx context.Context, playlistID, videoID int64) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO playlist_videos (playlist_id, video_id, added_at)
VALUES (?, ?, ?)`,
		playlistID, videoID, time.Now().UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("add playlist video: %w", repository.ErrDuplicate)
		}
		return fmt.Errorf("add playlist video: %w", err)
	}
	return nil
}

func (r *PlaylistRepository) RemoveVideo(ctx context.Context, playlistID, videoID int64) error {
	res, err := r.db.ExecContext(ctx, `
DELETE FROM playlist_videos WHERE playlist_id = ? AND video_id = ?`,
		playlistID, videoID,
	)
	if err != nil {
		return fmt.Errorf("remove playlist video: %w", err)
	}
	return requireRow(res, "remove playlist video")
}

func (r *PlaylistRepository) ListVideos(ctx context.Context, playlistID int64) ([]domain.Video, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+videoColumns+`, u.id, u.username, u.full_name, u.avatar_url
FROM playlist_videos pv
JOIN videos v ON v.id = pv.video_id
JOIN users u ON u.id = v.owner_id
WHERE pv.playlist_id = ?
ORDER BY pv.added_at ASC`,
		playlistID,
	)
	if err != nil {
		return nil, fmt.Errorf("list playlist videos: %w", err)
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
		return nil, fmt.Errorf("iterate playlist videos: %w", err)
	}
	return videos, nil
}

func (r *PlaylistRepository) RemoveVideoEverywhere(ctx context.Context, videoID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM playlist_videos WHERE video_id = ?`, videoID)
	if err != nil {
		return fmt.Errorf("remove video from playlists: %w", err)
	}
	return nil
}
