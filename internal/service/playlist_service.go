package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vidtube/internal/domain"
	"vidtube/internal/repository"
)

// PlaylistService manages user playlists and their video membership.
type PlaylistService interface {
	Create(ctx context.Context, ownerID int64, name, description string) (*domain.Playlist, error)
	Get(ctx context.Context, id int64) (*domain.Playlist, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Playlist, error)
	Update(ctx context.Context, id, actorID int64, name, description string) (*domain.Playlist, error)
	Delete(ctx context.Context, id, actorID int64) error
	AddVideo(ctx context.Context, playlistID, videoID, actorID int64) (*domain.Playlist, error)
	RemoveVideo(ctx context.Context, playlistID, videoID, actorID int64) (*domain.Playlist, error)
}

type playlistService struct {
	playlists repository.PlaylistRepository
	videos    repository.VideoRepository
	users     repository.UserRepository
}

func NewPlaylistService(playlists repository.PlaylistRepository, videos repository.VideoRepository, users repository.UserRepository) PlaylistService {
	return &playlistService{
		playlists: playlists,
		videos:    videos,
		users:     users,
	}
}

func (s *playlistService) Create(ctx context.Context, ownerID int64, name, description string) (*domain.Playlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidInput("playlist name is required")
	}

	playlist := &domain.Playlist{
		OwnerID:     ownerID,
		Name:        name,
		Description: strings.TrimSpace(description),
	}
	if _, err := s.playlists.Create(ctx, playlist); err != nil {
		return nil, err
	}
	return playlist, nil
}

func (s *playlistService) Get(ctx context.Context, id int64) (*domain.Playlist, error) {
	playlist, err := s.playlists.Get(ctx, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	if playlist.Videos, err = s.playlists.ListVideos(ctx, id); err != nil {
		return nil, err
	}
	return playlist, nil
}

func (s *playlistService) ListByUser(ctx context.Context, userID int64) ([]domain.Playlist, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, notFoundOr(err)
	}
	return s.playlists.ListByOwner(ctx, userID)
}

func (s *playlistService) Update(ctx context.Context, id, actorID int64, name, description string) (*domain.Playlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidInput("playlist name is required")
	}

	playlist, err := s.ownedPlaylist(ctx, id, actorID)
	if err != nil {
		return nil, err
	}

	if err := s.playlists.UpdateDetails(ctx, id, name, strings.TrimSpace(description)); err != nil {
		return nil, err
	}
	playlist.Name = name
	playlist.Description = strings.TrimSpace(description)
	return playlist, nil
}

func (s *playlistService) Delete(ctx context.Context, id, actorID int64) error {
	if _, err := s.ownedPlaylist(ctx, id, actorID); err != nil {
		return err
	}
	return s.playlists.Delete(ctx, id)
}

func (s *playlistService) AddVideo(ctx context.Context, playlistID, videoID, actorID int64) (*domain.Playlist, error) {
	if _, err := s.ownedPlaylist(ctx, playlistID, actorID); err != nil {
		return nil, err
	}
	if _, err := s.videos.Get(ctx, videoID); err != nil {
		return nil, notFoundOr(err)
	}

	if err := s.playlists.AddVideo(ctx, playlistID, videoID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("video already in playlist: %w", ErrAlreadyExists)
		}
		return nil, err
	}
	return s.Get(ctx, playlistID)
}

func (s *playlistService) RemoveVideo(ctx context.Context, playlistID, videoID, actorID int64) (*domain.Playlist, error) {
	if _, err := s.ownedPlaylist(ctx, playlistID, actorID); err != nil {
		return nil, err
	}

	if err := s.playlists.RemoveVideo(ctx, playlistID, videoID); err != nil {
		return nil, notFoundOr(err)
	}
	return s.Get(ctx, playlistID)
}

func (s *playlistService) ownedPlaylist(ctx context.Context, id, actorID int64) (*domain.Playlist, error) {
	playlist, err := s.playlists.Get(ctx, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	if playlist.OwnerID != actorID {
		return nil, ErrForbidden
	}
	return playlist, nil
}
