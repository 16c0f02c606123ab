package service

import (
	"context"
	"errors"
	"strings"

	"vidtube/internal/domain"
	"vidtube/internal/repository"
)

// PublishParams is the payload for publishing a video whose media has already
// been uploaded to object storage.
type PublishParams struct {
	OwnerID          int64
	Title            string
	Description      string
	VideoURL         string
	ThumbnailURL     string
	StorageKeyPrefix string
	Duration         float64
}

// ListVideosParams narrows the public video listing.
type ListVideosParams struct {
	Query    string
	OwnerID  *int64
	SortBy   string
	SortDesc bool
	Page     int
	Limit    int
	// ViewerID lets a channel owner see their own unpublished videos.
	ViewerID int64
}

// VideoService coordinates video lifecycle operations backed by repositories.
type VideoService interface {
	Publish(ctx context.Context, params PublishParams) (*domain.Video, error)
	Get(ctx context.Context, id, viewerID int64) (*domain.Video, error)
	List(ctx context.Context, params ListVideosParams) ([]domain.Video, int64, error)
	UpdateDetails(ctx context.Context, id, actorID int64, title, description string) (*domain.Video, error)
	UpdateThumbnail(ctx context.Context, id, actorID int64, thumbnailURL string) (*domain.Video, error)
	TogglePublish(ctx context.Context, id, actorID int64) (*domain.Video, error)
	// Delete removes the video and its dependent records and returns the
	// deleted video so the caller can clean up remote storage.
	Delete(ctx context.Context, id, actorID int64) (*domain.Video, error)
}

type videoService struct {
	videos    repository.VideoRepository
	comments  repository.CommentRepository
	likes     repository.LikeRepository
	playlists repository.PlaylistRepository
}

func NewVideoService(videos repository.VideoRepository, comments repository.CommentRepository, likes repository.LikeRepository, playlists repository.PlaylistRepository) VideoService {
	return &videoService{
		videos:    videos,
		comments:  comments,
		likes:     likes,
		playlists: playlists,
	}
}

func (s *videoService) Publish(ctx context.Context, params PublishParams) (*domain.Video, error) {
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return nil, invalidInput("title is required")
	}
	if params.VideoURL == "" || params.ThumbnailURL == "" {
		return nil, invalidInput("video file and thumbnail are required")
	}

	video := &domain.Video{
		OwnerID:          params.OwnerID,
		Title:            title,
		Description:      strings.TrimSpace(params.Description),
		VideoURL:         params.VideoURL,
		ThumbnailURL:     params.ThumbnailURL,
		StorageKeyPrefix: params.StorageKeyPrefix,
		Duration:         params.Duration,
		Published:        true,
	}

	if _, err := s.videos.Create(ctx, video); err != nil {
		return nil, err
	}
	return video, nil
}

func (s *videoService) Get(ctx context.Context, id, viewerID int64) (*domain.Video, error) {
	video, err := s.videos.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// Unpublished videos exist only for their owner.
	if !video.Published && video.OwnerID != viewerID {
		return nil, ErrNotFound
	}

	if err := s.videos.IncrementViews(ctx, id); err != nil {
		return nil, err
	}
	video.Views++
	return video, nil
}

var allowedVideoSorts = map[string]bool{
	"": true, "created_at": true, "views": true, "duration": true, "title": true,
}

func (s *videoService) List(ctx context.Context, params ListVideosParams) ([]domain.Video, int64, error) {
	if !allowedVideoSorts[params.SortBy] {
		return nil, 0, invalidInput("invalid sort field")
	}

	filter := repository.VideoFilter{
		Query:    params.Query,
		OwnerID:  params.OwnerID,
		SortBy:   params.SortBy,
		SortDesc: params.SortDesc,
		Page:     params.Page,
		Limit:    params.Limit,
	}
	if params.OwnerID != nil && *params.OwnerID == params.ViewerID && params.ViewerID > 0 {
		filter.IncludeUnpublished = true
	}

	return s.videos.List(ctx, filter)
}

func (s *videoService) UpdateDetails(ctx context.Context, id, actorID int64, title, description string) (*domain.Video, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, invalidInput("title is required")
	}

	video, err := s.ownedVideo(ctx, id, actorID)
	if err != nil {
		return nil, err
	}

	if err := s.videos.UpdateDetails(ctx, video.ID, title, strings.TrimSpace(description)); err != nil {
		return nil, err
	}
	video.Title = title
	video.Description = strings.TrimSpace(description)
	return video, nil
}

func (s *videoService) UpdateThumbnail(ctx context.Context, id, actorID int64, thumbnailURL string) (*domain.Video, error) {
	if thumbnailURL == "" {
		return nil, invalidInput("thumbnail is required")
	}

	video, err := s.ownedVideo(ctx, id, actorID)
	if err != nil {
		return nil, err
	}

	if err := s.videos.UpdateThumbnail(ctx, video.ID, thumbnailURL); err != nil {
		return nil, err
	}
	video.ThumbnailURL = thumbnailURL
	return video, nil
}

func (s *videoService) TogglePublish(ctx context.Context, id, actorID int64) (*domain.Video, error) {
	video, err := s.ownedVideo(ctx, id, actorID)
	if err != nil {
		return nil, err
	}

	if err := s.videos.SetPublished(ctx, video.ID, !video.Published); err != nil {
		return nil, err
	}
	video.Published = !video.Published
	return video, nil
}

func (s *videoService) Delete(ctx context.Context, id, actorID int64) (*domain.Video, error) {
	video, err := s.ownedVideo(ctx, id, actorID)
	if err != nil {
		return nil, err
	}

	// Likes on the video's comments go first, while the comments still exist.
	if err := s.likes.DeleteForVideoComments(ctx, id); err != nil {
		return nil, err
	}
	if err := s.comments.DeleteByVideo(ctx, id); err != nil {
		return nil, err
	}
	if err := s.likes.DeleteForTarget(ctx, domain.LikeTargetVideo, id); err != nil {
		return nil, err
	}
	if err := s.playlists.RemoveVideoEverywhere(ctx, id); err != nil {
		return nil, err
	}
	if err := s.videos.Delete(ctx, id); err != nil {
		return nil, err
	}
	return video, nil
}

func (s *videoService) ownedVideo(ctx context.Context, id, actorID int64) (*domain.Video, error) {
	video, err := s.videos.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if video.OwnerID != actorID {
		return nil, ErrForbidden
	}
	return video, nil
}
