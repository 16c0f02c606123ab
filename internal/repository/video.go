package repository

import (
	"context"

	"vidtube/internal/domain"
)

// VideoFilter narrows and orders a video listing.
type VideoFilter struct {
	// Query matches against title and description, case-insensitive.
	Query string
	// OwnerID restricts to a single channel when non-nil.
	OwnerID *int64
	// IncludeUnpublished lifts the published-only restriction (owner and
	// dashboard views).
	IncludeUnpublished bool
	// SortBy is one of created_at, views, duration, title. Empty means
	// created_at.
	SortBy   string
	SortDesc bool
	Page     int
	Limit    int
}

// VideoRepository defines persistence operations for Video entities.
type VideoRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, video *domain.Video) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Video, error)
	List(ctx context.Context, filter VideoFilter) ([]domain.Video, int64, error)
	UpdateDetails(ctx context.Context, id int64, title, description string) error
	UpdateThumbnail(ctx context.Context, id int64, thumbnailURL string) error
	SetPublished(ctx context.Context, id int64, published bool) error
	IncrementViews(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error

	// CountByOwner returns the number of videos and the summed view count
	// for a channel, published or not.
	CountByOwner(ctx context.Context, ownerID int64) (videos int64, views int64, err error)
}
