package service

import (
	"context"

	"vidtube/internal/domain"
	"vidtube/internal/repository"
)

// DashboardService aggregates channel statistics for the owner's dashboard.
type DashboardService interface {
	ChannelStats(ctx context.Context, channelID int64) (*domain.ChannelStats, error)
	ChannelVideos(ctx context.Context, channelID int64, page, limit int) ([]domain.Video, int64, error)
}

type dashboardService struct {
	videos repository.VideoRepository
	subs   repository.SubscriptionRepository
	likes  repository.LikeRepository
}

func NewDashboardService(videos repository.VideoRepository, subs repository.SubscriptionRepository, likes repository.LikeRepository) DashboardService {
	return &dashboardService{
		videos: videos,
		subs:   subs,
		likes:  likes,
	}
}

func (s *dashboardService) ChannelStats(ctx context.Context, channelID int64) (*domain.ChannelStats, error) {
	stats := &domain.ChannelStats{}

	var err error
	if stats.TotalVideos, stats.TotalViews, err = s.videos.CountByOwner(ctx, channelID); err != nil {
		return nil, err
	}
	if stats.TotalSubscribers, err = s.subs.CountSubscribers(ctx, channelID); err != nil {
		return nil, err
	}
	if stats.TotalLikes, err = s.likes.CountForChannelVideos(ctx, channelID); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *dashboardService) ChannelVideos(ctx context.Context, channelID int64, page, limit int) ([]domain.Video, int64, error) {
	return s.videos.List(ctx, repository.VideoFilter{
		OwnerID:            &channelID,
		IncludeUnpublished: true,
		SortDesc:           true,
		Page:               page,
		Limit:              limit,
	})
}
