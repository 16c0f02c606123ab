package service

import (
	"context"
	"errors"

	"vidtube/internal/domain"
	"vidtube/internal/repository"
)

// LikeService toggles likes on videos, comments and tweets.
type LikeService interface {
	ToggleVideoLike(ctx context.Context, userID, videoID int64) (bool, error)
	ToggleCommentLike(ctx context.Context, userID, commentID int64) (bool, error)
	ToggleTweetLike(ctx context.Context, userID, tweetID int64) (bool, error)
	LikedVideos(ctx context.Context, userID int64) ([]domain.Video, error)
}

type likeService struct {
	likes    repository.LikeRepository
	videos   repository.VideoRepository
	comments repository.CommentRepository
	tweets   repository.TweetRepository
}

func NewLikeService(likes repository.LikeRepository, videos repository.VideoRepository, comments repository.CommentRepository, tweets repository.TweetRepository) LikeService {
	return &likeService{
		likes:    likes,
		videos:   videos,
		comments: comments,
		tweets:   tweets,
	}
}

func (s *likeService) ToggleVideoLike(ctx context.Context, userID, videoID int64) (bool, error) {
	if _, err := s.videos.Get(ctx, videoID); err != nil {
		return false, notFoundOr(err)
	}
	return s.likes.Toggle(ctx, userID, domain.LikeTargetVideo, videoID)
}

func (s *likeService) ToggleCommentLike(ctx context.Context, userID, commentID int64) (bool, error) {
	if _, err := s.comments.Get(ctx, commentID); err != nil {
		return false, notFoundOr(err)
	}
	return s.likes.Toggle(ctx, userID, domain.LikeTargetComment, commentID)
}

func (s *likeService) ToggleTweetLike(ctx context.Context, userID, tweetID int64) (bool, error) {
	if _, err := s.tweets.Get(ctx, tweetID); err != nil {
		return false, notFoundOr(err)
	}
	return s.likes.Toggle(ctx, userID, domain.LikeTargetTweet, tweetID)
}

func (s *likeService) LikedVideos(ctx context.Context, userID int64) ([]domain.Video, error) {
	return s.likes.ListLikedVideos(ctx, userID)
}

func notFoundOr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
