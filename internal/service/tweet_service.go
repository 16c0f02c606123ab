package service

import (
	"context"
	"errors"
	"strings"

	"vidtube/internal/domain"
	"vidtube/internal/repository"
)

// TweetService manages short channel posts.
type TweetService interface {
	Create(ctx context.Context, ownerID int64, content string) (*domain.Tweet, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Tweet, error)
	Update(ctx context.Context, id, actorID int64, content string) (*domain.Tweet, error)
	Delete(ctx context.Context, id, actorID int64) error
}

type tweetService struct {
	tweets repository.TweetRepository
	likes  repository.LikeRepository
	users  repository.UserRepository
}

func NewTweetService(tweets repository.TweetRepository, likes repository.LikeRepository, users repository.UserRepository) TweetService {
	return &tweetService{
		tweets: tweets,
		likes:  likes,
		users:  users,
	}
}

func (s *tweetService) Create(ctx context.Context, ownerID int64, content string) (*domain.Tweet, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, invalidInput("tweet content is required")
	}

	tweet := &domain.Tweet{
		OwnerID: ownerID,
		Content: content,
	}
	if _, err := s.tweets.Create(ctx, tweet); err != nil {
		return nil, err
	}
	return tweet, nil
}

func (s *tweetService) ListByUser(ctx context.Context, userID int64) ([]domain.Tweet, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, notFoundOr(err)
	}
	return s.tweets.ListByOwner(ctx, userID)
}

func (s *tweetService) Update(ctx context.Context, id, actorID int64, content string) (*domain.Tweet, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, invalidInput("tweet content is required")
	}

	tweet, err := s.ownedTweet(ctx, id, actorID)
	if err != nil {
		return nil, err
	}

	if err := s.tweets.UpdateContent(ctx, id, content); err != nil {
		return nil, err
	}
	tweet.Content = content
	return tweet, nil
}

func (s *tweetService) Delete(ctx context.Context, id, actorID int64) error {
	if _, err := s.ownedTweet(ctx, id, actorID); err != nil {
		return err
	}
	if err := s.likes.DeleteForTarget(ctx, domain.LikeTargetTweet, id); err != nil {
		return err
	}
	return s.tweets.Delete(ctx, id)
}

func (s *tweetService) ownedTweet(ctx context.Context, id, actorID int64) (*domain.Tweet, error) {
	tweet, err := s.tweets.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if tweet.OwnerID != actorID {
		return nil, ErrForbidden
	}
	return tweet, nil
}
