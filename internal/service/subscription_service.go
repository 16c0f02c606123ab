package service

import (
	"context"

	"vidtube/internal/domain"
	"vidtube/internal/repository"
)

// SubscriptionService manages channel subscriptions.
type SubscriptionService interface {
	Toggle(ctx context.Context, subscriberID, channelID int64) (bool, error)
	Subscribers(ctx context.Context, channelID int64) ([]domain.User, error)
	SubscribedChannels(ctx context.Context, subscriberID int64) ([]domain.User, error)
}

type subscriptionService struct {
	subs  repository.SubscriptionRepository
	users repository.UserRepository
}

func NewSubscriptionService(subs repository.SubscriptionRepository, users repository.UserRepository) SubscriptionService {
	return &subscriptionService{subs: subs, users: users}
}

func (s *subscriptionService) Toggle(ctx context.Context, subscriberID, channelID int64) (bool, error) {
	if subscriberID == channelID {
		return false, invalidInput("cannot subscribe to your own channel")
	}
	if _, err := s.users.GetByID(ctx, channelID); err != nil {
		return false, notFoundOr(err)
	}
	return s.subs.Toggle(ctx, subscriberID, channelID)
}

func (s *subscriptionService) Subscribers(ctx context.Context, channelID int64) ([]domain.User, error) {
	if _, err := s.users.GetByID(ctx, channelID); err != nil {
		return nil, notFoundOr(err)
	}
	return s.subs.ListSubscribers(ctx, channelID)
}

func (s *subscriptionService) SubscribedChannels(ctx context.Context, subscriberID int64) ([]domain.User, error) {
	if _, err := s.users.GetByID(ctx, subscriberID); err != nil {
		return nil, notFoundOr(err)
	}
	return s.subs.ListChannels(ctx, subscriberID)
}
