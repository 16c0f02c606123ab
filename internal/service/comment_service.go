package service

import (
	"context"
	"errors"
	"strings"

	"vidtube/internal/domain"
	"vidtube/internal/repository"
)

// CommentService manages video comments with ownership-checked mutation.
type CommentService interface {
	Add(ctx context.Context, videoID, ownerID int64, content string) (*domain.Comment, error)
	ListByVideo(ctx context.Context, videoID int64, page, limit int) ([]domain.Comment, int64, error)
	Update(ctx context.Context, id, actorID int64, content string) (*domain.Comment, error)
	Delete(ctx context.Context, id, actorID int64) error
}

type commentService struct {
	comments repository.CommentRepository
	videos   repository.VideoRepository
	likes    repository.LikeRepository
}

func NewCommentService(comments repository.CommentRepository, videos repository.VideoRepository, likes repository.LikeRepository) CommentService {
	return &commentService{
		comments: comments,
		videos:   videos,
		likes:    likes,
	}
}

func (s *commentService) Add(ctx context.Context, videoID, ownerID int64, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, invalidInput("comment content is required")
	}

	if _, err := s.videos.Get(ctx, videoID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	comment := &domain.Comment{
		VideoID: videoID,
		OwnerID: ownerID,
		Content: content,
	}
	if _, err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *commentService) ListByVideo(ctx context.Context, videoID int64, page, limit int) ([]domain.Comment, int64, error) {
	if _, err := s.videos.Get(ctx, videoID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, err
	}
	return s.comments.ListByVideo(ctx, videoID, page, limit)
}

func (s *commentService) Update(ctx context.Context, id, actorID int64, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, invalidInput("comment content is required")
	}

	comment, err := s.ownedComment(ctx, id, actorID)
	if err != nil {
		return nil, err
	}

	if err := s.comments.UpdateContent(ctx, id, content); err != nil {
		return nil, err
	}
	comment.Content = content
	return comment, nil
}

func (s *commentService) Delete(ctx context.Context, id, actorID int64) error {
	if _, err := s.ownedComment(ctx, id, actorID); err != nil {
		return err
	}
	if err := s.likes.DeleteForTarget(ctx, domain.LikeTargetComment, id); err != nil {
		return err
	}
	return s.comments.Delete(ctx, id)
}

func (s *commentService) ownedComment(ctx context.Context, id, actorID int64) (*domain.Comment, error) {
	comment, err := s.comments.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if comment.OwnerID != actorID {
		return nil, ErrForbidden
	}
	return comment, nil
}
