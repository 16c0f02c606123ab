package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"vidtube/internal/auth"
	"vidtube/internal/domain"
	"vidtube/internal/repository"
)

// TokenPair carries one freshly issued access/refresh token couple.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// RegisterParams is the validated registration payload. Avatar and cover
// image have already been uploaded; only their URLs are persisted here.
type RegisterParams struct {
	FullName      string
	Username      string
	Email         string
	Password      string
	AvatarURL     string
	CoverImageURL string
}

// UserService owns the account lifecycle and the session state machine:
// registration, login, refresh-token rotation, logout, profile updates and
// watch history.
type UserService interface {
	Register(ctx context.Context, params RegisterParams) (*domain.User, error)
	// Login accepts username and email as independent lookup predicates;
	// either may be empty, at least one must be set.
	Login(ctx context.Context, username, email, password string) (*domain.User, TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (TokenPair, error)
	Logout(ctx context.Context, userID int64) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error
	UpdateDetails(ctx context.Context, userID int64, fullName, email string) (*domain.User, error)
	UpdateAvatar(ctx context.Context, userID int64, avatarURL string) (*domain.User, error)
	UpdateCoverImage(ctx context.Context, userID int64, coverImageURL string) (*domain.User, error)
	ChannelProfile(ctx context.Context, username string, viewerID int64) (*domain.ChannelProfile, error)
	RecordWatch(ctx context.Context, userID, videoID int64) error
	WatchHistory(ctx context.Context, userID int64) ([]domain.WatchEntry, error)
}

type userService struct {
	users      repository.UserRepository
	subs       repository.SubscriptionRepository
	tokens     *auth.Issuer
	bcryptCost int
}

func NewUserService(users repository.UserRepository, subs repository.SubscriptionRepository, tokens *auth.Issuer, bcryptCost int) UserService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &userService{
		users:      users,
		subs:       subs,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

func (s *userService) Register(ctx context.Context, params RegisterParams) (*domain.User, error) {
	fullName := strings.TrimSpace(params.FullName)
	username := strings.ToLower(strings.TrimSpace(params.Username))
	email := strings.ToLower(strings.TrimSpace(params.Email))
	password := strings.TrimSpace(params.Password)

	if fullName == "" || username == "" || email == "" || password == "" {
		return nil, invalidInput("all fields are required")
	}
	if params.AvatarURL == "" {
		return nil, invalidInput("avatar is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:      username,
		Email:         email,
		FullName:      fullName,
		AvatarURL:     params.AvatarURL,
		CoverImageURL: params.CoverImageURL,
		PasswordHash:  string(hash),
	}

	if _, err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("username or email taken: %w", ErrAlreadyExists)
		}
		return nil, err
	}

	return sanitizeUser(user), nil
}

func (s *userService) Login(ctx context.Context, username, email, password string) (*domain.User, TokenPair, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))
	password = strings.TrimSpace(password)

	if username == "" && email == "" {
		return nil, TokenPair{}, invalidInput("username or email is required")
	}
	if password == "" {
		return nil, TokenPair{}, invalidInput("password is required")
	}

	user, err := s.users.GetByUsernameOrEmail(ctx, username, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, TokenPair{}, fmt.Errorf("user does not exist: %w", ErrNotFound)
		}
		return nil, TokenPair{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.issuePair(user.ID)
	if err != nil {
		return nil, TokenPair{}, err
	}

	// Single active session per account: the previous token is overwritten.
	if err := s.users.SetRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, TokenPair{}, err
	}

	return sanitizeUser(user), pair, nil
}

func (s *userService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return TokenPair{}, fmt.Errorf("refresh token missing: %w", ErrInvalidToken)
	}

	userID, err := s.tokens.Verify(refreshToken, auth.PurposeRefresh)
	if err != nil {
		return TokenPair{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return TokenPair{}, ErrInvalidToken
		}
		return TokenPair{}, err
	}

	// Rotation: only the exact token we stored last is usable, once.
	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		return TokenPair{}, fmt.Errorf("refresh token expired or used: %w", ErrInvalidToken)
	}

	pair, err := s.issuePair(user.ID)
	if err != nil {
		return TokenPair{}, err
	}

	// Conditional on the incoming value so two concurrent refreshes cannot
	// both succeed; the loser sees its token already superseded.
	rotated, err := s.users.RotateRefreshToken(ctx, user.ID, refreshToken, pair.RefreshToken)
	if err != nil {
		return TokenPair{}, err
	}
	if !rotated {
		return TokenPair{}, fmt.Errorf("refresh token expired or used: %w", ErrInvalidToken)
	}

	return pair, nil
}

func (s *userService) Logout(ctx context.Context, userID int64) error {
	return s.users.ClearRefreshToken(ctx, userID)
}

func (s *userService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	oldPassword = strings.TrimSpace(oldPassword)
	newPassword = strings.TrimSpace(newPassword)
	if oldPassword == "" || newPassword == "" {
		return invalidInput("old and new passwords are required")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.UpdatePasswordHash(ctx, userID, string(hash))
}

func (s *userService) UpdateDetails(ctx context.Context, userID int64, fullName, email string) (*domain.User, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.ToLower(strings.TrimSpace(email))
	if fullName == "" || email == "" {
		return nil, invalidInput("full name and email are required")
	}

	if err := s.users.UpdateDetails(ctx, userID, fullName, email); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("email taken: %w", ErrAlreadyExists)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.GetByID(ctx, userID)
}

func (s *userService) UpdateAvatar(ctx context.Context, userID int64, avatarURL string) (*domain.User, error) {
	if avatarURL == "" {
		return nil, invalidInput("avatar is required")
	}
	if err := s.users.UpdateAvatar(ctx, userID, avatarURL); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.GetByID(ctx, userID)
}

func (s *userService) UpdateCoverImage(ctx context.Context, userID int64, coverImageURL string) (*domain.User, error) {
	if coverImageURL == "" {
		return nil, invalidInput("cover image is required")
	}
	if err := s.users.UpdateCoverImage(ctx, userID, coverImageURL); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.GetByID(ctx, userID)
}

func (s *userService) ChannelProfile(ctx context.Context, username string, viewerID int64) (*domain.ChannelProfile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, invalidInput("username is required")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("channel does not exist: %w", ErrNotFound)
		}
		return nil, err
	}

	profile := &domain.ChannelProfile{User: *sanitizeUser(user)}

	if profile.SubscriberCount, err = s.subs.CountSubscribers(ctx, user.ID); err != nil {
		return nil, err
	}
	if profile.SubscribedTo, err = s.subs.CountSubscriptions(ctx, user.ID); err != nil {
		return nil, err
	}
	if viewerID > 0 {
		if profile.IsSubscribed, err = s.subs.IsSubscribed(ctx, viewerID, user.ID); err != nil {
			return nil, err
		}
	}
	return profile, nil
}

func (s *userService) RecordWatch(ctx context.Context, userID, videoID int64) error {
	return s.users.AddWatchEntry(ctx, userID, videoID)
}

func (s *userService) WatchHistory(ctx context.Context, userID int64) ([]domain.WatchEntry, error) {
	return s.users.ListWatchHistory(ctx, userID)
}

func (s *userService) issuePair(userID int64) (TokenPair, error) {
	access, err := s.tokens.IssueAccessToken(userID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.tokens.IssueRefreshToken(userID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue refresh token: %w", err)
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	clean := *user
	clean.PasswordHash = ""
	clean.RefreshToken = ""
	return &clean
}
