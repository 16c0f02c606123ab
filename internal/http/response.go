package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vidtube/internal/domain"
	"vidtube/internal/service"
)

// apiResponse is the uniform success envelope for every endpoint.
type apiResponse struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// apiError is the parallel error envelope.
type apiError struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
}

func respond(c *gin.Context, status int, data any, message string) {
	c.JSON(status, apiResponse{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < http.StatusBadRequest,
	})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, apiError{
		StatusCode: status,
		Message:    message,
		Success:    false,
		Errors:     []string{message},
	})
}

// respondServiceError translates the service error taxonomy into transport
// status codes at the boundary.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "invalid user credentials")
	case errors.Is(err, service.ErrInvalidToken):
		respondError(c, http.StatusUnauthorized, "invalid or expired token")
	case errors.Is(err, service.ErrForbidden):
		respondError(c, http.StatusForbidden, "you do not own this resource")
	case errors.Is(err, service.ErrAlreadyExists):
		respondError(c, http.StatusConflict, err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "internal server error")
	}
}

type UserResponse struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email,omitempty"`
	FullName   string `json:"fullName"`
	Avatar     string `json:"avatar"`
	CoverImage string `json:"coverImage,omitempty"`
	CreatedAt  string `json:"createdAt,omitempty"`
	UpdatedAt  string `json:"updatedAt,omitempty"`
}

type ChannelProfileResponse struct {
	UserResponse
	SubscriberCount int64 `json:"subscriberCount"`
	SubscribedTo    int64 `json:"channelsSubscribedToCount"`
	IsSubscribed    bool  `json:"isSubscribed"`
}

type VideoResponse struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	VideoFile   string        `json:"videoFile"`
	Thumbnail   string        `json:"thumbnail"`
	Duration    float64       `json:"duration"`
	Views       int64         `json:"views"`
	IsPublished bool          `json:"isPublished"`
	CreatedAt   string        `json:"createdAt"`
	UpdatedAt   string        `json:"updatedAt"`
	Owner       *UserResponse `json:"owner,omitempty"`
}

type CommentResponse struct {
	ID        int64         `json:"id"`
	VideoID   int64         `json:"videoId"`
	Content   string        `json:"content"`
	CreatedAt string        `json:"createdAt"`
	UpdatedAt string        `json:"updatedAt"`
	Owner     *UserResponse `json:"owner,omitempty"`
}

type TweetResponse struct {
	ID        int64         `json:"id"`
	Content   string        `json:"content"`
	CreatedAt string        `json:"createdAt"`
	UpdatedAt string        `json:"updatedAt"`
	Owner     *UserResponse `json:"owner,omitempty"`
}

type PlaylistResponse struct {
	ID          int64           `json:"id"`
	OwnerID     int64           `json:"ownerId"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	CreatedAt   string          `json:"createdAt"`
	UpdatedAt   string          `json:"updatedAt"`
	Videos      []VideoResponse `json:"videos,omitempty"`
}

type WatchEntryResponse struct {
	WatchedAt string        `json:"watchedAt"`
	Video     VideoResponse `json:"video"`
}

type PageResponse struct {
	Items any   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

func userToResponse(user *domain.User) *UserResponse {
	if user == nil {
		return nil
	}
	resp := &UserResponse{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		FullName:   user.FullName,
		Avatar:     user.AvatarURL,
		CoverImage: user.CoverImageURL,
	}
	if !user.CreatedAt.IsZero() {
		resp.CreatedAt = user.CreatedAt.Format(time.RFC3339)
	}
	if !user.UpdatedAt.IsZero() {
		resp.UpdatedAt = user.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}

func videoToResponse(video domain.Video) VideoResponse {
	return VideoResponse{
		ID:          video.ID,
		Title:       video.Title,
		Description: video.Description,
		VideoFile:   video.VideoURL,
		Thumbnail:   video.ThumbnailURL,
		Duration:    video.Duration,
		Views:       video.Views,
		IsPublished: video.Published,
		CreatedAt:   video.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   video.UpdatedAt.Format(time.RFC3339),
		Owner:       publicUser(video.Owner),
	}
}

func videosToResponse(videos []domain.Video) []VideoResponse {
	resp := make([]VideoResponse, len(videos))
	for i := range videos {
		resp[i] = videoToResponse(videos[i])
	}
	return resp
}

func commentToResponse(comment domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        comment.ID,
		VideoID:   comment.VideoID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt.Format(time.RFC3339),
		UpdatedAt: comment.UpdatedAt.Format(time.RFC3339),
		Owner:     publicUser(comment.Owner),
	}
}

func tweetToResponse(tweet domain.Tweet) TweetResponse {
	return TweetResponse{
		ID:        tweet.ID,
		Content:   tweet.Content,
		CreatedAt: tweet.CreatedAt.Format(time.RFC3339),
		UpdatedAt: tweet.UpdatedAt.Format(time.RFC3339),
		Owner:     publicUser(tweet.Owner),
	}
}

func playlistToResponse(playlist domain.Playlist) PlaylistResponse {
	return PlaylistResponse{
		ID:          playlist.ID,
		OwnerID:     playlist.OwnerID,
		Name:        playlist.Name,
		Description: playlist.Description,
		CreatedAt:   playlist.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   playlist.UpdatedAt.Format(time.RFC3339),
		Videos:      videosToResponse(playlist.Videos),
	}
}

// publicUser strips email and image details down to what other users may see.
func publicUser(user *domain.User) *UserResponse {
	if user == nil {
		return nil
	}
	return &UserResponse{
		ID:       user.ID,
		Username: user.Username,
		FullName: user.FullName,
		Avatar:   user.AvatarURL,
	}
}
