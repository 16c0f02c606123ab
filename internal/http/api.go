package http

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"vidtube/internal/auth"
	"vidtube/internal/service"
	"vidtube/internal/storage"
)

// Options carries handler-level configuration.
type Options struct {
	Bucket       string
	KeyPrefix    string
	TempDir      string
	CookieSecure bool
	MaxVideoMB   int64
	MaxImageMB   int64
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	users     service.UserService
	videos    service.VideoService
	comments  service.CommentService
	likes     service.LikeService
	subs      service.SubscriptionService
	playlists service.PlaylistService
	tweets    service.TweetService
	dashboard service.DashboardService
	tokens    *auth.Issuer
	storage   storage.Service
	logger    *logrus.Logger
	opts      Options
}

func NewHandler(
	users service.UserService,
	videos service.VideoService,
	comments service.CommentService,
	likes service.LikeService,
	subs service.SubscriptionService,
	playlists service.PlaylistService,
	tweets service.TweetService,
	dashboard service.DashboardService,
	tokens *auth.Issuer,
	store storage.Service,
	logger *logrus.Logger,
	opts Options,
) *Handler {
	return &Handler{
		users:     users,
		videos:    videos,
		comments:  comments,
		likes:     likes,
		subs:      subs,
		playlists: playlists,
		tweets:    tweets,
		dashboard: dashboard,
		tokens:    tokens,
		storage:   store,
		logger:    logger,
		opts:      opts,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	api := router.Group("/api/v1")
	{
		api.GET("/healthcheck", func(ctx *gin.Context) {
			respond(ctx, http.StatusOK, gin.H{"status": "ok"}, "service is healthy")
		})

		users := api.Group("/users")
		{
			users.POST("/register", h.register)
			users.POST("/login", h.login)
			users.POST("/refresh-token", h.refreshToken)
			users.POST("/logout", h.requireAuth(), h.logout)
			users.GET("/current-user", h.requireAuth(), h.getCurrentUser)
			users.POST("/change-password", h.requireAuth(), h.changePassword)
			users.PATCH("/update-account", h.requireAuth(), h.updateAccount)
			users.PATCH("/avatar", h.requireAuth(), h.updateAvatar)
			users.PATCH("/cover-image", h.requireAuth(), h.updateCoverImage)
			users.GET("/c/:username", h.optionalAuth(), h.getChannelProfile)
			users.GET("/history", h.requireAuth(), h.getWatchHistory)
		}

		videos := api.Group("/videos")
		{
			videos.GET("", h.optionalAuth(), h.listVideos)
			videos.POST("", h.requireAuth(), h.publishVideo)
			videos.GET("/:videoId", h.optionalAuth(), h.getVideo)
			videos.PATCH("/:videoId", h.requireAuth(), h.updateVideo)
			videos.DELETE("/:videoId", h.requireAuth(), h.deleteVideo)
			videos.PATCH("/toggle/publish/:videoId", h.requireAuth(), h.togglePublish)
		}

		comments := api.Group("/comments")
		{
			comments.GET("/:videoId", h.listComments)
			comments.POST("/:videoId", h.requireAuth(), h.addComment)
			comments.PATCH("/c/:commentId", h.requireAuth(), h.updateComment)
			comments.DELETE("/c/:commentId", h.requireAuth(), h.deleteComment)
		}

		likes := api.Group("/likes", h.requireAuth())
		{
			likes.POST("/toggle/v/:videoId", h.toggleVideoLike)
			likes.POST("/toggle/c/:commentId", h.toggleCommentLike)
			likes.POST("/toggle/t/:tweetId", h.toggleTweetLike)
			likes.GET("/videos", h.getLikedVideos)
		}

		subs := api.Group("/subscriptions")
		{
			subs.POST("/c/:channelId", h.requireAuth(), h.toggleSubscription)
			subs.GET("/c/:channelId", h.listSubscribers)
			subs.GET("/u/:subscriberId", h.listSubscribedChannels)
		}

		playlists := api.Group("/playlist")
		{
			playlists.POST("", h.requireAuth(), h.createPlaylist)
			playlists.GET("/:playlistId", h.getPlaylist)
			playlists.PATCH("/:playlistId", h.requireAuth(), h.updatePlaylist)
			playlists.DELETE("/:playlistId", h.requireAuth(), h.deletePlaylist)
			playlists.PATCH("/add/:videoId/:playlistId", h.requireAuth(), h.addVideoToPlaylist)
			playlists.PATCH("/remove/:videoId/:playlistId", h.requireAuth(), h.removeVideoFromPlaylist)
			playlists.GET("/user/:userId", h.listUserPlaylists)
		}

		tweets := api.Group("/tweets")
		{
			tweets.POST("", h.requireAuth(), h.createTweet)
			tweets.GET("/user/:userId", h.listUserTweets)
			tweets.PATCH("/:tweetId", h.requireAuth(), h.updateTweet)
			tweets.DELETE("/:tweetId", h.requireAuth(), h.deleteTweet)
		}

		dashboard := api.Group("/dashboard", h.requireAuth())
		{
			dashboard.GET("/stats", h.getChannelStats)
			dashboard.GET("/videos", h.getChannelVideos)
		}
	}
}

// setSessionCookies mirrors the token pair into http-only cookies so browser
// clients carry the session without touching the JSON body.
func (h *Handler) setSessionCookies(c *gin.Context, pair service.TokenPair) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(accessTokenCookie, pair.AccessToken, 0, "/", "", h.opts.CookieSecure, true)
	c.SetCookie(refreshTokenCookie, pair.RefreshToken, 0, "/", "", h.opts.CookieSecure, true)
}

func (h *Handler) clearSessionCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(accessTokenCookie, "", -1, "/", "", h.opts.CookieSecure, true)
	c.SetCookie(refreshTokenCookie, "", -1, "/", "", h.opts.CookieSecure, true)
}

// uploadFormFile stages a multipart file in the temp dir, pushes it to object
// storage under keyPrefix and removes the staged copy.
func (h *Handler) uploadFormFile(c *gin.Context, file *multipart.FileHeader, keyPrefix string, maxMB int64) (storage.UploadedObject, error) {
	if maxMB > 0 && file.Size > maxMB<<20 {
		return storage.UploadedObject{}, fmt.Errorf("file %s exceeds the %dMB limit", file.Filename, maxMB)
	}

	if err := os.MkdirAll(h.opts.TempDir, 0o755); err != nil {
		return storage.UploadedObject{}, fmt.Errorf("create temp dir: %w", err)
	}

	localPath := filepath.Join(h.opts.TempDir, uuid.NewString()+"-"+filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, localPath); err != nil {
		return storage.UploadedObject{}, fmt.Errorf("stage upload: %w", err)
	}
	defer func() {
		if err := os.Remove(localPath); err != nil && !os.IsNotExist(err) {
			h.logger.Warnf("remove staged upload %s: %v", localPath, err)
		}
	}()

	object, err := h.storage.UploadFile(c.Request.Context(), localPath, storage.UploadOptions{
		Bucket:      h.opts.Bucket,
		KeyPrefix:   keyPrefix,
		ContentType: file.Header.Get("Content-Type"),
	})
	if err != nil {
		return storage.UploadedObject{}, fmt.Errorf("upload to storage: %w", err)
	}
	return object, nil
}

func (h *Handler) mediaKeyPrefix(parts ...string) string {
	prefix := h.opts.KeyPrefix
	for _, part := range parts {
		if prefix != "" {
			prefix += "/"
		}
		prefix += part
	}
	return prefix
}
