package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) toggleVideoLike(c *gin.Context) {
	h.toggleLike(c, "videoId", h.likes.ToggleVideoLike)
}

func (h *Handler) toggleCommentLike(c *gin.Context) {
	h.toggleLike(c, "commentId", h.likes.ToggleCommentLike)
}

func (h *Handler) toggleTweetLike(c *gin.Context) {
	h.toggleLike(c, "tweetId", h.likes.ToggleTweetLike)
}

func (h *Handler) toggleLike(c *gin.Context, param string, toggle func(ctx context.Context, userID, targetID int64) (bool, error)) {
	targetID, ok := pathID(c, param)
	if !ok {
		return
	}

	liked, err := toggle(c.Request.Context(), currentUserID(c), targetID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	message := "unliked"
	if liked {
		message = "liked"
	}
	respond(c, http.StatusOK, gin.H{"liked": liked}, message)
}

func (h *Handler) getLikedVideos(c *gin.Context) {
	videos, err := h.likes.LikedVideos(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, videosToResponse(videos), "liked videos fetched")
}
