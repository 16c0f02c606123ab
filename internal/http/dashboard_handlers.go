package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (h *Handler) getChannelStats(c *gin.Context) {
	stats, err := h.dashboard.ChannelStats(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{
		"totalVideos":      stats.TotalVideos,
		"totalViews":       stats.TotalViews,
		"totalSubscribers": stats.TotalSubscribers,
		"totalLikes":       stats.TotalLikes,
	}, "channel stats fetched")
}

func (h *Handler) getChannelVideos(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	videos, total, err := h.dashboard.ChannelVideos(c.Request.Context(), currentUserID(c), page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, PageResponse{
		Items: videosToResponse(videos),
		Total: total,
		Page:  page,
		Limit: limit,
	}, "channel videos fetched")
}
