package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vidtube/internal/service"
)

func (h *Handler) listVideos(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	params := service.ListVideosParams{
		Query:    c.Query("query"),
		SortBy:   c.Query("sortBy"),
		SortDesc: c.DefaultQuery("sortType", "desc") == "desc",
		Page:     page,
		Limit:    limit,
		ViewerID: currentUserID(c),
	}

	if ownerStr := c.Query("userId"); ownerStr != "" {
		ownerID, err := strconv.ParseInt(ownerStr, 10, 64)
		if err != nil || ownerID <= 0 {
			respondError(c, http.StatusBadRequest, "invalid userId")
			return
		}
		params.OwnerID = &ownerID
	}

	videos, total, err := h.videos.List(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, PageResponse{
		Items: videosToResponse(videos),
		Total: total,
		Page:  page,
		Limit: limit,
	}, "videos fetched")
}

func (h *Handler) publishVideo(c *gin.Context) {
	title := c.PostForm("title")
	description := c.PostForm("description")

	videoFile, err := c.FormFile("videoFile")
	if err != nil {
		respondError(c, http.StatusBadRequest, "video file is required")
		return
	}
	thumbnail, err := c.FormFile("thumbnail")
	if err != nil {
		respondError(c, http.StatusBadRequest, "thumbnail is required")
		return
	}

	duration := 0.0
	if durationStr := c.PostForm("duration"); durationStr != "" {
		if duration, err = strconv.ParseFloat(durationStr, 64); err != nil || duration < 0 {
			respondError(c, http.StatusBadRequest, "invalid duration")
			return
		}
	}

	// Both media objects live under one prefix so deletion is a single
	// prefix sweep.
	prefix := h.mediaKeyPrefix("videos", uuid.NewString())

	uploadedVideo, err := h.uploadFormFile(c, videoFile, prefix, h.opts.MaxVideoMB)
	if err != nil {
		h.logger.Warnf("video upload: %v", err)
		respondError(c, http.StatusBadRequest, "video upload failed")
		return
	}
	uploadedThumb, err := h.uploadFormFile(c, thumbnail, prefix, h.opts.MaxImageMB)
	if err != nil {
		h.logger.Warnf("thumbnail upload: %v", err)
		respondError(c, http.StatusBadRequest, "thumbnail upload failed")
		return
	}

	video, err := h.videos.Publish(c.Request.Context(), service.PublishParams{
		OwnerID:          currentUserID(c),
		Title:            title,
		Description:      description,
		VideoURL:         uploadedVideo.URL,
		ThumbnailURL:     uploadedThumb.URL,
		StorageKeyPrefix: prefix,
		Duration:         duration,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusCreated, videoToResponse(*video), "video published successfully")
}

func (h *Handler) getVideo(c *gin.Context) {
	id, ok := pathID(c, "videoId")
	if !ok {
		return
	}

	viewerID := currentUserID(c)
	video, err := h.videos.Get(c.Request.Context(), id, viewerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if viewerID > 0 {
		if err := h.users.RecordWatch(c.Request.Context(), viewerID, video.ID); err != nil {
			h.logger.Warnf("record watch for user %d: %v", viewerID, err)
		}
	}

	respond(c, http.StatusOK, videoToResponse(*video), "video fetched")
}

func (h *Handler) updateVideo(c *gin.Context) {
	id, ok := pathID(c, "videoId")
	if !ok {
		return
	}

	actorID := currentUserID(c)
	title := c.PostForm("title")
	description := c.PostForm("description")

	video, err := h.videos.UpdateDetails(c.Request.Context(), id, actorID, title, description)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if thumbnail, ferr := c.FormFile("thumbnail"); ferr == nil {
		uploaded, uerr := h.uploadFormFile(c, thumbnail, video.StorageKeyPrefix, h.opts.MaxImageMB)
		if uerr != nil {
			h.logger.Warnf("thumbnail upload: %v", uerr)
			respondError(c, http.StatusBadRequest, "thumbnail upload failed")
			return
		}
		if video, err = h.videos.UpdateThumbnail(c.Request.Context(), id, actorID, uploaded.URL); err != nil {
			respondServiceError(c, err)
			return
		}
	}

	respond(c, http.StatusOK, videoToResponse(*video), "video updated")
}

func (h *Handler) deleteVideo(c *gin.Context) {
	id, ok := pathID(c, "videoId")
	if !ok {
		return
	}

	video, err := h.videos.Delete(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if video.StorageKeyPrefix != "" && h.opts.Bucket != "" {
		if err := h.storage.DeletePrefix(c.Request.Context(), h.opts.Bucket, video.StorageKeyPrefix); err != nil {
			h.logger.Warnf("delete remote media for video %d: %v", id, err)
		}
	}

	respond(c, http.StatusOK, gin.H{"deleted": id}, "video deleted")
}

func (h *Handler) togglePublish(c *gin.Context) {
	id, ok := pathID(c, "videoId")
	if !ok {
		return
	}

	video, err := h.videos.TogglePublish(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, videoToResponse(*video), "publish status toggled")
}

// pathID parses a positive int64 path parameter, writing the 400 itself on
// failure.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}
