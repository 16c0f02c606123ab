package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (h *Handler) listComments(c *gin.Context) {
	videoID, ok := pathID(c, "videoId")
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	comments, total, err := h.comments.ListByVideo(c.Request.Context(), videoID, page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := make([]CommentResponse, len(comments))
	for i := range comments {
		resp[i] = commentToResponse(comments[i])
	}
	respond(c, http.StatusOK, PageResponse{
		Items: resp,
		Total: total,
		Page:  page,
		Limit: limit,
	}, "comments fetched")
}

type commentRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *Handler) addComment(c *gin.Context) {
	videoID, ok := pathID(c, "videoId")
	if !ok {
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	comment, err := h.comments.Add(c.Request.Context(), videoID, currentUserID(c), req.Content)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusCreated, commentToResponse(*comment), "comment added")
}

func (h *Handler) updateComment(c *gin.Context) {
	commentID, ok := pathID(c, "commentId")
	if !ok {
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	comment, err := h.comments.Update(c.Request.Context(), commentID, currentUserID(c), req.Content)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, commentToResponse(*comment), "comment updated")
}

func (h *Handler) deleteComment(c *gin.Context) {
	commentID, ok := pathID(c, "commentId")
	if !ok {
		return
	}

	if err := h.comments.Delete(c.Request.Context(), commentID, currentUserID(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"deleted": commentID}, "comment deleted")
}
