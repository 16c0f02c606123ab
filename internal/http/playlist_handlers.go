package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type playlistRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (h *Handler) createPlaylist(c *gin.Context) {
	var req playlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	playlist, err := h.playlists.Create(c.Request.Context(), currentUserID(c), req.Name, req.Description)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusCreated, playlistToResponse(*playlist), "playlist created")
}

func (h *Handler) getPlaylist(c *gin.Context) {
	playlistID, ok := pathID(c, "playlistId")
	if !ok {
		return
	}

	playlist, err := h.playlists.Get(c.Request.Context(), playlistID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, playlistToResponse(*playlist), "playlist fetched")
}

func (h *Handler) updatePlaylist(c *gin.Context) {
	playlistID, ok := pathID(c, "playlistId")
	if !ok {
		return
	}

	var req playlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	playlist, err := h.playlists.Update(c.Request.Context(), playlistID, currentUserID(c), req.Name, req.Description)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, playlistToResponse(*playlist), "playlist updated")
}

func (h *Handler) deletePlaylist(c *gin.Context) {
	playlistID, ok := pathID(c, "playlistId")
	if !ok {
		return
	}

	if err := h.playlists.Delete(c.Request.Context(), playlistID, currentUserID(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"deleted": playlistID}, "playlist deleted")
}

func (h *Handler) addVideoToPlaylist(c *gin.Context) {
	videoID, ok := pathID(c, "videoId")
	if !ok {
		return
	}
	playlistID, ok := pathID(c, "playlistId")
	if !ok {
		return
	}

	playlist, err := h.playlists.AddVideo(c.Request.Context(), playlistID, videoID, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, playlistToResponse(*playlist), "video added to playlist")
}

func (h *Handler) removeVideoFromPlaylist(c *gin.Context) {
	videoID, ok := pathID(c, "videoId")
	if !ok {
		return
	}
	playlistID, ok := pathID(c, "playlistId")
	if !ok {
		return
	}

	playlist, err := h.playlists.RemoveVideo(c.Request.Context(), playlistID, videoID, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, playlistToResponse(*playlist), "video removed from playlist")
}

func (h *Handler) listUserPlaylists(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	playlists, err := h.playlists.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := make([]PlaylistResponse, len(playlists))
	for i := range playlists {
		resp[i] = playlistToResponse(playlists[i])
	}
	respond(c, http.StatusOK, resp, "playlists fetched")
}
