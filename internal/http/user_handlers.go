package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vidtube/internal/domain"
	"vidtube/internal/service"
)

func (h *Handler) register(c *gin.Context) {
	params := service.RegisterParams{
		FullName: c.PostForm("fullName"),
		Username: c.PostForm("username"),
		Email:    c.PostForm("email"),
		Password: c.PostForm("password"),
	}

	avatar, err := c.FormFile("avatar")
	if err != nil {
		respondError(c, http.StatusBadRequest, "avatar file is required")
		return
	}

	prefix := h.mediaKeyPrefix("avatars")
	uploaded, err := h.uploadFormFile(c, avatar, prefix, h.opts.MaxImageMB)
	if err != nil {
		h.logger.Warnf("avatar upload: %v", err)
		respondError(c, http.StatusBadRequest, "avatar upload failed")
		return
	}
	params.AvatarURL = uploaded.URL

	if cover, err := c.FormFile("coverImage"); err == nil {
		uploaded, err := h.uploadFormFile(c, cover, prefix, h.opts.MaxImageMB)
		if err != nil {
			h.logger.Warnf("cover image upload: %v", err)
			respondError(c, http.StatusBadRequest, "cover image upload failed")
			return
		}
		params.CoverImageURL = uploaded.URL
	}

	user, err := h.users.Register(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusCreated, userToResponse(user), "user registered successfully")
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, pair, err := h.users.Login(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.setSessionCookies(c, pair)
	respond(c, http.StatusOK, gin.H{
		"user":         userToResponse(user),
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "user logged in successfully")
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *Handler) refreshToken(c *gin.Context) {
	token := ""
	if cookie, err := c.Cookie(refreshTokenCookie); err == nil {
		token = cookie
	}
	if token == "" {
		var req refreshRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			token = req.RefreshToken
		}
	}
	if token == "" {
		respondError(c, http.StatusUnauthorized, "unauthorized request")
		return
	}

	pair, err := h.users.Refresh(c.Request.Context(), token)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.setSessionCookies(c, pair)
	respond(c, http.StatusOK, gin.H{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "access token refreshed")
}

func (h *Handler) logout(c *gin.Context) {
	if err := h.users.Logout(c.Request.Context(), currentUserID(c)); err != nil {
		respondServiceError(c, err)
		return
	}

	h.clearSessionCookies(c)
	respond(c, http.StatusOK, gin.H{}, "user logged out")
}

func (h *Handler) getCurrentUser(c *gin.Context) {
	respond(c, http.StatusOK, userToResponse(currentUser(c)), "current user fetched")
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

func (h *Handler) changePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.users.ChangePassword(c.Request.Context(), currentUserID(c), req.OldPassword, req.NewPassword); err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{}, "password changed successfully")
}

type updateAccountRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required"`
}

func (h *Handler) updateAccount(c *gin.Context) {
	var req updateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.users.UpdateDetails(c.Request.Context(), currentUserID(c), req.FullName, req.Email)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, userToResponse(user), "account details updated")
}

func (h *Handler) updateAvatar(c *gin.Context) {
	h.updateUserImage(c, "avatar", h.users.UpdateAvatar)
}

func (h *Handler) updateCoverImage(c *gin.Context) {
	h.updateUserImage(c, "coverImage", h.users.UpdateCoverImage)
}

func (h *Handler) updateUserImage(c *gin.Context, field string, update func(ctx context.Context, userID int64, url string) (*domain.User, error)) {
	file, err := c.FormFile(field)
	if err != nil {
		respondError(c, http.StatusBadRequest, field+" file is required")
		return
	}

	uploaded, err := h.uploadFormFile(c, file, h.mediaKeyPrefix("avatars"), h.opts.MaxImageMB)
	if err != nil {
		h.logger.Warnf("%s upload: %v", field, err)
		respondError(c, http.StatusBadRequest, field+" upload failed")
		return
	}

	user, err := update(c.Request.Context(), currentUserID(c), uploaded.URL)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, userToResponse(user), field+" updated")
}

func (h *Handler) getChannelProfile(c *gin.Context) {
	profile, err := h.users.ChannelProfile(c.Request.Context(), c.Param("username"), currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := ChannelProfileResponse{
		UserResponse:    *userToResponse(&profile.User),
		SubscriberCount: profile.SubscriberCount,
		SubscribedTo:    profile.SubscribedTo,
		IsSubscribed:    profile.IsSubscribed,
	}
	respond(c, http.StatusOK, resp, "channel profile fetched")
}

func (h *Handler) getWatchHistory(c *gin.Context) {
	entries, err := h.users.WatchHistory(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := make([]WatchEntryResponse, len(entries))
	for i, entry := range entries {
		resp[i] = WatchEntryResponse{
			WatchedAt: entry.WatchedAt.Format(time.RFC3339),
			Video:     videoToResponse(*entry.Video),
		}
	}
	respond(c, http.StatusOK, resp, "watch history fetched")
}
