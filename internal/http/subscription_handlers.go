package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vidtube/internal/domain"
)

func (h *Handler) toggleSubscription(c *gin.Context) {
	channelID, ok := pathID(c, "channelId")
	if !ok {
		return
	}

	subscribed, err := h.subs.Toggle(c.Request.Context(), currentUserID(c), channelID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	message := "unsubscribed"
	if subscribed {
		message = "subscribed"
	}
	respond(c, http.StatusOK, gin.H{"subscribed": subscribed}, message)
}

func (h *Handler) listSubscribers(c *gin.Context) {
	channelID, ok := pathID(c, "channelId")
	if !ok {
		return
	}

	users, err := h.subs.Subscribers(c.Request.Context(), channelID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, usersToPublicResponse(users), "subscribers fetched")
}

func (h *Handler) listSubscribedChannels(c *gin.Context) {
	subscriberID, ok := pathID(c, "subscriberId")
	if !ok {
		return
	}

	users, err := h.subs.SubscribedChannels(c.Request.Context(), subscriberID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, usersToPublicResponse(users), "subscribed channels fetched")
}

func usersToPublicResponse(users []domain.User) []UserResponse {
	resp := make([]UserResponse, len(users))
	for i := range users {
		resp[i] = *publicUser(&users[i])
	}
	return resp
}
