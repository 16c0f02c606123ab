package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type tweetRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *Handler) createTweet(c *gin.Context) {
	var req tweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	tweet, err := h.tweets.Create(c.Request.Context(), currentUserID(c), req.Content)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusCreated, tweetToResponse(*tweet), "tweet created")
}

func (h *Handler) listUserTweets(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	tweets, err := h.tweets.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := make([]TweetResponse, len(tweets))
	for i := range tweets {
		resp[i] = tweetToResponse(tweets[i])
	}
	respond(c, http.StatusOK, resp, "tweets fetched")
}

func (h *Handler) updateTweet(c *gin.Context) {
	tweetID, ok := pathID(c, "tweetId")
	if !ok {
		return
	}

	var req tweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	tweet, err := h.tweets.Update(c.Request.Context(), tweetID, currentUserID(c), req.Content)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, tweetToResponse(*tweet), "tweet updated")
}

func (h *Handler) deleteTweet(c *gin.Context) {
	tweetID, ok := pathID(c, "tweetId")
	if !ok {
		return
	}

	if err := h.tweets.Delete(c.Request.Context(), tweetID, currentUserID(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"deleted": tweetID}, "tweet deleted")
}
