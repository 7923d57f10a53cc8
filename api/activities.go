package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Domenick1991/agentair/internal/domain"
)

// displayedActivities is how many toasts the presentation layer shows.
const displayedActivities = 5

type ActivityFeed interface {
	Activities(limit int) []domain.AgentActivity
	DismissActivity(id string) bool
}

type ActivityHandler struct {
	feed ActivityFeed
}

func NewActivityHandler(feed ActivityFeed) *ActivityHandler {
	return &ActivityHandler{feed: feed}
}

func (h *ActivityHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.DELETE("/:id", h.dismiss)
}

func (h *ActivityHandler) list(c *gin.Context) {
	c.JSON(http.StatusOK, h.feed.Activities(displayedActivities))
}

func (h *ActivityHandler) dismiss(c *gin.Context) {
	if !h.feed.DismissActivity(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "activity not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
