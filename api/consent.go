package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Domenick1991/agentair/internal/domain"
)

type ConsentReader interface {
	State() domain.ConsentState
	Timestamp() string
}

type ConsentHandler struct {
	consent ConsentReader
	tools   ToolCaller
}

type consentResponse struct {
	State     domain.ConsentState `json:"state"`
	Decided   bool                `json:"decided"`
	Timestamp string              `json:"timestamp,omitempty"`
}

func NewConsentHandler(consent ConsentReader, tools ToolCaller) *ConsentHandler {
	return &ConsentHandler{consent: consent, tools: tools}
}

func (h *ConsentHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.get)
	router.POST("/grant", h.decide(domain.ConsentGranted))
	router.POST("/deny", h.decide(domain.ConsentDenied))
}

// get reports the state loaded from durable storage at startup, so the
// banner is not shown again to a user who already answered.
func (h *ConsentHandler) get(c *gin.Context) {
	state := h.consent.State()
	c.JSON(http.StatusOK, consentResponse{
		State:     state,
		Decided:   state.Decided(),
		Timestamp: h.consent.Timestamp(),
	})
}

func (h *ConsentHandler) decide(state domain.ConsentState) gin.HandlerFunc {
	return func(c *gin.Context) {
		dispatch(c, h.tools, "ask_consent", gin.H{"decision": string(state)})
	}
}
