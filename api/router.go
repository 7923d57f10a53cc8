package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Domenick1991/agentair/internal/catalog"
	"github.com/Domenick1991/agentair/internal/logger"
	"github.com/Domenick1991/agentair/internal/session"
)

// NewRouter mounts the presentation and tool routes of one session.
func NewRouter(s *session.Session) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(s.Log.With("component", "http")))

	NewFlightHandler(s.Flights, s.Booking).Register(router.Group("/flights"))
	NewBookingHandler(s.Booking, s.Tools).Register(router.Group("/booking"))
	NewSeatHandler(s.Flights, s.Booking).Register(router.Group("/seats"))
	NewConsentHandler(s.Consent, s.Tools).Register(router.Group("/consent"))
	NewActivityHandler(s.Booking).Register(router.Group("/activities"))
	NewCartHandler(s.Cart, catalog.Menu(), s.Tools).Register(router.Group("/cart"), router.Group("/menu"))
	NewToolHandler(s.Tools).Register(router.Group("/tools"))

	return router
}

// RequestLogger logs every request after it completes.
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}
