package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Domenick1991/agentair/internal/domain"
	"github.com/Domenick1991/agentair/internal/service/flights"
)

// SearchMarker records that the user ran a search.
type SearchMarker interface {
	SetHasSearched(v bool)
}

type FlightHandler struct {
	service flights.FlightUseCase
	marker  SearchMarker
}

// NewFlightHandler builds the flight routes. marker may be nil.
func NewFlightHandler(service flights.FlightUseCase, marker SearchMarker) *FlightHandler {
	return &FlightHandler{service: service, marker: marker}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
}

func (h *FlightHandler) list(c *gin.Context) {
	from, to := c.Query("from"), c.Query("to")
	if h.marker != nil && (from != "" || to != "") {
		h.marker.SetHasSearched(true)
	}
	c.JSON(http.StatusOK, h.service.Search(from, to))
}

func (h *FlightHandler) get(c *gin.Context) {
	flight, err := h.service.GetByID(c.Param("id"))
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, domain.ErrFlightNotFound) {
			code = http.StatusNotFound
		}
		c.JSON(code, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, flight)
}
