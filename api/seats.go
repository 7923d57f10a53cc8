package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Domenick1991/agentair/internal/domain"
	"github.com/Domenick1991/agentair/internal/seats"
	"github.com/Domenick1991/agentair/internal/service/flights"
)

// SeatSelections reports the seat currently held for a class.
type SeatSelections interface {
	Item(classID string) (domain.BookingItem, bool)
}

type SeatHandler struct {
	flights flights.FlightUseCase
	booking SeatSelections
}

type seatRow struct {
	Row   int               `json:"row"`
	Left  []domain.SeatInfo `json:"left"`
	Right []domain.SeatInfo `json:"right"`
}

type seatMapResponse struct {
	FlightID  string               `json:"flight_id"`
	ClassID   string               `json:"class_id"`
	Cabin     domain.CabinClass    `json:"cabin"`
	LeftCols  []string             `json:"left_cols"`
	RightCols []string             `json:"right_cols"`
	Available int                  `json:"available"`
	Rows      []seatRow            `json:"rows"`
	Selected  *domain.SelectedSeat `json:"selected,omitempty"`
}

func NewSeatHandler(flights flights.FlightUseCase, booking SeatSelections) *SeatHandler {
	return &SeatHandler{flights: flights, booking: booking}
}

func (h *SeatHandler) Register(router *gin.RouterGroup) {
	router.GET("/:classId", h.seatMap)
}

// seatMap renders the cabin grid split at the aisle.
func (h *SeatHandler) seatMap(c *gin.Context) {
	classID := c.Param("classId")
	flight, class, err := h.flights.FindClass(classID)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, domain.ErrClassNotFound) {
			code = http.StatusNotFound
		}
		c.JSON(code, gin.H{"error": err.Error()})
		return
	}

	grid, err := seats.BuildLayout(class.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	split := len(grid.Layout.LeftCols())
	resp := seatMapResponse{
		FlightID:  flight.ID,
		ClassID:   class.ID,
		Cabin:     class.Name,
		LeftCols:  grid.Layout.LeftCols(),
		RightCols: grid.Layout.RightCols(),
		Available: grid.Available(),
		Rows:      make([]seatRow, 0, len(grid.Rows)),
	}
	for i, row := range grid.Rows {
		resp.Rows = append(resp.Rows, seatRow{
			Row:   grid.Layout.StartRow + i,
			Left:  row[:split],
			Right: row[split:],
		})
	}
	if item, ok := h.booking.Item(classID); ok {
		resp.Selected = item.Seat
	}
	c.JSON(http.StatusOK, resp)
}
