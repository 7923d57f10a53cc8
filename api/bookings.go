package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Domenick1991/agentair/internal/domain"
	"github.com/Domenick1991/agentair/internal/service/booking"
)

// BookingReader is the read side of the booking store.
type BookingReader interface {
	Snapshot() booking.Snapshot
}

type BookingHandler struct {
	store BookingReader
	tools ToolCaller
}

type addItemRequest struct {
	FlightID   string `json:"flight_id" binding:"required"`
	ClassID    string `json:"class_id" binding:"required"`
	Passengers *int   `json:"passengers,omitempty"`
}

type seatRequest struct {
	Seat       string `json:"seat,omitempty"`
	Preference string `json:"preference,omitempty"`
}

type selectSeatArgs struct {
	ClassID    string `json:"class_id"`
	Seat       string `json:"seat,omitempty"`
	Preference string `json:"preference,omitempty"`
}

// bookingResponse is the snapshot as served over HTTP. The card number is
// reduced to its last four digits and the CVV never leaves the process.
type bookingResponse struct {
	booking.Snapshot
	Checkout checkoutView `json:"checkout"`
}

type checkoutView struct {
	Open        bool   `json:"open"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	Card        string `json:"card,omitempty"`
	Expiry      string `json:"expiry,omitempty"`
	CVVProvided bool   `json:"cvv_provided"`
	AutoSubmit  bool   `json:"auto_submit"`
}

func viewCheckout(f domain.CheckoutForm) checkoutView {
	return checkoutView{
		Open:        f.Open,
		Name:        f.Name,
		Email:       f.Email,
		Card:        maskCard(f.Card),
		Expiry:      f.Expiry,
		CVVProvided: f.CVV != "",
		AutoSubmit:  f.AutoSubmit,
	}
}

func maskCard(card string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, card)
	if digits == "" {
		return ""
	}
	if len(digits) > 4 {
		digits = digits[len(digits)-4:]
	}
	return "•••• " + digits
}

func NewBookingHandler(store BookingReader, tools ToolCaller) *BookingHandler {
	return &BookingHandler{store: store, tools: tools}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.get)
	router.DELETE("", h.clear)
	router.POST("/items", h.addItem)
	router.DELETE("/items/:classId", h.removeItem)
	router.PUT("/items/:classId/seat", h.selectSeat)
}

func (h *BookingHandler) get(c *gin.Context) {
	snap := h.store.Snapshot()
	c.JSON(http.StatusOK, bookingResponse{Snapshot: snap, Checkout: viewCheckout(snap.Checkout)})
}

func (h *BookingHandler) addItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	dispatch(c, h.tools, "add_to_booking", req)
}

func (h *BookingHandler) removeItem(c *gin.Context) {
	dispatch(c, h.tools, "remove_from_booking", gin.H{"class_id": c.Param("classId")})
}

func (h *BookingHandler) clear(c *gin.Context) {
	dispatch(c, h.tools, "clear_booking", nil)
}

func (h *BookingHandler) selectSeat(c *gin.Context) {
	var req seatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	dispatch(c, h.tools, "select_seat", selectSeatArgs{
		ClassID:    c.Param("classId"),
		Seat:       req.Seat,
		Preference: req.Preference,
	})
}
