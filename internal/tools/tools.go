package tools

import (
	"context"

	"github.com/Domenick1991/agentair/internal/domain"
	"github.com/Domenick1991/agentair/internal/logger"
	"github.com/Domenick1991/agentair/internal/metrics"
	"github.com/Domenick1991/agentair/internal/service/booking"
	"github.com/Domenick1991/agentair/internal/service/cart"
	"github.com/Domenick1991/agentair/internal/service/flights"
)

// Consent is the part of the consent manager the tools drive.
type Consent interface {
	State() domain.ConsentState
	Timestamp() string
	Grant(ctx context.Context) (bool, error)
	Deny(ctx context.Context) (bool, error)
}

// Emitter is satisfied by *analytics.Emitter.
type Emitter interface {
	Emit(ctx context.Context, source domain.InteractionSource, name string, payload map[string]any)
	EmitCommerce(ctx context.Context, source domain.InteractionSource, name string, commerce, extra map[string]any)
}

type Deps struct {
	Flights  flights.FlightUseCase
	Booking  booking.BookingUseCase
	Cart     cart.CartUseCase
	Consent  Consent
	Events   Emitter
	Currency string
	Log      logger.Logger
	Metrics  *metrics.Metrics
}

// Analytics event names.
const (
	EventToolUsed       = "tool_used"
	EventAddToCart      = "add_to_cart"
	EventRemoveFromCart = "remove_from_cart"
	EventSeatSelected   = "seat_selected"
)

type toolset struct {
	Deps
}

// NewRegistry builds the full static tool set.
func NewRegistry(d Deps) *Registry {
	if d.Currency == "" {
		d.Currency = "USD"
	}
	if d.Log == nil {
		d.Log = logger.NewNop()
	}
	ts := &toolset{Deps: d}
	v := newValidator()

	return newRegistry(d.Log, d.Metrics,
		newTool(v, "search_flights", "Search for available AgentAir flights. Optionally filter by departure (from) and arrival (to) airport code or city. Returns available flights with their booking classes and prices.", ts.searchFlights),
		newTool(v, "add_to_booking", "Add a flight class to the current booking by flight ID and class ID. Use search_flights first to discover available flight and class IDs.", ts.addToBooking),
		newTool(v, "get_booking", "Get the current booking summary including all selected flights, classes, seats and the total price.", ts.getBooking),
		newTool(v, "remove_from_booking", "Remove a flight class from the current booking.", ts.removeFromBooking),
		newTool(v, "clear_booking", "Remove every flight from the current booking.", ts.clearBooking),
		newTool(v, "select_seat", "Select a seat for a flight class. Provide a specific seat label (e.g. '3A') or a preference ('window', 'aisle', 'middle') and the best available seat is picked automatically. If the flight class is not yet in the booking, it will be added first.", ts.selectSeat),
		newTool(v, "checkout", "Open the checkout form and optionally complete the booking end-to-end. If all fields (passenger_name, email, card_number, expiry, cvv) are provided, the form is filled and submitted automatically. If only some fields are provided, the form opens pre-filled for the user to complete. Use dummy card values for demos.", ts.checkout),
		newTool(v, "get_consent", "Get the user's analytics consent state and what to do next.", ts.getConsent),
		newTool(v, "ask_consent", "Record the user's analytics consent decision. Only call this after the user has answered; a decision cannot be changed once made.", ts.askConsent),
		newTool(v, "list_menu", "List the food menu, optionally filtered by category.", ts.listMenu),
		newTool(v, "add_to_cart", "Add a menu item to the food cart. Adding an item already in the cart increases its quantity.", ts.addToCart),
		newTool(v, "remove_from_cart", "Remove a menu item from the food cart.", ts.removeFromCart),
		newTool(v, "clear_cart", "Empty the food cart.", ts.clearCart),
		newTool(v, "get_cart", "Get the food cart contents and total.", ts.getCart),
	)
}

// record appends to the activity feed. Only agent actions are surfaced.
func (t *toolset) record(ctx context.Context, tool, message, detail string) {
	if SourceFrom(ctx) != domain.SourceAgent {
		return
	}
	t.Booking.AddActivity(tool, message, detail)
}

func (t *toolset) emitToolUsed(ctx context.Context, tool string, payload map[string]any) {
	if payload == nil {
		payload = map[string]any{}
	}
	payload["tool_name"] = tool
	t.Events.Emit(ctx, SourceFrom(ctx), EventToolUsed, payload)
}

func (t *toolset) emitCommerce(ctx context.Context, tool, name string, value int64, items []map[string]any) {
	t.Events.EmitCommerce(ctx, SourceFrom(ctx), name,
		map[string]any{
			"currency": t.Currency,
			"value":    dollars(value),
			"items":    items,
		},
		map[string]any{"tool_name": tool},
	)
}
