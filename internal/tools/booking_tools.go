package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Domenick1991/agentair/internal/domain"
	"github.com/Domenick1991/agentair/internal/seats"
)

type classView struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Price      float64  `json:"price"`
	Features   []string `json:"features"`
	Baggage    string   `json:"baggage"`
	SeatsLeft  int      `json:"seats_left"`
	Refundable bool     `json:"refundable"`
}

type flightView struct {
	ID        string      `json:"id"`
	From      string      `json:"from"`
	FromCode  string      `json:"from_code"`
	To        string      `json:"to"`
	ToCode    string      `json:"to_code"`
	Date      string      `json:"date"`
	Departure string      `json:"departure"`
	Arrival   string      `json:"arrival"`
	Duration  string      `json:"duration"`
	Aircraft  string      `json:"aircraft"`
	Classes   []classView `json:"classes"`
}

func viewFlight(f domain.Flight) flightView {
	classes := make([]classView, len(f.Classes))
	for i, c := range f.Classes {
		classes[i] = classView{
			ID:         c.ID,
			Name:       string(c.Name),
			Price:      dollars(c.PriceCents),
			Features:   c.Features,
			Baggage:    c.Baggage,
			SeatsLeft:  c.SeatsLeft,
			Refundable: c.Refundable,
		}
	}
	return flightView{
		ID:        f.ID,
		From:      f.From,
		FromCode:  f.FromCode,
		To:        f.To,
		ToCode:    f.ToCode,
		Date:      f.Date,
		Departure: f.Departure,
		Arrival:   f.Arrival,
		Duration:  f.Duration,
		Aircraft:  f.Aircraft,
		Classes:   classes,
	}
}

type searchFlightsParams struct {
	From string `json:"from,omitempty" jsonschema:"Departure airport code or city (e.g. 'JFK' or 'New York')"`
	To   string `json:"to,omitempty" jsonschema:"Arrival airport code or city (e.g. 'LAX' or 'Los Angeles')"`
}

type searchFlightsOutput struct {
	Flights []flightView `json:"flights"`
	Count   int          `json:"count"`
}

func (t *toolset) searchFlights(ctx context.Context, p searchFlightsParams) (any, error) {
	results := t.Booking.Search(p.From, p.To)
	t.Booking.SetHasSearched(true)

	out := searchFlightsOutput{Flights: make([]flightView, len(results)), Count: len(results)}
	for i, f := range results {
		out.Flights[i] = viewFlight(f)
	}

	t.record(ctx, "search_flights", "Agent searched for flights",
		fmt.Sprintf("%s → %s · %s found", upperOr(p.From, "Any"), upperOr(p.To, "Any"), plural(len(results), "flight")))

	payload := map[string]any{"results_count": len(results)}
	if p.From != "" {
		payload["from"] = p.From
	}
	if p.To != "" {
		payload["to"] = p.To
	}
	t.emitToolUsed(ctx, "search_flights", payload)
	return out, nil
}

type addToBookingParams struct {
	FlightID   string `json:"flight_id" validate:"required" jsonschema:"Flight ID (e.g. 'AA101')"`
	ClassID    string `json:"class_id" validate:"required" jsonschema:"Class ID (e.g. 'AA101-ECO', 'AA101-BIZ', 'AA101-FIRST')"`
	Passengers *int   `json:"passengers,omitempty" validate:"omitempty,min=1,max=9" jsonschema:"Number of passengers (default 1)"`
}

type addedView struct {
	Flight     string  `json:"flight"`
	Class      string  `json:"class"`
	Price      float64 `json:"price"`
	Passengers int     `json:"passengers"`
	Total      float64 `json:"total"`
}

type addToBookingOutput struct {
	Success       bool      `json:"success"`
	Added         addedView `json:"added"`
	AlreadyBooked bool      `json:"already_booked,omitempty"`
}

func (t *toolset) addToBooking(ctx context.Context, p addToBookingParams) (any, error) {
	flight, err := t.Flights.GetByID(p.FlightID)
	if err != nil {
		return nil, notFound(fmt.Sprintf("Flight %q not found", p.FlightID), nil)
	}
	class, ok := flight.Class(p.ClassID)
	if !ok {
		return nil, notFound(fmt.Sprintf("Class %q not found on flight %q", p.ClassID, p.FlightID),
			map[string]any{"available_classes": flight.ClassIDs()})
	}

	passengers := 1
	if p.Passengers != nil {
		passengers = *p.Passengers
	}

	existing, booked := t.Booking.Item(p.ClassID)
	t.Booking.SetHasSearched(true)
	if booked {
		passengers = existing.Passengers
	} else {
		t.Booking.AddItem(flight.ID, class.ID, passengers, SourceFrom(ctx) == domain.SourceAgent, nil)
	}

	value := class.PriceCents * int64(passengers)
	out := addToBookingOutput{
		Success: true,
		Added: addedView{
			Flight:     flight.Route(),
			Class:      string(class.Name),
			Price:      dollars(class.PriceCents),
			Passengers: passengers,
			Total:      dollars(value),
		},
		AlreadyBooked: booked,
	}

	t.record(ctx, "add_to_booking", "Agent added flight to booking",
		fmt.Sprintf("%s · %s · %s · %d pax", flight.Route(), class.Name, usd(class.PriceCents), passengers))

	if booked {
		t.emitToolUsed(ctx, "add_to_booking", map[string]any{"class_id": class.ID, "already_booked": true})
		return out, nil
	}
	t.emitCommerce(ctx, "add_to_booking", EventAddToCart, value, []map[string]any{
		bookingLine(flight, class, passengers),
	})
	return out, nil
}

func bookingLine(f domain.Flight, c domain.FlightClass, passengers int) map[string]any {
	return map[string]any{
		"item_id":       c.ID,
		"item_name":     fmt.Sprintf("%s · %s", f.Route(), c.Name),
		"price":         dollars(c.PriceCents),
		"quantity":      passengers,
		"item_category": string(c.Name),
	}
}

type noParams struct{}

type bookingLineView struct {
	FlightID          string               `json:"flight_id"`
	Route             string               `json:"route"`
	Departure         string               `json:"departure"`
	Arrival           string               `json:"arrival"`
	Class             string               `json:"class"`
	ClassID           string               `json:"class_id"`
	PricePerPassenger float64              `json:"price_per_passenger"`
	Passengers        int                  `json:"passengers"`
	Subtotal          float64              `json:"subtotal"`
	Seat              *domain.SelectedSeat `json:"seat,omitempty"`
}

type getBookingOutput struct {
	Items []bookingLineView `json:"items"`
	Count int               `json:"count"`
	Total float64           `json:"total"`
}

func (t *toolset) getBooking(ctx context.Context, _ noParams) (any, error) {
	items := t.Booking.Items()
	total := t.Booking.Total()

	out := getBookingOutput{Items: make([]bookingLineView, len(items)), Count: len(items), Total: dollars(total)}
	for i, it := range items {
		out.Items[i] = bookingLineView{
			FlightID:          it.Flight.ID,
			Route:             it.Flight.Route(),
			Departure:         it.Flight.Departure,
			Arrival:           it.Flight.Arrival,
			Class:             string(it.Class.Name),
			ClassID:           it.Class.ID,
			PricePerPassenger: dollars(it.Class.PriceCents),
			Passengers:        it.Passengers,
			Subtotal:          dollars(it.SubtotalCents()),
			Seat:              it.Seat,
		}
	}

	detail := "Booking is empty"
	if len(items) > 0 {
		detail = fmt.Sprintf("%s · Total %s", plural(len(items), "item"), usd(total))
	}
	t.record(ctx, "get_booking", "Agent reviewed booking", detail)
	t.emitToolUsed(ctx, "get_booking", map[string]any{"booking_value": dollars(total), "item_count": len(items)})
	return out, nil
}

type classParams struct {
	ClassID string `json:"class_id" validate:"required" jsonschema:"Class ID to remove (e.g. 'AA101-ECO')"`
}

type removeOutput struct {
	Success bool    `json:"success"`
	Removed string  `json:"removed"`
	Total   float64 `json:"total"`
}

func (t *toolset) removeFromBooking(ctx context.Context, p classParams) (any, error) {
	item, ok := t.Booking.Item(p.ClassID)
	if !ok || !t.Booking.RemoveItem(p.ClassID) {
		return nil, notFound(fmt.Sprintf("Class %q is not in the booking", p.ClassID), nil)
	}

	t.record(ctx, "remove_from_booking", "Agent removed flight from booking",
		fmt.Sprintf("%s · %s", item.Flight.Route(), item.Class.Name))
	t.emitCommerce(ctx, "remove_from_booking", EventRemoveFromCart, item.SubtotalCents(), []map[string]any{
		bookingLine(item.Flight, item.Class, item.Passengers),
	})
	return removeOutput{Success: true, Removed: p.ClassID, Total: dollars(t.Booking.Total())}, nil
}

type clearOutput struct {
	Success bool `json:"success"`
	Removed int  `json:"removed"`
}

func (t *toolset) clearBooking(ctx context.Context, _ noParams) (any, error) {
	n := t.Booking.Count()
	t.Booking.Clear()

	t.record(ctx, "clear_booking", "Agent cleared booking", plural(n, "item")+" removed")
	t.emitToolUsed(ctx, "clear_booking", map[string]any{"item_count": n})
	return clearOutput{Success: true, Removed: n}, nil
}

type selectSeatParams struct {
	ClassID    string `json:"class_id" validate:"required" jsonschema:"Class ID to select a seat for (e.g. 'AA101-BIZ'). The flight will be added to the booking automatically if not already."`
	Seat       string `json:"seat,omitempty" jsonschema:"Specific seat label (e.g. '3A', '22F'). If omitted, the best seat matching the preference is chosen."`
	Preference string `json:"preference,omitempty" validate:"omitempty,oneof=window aisle middle" jsonschema:"Seat type preference. Used when no specific seat label is given."`
}

type seatView struct {
	Label  string `json:"label"`
	Type   string `json:"type"`
	Row    int    `json:"row"`
	Col    string `json:"col"`
	Flight string `json:"flight"`
	Class  string `json:"class"`
}

type selectSeatOutput struct {
	Success   bool     `json:"success"`
	Seat      seatView `json:"seat"`
	Unchanged bool     `json:"unchanged,omitempty"`
}

func (t *toolset) selectSeat(ctx context.Context, p selectSeatParams) (any, error) {
	flight, class, err := t.Flights.FindClass(p.ClassID)
	if err != nil {
		return nil, notFound(fmt.Sprintf("Class %q not found", p.ClassID), nil)
	}

	grid, err := seats.BuildLayout(class.Name)
	if err != nil {
		return nil, err
	}

	var picked *domain.SeatInfo
	if p.Seat != "" {
		if picked = seats.FindSeatByLabel(grid, p.Seat); picked == nil {
			return nil, notFound(fmt.Sprintf("Seat %q not found or is occupied", p.Seat), nil)
		}
	} else {
		pref := domain.SeatWindow
		if p.Preference != "" {
			pref = domain.SeatType(p.Preference)
		}
		if picked = seats.FindBestSeat(grid, pref); picked == nil {
			return nil, notFound(domain.ErrNoSeatsLeft.Error(), nil)
		}
	}

	seat := picked.Selected()
	out := selectSeatOutput{
		Success: true,
		Seat: seatView{
			Label:  seat.Label,
			Type:   string(seat.Type),
			Row:    seat.Row,
			Col:    seat.Col,
			Flight: flight.Route(),
			Class:  string(class.Name),
		},
	}

	item, booked := t.Booking.Item(class.ID)
	if booked && item.Seat != nil && strings.EqualFold(item.Seat.Label, seat.Label) {
		out.Unchanged = true
		t.record(ctx, "select_seat", "Agent kept the current seat", fmt.Sprintf("Seat %s · %s", seat.Label, class.Name))
		t.emitToolUsed(ctx, "select_seat", map[string]any{"class_id": class.ID, "seat_label": seat.Label, "unchanged": true})
		return out, nil
	}

	t.Booking.SetHasSearched(true)
	if !booked || !t.Booking.SelectSeat(class.ID, seat) {
		t.Booking.AddItem(flight.ID, class.ID, 1, SourceFrom(ctx) == domain.SourceAgent, &seat)
	}
	t.Booking.SetSeatMapOpen(class.ID)

	t.record(ctx, "select_seat", "Agent selected a seat",
		fmt.Sprintf("Seat %s · %s · %s %s", seat.Label, seat.Type, flight.Route(), class.Name))

	payload := map[string]any{
		"seat_label": seat.Label,
		"seat_type":  string(seat.Type),
		"class_id":   class.ID,
		"flight_id":  flight.ID,
	}
	if p.Preference != "" {
		payload["preference"] = p.Preference
	}
	t.Events.Emit(ctx, SourceFrom(ctx), EventSeatSelected, payload)
	return out, nil
}

type checkoutParams struct {
	PassengerName string `json:"passenger_name,omitempty" jsonschema:"Passenger full name"`
	Email         string `json:"email,omitempty" jsonschema:"Passenger contact email"`
	CardNumber    string `json:"card_number,omitempty" jsonschema:"Credit/debit card number (digits only, e.g. '4111111111111111'). Use dummy values for demos."`
	Expiry        string `json:"expiry,omitempty" jsonschema:"Card expiry date in MM/YY format (e.g. '12/28')"`
	CVV           string `json:"cvv,omitempty" jsonschema:"Card CVV (3-4 digits, e.g. '123')"`
}

func (p checkoutParams) provided() int {
	n := 0
	for _, v := range []string{p.PassengerName, p.Email, p.CardNumber, p.Expiry, p.CVV} {
		if v != "" {
			n++
		}
	}
	return n
}

type checkoutOutput struct {
	Success      bool    `json:"success"`
	Message      string  `json:"message"`
	BookingTotal float64 `json:"booking_total"`
	AutoSubmit   bool    `json:"auto_submit"`
	Reference    string  `json:"reference"`
}

func (t *toolset) checkout(ctx context.Context, p checkoutParams) (any, error) {
	if t.Booking.Count() == 0 {
		return nil, precondition("No flights in booking. Add a flight first.")
	}

	provided := p.provided()
	all := provided == 5
	total := t.Booking.Total()

	t.Booking.SetCheckout(domain.CheckoutForm{
		Name:       p.PassengerName,
		Email:      p.Email,
		Card:       formatCard(p.CardNumber),
		Expiry:     p.Expiry,
		CVV:        p.CVV,
		AutoSubmit: all,
	})

	out := checkoutOutput{
		Success:      true,
		BookingTotal: dollars(total),
		AutoSubmit:   all,
		Reference:    "chk-" + uuid.NewString(),
	}
	if all {
		out.Message = "All fields pre-filled in the checkout form. User just needs to click Pay to confirm."
		t.record(ctx, "checkout", "Agent is completing payment",
			fmt.Sprintf("%s · %s · submitting…", p.PassengerName, usd(total)))
	} else {
		out.Message = "Checkout form opened with available fields pre-filled. User will complete the rest."
		var filled []string
		for _, v := range []string{p.PassengerName, p.Email} {
			if v != "" {
				filled = append(filled, v)
			}
		}
		detail := "Nothing pre-filled"
		if len(filled) > 0 {
			detail = "Pre-filled " + strings.Join(filled, ", ")
		}
		t.record(ctx, "checkout", "Agent opened checkout", detail)
	}

	t.emitToolUsed(ctx, "checkout", map[string]any{"fields_provided": provided, "booking_value": dollars(total)})
	return out, nil
}
