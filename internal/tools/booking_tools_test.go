package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchFlights(t *testing.T) {
	h := newHarness(t)

	r := h.call(t, "search_flights", `{"from":"jfk","to":"Los"}`)
	require.False(t, r.IsError)

	out, ok := r.StructuredContent.(searchFlightsOutput)
	require.True(t, ok)
	assert.Equal(t, 2, out.Count)
	assert.Equal(t, "AA101", out.Flights[0].ID)
	assert.Equal(t, 299.0, out.Flights[0].Classes[0].Price)
	assert.True(t, h.booking.Snapshot().HasSearched)

	acts := h.booking.Activities(0)
	require.Len(t, acts, 1)
	assert.Equal(t, "JFK → LOS · 2 flights found", acts[0].Detail)

	r = h.call(t, "search_flights", `{"from":"Paris"}`)
	require.False(t, r.IsError)
	assert.Equal(t, 0, r.StructuredContent.(searchFlightsOutput).Count)
}

func TestAddToBooking_EconomyScenario(t *testing.T) {
	h := newHarness(t)

	r := h.call(t, "add_to_booking", `{"flight_id":"AA101","class_id":"AA101-ECO","passengers":2}`)
	require.False(t, r.IsError)

	body := decode(t, r)
	assert.Equal(t, true, body["success"])
	added := body["added"].(map[string]any)
	assert.Equal(t, "JFK → LAX", added["flight"])
	assert.Equal(t, "Economy", added["class"])
	assert.Equal(t, 598.0, added["total"])

	assert.Equal(t, int64(59800), h.booking.Total())
	item, ok := h.booking.Item("AA101-ECO")
	require.True(t, ok)
	assert.True(t, item.AddedByAgent)

	acts := h.booking.Activities(0)
	require.Len(t, acts, 1)
	assert.Equal(t, "JFK → LAX · Economy · $299 · 2 pax", acts[0].Detail)

	_, err := h.consent.Grant(context.Background())
	require.NoError(t, err)
	got := h.sink.Deliveries()
	require.Len(t, got, 1)
	assert.Equal(t, EventAddToCart, got[0].Name)
	assert.Equal(t, "USD", got[0].Commerce["currency"])
	assert.Equal(t, 598.0, got[0].Commerce["value"])
}

func TestAddToBooking_RepeatIsNoop(t *testing.T) {
	h := newHarness(t)

	require.False(t, h.call(t, "add_to_booking", `{"flight_id":"AA101","class_id":"AA101-ECO","passengers":2}`).IsError)
	r := h.call(t, "add_to_booking", `{"flight_id":"AA101","class_id":"AA101-ECO","passengers":5}`)
	require.False(t, r.IsError)

	out := r.StructuredContent.(addToBookingOutput)
	assert.True(t, out.AlreadyBooked)
	assert.Equal(t, 2, out.Added.Passengers)
	assert.Equal(t, 1, h.booking.Count())
	assert.Equal(t, int64(59800), h.booking.Total())
}

func TestAddToBooking_NotFound(t *testing.T) {
	h := newHarness(t)

	r := h.call(t, "add_to_booking", `{"flight_id":"ZZ1","class_id":"ZZ1-ECO"}`)
	require.True(t, r.IsError)
	assert.Equal(t, CategoryNotFound, r.ErrorInfo.Category)
	assert.Equal(t, `Flight "ZZ1" not found`, decode(t, r)["error"])

	r = h.call(t, "add_to_booking", `{"flight_id":"AA205","class_id":"AA205-FIRST"}`)
	require.True(t, r.IsError)
	body := decode(t, r)
	assert.Equal(t, []any{"AA205-ECO", "AA205-BIZ"}, body["available_classes"])
	assert.Zero(t, h.booking.Count())
}

func TestGetBooking(t *testing.T) {
	h := newHarness(t)

	r := h.call(t, "get_booking", `{}`)
	require.False(t, r.IsError)
	assert.Equal(t, 0, r.StructuredContent.(getBookingOutput).Count)
	assert.Equal(t, "Booking is empty", h.booking.Activities(1)[0].Detail)

	h.booking.AddItem("AA101", "AA101-FIRST", 1, false, nil)
	h.booking.AddItem("AA205", "AA205-ECO", 3, false, nil)

	out := h.call(t, "get_booking", `{}`).StructuredContent.(getBookingOutput)
	require.Len(t, out.Items, 2)
	assert.Equal(t, 1499.0, out.Items[0].PricePerPassenger)
	assert.Equal(t, 777.0, out.Items[1].Subtotal)
	assert.Equal(t, 2276.0, out.Total)
	assert.Equal(t, "2 items · Total $2,276", h.booking.Activities(1)[0].Detail)
}

func TestRemoveAndClearBooking(t *testing.T) {
	h := newHarness(t)

	r := h.call(t, "remove_from_booking", `{"class_id":"AA101-ECO"}`)
	require.True(t, r.IsError)
	assert.Equal(t, CategoryNotFound, r.ErrorInfo.Category)

	h.booking.AddItem("AA101", "AA101-ECO", 1, false, nil)
	h.booking.AddItem("AA101", "AA101-BIZ", 1, false, nil)

	r = h.call(t, "remove_from_booking", `{"class_id":"AA101-ECO"}`)
	require.False(t, r.IsError)
	assert.Equal(t, 799.0, r.StructuredContent.(removeOutput).Total)

	r = h.call(t, "clear_booking", `{}`)
	require.False(t, r.IsError)
	assert.Equal(t, 1, r.StructuredContent.(clearOutput).Removed)
	assert.Zero(t, h.booking.Count())
}

func TestSelectSeat_ByLabelAddsItem(t *testing.T) {
	h := newHarness(t)

	r := h.call(t, "select_seat", `{"class_id":"AA101-BIZ","seat":"3a"}`)
	require.False(t, r.IsError)

	out := r.StructuredContent.(selectSeatOutput)
	assert.Equal(t, "3A", out.Seat.Label)
	assert.Equal(t, "window", out.Seat.Type)
	assert.Equal(t, 3, out.Seat.Row)
	assert.False(t, out.Unchanged)

	item, ok := h.booking.Item("AA101-BIZ")
	require.True(t, ok)
	assert.Equal(t, 1, item.Passengers)
	require.NotNil(t, item.Seat)
	assert.Equal(t, "3A", item.Seat.Label)
	assert.Equal(t, "AA101-BIZ", h.booking.Snapshot().SeatMapOpen)

	r = h.call(t, "select_seat", `{"class_id":"AA101-BIZ","seat":"3A"}`)
	require.False(t, r.IsError)
	assert.True(t, r.StructuredContent.(selectSeatOutput).Unchanged)
	assert.Equal(t, true, decode(t, r)["unchanged"])
}

func TestSelectSeat_ByPreferenceUpdatesExisting(t *testing.T) {
	h := newHarness(t)
	h.booking.AddItem("AA101", "AA101-ECO", 2, false, nil)

	r := h.call(t, "select_seat", `{"class_id":"AA101-ECO","preference":"aisle"}`)
	require.False(t, r.IsError)
	assert.Equal(t, "21C", r.StructuredContent.(selectSeatOutput).Seat.Label)

	item, _ := h.booking.Item("AA101-ECO")
	assert.Equal(t, 2, item.Passengers)
	assert.Equal(t, "21C", item.Seat.Label)

	r = h.call(t, "select_seat", `{"class_id":"AA205-ECO"}`)
	require.False(t, r.IsError)
	assert.Equal(t, "21A", r.StructuredContent.(selectSeatOutput).Seat.Label)
}

func TestSelectSeat_Errors(t *testing.T) {
	h := newHarness(t)

	r := h.call(t, "select_seat", `{"class_id":"AA101-BIZ","seat":"1A"}`)
	require.True(t, r.IsError)
	assert.Equal(t, CategoryNotFound, r.ErrorInfo.Category)
	assert.Equal(t, `Seat "1A" not found or is occupied`, decode(t, r)["error"])

	r = h.call(t, "select_seat", `{"class_id":"XX-ECO"}`)
	require.True(t, r.IsError)
	assert.Equal(t, CategoryNotFound, r.ErrorInfo.Category)

	assert.Zero(t, h.booking.Count())
	assert.Empty(t, h.booking.Activities(0))
}

func TestCheckout(t *testing.T) {
	h := newHarness(t)

	r := h.call(t, "checkout", `{"passenger_name":"Ada"}`)
	require.True(t, r.IsError)
	assert.Equal(t, CategoryPrecondition, r.ErrorInfo.Category)
	assert.False(t, h.booking.Snapshot().Checkout.Open)

	h.booking.AddItem("AA101", "AA101-ECO", 2, false, nil)

	r = h.call(t, "checkout", `{"passenger_name":"Ada Lovelace","email":"ada@example.com"}`)
	require.False(t, r.IsError)
	out := r.StructuredContent.(checkoutOutput)
	assert.False(t, out.AutoSubmit)
	assert.Equal(t, 598.0, out.BookingTotal)
	assert.Equal(t, "Pre-filled Ada Lovelace, ada@example.com", h.booking.Activities(1)[0].Detail)

	r = h.call(t, "checkout", `{"passenger_name":"Ada Lovelace","email":"ada@example.com","card_number":"4111-1111 1111 1111","expiry":"12/28","cvv":"123"}`)
	require.False(t, r.IsError)
	out = r.StructuredContent.(checkoutOutput)
	assert.True(t, out.AutoSubmit)
	assert.NotEmpty(t, out.Reference)

	form := h.booking.Snapshot().Checkout
	assert.True(t, form.Open)
	assert.True(t, form.AutoSubmit)
	assert.Equal(t, "4111 1111 1111 1111", form.Card)
	assert.Equal(t, "Agent is completing payment", h.booking.Activities(1)[0].Message)

	_, err := h.consent.Grant(context.Background())
	require.NoError(t, err)
	for _, d := range h.sink.Deliveries() {
		for _, k := range []string{"passenger_name", "email", "card_number", "cvv", "expiry"} {
			assert.NotContains(t, d.Payload, k)
		}
	}
	last := h.sink.Deliveries()[1]
	assert.Equal(t, 5, last.Payload["fields_provided"])
}

func TestFormatCard(t *testing.T) {
	assert.Equal(t, "4111 1111 1111 1111", formatCard("4111111111111111"))
	assert.Equal(t, "1234 5", formatCard("12-34 5"))
	assert.Equal(t, "", formatCard(""))
}

func TestUSD(t *testing.T) {
	assert.Equal(t, "$1,499", usd(149900))
	assert.Equal(t, "$12.99", usd(1299))
	assert.Equal(t, "$0", usd(0))
}
