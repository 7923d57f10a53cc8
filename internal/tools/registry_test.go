package tools

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Domenick1991/agentair/internal/analytics"
	"github.com/Domenick1991/agentair/internal/catalog"
	"github.com/Domenick1991/agentair/internal/clock"
	"github.com/Domenick1991/agentair/internal/consent"
	"github.com/Domenick1991/agentair/internal/domain"
	"github.com/Domenick1991/agentair/internal/logger"
	"github.com/Domenick1991/agentair/internal/metrics"
	"github.com/Domenick1991/agentair/internal/service/booking"
	"github.com/Domenick1991/agentair/internal/service/cart"
	"github.com/Domenick1991/agentair/internal/service/flights"
)

type harness struct {
	registry *Registry
	booking  *booking.Store
	cart     *cart.Store
	consent  *consent.Manager
	sink     *analytics.RecorderSink
	metrics  *metrics.Metrics
	clock    *clock.FakeClock
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	c := clock.Fake(time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC))
	m := metrics.NewMetrics("test", prometheus.NewRegistry())
	log := logger.NewNop()

	mgr, err := consent.NewManager(context.Background(), consent.NewMemoryStorage(), c, log, m)
	require.NoError(t, err)
	sink := analytics.NewRecorderSink()
	emitter := analytics.NewEmitter(mgr, sink, log, m)

	fs := flights.NewCatalogService()
	store := booking.NewStore(fs, c)
	cartStore := cart.NewStore(catalog.MenuItem)

	return &harness{
		registry: NewRegistry(Deps{
			Flights: fs,
			Booking: store,
			Cart:    cartStore,
			Consent: mgr,
			Events:  emitter,
			Log:     log,
			Metrics: m,
		}),
		booking: store,
		cart:    cartStore,
		consent: mgr,
		sink:    sink,
		metrics: m,
		clock:   c,
	}
}

func (h *harness) call(t *testing.T, name, args string) Result {
	t.Helper()
	return h.registry.Call(context.Background(), name, json.RawMessage(args))
}

func decode(t *testing.T, r Result) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(r.Text()), &out))
	return out
}

func TestRegistry_List(t *testing.T) {
	h := newHarness(t)

	names := []string{}
	for _, d := range h.registry.List() {
		names = append(names, d.Name)
		assert.Equal(t, "object", d.InputSchema.Type)
		assert.NotEmpty(t, d.Description)
	}
	assert.Equal(t, []string{
		"search_flights", "add_to_booking", "get_booking", "remove_from_booking", "clear_booking",
		"select_seat", "checkout", "get_consent", "ask_consent",
		"list_menu", "add_to_cart", "remove_from_cart", "clear_cart", "get_cart",
	}, names)
}

func TestRegistry_SchemaFromTags(t *testing.T) {
	h := newHarness(t)
	byName := map[string]Descriptor{}
	for _, d := range h.registry.List() {
		byName[d.Name] = d
	}

	add := byName["add_to_booking"].InputSchema
	assert.ElementsMatch(t, []string{"flight_id", "class_id"}, add.Required)
	require.Contains(t, add.Properties, "passengers")
	assert.Equal(t, "integer", add.Properties["passengers"].Type)
	assert.Equal(t, 1.0, *add.Properties["passengers"].Minimum)
	assert.Equal(t, 9.0, *add.Properties["passengers"].Maximum)
	assert.Equal(t, "Flight ID (e.g. 'AA101')", add.Properties["flight_id"].Description)

	seat := byName["select_seat"].InputSchema
	assert.Equal(t, []any{"window", "aisle", "middle"}, seat.Properties["preference"].Enum)
	assert.Equal(t, []string{"class_id"}, seat.Required)

	assert.Empty(t, byName["get_booking"].InputSchema.Properties)
	assert.Empty(t, byName["search_flights"].InputSchema.Required)
}

func TestRegistry_UnknownTool(t *testing.T) {
	h := newHarness(t)
	r := h.call(t, "book_hotel", `{}`)
	require.True(t, r.IsError)
	assert.Equal(t, CategoryNotFound, r.ErrorInfo.Category)
}

func TestRegistry_ValidationErrors(t *testing.T) {
	h := newHarness(t)

	testCases := []struct {
		name, tool, args, message string
	}{
		{"missing required", "add_to_booking", `{"flight_id":"AA101"}`, "class_id is required"},
		{"below minimum", "add_to_booking", `{"flight_id":"AA101","class_id":"AA101-ECO","passengers":0}`, "passengers must be at least 1"},
		{"above maximum", "add_to_booking", `{"flight_id":"AA101","class_id":"AA101-ECO","passengers":10}`, "passengers must be at most 9"},
		{"wrong type", "add_to_booking", `{"flight_id":"AA101","class_id":"AA101-ECO","passengers":"two"}`, "passengers must be an integer"},
		{"not an object", "get_booking", `[1,2]`, "arguments must be a JSON object"},
		{"bad enum", "select_seat", `{"class_id":"AA101-ECO","preference":"exit-row"}`, "preference must be one of: window, aisle, middle"},
		{"bad decision", "ask_consent", `{"decision":"maybe"}`, "decision must be one of"},
		{"quantity too large", "add_to_cart", `{"item_id":"fries","quantity":21}`, "quantity must be at most 20"},
		{"malformed json", "search_flights", `{"from":`, "invalid arguments"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := h.call(t, tc.tool, tc.args)
			require.True(t, r.IsError)
			assert.Equal(t, CategoryValidation, r.ErrorInfo.Category)
			assert.Contains(t, decode(t, r)["error"], tc.message)
		})
	}

	assert.Zero(t, h.booking.Count())
	assert.Zero(t, h.cart.Count())
	assert.Empty(t, h.booking.Activities(0), "failed calls record no activity")
	assert.Zero(t, h.consent.Buffered(), "failed calls emit no events")
}

func TestRegistry_NullArgumentsAccepted(t *testing.T) {
	h := newHarness(t)
	for _, args := range []string{``, `null`, `{}`} {
		r := h.call(t, "get_booking", args)
		assert.False(t, r.IsError, "args %q", args)
	}
}

func TestRegistry_RecoversFromPanics(t *testing.T) {
	m := metrics.NewMetrics("test", prometheus.NewRegistry())
	r := newRegistry(logger.NewNop(), m, newTool(newValidator(), "explode", "always panics",
		func(context.Context, noParams) (any, error) { panic("boom") }))

	var res Result
	assert.NotPanics(t, func() { res = r.Call(context.Background(), "explode", nil) })
	require.True(t, res.IsError)
	assert.Equal(t, CategoryInternal, res.ErrorInfo.Category)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ToolCalls.WithLabelValues("explode", "agent", "internal")))
}

func TestRegistry_SourceFromContext(t *testing.T) {
	assert.Equal(t, domain.SourceAgent, SourceFrom(context.Background()))
	ctx := WithSource(context.Background(), domain.SourceHuman)
	assert.Equal(t, domain.SourceHuman, SourceFrom(ctx))
}

func TestRegistry_OneEventPerSuccessfulCall(t *testing.T) {
	h := newHarness(t)

	require.False(t, h.call(t, "search_flights", `{"from":"JFK"}`).IsError)
	require.False(t, h.call(t, "add_to_booking", `{"flight_id":"AA101","class_id":"AA101-ECO"}`).IsError)
	require.True(t, h.call(t, "add_to_booking", `{"flight_id":"AA101","class_id":"NOPE"}`).IsError)
	require.False(t, h.call(t, "select_seat", `{"class_id":"AA101-ECO","preference":"aisle"}`).IsError)
	require.False(t, h.call(t, "get_booking", `{}`).IsError)

	assert.Equal(t, 4, h.consent.Buffered())
	assert.Empty(t, h.sink.Deliveries())

	_, err := h.consent.Grant(context.Background())
	require.NoError(t, err)

	got := h.sink.Deliveries()
	require.Len(t, got, 4)
	assert.Equal(t, []string{EventToolUsed, EventAddToCart, EventSeatSelected, EventToolUsed},
		[]string{got[0].Name, got[1].Name, got[2].Name, got[3].Name})
	for _, d := range got {
		meta := d.Payload
		if d.Kind == domain.EventCommerce {
			meta = d.Extra
		}
		assert.Equal(t, "granted", meta[analytics.ParamConsentStatus])
		assert.Equal(t, "agent", meta[analytics.ParamInteractionSource])
	}
	assert.Equal(t, 4, len(h.booking.Activities(0)))
	assert.Equal(t, float64(1), testutil.ToFloat64(h.metrics.ToolCalls.WithLabelValues("add_to_booking", "agent", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(h.metrics.ToolCalls.WithLabelValues("add_to_booking", "agent", CategoryNotFound)))
}

func TestRegistry_HumanSourceSkipsActivity(t *testing.T) {
	h := newHarness(t)
	_, err := h.consent.Grant(context.Background())
	require.NoError(t, err)

	ctx := WithSource(context.Background(), domain.SourceHuman)
	r := h.registry.Call(ctx, "add_to_booking", json.RawMessage(`{"flight_id":"AA205","class_id":"AA205-BIZ"}`))
	require.False(t, r.IsError)

	item, ok := h.booking.Item("AA205-BIZ")
	require.True(t, ok)
	assert.False(t, item.AddedByAgent)
	assert.Empty(t, h.booking.Activities(0))

	got := h.sink.Deliveries()
	require.Len(t, got, 1)
	assert.Equal(t, "human", got[0].Extra[analytics.ParamInteractionSource])
}

func TestRegistry_ConcurrentAddsBookOnce(t *testing.T) {
	h := newHarness(t)
	_, err := h.consent.Grant(context.Background())
	require.NoError(t, err)

	const callers = 16
	var wg sync.WaitGroup
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.False(t, h.call(t, "add_to_booking", `{"flight_id":"AA101","class_id":"AA101-ECO","passengers":2}`).IsError)
		}()
	}
	wg.Wait()

	added := 0
	for _, d := range h.sink.Deliveries() {
		if d.Name == EventAddToCart {
			added++
		}
	}
	assert.Equal(t, 1, added)
	assert.Equal(t, 1, h.booking.Count())
	assert.Len(t, h.sink.Deliveries(), callers)
}

func TestRegistry_CheckoutNeverSeesClearedBooking(t *testing.T) {
	h := newHarness(t)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			h.call(t, "add_to_booking", `{"flight_id":"AA101","class_id":"AA101-ECO"}`)
			h.call(t, "clear_booking", `{}`)
		}()
		go func() {
			defer wg.Done()
			r := h.call(t, "checkout", `{"passenger_name":"Ada"}`)
			if r.IsError {
				assert.Equal(t, CategoryPrecondition, r.ErrorInfo.Category)
				return
			}
			assert.Positive(t, decode(t, r)["booking_total"])
		}()
	}
	wg.Wait()
}
