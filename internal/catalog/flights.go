// Package catalog holds the immutable reference data shared by the
// booking and cart stores. Callers receive copies; nothing here is
// mutated at runtime.
package catalog

import "github.com/Domenick1991/agentair/internal/domain"

var economyFeatures = []string{"Standard seat", "1 carry-on bag", "In-flight Wi-Fi", "Snacks & beverages"}
var businessFeatures = []string{"Lie-flat seat", "Priority boarding", "Lounge access", "Gourmet multi-course meal"}

var flights = []domain.Flight{
	{
		ID:        "AA101",
		From:      "New York",
		FromCode:  "JFK",
		To:        "Los Angeles",
		ToCode:    "LAX",
		Date:      "2026-03-15",
		Departure: "08:00",
		Arrival:   "11:30",
		Duration:  "5h 30m",
		Aircraft:  "Air Agentic A380",
		Classes: []domain.FlightClass{
			{ID: "AA101-ECO", Name: domain.CabinEconomy, PriceCents: 29900, Features: economyFeatures, Baggage: "23 kg checked bag (+$35)", SeatsLeft: 42},
			{ID: "AA101-BIZ", Name: domain.CabinBusiness, PriceCents: 79900, Features: businessFeatures, Baggage: "2 × 32 kg included", SeatsLeft: 8, Refundable: true},
			{
				ID:         "AA101-FIRST",
				Name:       domain.CabinFirst,
				PriceCents: 149900,
				Features:   []string{"Private suite", "Dedicated concierge", "Champagne & fine dining", "Limo transfer"},
				Baggage:    "Unlimited",
				SeatsLeft:  3,
				Refundable: true,
			},
		},
	},
	{
		ID:        "AA205",
		From:      "New York",
		FromCode:  "JFK",
		To:        "Los Angeles",
		ToCode:    "LAX",
		Date:      "2026-03-15",
		Departure: "14:15",
		Arrival:   "17:45",
		Duration:  "5h 30m",
		Aircraft:  "Air Agentic B787",
		Classes: []domain.FlightClass{
			{ID: "AA205-ECO", Name: domain.CabinEconomy, PriceCents: 25900, Features: economyFeatures, Baggage: "23 kg checked bag (+$35)", SeatsLeft: 61},
			{ID: "AA205-BIZ", Name: domain.CabinBusiness, PriceCents: 69900, Features: businessFeatures, Baggage: "2 × 32 kg included", SeatsLeft: 12, Refundable: true},
		},
	},
}

// Flights returns a copy of the flight catalog.
func Flights() []domain.Flight {
	out := make([]domain.Flight, len(flights))
	for i, f := range flights {
		out[i] = cloneFlight(f)
	}
	return out
}

func cloneFlight(f domain.Flight) domain.Flight {
	classes := make([]domain.FlightClass, len(f.Classes))
	for i, c := range f.Classes {
		c.Features = append([]string(nil), c.Features...)
		classes[i] = c
	}
	f.Classes = classes
	return f
}
