// Package seats builds cabin seat maps and allocates seats. Occupancy is
// a pure function of the seat label, so every process renders the same
// cabin.
package seats

import (
	"fmt"

	"github.com/Domenick1991/agentair/internal/domain"
)

type Layout struct {
	StartRow      int                        `json:"start_row"`
	EndRow        int                        `json:"end_row"`
	Cols          []string                   `json:"cols"`
	ColTypes      map[string]domain.SeatType `json:"col_types"`
	AisleAfter    string                     `json:"aisle_after"`
	OccupancyRate int                        `json:"occupancy_rate"`
}

var layouts = map[domain.CabinClass]Layout{
	domain.CabinEconomy: {
		StartRow: 20,
		EndRow:   28,
		Cols:     []string{"A", "B", "C", "D", "E", "F"},
		ColTypes: map[string]domain.SeatType{
			"A": domain.SeatWindow, "B": domain.SeatMiddle, "C": domain.SeatAisle,
			"D": domain.SeatAisle, "E": domain.SeatMiddle, "F": domain.SeatWindow,
		},
		AisleAfter:    "C",
		OccupancyRate: 58,
	},
	domain.CabinBusiness: {
		StartRow: 1,
		EndRow:   7,
		Cols:     []string{"A", "B", "C", "D"},
		ColTypes: map[string]domain.SeatType{
			"A": domain.SeatWindow, "B": domain.SeatAisle, "C": domain.SeatAisle, "D": domain.SeatWindow,
		},
		AisleAfter:    "B",
		OccupancyRate: 38,
	},
	domain.CabinFirst: {
		StartRow:      1,
		EndRow:        3,
		Cols:          []string{"A", "B"},
		ColTypes:      map[string]domain.SeatType{"A": domain.SeatWindow, "B": domain.SeatWindow},
		AisleAfter:    "A",
		OccupancyRate: 15,
	},
}

// LayoutFor returns the fixed layout of a cabin class.
func LayoutFor(cabin domain.CabinClass) (Layout, error) {
	l, ok := layouts[cabin]
	if !ok {
		return Layout{}, fmt.Errorf("%w: %q", domain.ErrUnknownCabin, cabin)
	}
	return l, nil
}

// LeftCols returns the columns up to and including the aisle column.
func (l Layout) LeftCols() []string {
	return l.Cols[:l.aisleIndex()+1]
}

// RightCols returns the columns after the aisle.
func (l Layout) RightCols() []string {
	return l.Cols[l.aisleIndex()+1:]
}

func (l Layout) aisleIndex() int {
	for i, c := range l.Cols {
		if c == l.AisleAfter {
			return i
		}
	}
	return len(l.Cols) - 1
}
