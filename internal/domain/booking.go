package domain

type SeatType string

const (
	SeatWindow SeatType = "window"
	SeatAisle  SeatType = "aisle"
	SeatMiddle SeatType = "middle"
)

func (t SeatType) Valid() bool {
	switch t {
	case SeatWindow, SeatAisle, SeatMiddle:
		return true
	}
	return false
}

type SelectedSeat struct {
	Label string   `json:"label"`
	Row   int      `json:"row"`
	Col   string   `json:"col"`
	Type  SeatType `json:"type"`
}

// SeatInfo is a seat in a cabin grid. Occupied is derived from the label.
type SeatInfo struct {
	SelectedSeat
	Occupied bool `json:"occupied"`
}

func (s SeatInfo) Selected() SelectedSeat {
	return s.SelectedSeat
}

type BookingItem struct {
	Flight       Flight        `json:"flight"`
	Class        FlightClass   `json:"class"`
	Passengers   int           `json:"passengers"`
	AddedByAgent bool          `json:"added_by_agent"`
	Seat         *SelectedSeat `json:"seat,omitempty"`
}

func (i BookingItem) SubtotalCents() int64 {
	return i.Class.PriceCents * int64(i.Passengers)
}

// CheckoutForm is UI-only form state. It carries personal data and must
// never reach the analytics pipeline.
type CheckoutForm struct {
	Open       bool   `json:"open"`
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	Card       string `json:"card,omitempty"`
	Expiry     string `json:"expiry,omitempty"`
	CVV        string `json:"cvv,omitempty"`
	AutoSubmit bool   `json:"auto_submit"`
}
