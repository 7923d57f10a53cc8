package domain

type CabinClass string

const (
	CabinEconomy  CabinClass = "Economy"
	CabinBusiness CabinClass = "Business"
	CabinFirst    CabinClass = "First"
)

type FlightClass struct {
	ID         string     `json:"id"`
	Name       CabinClass `json:"name"`
	PriceCents int64      `json:"price_cents"`
	Features   []string   `json:"features"`
	Baggage    string     `json:"baggage"`
	SeatsLeft  int        `json:"seats_left"`
	Refundable bool       `json:"refundable"`
}

type Flight struct {
	ID        string        `json:"id"`
	From      string        `json:"from"`
	FromCode  string        `json:"from_code"`
	To        string        `json:"to"`
	ToCode    string        `json:"to_code"`
	Date      string        `json:"date"`
	Departure string        `json:"departure"`
	Arrival   string        `json:"arrival"`
	Duration  string        `json:"duration"`
	Aircraft  string        `json:"aircraft"`
	Classes   []FlightClass `json:"classes"`
}

// Class returns the class with the given id, or false.
func (f Flight) Class(classID string) (FlightClass, bool) {
	for _, c := range f.Classes {
		if c.ID == classID {
			return c, true
		}
	}
	return FlightClass{}, false
}

// ClassIDs lists the class ids in catalog order.
func (f Flight) ClassIDs() []string {
	ids := make([]string, 0, len(f.Classes))
	for _, c := range f.Classes {
		ids = append(ids, c.ID)
	}
	return ids
}

// Route renders the flight as "JFK → LAX".
func (f Flight) Route() string {
	return f.FromCode + " → " + f.ToCode
}
