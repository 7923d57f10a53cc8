package flights

import (
	"fmt"
	"strings"

	"github.com/Domenick1991/agentair/internal/catalog"
	"github.com/Domenick1991/agentair/internal/domain"
)

type FlightUseCase interface {
	List() []domain.Flight
	GetByID(id string) (domain.Flight, error)
	FindClass(classID string) (domain.Flight, domain.FlightClass, error)
	Search(from, to string) []domain.Flight
}

// FlightService answers queries over a fixed flight catalog.
type FlightService struct {
	flights []domain.Flight
}

func NewFlightService(flights []domain.Flight) *FlightService {
	return &FlightService{flights: flights}
}

// NewCatalogService serves the built-in catalog.
func NewCatalogService() *FlightService {
	return NewFlightService(catalog.Flights())
}

func (s *FlightService) List() []domain.Flight {
	return append([]domain.Flight(nil), s.flights...)
}

func (s *FlightService) GetByID(id string) (domain.Flight, error) {
	for _, f := range s.flights {
		if f.ID == id {
			return f, nil
		}
	}
	return domain.Flight{}, fmt.Errorf("flight %q: %w", id, domain.ErrFlightNotFound)
}

// FindClass locates the flight that offers classID.
func (s *FlightService) FindClass(classID string) (domain.Flight, domain.FlightClass, error) {
	for _, f := range s.flights {
		if c, ok := f.Class(classID); ok {
			return f, c, nil
		}
	}
	return domain.Flight{}, domain.FlightClass{}, fmt.Errorf("class %q: %w", classID, domain.ErrClassNotFound)
}

// Search filters by case-insensitive substring on airport code or city.
// An empty filter matches every flight.
func (s *FlightService) Search(from, to string) []domain.Flight {
	out := make([]domain.Flight, 0, len(s.flights))
	for _, f := range s.flights {
		if matches(from, f.FromCode, f.From) && matches(to, f.ToCode, f.To) {
			out = append(out, f)
		}
	}
	return out
}

func matches(filter, code, city string) bool {
	if filter == "" {
		return true
	}
	q := strings.ToLower(filter)
	return strings.Contains(strings.ToLower(code), q) || strings.Contains(strings.ToLower(city), q)
}

var _ FlightUseCase = (*FlightService)(nil)
