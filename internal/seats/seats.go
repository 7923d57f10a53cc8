package seats

import (
	"fmt"
	"strings"
	"unicode/utf16"

	"github.com/Domenick1991/agentair/internal/domain"
)

type Grid struct {
	Cabin  domain.CabinClass   `json:"cabin"`
	Layout Layout              `json:"layout"`
	Rows   [][]domain.SeatInfo `json:"rows"`
}

// Occupied reports whether an unbooked seat is taken. The hash is djb2
// with xor over UTF-16 code units in wrapping int32 arithmetic.
func Occupied(label string, rate int) bool {
	h := int32(5381)
	for _, c := range utf16.Encode([]rune(label)) {
		h = (h<<5 + h) ^ int32(c)
	}
	abs := int64(h)
	if abs < 0 {
		abs = -abs
	}
	return abs%100 < int64(rate)
}

// BuildLayout renders the row-major seat grid of a cabin class.
func BuildLayout(cabin domain.CabinClass) (Grid, error) {
	layout, err := LayoutFor(cabin)
	if err != nil {
		return Grid{}, err
	}

	rows := make([][]domain.SeatInfo, 0, layout.EndRow-layout.StartRow+1)
	for r := layout.StartRow; r <= layout.EndRow; r++ {
		row := make([]domain.SeatInfo, 0, len(layout.Cols))
		for _, col := range layout.Cols {
			label := fmt.Sprintf("%d%s", r, col)
			row = append(row, domain.SeatInfo{
				SelectedSeat: domain.SelectedSeat{
					Label: label,
					Row:   r,
					Col:   col,
					Type:  layout.ColTypes[col],
				},
				Occupied: Occupied(label, layout.OccupancyRate),
			})
		}
		rows = append(rows, row)
	}
	return Grid{Cabin: cabin, Layout: layout, Rows: rows}, nil
}

// FindBestSeat returns the first free seat of the preferred type, falling
// back to the first free seat of any type. Nil means the cabin is full.
func FindBestSeat(grid Grid, preferred domain.SeatType) *domain.SeatInfo {
	for _, row := range grid.Rows {
		for _, seat := range row {
			if !seat.Occupied && seat.Type == preferred {
				s := seat
				return &s
			}
		}
	}
	for _, row := range grid.Rows {
		for _, seat := range row {
			if !seat.Occupied {
				s := seat
				return &s
			}
		}
	}
	return nil
}

// FindSeatByLabel matches case-insensitively and never returns an
// occupied seat.
func FindSeatByLabel(grid Grid, label string) *domain.SeatInfo {
	for _, row := range grid.Rows {
		for _, seat := range row {
			if strings.EqualFold(seat.Label, label) {
				if seat.Occupied {
					return nil
				}
				s := seat
				return &s
			}
		}
	}
	return nil
}

// Available counts free seats.
func (g Grid) Available() int {
	n := 0
	for _, row := range g.Rows {
		for _, seat := range row {
			if !seat.Occupied {
				n++
			}
		}
	}
	return n
}
