package seats

import (
	"testing"

	"github.com/Domenick1991/agentair/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOccupied_KnownLabels(t *testing.T) {
	testCases := []struct {
		label    string
		rate     int
		expected bool
	}{
		{"20A", 58, true},
		{"21A", 58, false},
		{"24D", 58, true},
		{"1A", 38, true},
		{"3A", 38, false},
		{"4A", 38, true},
		{"1A", 15, true},
		{"2A", 15, false},
	}

	for _, tc := range testCases {
		t.Run(tc.label, func(t *testing.T) {
			assert.Equal(t, tc.expected, Occupied(tc.label, tc.rate))
		})
	}
}

func TestOccupied_Deterministic(t *testing.T) {
	for _, label := range []string{"20A", "22F", "3B", "7D", "99Z", ""} {
		first := Occupied(label, 50)
		for i := 0; i < 50; i++ {
			assert.Equal(t, first, Occupied(label, 50), label)
		}
	}
}

func TestOccupied_RateBounds(t *testing.T) {
	assert.False(t, Occupied("20A", 0))
	assert.True(t, Occupied("21A", 100))
}

func TestBuildLayout_Economy(t *testing.T) {
	grid, err := BuildLayout(domain.CabinEconomy)
	require.NoError(t, err)

	require.Len(t, grid.Rows, 9)
	for _, row := range grid.Rows {
		assert.Len(t, row, 6)
	}
	first := grid.Rows[0][0]
	assert.Equal(t, "20A", first.Label)
	assert.Equal(t, 20, first.Row)
	assert.Equal(t, "A", first.Col)
	assert.Equal(t, domain.SeatWindow, first.Type)
	assert.True(t, first.Occupied)

	assert.Equal(t, []string{"A", "B", "C"}, grid.Layout.LeftCols())
	assert.Equal(t, []string{"D", "E", "F"}, grid.Layout.RightCols())
}

func TestBuildLayout_UnknownCabin(t *testing.T) {
	_, err := BuildLayout("Premium")
	assert.ErrorIs(t, err, domain.ErrUnknownCabin)
}

func TestBuildLayout_StableAcrossCalls(t *testing.T) {
	a, err := BuildLayout(domain.CabinBusiness)
	require.NoError(t, err)
	b, err := BuildLayout(domain.CabinBusiness)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestFindBestSeat(t *testing.T) {
	testCases := []struct {
		name     string
		cabin    domain.CabinClass
		pref     domain.SeatType
		expected string
	}{
		{"economy window", domain.CabinEconomy, domain.SeatWindow, "21A"},
		{"economy middle", domain.CabinEconomy, domain.SeatMiddle, "21B"},
		{"economy aisle", domain.CabinEconomy, domain.SeatAisle, "21C"},
		{"business aisle", domain.CabinBusiness, domain.SeatAisle, "2B"},
		{"first window", domain.CabinFirst, domain.SeatWindow, "2A"},
		{"business has no middle, falls back", domain.CabinBusiness, domain.SeatMiddle, "2A"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			grid, err := BuildLayout(tc.cabin)
			require.NoError(t, err)

			seat := FindBestSeat(grid, tc.pref)
			require.NotNil(t, seat)
			assert.Equal(t, tc.expected, seat.Label)
			assert.False(t, seat.Occupied)
		})
	}
}

func TestFindBestSeat_FullCabin(t *testing.T) {
	grid, err := BuildLayout(domain.CabinFirst)
	require.NoError(t, err)
	for r := range grid.Rows {
		for c := range grid.Rows[r] {
			grid.Rows[r][c].Occupied = true
		}
	}
	assert.Nil(t, FindBestSeat(grid, domain.SeatWindow))
	assert.Equal(t, 0, grid.Available())
}

func TestFindSeatByLabel(t *testing.T) {
	grid, err := BuildLayout(domain.CabinBusiness)
	require.NoError(t, err)

	seat := FindSeatByLabel(grid, "3a")
	require.NotNil(t, seat)
	assert.Equal(t, "3A", seat.Label)

	assert.Nil(t, FindSeatByLabel(grid, "4A"), "occupied seat must not be returned")
	assert.Nil(t, FindSeatByLabel(grid, "1a"), "occupied seat must not be returned")
	assert.Nil(t, FindSeatByLabel(grid, "9Z"))
}
