package apportion

import (
	"fmt"
	"strconv"
)

// AlignColumns renders populations and seats as right-aligned strings where,
// for each index, both values share the width of the wider rendering. Purely
// cosmetic, intended for human-readable two-row tables.
func AlignColumns(populations []int64, seats []int) ([]string, []string, error) {
	if len(populations) != len(seats) {
		return nil, nil, ErrLengthMismatch
	}

	alignedPopulations := make([]string, len(populations))
	alignedSeats := make([]string, len(seats))
	for i, p := range populations {
		width := len(strconv.FormatInt(p, 10))
		if w := len(strconv.Itoa(seats[i])); w > width {
			width = w
		}
		alignedPopulations[i] = fmt.Sprintf("%*d", width, p)
		alignedSeats[i] = fmt.Sprintf("%*d", width, seats[i])
	}

	return alignedPopulations, alignedSeats, nil
}
