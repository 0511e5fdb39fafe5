package apportion

import "math"

type equalProportions struct{}

// New creates an Apportioner implementing the Huntington-Hill method of
// equal proportions.
func New() Apportioner {
	return &equalProportions{}
}

// Apportion distributes totalSeats across the entities in population order.
// Every entity starts with baseSeats; each remaining seat goes to the entity
// whose priority is strictly greatest at that point, with the lowest index
// winning ties. The result preserves input order and always sums to
// totalSeats.
func (a *equalProportions) Apportion(populations []int64, totalSeats, baseSeats int) ([]int, error) {
	n := len(populations)
	if n == 0 || baseSeats < 0 || totalSeats < 0 || totalSeats < baseSeats*n {
		return nil, ErrInvalidConfiguration
	}
	for _, p := range populations {
		if p < 0 {
			return nil, ErrInvalidPopulations
		}
	}

	seats := make([]int, n)
	for i := range seats {
		seats[i] = baseSeats
	}

	for remaining := totalSeats - baseSeats*n; remaining > 0; remaining-- {
		winner := -1
		winningPriority := 0.0
		for i, p := range populations {
			// strictly greater, so an earlier entity keeps a contested seat
			if pr := priority(p, seats[i]); pr > winningPriority {
				winner = i
				winningPriority = pr
			}
		}
		if winner < 0 {
			return nil, ErrDegenerateInput
		}
		seats[winner]++
	}

	return seats, nil
}

// priority scores an entity for its next seat: population divided by the
// geometric mean of the seat count the entity would reach and the one after.
// It shrinks as seats accumulate, which is what pulls the allocation towards
// proportionality.
func priority(population int64, seats int) float64 {
	next := float64(seats + 1)
	return float64(population) / math.Sqrt(next*(next+1))
}
