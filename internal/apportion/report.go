package apportion

// Summarize computes per-entity representation shares from a finished
// apportionment. Entities with zero population (or a zero population total)
// report a share and an overrepresentation factor of 0 rather than a
// division-by-zero artefact.
func Summarize(populations []int64, seats []int) ([]EntityReport, error) {
	if len(populations) != len(seats) {
		return nil, ErrLengthMismatch
	}

	var totalPopulation int64
	totalSeats := 0
	for i, p := range populations {
		if p < 0 {
			return nil, ErrInvalidPopulations
		}
		totalPopulation += p
		totalSeats += seats[i]
	}

	reports := make([]EntityReport, len(populations))
	for i, p := range populations {
		r := EntityReport{
			Index:      i,
			Population: p,
			Seats:      seats[i],
		}
		if totalPopulation > 0 {
			r.PopulationShare = float64(p) / float64(totalPopulation)
		}
		if totalSeats > 0 {
			r.SeatShare = float64(seats[i]) / float64(totalSeats)
		}
		if r.PopulationShare > 0 {
			r.Overrepresentation = r.SeatShare / r.PopulationShare
		}
		reports[i] = r
	}

	return reports, nil
}
