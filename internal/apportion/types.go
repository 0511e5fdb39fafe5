package apportion

// EntityReport summarises how one entity's share of seats compares to its
// share of the total population. An Overrepresentation factor of 1 means
// exactly proportional representation.
type EntityReport struct {
	Index              int
	Population         int64
	Seats              int
	PopulationShare    float64
	SeatShare          float64
	Overrepresentation float64
}

// Apportioner describes the behaviour required from a seat apportioner.
type Apportioner interface {
	Apportion(populations []int64, totalSeats, baseSeats int) ([]int, error)
}
