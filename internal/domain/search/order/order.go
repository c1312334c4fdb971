package order

// SortBy is the result ordering criterion.
type SortBy string

// Sort criteria.
const (
	Relevance    SortBy = "relevance"
	Alphabetical SortBy = "alphabetical"
	// Type orders by entity type, then by name ascending.
	Type SortBy = "type"
)

// IsValid checks if the criterion is one of the supported values.
func (s SortBy) IsValid() bool {
	return s == Relevance || s == Alphabetical || s == Type
}

// Direction is the sort direction.
type Direction string

// Sort directions.
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// IsValid checks if the direction is one of the supported values.
func (d Direction) IsValid() bool {
	return d == Asc || d == Desc
}

// Sign returns +1 for ascending and -1 for descending.
func (d Direction) Sign() int {
	if d == Desc {
		return -1
	}
	return 1
}

// Toggle flips the direction.
func (d Direction) Toggle() Direction {
	if d == Asc {
		return Desc
	}
	return Asc
}
