package season

// Driver is season reference data. Immutable within a season.
type Driver struct {
	ID     string
	Name   string
	TeamID string
	Number int
}

// Team is season reference data.
type Team struct {
	ID   string
	Name string
}
