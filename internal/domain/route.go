package domain

import "time"

// Represents the shortest path between two consecutive stops of a tour.
type Leg struct {
	From  string
	To    string
	Hours float64
	Path  []string
}

// Represents a closed tour over one zone.
// Stops is the visit order (depot, destinations, depot); Path includes every
// transit node traversed. TotalHours is the sum of all leg durations.
// A Route is immutable once built.
type Route struct {
	Zone       string
	Depot      string
	Stops      []string
	Path       []string
	Legs       []Leg
	TotalHours float64
}

// Records a zone whose tour could not be constructed.
type ZoneFailure struct {
	Zone  string
	Error string
}

// Represents the outcome of planning every zone for one request.
// Failed zones are reported without affecting the routes of other zones.
type RoutePlan struct {
	ID        string
	Depot     string
	CreatedAt time.Time
	Routes    []Route
	Failures  []ZoneFailure
}
