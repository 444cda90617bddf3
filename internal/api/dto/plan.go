package dto

import "time"

type ZoneRequest struct {
	Name         string   `json:"name"`
	Destinations []string `json:"destinations"`
}

// Zones are optional; without them the stored destinations are partitioned.
type PlanRequest struct {
	Depot string        `json:"depot"`
	Zones []ZoneRequest `json:"zones"`
}

type LegResponse struct {
	From  string   `json:"from"`
	To    string   `json:"to"`
	Hours float64  `json:"hours"`
	Path  []string `json:"path"`
}

type RouteResponse struct {
	Zone       string        `json:"zone"`
	TotalHours float64       `json:"total_hours"`
	Stops      []string      `json:"stops"`
	Path       []string      `json:"path"`
	Legs       []LegResponse `json:"legs"`
}

type FailureResponse struct {
	Zone  string `json:"zone"`
	Error string `json:"error"`
}

type PlanResponse struct {
	ID        string            `json:"id"`
	Depot     string            `json:"depot"`
	CreatedAt time.Time         `json:"created_at"`
	Routes    []RouteResponse   `json:"routes"`
	Failures  []FailureResponse `json:"failures"`
}
