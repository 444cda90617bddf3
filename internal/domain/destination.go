package domain

// Represents a node that a courier must visit.
// Name is the graph node name; Coordinates are copied from the graph so that
// zone partitioners never need the graph itself.
type Destination struct {
	Name        string
	Coordinates Coordinates
}

// A group of destinations routed independently from a shared depot.
type Zone struct {
	Name         string
	Destinations []string
}

// Add appends a destination to the zone.
func (z *Zone) Add(name string) {
	z.Destinations = append(z.Destinations, name)
}

func (z Zone) Len() int { return len(z.Destinations) }
