package zones

import (
	"courier-route-service/internal/domain"
	"errors"
	"fmt"
)

// One comparison against a destination coordinate.
type Condition struct {
	Field string  `yaml:"field"` // "lat" or "lng"
	Op    string  `yaml:"op"`    // ">" or "<"
	Value float64 `yaml:"value"`
}

// A zone receives a destination when all of its conditions hold.
type Rule struct {
	Name string      `yaml:"name"`
	When []Condition `yaml:"when"`
}

type Config struct {
	Rules    []Rule `yaml:"rules"`
	Fallback string `yaml:"fallback"`
}

// Auckland split used by the original courier study: north of -36.835,
// then west of 174.73, then a central box, everything else south-east.
func AucklandConfig() Config {
	return Config{
		Rules: []Rule{
			{Name: "north", When: []Condition{{Field: "lat", Op: ">", Value: -36.835}}},
			{Name: "west", When: []Condition{{Field: "lng", Op: "<", Value: 174.73}}},
			{Name: "central", When: []Condition{
				{Field: "lng", Op: "<", Value: 174.88},
				{Field: "lat", Op: ">", Value: -36.924},
			}},
		},
		Fallback: "south_east",
	}
}

// ThresholdPartitioner assigns each destination to the first rule it matches,
// or to the fallback zone. All zones are returned, empty ones included, in
// rule order followed by the fallback.
type ThresholdPartitioner struct {
	cfg Config
}

func NewThresholdPartitioner(cfg Config) (*ThresholdPartitioner, error) {
	if cfg.Fallback == "" {
		return nil, errors.New("threshold partitioner: fallback zone name is required")
	}

	seen := map[string]bool{cfg.Fallback: true}
	for _, r := range cfg.Rules {
		if r.Name == "" {
			return nil, errors.New("threshold partitioner: rule name is required")
		}
		if seen[r.Name] {
			return nil, fmt.Errorf("threshold partitioner: duplicate zone %q", r.Name)
		}
		seen[r.Name] = true

		for _, c := range r.When {
			if c.Field != "lat" && c.Field != "lng" {
				return nil, fmt.Errorf("threshold partitioner: zone %q: unknown field %q", r.Name, c.Field)
			}
			if c.Op != ">" && c.Op != "<" {
				return nil, fmt.Errorf("threshold partitioner: zone %q: unknown op %q", r.Name, c.Op)
			}
		}
	}

	return &ThresholdPartitioner{cfg: cfg}, nil
}

func (p *ThresholdPartitioner) Partition(dests []domain.Destination) ([]domain.Zone, error) {
	zones := make([]domain.Zone, len(p.cfg.Rules)+1)
	for i, r := range p.cfg.Rules {
		zones[i] = domain.Zone{Name: r.Name, Destinations: []string{}}
	}
	fallback := len(p.cfg.Rules)
	zones[fallback] = domain.Zone{Name: p.cfg.Fallback, Destinations: []string{}}

	for _, d := range dests {
		idx := fallback
		for i, r := range p.cfg.Rules {
			if matches(r, d.Coordinates) {
				idx = i
				break
			}
		}
		zones[idx].Add(d.Name)
	}

	return zones, nil
}

func matches(r Rule, c domain.Coordinates) bool {
	for _, cond := range r.When {
		v := c.Lat
		if cond.Field == "lng" {
			v = c.Lon
		}

		switch cond.Op {
		case ">":
			if !(v > cond.Value) {
				return false
			}
		case "<":
			if !(v < cond.Value) {
				return false
			}
		}
	}
	return true
}
