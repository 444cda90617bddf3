package graphio

import (
	"context"
	"courier-route-service/internal/graph"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
)

// Travel speed in km/h per highway class when no override is configured.
var DefaultSpeeds = map[string]float64{
	"motorway":      100,
	"trunk":         80,
	"primary":       60,
	"secondary":     50,
	"tertiary":      50,
	"unclassified":  40,
	"residential":   30,
	"service":       20,
	"living_street": 10,
}

// Common surface of the osmxml and osmpbf scanners.
type osmScanner interface {
	Scan() bool
	Object() osm.Object
	Err() error
	Close() error
}

// OSMLoader builds a routing graph from OpenStreetMap ways.
// Every way tagged with a highway class listed in Speeds becomes a chain of
// edges weighted by great-circle length divided by the class speed (hours).
// Nodes keep their "name" tag as graph name when it is unique, otherwise the
// numeric OSM id is used.
type OSMLoader struct {
	Speeds map[string]float64
}

func NewOSMLoader(speeds map[string]float64) *OSMLoader {
	if len(speeds) == 0 {
		speeds = DefaultSpeeds
	}
	return &OSMLoader{Speeds: speeds}
}

// uniqueName prefers the name tag, then the numeric id, then "osm:<id>".
// A name tag may itself look like another node's id, so every choice is checked.
func uniqueName(used map[string]bool, id osm.NodeID, tag string) string {
	num := strconv.FormatInt(int64(id), 10)
	for _, name := range []string{tag, num, "osm:" + num} {
		if name != "" && !used[name] {
			return name
		}
	}
	for i := 2; ; i++ {
		name := fmt.Sprintf("osm:%s#%d", num, i)
		if !used[name] {
			return name
		}
	}
}

// Load reads .osm (XML) or .pbf files.
func (l *OSMLoader) Load(ctx context.Context, path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load osm: open %q: %w", path, err)
	}
	defer f.Close()

	var sc osmScanner
	if strings.HasSuffix(strings.ToLower(path), ".pbf") {
		pbf := osmpbf.New(ctx, f, runtime.GOMAXPROCS(-1))
		pbf.SkipRelations = true
		sc = pbf
	} else {
		sc = osmxml.New(ctx, f)
	}

	g, err := l.decode(sc)
	if err != nil {
		return nil, fmt.Errorf("load osm %q: %w", path, err)
	}
	return g, nil
}

// ReadXML decodes an OSM XML document.
func (l *OSMLoader) ReadXML(ctx context.Context, r io.Reader) (*graph.Graph, error) {
	return l.decode(osmxml.New(ctx, r))
}

type osmWay struct {
	nodes []osm.NodeID
	speed float64
}

func (l *OSMLoader) decode(sc osmScanner) (*graph.Graph, error) {
	defer sc.Close()

	points := map[osm.NodeID]osm.Node{}
	var ways []osmWay

	for sc.Scan() {
		switch o := sc.Object().(type) {
		case *osm.Node:
			points[o.ID] = osm.Node{ID: o.ID, Lat: o.Lat, Lon: o.Lon, Tags: o.Tags}
		case *osm.Way:
			speed, ok := l.Speeds[o.Tags.Find("highway")]
			if !ok || speed <= 0 || len(o.Nodes) < 2 {
				continue
			}
			ways = append(ways, osmWay{nodes: o.Nodes.NodeIDs(), speed: speed})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan osm: %w", err)
	}

	b := graph.NewBuilder()
	names := map[osm.NodeID]string{}
	used := map[string]bool{}

	nameOf := func(id osm.NodeID) (string, error) {
		if name, ok := names[id]; ok {
			return name, nil
		}
		p, ok := points[id]
		if !ok {
			return "", fmt.Errorf("way references missing node %d", id)
		}

		name := uniqueName(used, id, strings.TrimSpace(p.Tags.Find("name")))
		if err := b.AddNode(graph.Node{Name: name, Lat: p.Lat, Lng: p.Lon}); err != nil {
			return "", err
		}
		names[id] = name
		used[name] = true
		return name, nil
	}

	for _, w := range ways {
		for i := 1; i < len(w.nodes); i++ {
			from, err := nameOf(w.nodes[i-1])
			if err != nil {
				return nil, fmt.Errorf("build osm graph: %w", err)
			}
			to, err := nameOf(w.nodes[i])
			if err != nil {
				return nil, fmt.Errorf("build osm graph: %w", err)
			}

			a, c := points[w.nodes[i-1]], points[w.nodes[i]]
			meters := geo.Distance(orb.Point{a.Lon, a.Lat}, orb.Point{c.Lon, c.Lat})
			if err := b.AddEdge(from, to, meters/1000/w.speed); err != nil {
				return nil, fmt.Errorf("build osm graph: %w", err)
			}
		}
	}

	return b.Build(), nil
}
