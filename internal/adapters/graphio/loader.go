package graphio

import (
	"context"
	"courier-route-service/internal/graph"
	"fmt"
	"path/filepath"
	"strings"
)

// Loader picks a decoder from the file extension:
// .graphml → GraphML, .osm / .pbf → OpenStreetMap.
type Loader struct {
	GraphML *GraphMLLoader
	OSM     *OSMLoader
}

func NewLoader(speeds map[string]float64) *Loader {
	return &Loader{GraphML: NewGraphMLLoader(), OSM: NewOSMLoader(speeds)}
}

func (l *Loader) Load(ctx context.Context, path string) (*graph.Graph, error) {
	name := strings.ToLower(filepath.Base(path))
	switch {
	case strings.HasSuffix(name, ".graphml"), strings.HasSuffix(name, ".xml"):
		return l.GraphML.Load(ctx, path)
	case strings.HasSuffix(name, ".osm"), strings.HasSuffix(name, ".pbf"):
		return l.OSM.Load(ctx, path)
	default:
		return nil, fmt.Errorf("load graph: unsupported file type %q", path)
	}
}
