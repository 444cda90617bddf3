package graphio

import (
	"context"
	"courier-route-service/internal/graph"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

type graphmlDoc struct {
	Keys  []graphmlKey `xml:"key"`
	Graph struct {
		Nodes []graphmlElem `xml:"node"`
		Edges []graphmlElem `xml:"edge"`
	} `xml:"graph"`
}

type graphmlKey struct {
	ID   string `xml:"id,attr"`
	For  string `xml:"for,attr"`
	Name string `xml:"attr.name,attr"`
}

type graphmlElem struct {
	ID     string        `xml:"id,attr"`
	Source string        `xml:"source,attr"`
	Target string        `xml:"target,attr"`
	Data   []graphmlData `xml:"data"`
}

type graphmlData struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

// GraphMLLoader reads networks in the GraphML layout written by networkx:
// node attributes "lat"/"lng" and an edge attribute "weight" in hours.
// Edges without a weight cost DefaultWeight.
type GraphMLLoader struct {
	DefaultWeight float64
}

func NewGraphMLLoader() *GraphMLLoader {
	return &GraphMLLoader{DefaultWeight: 1}
}

func (l *GraphMLLoader) Load(ctx context.Context, path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load graphml: open %q: %w", path, err)
	}
	defer f.Close()

	g, err := l.Read(f)
	if err != nil {
		return nil, fmt.Errorf("load graphml %q: %w", path, err)
	}
	return g, nil
}

// Read decodes a GraphML document into an immutable graph.
func (l *GraphMLLoader) Read(r io.Reader) (*graph.Graph, error) {
	var doc graphmlDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode graphml: %w", err)
	}

	// Map key ids (d0, d1, ...) to attribute names per element kind.
	names := map[string]string{}
	for _, k := range doc.Keys {
		names[k.For+"|"+k.ID] = k.Name
	}

	b := graph.NewBuilder()
	for _, n := range doc.Graph.Nodes {
		node := graph.Node{Name: n.ID}
		for _, d := range n.Data {
			switch names["node|"+d.Key] {
			case "lat":
				v, err := parseFloat(d.Value)
				if err != nil {
					return nil, fmt.Errorf("decode graphml: node %q lat: %w", n.ID, err)
				}
				node.Lat = v
			case "lng", "lon":
				v, err := parseFloat(d.Value)
				if err != nil {
					return nil, fmt.Errorf("decode graphml: node %q lng: %w", n.ID, err)
				}
				node.Lng = v
			}
		}
		if err := b.AddNode(node); err != nil {
			return nil, fmt.Errorf("decode graphml: %w", err)
		}
	}

	for _, e := range doc.Graph.Edges {
		weight := l.DefaultWeight
		for _, d := range e.Data {
			if names["edge|"+d.Key] != "weight" {
				continue
			}
			v, err := parseFloat(d.Value)
			if err != nil {
				return nil, fmt.Errorf("decode graphml: edge %q-%q weight: %w", e.Source, e.Target, err)
			}
			weight = v
		}
		if err := b.AddEdge(e.Source, e.Target, weight); err != nil {
			return nil, fmt.Errorf("decode graphml: %w", err)
		}
	}

	return b.Build(), nil
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
