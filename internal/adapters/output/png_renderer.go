package output

import (
	"courier-route-service/internal/graph"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"os"

	"github.com/fogleman/gg"
)

var (
	backgroundColor = color.RGBA{255, 255, 255, 255}
	networkColor    = color.RGBA{200, 200, 200, 255}
	pathColor       = color.RGBA{220, 30, 30, 255}
	depotColor      = color.RGBA{20, 20, 160, 255}
)

const (
	networkWidth = 2
	pathWidth    = 3
	depotHalf    = 4
)

// Renderer draws the whole network in grey with one path on top in red.
// Nodes are placed by longitude/latitude scaled to the image bounds.
type Renderer struct {
	Width   int
	Height  int
	Padding int
}

func NewRenderer() *Renderer {
	return &Renderer{Width: 1200, Height: 1200, Padding: 20}
}

type projection struct {
	minLng, minLat float64
	scale          float64
	pad, h         float64
}

func (p projection) point(n graph.Node) (x, y float64) {
	x = p.pad + (n.Lng-p.minLng)*p.scale
	y = p.h - p.pad - (n.Lat-p.minLat)*p.scale
	return x, y
}

func (r *Renderer) project(g *graph.Graph) projection {
	minLng, minLat := math.Inf(1), math.Inf(1)
	maxLng, maxLat := math.Inf(-1), math.Inf(-1)
	for _, name := range g.Nodes() {
		n, _ := g.Node(name)
		minLng, maxLng = math.Min(minLng, n.Lng), math.Max(maxLng, n.Lng)
		minLat, maxLat = math.Min(minLat, n.Lat), math.Max(maxLat, n.Lat)
	}

	span := math.Max(maxLng-minLng, maxLat-minLat)
	if span == 0 {
		span = 1
	}
	inner := math.Min(float64(r.Width-2*r.Padding), float64(r.Height-2*r.Padding))
	return projection{
		minLng: minLng,
		minLat: minLat,
		scale:  inner / span,
		pad:    float64(r.Padding),
		h:      float64(r.Height),
	}
}

// draw paints g and path onto a fresh context.
func (r *Renderer) draw(g *graph.Graph, path []string) (*gg.Context, error) {
	if r.Width <= 2*r.Padding || r.Height <= 2*r.Padding {
		return nil, errors.New("render: image too small for padding")
	}

	// Resolve the path first so an unknown node never yields a half-drawn image.
	stops := make([]graph.Node, 0, len(path))
	for _, name := range path {
		n, ok := g.Node(name)
		if !ok {
			return nil, fmt.Errorf("render: unknown node %q", name)
		}
		stops = append(stops, n)
	}

	dc := gg.NewContext(r.Width, r.Height)
	dc.SetColor(backgroundColor)
	dc.Clear()

	if g.NodeCount() == 0 {
		return dc, nil
	}
	proj := r.project(g)

	dc.SetColor(networkColor)
	dc.SetLineWidth(networkWidth)
	for _, e := range g.Edges() {
		a, _ := g.Node(e.From)
		b, _ := g.Node(e.To)
		x1, y1 := proj.point(a)
		x2, y2 := proj.point(b)
		dc.DrawLine(x1, y1, x2, y2)
	}
	dc.Stroke()

	if len(stops) > 1 {
		dc.SetColor(pathColor)
		dc.SetLineWidth(pathWidth)
		x, y := proj.point(stops[0])
		dc.MoveTo(x, y)
		for _, n := range stops[1:] {
			dc.LineTo(proj.point(n))
		}
		dc.Stroke()
	}

	if len(stops) > 0 {
		x, y := proj.point(stops[0])
		dc.SetColor(depotColor)
		dc.DrawRectangle(x-depotHalf, y-depotHalf, 2*depotHalf, 2*depotHalf)
		dc.Fill()
	}

	return dc, nil
}

// Render draws g and path into a new image.
func (r *Renderer) Render(g *graph.Graph, path []string) (image.Image, error) {
	dc, err := r.draw(g, path)
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// WritePNG renders and encodes the image to w.
func (r *Renderer) WritePNG(w io.Writer, g *graph.Graph, path []string) error {
	dc, err := r.draw(g, path)
	if err != nil {
		return err
	}
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("render: encode png: %w", err)
	}
	return nil
}

// WritePNGFile renders path to a PNG file.
func (r *Renderer) WritePNGFile(file string, g *graph.Graph, path []string) (err error) {
	f, err := os.Create(file)
	if err != nil {
		return fmt.Errorf("render: create %q: %w", file, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("render: close %q: %w", file, cerr)
		}
	}()

	return r.WritePNG(f, g, path)
}
