package output

import (
	"bytes"
	"courier-route-service/internal/domain"
	"courier-route-service/internal/graph"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteStopsFile(t *testing.T) {
	route := &domain.Route{Stops: []string{"Auckland Airport", "A", "B", "Auckland Airport"}}
	path := filepath.Join(t.TempDir(), "path_1.txt")

	require.NoError(t, WriteStopsFile(path, route))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "Auckland Airport\nA\nB\nAuckland Airport\n", string(data))
}

func renderGraph(t *testing.T) *graph.Graph {
	t.Helper()

	b := graph.NewBuilder()
	require.NoError(t, b.AddNode(graph.Node{Name: "D", Lat: 0, Lng: 0}))
	require.NoError(t, b.AddNode(graph.Node{Name: "A", Lat: 1, Lng: 1}))
	require.NoError(t, b.AddNode(graph.Node{Name: "B", Lat: 0, Lng: 1}))
	require.NoError(t, b.AddEdge("D", "A", 1))
	require.NoError(t, b.AddEdge("A", "B", 1))
	require.NoError(t, b.AddEdge("B", "D", 1))
	return b.Build()
}

// closeTo reports whether some pixel in the 3x3 block around (x, y) is within
// a small distance of want; lines are anti-aliased.
func closeTo(img image.Image, x, y int, want color.RGBA) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			got := color.RGBAModel.Convert(img.At(x+dx, y+dy)).(color.RGBA)
			if diff(got.R, want.R) <= 30 && diff(got.G, want.G) <= 30 && diff(got.B, want.B) <= 30 {
				return true
			}
		}
	}
	return false
}

func diff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func TestRendererDrawsPath(t *testing.T) {
	r := &Renderer{Width: 100, Height: 100, Padding: 10}
	img, err := r.Render(renderGraph(t), []string{"D", "A", "D"})
	require.NoError(t, err)
	require.Equal(t, 100, img.Bounds().Dx())

	// D projects to (10, 90), A to (90, 10); the D-A diagonal is the path.
	require.True(t, closeTo(img, 10, 90, depotColor))
	require.True(t, closeTo(img, 50, 50, pathColor))
	// B-D lies along the bottom edge and is network only.
	require.True(t, closeTo(img, 50, 90, networkColor))
	require.False(t, closeTo(img, 50, 90, pathColor))
	require.Equal(t, backgroundColor, color.RGBAModel.Convert(img.At(20, 40)))
}

func TestRendererWritesPNG(t *testing.T) {
	var buf bytes.Buffer
	r := &Renderer{Width: 64, Height: 64, Padding: 4}
	require.NoError(t, r.WritePNG(&buf, renderGraph(t), []string{"D", "B"}))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, 64, img.Bounds().Dx())
}

func TestRendererRejectsUnknownNodes(t *testing.T) {
	_, err := NewRenderer().Render(renderGraph(t), []string{"D", "Ghost"})
	require.Error(t, err)

	_, err = (&Renderer{Width: 10, Height: 10, Padding: 5}).Render(renderGraph(t), nil)
	require.Error(t, err)
}
