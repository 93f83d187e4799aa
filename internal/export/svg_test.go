package export

import (
	"strings"
	"testing"
)

func TestTrackToSVG(t *testing.T) {
	points := []Point{{0, 0}, {10, 5}, {20, 0}}

	svg := TrackToSVG(points, 800, 600, "#00ff88")

	if !strings.HasPrefix(svg, `<?xml`) {
		t.Error("missing xml declaration")
	}
	if !strings.Contains(svg, `<svg`) || !strings.Contains(svg, `</svg>`) {
		t.Error("not a complete svg document")
	}
	if !strings.Contains(svg, `width="800" height="600"`) {
		t.Error("dimensions not applied")
	}
	if !strings.Contains(svg, `stroke="#00ff88"`) {
		t.Error("stroke color not applied")
	}
	if strings.Count(svg, " L") != len(points)-1 {
		t.Errorf("expected %d line segments", len(points)-1)
	}
}

func TestTrackToSVGDegenerate(t *testing.T) {
	if svg := TrackToSVG(nil, 800, 600, "#fff"); svg != "" {
		t.Error("expected empty output for no points")
	}
	if svg := TrackToSVG([]Point{{1, 1}}, 800, 600, "#fff"); svg != "" {
		t.Error("expected empty output for a single point")
	}

	// A stationary track (zero range) must still render without dividing
	// by zero.
	svg := TrackToSVG([]Point{{1, 1}, {1, 1}}, 800, 600, "#fff")
	if svg == "" {
		t.Fatal("expected output for stationary track")
	}
	if strings.Contains(svg, "NaN") {
		t.Error("stationary track produced NaN coordinates")
	}
}

func TestTrackFromHistory(t *testing.T) {
	rows := [][]float64{
		{100, 50, 0, 0, 0, 0},
		{110, 55, 0, 0, 0, 0},
	}

	points := TrackFromHistory(rows)
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	// East maps to X, north to Y.
	if points[0].X != 50 || points[0].Y != 100 {
		t.Errorf("unexpected first point %+v", points[0])
	}
}
