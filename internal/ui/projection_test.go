package ui

import (
	"math"
	"testing"

	"github.com/five82/pinmap/internal/config"
)

func TestProjection_CellCoordRoundTrip(t *testing.T) {
	p := newProjection(config.DefaultMapView, 80, 24)

	for row := 0; row < p.height; row++ {
		for col := 0; col < p.width; col++ {
			lat, lng := p.coord(col, row)
			gotCol, gotRow, ok := p.cell(lat, lng)
			if !ok || gotCol != col || gotRow != row {
				t.Fatalf("cell(coord(%d,%d)) = (%d,%d,%v), want (%d,%d,true)", col, row, gotCol, gotRow, ok, col, row)
			}
		}
	}
}

func TestProjection_CenterIsMidCell(t *testing.T) {
	p := newProjection(config.DefaultMapView, 81, 25)
	lat, lng := p.coord(p.midCol(), p.midRow())
	if math.Abs(lat-51.505) > 1e-9 || math.Abs(lng+0.09) > 1e-9 {
		t.Fatalf("coord(mid) = %v,%v, want 51.505,-0.09", lat, lng)
	}
}

func TestProjection_OffscreenCell(t *testing.T) {
	p := newProjection(config.DefaultMapView, 80, 24)
	if _, _, ok := p.cell(-33.86, 151.2); ok {
		t.Fatalf("Sydney should be off screen at zoom %d", p.zoom)
	}
}

func TestProjection_PanAndZoom(t *testing.T) {
	p := newProjection(config.DefaultMapView, 80, 24)

	moved := p.pan(10, -4)
	if got, want := moved.centerLng-p.centerLng, 10*p.degPerCol(); math.Abs(got-want) > 1e-9 {
		t.Fatalf("pan lng delta = %v, want %v", got, want)
	}
	if got, want := moved.centerLat-p.centerLat, 4*p.degPerRow(); math.Abs(got-want) > 1e-9 {
		t.Fatalf("pan lat delta = %v, want %v", got, want)
	}

	if got := p.zoomBy(100).zoom; got != config.MaxZoom {
		t.Fatalf("zoomBy(100) = %d, want %d", got, config.MaxZoom)
	}
	if got := p.zoomBy(-100).zoom; got != config.MinZoom {
		t.Fatalf("zoomBy(-100) = %d, want %d", got, config.MinZoom)
	}
	if p.zoomBy(1).degPerCol() >= p.degPerCol() {
		t.Fatalf("zooming in should shrink degrees per cell")
	}
}

func TestWrapLngAndClampLat(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{179.5, 179.5},
		{180, -180},
		{-190, 170},
		{540, -180},
	}
	for _, tc := range cases {
		if got := wrapLng(tc.in); math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("wrapLng(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
	if got := clampLat(95); got != 90 {
		t.Fatalf("clampLat(95) = %v, want 90", got)
	}
	if got := clampLat(-91); got != -90 {
		t.Fatalf("clampLat(-91) = %v, want -90", got)
	}
}
