package ui

import (
	"math"

	"github.com/five82/pinmap/internal/config"
)

// cellsPerTile sets how many terminal columns span one web-map tile width.
const cellsPerTile = 64

// projection maps terminal cells to geographic coordinates with an
// equirectangular grid centred on the viewport. Rows cover twice the degrees
// of columns because terminal cells are roughly twice as tall as wide.
type projection struct {
	centerLat float64
	centerLng float64
	zoom      int
	width     int
	height    int
}

func newProjection(view config.MapView, width, height int) projection {
	return projection{
		centerLat: clampLat(view.CenterLat),
		centerLng: wrapLng(view.CenterLng),
		zoom:      config.ClampZoom(view.Zoom),
		width:     max(width, 1),
		height:    max(height, 1),
	}
}

func (p projection) view() config.MapView {
	return config.MapView{CenterLat: p.centerLat, CenterLng: p.centerLng, Zoom: p.zoom}
}

func (p projection) degPerCol() float64 {
	return 360 / (math.Exp2(float64(p.zoom)) * cellsPerTile)
}

func (p projection) degPerRow() float64 {
	return 2 * p.degPerCol()
}

func (p projection) midCol() int { return p.width / 2 }
func (p projection) midRow() int { return p.height / 2 }

// coord returns the coordinate under the given cell.
func (p projection) coord(col, row int) (lat, lng float64) {
	lat = p.centerLat + float64(p.midRow()-row)*p.degPerRow()
	lng = p.centerLng + float64(col-p.midCol())*p.degPerCol()
	return clampLat(lat), wrapLng(lng)
}

// cell returns the cell containing the coordinate and whether it is on screen.
func (p projection) cell(lat, lng float64) (col, row int, ok bool) {
	dLng := wrapLng(lng - p.centerLng)
	dLat := lat - p.centerLat
	col = p.midCol() + int(math.Round(dLng/p.degPerCol()))
	row = p.midRow() - int(math.Round(dLat/p.degPerRow()))
	ok = col >= 0 && col < p.width && row >= 0 && row < p.height
	return col, row, ok
}

// pan shifts the centre by whole cells.
func (p projection) pan(cols, rows int) projection {
	p.centerLng = wrapLng(p.centerLng + float64(cols)*p.degPerCol())
	p.centerLat = clampLat(p.centerLat - float64(rows)*p.degPerRow())
	return p
}

func (p projection) zoomBy(delta int) projection {
	p.zoom = config.ClampZoom(p.zoom + delta)
	return p
}

func (p projection) centerOn(lat, lng float64) projection {
	p.centerLat = clampLat(lat)
	p.centerLng = wrapLng(lng)
	return p
}

func (p projection) resize(width, height int) projection {
	p.width = max(width, 1)
	p.height = max(height, 1)
	return p
}

func clampLat(lat float64) float64 {
	return math.Max(-90, math.Min(90, lat))
}

// wrapLng normalises a longitude into [-180, 180).
func wrapLng(lng float64) float64 {
	w := math.Mod(lng+180, 360)
	if w < 0 {
		w += 360
	}
	return w - 180
}
