// Package draw renders warehouse snapshots with Gio primitives.
package draw

import (
	"image"
	"image/color"

	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"

	"github.com/elektrokombinacija/warehouse-sim/internal/core"
)

// Cell colors
var (
	ColorEmpty         = color.NRGBA{R: 32, G: 35, B: 40, A: 255}
	ColorPermanent     = color.NRGBA{R: 90, G: 90, B: 95, A: 255}
	ColorSemiPermanent = color.NRGBA{R: 140, G: 110, B: 60, A: 255}
	ColorTemporary     = color.NRGBA{R: 190, G: 160, B: 70, A: 255}
	ColorPickup        = color.NRGBA{R: 70, G: 140, B: 80, A: 255}
	ColorDropoff       = color.NRGBA{R: 70, G: 110, B: 190, A: 255}
	ColorShelf         = color.NRGBA{R: 55, G: 60, B: 70, A: 255}
)

// CellColor returns the fill color for a cell type.
func CellColor(t core.CellType) color.NRGBA {
	switch t {
	case core.PermanentObstacle:
		return ColorPermanent
	case core.SemiPermanentObstacle:
		return ColorSemiPermanent
	case core.TemporaryObstacle:
		return ColorTemporary
	case core.Pickup:
		return ColorPickup
	case core.Dropoff:
		return ColorDropoff
	case core.Shelf:
		return ColorShelf
	default:
		return ColorEmpty
	}
}

// Layout maps snapshot cells onto window pixels.
type Layout struct {
	Cell   int // cell edge in pixels
	Origin image.Point
}

// FitGrid computes a layout centering the grid in the given bounds.
func FitGrid(bounds image.Point, width, height int) Layout {
	if width <= 0 || height <= 0 {
		return Layout{Cell: 1}
	}
	cell := bounds.X / width
	if c := bounds.Y / height; c < cell {
		cell = c
	}
	if cell < 1 {
		cell = 1
	}
	return Layout{
		Cell: cell,
		Origin: image.Point{
			X: (bounds.X - cell*width) / 2,
			Y: (bounds.Y - cell*height) / 2,
		},
	}
}

// CellRect returns the pixel rectangle of a cell, inset by one pixel
// so the background shows through as a grid line.
func (l Layout) CellRect(x, y int) image.Rectangle {
	x0 := l.Origin.X + x*l.Cell
	y0 := l.Origin.Y + y*l.Cell
	return image.Rect(x0+1, y0+1, x0+l.Cell-1, y0+l.Cell-1)
}

// CellCenter returns the pixel center of a cell.
func (l Layout) CellCenter(x, y int) image.Point {
	return image.Point{
		X: l.Origin.X + x*l.Cell + l.Cell/2,
		Y: l.Origin.Y + y*l.Cell + l.Cell/2,
	}
}

// CellAt maps a pixel position back to grid coordinates.
func (l Layout) CellAt(px, py float32, width, height int) (int, int, bool) {
	if l.Cell <= 0 {
		return 0, 0, false
	}
	x := (int(px) - l.Origin.X) / l.Cell
	y := (int(py) - l.Origin.Y) / l.Cell
	if x < 0 || x >= width || y < 0 || y >= height {
		return 0, 0, false
	}
	return x, y, true
}

// DrawCells fills every cell of the snapshot.
func DrawCells(gtx layout.Context, snap core.Snapshot, l Layout) {
	for y := 0; y < snap.Height; y++ {
		for x := 0; x < snap.Width; x++ {
			t := snap.Cells[y*snap.Width+x]
			paint.FillShape(gtx.Ops, CellColor(t), clip.Rect(l.CellRect(x, y)).Op())
		}
	}
}
