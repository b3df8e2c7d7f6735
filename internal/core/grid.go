package core

import "fmt"

// Grid is the rectangular warehouse floor. Cells hold static content
// only; robots are tracked by the world, not by the grid.
type Grid struct {
	width   int
	height  int
	cells   []CellType
	drop    Point
	hasDrop bool
}

// NewGrid builds an empty grid. Non-positive dimensions are the one
// construction error.
func NewGrid(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("grid %dx%d: %w", width, height, ErrOutOfBounds)
	}
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]CellType, width*height),
	}, nil
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// InBounds reports whether (x,y) lies on the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// CellType returns the content of a cell.
func (g *Grid) CellType(x, y int) (CellType, error) {
	if !g.InBounds(x, y) {
		return Empty, fmt.Errorf("cell (%d,%d): %w", x, y, ErrOutOfBounds)
	}
	return g.cells[y*g.width+x], nil
}

// SetCell overwrites the content of a cell.
func (g *Grid) SetCell(x, y int, t CellType) error {
	if !g.InBounds(x, y) {
		return fmt.Errorf("cell (%d,%d): %w", x, y, ErrOutOfBounds)
	}
	g.cells[y*g.width+x] = t
	return nil
}

// IsTraversable reports whether a robot may occupy (x,y). Out-of-bounds
// cells and active obstacles are not traversable; everything else is.
func (g *Grid) IsTraversable(x, y int) bool {
	if !g.InBounds(x, y) {
		return false
	}
	return !g.cells[y*g.width+x].Blocking()
}

// SetDropPoint moves the shared drop point. The previous drop cell
// reverts to empty. Placing the drop point on a blocked or pickup cell
// fails with ErrCellOccupied.
func (g *Grid) SetDropPoint(x, y int) error {
	if !g.InBounds(x, y) {
		return fmt.Errorf("drop point (%d,%d): %w", x, y, ErrOutOfBounds)
	}
	if t := g.cells[y*g.width+x]; t != Empty && t != Dropoff {
		return fmt.Errorf("drop point (%d,%d) on %s: %w", x, y, t, ErrCellOccupied)
	}
	if g.hasDrop {
		g.cells[g.drop.Y*g.width+g.drop.X] = Empty
	}
	g.drop = Point{X: x, Y: y}
	g.hasDrop = true
	g.cells[y*g.width+x] = Dropoff
	return nil
}

// DropPoint returns the drop point, if one is set.
func (g *Grid) DropPoint() (Point, bool) {
	return g.drop, g.hasDrop
}

// Neighbors returns the in-bounds 4-connected neighbors of (x,y) in a
// fixed order: up, down, left, right. The fixed order keeps every
// search over the grid deterministic.
func (g *Grid) Neighbors(x, y int) []Point {
	out := make([]Point, 0, 4)
	for _, d := range [4]Point{{0, -1}, {0, 1}, {-1, 0}, {1, 0}} {
		nx, ny := x+d.X, y+d.Y
		if g.InBounds(nx, ny) {
			out = append(out, Point{X: nx, Y: ny})
		}
	}
	return out
}

// Resize replaces the grid with an empty one of the new dimensions.
// All cell content, including the drop point, is discarded.
func (g *Grid) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("resize to %dx%d: %w", width, height, ErrOutOfBounds)
	}
	g.width = width
	g.height = height
	g.cells = make([]CellType, width*height)
	g.hasDrop = false
	return nil
}

// Cells returns a copy of the cell contents in row-major order.
func (g *Grid) Cells() []CellType {
	out := make([]CellType, len(g.cells))
	copy(out, g.cells)
	return out
}
