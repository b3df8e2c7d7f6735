// Package core defines the domain models of the warehouse simulation:
// the grid, robots, items, obstacles and the snapshot surface.
package core

// RobotID identifies a robot within a world.
type RobotID int

// ItemID identifies an item within a world.
type ItemID int

// Point is a cell coordinate on the grid.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Manhattan returns the L1 distance between two points.
func Manhattan(a, b Point) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Path is an ordered list of cells to traverse. It excludes the
// current position and ends at the goal.
type Path []Point

// CellType classifies the static content of a grid cell.
type CellType int

const (
	Empty CellType = iota
	PermanentObstacle
	SemiPermanentObstacle
	TemporaryObstacle
	Pickup  // an item rests here
	Dropoff // the shared drop point
	Shelf   // storage rack, traversable
)

func (c CellType) String() string {
	return [...]string{"Empty", "PermanentObstacle", "SemiPermanentObstacle", "TemporaryObstacle", "Pickup", "Dropoff", "Shelf"}[c]
}

// Blocking reports whether the cell type blocks robot movement.
func (c CellType) Blocking() bool {
	switch c {
	case PermanentObstacle, SemiPermanentObstacle, TemporaryObstacle:
		return true
	default:
		return false
	}
}

// ObstacleCategory classifies dynamic obstacles by lifespan.
type ObstacleCategory int

const (
	Temporary     ObstacleCategory = iota // short-lived spill, pallet in transit
	SemiPermanent                         // longer maintenance closure
)

func (c ObstacleCategory) String() string {
	return [...]string{"Temporary", "SemiPermanent"}[c]
}

// Lifetime returns the number of ticks the category stays active.
func (c ObstacleCategory) Lifetime() int {
	switch c {
	case SemiPermanent:
		return 30
	default:
		return 10
	}
}

// CellType returns the grid cell type an active obstacle of this
// category occupies.
func (c ObstacleCategory) CellType() CellType {
	switch c {
	case SemiPermanent:
		return SemiPermanentObstacle
	default:
		return TemporaryObstacle
	}
}

// Obstacle is a dynamic obstacle with a remaining lifetime in ticks.
type Obstacle struct {
	Pos       Point
	Category  ObstacleCategory
	Remaining int
}
