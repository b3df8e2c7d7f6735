package core

// Item is a deliverable resting on the grid until picked up.
type Item struct {
	ID       ItemID
	Pos      Point
	Weight   int
	Picked   bool
	Assigned bool
}

// IsAvailable reports whether the item can still be claimed: not yet
// picked up and not assigned to any robot.
func (it *Item) IsAvailable() bool {
	return !it.Picked && !it.Assigned
}
