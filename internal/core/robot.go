package core

// Robot is a warehouse robot. Position, load and route are mutated by
// the simulation's controllers; Robot itself only enforces the
// capacity invariant.
type Robot struct {
	ID       RobotID
	Pos      Point
	Capacity int

	// Carrying holds picked items in pickup order. Load is their
	// combined weight and never exceeds Capacity.
	Carrying []*Item
	Load     int

	// Targets are assigned but not yet picked items, in visit order.
	Targets []*Item

	Path    Path
	Steps   int
	Waiting bool
}

// IsIdle reports whether the robot has nothing to do: no route, no
// cargo, no assigned targets.
func (r *Robot) IsIdle() bool {
	return len(r.Path) == 0 && len(r.Carrying) == 0 && len(r.Targets) == 0
}

// IsCarrying reports whether the robot holds at least one item.
func (r *Robot) IsCarrying() bool {
	return len(r.Carrying) > 0
}

// RemainingCapacity returns the weight the robot can still take on.
func (r *Robot) RemainingCapacity() int {
	return r.Capacity - r.Load
}

// PickUp loads an item. The item must fit within remaining capacity;
// otherwise ErrCapacityExceeded is returned and nothing changes.
func (r *Robot) PickUp(it *Item) error {
	if r.Load+it.Weight > r.Capacity {
		return ErrCapacityExceeded
	}
	it.Picked = true
	r.Carrying = append(r.Carrying, it)
	r.Load += it.Weight
	return nil
}

// DropAll unloads every carried item and returns them.
func (r *Robot) DropAll() []*Item {
	dropped := r.Carrying
	r.Carrying = nil
	r.Load = 0
	return dropped
}

// CarryingIDs returns the IDs of carried items in pickup order.
func (r *Robot) CarryingIDs() []ItemID {
	ids := make([]ItemID, len(r.Carrying))
	for i, it := range r.Carrying {
		ids[i] = it.ID
	}
	return ids
}
