package core

import (
	"errors"
	"testing"
)

func TestPickUpEnforcesCapacity(t *testing.T) {
	r := &Robot{ID: 0, Capacity: 10}
	heavy := &Item{ID: 1, Weight: 11}

	if err := r.PickUp(heavy); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("PickUp over capacity err = %v, want ErrCapacityExceeded", err)
	}
	if heavy.Picked || r.Load != 0 || len(r.Carrying) != 0 {
		t.Error("failed pickup mutated state")
	}

	a := &Item{ID: 2, Weight: 6}
	b := &Item{ID: 3, Weight: 4}
	if err := r.PickUp(a); err != nil {
		t.Fatalf("PickUp a: %v", err)
	}
	if err := r.PickUp(b); err != nil {
		t.Fatalf("PickUp b: %v", err)
	}
	if r.Load != 10 {
		t.Errorf("Load = %d, want 10", r.Load)
	}
	if err := r.PickUp(&Item{ID: 4, Weight: 1}); !errors.Is(err, ErrCapacityExceeded) {
		t.Errorf("PickUp at full capacity err = %v, want ErrCapacityExceeded", err)
	}
}

func TestDropAll(t *testing.T) {
	r := &Robot{ID: 0, Capacity: 20}
	r.PickUp(&Item{ID: 1, Weight: 5})
	r.PickUp(&Item{ID: 2, Weight: 7})

	dropped := r.DropAll()
	if len(dropped) != 2 {
		t.Fatalf("DropAll returned %d items, want 2", len(dropped))
	}
	if r.Load != 0 || r.IsCarrying() {
		t.Error("robot still loaded after DropAll")
	}
}

func TestIsIdle(t *testing.T) {
	r := &Robot{ID: 0, Capacity: 10}
	if !r.IsIdle() {
		t.Error("fresh robot should be idle")
	}
	r.Path = Path{{1, 0}}
	if r.IsIdle() {
		t.Error("robot with path should not be idle")
	}
	r.Path = nil
	r.Targets = []*Item{{ID: 1}}
	if r.IsIdle() {
		t.Error("robot with targets should not be idle")
	}
	r.Targets = nil
	r.PickUp(&Item{ID: 2, Weight: 1})
	if r.IsIdle() {
		t.Error("carrying robot should not be idle")
	}
}

func TestItemIsAvailable(t *testing.T) {
	it := &Item{ID: 1}
	if !it.IsAvailable() {
		t.Error("fresh item should be available")
	}
	it.Assigned = true
	if it.IsAvailable() {
		t.Error("assigned item should not be available")
	}
	it.Assigned = false
	it.Picked = true
	if it.IsAvailable() {
		t.Error("picked item should not be available")
	}
}
