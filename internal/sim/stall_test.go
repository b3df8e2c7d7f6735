package sim

import (
	"testing"

	"github.com/elektrokombinacija/warehouse-sim/internal/core"
)

func stallPolicy() StallPolicy {
	return StallPolicy{
		SampleEvery:     2,
		MinDisplacement: 2,
		StuckAfter:      4,
		ReplanCooldown:  6,
	}
}

// busyRobot has a path so the detector treats it as having work to do.
func busyRobot(id core.RobotID, pos core.Point) *core.Robot {
	return &core.Robot{ID: id, Pos: pos, Capacity: 10, Path: core.Path{{X: 9, Y: 9}}}
}

func TestStallDetectorFlagsStuckRobot(t *testing.T) {
	w := collisionWorld(t, busyRobot(0, core.Point{X: 3, Y: 3}))
	d := NewStallDetector(stallPolicy())

	// First sample only records the position.
	if due := d.Check(w, 0); len(due) != 0 {
		t.Fatalf("tick 0: due = %v, want none", due)
	}
	if due := d.Check(w, 2); len(due) != 0 {
		t.Fatalf("tick 2: due = %v, stall threshold not reached yet", due)
	}
	due := d.Check(w, 4)
	if len(due) != 1 || due[0] != 0 {
		t.Fatalf("tick 4: due = %v, want [0]", due)
	}
}

func TestStallDetectorCooldown(t *testing.T) {
	w := collisionWorld(t, busyRobot(0, core.Point{X: 3, Y: 3}))
	d := NewStallDetector(stallPolicy())

	d.Check(w, 0)
	d.Check(w, 2)
	if due := d.Check(w, 4); len(due) != 1 {
		t.Fatalf("tick 4: due = %v, want the stuck robot", due)
	}

	// Stalled again immediately, but inside the cooldown window.
	d.Check(w, 6)
	if due := d.Check(w, 8); len(due) != 0 {
		t.Fatalf("tick 8: due = %v, cooldown should suppress the replan", due)
	}
	if due := d.Check(w, 10); len(due) != 1 {
		t.Fatalf("tick 10: due = %v, cooldown elapsed", due)
	}
}

func TestStallDetectorIgnoresIdle(t *testing.T) {
	idle := &core.Robot{ID: 0, Pos: core.Point{X: 3, Y: 3}, Capacity: 10}
	w := collisionWorld(t, idle)
	d := NewStallDetector(stallPolicy())

	for tick := 0; tick <= 20; tick += 2 {
		if due := d.Check(w, tick); len(due) != 0 {
			t.Fatalf("tick %d: idle robot flagged", tick)
		}
	}
}

func TestStallDetectorMovingRobotNotFlagged(t *testing.T) {
	r := busyRobot(0, core.Point{X: 0, Y: 0})
	w := collisionWorld(t, r)
	d := NewStallDetector(stallPolicy())

	for tick := 0; tick <= 20; tick += 2 {
		if due := d.Check(w, tick); len(due) != 0 {
			t.Fatalf("tick %d: progressing robot flagged", tick)
		}
		r.Pos.X += 2
	}
}

func TestStallDetectorSamplesOnScheduleOnly(t *testing.T) {
	w := collisionWorld(t, busyRobot(0, core.Point{X: 3, Y: 3}))
	d := NewStallDetector(stallPolicy())

	for tick := 0; tick < 40; tick++ {
		if tick%2 == 0 {
			d.Check(w, tick)
			continue
		}
		if due := d.Check(w, tick); due != nil {
			t.Fatalf("tick %d: off-schedule check returned %v", tick, due)
		}
	}
}

func TestStallDetectorReset(t *testing.T) {
	w := collisionWorld(t, busyRobot(0, core.Point{X: 3, Y: 3}))
	d := NewStallDetector(stallPolicy())

	d.Check(w, 0)
	d.Check(w, 2)
	d.Reset()

	// History gone: the next sample is a first sighting again.
	if due := d.Check(w, 4); len(due) != 0 {
		t.Fatalf("due = %v after reset, want none", due)
	}
	if due := d.Check(w, 6); len(due) != 0 {
		t.Fatalf("due = %v one sample after reset, want none", due)
	}
}
