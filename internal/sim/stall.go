package sim

import "github.com/elektrokombinacija/warehouse-sim/internal/core"

// StallPolicy holds the tunables of stall detection.
type StallPolicy struct {
	// SampleEvery is the tick interval between displacement samples.
	SampleEvery int
	// MinDisplacement is the Manhattan distance a busy robot must
	// cover per sample window to count as progressing.
	MinDisplacement int
	// StuckAfter is the accumulated stalled ticks before a replan.
	StuckAfter int
	// ReplanCooldown is the minimum ticks between replans per robot.
	ReplanCooldown int
}

// DefaultStallPolicy matches the tick rate the simulation runs at by
// default.
func DefaultStallPolicy() StallPolicy {
	return StallPolicy{
		SampleEvery:     12,
		MinDisplacement: 2,
		StuckAfter:      36,
		ReplanCooldown:  24,
	}
}

// StallDetector samples robot displacement and flags robots that stop
// making progress despite having work to do. Flagged robots get their
// route replanned, rate-limited by a per-robot cooldown.
type StallDetector struct {
	policy     StallPolicy
	last       map[core.RobotID]core.Point
	stalledFor map[core.RobotID]int
	lastReplan map[core.RobotID]int
}

// NewStallDetector builds a detector with the given policy.
func NewStallDetector(policy StallPolicy) *StallDetector {
	return &StallDetector{
		policy:     policy,
		last:       make(map[core.RobotID]core.Point),
		stalledFor: make(map[core.RobotID]int),
		lastReplan: make(map[core.RobotID]int),
	}
}

// Check samples displacement on its sampling ticks and returns the
// robots due for a replan, in ascending ID order.
func (d *StallDetector) Check(w *core.World, tick int) []core.RobotID {
	if d.policy.SampleEvery <= 0 || tick%d.policy.SampleEvery != 0 {
		return nil
	}

	var due []core.RobotID
	for _, r := range w.Robots {
		prev, seen := d.last[r.ID]
		d.last[r.ID] = r.Pos

		if !seen || r.IsIdle() {
			d.stalledFor[r.ID] = 0
			continue
		}
		if core.Manhattan(prev, r.Pos) >= d.policy.MinDisplacement {
			d.stalledFor[r.ID] = 0
			continue
		}

		d.stalledFor[r.ID] += d.policy.SampleEvery
		if d.stalledFor[r.ID] < d.policy.StuckAfter {
			continue
		}
		if last, ok := d.lastReplan[r.ID]; ok && tick-last < d.policy.ReplanCooldown {
			continue
		}
		due = append(due, r.ID)
		d.lastReplan[r.ID] = tick
		d.stalledFor[r.ID] = 0
	}
	return due
}

// Reset clears all sampling history.
func (d *StallDetector) Reset() {
	d.last = make(map[core.RobotID]core.Point)
	d.stalledFor = make(map[core.RobotID]int)
	d.lastReplan = make(map[core.RobotID]int)
}
