package sim

import "time"

// Tracker receives movement and delivery counts from the controller.
// Implementations must tolerate n == 0.
type Tracker interface {
	OnSteps(n int)
	OnItemsDelivered(n int)
}

// NopTracker discards all metrics.
type NopTracker struct{}

func (NopTracker) OnSteps(int)          {}
func (NopTracker) OnItemsDelivered(int) {}

// PerformanceTracker accumulates run statistics. It is not safe for
// concurrent use; the tick loop is single-threaded and the server
// serializes access behind its own lock.
type PerformanceTracker struct {
	start     time.Time
	Steps     int
	Delivered int
}

// NewPerformanceTracker starts the clock.
func NewPerformanceTracker() *PerformanceTracker {
	return &PerformanceTracker{start: time.Now()}
}

func (t *PerformanceTracker) OnSteps(n int)          { t.Steps += n }
func (t *PerformanceTracker) OnItemsDelivered(n int) { t.Delivered += n }

// Stats summarizes a run for reports and the status endpoint.
type Stats struct {
	Elapsed      time.Duration `json:"elapsed"`
	Steps        int           `json:"steps"`
	Delivered    int           `json:"delivered"`
	StepsPerItem float64       `json:"steps_per_item"`
	ItemsPerMin  float64       `json:"items_per_minute"`
}

// Stats returns the current summary.
func (t *PerformanceTracker) Stats() Stats {
	s := Stats{
		Elapsed:   time.Since(t.start),
		Steps:     t.Steps,
		Delivered: t.Delivered,
	}
	if t.Delivered > 0 {
		s.StepsPerItem = float64(t.Steps) / float64(t.Delivered)
	}
	if mins := s.Elapsed.Minutes(); mins > 0 {
		s.ItemsPerMin = float64(t.Delivered) / mins
	}
	return s
}

// Reset restarts the clock and zeroes the counters.
func (t *PerformanceTracker) Reset() {
	t.start = time.Now()
	t.Steps = 0
	t.Delivered = 0
}
