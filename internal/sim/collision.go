package sim

import (
	"sort"

	"github.com/elektrokombinacija/warehouse-sim/internal/core"
)

// stuckMargin is the stuck-time gap required before the stuck-time rule
// outranks the remaining-path rule.
const stuckMargin = 5

// CollisionResolver decides which robots yield when several propose the
// same next cell. It is stateless; stuck times are owned by the
// movement controller.
type CollisionResolver struct{}

// Resolve returns the set of robots that skip this tick. Priority rules
// apply pairwise, in order:
//
//  1. a carrying robot beats an empty one
//  2. with a stuck-time gap above stuckMargin, the longer-stuck wins
//  3. the longer remaining path wins; exact ties yield the robot
//     whose turn is being resolved
//
// Robots are visited in ascending ID order and robots already yielding
// are not compared again, so resolution is deterministic and every
// contested cell keeps exactly one mover.
func (CollisionResolver) Resolve(w *core.World, proposed map[core.RobotID]core.Point, stuck map[core.RobotID]int) map[core.RobotID]bool {
	ids := make([]core.RobotID, 0, len(proposed))
	for id := range proposed {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	skip := make(map[core.RobotID]bool)

	for _, id := range ids {
		if skip[id] {
			continue
		}
		pos := proposed[id]
		for _, other := range ids {
			if other == id || skip[other] || proposed[other] != pos {
				continue
			}
			applyPriorities(w.RobotByID(id), w.RobotByID(other), stuck, skip)
			if skip[id] {
				break
			}
		}
	}
	return skip
}

func applyPriorities(a, b *core.Robot, stuck map[core.RobotID]int, skip map[core.RobotID]bool) {
	// Rule 1: cargo has priority.
	if a.IsCarrying() && !b.IsCarrying() {
		skip[b.ID] = true
		return
	}
	if b.IsCarrying() && !a.IsCarrying() {
		skip[a.ID] = true
		return
	}

	// Rule 2: significantly longer-stuck robot has priority.
	sa, sb := stuck[a.ID], stuck[b.ID]
	if diff := sa - sb; diff > stuckMargin || diff < -stuckMargin {
		if sa > sb {
			skip[b.ID] = true
		} else {
			skip[a.ID] = true
		}
		return
	}

	// Rule 3: longer remaining path has priority; a yields on a tie.
	if len(a.Path) > len(b.Path) {
		skip[b.ID] = true
	} else {
		skip[a.ID] = true
	}
}
