// Package analysis provides the offline schedulability checks a cyclic
// executive needs before deployment: the engine itself never verifies at
// runtime that task execution times fit their periods, so the budget has to
// be established up front.
package analysis

import (
	"github.com/emirpasic/gods/trees/redblacktree"
)

// TaskSpec describes one periodic task for analysis purposes.
type TaskSpec struct {
	Name     string
	PeriodMs uint32
	WCETUs   uint32 // worst-case execution time, microseconds
}

// Dispatch is one predicted task release.
type Dispatch struct {
	TimeMs uint32
	Task   string
}

// Utilization returns the fraction of the shortest period consumed when
// every task runs once: sum of WCETs over the minimum period. A dispatch
// pass invoked once per shortest period can fall behind when this exceeds 1.
func Utilization(specs []TaskSpec) float64 {
	if len(specs) == 0 {
		return 0
	}
	var sumUs uint64
	minPeriod := uint32(0)
	for _, s := range specs {
		sumUs += uint64(s.WCETUs)
		if s.PeriodMs == 0 {
			continue
		}
		if minPeriod == 0 || s.PeriodMs < minPeriod {
			minPeriod = s.PeriodMs
		}
	}
	if minPeriod == 0 {
		// Only period-0 tasks: every pass runs everything, so the budget
		// is the tick itself.
		minPeriod = 1
	}
	return float64(sumUs) / (float64(minPeriod) * 1000.0)
}

// Feasible reports whether the task set fits its timing budget.
func Feasible(specs []TaskSpec) bool {
	return Utilization(specs) <= 1.0
}

// releaseKey orders the tree by next release time, with the spec index as
// tie breaker so simultaneous releases keep registration order.
type releaseKey struct {
	timeMs uint32
	index  int
}

func releaseCmp(a, b any) int {
	ka, kb := a.(releaseKey), b.(releaseKey)
	switch {
	case ka.timeMs < kb.timeMs:
		return -1
	case ka.timeMs > kb.timeMs:
		return 1
	case ka.index < kb.index:
		return -1
	case ka.index > kb.index:
		return 1
	default:
		return 0
	}
}

// Timeline predicts the release sequence over the given horizon, assuming a
// dispatch pass at least once per shortest period (so no releases coalesce).
// Period-0 tasks are excluded: they release on every pass and would flood
// the preview without saying anything about the schedule.
func Timeline(specs []TaskSpec, horizonMs uint32) []Dispatch {
	tree := redblacktree.NewWith(releaseCmp)
	for i, s := range specs {
		if s.PeriodMs == 0 {
			continue
		}
		tree.Put(releaseKey{s.PeriodMs, i}, s)
	}

	var out []Dispatch
	for tree.Size() > 0 {
		node := tree.Left()
		key := node.Key.(releaseKey)
		if key.timeMs > horizonMs {
			break
		}
		spec := node.Value.(TaskSpec)
		tree.Remove(key)

		out = append(out, Dispatch{TimeMs: key.timeMs, Task: spec.Name})
		tree.Put(releaseKey{key.timeMs + spec.PeriodMs, key.index}, spec)
	}
	return out
}
