// internal/sched/cyclic.go

package sched

import (
	"sync/atomic"
)

// taskEntry pairs a registered task with its timing state.
type taskEntry struct {
	task     Task
	periodMs uint32
	lastRun  uint32 // counter value at the previous dispatch
	runCount uint32
}

// CyclicExecutive is a time-triggered cooperative scheduler: a bounded,
// append-only registry of (task, period) pairs dispatched from a single
// main loop, with time advanced one millisecond per Tick.
//
// Tick is the only method safe to call from interrupt-like context (a timer
// goroutine); it touches nothing but the atomic counter. AddTask, Run and
// the accessors belong to the main loop and must not race with each other.
type CyclicExecutive struct {
	entries  []taskEntry // fixed backing array, never grows
	count    int
	now      atomic.Uint32
	observer func(Event)
}

// NewCyclicExecutive creates a scheduler holding at most capacity tasks.
// The registry is allocated once here; nothing allocates after this.
func NewCyclicExecutive(capacity int) *CyclicExecutive {
	if capacity < 1 {
		capacity = 1
	}
	return &CyclicExecutive{
		entries: make([]taskEntry, capacity),
	}
}

// AddTask registers a task to run every periodMs milliseconds. It returns
// false, without mutating anything, when the registry is full. Registration
// order is dispatch order and there is no removal.
//
// periodMs == 0 makes the task eligible on every dispatch pass.
func (ce *CyclicExecutive) AddTask(t Task, periodMs uint32) bool {
	if ce.count >= len(ce.entries) {
		return false
	}
	ce.entries[ce.count] = taskEntry{
		task:     t,
		periodMs: periodMs,
	}
	ce.count++
	return true
}

// Tick advances time by one millisecond. Call it at a fixed 1 ms cadence;
// it performs a single atomic increment and nothing else.
func (ce *CyclicExecutive) Tick() {
	ce.now.Add(1)
}

// Run executes one dispatch pass: every entry whose period has elapsed runs
// exactly once, in registration order. A task's lastRun snaps to the current
// counter, so a pass fires a due task once no matter how many periods went
// by since its previous run — callers wanting full-rate dispatch must call
// Run at least as often as the shortest registered period.
func (ce *CyclicExecutive) Run() {
	now := ce.now.Load()
	for i := 0; i < ce.count; i++ {
		e := &ce.entries[i]
		// Unsigned subtraction keeps elapsed correct across counter wrap.
		if now-e.lastRun >= e.periodMs {
			e.task.Run()
			e.lastRun = now
			e.runCount++
			if ce.observer != nil {
				ce.observer(Event{
					Kind:     KindDispatch,
					TimeMs:   now,
					Task:     e.task.Name(),
					RunCount: e.runCount,
				})
			}
		}
	}
}

// SetObserver installs a dispatch observer, invoked from Run for every task
// execution. Install it before the clock starts; it runs in main-loop
// context, never from Tick.
func (ce *CyclicExecutive) SetObserver(fn func(Event)) {
	ce.observer = fn
}

// CurrentTimeMs returns the tick counter.
func (ce *CyclicExecutive) CurrentTimeMs() uint32 {
	return ce.now.Load()
}

// TaskCount returns how many tasks are registered.
func (ce *CyclicExecutive) TaskCount() int {
	return ce.count
}

// TaskRunCount returns how often the task at the given registration index
// has run, or 0 for an out-of-range index.
func (ce *CyclicExecutive) TaskRunCount(index int) uint32 {
	if index < 0 || index >= ce.count {
		return 0
	}
	return ce.entries[index].runCount
}

// SetTimeMs overrides the tick counter. Test setup only; it bypasses Tick.
func (ce *CyclicExecutive) SetTimeMs(ms uint32) {
	ce.now.Store(ms)
}
