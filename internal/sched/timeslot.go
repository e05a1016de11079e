// internal/sched/timeslot.go

package sched

import (
	"sync/atomic"
)

// slot is one fixed-capacity position in the major cycle.
type slot struct {
	tasks []Task
	count int
}

// TimeSlotScheduler divides a repeating major cycle into a fixed number of
// equal-duration slots, each holding a bounded list of tasks. Every elapsed
// slot duration, Run executes the current slot's tasks and rotates to the
// next slot.
//
// Tick shares the CyclicExecutive contract: one atomic increment, nothing
// else, safe from a timer goroutine. Everything else is main-loop only.
type TimeSlotScheduler struct {
	slots        []slot
	slotDuration uint32
	currentSlot  int
	lastSlotTime uint32 // counter value at the previous slot transition
	now          atomic.Uint32
	observer     func(Event)
}

// NewTimeSlotScheduler creates a scheduler with slotsPerCycle slots of
// maxTasksPerSlot tasks each, advancing one slot per slotDurationMs
// milliseconds. All slot storage is allocated here.
func NewTimeSlotScheduler(slotsPerCycle, maxTasksPerSlot int, slotDurationMs uint32) *TimeSlotScheduler {
	if slotsPerCycle < 1 {
		slotsPerCycle = 1
	}
	if maxTasksPerSlot < 1 {
		maxTasksPerSlot = 1
	}
	if slotDurationMs < 1 {
		slotDurationMs = 1
	}
	slots := make([]slot, slotsPerCycle)
	for i := range slots {
		slots[i].tasks = make([]Task, maxTasksPerSlot)
	}
	return &TimeSlotScheduler{
		slots:        slots,
		slotDuration: slotDurationMs,
	}
}

// AddTaskToSlot binds a task to one slot of the cycle. It returns false for
// an out-of-range slot index or a full slot, mutating nothing.
func (ts *TimeSlotScheduler) AddTaskToSlot(slotIndex int, t Task) bool {
	if slotIndex < 0 || slotIndex >= len(ts.slots) {
		return false
	}
	s := &ts.slots[slotIndex]
	if s.count >= len(s.tasks) {
		return false
	}
	s.tasks[s.count] = t
	s.count++
	return true
}

// Tick advances time by one millisecond. Same contract as
// CyclicExecutive.Tick.
func (ts *TimeSlotScheduler) Tick() {
	ts.now.Add(1)
}

// Run performs at most one slot transition: when a full slot duration has
// elapsed since the previous transition, it executes every task in the
// current slot in insertion order, then advances to the next slot and
// restarts the slot timer.
//
// Skipped durations are never caught up — if Run is called less often than
// the slot duration, slots are visited late and their relative schedule
// silently shifts. That trade keeps the rotation deterministic.
func (ts *TimeSlotScheduler) Run() {
	now := ts.now.Load()
	if now-ts.lastSlotTime < ts.slotDuration {
		return
	}

	s := &ts.slots[ts.currentSlot]
	for i := 0; i < s.count; i++ {
		s.tasks[i].Run()
		if ts.observer != nil {
			ts.observer(Event{
				Kind:   KindDispatch,
				TimeMs: now,
				Task:   s.tasks[i].Name(),
				Slot:   ts.currentSlot,
			})
		}
	}

	ts.currentSlot = (ts.currentSlot + 1) % len(ts.slots)
	ts.lastSlotTime = now
	if ts.observer != nil {
		ts.observer(Event{
			Kind:   KindSlotAdvance,
			TimeMs: now,
			Slot:   ts.currentSlot,
		})
	}
}

// SetObserver installs a dispatch observer, invoked from Run. Main-loop
// context only.
func (ts *TimeSlotScheduler) SetObserver(fn func(Event)) {
	ts.observer = fn
}

// CurrentSlot returns the slot the next transition will execute.
func (ts *TimeSlotScheduler) CurrentSlot() int {
	return ts.currentSlot
}

// CurrentTimeMs returns the tick counter.
func (ts *TimeSlotScheduler) CurrentTimeMs() uint32 {
	return ts.now.Load()
}

// SlotCount returns the number of slots in the major cycle.
func (ts *TimeSlotScheduler) SlotCount() int {
	return len(ts.slots)
}

// SlotTaskCount returns how many tasks are bound to the given slot, or 0
// for an out-of-range index.
func (ts *TimeSlotScheduler) SlotTaskCount(slotIndex int) int {
	if slotIndex < 0 || slotIndex >= len(ts.slots) {
		return 0
	}
	return ts.slots[slotIndex].count
}

// SetTimeMs overrides the tick counter. Test setup only.
func (ts *TimeSlotScheduler) SetTimeMs(ms uint32) {
	ts.now.Store(ms)
}
