// internal/sched/event.go

package sched

// EventKind represents the type of scheduler event.
type EventKind int

const (
	KindDispatch EventKind = iota
	KindSlotAdvance
)

// Event is emitted to an installed observer on every task dispatch and, for
// the time-slot scheduler, on every slot transition. Observers run in
// main-loop context as part of Run.
type Event struct {
	Kind     EventKind
	TimeMs   uint32 // tick counter at dispatch
	Task     string // empty for slot-advance events
	Slot     int    // 0 for cyclic-executive events
	RunCount uint32 // cumulative runs of the task, cyclic executive only
}

func (k EventKind) String() string {
	switch k {
	case KindDispatch:
		return "Dispatch"
	case KindSlotAdvance:
		return "SlotAdvance"
	default:
		return "Unknown"
	}
}
