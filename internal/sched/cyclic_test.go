package sched

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// countTask records how often it ran and, optionally, appends its name to a
// shared order log.
type countTask struct {
	name  string
	count int
	order *[]string
}

func (t *countTask) Run() {
	t.count++
	if t.order != nil {
		*t.order = append(*t.order, t.name)
	}
}

func (t *countTask) Name() string { return t.name }

func advance(tk Ticker, n int) {
	for i := 0; i < n; i++ {
		tk.Tick()
	}
}

func TestCyclicExecutive_AddTask(t *testing.T) {
	ce := NewCyclicExecutive(8)
	require.True(t, ce.AddTask(&countTask{name: "fast"}, 10))
	require.Equal(t, 1, ce.TaskCount())
}

func TestCyclicExecutive_RejectsWhenFull(t *testing.T) {
	ce := NewCyclicExecutive(2)
	require.True(t, ce.AddTask(&countTask{name: "t1"}, 10))
	require.True(t, ce.AddTask(&countTask{name: "t2"}, 20))
	require.False(t, ce.AddTask(&countTask{name: "t3"}, 30))
	// A rejected registration mutates nothing.
	require.Equal(t, 2, ce.TaskCount())
}

func TestCyclicExecutive_TaskNotRunBeforePeriod(t *testing.T) {
	ce := NewCyclicExecutive(8)
	task := &countTask{name: "fast"}
	ce.AddTask(task, 10)

	advance(ce, 9)
	ce.Run()

	require.Equal(t, 0, task.count)
	require.Equal(t, uint32(0), ce.TaskRunCount(0))
}

func TestCyclicExecutive_TaskRunsAtPeriod(t *testing.T) {
	ce := NewCyclicExecutive(8)
	task := &countTask{name: "fast"}
	ce.AddTask(task, 10)

	advance(ce, 10)
	ce.Run()

	require.Equal(t, 1, task.count)
	require.Equal(t, uint32(1), ce.TaskRunCount(0))
}

// One dispatch pass fires a due task exactly once, no matter how many
// multiples of its period elapsed since its previous run. This pins the
// chosen catch-up semantics; the run-after-every-tick convention below is
// the rejected alternative's counterpart.
func TestCyclicExecutive_SingleDispatchAfterLongGap(t *testing.T) {
	ce := NewCyclicExecutive(8)
	fast := &countTask{name: "fast"}
	slow := &countTask{name: "slow"}
	ce.AddTask(fast, 10)
	ce.AddTask(slow, 25)

	advance(ce, 50)
	ce.Run()

	// Not floor(50/10)=5 and floor(50/25)=2: one firing each.
	require.Equal(t, 1, fast.count)
	require.Equal(t, 1, slow.count)

	// The elapsed window restarts at the pass time, not at a period multiple.
	advance(ce, 9)
	ce.Run()
	require.Equal(t, 1, fast.count)
	advance(ce, 1)
	ce.Run()
	require.Equal(t, 2, fast.count)
}

// Driving Run after every Tick recovers full-rate dispatch: 5 firings for a
// 10 ms task and 2 for a 25 ms task by time 50.
func TestCyclicExecutive_RunEveryTickAccumulates(t *testing.T) {
	ce := NewCyclicExecutive(8)
	fast := &countTask{name: "fast"}
	slow := &countTask{name: "slow"}
	ce.AddTask(fast, 10)
	ce.AddTask(slow, 25)

	for i := 0; i < 50; i++ {
		ce.Tick()
		ce.Run()
	}

	require.Equal(t, 5, fast.count)
	require.Equal(t, 2, slow.count)
}

func TestCyclicExecutive_ZeroPeriodRunsEveryPass(t *testing.T) {
	ce := NewCyclicExecutive(8)
	task := &countTask{name: "every"}
	ce.AddTask(task, 0)

	ce.Run()
	ce.Run()
	ce.Run()

	require.Equal(t, 3, task.count)
}

func TestCyclicExecutive_IdempotentWithoutTick(t *testing.T) {
	ce := NewCyclicExecutive(8)
	task := &countTask{name: "fast"}
	ce.AddTask(task, 10)

	advance(ce, 10)
	ce.Run()
	ce.Run()

	require.Equal(t, 1, task.count)
}

func TestCyclicExecutive_DispatchInRegistrationOrder(t *testing.T) {
	var order []string
	ce := NewCyclicExecutive(8)
	ce.AddTask(&countTask{name: "a", order: &order}, 20)
	ce.AddTask(&countTask{name: "b", order: &order}, 10)
	ce.AddTask(&countTask{name: "c", order: &order}, 30)

	advance(ce, 30)
	ce.Run()

	// All three are due; registration order wins, not period order.
	require.Equal(t, []string{"a", "b", "c"}, order)
}

func TestCyclicExecutive_CounterWraparound(t *testing.T) {
	ce := NewCyclicExecutive(8)
	task := &countTask{name: "fast"}
	ce.AddTask(task, 10)

	ce.SetTimeMs(^uint32(0) - 4)
	ce.Run() // elapsed since lastRun=0 is huge, fires once
	require.Equal(t, 1, task.count)

	// 10 more ticks cross the uint32 boundary; modular subtraction must
	// still see elapsed == 10.
	advance(ce, 10)
	require.Equal(t, uint32(5), ce.CurrentTimeMs())
	ce.Run()
	require.Equal(t, 2, task.count)
}

func TestCyclicExecutive_Accessors(t *testing.T) {
	ce := NewCyclicExecutive(3)
	require.Equal(t, uint32(0), ce.CurrentTimeMs())
	require.Equal(t, 0, ce.TaskCount())
	require.Equal(t, uint32(0), ce.TaskRunCount(0))
	require.Equal(t, uint32(0), ce.TaskRunCount(-1))

	ce.SetTimeMs(123)
	require.Equal(t, uint32(123), ce.CurrentTimeMs())
}

func TestCyclicExecutive_CapacityClamped(t *testing.T) {
	ce := NewCyclicExecutive(0)
	require.True(t, ce.AddTask(&countTask{name: "only"}, 10))
	require.False(t, ce.AddTask(&countTask{name: "extra"}, 10))
}

// tickingTask simulates a long-running task by consuming scheduler time
// inside Run.
type tickingTask struct {
	name  string
	sched *CyclicExecutive
	cost  int
}

func (t *tickingTask) Run() { advance(t.sched, t.cost) }
func (t *tickingTask) Name() string { return t.name }

// snapshotTask records the scheduler time at which it actually executed.
type snapshotTask struct {
	name  string
	sched *CyclicExecutive
	ranAt []uint32
}

func (t *snapshotTask) Run() { t.ranAt = append(t.ranAt, t.sched.CurrentTimeMs()) }
func (t *snapshotTask) Name() string { return t.name }

// A task that overruns its budget is never detected; it silently delays
// every task after it in the pass. This documents the limitation rather
// than patching it.
func TestCyclicExecutive_LongTaskDelaysSuccessors(t *testing.T) {
	ce := NewCyclicExecutive(8)
	hog := &tickingTask{name: "hog", sched: ce, cost: 30}
	late := &snapshotTask{name: "late", sched: ce}
	require.True(t, ce.AddTask(hog, 10))
	require.True(t, ce.AddTask(late, 10))

	advance(ce, 10)
	ce.Run()

	// "late" was due at 10 but only executed after the hog burned 30 ms.
	require.Equal(t, []uint32{40}, late.ranAt)
	// The scheduler reports nothing unusual.
	require.Equal(t, uint32(1), ce.TaskRunCount(0))
	require.Equal(t, uint32(1), ce.TaskRunCount(1))
}

func TestCyclicExecutive_ObserverSeesDispatches(t *testing.T) {
	ce := NewCyclicExecutive(8)
	task := &countTask{name: "fast"}
	ce.AddTask(task, 10)

	var events []Event
	ce.SetObserver(func(ev Event) { events = append(events, ev) })

	advance(ce, 10)
	ce.Run()

	require.Len(t, events, 1)
	require.Equal(t, KindDispatch, events[0].Kind)
	require.Equal(t, "fast", events[0].Task)
	require.Equal(t, uint32(10), events[0].TimeMs)
	require.Equal(t, uint32(1), events[0].RunCount)
}
