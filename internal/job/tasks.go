// Package job holds concrete task implementations for the schedulers in
// internal/sched. The schedulers only ever see the Task capability; what a
// task actually does lives here.
package job

import (
	"github.com/rs/zerolog"

	"ticksched/internal/sched"
)

// CounterTask counts its own executions. Mostly useful in tests and demos.
type CounterTask struct {
	name  string
	count int
}

func NewCounterTask(name string) *CounterTask {
	return &CounterTask{name: name}
}

func (t *CounterTask) Run() { t.count++ }
func (t *CounterTask) Name() string { return t.name }
func (t *CounterTask) Count() int { return t.count }
func (t *CounterTask) Reset() { t.count = 0 }

// TimingTask records the scheduler time of its most recent execution. The
// clock function is injected so the task can snapshot whichever scheduler
// drives it.
type TimingTask struct {
	name     string
	clock    func() uint32
	lastRun  uint32
	runCount int
}

func NewTimingTask(name string, clock func() uint32) *TimingTask {
	return &TimingTask{name: name, clock: clock}
}

func (t *TimingTask) Run() {
	t.runCount++
	if t.clock != nil {
		t.lastRun = t.clock()
	}
}

func (t *TimingTask) Name() string { return t.name }
func (t *TimingTask) LastRunMs() uint32 { return t.lastRun }
func (t *TimingTask) RunCount() int { return t.runCount }

// LoggedTask decorates another task with a structured log line per run. The
// wrapped task runs first, so logging never delays the work itself.
type LoggedTask struct {
	inner sched.Task
	log   zerolog.Logger
}

func NewLoggedTask(inner sched.Task, log zerolog.Logger) *LoggedTask {
	return &LoggedTask{inner: inner, log: log}
}

func (t *LoggedTask) Run() {
	t.inner.Run()
	t.log.Debug().Str("task", t.inner.Name()).Msg("task ran")
}

func (t *LoggedTask) Name() string { return t.inner.Name() }
