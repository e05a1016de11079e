package sched

// Task is one schedulable unit of work.
//
// Run must not block, suspend, or loop indefinitely: the schedulers have no
// way to preempt a task, so a slow Run delays every task behind it in the
// same dispatch pass. Name is diagnostic only and never used for dispatch
// decisions.
//
// Tasks are borrowed, never owned: the schedulers hold plain references and
// the caller is responsible for keeping a registered task alive.
type Task interface {
	Run()
	Name() string
}

// Ticker is anything that advances one tick at a time. Both schedulers
// implement it, so a single TickClock can drive several of them.
type Ticker interface {
	Tick()
}
