package sched

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTickClock_DrivesSinksBeforePublishing(t *testing.T) {
	ce := NewCyclicExecutive(4)
	ts := NewTimeSlotScheduler(4, 4, 10)

	clock := NewTickClock(64, ce, ts)
	clock.Start(time.Millisecond)

	// Every published tick has already advanced all sinks, so after n
	// receives each counter is at least n.
	for i := 0; i < 5; i++ {
		<-clock.Ch
	}
	require.GreaterOrEqual(t, ce.CurrentTimeMs(), uint32(5))
	require.GreaterOrEqual(t, ts.CurrentTimeMs(), uint32(5))
	require.GreaterOrEqual(t, clock.Count(), int64(5))

	clock.Stop()
}

func TestTickClock_StopClosesChannel(t *testing.T) {
	clock := NewTickClock(4)
	clock.Start(time.Millisecond)
	clock.Stop()

	select {
	case _, ok := <-clock.Ch:
		for ok {
			_, ok = <-clock.Ch
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed after Stop")
	}
}
