package kernel_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rexlab/rexglue/guest"
	"github.com/rexlab/rexglue/kernel"
)

func TestTimerResumeIsIgnored(t *testing.T) {
	ks := newTestKernel(t)
	th := newSuspendedThread(t, ks, 0x82000000)
	timer := kernel.NewXTimer(ks, kernel.TimerTypeNotification)

	status := timer.SetTimer(th, -1, 0, 0, 0, true)
	assert.Equal(t, kernel.XStatusTimerResumeIgnored, status)
}

func TestOneShotTimerFiresAPCIntoRequestingThread(t *testing.T) {
	ks := newTestKernel(t)
	th := newSuspendedThread(t, ks, 0x82000000)
	timer := kernel.NewXTimer(ks, kernel.TimerTypeSynchronization)

	fired := make(chan [2]uint64, 1)
	routine := uint32(0x82200000)
	ks.Processor().SetFunction(routine, func(ctx *guest.Context, base []byte) {
		fired <- [2]uint64{ctx.R[3].U64(), ctx.R[4].U64()}
	})

	// Relative 10 ms due time in negative 100-ns ticks.
	status := timer.SetTimer(th, -10*10_000, 0, routine, 0x77, false)
	require.Equal(t, kernel.XStatusSuccess, status)

	deadline := time.After(2 * time.Second)
	for {
		th.DeliverAPCs()
		select {
		case got := <-fired:
			assert.Equal(t, uint64(0x77), got[0])
			assert.NotZero(t, got[1]) // guest time low word
			return
		case <-deadline:
			t.Fatal("timer APC never delivered")
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}
}

func TestPeriodicTimerFiresRepeatedly(t *testing.T) {
	ks := newTestKernel(t)
	th := newSuspendedThread(t, ks, 0x82000000)
	timer := kernel.NewXTimer(ks, kernel.TimerTypeNotification)

	count := 0
	routine := uint32(0x82200010)
	ks.Processor().SetFunction(routine, func(ctx *guest.Context, base []byte) {
		count++
	})

	require.Equal(t, kernel.XStatusSuccess,
		timer.SetTimer(th, -1, 10, routine, 0, false))

	deadline := time.Now().Add(2 * time.Second)
	for count < 3 && time.Now().Before(deadline) {
		th.DeliverAPCs()
		time.Sleep(5 * time.Millisecond)
	}
	require.Equal(t, kernel.XStatusSuccess, timer.Cancel())
	assert.GreaterOrEqual(t, count, 3)
}

func TestCancelUnarmedTimerFails(t *testing.T) {
	ks := newTestKernel(t)
	timer := kernel.NewXTimer(ks, kernel.TimerTypeNotification)
	assert.Equal(t, kernel.XStatusUnsuccessful, timer.Cancel())
}
