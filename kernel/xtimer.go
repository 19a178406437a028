package kernel

import (
	"sync"
	"time"

	"github.com/rexlab/rexglue/chrono"
)

// Timer types.
const (
	TimerTypeNotification    = 0 // manual reset
	TimerTypeSynchronization = 1 // auto reset
)

// XTimer schedules one-shot or periodic callbacks in guest time and fires
// APCs into the thread that armed it.
type XTimer struct {
	XObject

	timerType uint32

	mu     sync.Mutex
	stop   chan struct{}
	active bool

	callbackThread     *XThread
	callbackRoutine    uint32
	callbackRoutineArg uint32
}

// NewXTimer creates a timer object.
func NewXTimer(ks *KernelState, timerType uint32) *XTimer {
	t := &XTimer{XObject: newXObject(ks, ObjectTypeTimer), timerType: timerType}
	ks.ObjectTable().Insert(t, &t.XObject)
	return t
}

// SetTimer arms the timer. A negative due time is relative in 100-ns guest
// ticks; a positive one is an absolute guest FILETIME. A non-zero period
// makes the timer fire repeatedly. The routine, when given, is delivered
// as an APC to the calling thread with the guest time split into two
// words. Resume semantics are not supported and report as ignored.
func (t *XTimer) SetTimer(caller *XThread, dueTime int64, periodMs uint32,
	routine, routineArg uint32, resume bool) XStatus {

	if resume {
		return XStatusTimerResumeIgnored
	}

	periodMs = chrono.ScaleGuestDurationMillis(periodMs)

	// Convert to an absolute host deadline as early as possible for
	// accuracy.
	var due chrono.HostTime
	if dueTime < 0 {
		due = (chrono.GuestNow() + chrono.GuestTime(-dueTime)).ToHost()
	} else {
		due = chrono.GuestTime(dueTime).ToHost()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// Re-arming cancels the previous schedule.
	t.cancelLocked()

	t.callbackThread = caller
	t.callbackRoutine = routine
	t.callbackRoutineArg = routineArg

	var fire func()
	if routine != 0 {
		fire = func() {
			// The callback runs on the thread that armed the timer, via
			// an APC carrying (arg, time_low, time_high).
			guestTime := chrono.QueryGuestSystemTime()
			timeLow := uint32(guestTime)
			timeHigh := uint32(guestTime >> 32)
			logk.Info("XTimer enqueuing timer callback to %08X(%08X, %08X, %08X)",
				t.callbackRoutine, t.callbackRoutineArg, timeLow, timeHigh)
			t.callbackThread.EnqueueApc(t.callbackRoutine, t.callbackRoutineArg,
				timeLow, timeHigh)
		}
	}

	stop := make(chan struct{})
	t.stop = stop
	t.active = true

	initial := time.Until(due.ToSys())
	if initial < 0 {
		initial = 0
	}

	go func() {
		timer := time.NewTimer(initial)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-stop:
			return
		}
		if fire != nil {
			fire()
		}
		if periodMs == 0 {
			return
		}
		ticker := time.NewTicker(time.Duration(periodMs) * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if fire != nil {
					fire()
				}
			case <-stop:
				return
			}
		}
	}()

	return XStatusSuccess
}

// Cancel disarms the timer.
func (t *XTimer) Cancel() XStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.cancelLocked() {
		return XStatusUnsuccessful
	}
	return XStatusSuccess
}

func (t *XTimer) cancelLocked() bool {
	if !t.active {
		return false
	}
	close(t.stop)
	t.active = false
	return true
}
