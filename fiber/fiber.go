// Package fiber provides a cooperative execution context primitive.
//
// A Fiber is a parked goroutine plus a resume channel. Exactly one fiber
// of a group is Current at a time; SwitchTo parks the calling fiber and
// unparks the target, preserving the caller's entire call stack for later
// resumption. The primitive is strictly cooperative and never crosses host
// threads: a switch hands execution over and blocks until control comes
// back.
package fiber

import (
	"errors"
	"sync"
)

// ErrDestroyCurrent is returned when Destroy is called on the fiber that
// is currently executing.
var ErrDestroyCurrent = errors.New("fiber: cannot destroy the current fiber")

// group tracks which fiber of a cooperating set is Current.
type group struct {
	mu      sync.Mutex
	current *Fiber
}

// Fiber is one cooperative execution context.
type Fiber struct {
	grp    *group
	resume chan struct{}

	entry func(arg any)
	arg   any

	threadFiber bool
	started     bool
	destroyed   bool
}

// ConvertCurrentThread turns the calling goroutine into a fiber and
// installs it as Current. It must be called once before any SwitchTo.
func ConvertCurrentThread() *Fiber {
	f := &Fiber{
		grp:         &group{},
		resume:      make(chan struct{}, 1),
		threadFiber: true,
		started:     true,
	}
	f.grp.current = f
	return f
}

// Create allocates a fiber with its own stack. entry(arg) runs when the
// fiber is first switched to; if entry returns, the fiber parks forever,
// so the entry function is expected to switch away when done.
func Create(entry func(arg any), arg any) *Fiber {
	return &Fiber{
		resume: make(chan struct{}, 1),
		entry:  entry,
		arg:    arg,
	}
}

// Current returns the fiber currently executing in this fiber's group.
func (f *Fiber) Current() *Fiber {
	if f.grp == nil {
		return nil
	}
	f.grp.mu.Lock()
	defer f.grp.mu.Unlock()
	return f.grp.current
}

// SwitchTo suspends the calling fiber (which must be Current) and resumes
// target. It returns when another fiber switches back to this one.
func (f *Fiber) SwitchTo(target *Fiber) {
	if target == f {
		return
	}

	f.grp.mu.Lock()
	if target.grp == nil {
		target.grp = f.grp
	}
	f.grp.current = target
	f.grp.mu.Unlock()

	if !target.started {
		target.started = true
		go func() {
			<-target.resume
			target.entry(target.arg)
			// Entry returned without switching away; park forever.
			select {}
		}()
	}

	target.resume <- struct{}{}
	<-f.resume
}

// Destroy releases the fiber. Destroying the currently executing fiber is
// an error.
func (f *Fiber) Destroy() error {
	if f.grp != nil {
		f.grp.mu.Lock()
		cur := f.grp.current
		f.grp.mu.Unlock()
		if cur == f {
			return ErrDestroyCurrent
		}
	}
	f.destroyed = true
	return nil
}
