// Package kernel implements the guest kernel and thread core: kernel
// state, guest memory view, the recompiled-function processor table, guest
// threads with APC delivery, and guest timers.
package kernel

// XStatus is the NT-style status code space surfaced to guest code.
type XStatus uint32

// Status codes.
const (
	XStatusSuccess            XStatus = 0x00000000
	XStatusTimerResumeIgnored XStatus = 0x40000025
	XStatusUserAPC            XStatus = 0x000000C0
	XStatusUnsuccessful       XStatus = 0xC0000001
	XStatusNoMemory           XStatus = 0xC0000017
	XStatusInvalidParameter   XStatus = 0xC000000D
)

// Failed reports whether the status is an error.
func (s XStatus) Failed() bool { return s>>30 == 3 }

// Thread creation flags.
const (
	XCreateSuspended = 0x00000001
)
