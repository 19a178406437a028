//go:build linux

package kernel

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// hostLogicalProcessorCount returns the host's logical CPU count.
func hostLogicalProcessorCount() int {
	return runtime.NumCPU()
}

// applyHostAffinity pins the calling OS thread to the given CPU. Guest
// threads are locked to their OS thread, so this lands on the right one
// when called from the thread itself.
func applyHostAffinity(cpuIndex uint8) {
	var set unix.CPUSet
	set.Zero()
	set.Set(int(cpuIndex))
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		logk.Warn("SchedSetaffinity(%d) failed: %v", cpuIndex, err)
	}
}

// applyHostPriority adjusts the calling OS thread's nice value to
// approximate the requested band.
func applyHostPriority(priority ThreadPriority) {
	nice := 0
	switch priority {
	case ThreadPriorityLowest:
		nice = 10
	case ThreadPriorityBelowNormal:
		nice = 5
	case ThreadPriorityAboveNormal:
		nice = -5
	case ThreadPriorityHighest:
		nice = -10
	}
	if err := unix.Setpriority(unix.PRIO_PROCESS, 0, nice); err != nil {
		logk.Debug("Setpriority(%d) failed: %v", nice, err)
	}
}
