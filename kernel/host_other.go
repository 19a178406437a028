//go:build !linux

package kernel

import "runtime"

func hostLogicalProcessorCount() int {
	return runtime.NumCPU()
}

// Affinity and priority application are Linux-only; elsewhere the guest
// fields are still tracked but the host scheduler is left alone.
func applyHostAffinity(cpuIndex uint8) {}

func applyHostPriority(priority ThreadPriority) {}
