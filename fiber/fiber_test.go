package fiber_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rexlab/rexglue/fiber"
)

func TestConvertCurrentThreadIsCurrent(t *testing.T) {
	f := fiber.ConvertCurrentThread()
	require.NotNil(t, f)
	assert.Same(t, f, f.Current())
}

func TestSwitchToRunsEntryAndResumes(t *testing.T) {
	main := fiber.ConvertCurrentThread()

	var order []string
	var worker *fiber.Fiber
	worker = fiber.Create(func(arg any) {
		order = append(order, "worker:"+arg.(string))
		worker.SwitchTo(main)
	}, "hello")

	order = append(order, "before")
	main.SwitchTo(worker)
	order = append(order, "after")

	assert.Equal(t, []string{"before", "worker:hello", "after"}, order)
	assert.Same(t, main, main.Current())
}

func TestSwitchPreservesStackAcrossResumes(t *testing.T) {
	main := fiber.ConvertCurrentThread()

	var steps []int
	var worker *fiber.Fiber
	worker = fiber.Create(func(arg any) {
		// A local survives across the mid-function suspension.
		local := 1
		steps = append(steps, local)
		worker.SwitchTo(main)
		local++
		steps = append(steps, local)
		worker.SwitchTo(main)
	}, nil)

	main.SwitchTo(worker)
	steps = append(steps, 10)
	main.SwitchTo(worker)

	assert.Equal(t, []int{1, 10, 2}, steps)
}

func TestCurrentFollowsSwitches(t *testing.T) {
	main := fiber.ConvertCurrentThread()

	var observed *fiber.Fiber
	var worker *fiber.Fiber
	worker = fiber.Create(func(arg any) {
		observed = worker.Current()
		worker.SwitchTo(main)
	}, nil)

	main.SwitchTo(worker)
	assert.Same(t, worker, observed)
	assert.Same(t, main, main.Current())
}

func TestDestroyCurrentFails(t *testing.T) {
	f := fiber.ConvertCurrentThread()
	assert.ErrorIs(t, f.Destroy(), fiber.ErrDestroyCurrent)
}

func TestDestroyNonCurrentSucceeds(t *testing.T) {
	main := fiber.ConvertCurrentThread()

	var worker *fiber.Fiber
	worker = fiber.Create(func(arg any) {
		worker.SwitchTo(main)
	}, nil)

	main.SwitchTo(worker)
	assert.NoError(t, worker.Destroy())
}

func TestSwitchToSelfIsNoOp(t *testing.T) {
	f := fiber.ConvertCurrentThread()
	done := make(chan struct{})
	go func() {
		defer close(done)
		f.SwitchTo(f)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("SwitchTo(self) blocked")
	}
}
