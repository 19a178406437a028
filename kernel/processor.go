package kernel

import (
	"sync"

	"github.com/rexlab/rexglue/guest"
)

// Processor resolves guest code addresses to their recompiled host
// functions for entry dispatch and indirect calls.
type Processor struct {
	mu        sync.RWMutex
	functions map[uint32]guest.Func

	codeBase uint32
	codeSize uint32
}

// NewProcessor creates an empty function table.
func NewProcessor() *Processor {
	return &Processor{functions: make(map[uint32]guest.Func)}
}

// InitializeFunctionTable records the code range the table covers.
func (p *Processor) InitializeFunctionTable(codeBase, codeSize uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.codeBase = codeBase
	p.codeSize = codeSize
}

// SetFunction registers the host function for a guest address.
func (p *Processor) SetFunction(addr uint32, fn guest.Func) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.functions[addr] = fn
}

// GetFunction resolves a guest address, or nil when unregistered.
func (p *Processor) GetFunction(addr uint32) guest.Func {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.functions[addr]
}

// RegisterMappings loads a generated function mapping table. A zero guest
// address terminates the table.
func (p *Processor) RegisterMappings(mappings []guest.FuncMapping) int {
	count := 0
	for _, m := range mappings {
		if m.Guest == 0 {
			break
		}
		if m.Host != nil {
			p.SetFunction(m.Guest, m.Host)
			count++
		}
	}
	logk.Debug("Registered %d recompiled functions", count)
	return count
}
