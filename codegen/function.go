package codegen

import (
	"fmt"
	"sort"
)

// Authority tags where a function's implementation comes from.
type Authority uint8

// Function authorities.
const (
	AuthorityLocal  Authority = iota // recompiled from guest code
	AuthorityImport                  // kernel import stub
)

// Block is a contiguous run of guest instructions inside a function.
type Block struct {
	Base uint32
	Size uint32
}

// End returns the address one past the last instruction of the block.
func (b Block) End() uint32 { return b.Base + b.Size }

// JumpTable describes a bctr-based switch: the bctr address, the register
// holding the case index, and the in-function target labels.
type JumpTable struct {
	BctrAddress   uint32
	IndexRegister uint32
	Targets       []uint32
}

// SehScope is one structured-exception scope of a function.
type SehScope struct {
	Filter   uint32
	Handler  uint32
	TryStart uint32
	TryEnd   uint32
}

// SehInfo carries a function's exception scopes plus the restore helper and
// establisher frame size used to rebuild the frame pointer in the handler.
type SehInfo struct {
	Scopes        []SehScope
	RestoreHelper uint32
	FrameSize     uint32
}

// FunctionNode is one discovered guest function.
type FunctionNode struct {
	base      uint32
	size      uint32
	name      string
	authority Authority
	blocks    []Block
	jumpTabs  []JumpTable
	seh       *SehInfo
}

// NewFunctionNode creates a node covering [base, base+size).
func NewFunctionNode(base, size uint32, name string, authority Authority) *FunctionNode {
	return &FunctionNode{base: base, size: size, name: name, authority: authority}
}

// Base returns the entry address.
func (f *FunctionNode) Base() uint32 { return f.base }

// End returns the address one past the function's last instruction.
func (f *FunctionNode) End() uint32 { return f.base + f.size }

// Name returns the symbol name, empty when the function is unnamed.
func (f *FunctionNode) Name() string { return f.name }

// Authority returns the function's authority tag.
func (f *FunctionNode) Authority() Authority { return f.authority }

// Blocks returns the discovered basic blocks.
func (f *FunctionNode) Blocks() []Block { return f.blocks }

// SetBlocks replaces the block list.
func (f *FunctionNode) SetBlocks(blocks []Block) { f.blocks = blocks }

// JumpTables returns the auto-detected jump tables.
func (f *FunctionNode) JumpTables() []JumpTable { return f.jumpTabs }

// AddJumpTable attaches an auto-detected jump table.
func (f *FunctionNode) AddJumpTable(jt JumpTable) { f.jumpTabs = append(f.jumpTabs, jt) }

// ExceptionInfo returns the SEH info, or nil.
func (f *FunctionNode) ExceptionInfo() *SehInfo { return f.seh }

// SetExceptionInfo attaches SEH info.
func (f *FunctionNode) SetExceptionInfo(seh *SehInfo) { f.seh = seh }

// Contains reports whether addr falls inside the function bounds.
func (f *FunctionNode) Contains(addr uint32) bool {
	return addr >= f.base && addr < f.End()
}

// TargetKind classifies a branch target against the function graph.
type TargetKind uint8

// Branch target kinds.
const (
	TargetUnknown TargetKind = iota
	TargetInternalLabel
	TargetFunction
	TargetImport
)

// FunctionGraph indexes every discovered function by entry address. It is
// produced by external analysis before codegen and read-only afterwards.
type FunctionGraph struct {
	functions  map[uint32]*FunctionNode
	entryPoint uint32
}

// NewFunctionGraph creates an empty graph with the given analysis entry
// point.
func NewFunctionGraph(entryPoint uint32) *FunctionGraph {
	return &FunctionGraph{
		functions:  make(map[uint32]*FunctionNode),
		entryPoint: entryPoint,
	}
}

// EntryPoint returns the analysis entry point address.
func (g *FunctionGraph) EntryPoint() uint32 { return g.entryPoint }

// Add registers a function node.
func (g *FunctionGraph) Add(fn *FunctionNode) {
	g.functions[fn.Base()] = fn
}

// Get returns the function whose entry is addr, or nil.
func (g *FunctionGraph) Get(addr uint32) *FunctionNode {
	return g.functions[addr]
}

// Count returns the number of registered functions.
func (g *FunctionGraph) Count() int { return len(g.functions) }

// Sorted returns all functions ordered by entry address.
func (g *FunctionGraph) Sorted() []*FunctionNode {
	fns := make([]*FunctionNode, 0, len(g.functions))
	for _, fn := range g.functions {
		fns = append(fns, fn)
	}
	sort.Slice(fns, func(i, j int) bool { return fns[i].Base() < fns[j].Base() })
	return fns
}

// ClassifyTarget classifies a branch target seen at from. isCall
// distinguishes bl (a branch to the enclosing function's own entry is a
// recursive call) from b (the same target is a loop back to an internal
// label).
func (g *FunctionGraph) ClassifyTarget(target, from uint32, isCall bool) TargetKind {
	if node := g.functions[target]; node != nil {
		if node.Authority() == AuthorityImport {
			return TargetImport
		}
		// A branch back to the entry of the function containing `from` is a
		// loop, not a tail call, unless this is a call instruction.
		if !isCall {
			if owner := g.enclosing(from); owner != nil && owner.Base() == target {
				return TargetInternalLabel
			}
		}
		return TargetFunction
	}
	if owner := g.enclosing(from); owner != nil && owner.Contains(target) {
		return TargetInternalLabel
	}
	return TargetUnknown
}

// FunctionName returns the emitted symbol name for a function: the entry
// point is always "xstart", named functions keep their name, and the rest
// are "sub_%08X".
func (g *FunctionGraph) FunctionName(fn *FunctionNode) string {
	if fn.Base() == g.entryPoint {
		return "xstart"
	}
	if fn.Name() != "" {
		return fn.Name()
	}
	return fmt.Sprintf("sub_%08X", fn.Base())
}

func (g *FunctionGraph) enclosing(addr uint32) *FunctionNode {
	for _, fn := range g.functions {
		if fn.Contains(addr) {
			return fn
		}
	}
	return nil
}
