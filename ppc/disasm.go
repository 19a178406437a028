package ppc

// The concrete disassembler is an external library; it registers itself
// here (typically from an init function) and the CLI picks it up. Embedded
// users can instead pass their Disassembler straight to the recompiler.

var registered Disassembler

// RegisterDisassembler installs the process-wide disassembler.
func RegisterDisassembler(d Disassembler) { registered = d }

// RegisteredDisassembler returns the installed disassembler, or nil.
func RegisteredDisassembler() Disassembler { return registered }
