// Package ppc provides the PowerPC instruction model consumed by the code
// generator.
//
// Decoding raw PPC bytes is delegated to an external disassembler; this
// package only defines the opcode identifiers, the decoded Instruction
// shape the disassembler produces, and the handful of raw-word field
// extractors the recompiler needs for its label-collection pass.
//
// Usage:
//
//	insn, ok := dis.Disassemble(word, addr)
//	if ok && insn.Op == ppc.OpAddi { ... }
package ppc
