// Package codegen translates analyzed PPC guest functions into host C++
// source text, one instruction at a time.
//
// The package is driven by a Recompiler which walks the discovered basic
// blocks of every function in a FunctionGraph, asks the external
// disassembler for each instruction, and dispatches the decoded instruction
// to a builder. Builders emit text implementing the architectural effect of
// the instruction against the emitted-code ABI:
//
//	void name(PPCContext& ctx, uint8_t* base);
//
// Output is batched into translation units and written through a
// content-addressed writer so unchanged files are never rewritten.
package codegen
