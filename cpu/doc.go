// Package cpu implements the intcode Computer, its assembler and disassembler.
//
// The Computer executes a self-modifying program of int64 words held in an
// unbounded, sparse Memory. Each instruction word encodes an opcode in its
// low two decimal digits and one addressing mode per operand in the digits
// above: position (0), immediate (1) or relative to the relative base (2).
// Instructions are decoded fresh from memory on every tick.
//
// The Computer talks to its environment only through an io.Source for input
// and an io.Sink for output. While blocked on input it raises a waiting flag
// that other goroutines may poll.
//
// The assembler provides a small assembly language for intcode, supporting
// labels, equates, macros, and compile-time expression evaluation.
package cpu
