package cpu

import (
	"errors"
	"strconv"
)

// Mode is an operand addressing mode.
type Mode int

const (
	MODE_POSITION  = Mode(0) // Operand is an absolute address.
	MODE_IMMEDIATE = Mode(1) // Operand is a literal value.
	MODE_RELATIVE  = Mode(2) // Operand is an offset from the relative base.
)

// Writable returns true if an operand in this mode may be written through.
func (mode Mode) Writable() bool {
	return mode != MODE_IMMEDIATE
}

// Prefix returns the assembler prefix for the mode.
func (mode Mode) Prefix() string {
	switch mode {
	case MODE_IMMEDIATE:
		return "#"
	case MODE_RELATIVE:
		return "@"
	}
	return ""
}

func (mode Mode) String() string {
	switch mode {
	case MODE_POSITION:
		return "position"
	case MODE_IMMEDIATE:
		return "immediate"
	case MODE_RELATIVE:
		return "relative"
	}
	return "Mode(" + strconv.Itoa(int(mode)) + ")"
}

// Pointer is a decoded operand: an addressing mode and its raw operand word.
type Pointer struct {
	Mode  Mode
	Value int64
}

// DecodePointer builds an operand for the mode. The raw operand word is
// only fetched once the mode is known to need it.
func DecodePointer(mode Mode, raw func() int64) (ptr Pointer, err error) {
	switch mode {
	case MODE_POSITION, MODE_IMMEDIATE, MODE_RELATIVE:
		ptr = Pointer{Mode: mode, Value: raw()}
	default:
		err = errors.Join(ErrDecodeFault, ErrModeInvalid)
	}

	return
}

// Address resolves the memory address the operand refers to.
// Immediate operands have no address.
func (ptr Pointer) Address(base int64) (addr int64, err error) {
	switch ptr.Mode {
	case MODE_POSITION:
		addr = ptr.Value
	case MODE_RELATIVE:
		addr = base + ptr.Value
	case MODE_IMMEDIATE:
		err = errors.Join(ErrWriteTargetFault, ErrWriteImmediate)
		return
	default:
		err = errors.Join(ErrDecodeFault, ErrModeInvalid)
		return
	}

	if addr < 0 {
		err = ErrAddress(addr)
	}

	return
}

// Read returns the operand's value.
func (ptr Pointer) Read(mem *Memory, base int64) (value int64, err error) {
	if ptr.Mode == MODE_IMMEDIATE {
		value = ptr.Value
		return
	}

	addr, err := ptr.Address(base)
	if err != nil {
		return
	}

	return mem.Read(addr)
}

// Cell returns the write capability for the operand.
// Writing through an immediate operand is a fault.
func (ptr Pointer) Cell(mem *Memory, base int64) (cell Cell, err error) {
	addr, err := ptr.Address(base)
	if err != nil {
		return
	}

	cell = Cell{mem: mem, Addr: addr}
	return
}

// String returns the assembler form of the operand.
func (ptr Pointer) String() string {
	return ptr.Mode.Prefix() + strconv.FormatInt(ptr.Value, 10)
}

// Cell is a resolved, writable memory slot.
type Cell struct {
	mem  *Memory
	Addr int64
}

// Get returns the word held in the cell.
func (cell Cell) Get() (value int64) {
	value, _ = cell.mem.Read(cell.Addr)
	return
}

// Set stores a word in the cell.
func (cell Cell) Set(value int64) error {
	return cell.mem.Write(cell.Addr, value)
}
