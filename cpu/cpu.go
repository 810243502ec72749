package cpu

import (
	"errors"
	"log"
	"sync/atomic"

	"github.com/ezrec/intcode/io"
)

// Computer is the execution context of a single intcode program.
// Memory, the program counter and the relative base are private to it;
// only the waiting and halted flags may be observed from other goroutines.
type Computer struct {
	Verbose bool   // Set to enable verbose logging.
	Tracer  Tracer // If set, called before each instruction executes.

	memory *Memory
	ip     int64 // Address of the next instruction.
	base   int64 // Relative base register.
	ticks  int   // Instructions executed.
	fault  error // First fault raised, if any.

	waiting atomic.Bool
	halted  atomic.Bool
}

// NewComputer creates a computer loaded with a program.
func NewComputer(program []int64) (cpu *Computer) {
	cpu = &Computer{
		memory: NewMemory(program),
	}

	return
}

// NewComputerMemory creates a computer that runs the program held in mem.
// The computer takes ownership of mem.
func NewComputerMemory(mem *Memory) (cpu *Computer) {
	cpu = &Computer{
		memory: mem,
	}

	return
}

// Waiting returns true while the computer is blocked on input.
func (cpu *Computer) Waiting() bool {
	return cpu.waiting.Load()
}

// Halted returns true once the halt instruction has executed.
func (cpu *Computer) Halted() bool {
	return cpu.halted.Load()
}

// Ip returns the address of the next instruction.
// Only meaningful while the computer is not running on another goroutine.
func (cpu *Computer) Ip() int64 {
	return cpu.ip
}

// Ticks returns the number of instructions executed.
func (cpu *Computer) Ticks() int {
	return cpu.ticks
}

// tracer returns the active tracer, if any.
func (cpu *Computer) tracer() Tracer {
	if cpu.Tracer != nil {
		return cpu.Tracer
	}
	if cpu.Verbose {
		return LogTracer{}
	}
	return nil
}

// Tick executes a single instruction.
// Returns ErrHalted once the program has halted; a fault is returned as
// an *ErrFault, and every later Tick returns the same fault.
func (cpu *Computer) Tick(in io.Source, out io.Sink) (err error) {
	if cpu.halted.Load() {
		err = ErrHalted
		return
	}

	if cpu.fault != nil {
		err = cpu.fault
		return
	}

	cmd, err := DecodeCommand(cpu.memory, cpu.ip)
	if err == nil {
		if tracer := cpu.tracer(); tracer != nil {
			tracer.Trace(cmd, cpu.base)
		}
		err = cpu.execute(cmd, in, out)
	}

	if err != nil && err != ErrHalted {
		word, _ := cpu.memory.Read(cpu.ip)
		err = &ErrFault{Ip: cpu.ip, Word: word, Err: err}
		cpu.fault = err
		if cpu.Verbose {
			log.Printf("cpu: %v", err)
		}
	}

	return
}

// read returns the value of operand n.
func (cpu *Computer) read(cmd Command, n int) (value int64, err error) {
	value, err = cmd.Args[n].Read(cpu.memory, cpu.base)
	if err != nil {
		err = errors.Join(argErr[n], err)
	}
	return
}

// cell returns the write capability of operand n.
func (cpu *Computer) cell(cmd Command, n int) (cell Cell, err error) {
	cell, err = cmd.Args[n].Cell(cpu.memory, cpu.base)
	if err != nil {
		err = errors.Join(argErr[n], err)
	}
	return
}

// execute performs a decoded instruction, then advances the program counter.
func (cpu *Computer) execute(cmd Command, in io.Source, out io.Sink) (err error) {
	next_ip := cmd.Ip + cmd.Len()

	switch cmd.Op {
	case OP_ADD, OP_MUL, OP_LT, OP_EQ:
		var a, b int64
		var target Cell
		a, err = cpu.read(cmd, 0)
		if err != nil {
			return
		}
		b, err = cpu.read(cmd, 1)
		if err != nil {
			return
		}
		target, err = cpu.cell(cmd, 2)
		if err != nil {
			return
		}
		var result int64
		switch cmd.Op {
		case OP_ADD:
			result = a + b
		case OP_MUL:
			result = a * b
		case OP_LT:
			if a < b {
				result = 1
			}
		case OP_EQ:
			if a == b {
				result = 1
			}
		}
		err = target.Set(result)
	case OP_IN:
		var target Cell
		target, err = cpu.cell(cmd, 0)
		if err != nil {
			return
		}
		cpu.waiting.Store(true)
		value, recv_err := in.Receive()
		if recv_err != nil {
			cpu.waiting.Store(false)
			err = errors.Join(ErrChannelFault, ErrInputClosed, recv_err)
			return
		}
		err = target.Set(value)
		cpu.waiting.Store(false)
	case OP_OUT:
		var value int64
		value, err = cpu.read(cmd, 0)
		if err != nil {
			return
		}
		send_err := out.Send(value)
		if send_err != nil {
			err = errors.Join(ErrChannelFault, ErrOutputClosed, send_err)
			return
		}
	case OP_JNZ, OP_JZ:
		var cond, target int64
		cond, err = cpu.read(cmd, 0)
		if err != nil {
			return
		}
		target, err = cpu.read(cmd, 1)
		if err != nil {
			return
		}
		if (cond != 0) == (cmd.Op == OP_JNZ) {
			next_ip = target
		}
	case OP_ARB:
		var offset int64
		offset, err = cpu.read(cmd, 0)
		if err != nil {
			return
		}
		cpu.base += offset
	case OP_HALT:
		cpu.ticks++
		cpu.halted.Store(true)
		if cpu.Verbose {
			log.Printf("cpu: halt at %d after %d ticks", cmd.Ip, cpu.ticks)
		}
		err = ErrHalted
		return
	default:
		err = errors.Join(ErrDecodeFault, ErrOpcodeInvalid)
		return
	}

	if err != nil {
		return
	}

	cpu.ip = next_ip
	cpu.ticks++

	return
}

// Run executes the program until it halts or faults, reading input from in
// and writing output to out. The output is closed when Run returns, so
// consumers observe the end of the stream either way.
// Returns nil on halt, or the *ErrFault that stopped the program.
func (cpu *Computer) Run(in io.Source, out io.Sink) (err error) {
	defer func() {
		close_err := out.Close()
		if err == nil {
			err = close_err
		}
	}()

	for {
		err = cpu.Tick(in, out)
		if errors.Is(err, ErrHalted) {
			err = nil
			return
		}
		if err != nil {
			return
		}
	}
}

// RunBatch runs the program with a fixed list of inputs, and returns all
// of the outputs once it halts. Running out of inputs is a channel fault.
func (cpu *Computer) RunBatch(inputs ...int64) (outputs []int64, err error) {
	rom := &io.Rom{Data: inputs}
	rec := &io.Record{}

	err = cpu.Run(rom, rec)
	outputs = rec.Values

	return
}
