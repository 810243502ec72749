// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"errors"
	"iter"
	"log"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ezrec/intcode/cpu"
	"github.com/ezrec/intcode/io"
)

const (
	AWAIT_POLL_INTERVAL = time.Millisecond // Poll period of AwaitInput.
)

// Emulator state. Computer + program listing + IO queues.
//
// Once started, the computer runs on its own goroutine; the controller
// talks to it only through the Input and Output queues and the waiting
// flag.
type Emulator struct {
	Verbose       bool         // If set, enables verbose logging.
	*cpu.Computer              // Reference to the computer.
	Program       *cpu.Program // Reference to the loaded program listing.

	Input  *io.Queue // Values for the program to read.
	Output *io.Queue // Values written by the program.

	group *errgroup.Group
	done  chan struct{}
}

// NewEmulator creates a new emulator loaded with a program.
func NewEmulator(prog *cpu.Program) (emu *Emulator) {
	emu = &Emulator{
		Program: prog,
	}

	emu.Reset()

	return
}

// Reset reloads the program into a fresh computer, with empty queues.
// Must not be called while the computer is running.
func (emu *Emulator) Reset() {
	if emu.Program == nil {
		emu.Program = &cpu.Program{}
	}

	emu.Computer = cpu.NewComputerMemory(emu.Program.Memory())
	emu.Input = &io.Queue{}
	emu.Output = &io.Queue{}
	emu.group = nil
	emu.done = nil
}

// LineNo returns the source line number of the next instruction,
// or 0 if the program has no debug information for it.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Computer.Ip())
	if dbg.Statement == nil {
		return 0
	}

	return dbg.LineNo
}

// Locate wraps an error from running a program in an *ErrRuntime,
// naming the source line of the faulting instruction when the program
// has debug information for it.
func Locate(prog *cpu.Program, err error) error {
	rt := &ErrRuntime{Err: err}

	var fault *cpu.ErrFault
	if errors.As(err, &fault) {
		rt.Ip = fault.Ip
		dbg := prog.Debug(fault.Ip)
		if dbg.Statement != nil {
			rt.LineNo = dbg.LineNo
		}
	}

	return rt
}

func (emu *Emulator) runtimeError(err error) error {
	err = Locate(emu.Program, err)
	if emu.Verbose {
		log.Printf("emulator: %v", err)
	}

	return err
}

// Tick performs a single instruction on the caller's goroutine.
// An input instruction blocks until the Input queue has a value or is closed.
func (emu *Emulator) Tick() (done bool, err error) {
	if emu.group != nil {
		err = ErrRunning
		return
	}

	emu.Computer.Verbose = emu.Verbose

	err = emu.Computer.Tick(emu.Input, emu.Output)
	if errors.Is(err, cpu.ErrHalted) {
		emu.Output.Close()
		done = true
		err = nil
		return
	}
	if err != nil {
		emu.Output.Close()
		err = emu.runtimeError(err)
		return
	}

	return
}

// Start runs the computer on its own goroutine until it halts or faults.
// The Output queue is closed when it stops.
func (emu *Emulator) Start() (err error) {
	if emu.group != nil {
		err = ErrRunning
		return
	}

	emu.Computer.Verbose = emu.Verbose

	computer := emu.Computer
	in, out := emu.Input, emu.Output
	done := make(chan struct{})

	emu.done = done
	emu.group = &errgroup.Group{}
	emu.group.Go(func() error {
		defer close(done)
		return computer.Run(in, out)
	})

	if emu.Verbose {
		log.Printf("emulator: started, %d words", emu.Program.Len())
	}

	return
}

// Send queues values for the program to read.
func (emu *Emulator) Send(values ...int64) error {
	return io.SendAll(emu.Input, values...)
}

// Receive returns the next value written by the program, blocking until
// one is available. Returns io.ErrChannelClosed once the program has
// stopped and every value has been read.
func (emu *Emulator) Receive() (int64, error) {
	return emu.Output.Receive()
}

// Outputs returns an iterator over the values written by the program,
// ending when the program stops.
func (emu *Emulator) Outputs() iter.Seq[int64] {
	return io.Values(emu.Output)
}

// Drain returns the values already written by the program, without blocking.
func (emu *Emulator) Drain() (values []int64) {
	for {
		value, err := emu.Output.TryReceive()
		if err != nil {
			return
		}
		values = append(values, value)
	}
}

// AwaitInput blocks until the computer is waiting for input.
// Returns ErrStopped if the computer stops first.
func (emu *Emulator) AwaitInput(ctx context.Context) (err error) {
	if emu.done == nil {
		err = ErrNotRunning
		return
	}

	ticker := time.NewTicker(AWAIT_POLL_INTERVAL)
	defer ticker.Stop()

	for !emu.Computer.Waiting() {
		select {
		case <-emu.done:
			err = ErrStopped
			return
		case <-ctx.Done():
			err = ctx.Err()
			return
		case <-ticker.C:
		}
	}

	return
}

// Close disconnects the input. A program that reads again will fault.
func (emu *Emulator) Close() error {
	return emu.Input.Close()
}

// Wait blocks until the computer stops.
// Returns nil on halt, or an *ErrRuntime locating the fault.
func (emu *Emulator) Wait() (err error) {
	if emu.group == nil {
		err = ErrNotRunning
		return
	}

	err = emu.group.Wait()
	if err != nil {
		err = emu.runtimeError(err)
	}

	return
}

// Run starts the program with a fixed list of inputs, and returns all
// of its outputs once it stops. Reading past the inputs is a fault.
func (emu *Emulator) Run(inputs ...int64) (outputs []int64, err error) {
	err = emu.Start()
	if err != nil {
		return
	}

	err = emu.Send(inputs...)
	emu.Close()

	outputs = slices.Collect(emu.Outputs())
	err = errors.Join(err, emu.Wait())

	return
}
