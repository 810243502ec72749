package io

import (
	"sync"
)

// Pipe is a bounded FIFO backed by a Go channel. Send blocks while the
// pipe is full, so a stalled consumer stalls the producer.
// Either end may Close the pipe.
type Pipe struct {
	data chan int64
	done chan struct{}
	once sync.Once
}

var _ Channel = (*Pipe)(nil)

// NewPipe creates a pipe that buffers up to depth values.
// A depth of 0 makes every Send wait for a matching Receive.
func NewPipe(depth int) (pipe *Pipe) {
	pipe = &Pipe{
		data: make(chan int64, depth),
		done: make(chan struct{}),
	}
	return
}

// Send delivers a value, blocking while the pipe is full.
// Returns ErrChannelClosed if the pipe is, or becomes, closed.
func (pipe *Pipe) Send(value int64) (err error) {
	select {
	case <-pipe.done:
		err = ErrChannelClosed
		return
	default:
	}

	select {
	case pipe.data <- value:
	case <-pipe.done:
		err = ErrChannelClosed
	}

	return
}

// Receive takes the next value, blocking while the pipe is empty.
// Values buffered before Close are still delivered.
func (pipe *Pipe) Receive() (value int64, err error) {
	select {
	case value = <-pipe.data:
		return
	case <-pipe.done:
	}

	select {
	case value = <-pipe.data:
	default:
		err = ErrChannelClosed
	}

	return
}

// Close closes the pipe. It is safe to call more than once, from either end.
func (pipe *Pipe) Close() (err error) {
	pipe.once.Do(func() { close(pipe.done) })
	return
}

// Done is closed when the pipe is closed.
func (pipe *Pipe) Done() <-chan struct{} {
	return pipe.done
}
