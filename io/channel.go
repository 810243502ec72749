// Package io provides the channel endpoints an intcode Computer talks
// through. A Computer consumes words from a Source and emits words to a
// Sink; both are ordered and carry exactly one int64 per transfer.
//
// Implementations:
//   - Queue: unbounded FIFO, safe across goroutines.
//   - Pipe: bounded FIFO, Send blocks while full.
//   - Rom: finite, pre-filled Source.
//   - Record: Sink collecting into a slice.
//   - Tape: ASCII bridge to an io.Reader and io.Writer.
package io

// Source is the input side of a channel.
type Source interface {
	// Receive blocks until a value is available. It returns
	// ErrChannelClosed once the channel is closed and drained.
	Receive() (value int64, err error)
}

// Sink is the output side of a channel.
type Sink interface {
	// Send delivers a single value. It returns ErrChannelClosed
	// if the channel has been closed.
	Send(value int64) error
	// Close marks the end of the stream.
	Close() error
}

// Channel is both ends of a channel.
type Channel interface {
	Source
	Sink
}
