package io

import (
	"errors"
	"io"
	"strconv"
)

// TAPE_ASCII_MAX is the largest value Tape writes as a raw byte.
const TAPE_ASCII_MAX = 0x7f

// TAPE_EMPTY_READS_MAX is the number of consecutive empty reads Tape
// tolerates from its input before giving up.
const TAPE_EMPTY_READS_MAX = 100

// Tape bridges an ASCII-speaking program to byte streams.
// Each byte read from Input becomes one input value. Output values in
// 0..TAPE_ASCII_MAX are written as single bytes; anything else is written
// as a decimal number on its own line.
type Tape struct {
	Input  io.Reader
	Output io.Writer

	closed bool
}

var _ Channel = (*Tape)(nil)

// Receive reads the next byte from the input stream.
func (tc *Tape) Receive() (value int64, err error) {
	if tc.Input == nil {
		err = ErrChannelClosed
		return
	}

	var one [1]byte
	for range TAPE_EMPTY_READS_MAX {
		var n int
		n, err = tc.Input.Read(one[:])
		if n == 1 {
			value = int64(one[0])
			err = nil
			return
		}
		if err != nil {
			err = errors.Join(ErrChannelClosed, err)
			return
		}
	}

	err = errors.Join(ErrChannelClosed, io.ErrNoProgress)
	return
}

// Send writes a value to the output stream.
func (tc *Tape) Send(value int64) (err error) {
	if tc.closed || tc.Output == nil {
		err = ErrChannelClosed
		return
	}

	if value >= 0 && value <= TAPE_ASCII_MAX {
		_, err = tc.Output.Write([]byte{byte(value)})
	} else {
		_, err = io.WriteString(tc.Output, strconv.FormatInt(value, 10)+"\n")
	}
	if err != nil {
		err = errors.Join(ErrChannelClosed, err)
	}

	return
}

// Close ends the output stream. The underlying writer is left open.
func (tc *Tape) Close() (err error) {
	tc.closed = true
	return
}
