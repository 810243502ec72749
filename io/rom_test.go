package io

import (
	"bytes"
	"errors"
	stdio "io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRom(t *testing.T) {
	assert := assert.New(t)

	rom := &Rom{Data: []int64{10, -20, 30}}
	assert.Equal(3, rom.Remaining())
	assert.Equal([]int64{10, -20, 30}, collect(rom))
	assert.Equal(0, rom.Remaining())

	_, err := rom.Receive()
	assert.Equal(ErrChannelClosed, err)

	rom.Rewind()
	value, err := rom.Receive()
	assert.NoError(err)
	assert.Equal(int64(10), value)
}

func TestRecord(t *testing.T) {
	assert := assert.New(t)

	rec := &Record{}
	assert.NoError(SendAll(rec, 1, 2, 3))
	assert.Equal([]int64{1, 2, 3}, rec.Values)

	assert.NoError(rec.Close())
	assert.True(rec.Closed())
	assert.Equal(ErrChannelClosed, rec.Send(4))

	rec.Reset()
	assert.False(rec.Closed())
	assert.Nil(rec.Values)
}

func TestTape(t *testing.T) {
	assert := assert.New(t)

	output := &bytes.Buffer{}
	tape := &Tape{
		Input:  strings.NewReader("A,B\n"),
		Output: output,
	}

	assert.Equal([]int64{'A', ',', 'B', '\n'}, collect(tape))

	_, err := tape.Receive()
	assert.True(errors.Is(err, ErrChannelClosed))

	assert.NoError(SendAll(tape, '#', '.', '\n', 1234567, -1))
	assert.Equal("#.\n1234567\n-1\n", output.String())

	assert.NoError(tape.Close())
	assert.Equal(ErrChannelClosed, tape.Send('x'))
}

func TestTape_NoStreams(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{}
	_, err := tape.Receive()
	assert.Equal(ErrChannelClosed, err)
	assert.Equal(ErrChannelClosed, tape.Send(1))
}

// stalled is a reader that never returns data or an error.
type stalled struct {
	reads int
}

func (st *stalled) Read(p []byte) (int, error) {
	st.reads++
	return 0, nil
}

func TestTape_Stalled(t *testing.T) {
	assert := assert.New(t)

	input := &stalled{}
	tape := &Tape{Input: input}
	_, err := tape.Receive()
	assert.ErrorIs(err, ErrChannelClosed)
	assert.ErrorIs(err, stdio.ErrNoProgress)
	assert.Equal(TAPE_EMPTY_READS_MAX, input.reads)
}

func TestTriples(t *testing.T) {
	assert := assert.New(t)

	rom := &Rom{Data: []int64{1, 2, 3, -1, 0, 12345, 9}}

	var triples [][3]int64
	for triple := range Triples(rom) {
		triples = append(triples, triple)
	}

	assert.Equal([][3]int64{{1, 2, 3}, {-1, 0, 12345}}, triples)
}
