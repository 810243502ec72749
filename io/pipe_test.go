package io

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPipe_SendReceive(t *testing.T) {
	assert := assert.New(t)

	pipe := NewPipe(4)
	assert.NoError(SendAll(pipe, 1, 2, 3))

	for _, want := range []int64{1, 2, 3} {
		value, err := pipe.Receive()
		assert.NoError(err)
		assert.Equal(want, value)
	}
}

func TestPipe_CloseDrains(t *testing.T) {
	assert := assert.New(t)

	pipe := NewPipe(4)
	assert.NoError(SendAll(pipe, 7, 8))
	assert.NoError(pipe.Close())
	assert.NoError(pipe.Close())

	assert.Equal([]int64{7, 8}, collect(pipe))

	_, err := pipe.Receive()
	assert.Equal(ErrChannelClosed, err)
}

func TestPipe_Backpressure(t *testing.T) {
	assert := assert.New(t)

	pipe := NewPipe(1)
	assert.NoError(pipe.Send(1))

	sent := make(chan error)
	go func() {
		sent <- pipe.Send(2)
	}()

	select {
	case <-sent:
		t.Fatal("send on a full pipe did not block")
	case <-time.After(20 * time.Millisecond):
	}

	value, err := pipe.Receive()
	assert.NoError(err)
	assert.Equal(int64(1), value)
	assert.NoError(<-sent)
}

func TestPipe_ConsumerClose(t *testing.T) {
	assert := assert.New(t)

	pipe := NewPipe(0)

	sent := make(chan error)
	go func() {
		sent <- pipe.Send(5)
	}()

	time.Sleep(10 * time.Millisecond)
	pipe.Close()

	select {
	case err := <-sent:
		assert.Equal(ErrChannelClosed, err)
	case <-time.After(time.Second):
		t.Fatal("blocked sender not released by Close")
	}

	select {
	case <-pipe.Done():
	default:
		t.Fatal("Done not closed")
	}
}

func collect(src Source) (values []int64) {
	for value := range Values(src) {
		values = append(values, value)
	}
	return
}
