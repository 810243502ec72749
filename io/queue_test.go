package io

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQueue_Order(t *testing.T) {
	assert := assert.New(t)

	queue := &Queue{}
	for n := range 1000 {
		assert.NoError(queue.Send(int64(n)))
	}
	assert.Equal(1000, queue.Len())

	for n := range 1000 {
		value, err := queue.Receive()
		assert.NoError(err)
		assert.Equal(int64(n), value)
	}
	assert.Equal(0, queue.Len())
}

func TestQueue_Wrap(t *testing.T) {
	assert := assert.New(t)

	queue := NewQueue()

	// Interleave so the read index wraps before the buffer grows.
	next := int64(0)
	want := int64(0)
	for range 10 {
		for range QUEUE_DEFAULT_CAPACITY - 3 {
			assert.NoError(queue.Send(next))
			next++
		}
		for range QUEUE_DEFAULT_CAPACITY / 2 {
			value, err := queue.Receive()
			assert.NoError(err)
			assert.Equal(want, value)
			want++
		}
	}

	for want < next {
		value, err := queue.Receive()
		assert.NoError(err)
		assert.Equal(want, value)
		want++
	}
}

func TestQueue_Close(t *testing.T) {
	assert := assert.New(t)

	queue := NewQueue(1, 2)
	assert.NoError(queue.Close())
	assert.True(queue.Closed())

	err := queue.Send(3)
	assert.Equal(ErrChannelClosed, err)

	// Values queued before the close are still delivered.
	value, err := queue.Receive()
	assert.NoError(err)
	assert.Equal(int64(1), value)
	value, err = queue.TryReceive()
	assert.NoError(err)
	assert.Equal(int64(2), value)

	_, err = queue.Receive()
	assert.Equal(ErrChannelClosed, err)
	_, err = queue.TryReceive()
	assert.Equal(ErrChannelClosed, err)
}

func TestQueue_TryReceive_Empty(t *testing.T) {
	assert := assert.New(t)

	queue := &Queue{}
	_, err := queue.TryReceive()
	assert.Equal(ErrChannelEmpty, err)
}

func TestQueue_Blocking(t *testing.T) {
	assert := assert.New(t)

	queue := &Queue{}

	var wg sync.WaitGroup
	var value int64
	var err error
	wg.Add(1)
	go func() {
		defer wg.Done()
		value, err = queue.Receive()
	}()

	time.Sleep(10 * time.Millisecond)
	assert.NoError(queue.Send(42))
	wg.Wait()

	assert.NoError(err)
	assert.Equal(int64(42), value)
}

func TestQueue_CloseWakesReceiver(t *testing.T) {
	assert := assert.New(t)

	queue := &Queue{}

	done := make(chan error)
	go func() {
		_, err := queue.Receive()
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	queue.Close()

	select {
	case err := <-done:
		assert.Equal(ErrChannelClosed, err)
	case <-time.After(time.Second):
		t.Fatal("receiver not woken by Close")
	}
}
