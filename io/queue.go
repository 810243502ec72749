package io

import (
	"sync"
)

const (
	// QUEUE_DEFAULT_CAPACITY is the initial capacity in words of a new queue.
	QUEUE_DEFAULT_CAPACITY = 64
)

// Queue is an unbounded circular FIFO of words. Send never blocks;
// Receive blocks until a value is queued or the queue is closed.
// The zero value is an empty, open queue.
type Queue struct {
	mutex sync.Mutex
	cond  *sync.Cond

	readIndex int
	size      int
	data      []int64
	closed    bool
}

var _ Channel = (*Queue)(nil)

// NewQueue returns a queue holding the values, in order.
func NewQueue(values ...int64) (queue *Queue) {
	queue = &Queue{}
	for _, value := range values {
		queue.Send(value)
	}
	return
}

// init must be called with the mutex held.
func (queue *Queue) init() {
	if queue.cond == nil {
		queue.cond = sync.NewCond(&queue.mutex)
	}
	if queue.data == nil {
		queue.data = make([]int64, QUEUE_DEFAULT_CAPACITY)
	}
}

// grow doubles the buffer, unwrapping it so the oldest value is at index 0.
func (queue *Queue) grow() {
	data := make([]int64, 2*len(queue.data))
	n := copy(data, queue.data[queue.readIndex:])
	copy(data[n:], queue.data[:queue.readIndex])
	queue.data = data
	queue.readIndex = 0
}

// Send appends a value to the queue.
// Returns ErrChannelClosed if the queue has been closed.
func (queue *Queue) Send(value int64) (err error) {
	queue.mutex.Lock()
	defer queue.mutex.Unlock()

	queue.init()

	if queue.closed {
		err = ErrChannelClosed
		return
	}

	if queue.size == len(queue.data) {
		queue.grow()
	}

	queue.data[(queue.readIndex+queue.size)%len(queue.data)] = value
	queue.size++

	queue.cond.Signal()

	return
}

// pop must be called with the mutex held, and size > 0.
func (queue *Queue) pop() (value int64) {
	value = queue.data[queue.readIndex]
	queue.readIndex++
	if queue.readIndex == len(queue.data) {
		queue.readIndex = 0
	}
	queue.size--
	return
}

// Receive removes the oldest value, waiting for one if the queue is empty.
// Values queued before Close are still delivered.
func (queue *Queue) Receive() (value int64, err error) {
	queue.mutex.Lock()
	defer queue.mutex.Unlock()

	queue.init()

	for queue.size == 0 && !queue.closed {
		queue.cond.Wait()
	}

	if queue.size == 0 {
		err = ErrChannelClosed
		return
	}

	value = queue.pop()
	return
}

// TryReceive removes the oldest value without waiting.
// Returns ErrChannelEmpty if nothing is queued and the queue is still open.
func (queue *Queue) TryReceive() (value int64, err error) {
	queue.mutex.Lock()
	defer queue.mutex.Unlock()

	queue.init()

	if queue.size == 0 {
		err = ErrChannelEmpty
		if queue.closed {
			err = ErrChannelClosed
		}
		return
	}

	value = queue.pop()
	return
}

// Len returns the number of queued values.
func (queue *Queue) Len() int {
	queue.mutex.Lock()
	defer queue.mutex.Unlock()

	return queue.size
}

// Close closes the queue, waking any blocked receivers.
func (queue *Queue) Close() (err error) {
	queue.mutex.Lock()
	defer queue.mutex.Unlock()

	queue.init()

	queue.closed = true
	queue.cond.Broadcast()

	return
}

// Closed reports whether Close has been called.
func (queue *Queue) Closed() bool {
	queue.mutex.Lock()
	defer queue.mutex.Unlock()

	return queue.closed
}
