package io

// Rom is a finite Source of pre-loaded values. Once the data is exhausted,
// Receive reports ErrChannelClosed. It is not safe for concurrent use.
type Rom struct {
	Data      []int64
	ReadIndex int
}

var _ Source = (*Rom)(nil)

// Rewind restarts reading from the first value.
func (rc *Rom) Rewind() {
	rc.ReadIndex = 0
}

// Receive returns the next pre-loaded value.
func (rc *Rom) Receive() (value int64, err error) {
	if rc.ReadIndex >= len(rc.Data) {
		err = ErrChannelClosed
		return
	}

	value = rc.Data[rc.ReadIndex]
	rc.ReadIndex++

	return
}

// Remaining returns the number of values not yet received.
func (rc *Rom) Remaining() int {
	return len(rc.Data) - rc.ReadIndex
}
