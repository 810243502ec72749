package io

// Record is a Sink that keeps every value sent to it, in order.
// It is not safe for concurrent use.
type Record struct {
	Values []int64
	closed bool
}

var _ Sink = (*Record)(nil)

// Send appends a value to the record.
func (rec *Record) Send(value int64) (err error) {
	if rec.closed {
		err = ErrChannelClosed
		return
	}

	rec.Values = append(rec.Values, value)
	return
}

// Close stops the record from accepting further values.
func (rec *Record) Close() (err error) {
	rec.closed = true
	return
}

// Closed reports whether the record has been closed.
func (rec *Record) Closed() bool {
	return rec.closed
}

// Reset clears the recorded values and reopens the record.
func (rec *Record) Reset() {
	rec.Values = nil
	rec.closed = false
}
