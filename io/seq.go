package io

import (
	"iter"
)

// SendAll sends each value to the sink, in order, stopping at the
// first error.
func SendAll(sink Sink, values ...int64) (err error) {
	for _, value := range values {
		err = sink.Send(value)
		if err != nil {
			return
		}
	}
	return
}

// Values returns an iterator over the values received from the source,
// ending when Receive reports an error.
func Values(src Source) iter.Seq[int64] {
	return func(yield func(value int64) bool) {
		for {
			value, err := src.Receive()
			if err != nil {
				return
			}
			if !yield(value) {
				return
			}
		}
	}
}

// Triples groups the values received from the source into consecutive
// runs of three, as used by programs that emit (x, y, value) records.
// A trailing partial group is dropped.
func Triples(src Source) iter.Seq[[3]int64] {
	return func(yield func(triple [3]int64) bool) {
		var triple [3]int64
		var n int
		for value := range Values(src) {
			triple[n] = value
			n++
			if n == 3 {
				if !yield(triple) {
					return
				}
				n = 0
			}
		}
	}
}
