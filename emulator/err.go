package emulator

import (
	"errors"
	"strconv"

	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	ErrRunning    = errors.New(f("emulator already running"))
	ErrNotRunning = errors.New(f("emulator not running"))
	ErrStopped    = errors.New(f("emulator stopped"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Ip     int64
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("line %s: %v", strconv.Itoa(err.LineNo), err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
