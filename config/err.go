package config

import (
	"errors"

	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	ErrPatchSyntax  = errors.New(f("patch must be ADDR=VALUE"))
	ErrPatchAddress = errors.New(f("patch address negative"))
)

// ErrKeyUnknown is a configuration key that no setting uses.
type ErrKeyUnknown string

func (err ErrKeyUnknown) Error() string {
	return f("unknown key '%v'", string(err))
}
