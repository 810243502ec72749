package cpu

import (
	"log"
)

// Tracer observes every instruction a Computer is about to execute.
type Tracer interface {
	Trace(cmd Command, base int64)
}

// TracerFunc adapts a function to the Tracer interface.
type TracerFunc func(cmd Command, base int64)

func (tf TracerFunc) Trace(cmd Command, base int64) {
	tf(cmd, base)
}

// LogTracer writes each instruction to a logger.
// A nil Logger uses the standard logger.
type LogTracer struct {
	Logger *log.Logger
}

func (lt LogTracer) Trace(cmd Command, base int64) {
	logger := lt.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Printf("%04d: %-24v rb:%d", cmd.Ip, cmd, base)
}
