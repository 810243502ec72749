package cpu

import (
	"errors"
	"strconv"

	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	// Fault classes
	ErrDecodeFault      = errors.New(f("decode fault"))
	ErrWriteTargetFault = errors.New(f("write target fault"))
	ErrChannelFault     = errors.New(f("channel fault"))
	ErrAddressFault     = errors.New(f("address fault"))

	// Cpu errors
	ErrHalted         = errors.New(f("halted"))
	ErrOpcodeInvalid  = errors.New(f("invalid opcode"))
	ErrModeInvalid    = errors.New(f("unsupported addressing mode"))
	ErrWriteImmediate = errors.New(f("write to immediate"))
	ErrInputClosed    = errors.New(f("input disconnected"))
	ErrOutputClosed   = errors.New(f("output disconnected"))

	// Operand positions
	ErrOpcodeArg1 = errors.New(f("arg1"))
	ErrOpcodeArg2 = errors.New(f("arg2"))
	ErrOpcodeArg3 = errors.New(f("arg3"))

	// Program errors
	ErrProgramEmpty = errors.New(f("program empty"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrLabelInvalid       = errors.New(f("label invalid"))
	ErrMacroSyntax        = errors.New(f(".macro syntax"))
	ErrMacroNesting       = errors.New(f(".macro in .macro prohibited"))
	ErrMacroDuplicate     = errors.New(f(".macro duplicated"))
	ErrMacroLonely        = errors.New(f(".macro without .endm"))
	ErrMacroLonelyEndm    = errors.New(f(".endm without .macro"))
	ErrMacroDepth         = errors.New(f(".macro expansion too deep"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrTargetInvalid      = errors.New(f("target invalid"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
)

// argErr maps an operand index to its position error.
var argErr = [3]error{ErrOpcodeArg1, ErrOpcodeArg2, ErrOpcodeArg3}

// ErrAddress is a memory access at a negative address.
type ErrAddress int64

func (ea ErrAddress) Error() string {
	return f("address %s out of range", strconv.FormatInt(int64(ea), 10))
}

func (ea ErrAddress) Is(err error) (ok bool) {
	_, ok = err.(ErrAddress)
	return ok || err == ErrAddressFault
}

// ErrFault is a fatal fault raised while executing an instruction.
// It identifies the program counter and the raw instruction word.
type ErrFault struct {
	Ip   int64
	Word int64
	Err  error
}

func (err *ErrFault) Error() string {
	return f("ip %s word %s %v",
		strconv.FormatInt(err.Ip, 10),
		strconv.FormatInt(err.Word, 10),
		err.Err)
}

func (err *ErrFault) Unwrap() error {
	return err.Err
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %s '%v' %v", strconv.Itoa(err.LineNo), err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrMacro struct {
	Macro string
	Line  int
	Err   error
}

func (err ErrMacro) Error() string {
	return f("macro %v line %s %v", err.Macro, strconv.Itoa(err.Line), err.Err)
}

func (err ErrMacro) Unwrap() error {
	return err.Err
}
