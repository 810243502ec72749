package cpu

import (
	"errors"
	"strconv"
	"strings"
)

// Opcode is an intcode operation.
type Opcode int

const (
	OP_ADD  = Opcode(1)  // add
	OP_MUL  = Opcode(2)  // mul
	OP_IN   = Opcode(3)  // in
	OP_OUT  = Opcode(4)  // out
	OP_JNZ  = Opcode(5)  // jnz
	OP_JZ   = Opcode(6)  // jz
	OP_LT   = Opcode(7)  // lt
	OP_EQ   = Opcode(8)  // eq
	OP_ARB  = Opcode(9)  // arb
	OP_HALT = Opcode(99) // hlt
)

const (
	OPCODE_MODULUS = 100 // Opcode digits of an instruction word.
	MODE_MAX_ARGS  = 3   // Most operands carried by any instruction.
)

// opcodeInfo describes the operand layout of each opcode.
// A negative target means the opcode writes no operand.
var opcodeInfo = map[Opcode]struct {
	name   string
	args   int
	target int
}{
	OP_ADD:  {"add", 3, 2},
	OP_MUL:  {"mul", 3, 2},
	OP_IN:   {"in", 1, 0},
	OP_OUT:  {"out", 1, -1},
	OP_JNZ:  {"jnz", 2, -1},
	OP_JZ:   {"jz", 2, -1},
	OP_LT:   {"lt", 3, 2},
	OP_EQ:   {"eq", 3, 2},
	OP_ARB:  {"arb", 1, -1},
	OP_HALT: {"hlt", 0, -1},
}

// Valid returns true for a known opcode.
func (op Opcode) Valid() (ok bool) {
	_, ok = opcodeInfo[op]
	return
}

// Args returns the operand count of the opcode.
func (op Opcode) Args() int {
	return opcodeInfo[op].args
}

// Target returns the index of the operand written by the opcode,
// or -1 if it writes none.
func (op Opcode) Target() int {
	info, ok := opcodeInfo[op]
	if !ok {
		return -1
	}
	return info.target
}

func (op Opcode) String() string {
	info, ok := opcodeInfo[op]
	if !ok {
		return "Opcode(" + strconv.Itoa(int(op)) + ")"
	}
	return info.name
}

// LookupOpcode finds an opcode by its mnemonic.
func LookupOpcode(name string) (op Opcode, ok bool) {
	for op, info := range opcodeInfo {
		if info.name == name {
			return op, true
		}
	}
	return
}

// Command is a single decoded instruction.
type Command struct {
	Ip   int64     // Address of the instruction word.
	Word int64     // Raw instruction word.
	Op   Opcode    // Decoded opcode.
	Args []Pointer // Decoded operands, one per opcode argument.
}

// MakeCommand creates an instruction from an opcode and its operands.
func MakeCommand(op Opcode, args ...Pointer) (cmd Command) {
	cmd = Command{Op: op, Args: args}
	cmd.Word = cmd.Encode()[0]
	return
}

// DecodeCommand decodes the instruction at ip.
func DecodeCommand(mem *Memory, ip int64) (cmd Command, err error) {
	word, err := mem.Read(ip)
	if err != nil {
		return
	}

	cmd = Command{Ip: ip, Word: word, Op: Opcode(word % OPCODE_MODULUS)}

	if !cmd.Op.Valid() {
		err = errors.Join(ErrDecodeFault, ErrOpcodeInvalid)
		return
	}

	modes := word / OPCODE_MODULUS
	args := cmd.Op.Args()
	if args > 0 {
		cmd.Args = make([]Pointer, args)
	}
	for n := range args {
		mode := Mode(modes % 10)
		modes /= 10

		// ip is non-negative here, so the operand read cannot fail.
		offset := int64(n + 1)
		cmd.Args[n], err = DecodePointer(mode, func() (value int64) {
			value, _ = mem.Read(ip + offset)
			return
		})
		if err != nil {
			err = errors.Join(argErr[n], err)
			return
		}
	}

	return
}

// Len returns the encoded length of the instruction in words.
func (cmd Command) Len() int64 {
	return int64(1 + len(cmd.Args))
}

// Encode returns the instruction word followed by its operand words.
func (cmd Command) Encode() (words []int64) {
	word := int64(cmd.Op)
	scale := int64(OPCODE_MODULUS)
	for _, arg := range cmd.Args {
		word += int64(arg.Mode) * scale
		scale *= 10
	}

	words = append(words, word)
	for _, arg := range cmd.Args {
		words = append(words, arg.Value)
	}

	return
}

// String returns the assembly language representation of this instruction.
func (cmd Command) String() string {
	words := []string{cmd.Op.String()}
	for _, arg := range cmd.Args {
		words = append(words, arg.String())
	}
	return strings.Join(words, " ")
}
