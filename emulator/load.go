package emulator

import (
	"io"
	"path/filepath"

	"github.com/ezrec/intcode/cpu"
)

// ASSEMBLY_EXT is the file extension of assembly language source.
const ASSEMBLY_EXT = ".ics"

// Load reads a program from the input. Files named with ASSEMBLY_EXT are
// assembled, anything else is parsed as comma-separated program text.
func Load(name string, input io.Reader, verbose bool) (prog *cpu.Program, err error) {
	if filepath.Ext(name) == ASSEMBLY_EXT {
		asm := &cpu.Assembler{Verbose: verbose}
		prog, err = asm.Parse(input)
		return
	}

	prog = &cpu.Program{}
	err = prog.Unmarshal(input)
	if err != nil {
		prog = nil
	}

	return
}
