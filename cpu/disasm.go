package cpu

import (
	"iter"
	"strconv"
)

// Disassemble returns an iterator over the instructions of a memory image
// and their addresses. Words that do not decode to a complete instruction
// are listed as '.word' data.
func Disassemble(words []int64) iter.Seq2[int64, string] {
	return func(yield func(ip int64, text string) bool) {
		mem := NewMemory(words)
		size := int64(len(words))

		for ip := int64(0); ip < size; {
			cmd, err := DecodeCommand(mem, ip)
			if err != nil || ip+cmd.Len() > size {
				if !yield(ip, ".word "+strconv.FormatInt(words[ip], 10)) {
					return
				}
				ip++
				continue
			}

			if !yield(ip, cmd.String()) {
				return
			}
			ip += cmd.Len()
		}
	}
}
