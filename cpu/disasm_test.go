package cpu

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func listing(words []int64) (lines []string) {
	for ip, text := range Disassemble(words) {
		lines = append(lines, fmt.Sprintf("%d: %s", ip, text))
	}
	return
}

func TestDisassemble(t *testing.T) {
	assert := assert.New(t)

	quine := []int64{109, 1, 204, -1, 1001, 100, 1, 100, 1008, 100, 16, 101, 1006, 101, 0, 99}

	assert.Equal([]string{
		"0: arb #1",
		"2: out @-1",
		"4: add 100 #1 100",
		"8: eq 100 #16 101",
		"12: jz 101 #0",
		"15: hlt",
	}, listing(quine))
}

func TestDisassemble_Data(t *testing.T) {
	assert := assert.New(t)

	assert.Equal([]string{
		"0: .word 0",
		"1: .word 301",
		"2: out #5",
		"4: .word 1",
		"5: .word 2",
	}, listing([]int64{0, 301, 104, 5, 1, 2}))

	assert.Empty(listing(nil))
}

func TestDisassemble_RoundTrip(t *testing.T) {
	assert := assert.New(t)

	programs := [][]int64{
		{109, 1, 204, -1, 1001, 100, 1, 100, 1008, 100, 16, 101, 1006, 101, 0, 99},
		{3, 21, 1008, 21, 8, 20, 1005, 20, 22, 107, 8, 21, 20, 1006, 20, 31,
			1106, 0, 36, 98, 0, 0, 1002, 21, 125, 20, 4, 20, 1105, 1, 46, 104,
			999, 1105, 1, 46, 1101, 1000, 1, 20, 4, 20, 1105, 1, 46, 98, 99},
		{1102, 34915192, 34915192, 7, 4, 7, 99, 0},
	}

	for _, words := range programs {
		var text []string
		for _, line := range Disassemble(words) {
			text = append(text, line)
		}

		asm := &Assembler{}
		prog, err := asm.Parse(strings.NewReader(strings.Join(text, "\n")))
		if assert.NoError(err) {
			assert.Equal(words, prog.Binary())
		}
	}
}
