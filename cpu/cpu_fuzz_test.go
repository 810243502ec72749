package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/intcode/io"
)

func FuzzCommand(f *testing.F) {
	for _, word := range []int64{1, 99, 1002, 21101, 203, 22299, 301, -1, 0, 1 << 40} {
		f.Add(word, int64(7), int64(-3), int64(11))
	}

	f.Fuzz(func(t *testing.T, word int64, a, b, c int64) {
		assert := assert.New(t)

		mem := NewMemory([]int64{word, a, b, c})

		cmd, err := DecodeCommand(mem, 0)
		if err != nil {
			assert.ErrorIs(err, ErrDecodeFault)
			return
		}

		assert.Equal(Opcode(word%OPCODE_MODULUS), cmd.Op)
		assert.Equal(int64(1+cmd.Op.Args()), cmd.Len())

		words := cmd.Encode()
		assert.Equal(cmd.Len(), int64(len(words)))
		assert.Equal([]int64{a, b, c}[:cmd.Op.Args()], words[1:])

		again, err := DecodeCommand(NewMemory(words), 0)
		assert.NoError(err)
		assert.Equal(cmd.Args, again.Args)
		assert.Equal(cmd.String(), again.String())
	})
}

func FuzzComputer(f *testing.F) {
	f.Add([]byte{1, 0, 0, 0, 99}, int64(1))
	f.Add([]byte{3, 0, 4, 0, 99}, int64(5))
	f.Add([]byte{109, 1, 204, 255, 99}, int64(0))

	f.Fuzz(func(t *testing.T, data []byte, input int64) {
		assert := assert.New(t)

		program := make([]int64, len(data))
		for n, b := range data {
			program[n] = int64(b)
		}

		cpu := NewComputer(program)
		rom := &io.Rom{Data: []int64{input}}
		var outputs []int64
		out := &observer{send: func(v int64) { outputs = append(outputs, v) }}

		// Loops are bounded by the tick limit.
		for range 1000 {
			err := cpu.Tick(rom, out)
			if err == ErrHalted {
				assert.True(cpu.Halted())
				assert.LessOrEqual(len(outputs), cpu.Ticks())
				return
			}
			if err != nil {
				var fault *ErrFault
				assert.ErrorAs(err, &fault)
				assert.Equal(err, cpu.Tick(rom, nil))
				return
			}
		}
	})
}
