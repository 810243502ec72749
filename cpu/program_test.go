package cpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgram_Unmarshal(t *testing.T) {
	assert := assert.New(t)

	text := "1,9,10,3,\n2,3,11,0,\n\n99,30,40,50\n"

	prog := &Program{}
	err := prog.Unmarshal(strings.NewReader(text))
	assert.NoError(err)

	assert.Equal(int64(12), prog.Len())
	assert.Equal([]int64{1, 9, 10, 3, 2, 3, 11, 0, 99, 30, 40, 50}, prog.Binary())

	assert.Equal(3, len(prog.Statements))
	assert.Equal(4, prog.Statements[2].LineNo)
	assert.Equal(int64(8), prog.Statements[2].Ip)

	var out strings.Builder
	assert.NoError(prog.Marshal(&out))
	assert.Equal("1,9,10,3,2,3,11,0,99,30,40,50\n", out.String())
}

func TestProgram_Unmarshal_Spacing(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{}
	err := prog.Unmarshal(strings.NewReader("  104 , -1,\t99 "))
	assert.NoError(err)
	assert.Equal("104,-1,99", prog.String())
	assert.Equal([]string{"104", "-1", "99"}, prog.Statements[0].Words)
}

func TestProgram_Unmarshal_Errors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		text   string
		lineno int
		err    error
	}){
		{"", 0, ErrProgramEmpty},
		{"\n  \n", 2, ErrProgramEmpty},
		{"1,2\n3,,4\n", 2, ErrParseNumber("")},
		{"1,x", 1, ErrParseNumber("x")},
		{"0x10", 1, ErrParseNumber("0x10")},
		{"99999999999999999999", 1, ErrParseNumber("99999999999999999999")},
	}

	for _, entry := range table {
		prog := &Program{}
		err := prog.Unmarshal(strings.NewReader(entry.text))
		assert.ErrorIs(err, entry.err, entry.text)

		var syntax *ErrSyntax
		if assert.True(errors.As(err, &syntax), entry.text) {
			assert.Equal(entry.lineno, syntax.LineNo, entry.text)
		}
	}
}

func TestProgram_Poke(t *testing.T) {
	assert := assert.New(t)

	prog := NewProgram(1, 0, 0, 0, 99)
	prog.Poke(1, 12)
	prog.Poke(2, 2)
	assert.Equal(int64(5), prog.Len())
	assert.Equal([]int64{1, 12, 2, 0, 99}, prog.Binary())

	// The source words are untouched.
	var codes []int64
	for _, code := range prog.Codes() {
		codes = append(codes, code)
	}
	assert.Equal([]int64{1, 0, 0, 0, 99}, codes)

	// Pokes past the end are applied to memory only.
	prog.Poke(7, -1)
	assert.Equal(int64(5), prog.Len())
	assert.Equal([]int64{1, 12, 2, 0, 99}, prog.Binary())
	assert.Equal([]int64{1, 12, 2, 0, 99, 0, 0, -1}, prog.Memory().Words(8))

	pokes := map[int64]int64{}
	for addr, value := range prog.Pokes() {
		pokes[addr] = value
	}
	assert.Equal(map[int64]int64{1: 12, 2: 2, 7: -1}, pokes)

	// Loading new text discards the pokes.
	assert.NoError(prog.Unmarshal(strings.NewReader("99")))
	assert.Equal([]int64{99}, prog.Binary())
}

func TestProgram_Debug(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{}
	assert.NoError(prog.Unmarshal(strings.NewReader("1,0,0,0\n104,5\n99\n")))

	dbg := prog.Debug(0)
	assert.NotNil(dbg.Statement)
	assert.Equal(1, dbg.LineNo)
	assert.Equal(0, dbg.Index)

	dbg = prog.Debug(5)
	assert.NotNil(dbg.Statement)
	assert.Equal(2, dbg.LineNo)
	assert.Equal(1, dbg.Index)

	dbg = prog.Debug(6)
	assert.NotNil(dbg.Statement)
	assert.Equal(3, dbg.LineNo)

	dbg = prog.Debug(7)
	assert.Nil(dbg.Statement)
	assert.Equal(0, dbg.Index)
}

func TestProgram_Empty(t *testing.T) {
	assert := assert.New(t)

	prog := NewProgram()
	assert.Equal(int64(0), prog.Len())
	assert.Empty(prog.Binary())
	assert.Equal("", prog.String())
}

func TestProgram_PokeFar(t *testing.T) {
	assert := assert.New(t)

	const far = 1_000_000_000_000

	prog := NewProgram(4, far, 99)
	prog.Poke(far, 42)
	assert.Equal(int64(3), prog.Len())
	assert.Equal("4,1000000000000,99", prog.String())

	mem := prog.Memory()
	assert.Equal(4, mem.Len())
	value, err := mem.Read(far)
	assert.NoError(err)
	assert.Equal(int64(42), value)

	outputs, err := NewComputerMemory(mem).RunBatch()
	assert.NoError(err)
	assert.Equal([]int64{42}, outputs)
}
