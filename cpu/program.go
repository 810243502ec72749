package cpu

import (
	"bufio"
	"io"
	"iter"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Statement is one source line of a program and the words it produced.
type Statement struct {
	LineNo    int            // Source line number, starting at 1.
	Ip        int64          // Address of the first word.
	Words     []string       // Source words.
	Codes     []int64        // Generated words.
	LinkLabel map[int]string // Code index to label, resolved at link time.
}

// Program is a sequence of statements laid out from address 0.
type Program struct {
	Statements []Statement

	patch map[int64]int64
}

type Debug struct {
	*Statement
	Index int
}

// NewProgram creates a program from raw words.
func NewProgram(words ...int64) (prog *Program) {
	prog = &Program{}
	if len(words) > 0 {
		prog.Statements = []Statement{{LineNo: 1, Codes: slices.Clone(words)}}
	}
	return
}

// Len returns the number of words in the program.
// Pokes do not change its length.
func (prog *Program) Len() (size int64) {
	if len(prog.Statements) > 0 {
		last := prog.Statements[len(prog.Statements)-1]
		size = last.Ip + int64(len(last.Codes))
	}
	return
}

// Poke overrides the word at addr when the program is loaded.
// The address may lie anywhere in memory, not just within the program.
// Some programs select an alternate mode this way, for example by
// setting address 0 to 2.
func (prog *Program) Poke(addr int64, value int64) {
	if prog.patch == nil {
		prog.patch = make(map[int64]int64)
	}
	prog.patch[addr] = value
}

// Pokes returns an iterator over the pending pokes.
func (prog *Program) Pokes() iter.Seq2[int64, int64] {
	return maps.All(prog.patch)
}

// Debug finds the statement that generated the word at ip.
func (prog *Program) Debug(ip int64) (dbg Debug) {
	for n, op := range prog.Statements {
		if ip >= op.Ip && ip < op.Ip+int64(len(op.Codes)) {
			dbg = Debug{
				Statement: &prog.Statements[n],
				Index:     int(ip - op.Ip),
			}
			break
		}
	}

	return
}

// Binary returns the program words, with any pokes that fall within
// the program applied.
func (prog *Program) Binary() (bins []int64) {
	bins = make([]int64, prog.Len())
	for ip, code := range prog.Codes() {
		bins[ip] = code
	}
	for addr, value := range prog.patch {
		if addr >= 0 && addr < int64(len(bins)) {
			bins[addr] = value
		}
	}

	return
}

// Memory returns a fresh memory loaded with the program, with every
// poke applied.
func (prog *Program) Memory() (mem *Memory) {
	mem = NewMemory(prog.Binary())
	for addr, value := range prog.patch {
		mem.Write(addr, value)
	}

	return
}

// Codes returns an iterator over the generated words and their addresses.
func (prog *Program) Codes() iter.Seq2[int64, int64] {
	return func(yield func(ip int64, code int64) bool) {
		for _, op := range prog.Statements {
			for n, code := range op.Codes {
				if !yield(op.Ip+int64(n), code) {
					return
				}
			}
		}
	}
}

// Unmarshal loads a program from comma-separated decimal text, replacing
// the current contents. Line breaks are treated as separators.
func (prog *Program) Unmarshal(input io.Reader) (err error) {
	scanner := bufio.NewScanner(input)
	scanner.Buffer(nil, 1<<24)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	prog.Statements = nil
	clear(prog.patch)

	var ip int64
	for scanner.Scan() {
		lineno++
		line = strings.TrimSpace(scanner.Text())
		if len(line) == 0 {
			continue
		}

		words := strings.Split(line, ",")
		// Allow a trailing separator.
		if len(words) > 1 && len(strings.TrimSpace(words[len(words)-1])) == 0 {
			words = words[:len(words)-1]
		}

		statement := Statement{LineNo: lineno, Ip: ip}
		for _, word := range words {
			word = strings.TrimSpace(word)
			var value int64
			value, err = strconv.ParseInt(word, 10, 64)
			if err != nil {
				err = ErrParseNumber(word)
				return
			}
			statement.Words = append(statement.Words, word)
			statement.Codes = append(statement.Codes, value)
		}

		prog.Statements = append(prog.Statements, statement)
		ip += int64(len(statement.Codes))
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if len(prog.Statements) == 0 {
		err = ErrProgramEmpty
		return
	}

	return
}

// Marshal writes the program words as a single line of comma-separated
// decimal words. Pokes outside the program are not written.
func (prog *Program) Marshal(output io.Writer) (err error) {
	bins := prog.Binary()

	words := make([]string, len(bins))
	for n, word := range bins {
		words[n] = strconv.FormatInt(word, 10)
	}

	_, err = io.WriteString(output, strings.Join(words, ",")+"\n")

	return
}

// String returns the program words as comma-separated decimal words.
func (prog *Program) String() string {
	var text strings.Builder
	prog.Marshal(&text)
	return strings.TrimSuffix(text.String(), "\n")
}
