// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// MACRO_DEPTH_LIMIT is the deepest nesting of macro expansions.
const MACRO_DEPTH_LIMIT = 16

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":         "0",
	"MODE_POSITION":  fmt.Sprintf("%d", MODE_POSITION),
	"MODE_IMMEDIATE": fmt.Sprintf("%d", MODE_IMMEDIATE),
	"MODE_RELATIVE":  fmt.Sprintf("%d", MODE_RELATIVE),
}

// opcodeAlias maps alternate mnemonics to the canonical ones.
var opcodeAlias = map[string]string{
	"mult":   "mul",
	"input":  "in",
	"output": "out",
	"jt":     "jnz",
	"jf":     "jz",
	"rbo":    "arb",
	"halt":   "hlt",
}

var (
	reLabel     = regexp.MustCompile(`^[A-Za-z_.][A-Za-z0-9_.]*$`)
	reCharacter = regexp.MustCompile(`'\\?[^']'`)
	reParen     = regexp.MustCompile(`\$\([^\$]*\)`)
)

// Assembler is a single pass macro assembler for intcode.
//
// Each line holds optional 'label:' prefixes followed by an instruction,
// a directive, or a macro invocation. Operands are written as
// 'value' (position), '#value' (immediate) or '@value' (relative).
// A value may be a number, a label, an equate, a 'c' character,
// or a $(...) compile-time expression.
type Assembler struct {
	Verbose   bool        // If set, verbosely logs the assembler actions.
	Statement []Statement // List of generated statements.

	predefine map[string]string   // Predefines
	Label     map[string]int64    // Map of labels to addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.

	expansion int // Count of macro expansions, for local labels.
	depth     int // Current macro nesting.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// splitWords splits a line on spaces, tabs and commas.
func splitWords(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})
}

// stripComment removes a trailing ';' comment from a line. A ';' inside
// a character literal does not start a comment.
func stripComment(text string) string {
	start := 0
	for _, loc := range reCharacter.FindAllStringIndex(text, -1) {
		if n := strings.IndexByte(text[start:loc[0]], ';'); n >= 0 {
			return text[:start+n]
		}
		start = loc[1]
	}
	if n := strings.IndexByte(text[start:], ';'); n >= 0 {
		return text[:start+n]
	}
	return text
}

// splitMode separates an operand's addressing mode prefix from its value.
func splitMode(word string) (mode Mode, value string) {
	mode = MODE_POSITION
	value = word
	if len(word) > 1 {
		switch word[0] {
		case '#':
			mode = MODE_IMMEDIATE
			value = word[1:]
		case '@':
			mode = MODE_RELATIVE
			value = word[1:]
		}
	}
	return
}

// valueOf returns the value of a simple word, or the label it names.
func (asm *Assembler) valueOf(word string) (value int64, label string, err error) {
	value, err = strconv.ParseInt(word, 0, 64)
	if err == nil {
		return
	}

	if reLabel.MatchString(word) {
		err = nil
		label = word
		return
	}

	err = ErrParseNumber(word)
	return
}

// operand parses an instruction operand.
func (asm *Assembler) operand(word string) (ptr Pointer, label string, err error) {
	mode, text := splitMode(word)

	value, label, err := asm.valueOf(text)
	if err != nil {
		return
	}

	ptr = Pointer{Mode: mode, Value: value}
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var v64 int64
		v64, err = strconv.ParseInt(str, 0, 64)
		if err != nil {
			// Ignore non-integer equates. They may be labels
			// or something else.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	for key, ip := range asm.Label {
		if _, ok := pred[key]; !ok {
			pred[key] = starlark.MakeInt64(ip)
		}
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// parseLine parses a single line into words, handling character and
// expression substitution, equates, labels and macro expansion.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	line = reCharacter.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "t":
				str = "\t"
			case "e":
				str = "\033"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	line = reParen.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	words = splitWords(line)

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		value := words[2]
		if equate, ok := asm.Equate[value]; ok {
			value = equate
		}
		asm.Equate[words[1]] = value
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next, keeping any mode prefix.
		mode, name := splitMode(word)
		equate, ok := asm.Equate[name]
		if !ok {
			continue
		}
		if mode == MODE_POSITION {
			words[n] = equate
		} else {
			words[n] = mode.Prefix() + equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		if !reLabel.MatchString(label) {
			err = ErrLabelInvalid
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int64, 16)
		}
		asm.Label[label] = asm.currentIp()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		if asm.depth >= MACRO_DEPTH_LIMIT {
			err = ErrMacroDepth
			return
		}
		asm.depth++
		asm.expansion++
		local := fmt.Sprintf("%v_%v_", name, asm.expansion)

		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = args[n]
		}
		defer func() {
			asm.Equate = old_equate
			asm.depth--
		}()

		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "%", local)
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				return
			}

			err = asm.parseWords(words, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// currentIp gets the address of the next generated word.
func (asm *Assembler) currentIp() int64 {
	if len(asm.Statement) == 0 {
		return 0
	}

	last := asm.Statement[len(asm.Statement)-1]

	return last.Ip + int64(len(last.Codes))
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Statement = asm.Statement[:0]
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}
	asm.expansion = 0
	asm.depth = 0

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		line = strings.TrimSpace(stripComment(text))
		words := splitWords(line)

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of labels.
	for n := range asm.Statement {
		op := &asm.Statement[n]

		for index, label := range op.LinkLabel {
			ip, ok := asm.Label[label]
			if !ok {
				lineno = op.LineNo
				line = strings.Join(op.Words, " ")
				err = ErrLabelMissing(label)
				return
			}
			op.Codes[index] = ip
		}
	}

	if asm.Verbose {
		log.Printf("asm: %d statements, %d words", len(asm.Statement), asm.currentIp())
	}

	prog = &Program{
		Statements: slices.Clone(asm.Statement),
	}

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var codes []int64
	var links map[int]string

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := slices.Clone(words)

	defer func() {
		if len(codes) == 0 || err != nil {
			return
		}
		statement := Statement{LineNo: lineno, Ip: asm.currentIp(), Words: initial_words, Codes: codes, LinkLabel: links}
		asm.Statement = append(asm.Statement, statement)
	}()

	link := func(index int, label string) {
		if len(label) == 0 {
			return
		}
		if links == nil {
			links = make(map[int]string)
		}
		links[index] = label
	}

	// .word VALUE...
	if words[0] == ".word" {
		if len(words) < 2 {
			err = ErrOpcodeValueMissing
			return
		}
		for _, word := range words[1:] {
			var value int64
			var label string
			value, label, err = asm.valueOf(word)
			if err != nil {
				return
			}
			link(len(codes), label)
			codes = append(codes, value)
		}
		return
	}

	name := words[0]
	if alias, ok := opcodeAlias[name]; ok {
		name = alias
	}

	op, ok := LookupOpcode(name)
	if !ok {
		err = ErrInstructionInvalid
		return
	}

	args := words[1:]
	if len(args) < op.Args() {
		err = ErrOpcodeValueMissing
		return
	}
	if len(args) > op.Args() {
		err = ErrOpcodeExtraArgs
		return
	}

	ptrs := make([]Pointer, len(args))
	labels := make([]string, len(args))
	for n, word := range args {
		ptrs[n], labels[n], err = asm.operand(word)
		if err != nil {
			err = errors.Join(argErr[n], err)
			return
		}
		if n == op.Target() && !ptrs[n].Mode.Writable() {
			err = ErrTargetInvalid
			return
		}
	}

	codes = MakeCommand(op, ptrs...).Encode()
	for n, label := range labels {
		link(n+1, label)
	}

	return
}
