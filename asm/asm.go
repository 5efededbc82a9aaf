// Package asm implements a single-pass assembler for the chip's
// instruction set. It supports labels, EQU equates, ORG and DW
// directives, ';' comments, and compile-time $(...) constant
// expressions evaluated with Starlark. Forward references are allowed
// for GOTO and CALL targets and patched once the label is seen.
package asm

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/MasonDill/pic10-emulator/emu"
	"github.com/MasonDill/pic10-emulator/insts"
	"github.com/MasonDill/pic10-emulator/nbit"
)

// Predefined system equates: the special function register addresses.
var sysEquate = map[string]string{
	"LINENO": "0",
	"INDF":   fmt.Sprintf("%#v", emu.RegINDF),
	"TMR0":   fmt.Sprintf("%#v", emu.RegTMR0),
	"PCL":    fmt.Sprintf("%#v", emu.RegPCL),
	"STATUS": fmt.Sprintf("%#v", emu.RegSTATUS),
	"FSR":    fmt.Sprintf("%#v", emu.RegFSR),
	"OSCCAL": fmt.Sprintf("%#v", emu.RegOSCCAL),
	"GPIO":   fmt.Sprintf("%#v", emu.RegGPIO),
	"CMCON0": fmt.Sprintf("%#v", emu.RegCMCON0),
}

// mnemonicFor maps spelled-out mnemonics to their enum values.
var mnemonicFor = func() map[string]insts.Mnemonic {
	m := make(map[string]insts.Mnemonic)
	for _, d := range insts.Opcodes() {
		m[d.Name] = d.Mnemonic
	}
	return m
}()

// Assembler is a single-pass assembler producing flashable images.
type Assembler struct {
	Verbose bool // If set, verbosely logs the assembler actions.

	Label  map[string]uint16 // Map of labels to word addresses.
	Equate map[string]string // Map of equates.

	predefine map[string]string
	image     [emu.ProgramWords]nbit.Number
	pc        uint16
	words     int
	fixups    []fixup
}

// Program is an assembled image ready for flashing.
type Program struct {
	// Image is the full program memory image; unassembled addresses
	// read as erased flash.
	Image [emu.ProgramWords]nbit.Number

	// Words is the number of instruction words assembled.
	Words int

	// Labels maps the source labels to their word addresses.
	Labels map[string]uint16
}

// fixup is a branch whose target label was not yet defined when the
// word was emitted.
type fixup struct {
	addr     uint16
	label    string
	mnemonic insts.Mnemonic
	lineNo   int
	line     string
}

// Predefine defines an equate before assembly begins.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// Assemble parses an input stream into a Program.
func (asm *Assembler) Assemble(input io.Reader) (*Program, error) {
	scanner := bufio.NewScanner(input)

	asm.Label = make(map[string]uint16, 16)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}
	asm.pc = 0
	asm.words = 0
	asm.fixups = asm.fixups[:0]
	for i := range asm.image {
		asm.image[i] = nbit.U12(emu.ErasedWord)
	}

	lineno := 0
	for scanner.Scan() {
		text := scanner.Text()
		lineno++

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		line := strings.TrimSpace(strings.Split(text, ";")[0])
		if err := asm.parseLine(line, lineno); err != nil {
			return nil, &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if err := asm.resolveFixups(); err != nil {
		return nil, err
	}

	return &Program{
		Image:  asm.image,
		Words:  asm.words,
		Labels: maps.Clone(asm.Label),
	}, nil
}

// parenRe matches compile-time $(...) expressions.
var parenRe = regexp.MustCompile(`\$\([^\$]*\)`)

// parseLine assembles a single comment-stripped line.
func (asm *Assembler) parseLine(line string, lineno int) (err error) {
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	line = parenRe.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#v", value)
	})
	if err != nil {
		return
	}

	words := strings.Fields(line)
	if len(words) == 0 {
		return
	}

	// NAME EQU VALUE
	if len(words) >= 2 && strings.EqualFold(words[1], "EQU") {
		if len(words) != 3 {
			return ErrEquateSyntax
		}
		if _, ok := asm.Equate[words[0]]; ok {
			return ErrEquateDuplicate
		}
		asm.Equate[words[0]] = words[2]
		return
	}

	for n, word := range words {
		if equate, ok := asm.Equate[word]; ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		if _, ok := asm.Label[label]; ok {
			return ErrLabelDuplicate
		}
		asm.Label[label] = asm.pc
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	switch strings.ToUpper(words[0]) {
	case "ORG":
		return asm.parseOrg(words[1:])
	case "DW":
		return asm.parseDw(words[1:])
	}

	return asm.parseInstruction(words, lineno, line)
}

// parseOrg moves the location counter.
func (asm *Assembler) parseOrg(words []string) error {
	if len(words) != 1 {
		return ErrOrgSyntax
	}
	value, err := asm.valueOf(words[0])
	if err != nil {
		return err
	}
	if value >= emu.ProgramWords {
		return ErrAddressOverflow
	}
	asm.pc = value
	return nil
}

// parseDw emits a raw data word.
func (asm *Assembler) parseDw(words []string) error {
	if len(words) != 1 {
		return ErrDwSyntax
	}
	value, err := asm.valueOf(words[0])
	if err != nil {
		return err
	}
	if value > 0xFFF {
		return ErrDwRange
	}
	return asm.emit(nbit.U12(value))
}

// parseInstruction assembles one mnemonic with its operand list.
func (asm *Assembler) parseInstruction(words []string, lineno int, line string) error {
	mnemonic, ok := mnemonicFor[strings.ToUpper(words[0])]
	if !ok {
		return ErrMnemonicUnknown
	}

	operands := splitOperands(words[1:])

	switch mnemonic {
	case insts.OpNOP, insts.OpCLRW, insts.OpCLRWDT, insts.OpOPTION, insts.OpSLEEP:
		if len(operands) != 0 {
			return ErrOperandExtra
		}
		return asm.encode(mnemonic)

	case insts.OpMOVLW, insts.OpRETLW, insts.OpIORLW, insts.OpANDLW, insts.OpXORLW:
		k, err := asm.operandValue(operands, 0, 1)
		if err != nil {
			return err
		}
		return asm.encode(mnemonic, k)

	case insts.OpGOTO, insts.OpCALL:
		return asm.parseBranch(mnemonic, operands, lineno, line)

	case insts.OpMOVWF, insts.OpCLRF:
		f, err := asm.operandValue(operands, 0, 1)
		if err != nil {
			return err
		}
		return asm.encode(mnemonic, f)

	case insts.OpBCF, insts.OpBSF, insts.OpBTFSC, insts.OpBTFSS:
		f, err := asm.operandValue(operands, 0, 2)
		if err != nil {
			return err
		}
		b, err := asm.operandValue(operands, 1, 2)
		if err != nil {
			return err
		}
		return asm.encode(mnemonic, f, b)

	case insts.OpTRIS:
		return asm.parseTris(operands)

	default:
		// Two-operand ALU instructions: f with an optional
		// destination, defaulting to the file register.
		if len(operands) == 0 {
			return ErrOperandMissing
		}
		if len(operands) > 2 {
			return ErrOperandExtra
		}
		f, err := asm.valueOf(operands[0])
		if err != nil {
			return err
		}
		d := uint16(1)
		if len(operands) == 2 {
			if d, err = destValue(operands[1]); err != nil {
				return err
			}
		}
		return asm.encode(mnemonic, f, d)
	}
}

// parseBranch assembles GOTO and CALL, deferring unknown targets.
func (asm *Assembler) parseBranch(mnemonic insts.Mnemonic, operands []string, lineno int, line string) error {
	if len(operands) == 0 {
		return ErrOperandMissing
	}
	if len(operands) > 1 {
		return ErrOperandExtra
	}

	target := operands[0]
	if value, err := asm.valueOf(target); err == nil {
		return asm.encode(mnemonic, value)
	}
	if addr, ok := asm.Label[target]; ok {
		return asm.encode(mnemonic, addr)
	}

	// Forward reference: emit a placeholder and patch at the end.
	asm.fixups = append(asm.fixups, fixup{
		addr:     asm.pc,
		label:    target,
		mnemonic: mnemonic,
		lineNo:   lineno,
		line:     line,
	})
	return asm.encode(mnemonic, 0)
}

// parseTris accepts the register-file spelling (5..7) and the raw
// peripheral select (1..3); GPIO itself is select 2.
func (asm *Assembler) parseTris(operands []string) error {
	f, err := asm.operandValue(operands, 0, 1)
	if err != nil {
		return err
	}
	switch {
	case f >= 5 && f <= 7:
		return asm.encode(insts.OpTRIS, f&3)
	case f >= 1 && f <= 3:
		return asm.encode(insts.OpTRIS, f)
	default:
		return ErrTrisInvalid
	}
}

// encode emits one machine word through the instruction encoder.
func (asm *Assembler) encode(mnemonic insts.Mnemonic, operands ...uint16) error {
	word, err := insts.Encode(mnemonic, operands...)
	if err != nil {
		return err
	}
	return asm.emit(word)
}

// emit places a word at the location counter.
func (asm *Assembler) emit(word nbit.Number) error {
	if asm.pc >= emu.ProgramWords {
		return ErrAddressOverflow
	}
	asm.image[asm.pc] = word
	asm.pc++
	asm.words++
	return nil
}

// resolveFixups patches the branches whose labels were defined after
// the branch was emitted.
func (asm *Assembler) resolveFixups() error {
	for _, fix := range asm.fixups {
		addr, ok := asm.Label[fix.label]
		if !ok {
			return &ErrSyntax{
				LineNo: fix.lineNo,
				Line:   fix.line,
				Err:    ErrLabelMissing(fix.label),
			}
		}
		word, err := insts.Encode(fix.mnemonic, addr)
		if err != nil {
			return &ErrSyntax{LineNo: fix.lineNo, Line: fix.line, Err: err}
		}
		asm.image[fix.addr] = word
	}
	return nil
}

// operandValue resolves operands[index] to a number, requiring exactly
// want operands when index is the last.
func (asm *Assembler) operandValue(operands []string, index, want int) (uint16, error) {
	if len(operands) > want {
		return 0, ErrOperandExtra
	}
	if index >= len(operands) {
		return 0, ErrOperandMissing
	}
	return asm.valueOf(operands[index])
}

// valueOf resolves a word to a number: an equate, then a literal in
// any base strconv accepts, then an already-defined label.
func (asm *Assembler) valueOf(word string) (uint16, error) {
	if equate, ok := asm.Equate[word]; ok {
		word = equate
	}
	if v, err := strconv.ParseUint(word, 0, 16); err == nil {
		return uint16(v), nil
	}
	if addr, ok := asm.Label[word]; ok {
		return addr, nil
	}
	return 0, ErrParseNumber(word)
}

// destValue parses the destination select of a two-operand ALU
// instruction.
func destValue(word string) (uint16, error) {
	switch strings.ToUpper(word) {
	case "W", "0":
		return 0, nil
	case "F", "1":
		return 1, nil
	default:
		return 0, ErrDestInvalid
	}
}

// splitOperands rejoins the fields after the mnemonic and splits them
// on commas, so "0x10, F" and "0x10,F" parse alike.
func splitOperands(words []string) []string {
	joined := strings.TrimSpace(strings.Join(words, " "))
	if joined == "" {
		return nil
	}
	parts := strings.Split(joined, ",")
	for n, part := range parts {
		parts[n] = strings.TrimSpace(part)
	}
	return parts
}

// parenEval does compile-time $(...) evaluations. Integer equates and
// the labels defined so far are in scope.
func (asm *Assembler) parenEval(expr string) (value uint16, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		value16, err := asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates.
			continue
		}
		pred[key] = starlark.MakeInt(int(value16))
	}
	for key, addr := range asm.Label {
		pred[key] = starlark.MakeInt(int(addr))
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
	st_int64, ok := st_int.Int64()
	if !ok || st_int64 < 0 || st_int64 > 0xFFFF {
		err = ErrParseExpression(expr)
		return
	}
	value = uint16(st_int64)
	return
}
