// Package loader provides Intel HEX (INHX8M) image loading for the
// chip's program flash. PIC toolchains store each 12-bit instruction
// word as a 16-bit little-endian value, so byte addresses in the hex
// file are twice the word addresses in program memory.
package loader

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/MasonDill/pic10-emulator/emu"
	"github.com/MasonDill/pic10-emulator/nbit"
)

// Intel HEX record types.
const (
	recordData       = 0x00
	recordEOF        = 0x01
	recordExtSegment = 0x02
	recordExtLinear  = 0x04
)

// RecordError reports a malformed or unusable hex record. Line numbers
// are 1-based.
type RecordError struct {
	Line   int
	Reason string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("loader: line %d: %s", e.Line, e.Reason)
}

// Program is a parsed hex image ready for flashing.
type Program struct {
	// Image is the full program memory image. Addresses the hex file
	// does not cover read as erased flash.
	Image [emu.ProgramWords]nbit.Number

	// Words is the number of instruction words the file defined.
	Words int
}

// Load parses an INHX8M file into a Program.
func Load(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open hex file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Read(f)
}

// Read parses INHX8M records from r into a Program. It requires a
// terminating end-of-file record and rejects records that do not fit
// the chip's 512-word, 12-bit program space.
func Read(r io.Reader) (*Program, error) {
	prog := &Program{}
	for i := range prog.Image {
		prog.Image[i] = nbit.U12(emu.ErasedWord)
	}

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		record, err := parseRecord(line, text)
		if err != nil {
			return nil, err
		}

		switch record.kind {
		case recordData:
			if err := prog.apply(line, record); err != nil {
				return nil, err
			}
		case recordEOF:
			return prog, nil
		case recordExtSegment, recordExtLinear:
			for _, b := range record.data {
				if b != 0 {
					return nil, &RecordError{Line: line,
						Reason: "extended addressing is outside the program space"}
				}
			}
		default:
			return nil, &RecordError{Line: line,
				Reason: fmt.Sprintf("unsupported record type 0x%02X", record.kind)}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read hex file: %w", err)
	}
	return nil, &RecordError{Line: line, Reason: "missing end-of-file record"}
}

type record struct {
	addr uint16
	kind uint8
	data []byte
}

// parseRecord decodes and checksums one ":llaaaattdd..cc" line.
func parseRecord(line int, text string) (*record, error) {
	if !strings.HasPrefix(text, ":") {
		return nil, &RecordError{Line: line, Reason: "record does not start with ':'"}
	}

	raw, err := hex.DecodeString(text[1:])
	if err != nil {
		return nil, &RecordError{Line: line, Reason: "record is not valid hex"}
	}
	if len(raw) < 5 {
		return nil, &RecordError{Line: line, Reason: "record too short"}
	}

	count := int(raw[0])
	if len(raw) != count+5 {
		return nil, &RecordError{Line: line,
			Reason: fmt.Sprintf("byte count %d does not match record length", count)}
	}

	sum := uint8(0)
	for _, b := range raw {
		sum += b
	}
	if sum != 0 {
		return nil, &RecordError{Line: line, Reason: "checksum mismatch"}
	}

	return &record{
		addr: uint16(raw[1])<<8 | uint16(raw[2]),
		kind: raw[3],
		data: raw[4 : 4+count],
	}, nil
}

// apply stores a data record's bytes as little-endian words.
func (p *Program) apply(line int, rec *record) error {
	if rec.addr%2 != 0 || len(rec.data)%2 != 0 {
		return &RecordError{Line: line,
			Reason: "data record is not aligned to 16-bit words"}
	}

	for i := 0; i < len(rec.data); i += 2 {
		wordAddr := int(rec.addr)/2 + i/2
		if wordAddr >= emu.ProgramWords {
			return &RecordError{Line: line,
				Reason: fmt.Sprintf("word address 0x%X outside program memory", wordAddr)}
		}

		word := uint16(rec.data[i]) | uint16(rec.data[i+1])<<8
		if word > 0xFFF {
			return &RecordError{Line: line,
				Reason: fmt.Sprintf("word 0x%04X at 0x%X exceeds 12 bits", word, wordAddr)}
		}
		p.Image[wordAddr] = nbit.U12(word)
		p.Words++
	}
	return nil
}
