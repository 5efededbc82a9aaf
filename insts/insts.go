// Package insts provides PIC10F200 instruction definitions, decoding,
// and encoding.
//
// The chip executes a 12-bit instruction word. Opcode layouts overlap
// across the four instruction categories and operand fields shift
// position and width per instruction, so all bit offsets here follow the
// baseline 12-bit instruction map in the device datasheet.
//
// Usage:
//
//	inst := insts.NewInstruction(nbit.U12(0x0C55))
//	fmt.Printf("%v k=0x%02X\n", inst.Mnemonic, inst.Literal()) // MOVLW k=0x55
package insts

import (
	"fmt"

	"github.com/MasonDill/pic10-emulator/nbit"
)

// Mnemonic identifies an instruction by its symbolic name.
type Mnemonic uint8

// The PIC10F200 mnemonic set. OpUndefined is the decode result for raw
// words that match no opcode pattern; it is a first-class decoded state,
// not an error. OpMOVLB, OpRETURN, and OpRETFIE belong to larger parts
// in the family and have no encoding on this variant.
const (
	OpUndefined Mnemonic = iota

	// Byte-oriented file register operations
	OpADDWF
	OpANDWF
	OpCLRF
	OpCLRW
	OpCOMF
	OpDECF
	OpDECFSZ
	OpINCF
	OpINCFSZ
	OpIORWF
	OpMOVF
	OpMOVWF
	OpRLF
	OpRRF
	OpSUBWF
	OpSWAPF
	OpXORWF

	// Bit-oriented file register operations
	OpBCF
	OpBSF
	OpBTFSC
	OpBTFSS

	// Literal and control operations
	OpANDLW
	OpCALL
	OpCLRWDT
	OpGOTO
	OpIORLW
	OpMOVLW
	OpNOP
	OpOPTION
	OpRETLW
	OpSLEEP
	OpTRIS
	OpXORLW

	// Family mnemonics with no encoding on this part
	OpMOVLB
	OpRETURN
	OpRETFIE
)

var mnemonicNames = map[Mnemonic]string{
	OpUndefined: "UND",
	OpADDWF:     "ADDWF",
	OpANDWF:     "ANDWF",
	OpCLRF:      "CLRF",
	OpCLRW:      "CLRW",
	OpCOMF:      "COMF",
	OpDECF:      "DECF",
	OpDECFSZ:    "DECFSZ",
	OpINCF:      "INCF",
	OpINCFSZ:    "INCFSZ",
	OpIORWF:     "IORWF",
	OpMOVF:      "MOVF",
	OpMOVWF:     "MOVWF",
	OpRLF:       "RLF",
	OpRRF:       "RRF",
	OpSUBWF:     "SUBWF",
	OpSWAPF:     "SWAPF",
	OpXORWF:     "XORWF",
	OpBCF:       "BCF",
	OpBSF:       "BSF",
	OpBTFSC:     "BTFSC",
	OpBTFSS:     "BTFSS",
	OpANDLW:     "ANDLW",
	OpCALL:      "CALL",
	OpCLRWDT:    "CLRWDT",
	OpGOTO:      "GOTO",
	OpIORLW:     "IORLW",
	OpMOVLW:     "MOVLW",
	OpNOP:       "NOP",
	OpOPTION:    "OPTION",
	OpRETLW:     "RETLW",
	OpSLEEP:     "SLEEP",
	OpTRIS:      "TRIS",
	OpXORLW:     "XORLW",
	OpMOVLB:     "MOVLB",
	OpRETURN:    "RETURN",
	OpRETFIE:    "RETFIE",
}

// String returns the assembler spelling of the mnemonic.
func (m Mnemonic) String() string {
	if name, ok := mnemonicNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mnemonic(%d)", uint8(m))
}

// Category classifies an instruction by the two most-significant bits
// of its word, with the 00 region split between miscellaneous and ALU
// operations by a secondary discriminator.
type Category uint8

// Instruction categories.
const (
	CategoryMiscellaneous Category = iota
	CategoryALUOperation
	CategoryBitOperation
	CategoryControlTransfer
	CategoryOperationsWithW
	CategoryUndefined
)

var categoryNames = map[Category]string{
	CategoryMiscellaneous:   "Miscellaneous",
	CategoryALUOperation:    "ALUOperation",
	CategoryBitOperation:    "BitOperation",
	CategoryControlTransfer: "ControlTransfer",
	CategoryOperationsWithW: "OperationsWithW",
	CategoryUndefined:       "Undefined",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Category(%d)", uint8(c))
}

// TRISSelectGPIO is the I/O direction select value addressing GPIO.
const TRISSelectGPIO = 2

// Instruction holds a raw 12-bit word together with its decoded
// mnemonic. It is constructed once per fetch and immutable afterward.
type Instruction struct {
	Raw      nbit.Number
	Mnemonic Mnemonic
}

// NewInstruction decodes the raw word and returns the latched
// instruction. Decoding never fails; unrecognized patterns decode to
// OpUndefined.
func NewInstruction(raw nbit.Number) Instruction {
	word := nbit.U12(raw.Value())
	return Instruction{Raw: word, Mnemonic: Decode(word)}
}

// Field extraction. Each helper is a fixed bit-slice of the raw word;
// offsets follow the opcode layout table.

// Literal returns the 8-bit literal k (bits 7:0).
func (i Instruction) Literal() uint8 {
	return uint8(i.Raw.Value() & 0xFF)
}

// DestinationSelect returns the 1-bit destination select d (bit 5).
// d = 0 stores the result in W, d = 1 stores it in the file register.
func (i Instruction) DestinationSelect() nbit.Number {
	return nbit.U1(i.Raw.Value() >> 5)
}

// FileAddr returns the 5-bit file register address f (bits 4:0).
func (i Instruction) FileAddr() nbit.Number {
	return nbit.U5(i.Raw.Value())
}

// FileAddr7 returns the 7-bit file register address slice (bits 6:0).
// This part's register file only decodes 5 address bits; the wider slice
// serves the family variants whose banked file space needs all seven.
func (i Instruction) FileAddr7() nbit.Number {
	return nbit.U7(i.Raw.Value())
}

// BitIndex returns the 3-bit bit index b (bits 7:5).
func (i Instruction) BitIndex() nbit.Number {
	return nbit.U3(i.Raw.Value() >> 5)
}

// BranchTarget returns the 9-bit branch target (bits 8:0).
func (i Instruction) BranchTarget() nbit.Number {
	return nbit.U9(i.Raw.Value())
}

// BankSelect returns the 3-bit bank-select literal (bits 2:0). No
// instruction on this part carries the field; it exists for family
// compatibility.
func (i Instruction) BankSelect() nbit.Number {
	return nbit.U3(i.Raw.Value())
}

// TRISSelect returns the 2-bit I/O direction select (bits 1:0) of the
// direction-control instruction. Select 2 addresses GPIO.
func (i Instruction) TRISSelect() nbit.Number {
	return nbit.U2(i.Raw.Value())
}

// String renders the instruction in assembler syntax, e.g.
// "MOVLW 0x55", "ADDWF 0x04, W", "BSF 0x03, 2".
func (i Instruction) String() string {
	switch i.Mnemonic {
	case OpADDWF, OpANDWF, OpCOMF, OpDECF, OpDECFSZ, OpINCF, OpINCFSZ,
		OpIORWF, OpMOVF, OpRLF, OpRRF, OpSUBWF, OpSWAPF, OpXORWF:
		dest := "W"
		if i.DestinationSelect().Value() == 1 {
			dest = "F"
		}
		return fmt.Sprintf("%v 0x%02X, %s", i.Mnemonic, i.FileAddr().Value(), dest)
	case OpMOVWF, OpCLRF:
		return fmt.Sprintf("%v 0x%02X", i.Mnemonic, i.FileAddr().Value())
	case OpBCF, OpBSF, OpBTFSC, OpBTFSS:
		return fmt.Sprintf("%v 0x%02X, %d", i.Mnemonic, i.FileAddr().Value(), i.BitIndex().Value())
	case OpGOTO:
		return fmt.Sprintf("%v 0x%03X", i.Mnemonic, i.BranchTarget().Value())
	case OpCALL, OpMOVLW, OpRETLW, OpIORLW, OpANDLW, OpXORLW:
		return fmt.Sprintf("%v 0x%02X", i.Mnemonic, i.Literal())
	case OpTRIS:
		if i.TRISSelect().Value() == TRISSelectGPIO {
			return "TRIS GPIO"
		}
		return fmt.Sprintf("%v %d", i.Mnemonic, i.TRISSelect().Value())
	case OpUndefined:
		return fmt.Sprintf("UND 0x%03X", i.Raw.Value())
	default:
		return i.Mnemonic.String()
	}
}
