package insts

import (
	"github.com/MasonDill/pic10-emulator/nbit"
)

// Descriptor pairs an opcode's fixed-bit pattern with its mnemonic. The
// pattern's width is the number of fixed opcode bits; the remaining low
// bits of the instruction word are operand fields. A 12-bit pattern is
// an exact word match.
type Descriptor struct {
	Pattern  nbit.Number
	Mnemonic Mnemonic
	Name     string
}

// opcodes is the canonical opcode table, resolved against the baseline
// 12-bit instruction map in the device datasheet. The table is
// build-time constant data and never mutates at runtime. Matching
// iterates it in order and returns the first hit; the patterns are
// mutually exclusive once aligned, so the order only matters for
// determinism, not correctness (see TestTableUnambiguous).
var opcodes = []Descriptor{
	// Byte-oriented file register operations
	{nbit.U6(0b000111), OpADDWF, "ADDWF"},
	{nbit.U6(0b000101), OpANDWF, "ANDWF"},
	{nbit.U7(0b0000011), OpCLRF, "CLRF"},
	{nbit.U12(0b0000_0100_0000), OpCLRW, "CLRW"},
	{nbit.U6(0b001001), OpCOMF, "COMF"},
	{nbit.U6(0b000011), OpDECF, "DECF"},
	{nbit.U6(0b001011), OpDECFSZ, "DECFSZ"},
	{nbit.U6(0b001010), OpINCF, "INCF"},
	{nbit.U6(0b001111), OpINCFSZ, "INCFSZ"},
	{nbit.U6(0b000100), OpIORWF, "IORWF"},
	{nbit.U6(0b001000), OpMOVF, "MOVF"},
	{nbit.U7(0b0000001), OpMOVWF, "MOVWF"},
	{nbit.U12(0b0000_0000_0000), OpNOP, "NOP"},
	{nbit.U6(0b001101), OpRLF, "RLF"},
	{nbit.U6(0b001100), OpRRF, "RRF"},
	{nbit.U6(0b000010), OpSUBWF, "SUBWF"},
	{nbit.U6(0b001110), OpSWAPF, "SWAPF"},
	{nbit.U6(0b000110), OpXORWF, "XORWF"},

	// Bit-oriented file register operations
	{nbit.U4(0b0100), OpBCF, "BCF"},
	{nbit.U4(0b0101), OpBSF, "BSF"},
	{nbit.U4(0b0110), OpBTFSC, "BTFSC"},
	{nbit.U4(0b0111), OpBTFSS, "BTFSS"},

	// Literal and control operations
	{nbit.U4(0b1110), OpANDLW, "ANDLW"},
	{nbit.U4(0b1001), OpCALL, "CALL"},
	{nbit.U12(0b0000_0000_0100), OpCLRWDT, "CLRWDT"},
	{nbit.U3(0b101), OpGOTO, "GOTO"},
	{nbit.U4(0b1101), OpIORLW, "IORLW"},
	{nbit.U4(0b1100), OpMOVLW, "MOVLW"},
	{nbit.U12(0b0000_0000_0010), OpOPTION, "OPTION"},
	{nbit.U4(0b1000), OpRETLW, "RETLW"},
	{nbit.U12(0b0000_0000_0011), OpSLEEP, "SLEEP"},
	{nbit.U12(0b0000_0000_0101), OpTRIS, "TRIS"},
	{nbit.U12(0b0000_0000_0110), OpTRIS, "TRIS"},
	{nbit.U12(0b0000_0000_0111), OpTRIS, "TRIS"},
	{nbit.U4(0b1111), OpXORLW, "XORLW"},
}

// Opcodes returns the opcode descriptor table in matching order. The
// returned slice is shared, read-only data; callers must not modify it.
func Opcodes() []Descriptor {
	return opcodes
}
