package insts

import (
	"fmt"

	"github.com/MasonDill/pic10-emulator/nbit"
)

// Categorize classifies a raw word by its two most-significant bits.
// Within the 00 region, words whose bits 11:5 are all clear form the
// miscellaneous group; everything else there is an ALU operation.
func Categorize(raw nbit.Number) Category {
	word := raw.Value() & 0xFFF
	switch word >> 10 {
	case 0b00:
		if word>>5 == 0 {
			return CategoryMiscellaneous
		}
		return CategoryALUOperation
	case 0b01:
		return CategoryBitOperation
	case 0b10:
		return CategoryControlTransfer
	case 0b11:
		return CategoryOperationsWithW
	}
	// A 12-bit word always lands in one of the four cases above;
	// reaching here means a width invariant was violated upstream.
	panic(fmt.Sprintf("insts: word 0x%X outside the 12-bit domain", word))
}

// Decode maps a raw 12-bit word to its mnemonic using category-first
// classification. Decode never fails: unrecognized patterns return
// OpUndefined. The result agrees with DecodeTable for every word in the
// 12-bit domain.
func Decode(raw nbit.Number) Mnemonic {
	word := raw.Value() & 0xFFF
	switch Categorize(raw) {
	case CategoryMiscellaneous:
		return decodeMiscellaneous(word)
	case CategoryALUOperation:
		return decodeALU(word)
	case CategoryBitOperation:
		// 2-bit sub-field at offset 8
		switch (word >> 8) & 0b11 {
		case 0b00:
			return OpBCF
		case 0b01:
			return OpBSF
		case 0b10:
			return OpBTFSC
		default:
			return OpBTFSS
		}
	case CategoryControlTransfer:
		// Checked against the full high nibble; GOTO spans two of
		// them because its target is 9 bits wide.
		switch word >> 8 {
		case 0x8:
			return OpRETLW
		case 0x9:
			return OpCALL
		default: // 0xA, 0xB
			return OpGOTO
		}
	default: // CategoryOperationsWithW
		// 2-bit sub-field at offset 8
		switch (word >> 8) & 0b11 {
		case 0b00:
			return OpMOVLW
		case 0b01:
			return OpIORLW
		case 0b10:
			return OpANDLW
		default:
			return OpXORLW
		}
	}
}

// decodeMiscellaneous matches the low byte against the explicit literal
// table of the miscellaneous group. The group's words have bits 11:5
// clear, so the low byte identifies the instruction completely.
func decodeMiscellaneous(word uint16) Mnemonic {
	switch word & 0xFF {
	case 0x00:
		return OpNOP
	case 0x02:
		return OpOPTION
	case 0x03:
		return OpSLEEP
	case 0x04:
		return OpCLRWDT
	case 0x05, 0x06, 0x07:
		return OpTRIS
	default:
		return OpUndefined
	}
}

// decodeALU selects the mnemonic from the 4-bit sub-field at offset 6.
// The 0000 and 0001 values need the destination-select bit as a further
// discriminator: the move/clear instructions fix it instead of taking it
// as an operand.
func decodeALU(word uint16) Mnemonic {
	switch (word >> 6) & 0xF {
	case 0x0:
		// Bits 11:6 clear but bits 5:0 nonzero, so bit 5 is set.
		return OpMOVWF
	case 0x1:
		if word&0x20 != 0 {
			return OpCLRF
		}
		if word == 0x040 {
			return OpCLRW
		}
		return OpUndefined
	case 0x2:
		return OpSUBWF
	case 0x3:
		return OpDECF
	case 0x4:
		return OpIORWF
	case 0x5:
		return OpANDWF
	case 0x6:
		return OpXORWF
	case 0x7:
		return OpADDWF
	case 0x8:
		return OpMOVF
	case 0x9:
		return OpCOMF
	case 0xA:
		return OpINCF
	case 0xB:
		return OpDECFSZ
	case 0xC:
		return OpRRF
	case 0xD:
		return OpRLF
	case 0xE:
		return OpSWAPF
	default:
		return OpINCFSZ
	}
}

// DecodeTable maps a raw 12-bit word to its mnemonic by generic
// descriptor matching: each pattern is left-aligned to the
// most-significant end of the 12-bit field, the low operand bits of
// both sides are cleared the same way, and the first descriptor whose
// masked pattern equals the masked word wins. Semantically equivalent
// to Decode; kept as an independent strategy so the two can be checked
// against each other.
func DecodeTable(raw nbit.Number) Mnemonic {
	word := nbit.U12(raw.Value())
	for _, d := range Opcodes() {
		if Matches(d, word) {
			return d.Mnemonic
		}
	}
	return OpUndefined
}

// Matches reports whether the descriptor's fixed bits equal the
// corresponding high bits of the 12-bit word. The word's low operand
// bits are cleared the same way alignOpcode clears the pattern's.
func Matches(d Descriptor, word nbit.Number) bool {
	shift := uint(12 - d.Pattern.Bits())
	aligned := alignOpcode(d.Pattern)
	masked := nbit.U12(word.Value()).Shr(shift).Shl(shift)
	return aligned.CompareUpperBits(masked)
}

// alignOpcode shifts an N-bit pattern left so its fixed bits occupy the
// most-significant positions of a 12-bit word, clearing the low
// 12-N operand bits.
func alignOpcode(pattern nbit.Number) nbit.Number {
	if pattern.Bits() > 12 {
		panic(fmt.Sprintf("insts: opcode pattern wider than the instruction word: %v", pattern))
	}
	return nbit.U12(pattern.Value() << uint(12-pattern.Bits()))
}
