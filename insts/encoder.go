package insts

import (
	"fmt"

	"github.com/MasonDill/pic10-emulator/nbit"
)

// InvalidOperandError reports an operand that is missing or outside its
// field's numeric range. The caller may retry with corrected operands.
type InvalidOperandError struct {
	Mnemonic Mnemonic
	Operand  uint16
	Missing  bool
	Reason   string
}

func (e *InvalidOperandError) Error() string {
	if e.Missing {
		return fmt.Sprintf("insts: %v: missing operand (%s)", e.Mnemonic, e.Reason)
	}
	return fmt.Sprintf("insts: %v: operand 0x%X out of range (%s)", e.Mnemonic, e.Operand, e.Reason)
}

// UnsupportedMnemonicError reports a mnemonic with no instruction
// encoding on this chip variant.
type UnsupportedMnemonicError struct {
	Mnemonic Mnemonic
}

func (e *UnsupportedMnemonicError) Error() string {
	return fmt.Sprintf("insts: %v has no encoding on this part", e.Mnemonic)
}

// Encode assembles a mnemonic and its operands into a 12-bit word. The
// first operand is the file register address or literal constant, the
// second the destination select or bit index, per the opcode layout
// table. Encode is the inverse of Decode: decoding the returned word
// yields the same mnemonic and operand fields.
//
// Encode returns an *InvalidOperandError when a required operand is
// absent or out of its field's range, and an *UnsupportedMnemonicError
// for mnemonics with no encoding on this part (including OpUndefined,
// which always fails).
func Encode(mnemonic Mnemonic, operands ...uint16) (nbit.Number, error) {
	switch mnemonic {
	case OpNOP:
		return nbit.U12(0x000), nil
	case OpOPTION:
		return nbit.U12(0x002), nil
	case OpSLEEP:
		return nbit.U12(0x003), nil
	case OpCLRWDT:
		return nbit.U12(0x004), nil
	case OpCLRW:
		return nbit.U12(0x040), nil

	case OpTRIS:
		sel, err := operand(mnemonic, operands, 0, 1, 3, "I/O direction select 1..3")
		if err != nil {
			return nbit.Number{}, err
		}
		return nbit.U12(0x004 | sel), nil

	case OpMOVWF:
		return encodeFileOnly(mnemonic, 0x020, operands)
	case OpCLRF:
		return encodeFileOnly(mnemonic, 0x060, operands)

	case OpSUBWF:
		return encodeALU(mnemonic, 0x080, operands)
	case OpDECF:
		return encodeALU(mnemonic, 0x0C0, operands)
	case OpIORWF:
		return encodeALU(mnemonic, 0x100, operands)
	case OpANDWF:
		return encodeALU(mnemonic, 0x140, operands)
	case OpXORWF:
		return encodeALU(mnemonic, 0x180, operands)
	case OpADDWF:
		return encodeALU(mnemonic, 0x1C0, operands)
	case OpMOVF:
		return encodeALU(mnemonic, 0x200, operands)
	case OpCOMF:
		return encodeALU(mnemonic, 0x240, operands)
	case OpINCF:
		return encodeALU(mnemonic, 0x280, operands)
	case OpDECFSZ:
		return encodeALU(mnemonic, 0x2C0, operands)
	case OpRRF:
		return encodeALU(mnemonic, 0x300, operands)
	case OpRLF:
		return encodeALU(mnemonic, 0x340, operands)
	case OpSWAPF:
		return encodeALU(mnemonic, 0x380, operands)
	case OpINCFSZ:
		return encodeALU(mnemonic, 0x3C0, operands)

	case OpBCF:
		return encodeBitOp(mnemonic, 0x400, operands)
	case OpBSF:
		return encodeBitOp(mnemonic, 0x500, operands)
	case OpBTFSC:
		return encodeBitOp(mnemonic, 0x600, operands)
	case OpBTFSS:
		return encodeBitOp(mnemonic, 0x700, operands)

	case OpRETLW:
		return encodeLiteral(mnemonic, 0x800, operands)
	case OpCALL:
		return encodeLiteral(mnemonic, 0x900, operands)
	case OpGOTO:
		k, err := operand(mnemonic, operands, 0, 0, 0x1FF, "9-bit target address")
		if err != nil {
			return nbit.Number{}, err
		}
		return nbit.U12(0xA00 | k), nil
	case OpMOVLW:
		return encodeLiteral(mnemonic, 0xC00, operands)
	case OpIORLW:
		return encodeLiteral(mnemonic, 0xD00, operands)
	case OpANDLW:
		return encodeLiteral(mnemonic, 0xE00, operands)
	case OpXORLW:
		return encodeLiteral(mnemonic, 0xF00, operands)

	default:
		// OpUndefined, OpMOVLB, OpRETURN, OpRETFIE
		return nbit.Number{}, &UnsupportedMnemonicError{Mnemonic: mnemonic}
	}
}

// encodeFileOnly packs the 5-bit file address of MOVWF and CLRF.
func encodeFileOnly(m Mnemonic, base uint16, operands []uint16) (nbit.Number, error) {
	f, err := operand(m, operands, 0, 0, 0x1F, "5-bit file register address")
	if err != nil {
		return nbit.Number{}, err
	}
	return nbit.U12(base | f), nil
}

// encodeALU packs the 5-bit file address and 1-bit destination select
// of the two-operand ALU instructions.
func encodeALU(m Mnemonic, base uint16, operands []uint16) (nbit.Number, error) {
	f, err := operand(m, operands, 0, 0, 0x1F, "5-bit file register address")
	if err != nil {
		return nbit.Number{}, err
	}
	d, err := operand(m, operands, 1, 0, 1, "1-bit destination select")
	if err != nil {
		return nbit.Number{}, err
	}
	return nbit.U12(base | d<<5 | f), nil
}

// encodeBitOp packs the 5-bit file address and 3-bit bit index of the
// bit-oriented instructions.
func encodeBitOp(m Mnemonic, base uint16, operands []uint16) (nbit.Number, error) {
	f, err := operand(m, operands, 0, 0, 0x1F, "5-bit file register address")
	if err != nil {
		return nbit.Number{}, err
	}
	b, err := operand(m, operands, 1, 0, 7, "3-bit bit index")
	if err != nil {
		return nbit.Number{}, err
	}
	return nbit.U12(base | b<<5 | f), nil
}

// encodeLiteral packs the 8-bit literal of the literal and call
// instructions.
func encodeLiteral(m Mnemonic, base uint16, operands []uint16) (nbit.Number, error) {
	k, err := operand(m, operands, 0, 0, 0xFF, "8-bit literal")
	if err != nil {
		return nbit.Number{}, err
	}
	return nbit.U12(base | k), nil
}

// operand fetches operands[index], validating presence and range.
func operand(m Mnemonic, operands []uint16, index int, lo, hi uint16, reason string) (uint16, error) {
	if index >= len(operands) {
		return 0, &InvalidOperandError{Mnemonic: m, Missing: true, Reason: reason}
	}
	v := operands[index]
	if v < lo || v > hi {
		return 0, &InvalidOperandError{Mnemonic: m, Operand: v, Reason: reason}
	}
	return v, nil
}
