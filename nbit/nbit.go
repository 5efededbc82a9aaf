// Package nbit provides unsigned integers truncated to a fixed bit width.
//
// Every register, address, and instruction field on the PIC10F200 is
// narrower than a machine word: the instruction word is 12 bits, the
// program counter 9, file addresses 5. A Number carries its width with
// its value, and every constructor and arithmetic result is re-masked to
// that width, which reproduces hardware wraparound (a 9-bit program
// counter overflows modulo 2^9).
//
// Number is an immutable value type. Two Numbers are equal when both
// their widths and their masked values are equal; CompareLowerBits
// compares values of different widths over the overlapping low-order
// bits only.
package nbit

import "fmt"

// MinBits and MaxBits bound the representable widths.
const (
	MinBits = 1
	MaxBits = 16
)

// Number is an unsigned integer restricted to a declared bit width.
// The zero value is a zero-width Number and is not valid; construct
// Numbers with New or the width-specific helpers.
type Number struct {
	bits  int
	value uint16
}

// Mask returns the all-ones mask for the given width.
// It panics if bits is outside [MinBits, MaxBits].
func Mask(bits int) uint16 {
	validateBits(bits)
	return uint16((uint32(1) << uint(bits)) - 1)
}

// New returns a Number of the given width holding value truncated to
// that width. Out-of-range bits are silently discarded; this is the
// documented truncation policy, not a validation gate. Callers that need
// range validation must check before constructing.
//
// New panics if bits is outside [MinBits, MaxBits]; an invalid width is
// a contract violation by the caller, not a recoverable condition.
func New(bits int, value uint16) Number {
	validateBits(bits)
	return Number{bits: bits, value: value & Mask(bits)}
}

// Max returns the all-ones Number for the given width.
func Max(bits int) Number {
	return New(bits, Mask(bits))
}

func validateBits(bits int) {
	if bits < MinBits || bits > MaxBits {
		panic(fmt.Sprintf("nbit: bit width %d outside [%d,%d]", bits, MinBits, MaxBits))
	}
}

// Width-specific constructors for the widths the chip uses.

// U1 returns a 1-bit Number.
func U1(v uint16) Number { return New(1, v) }

// U2 returns a 2-bit Number.
func U2(v uint16) Number { return New(2, v) }

// U3 returns a 3-bit Number.
func U3(v uint16) Number { return New(3, v) }

// U4 returns a 4-bit Number.
func U4(v uint16) Number { return New(4, v) }

// U5 returns a 5-bit Number.
func U5(v uint16) Number { return New(5, v) }

// U6 returns a 6-bit Number.
func U6(v uint16) Number { return New(6, v) }

// U7 returns a 7-bit Number.
func U7(v uint16) Number { return New(7, v) }

// U8 returns an 8-bit Number.
func U8(v uint16) Number { return New(8, v) }

// U9 returns a 9-bit Number.
func U9(v uint16) Number { return New(9, v) }

// U12 returns a 12-bit Number.
func U12(v uint16) Number { return New(12, v) }

// Bits returns the declared width.
func (n Number) Bits() int { return n.bits }

// Value returns the masked value.
func (n Number) Value() uint16 { return n.value }

// Uint16 returns the masked value as a uint16.
func (n Number) Uint16() uint16 { return n.value }

// Int returns the masked value as an int, suitable for indexing.
func (n Number) Int() int { return int(n.value) }

// Bit reports whether bit i (0 = least significant) is set.
func (n Number) Bit(i int) bool { return (n.value>>uint(i))&1 == 1 }

// Add returns n + m truncated to n's width.
func (n Number) Add(m Number) Number { return New(n.bits, n.value+m.value) }

// Sub returns n - m truncated to n's width.
func (n Number) Sub(m Number) Number { return New(n.bits, n.value-m.value) }

// And returns n & m at n's width.
func (n Number) And(m Number) Number { return New(n.bits, n.value&m.value) }

// Or returns n | m at n's width.
func (n Number) Or(m Number) Number { return New(n.bits, n.value|m.value) }

// Shl returns n shifted left by k bits, truncated to n's width.
func (n Number) Shl(k uint) Number { return New(n.bits, n.value<<k) }

// Shr returns n shifted right by k bits.
func (n Number) Shr(k uint) Number { return New(n.bits, n.value>>k) }

// CompareLowerBits reports whether n and m agree on their overlapping
// low-order bits. The comparison uses the minimum of the two widths, so
// a 6-bit opcode field can be checked against a full 12-bit word.
func (n Number) CompareLowerBits(m Number) bool {
	mask := Mask(min(n.bits, m.bits))
	return n.value&mask == m.value&mask
}

// CompareUpperBits compares n and m over the minimum of the two widths,
// treating each value as already aligned to its own most-significant
// end. Both operands must have been aligned by the caller; the
// comparison itself is the same min-width masked equality as
// CompareLowerBits.
func (n Number) CompareUpperBits(m Number) bool {
	return n.CompareLowerBits(m)
}

// String renders the value in hex with its width, e.g. "0x0C55/12".
func (n Number) String() string {
	return fmt.Sprintf("0x%0*X/%d", (n.bits+3)/4, n.value, n.bits)
}
