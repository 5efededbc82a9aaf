package emu

import (
	"github.com/MasonDill/pic10-emulator/nbit"
)

// ProgramWords is the size of the program memory in 12-bit words.
const ProgramWords = 512

// CalibrationVector is the reserved address at the top of the effective
// program space holding the implicit "load W with the oscillator
// calibration value" instruction. The fetch stage clears bit 8 of the
// program counter, so addresses above 0x0FF are unreachable and 0x0FF
// is the effective top.
const CalibrationVector = 0x0FF

// ErasedWord is what unprogrammed flash reads back: all ones.
const ErasedWord = 0xFFF

// ProgramMemory is the chip's 512-word instruction flash.
type ProgramMemory struct {
	words [ProgramWords]nbit.Number

	// protected is the address of the reserved calibration word once
	// installed, or -1. Writes and bulk flashes leave it intact; the
	// datasheet forbids user programs from overwriting it.
	protected int
}

// NewProgramMemory returns erased program memory.
func NewProgramMemory() *ProgramMemory {
	pm := &ProgramMemory{protected: -1}
	for i := range pm.words {
		pm.words[i] = nbit.U12(ErasedWord)
	}
	return pm
}

// Fetch returns the 12-bit word at the 9-bit address.
func (pm *ProgramMemory) Fetch(addr nbit.Number) nbit.Number {
	return pm.words[addr.Value()&(ProgramWords-1)]
}

// Write stores a single word. Writes to the protected calibration
// address are dropped.
func (pm *ProgramMemory) Write(addr nbit.Number, word nbit.Number) {
	a := int(addr.Value() & (ProgramWords - 1))
	if a == pm.protected {
		return
	}
	pm.words[a] = nbit.U12(word.Value())
}

// Flash bulk-loads a full program image, preserving the protected
// calibration word if one has been installed.
func (pm *ProgramMemory) Flash(image [ProgramWords]nbit.Number) {
	saved := nbit.Number{}
	if pm.protected >= 0 {
		saved = pm.words[pm.protected]
	}
	for i, w := range image {
		pm.words[i] = nbit.U12(w.Value())
	}
	if pm.protected >= 0 {
		pm.words[pm.protected] = saved
	}
}

// Protect marks addr as the reserved calibration word. Subsequent
// writes and flashes leave it unchanged.
func (pm *ProgramMemory) Protect(addr nbit.Number) {
	pm.protected = int(addr.Value() & (ProgramWords - 1))
}
