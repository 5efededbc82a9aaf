// Package emu provides the functional PIC10F200 model: the register
// file and program memory collaborators and the fetch/decode/execute
// core that drives them.
package emu

import (
	"github.com/MasonDill/pic10-emulator/nbit"
)

// Special function register addresses in the file register space.
const (
	RegINDF   = 0x00 // indirect addressing through FSR
	RegTMR0   = 0x01
	RegPCL    = 0x02 // low byte of the program counter
	RegSTATUS = 0x03
	RegFSR    = 0x04
	RegOSCCAL = 0x05
	RegGPIO   = 0x06
	RegCMCON0 = 0x07
)

// STATUS register bits.
const (
	StatusC     = 1 << 0 // carry
	StatusDC    = 1 << 1 // digit carry (bit 3 -> 4)
	StatusZ     = 1 << 2 // zero
	StatusPD    = 1 << 3 // power-down (cleared by SLEEP)
	StatusTO    = 1 << 4 // time-out
	StatusGPWUF = 1 << 7 // wake-up on pin change
)

// Power-on reset values. TMR0 and GPIO are undefined at power-on and
// read back as zero here.
const (
	PCLPORValue    = 0xFF
	StatusPORValue = 0x18
	FSRPORValue    = 0xE0
	OSCCALPORValue = 0xFE
	CMCON0PORValue = 0xFF
	TRISPORValue   = 0x0F
	OptionPORValue = 0xFF
)

// FileRegisters is the size of the addressable register file.
const FileRegisters = 32

// RegisterFile is the chip's addressable data memory plus the two
// non-addressable shadow registers. Address 0 (INDF) is not a storage
// location: it reads and writes the register selected by FSR.
type RegisterFile struct {
	file [FileRegisters]uint8

	// TRIS is the direction-control shadow register; a set bit makes
	// the matching GPIO pin an input. Loaded only by the TRIS
	// instruction.
	TRIS uint8

	// Option is the option shadow register, loaded only by the OPTION
	// instruction.
	Option uint8
}

// NewRegisterFile returns a register file in its reset-to-defaults
// state.
func NewRegisterFile() *RegisterFile {
	rf := &RegisterFile{}
	rf.Flash()
	return rf
}

// resolve maps an address through INDF indirection. A resolved address
// of INDF itself (FSR pointing at INDF) selects no storage.
func (rf *RegisterFile) resolve(addr nbit.Number) int {
	a := int(addr.Value() & (FileRegisters - 1))
	if a == RegINDF {
		a = int(rf.file[RegFSR]) & (FileRegisters - 1)
	}
	return a
}

// Read returns the value of the file register at the 5-bit address.
// Reading INDF with FSR pointing at INDF returns zero.
func (rf *RegisterFile) Read(addr nbit.Number) uint8 {
	a := rf.resolve(addr)
	if a == RegINDF {
		return 0
	}
	return rf.file[a]
}

// Write stores value at the 5-bit address. Writing INDF with FSR
// pointing at INDF is a no-op.
func (rf *RegisterFile) Write(addr nbit.Number, value uint8) {
	a := rf.resolve(addr)
	if a == RegINDF {
		return
	}
	rf.file[a] = value
}

// Flash resets the register file and shadow registers to their
// power-on defaults.
func (rf *RegisterFile) Flash() {
	rf.file = [FileRegisters]uint8{}
	rf.file[RegPCL] = PCLPORValue
	rf.file[RegSTATUS] = StatusPORValue
	rf.file[RegFSR] = FSRPORValue
	rf.file[RegOSCCAL] = OSCCALPORValue
	rf.file[RegCMCON0] = CMCON0PORValue
	rf.TRIS = TRISPORValue
	rf.Option = OptionPORValue
}
