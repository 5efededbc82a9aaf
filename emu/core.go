package emu

import (
	"fmt"
	"io"

	"github.com/MasonDill/pic10-emulator/insts"
	"github.com/MasonDill/pic10-emulator/nbit"
)

// State is the externally observable state of the execution core.
type State uint8

// Core states. The fetch/execute loop has no terminal success state;
// it is driven externally one tick at a time until the host stops
// calling Tick or the core halts or sleeps.
const (
	StatePoweredOff State = iota
	StateInitialized
	StateRunning
	StateSleeping
	StateHalted
)

var stateNames = map[State]string{
	StatePoweredOff:  "PoweredOff",
	StateInitialized: "Initialized",
	StateRunning:     "Running",
	StateSleeping:    "Sleeping",
	StateHalted:      "Halted",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// IOPins is the number of modeled general-purpose I/O pins (GP0..GP2;
// GP3 is input-only and not driven by the core).
const IOPins = 3

// StackDepth is the depth of the hardware return stack.
const StackDepth = 2

// Core is the fetch/decode/execute pipeline state machine. It owns the
// program counter, working register, I/O pin state, and return stack,
// and borrows the register file and program memory collaborators for
// the duration of each tick.
//
// Core is not safe for concurrent use: Tick is not reentrant and a
// multi-threaded host must serialize calls into it.
type Core struct {
	regs *RegisterFile
	prog *ProgramMemory

	pc    nbit.Number // 9-bit, bit 8 cleared after every fetch
	w     uint8       // working register, not addressable
	pins  [IOPins]bool
	ir    insts.Instruction
	stack [StackDepth]nbit.Number
	sp    int

	state State
	ticks uint64
	trace io.Writer
}

// CoreOption configures a Core.
type CoreOption func(*Core)

// WithTrace makes the core write one disassembled line per executed
// instruction to w.
func WithTrace(w io.Writer) CoreOption {
	return func(c *Core) {
		c.trace = w
	}
}

// NewCore returns a powered-off core borrowing the given collaborators.
func NewCore(regs *RegisterFile, prog *ProgramMemory, opts ...CoreOption) *Core {
	c := &Core{
		regs: regs,
		prog: prog,
		pc:   nbit.U9(0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PowerOnInitialize applies the documented power-on reset: it installs
// the implicit MOVLW-calibration instruction at the reserved top
// address, protects that word against user overwrites, and writes the
// reset values into the special registers through the register file's
// write interface. Program-counter-low starts at the calibration
// address.
func (c *Core) PowerOnInitialize() {
	calWord, err := insts.Encode(insts.OpMOVLW, OSCCALPORValue)
	if err != nil {
		panic(fmt.Sprintf("emu: calibration word unencodable: %v", err))
	}
	calAddr := nbit.U9(CalibrationVector)
	c.prog.Write(calAddr, calWord)
	c.prog.Protect(calAddr)

	c.regs.Write(nbit.U5(RegPCL), uint8(calAddr.Value()))
	c.regs.Write(nbit.U5(RegSTATUS), StatusPORValue)
	c.regs.Write(nbit.U5(RegFSR), FSRPORValue)
	c.regs.Write(nbit.U5(RegOSCCAL), OSCCALPORValue)
	c.regs.Write(nbit.U5(RegCMCON0), CMCON0PORValue)
	c.regs.TRIS = TRISPORValue
	c.regs.Option = OptionPORValue

	c.w = 0
	c.sp = 0
	c.pins = [IOPins]bool{}
	c.state = StateInitialized
}

// Tick performs exactly one fetch followed by exactly one execute. It
// is the atomic externally visible unit of progress; no partial tick is
// observable. A tick on a powered-off, halted, or sleeping core does
// nothing.
func (c *Core) Tick() {
	switch c.state {
	case StatePoweredOff, StateHalted, StateSleeping:
		return
	}
	c.state = StateRunning
	c.fetch()
	c.execute()
	c.ticks++
}

// fetch advances the program counter and latches the next instruction:
// read program-counter-low, increment, clear bit 8 (the 9-bit address
// space collapses to 8 effective bits), latch the result as the current
// PC, mirror it back into PCL, then read and decode the word at that
// address.
func (c *Core) fetch() {
	pcl := c.regs.Read(nbit.U5(RegPCL))
	pc := nbit.U9(uint16(pcl)).Add(nbit.U9(1))
	pc = pc.And(nbit.U9(0x0FF))
	c.pc = pc
	c.regs.Write(nbit.U5(RegPCL), uint8(pc.Value()))

	c.ir = insts.NewInstruction(c.prog.Fetch(pc))
	if c.trace != nil {
		fmt.Fprintf(c.trace, "%03X  %v\n", pc.Value(), c.ir)
	}
}

// PC returns the current 9-bit program counter.
func (c *Core) PC() nbit.Number { return c.pc }

// W returns the working register.
func (c *Core) W() uint8 { return c.w }

// State returns the core's externally observable state.
func (c *Core) State() State { return c.state }

// Halted reports whether the core stopped on an undefined opcode.
func (c *Core) Halted() bool { return c.state == StateHalted }

// Sleeping reports whether the core executed SLEEP.
func (c *Core) Sleeping() bool { return c.state == StateSleeping }

// Instruction returns the currently latched instruction.
func (c *Core) Instruction() insts.Instruction { return c.ir }

// Pin reports the driven state of I/O pin n (GP0..GP2). A pin reads
// true when its GPIO latch bit is set and its TRIS bit selects output.
func (c *Core) Pin(n int) bool { return c.pins[n] }

// Ticks returns the number of completed ticks since power-on.
func (c *Core) Ticks() uint64 { return c.ticks }
