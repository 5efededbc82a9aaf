package emu

import (
	"io"

	"github.com/MasonDill/pic10-emulator/nbit"
)

// PIC10F200 bundles the execution core with the register file and
// program memory it borrows, modeling the whole chip. The collaborators
// are owned by the chip and handed to the core for the duration of each
// tick; hosts that need shared read access should go through the
// read-only accessors rather than the core's borrowed handles.
type PIC10F200 struct {
	regs *RegisterFile
	prog *ProgramMemory
	core *Core
}

// ChipOption is a functional option for configuring the chip.
type ChipOption func(*chipConfig)

type chipConfig struct {
	trace io.Writer
}

// WithChipTrace makes the core trace executed instructions to w.
func WithChipTrace(w io.Writer) ChipOption {
	return func(cfg *chipConfig) {
		cfg.trace = w
	}
}

// NewPIC10F200 returns a powered-off chip with erased program memory.
func NewPIC10F200(opts ...ChipOption) *PIC10F200 {
	cfg := chipConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	regs := NewRegisterFile()
	prog := NewProgramMemory()

	var coreOpts []CoreOption
	if cfg.trace != nil {
		coreOpts = append(coreOpts, WithTrace(cfg.trace))
	}

	return &PIC10F200{
		regs: regs,
		prog: prog,
		core: NewCore(regs, prog, coreOpts...),
	}
}

// ProgramChip loads a full program image and resets the register file.
func (p *PIC10F200) ProgramChip(image [ProgramWords]nbit.Number) {
	p.prog.Flash(image)
	p.regs.Flash()
}

// PowerOn applies the documented power-on reset to the core and the
// special registers.
func (p *PIC10F200) PowerOn() {
	p.core.PowerOnInitialize()
}

// Tick advances the chip by one instruction cycle.
func (p *PIC10F200) Tick() {
	p.core.Tick()
}

// Run ticks the chip until it halts, sleeps, or maxTicks elapse
// (0 means no limit). It returns the number of ticks executed.
func (p *PIC10F200) Run(maxTicks uint64) uint64 {
	start := p.core.Ticks()
	for p.core.State() == StateInitialized || p.core.State() == StateRunning {
		if maxTicks != 0 && p.core.Ticks()-start >= maxTicks {
			break
		}
		p.core.Tick()
	}
	return p.core.Ticks() - start
}

// Core returns the execution core.
func (p *PIC10F200) Core() *Core { return p.core }

// Registers returns the register file collaborator.
func (p *PIC10F200) Registers() *RegisterFile { return p.regs }

// Program returns the program memory collaborator.
func (p *PIC10F200) Program() *ProgramMemory { return p.prog }
