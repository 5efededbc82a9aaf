// pic10sim simulates the PIC10F200 microcontroller.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/MasonDill/pic10-emulator/asm"
	"github.com/MasonDill/pic10-emulator/emu"
	"github.com/MasonDill/pic10-emulator/insts"
	"github.com/MasonDill/pic10-emulator/loader"
	"github.com/MasonDill/pic10-emulator/nbit"
	"github.com/MasonDill/pic10-emulator/timing/clock"
)

func main() {
	var cli struct {
		Run runCmd `cmd:"" help:"Load a program and run it."`
		Asm asmCmd `cmd:"" help:"Assemble a source file to Intel HEX."`
		Dis disCmd `cmd:"" help:"Disassemble an Intel HEX image."`
	}

	ctx := kong.Parse(&cli)
	err := ctx.Run(&kong.Context{})
	ctx.FatalIfErrorf(err)
}

type runCmd struct {
	Program  string `arg:"" type:"existingfile" help:"Program image (.hex) or assembly source."`
	Ticks    uint64 `name:"ticks" default:"0" help:"Stop after this many instruction cycles (0 = until halt or sleep)."`
	Trace    bool   `name:"trace" help:"Print each executed instruction."`
	Realtime bool   `name:"realtime" help:"Clock the core at the oscillator rate instead of free-running."`
	Config   string `name:"config" type:"existingfile" help:"Clock configuration JSON file."`
	Verbose  bool   `name:"v" help:"Verbose output."`
}

func (r *runCmd) Run(ctx *kong.Context) error {
	image, err := loadImage(r.Program)
	if err != nil {
		return err
	}

	var opts []emu.ChipOption
	if r.Trace {
		opts = append(opts, emu.WithChipTrace(os.Stdout))
	}

	chip := emu.NewPIC10F200(opts...)
	chip.ProgramChip(image)
	chip.PowerOn()

	if r.Realtime {
		err = r.runRealtime(chip)
	} else {
		chip.Run(r.Ticks)
	}
	if err != nil {
		return err
	}

	if r.Verbose {
		core := chip.Core()
		fmt.Printf("\nProgram: %s\n", r.Program)
		fmt.Printf("State: %v\n", core.State())
		fmt.Printf("Ticks: %d\n", core.Ticks())
		fmt.Printf("PC: 0x%03X  W: 0x%02X\n", core.PC().Value(), core.W())
	}
	return nil
}

// runRealtime drives the chip from the quadrature clock until it
// stops running or the tick budget is spent.
func (r *runCmd) runRealtime(chip *emu.PIC10F200) error {
	config := clock.DefaultConfig()
	if r.Config != "" {
		var err error
		config, err = clock.LoadConfig(r.Config)
		if err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := clock.NewClockWithConfig(config).Run(ctx, func() {
		chip.Tick()
		state := chip.Core().State()
		if state != emu.StateInitialized && state != emu.StateRunning {
			cancel()
		}
		if r.Ticks != 0 && chip.Core().Ticks() >= r.Ticks {
			cancel()
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

type asmCmd struct {
	Source  string `arg:"" type:"existingfile" help:"Assembly source file."`
	Output  string `name:"output" short:"o" default:"-" help:"Output hex file (- for stdout)."`
	Verbose bool   `name:"v" help:"Verbosely log assembler actions."`
}

func (a *asmCmd) Run(ctx *kong.Context) error {
	f, err := os.Open(a.Source)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	assembler := &asm.Assembler{Verbose: a.Verbose}
	prog, err := assembler.Assemble(f)
	if err != nil {
		return err
	}

	out := os.Stdout
	if a.Output != "-" {
		out, err = os.Create(a.Output)
		if err != nil {
			return err
		}
		defer func() { _ = out.Close() }()
	}

	if err := loader.Write(out, prog.Image); err != nil {
		return err
	}
	if a.Verbose {
		fmt.Fprintf(os.Stderr, "%s: %d words\n", a.Source, prog.Words)
	}
	return nil
}

type disCmd struct {
	Image string `arg:"" type:"existingfile" help:"Intel HEX image."`
}

func (d *disCmd) Run(ctx *kong.Context) error {
	prog, err := loadImage(d.Image)
	if err != nil {
		return err
	}

	for addr, word := range prog {
		if word.Value() == emu.ErasedWord {
			continue
		}
		inst := insts.NewInstruction(word)
		fmt.Printf("%03X  %v\n", addr, inst)
	}
	return nil
}

// loadImage reads a program from disk, assembling it first unless it
// is already an Intel HEX file.
func loadImage(path string) ([emu.ProgramWords]nbit.Number, error) {
	if strings.HasSuffix(strings.ToLower(path), ".hex") {
		prog, err := loader.Load(path)
		if err != nil {
			return [emu.ProgramWords]nbit.Number{}, err
		}
		return prog.Image, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return [emu.ProgramWords]nbit.Number{}, err
	}
	defer func() { _ = f.Close() }()

	prog, err := (&asm.Assembler{}).Assemble(f)
	if err != nil {
		return [emu.ProgramWords]nbit.Number{}, err
	}
	return prog.Image, nil
}
