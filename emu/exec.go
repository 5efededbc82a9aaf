package emu

import (
	"github.com/MasonDill/pic10-emulator/insts"
	"github.com/MasonDill/pic10-emulator/nbit"
)

// execute dispatches the latched instruction to its semantic action.
// The mapping is a closed match over the mnemonic set; the default arm
// is the halt action, covering the undefined mnemonic and the family
// mnemonics that cannot be encoded on this part. After every action the
// I/O pin state is refreshed from GPIO and TRIS.
func (c *Core) execute() {
	switch c.ir.Mnemonic {
	// Miscellaneous
	case insts.OpNOP:
		// no operation
	case insts.OpOPTION:
		c.regs.Option = c.w
	case insts.OpTRIS:
		c.executeTRIS()
	case insts.OpCLRWDT:
		c.executeCLRWDT()
	case insts.OpSLEEP:
		c.executeSLEEP()

	// ALU operations
	case insts.OpMOVWF:
		c.writeFile(c.ir.FileAddr(), c.w)
	case insts.OpCLRW, insts.OpCLRF:
		c.executeClear()
	case insts.OpSUBWF:
		c.executeSUBWF()
	case insts.OpDECF:
		c.aluToDest(c.readOperand() - 1)
	case insts.OpIORWF:
		c.aluToDest(c.readOperand() | c.w)
	case insts.OpANDWF:
		c.aluToDest(c.readOperand() & c.w)
	case insts.OpXORWF:
		c.aluToDest(c.readOperand() ^ c.w)
	case insts.OpADDWF:
		c.executeADDWF()
	case insts.OpMOVF:
		c.aluToDest(c.readOperand())
	case insts.OpCOMF:
		c.aluToDest(^c.readOperand())
	case insts.OpINCF:
		c.aluToDest(c.readOperand() + 1)
	case insts.OpDECFSZ:
		c.skipToDest(c.readOperand() - 1)
	case insts.OpINCFSZ:
		c.skipToDest(c.readOperand() + 1)
	case insts.OpRRF:
		c.executeRRF()
	case insts.OpRLF:
		c.executeRLF()
	case insts.OpSWAPF:
		v := c.readOperand()
		c.storeResult(v<<4 | v>>4)

	// Bit operations
	case insts.OpBCF:
		v := c.readOperand()
		c.writeFile(c.ir.FileAddr(), v&^(1<<c.ir.BitIndex().Value()))
	case insts.OpBSF:
		v := c.readOperand()
		c.writeFile(c.ir.FileAddr(), v|1<<c.ir.BitIndex().Value())
	case insts.OpBTFSC:
		if c.readOperand()&(1<<c.ir.BitIndex().Value()) == 0 {
			c.skipNext()
		}
	case insts.OpBTFSS:
		if c.readOperand()&(1<<c.ir.BitIndex().Value()) != 0 {
			c.skipNext()
		}

	// Control transfer
	case insts.OpGOTO:
		c.jump(c.ir.BranchTarget())
	case insts.OpCALL:
		c.executeCALL()
	case insts.OpRETLW:
		c.executeRETLW()

	// Operations with W
	case insts.OpMOVLW:
		c.w = c.ir.Literal()
	case insts.OpIORLW:
		c.w |= c.ir.Literal()
		c.updateZ(c.w)
	case insts.OpANDLW:
		c.w &= c.ir.Literal()
		c.updateZ(c.w)
	case insts.OpXORLW:
		c.w ^= c.ir.Literal()
		c.updateZ(c.w)

	default:
		// insts.OpUndefined and the unencodable family mnemonics.
		c.halt()
	}

	c.syncPins()
}

// readOperand reads the file register the instruction addresses.
func (c *Core) readOperand() uint8 {
	return c.regs.Read(c.ir.FileAddr())
}

// writeFile stores a value into the register file.
func (c *Core) writeFile(addr nbit.Number, v uint8) {
	c.regs.Write(addr, v)
}

// storeResult places an ALU result per the destination select: d = 0
// into W, d = 1 back into the addressed file register. Flags are the
// caller's responsibility.
func (c *Core) storeResult(result uint8) {
	if c.ir.DestinationSelect().Value() == 1 {
		c.writeFile(c.ir.FileAddr(), result)
	} else {
		c.w = result
	}
}

// aluToDest stores an ALU result and updates the zero flag, the rule
// shared by the logic, move, complement, increment, and decrement
// instructions.
func (c *Core) aluToDest(result uint8) {
	c.storeResult(result)
	c.updateZ(result)
}

// skipToDest stores an ALU result and skips the next instruction when
// it is zero. The skip instructions leave STATUS untouched.
func (c *Core) skipToDest(result uint8) {
	c.storeResult(result)
	if result == 0 {
		c.skipNext()
	}
}

// executeClear is the shared clear action: the destination-select bit
// distinguishes clear-file-register (set, CLRF) from
// clear-working-register (clear, CLRW). Z is set either way.
func (c *Core) executeClear() {
	if c.ir.DestinationSelect().Value() == 1 {
		c.writeFile(c.ir.FileAddr(), 0)
	} else {
		c.w = 0
	}
	c.setStatus(StatusZ, true)
}

// executeADDWF adds W to the file register. Writes C, DC, and Z.
func (c *Core) executeADDWF() {
	f := c.readOperand()
	result := f + c.w
	c.setStatus(StatusC, uint16(f)+uint16(c.w) > 0xFF)
	c.setStatus(StatusDC, (f&0x0F)+(c.w&0x0F) > 0x0F)
	c.updateZ(result)
	c.storeResult(result)
}

// executeSUBWF subtracts W from the file register (f - W). C is the
// no-borrow flag: set when f >= W. Writes C, DC, and Z.
func (c *Core) executeSUBWF() {
	f := c.readOperand()
	result := f - c.w
	c.setStatus(StatusC, f >= c.w)
	c.setStatus(StatusDC, f&0x0F >= c.w&0x0F)
	c.updateZ(result)
	c.storeResult(result)
}

// executeRRF rotates the file register right through carry. Only C is
// written; the bit rotated out becomes the new carry.
func (c *Core) executeRRF() {
	f := c.readOperand()
	carryIn := uint8(0)
	if c.status()&StatusC != 0 {
		carryIn = 0x80
	}
	c.setStatus(StatusC, f&0x01 != 0)
	c.storeResult(f>>1 | carryIn)
}

// executeRLF rotates the file register left through carry.
func (c *Core) executeRLF() {
	f := c.readOperand()
	carryIn := uint8(0)
	if c.status()&StatusC != 0 {
		carryIn = 0x01
	}
	c.setStatus(StatusC, f&0x80 != 0)
	c.storeResult(f<<1 | carryIn)
}

// executeTRIS loads W into the direction-control shadow register when
// the I/O select addresses GPIO; the other selects have no port on
// this part.
func (c *Core) executeTRIS() {
	if c.ir.TRISSelect().Value() == insts.TRISSelectGPIO {
		c.regs.TRIS = c.w
	}
}

// executeCLRWDT clears the watchdog and sets TO and PD.
func (c *Core) executeCLRWDT() {
	c.setStatus(StatusTO, true)
	c.setStatus(StatusPD, true)
}

// executeSLEEP sets TO, clears PD, and stops the core until the next
// power-on.
func (c *Core) executeSLEEP() {
	c.setStatus(StatusTO, true)
	c.setStatus(StatusPD, false)
	c.state = StateSleeping
}

// jump arranges for the next fetch to land on target: PCL receives
// target-1 because fetch pre-increments, and bit 8 is discarded by the
// fetch mask.
func (c *Core) jump(target nbit.Number) {
	next := nbit.U9(target.Value()).Sub(nbit.U9(1))
	c.writeFile(nbit.U5(RegPCL), uint8(next.Value()))
}

// skipNext skips the next instruction by advancing PCL once more.
func (c *Core) skipNext() {
	pcl := c.regs.Read(nbit.U5(RegPCL))
	c.writeFile(nbit.U5(RegPCL), pcl+1)
}

// executeCALL pushes the return address (the word after the call, less
// the fetch pre-increment) and jumps to the 8-bit target; bit 8 of the
// PC is forced clear on this part.
func (c *Core) executeCALL() {
	c.stack[c.sp] = c.pc
	c.sp = (c.sp + 1) % StackDepth
	c.jump(nbit.U9(uint16(c.ir.Literal())))
}

// executeRETLW loads W with the literal and pops the return address.
func (c *Core) executeRETLW() {
	c.w = c.ir.Literal()
	c.sp = (c.sp - 1 + StackDepth) % StackDepth
	ret := c.stack[c.sp]
	c.writeFile(nbit.U5(RegPCL), uint8(ret.Value()))
}

// halt is the action for the undefined mnemonic: execution stops
// advancing and the fault is observable through State. Undefined
// opcodes are a decoded state, not a runtime error.
func (c *Core) halt() {
	c.state = StateHalted
}

func (c *Core) status() uint8 {
	return c.regs.Read(nbit.U5(RegSTATUS))
}

func (c *Core) setStatus(mask uint8, on bool) {
	s := c.status()
	if on {
		s |= mask
	} else {
		s &^= mask
	}
	c.writeFile(nbit.U5(RegSTATUS), s)
}

func (c *Core) updateZ(result uint8) {
	c.setStatus(StatusZ, result == 0)
}

// syncPins refreshes the driven pin states: a pin is high when its
// GPIO latch bit is set and TRIS selects output for it.
func (c *Core) syncPins() {
	gpio := c.regs.Read(nbit.U5(RegGPIO))
	for i := 0; i < IOPins; i++ {
		bit := uint8(1) << uint(i)
		c.pins[i] = gpio&bit != 0 && c.regs.TRIS&bit == 0
	}
}
