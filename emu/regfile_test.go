package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/MasonDill/pic10-emulator/emu"
	"github.com/MasonDill/pic10-emulator/nbit"
)

var _ = Describe("RegisterFile", func() {
	var rf *emu.RegisterFile

	BeforeEach(func() {
		rf = emu.NewRegisterFile()
	})

	It("should store and return values at 5-bit addresses", func() {
		rf.Write(nbit.U5(0x10), 0xAB)
		Expect(rf.Read(nbit.U5(0x10))).To(Equal(uint8(0xAB)))
	})

	It("should mask addresses to the file size", func() {
		rf.Write(nbit.New(8, 0x30), 0x42) // aliases 0x10
		Expect(rf.Read(nbit.U5(0x10))).To(Equal(uint8(0x42)))
	})

	Describe("INDF indirection", func() {
		It("should read through FSR", func() {
			rf.Write(nbit.U5(emu.RegFSR), 0x12)
			rf.Write(nbit.U5(0x12), 0x7E)
			Expect(rf.Read(nbit.U5(emu.RegINDF))).To(Equal(uint8(0x7E)))
		})

		It("should write through FSR", func() {
			rf.Write(nbit.U5(emu.RegFSR), 0x14)
			rf.Write(nbit.U5(emu.RegINDF), 0x5A)
			Expect(rf.Read(nbit.U5(0x14))).To(Equal(uint8(0x5A)))
		})

		It("should read zero and drop writes when FSR selects INDF", func() {
			rf.Write(nbit.U5(emu.RegFSR), 0x00)
			rf.Write(nbit.U5(emu.RegINDF), 0x99)
			Expect(rf.Read(nbit.U5(emu.RegINDF))).To(Equal(uint8(0)))
		})
	})

	Describe("Flash", func() {
		It("should reset the special registers to their defaults", func() {
			rf.Write(nbit.U5(0x1F), 0xFF)
			rf.TRIS = 0
			rf.Flash()

			Expect(rf.Read(nbit.U5(0x1F))).To(Equal(uint8(0)))
			Expect(rf.Read(nbit.U5(emu.RegPCL))).To(Equal(uint8(emu.PCLPORValue)))
			Expect(rf.Read(nbit.U5(emu.RegSTATUS))).To(Equal(uint8(emu.StatusPORValue)))
			Expect(rf.Read(nbit.U5(emu.RegFSR))).To(Equal(uint8(emu.FSRPORValue)))
			Expect(rf.Read(nbit.U5(emu.RegOSCCAL))).To(Equal(uint8(emu.OSCCALPORValue)))
			Expect(rf.Read(nbit.U5(emu.RegCMCON0))).To(Equal(uint8(emu.CMCON0PORValue)))
			Expect(rf.TRIS).To(Equal(uint8(emu.TRISPORValue)))
			Expect(rf.Option).To(Equal(uint8(emu.OptionPORValue)))
		})
	})
})

var _ = Describe("ProgramMemory", func() {
	var pm *emu.ProgramMemory

	BeforeEach(func() {
		pm = emu.NewProgramMemory()
	})

	It("should read erased flash as all ones", func() {
		Expect(pm.Fetch(nbit.U9(0x123)).Value()).To(Equal(uint16(emu.ErasedWord)))
	})

	It("should store and fetch 12-bit words", func() {
		pm.Write(nbit.U9(0x42), nbit.U12(0xC55))
		Expect(pm.Fetch(nbit.U9(0x42)).Value()).To(Equal(uint16(0xC55)))
	})

	It("should mask addresses to the program space", func() {
		pm.Write(nbit.New(16, 0x242), nbit.U12(0x111))
		Expect(pm.Fetch(nbit.U9(0x042)).Value()).To(Equal(uint16(0x111)))
	})

	Describe("the protected calibration word", func() {
		BeforeEach(func() {
			pm.Write(nbit.U9(emu.CalibrationVector), nbit.U12(0xCFE))
			pm.Protect(nbit.U9(emu.CalibrationVector))
		})

		It("should drop single-word overwrites", func() {
			pm.Write(nbit.U9(emu.CalibrationVector), nbit.U12(0x000))
			Expect(pm.Fetch(nbit.U9(emu.CalibrationVector)).Value()).To(Equal(uint16(0xCFE)))
		})

		It("should survive a bulk flash", func() {
			var image [emu.ProgramWords]nbit.Number
			for i := range image {
				image[i] = nbit.U12(0)
			}
			pm.Flash(image)
			Expect(pm.Fetch(nbit.U9(emu.CalibrationVector)).Value()).To(Equal(uint16(0xCFE)))
			Expect(pm.Fetch(nbit.U9(0)).Value()).To(Equal(uint16(0)))
		})
	})
})
