package insts_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/MasonDill/pic10-emulator/insts"
)

var _ = Describe("Encode", func() {
	DescribeTable("assembles documented words",
		func(m insts.Mnemonic, operands []uint16, expected uint16) {
			word, err := insts.Encode(m, operands...)
			Expect(err).NotTo(HaveOccurred())
			Expect(word.Value()).To(Equal(expected))
		},
		Entry("MOVLW 0x55", insts.OpMOVLW, []uint16{0x55}, uint16(0xC55)),
		Entry("ADDWF 0x04, W", insts.OpADDWF, []uint16{0x04, 0}, uint16(0x1C4)),
		Entry("ADDWF 0x04, F", insts.OpADDWF, []uint16{0x04, 1}, uint16(0x1E4)),
		Entry("BSF 0x03, 2", insts.OpBSF, []uint16{0x03, 2}, uint16(0x543)),
		Entry("BCF 0x06, 0", insts.OpBCF, []uint16{0x06, 0}, uint16(0x406)),
		Entry("GOTO 0x01A", insts.OpGOTO, []uint16{0x01A}, uint16(0xA1A)),
		Entry("GOTO 0x1FF", insts.OpGOTO, []uint16{0x1FF}, uint16(0xBFF)),
		Entry("CALL 0x20", insts.OpCALL, []uint16{0x20}, uint16(0x920)),
		Entry("RETLW 0x42", insts.OpRETLW, []uint16{0x42}, uint16(0x842)),
		Entry("MOVWF 0x0A", insts.OpMOVWF, []uint16{0x0A}, uint16(0x02A)),
		Entry("CLRF 0x07", insts.OpCLRF, []uint16{0x07}, uint16(0x067)),
		Entry("CLRW", insts.OpCLRW, nil, uint16(0x040)),
		Entry("NOP", insts.OpNOP, nil, uint16(0x000)),
		Entry("OPTION", insts.OpOPTION, nil, uint16(0x002)),
		Entry("SLEEP", insts.OpSLEEP, nil, uint16(0x003)),
		Entry("CLRWDT", insts.OpCLRWDT, nil, uint16(0x004)),
		Entry("TRIS GPIO", insts.OpTRIS, []uint16{insts.TRISSelectGPIO}, uint16(0x006)),
		Entry("IORLW 0x0F", insts.OpIORLW, []uint16{0x0F}, uint16(0xD0F)),
		Entry("ANDLW 0xF0", insts.OpANDLW, []uint16{0xF0}, uint16(0xEF0)),
		Entry("XORLW 0xAA", insts.OpXORLW, []uint16{0xAA}, uint16(0xFAA)),
	)

	It("should round-trip every descriptor through decode", func() {
		// Representative in-range operands for each field shape.
		operandSets := map[insts.Mnemonic][]uint16{
			insts.OpNOP: nil, insts.OpOPTION: nil, insts.OpSLEEP: nil,
			insts.OpCLRWDT: nil, insts.OpCLRW: nil,
			insts.OpTRIS: {insts.TRISSelectGPIO},
			insts.OpGOTO: {0x1A5},
		}
		for _, d := range insts.Opcodes() {
			operands, ok := operandSets[d.Mnemonic]
			if !ok {
				operands = []uint16{0x13, 1} // f/k plus d/b
			}
			word, err := insts.Encode(d.Mnemonic, operands...)
			Expect(err).NotTo(HaveOccurred(), "%v", d.Mnemonic)
			Expect(insts.Decode(word)).To(Equal(d.Mnemonic), "%v -> %v", d.Mnemonic, word)
			Expect(insts.DecodeTable(word)).To(Equal(d.Mnemonic), "%v -> %v", d.Mnemonic, word)
		}
	})

	Describe("invalid operands", func() {
		It("should reject a missing operand", func() {
			_, err := insts.Encode(insts.OpMOVLW)
			var invalid *insts.InvalidOperandError
			Expect(err).To(HaveOccurred())
			Expect(errors.As(err, &invalid)).To(BeTrue())
			Expect(invalid.Mnemonic).To(Equal(insts.OpMOVLW))
			Expect(invalid.Missing).To(BeTrue())
		})

		It("should reject an out-of-range literal", func() {
			_, err := insts.Encode(insts.OpMOVLW, 0x100)
			var invalid *insts.InvalidOperandError
			Expect(errors.As(err, &invalid)).To(BeTrue())
			Expect(invalid.Operand).To(Equal(uint16(0x100)))
		})

		It("should reject an out-of-range file address", func() {
			_, err := insts.Encode(insts.OpADDWF, 0x20, 0)
			Expect(err).To(HaveOccurred())
		})

		It("should reject an out-of-range destination select", func() {
			_, err := insts.Encode(insts.OpADDWF, 0x04, 2)
			Expect(err).To(HaveOccurred())
		})

		It("should reject an out-of-range bit index", func() {
			_, err := insts.Encode(insts.OpBSF, 0x03, 8)
			Expect(err).To(HaveOccurred())
		})

		It("should reject a branch target above the 9-bit range", func() {
			_, err := insts.Encode(insts.OpGOTO, 0x200)
			Expect(err).To(HaveOccurred())
		})

		It("should reject an I/O direction select of zero", func() {
			_, err := insts.Encode(insts.OpTRIS, 0)
			Expect(err).To(HaveOccurred())
		})

		It("should reject a call target above the 8-bit range", func() {
			_, err := insts.Encode(insts.OpCALL, 0x100)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("unsupported mnemonics", func() {
		DescribeTable("have no encoding on this part",
			func(m insts.Mnemonic) {
				_, err := insts.Encode(m, 0)
				var unsupported *insts.UnsupportedMnemonicError
				Expect(errors.As(err, &unsupported)).To(BeTrue())
				Expect(unsupported.Mnemonic).To(Equal(m))
			},
			Entry("bank-select literal", insts.OpMOVLB),
			Entry("RETURN", insts.OpRETURN),
			Entry("RETFIE", insts.OpRETFIE),
			Entry("the undefined mnemonic", insts.OpUndefined),
		)
	})
})
