package nbit_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/MasonDill/pic10-emulator/nbit"
)

var _ = Describe("Number", func() {
	Describe("New", func() {
		It("should mask the value to the declared width for every width", func() {
			for bits := nbit.MinBits; bits <= nbit.MaxBits; bits++ {
				mask := uint16((uint32(1) << uint(bits)) - 1)
				for _, v := range []uint16{0, 1, 0x55, 0xABC, 0xFFFF} {
					n := nbit.New(bits, v)
					Expect(n.Value()).To(Equal(v&mask),
						"width %d value 0x%X", bits, v)
				}
			}
		})

		It("should panic for a zero width", func() {
			Expect(func() { nbit.New(0, 1) }).To(Panic())
		})

		It("should panic for a width above 16", func() {
			Expect(func() { nbit.New(17, 1) }).To(Panic())
		})

		It("should compare equal by value and width", func() {
			Expect(nbit.U12(0x1C55)).To(Equal(nbit.U12(0xC55)))
			Expect(nbit.U9(0x55)).NotTo(Equal(nbit.U8(0x55)))
		})
	})

	Describe("Mask and Max", func() {
		It("should return the all-ones value for the width", func() {
			Expect(nbit.Mask(1)).To(Equal(uint16(0x1)))
			Expect(nbit.Mask(9)).To(Equal(uint16(0x1FF)))
			Expect(nbit.Mask(12)).To(Equal(uint16(0xFFF)))
			Expect(nbit.Mask(16)).To(Equal(uint16(0xFFFF)))
			Expect(nbit.Max(12).Value()).To(Equal(uint16(0xFFF)))
		})
	})

	Describe("arithmetic", func() {
		It("should wrap addition modulo 2^N", func() {
			pc := nbit.U9(0x1FF)
			Expect(pc.Add(nbit.U9(1)).Value()).To(Equal(uint16(0)))
		})

		It("should wrap subtraction modulo 2^N", func() {
			Expect(nbit.U8(0).Sub(nbit.U8(1)).Value()).To(Equal(uint16(0xFF)))
		})

		It("should keep the receiver's width through bitwise operations", func() {
			n := nbit.U9(0x100).Or(nbit.U9(0xFF)).And(nbit.U9(0x0FF))
			Expect(n.Bits()).To(Equal(9))
			Expect(n.Value()).To(Equal(uint16(0xFF)))
		})

		It("should truncate shifted-out bits", func() {
			Expect(nbit.U8(0x81).Shl(1).Value()).To(Equal(uint16(0x02)))
			Expect(nbit.U8(0x81).Shr(1).Value()).To(Equal(uint16(0x40)))
		})
	})

	Describe("CompareLowerBits", func() {
		It("should compare over the minimum of the two widths", func() {
			word := nbit.U12(0x0704)
			field := nbit.U5(0x04)
			Expect(word.CompareLowerBits(field)).To(BeTrue())
			Expect(field.CompareLowerBits(word)).To(BeTrue())
		})

		It("should detect a mismatch in the overlapping bits", func() {
			Expect(nbit.U12(0x0705).CompareLowerBits(nbit.U5(0x04))).To(BeFalse())
		})

		It("should ignore bits above the narrower width", func() {
			Expect(nbit.U12(0xFE3).CompareLowerBits(nbit.U3(0x3))).To(BeTrue())
		})
	})

	Describe("Bit", func() {
		It("should report individual bits", func() {
			n := nbit.U8(0b0100_0010)
			Expect(n.Bit(1)).To(BeTrue())
			Expect(n.Bit(6)).To(BeTrue())
			Expect(n.Bit(0)).To(BeFalse())
			Expect(n.Bit(7)).To(BeFalse())
		})
	})
})
