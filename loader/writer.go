package loader

import (
	"fmt"
	"io"

	"github.com/MasonDill/pic10-emulator/emu"
	"github.com/MasonDill/pic10-emulator/nbit"
)

// wordsPerRecord is how many instruction words each data record holds.
// Eight words is the conventional 16-byte record length.
const wordsPerRecord = 8

// Write emits image as INHX8M records. Runs of erased words are
// omitted, matching what device programmers emit, so reading the
// output back yields the same image.
func Write(w io.Writer, image [emu.ProgramWords]nbit.Number) error {
	for base := 0; base < emu.ProgramWords; base += wordsPerRecord {
		words := image[base : base+wordsPerRecord]
		if allErased(words) {
			continue
		}

		if err := writeRecord(w, base, words); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w, ":00000001FF")
	return err
}

func allErased(words []nbit.Number) bool {
	for _, word := range words {
		if word.Value() != emu.ErasedWord {
			return false
		}
	}
	return true
}

// writeRecord emits one data record of little-endian words.
func writeRecord(w io.Writer, wordAddr int, words []nbit.Number) error {
	byteAddr := wordAddr * 2
	raw := make([]byte, 0, 4+2*len(words))
	raw = append(raw,
		uint8(2*len(words)),
		uint8(byteAddr>>8),
		uint8(byteAddr),
		recordData,
	)
	for _, word := range words {
		raw = append(raw, uint8(word.Value()), uint8(word.Value()>>8))
	}

	sum := uint8(0)
	for _, b := range raw {
		sum += b
	}

	_, err := fmt.Fprintf(w, ":%02X%02X%02X%02X%s%02X\n",
		raw[0], raw[1], raw[2], raw[3], hexBytes(raw[4:]), -sum)
	return err
}

func hexBytes(raw []byte) string {
	out := make([]byte, 0, 2*len(raw))
	for _, b := range raw {
		out = fmt.Appendf(out, "%02X", b)
	}
	return string(out)
}
