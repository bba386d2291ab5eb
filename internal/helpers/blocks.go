package helpers

import (
	"fmt"

	"github.com/deploymenttheory/go-bee/internal/crypto"
)

// ExtendBlock pads data with zero bytes up to length. The input is
// returned unchanged when it is already long enough.
func ExtendBlock(data []byte, length int) []byte {
	if len(data) >= length {
		return data
	}
	out := make([]byte, length)
	copy(out, data)
	return out
}

// AlignBlockFillRandom pads data with random bytes up to the next
// multiple of alignment. The padding carries no meaning; the hardware
// always fetches full AES blocks.
func AlignBlockFillRandom(data []byte, alignment int) ([]byte, error) {
	rem := len(data) % alignment
	if rem == 0 {
		return data, nil
	}
	pad, err := crypto.RandomBytes(alignment - rem)
	if err != nil {
		return nil, fmt.Errorf("failed to generate alignment padding: %w", err)
	}
	out := make([]byte, 0, len(data)+len(pad))
	out = append(out, data...)
	return append(out, pad...), nil
}

// SplitBlocks splits data into consecutive windows of blockSize bytes;
// the last window may be shorter. Windows alias the input.
func SplitBlocks(data []byte, blockSize int) [][]byte {
	blocks := make([][]byte, 0, (len(data)+blockSize-1)/blockSize)
	for off := 0; off < len(data); off += blockSize {
		end := off + blockSize
		if end > len(data) {
			end = len(data)
		}
		blocks = append(blocks, data[off:end])
	}
	return blocks
}

// ReverseBytes returns a byte-reversed copy of data.
func ReverseBytes(data []byte) []byte {
	out := make([]byte, len(data))
	for i, b := range data {
		out[len(data)-1-i] = b
	}
	return out
}
