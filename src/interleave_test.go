package ccsds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestPositionKnownValues(t *testing.T) {
	assert.Equal(t, 0, Position(Interleaved, 5, 255, 0, 0))
	assert.Equal(t, 3, Position(Interleaved, 5, 255, 3, 0))
	assert.Equal(t, 5, Position(Interleaved, 5, 255, 0, 1))
	assert.Equal(t, 4+254*5, Position(Interleaved, 5, 255, 4, 254))

	assert.Equal(t, 255*2+7, Position(Contiguous, 5, 255, 2, 7))
	assert.Equal(t, 223*4+222, Position(Contiguous, 5, 223, 4, 222))
}

func TestPositionIsPermutation(t *testing.T) {
	for _, mode := range []AddressMode{Contiguous, Interleaved} {
		for depth := 1; depth <= MAX_INTERLEAVE; depth++ {
			for _, blockLen := range []int{RS_DATA_LEN, RS_BLOCK_LEN} {
				var seen = make([]bool, depth*blockLen)
				for i := range depth {
					for j := range blockLen {
						var p = Position(mode, depth, blockLen, i, j)
						require.False(t, seen[p], "%s depth %d: offset %d used twice", mode, depth, p)
						seen[p] = true
					}
				}
			}
		}
	}
}

func TestInterleaveRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var mode = rapid.SampledFrom([]AddressMode{Contiguous, Interleaved}).Draw(t, "mode")
		var depth = rapid.IntRange(1, MAX_INTERLEAVE).Draw(t, "depth")
		var blockLen = rapid.SampledFrom([]int{RS_DATA_LEN, RS_BLOCK_LEN}).Draw(t, "blockLen")
		var src = rapid.SliceOfN(rapid.Byte(), depth*blockLen, depth*blockLen).Draw(t, "src")

		var dst = make([]byte, len(src))
		var block = make([]byte, blockLen)
		for i := range depth {
			extractBlock(block, src, mode, depth, i)
			insertBlock(dst, block, mode, depth, i)
		}

		assert.Equal(t, src, dst)
	})
}

func TestInterleavedBlocksAreSpread(t *testing.T) {
	// Consecutive bytes on the channel belong to different blocks, so a
	// burst of depth bytes costs each block only one symbol.
	var depth = 5
	var buf = make([]byte, depth*RS_BLOCK_LEN)
	for i := range depth {
		var block = make([]byte, RS_BLOCK_LEN)
		for j := range block {
			block[j] = byte(i)
		}
		insertBlock(buf, block, Interleaved, depth, i)
	}

	for k := 0; k+depth <= len(buf); k += depth {
		assert.Equal(t, []byte{0, 1, 2, 3, 4}, buf[k:k+depth])
	}
}

func TestAddressModeString(t *testing.T) {
	assert.Equal(t, "interleaved", addressModeFor(true).String())
	assert.Equal(t, "contiguous", addressModeFor(false).String())
	assert.Equal(t, "AddressMode(7)", AddressMode(7).String())
}
