package ccsds

import "fmt"

// AddressMode selects how RS block bytes are laid out within a codeword.
type AddressMode int

const (
	// Contiguous places block i at [i*blockLen, (i+1)*blockLen).
	Contiguous AddressMode = iota
	// Interleaved spreads the blocks round robin: byte j of block i lands at i + j*depth.
	Interleaved
)

func (m AddressMode) String() string {
	switch m {
	case Contiguous:
		return "contiguous"
	case Interleaved:
		return "interleaved"
	default:
		return fmt.Sprintf("AddressMode(%d)", int(m))
	}
}

func addressModeFor(interleave bool) AddressMode {
	if interleave {
		return Interleaved
	}
	return Contiguous
}

/*------------------------------------------------------------------
 *
 * Name:	Position
 *
 * Purpose:	Map a byte of a logical RS block to its physical offset.
 *
 * Inputs:	mode	 - Contiguous or Interleaved.
 *		depth	 - Number of RS blocks in the buffer.
 *		blockLen - Bytes per block in this buffer.  255 for the
 *			   codeword, 223 for the payload.
 *		i	 - Block index, 0 thru depth-1.
 *		j	 - Offset within the block, 0 thru blockLen-1.
 *
 * Returns:	Offset into a buffer of depth*blockLen bytes.
 *
 *------------------------------------------------------------------*/

func Position(mode AddressMode, depth int, blockLen int, i int, j int) int {
	if mode == Interleaved {
		return i + j*depth
	}
	return i*blockLen + j
}

// extractBlock copies block i out of src into dst.  len(dst) is the block length.
func extractBlock(dst []byte, src []byte, mode AddressMode, depth int, i int) {
	var blockLen = len(dst)
	Assert(len(src) == depth*blockLen)

	if mode == Contiguous {
		copy(dst, src[i*blockLen:(i+1)*blockLen])
		return
	}

	for j := range blockLen {
		dst[j] = src[Position(mode, depth, blockLen, i, j)]
	}
}

// insertBlock is the inverse of extractBlock.
func insertBlock(dst []byte, src []byte, mode AddressMode, depth int, i int) {
	var blockLen = len(src)
	Assert(len(dst) == depth*blockLen)

	if mode == Contiguous {
		copy(dst[i*blockLen:(i+1)*blockLen], src)
		return
	}

	for j := range blockLen {
		dst[Position(mode, depth, blockLen, i, j)] = src[j]
	}
}
