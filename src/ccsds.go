package ccsds

/*------------------------------------------------------------------
 *
 * Purpose:	Sizes and markers shared by the frame encoder and decoder.
 *
 * Description:	A frame on the wire is an Attached Sync Marker followed
 *		by a codeword.  The codeword is made of one or more
 *		RS(255,223) blocks, optionally interleaved byte by byte.
 *
 *		+--------+------------------------------------------+
 *		|  ASM   |  codeword, depth * 255 bytes             |
 *		+--------+------------------------------------------+
 *
 *		In "tail" mode the marker follows the codeword instead,
 *		and the very first frame carries one on each side.
 *
 *------------------------------------------------------------------*/

const SyncWord uint32 = 0x1ACFFC1D

const SYNC_WORD_LEN = 4

var SyncWordBytes = [SYNC_WORD_LEN]byte{0x1A, 0xCF, 0xFC, 0x1D}

const RS_BLOCK_LEN = 255
const RS_DATA_LEN = 223
const RS_PARITY_LEN = RS_BLOCK_LEN - RS_DATA_LEN

const MAX_INTERLEAVE = 8 // CCSDS allows I = 1, 2, 3, 4, 5, 8.

// CodewordLen is the number of bytes following the marker for the given interleave depth.
func CodewordLen(depth int) int {
	return depth * RS_BLOCK_LEN
}

// DataLen is the payload size carried by one frame.
func DataLen(depth int) int {
	return depth * RS_DATA_LEN
}

// FrameLen is a full wire frame: marker plus codeword.
func FrameLen(depth int) int {
	return SYNC_WORD_LEN + CodewordLen(depth)
}
