package ccsds

/*-------------------------------------------------------------
 *
 * Purpose:	The RS(255,223) code used on CCSDS telemetry links.
 *
 * Description:	Field generator 0x187, first consecutive root 112,
 *		primitive element 11, 32 parity symbols.  Up to 16 symbol
 *		errors per block can be corrected.
 *
 *		CCSDS transmits symbols in Berlekamp's dual basis.  When
 *		dualBasis is set the block is converted to conventional
 *		representation before the arithmetic and back afterwards.
 *
 *--------------------------------------------------------------*/

import (
	"fmt"
	"sync"
)

// RSCodec is the per-block Reed-Solomon engine used by the encoder and decoder.
type RSCodec interface {
	// Encode fills block[223:255] with parity for block[:223].
	Encode(block []byte, dualBasis bool)

	// Decode corrects block in place.  It returns the number of symbols
	// corrected or an error wrapping ErrUncorrectable.
	Decode(block []byte, dualBasis bool) (int, error)
}

const RS_CORRECTABLE = RS_PARITY_LEN / 2

// Rows of the conventional -> dual basis transformation matrix.
var tal = [8]byte{0x8d, 0xef, 0xec, 0x86, 0xfa, 0x99, 0xaf, 0x7b}

var taltab, tal1tab = makeDualBasisTables()

func makeDualBasisTables() ([256]byte, [256]byte) {
	var toDual, fromDual [256]byte

	for i := range 256 {
		var v byte
		for j := range 8 {
			for k := range 8 {
				if i&(1<<k) != 0 {
					v ^= tal[7-k] & (1 << j)
				}
			}
		}
		toDual[i] = v
		fromDual[v] = byte(i)
	}

	return toDual, fromDual
}

var ccsdsCodec *rsCodec
var ccsdsOnce sync.Once

// CCSDSCodec implements RSCodec for the CCSDS RS(255,223) code.
type CCSDSCodec struct {
	rs *rsCodec
}

func NewCCSDSCodec() *CCSDSCodec {
	ccsdsOnce.Do(func() {
		ccsdsCodec = newRSCodec(8, 0x187, 112, 11, RS_PARITY_LEN)
		Assert(ccsdsCodec != nil)
	})

	return &CCSDSCodec{rs: ccsdsCodec}
}

func (c *CCSDSCodec) Encode(block []byte, dualBasis bool) {
	Assert(len(block) == RS_BLOCK_LEN)

	if !dualBasis {
		c.rs.encode(block[:RS_DATA_LEN], block[RS_DATA_LEN:])
		return
	}

	var conv [RS_DATA_LEN]byte
	for i := range conv {
		conv[i] = tal1tab[block[i]]
	}

	c.rs.encode(conv[:], block[RS_DATA_LEN:])

	for i := RS_DATA_LEN; i < RS_BLOCK_LEN; i++ {
		block[i] = taltab[block[i]]
	}
}

func (c *CCSDSCodec) Decode(block []byte, dualBasis bool) (int, error) {
	Assert(len(block) == RS_BLOCK_LEN)

	var work = block
	var conv [RS_BLOCK_LEN]byte
	if dualBasis {
		for i := range conv {
			conv[i] = tal1tab[block[i]]
		}
		work = conv[:]
	}

	var derrors = c.rs.decode(work, nil)
	if derrors < 0 {
		return -1, fmt.Errorf("%w: more than %d symbol errors", ErrUncorrectable, RS_CORRECTABLE)
	}

	if dualBasis {
		for i := range conv {
			block[i] = taltab[conv[i]]
		}
	}

	return derrors, nil
}
