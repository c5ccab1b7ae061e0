package ccsds

// SPDX-FileCopyrightText: 2002 Phil Karn, KA9Q
// SPDX-FileCopyrightText: The Samoyed Authors

// The Reed-Solomon routines in rs_*.go are derived from Phil Karn's
// codec, released under the GPL:
//
//	Copyright 2002 Phil Karn, KA9Q
//	May be used under the terms of the GNU General Public License (GPL)

// rsCodec is the control block for one code.  Tables are built once by
// newRSCodec and never modified afterwards, so a single value can be
// shared by any number of encoders and decoders.
type rsCodec struct {
	mm      uint   // Bits per symbol.  Always 8 here.
	nn      int    // Symbols per block, (1<<mm)-1.
	a0      int    // log(0), same as nn.
	alphaTo []byte // Index form -> polynomial form.
	indexOf []byte // Polynomial form -> index form.
	genpoly []byte // Generator polynomial, index form.
	nroots  int    // Parity symbols per block.
	fcr     int    // First consecutive root, index form.
	prim    int    // Primitive element, index form.
	iprim   int    // prim-th root of 1, index form.
}

// modnn reduces x modulo nn without a division.
func (rs *rsCodec) modnn(x int) int {
	for x >= rs.nn {
		x -= rs.nn
		x = (x >> rs.mm) + (x & rs.nn)
	}
	return x
}

/*-------------------------------------------------------------
 *
 * Name:	newRSCodec
 *
 * Purpose:	Build Galois field tables and the generator polynomial.
 *
 * Inputs:	symsize	- Symbol size in bits, 1 thru 8.
 *		gfpoly	- Field generator polynomial coefficients.
 *		fcr	- First root of the generator polynomial, index form.
 *		prim	- Primitive element used to step between roots.
 *		nroots	- Number of roots = number of parity symbols.
 *
 * Returns:	nil if the parameters are unusable or gfpoly is not
 *		primitive.
 *
 *--------------------------------------------------------------*/

func newRSCodec(symsize uint, gfpoly int, fcr int, prim int, nroots int) *rsCodec {
	if symsize < 1 || symsize > 8 {
		return nil
	}

	var size = 1 << symsize
	if fcr >= size || prim == 0 || prim >= size || nroots >= size {
		return nil
	}

	var rs = &rsCodec{
		mm:      symsize,
		nn:      size - 1,
		a0:      size - 1,
		alphaTo: make([]byte, size),
		indexOf: make([]byte, size),
		genpoly: make([]byte, nroots+1),
		nroots:  nroots,
		fcr:     fcr,
		prim:    prim,
	}

	rs.indexOf[0] = byte(rs.a0)
	rs.alphaTo[rs.a0] = 0

	var sr = 1
	for i := 0; i < rs.nn; i++ {
		rs.indexOf[sr] = byte(i)
		rs.alphaTo[i] = byte(sr)
		sr <<= 1
		if sr&size != 0 {
			sr ^= gfpoly
		}
		sr &= rs.nn
	}
	if sr != 1 {
		return nil
	}

	var iprim = 1
	for iprim%prim != 0 {
		iprim += rs.nn
	}
	rs.iprim = iprim / prim

	// Multiply out (x - a^root) for each root, polynomial form.
	rs.genpoly[0] = 1
	var root = fcr * prim
	for i := range nroots {
		rs.genpoly[i+1] = 1
		for j := i; j > 0; j-- {
			if rs.genpoly[j] != 0 {
				rs.genpoly[j] = rs.genpoly[j-1] ^ rs.alphaTo[rs.modnn(int(rs.indexOf[rs.genpoly[j]])+root)]
			} else {
				rs.genpoly[j] = rs.genpoly[j-1]
			}
		}
		rs.genpoly[0] = rs.alphaTo[rs.modnn(int(rs.indexOf[rs.genpoly[0]])+root)]
		root += prim
	}

	// Index form is quicker for encoding.
	for i := range rs.genpoly {
		rs.genpoly[i] = rs.indexOf[rs.genpoly[i]]
	}

	return rs
}
