package ccsds

// SPDX-FileCopyrightText: 2002 Phil Karn, KA9Q
// SPDX-FileCopyrightText: The Samoyed Authors

/*-------------------------------------------------------------
 *
 * Name:	decode
 *
 * Purpose:	Find and fix symbol errors in a full nn symbol block.
 *
 * Inputs:	data	- Block of nn symbols, data followed by parity.
 *			  Corrected in place.
 *
 *		errlocs	- Optional.  Positions of corrected symbols are
 *			  stored here.  Needs room for nroots entries.
 *
 * Returns:	Number of symbols corrected, or -1 if the block could not
 *		be corrected.  data is left untouched on failure.
 *
 * Description:	Syndromes, then Berlekamp-Massey for the error locator,
 *		Chien search for its roots and Forney for the magnitudes.
 *		No erasures.
 *
 *--------------------------------------------------------------*/

func (rs *rsCodec) decode(data []byte, errlocs []int) int {
	var nroots = rs.nroots
	var nn = rs.nn
	var a0 = rs.a0

	Assert(len(data) >= nn)

	var lambda = make([]int, nroots+1) // Error locator polynomial.
	var s = make([]int, nroots)        // Syndromes.
	var b = make([]int, nroots+1)
	var t = make([]int, nroots+1)
	var omega = make([]int, nroots+1) // Error evaluator polynomial.
	var reg = make([]int, nroots+1)
	var root = make([]int, 0, nroots)
	var loc = make([]int, 0, nroots)

	// Evaluate data(x) at the roots of g(x).
	for i := range s {
		s[i] = int(data[0])
	}
	for j := 1; j < nn; j++ {
		for i := range s {
			if s[i] == 0 {
				s[i] = int(data[j])
			} else {
				s[i] = int(data[j]) ^ int(rs.alphaTo[rs.modnn(int(rs.indexOf[s[i]])+(rs.fcr+i)*rs.prim)])
			}
		}
	}

	var synError = 0
	for i := range s {
		synError |= s[i]
		s[i] = int(rs.indexOf[s[i]])
	}
	if synError == 0 {
		return 0 // Already a codeword.
	}

	lambda[0] = 1
	for i := range b {
		b[i] = int(rs.indexOf[lambda[i]])
	}

	// Berlekamp-Massey.
	var el = 0
	for r := 1; r <= nroots; r++ {
		var discr = 0
		for i := 0; i < r; i++ {
			if lambda[i] != 0 && s[r-i-1] != a0 {
				discr ^= int(rs.alphaTo[rs.modnn(int(rs.indexOf[lambda[i]])+s[r-i-1])])
			}
		}
		discr = int(rs.indexOf[discr])

		if discr == a0 {
			copy(b[1:], b[:nroots])
			b[0] = a0
			continue
		}

		t[0] = lambda[0]
		for i := range nroots {
			if b[i] != a0 {
				t[i+1] = lambda[i+1] ^ int(rs.alphaTo[rs.modnn(discr+b[i])])
			} else {
				t[i+1] = lambda[i+1]
			}
		}

		if 2*el <= r-1 {
			el = r - el
			for i := range b {
				if lambda[i] == 0 {
					b[i] = a0
				} else {
					b[i] = rs.modnn(int(rs.indexOf[lambda[i]]) - discr + nn)
				}
			}
		} else {
			copy(b[1:], b[:nroots])
			b[0] = a0
		}
		copy(lambda, t)
	}

	var degLambda = 0
	for i := range lambda {
		lambda[i] = int(rs.indexOf[lambda[i]])
		if lambda[i] != a0 {
			degLambda = i
		}
	}

	// Chien search.
	copy(reg[1:], lambda[1:])
	for i, k := 1, rs.iprim-1; i <= nn; i, k = i+1, rs.modnn(k+rs.iprim) {
		var q = 1 // lambda[0] is always 0 in index form.
		for j := degLambda; j > 0; j-- {
			if reg[j] != a0 {
				reg[j] = rs.modnn(reg[j] + j)
				q ^= int(rs.alphaTo[reg[j]])
			}
		}
		if q != 0 {
			continue
		}

		root = append(root, i)
		loc = append(loc, k)
		if len(root) == degLambda {
			break
		}
	}

	if degLambda != len(root) {
		return -1 // Uncorrectable.
	}

	// omega(x) = s(x)*lambda(x) mod x**nroots, index form.
	var degOmega = 0
	for i := range nroots {
		var tmp = 0
		for j := min(degLambda, i); j >= 0; j-- {
			if s[i-j] != a0 && lambda[j] != a0 {
				tmp ^= int(rs.alphaTo[rs.modnn(s[i-j]+lambda[j])])
			}
		}
		if tmp != 0 {
			degOmega = i
		}
		omega[i] = int(rs.indexOf[tmp])
	}
	omega[nroots] = a0

	// Forney.  Work out all magnitudes before touching data so a late
	// failure leaves the block as received.
	var magnitude = make([]byte, len(root))
	for j := len(root) - 1; j >= 0; j-- {
		var num1 = 0
		for i := degOmega; i >= 0; i-- {
			if omega[i] != a0 {
				num1 ^= int(rs.alphaTo[rs.modnn(omega[i]+i*root[j])])
			}
		}
		var num2 = int(rs.alphaTo[rs.modnn(root[j]*(rs.fcr-1)+nn)])

		// lambda[i+1] for even i is the formal derivative.
		var den = 0
		for i := min(degLambda, nroots-1) &^ 1; i >= 0; i -= 2 {
			if lambda[i+1] != a0 {
				den ^= int(rs.alphaTo[rs.modnn(lambda[i+1]+i*root[j])])
			}
		}
		if den == 0 {
			return -1
		}

		if num1 != 0 {
			magnitude[j] = rs.alphaTo[rs.modnn(int(rs.indexOf[num1])+int(rs.indexOf[num2])+nn-int(rs.indexOf[den]))]
		}
	}

	for j := range root {
		data[loc[j]] ^= magnitude[j]
	}

	for i := 0; i < len(loc) && i < len(errlocs); i++ {
		errlocs[i] = loc[i]
	}

	return len(root)
}
