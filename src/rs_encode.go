package ccsds

// SPDX-FileCopyrightText: 2002 Phil Karn, KA9Q
// SPDX-FileCopyrightText: The Samoyed Authors

// encode fills parity[:nroots] for the nn-nroots symbols of data.
// The shift register is the parity buffer itself.
func (rs *rsCodec) encode(data []byte, parity []byte) {
	var nroots = rs.nroots
	var dataLen = rs.nn - nroots

	Assert(len(data) >= dataLen)
	Assert(len(parity) >= nroots)

	var bb = parity[:nroots]
	clear(bb)

	for i := range dataLen {
		var feedback = int(rs.indexOf[data[i]^bb[0]])

		if feedback != rs.a0 {
			for j := 1; j < nroots; j++ {
				bb[j] ^= rs.alphaTo[rs.modnn(feedback+int(rs.genpoly[nroots-j]))]
			}
		}

		copy(bb, bb[1:])

		if feedback != rs.a0 {
			bb[nroots-1] = rs.alphaTo[rs.modnn(feedback+int(rs.genpoly[0]))]
		} else {
			bb[nroots-1] = 0
		}
	}
}
