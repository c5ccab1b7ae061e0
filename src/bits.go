package ccsds

// The decoder is fed one bit per byte, value 0 or 1, the way a
// demodulator and bit slicer hand them over.  These convert between that
// and packed bytes, most significant bit first.

func UnpackBits(packed []byte) []byte {
	var out = make([]byte, 0, len(packed)*8)
	for _, b := range packed {
		for imask := byte(0x80); imask != 0; imask >>= 1 {
			out = append(out, IfThenElse(b&imask != 0, byte(1), byte(0)))
		}
	}
	return out
}

// packBits ignores a trailing partial byte.
func packBits(unpacked []byte) []byte {
	var out = make([]byte, 0, len(unpacked)/8)
	for len(unpacked) >= 8 {
		var b byte
		for k := range 8 {
			b = (b << 1) | (unpacked[k] & 1)
		}
		out = append(out, b)
		unpacked = unpacked[8:]
	}
	return out
}
