package ccsds

/*--------------------------------------------------------------------------------
 *
 * Purpose:	Pseudo-randomize / de-randomize a codeword to guarantee
 *		sufficient bit transitions on the channel.
 *
 * Description:	CCSDS 131.0-B uses h(x) = x^8 + x^7 + x^5 + x^3 + 1 with
 *		all ones as the initial state.  The sequence repeats
 *		every 255 bytes and starts FF 48 0E C0 9A 0D 70 BC ...
 *
 *		The marker is never randomized, only the codeword.  The
 *		generator restarts at the first codeword byte of every
 *		frame so the operation is a plain XOR and is its own
 *		inverse.
 *
 *--------------------------------------------------------------------------------*/

const PN_PERIOD = 255

var pnSequence = makePNSequence()

func makePNSequence() [PN_PERIOD]byte {
	var seq [PN_PERIOD]byte

	// a[n+8] = a[n+7] ^ a[n+5] ^ a[n+3] ^ a[n]
	// The register holds the 8 most recent bits, newest in bit 0.
	var sr uint = 0xff
	for i := range PN_PERIOD {
		var b byte
		for range 8 {
			var out = (sr >> 7) & 1
			b = (b << 1) | byte(out)

			var fb = ((sr >> 7) ^ (sr >> 4) ^ (sr >> 2) ^ sr) & 1
			sr = ((sr << 1) | fb) & 0xff
		}
		seq[i] = b
	}

	return seq
}

// Scramble XORs the codeword with the pseudo-random cover sequence, in place.
func Scramble(codeword []byte) {
	for i := range codeword {
		codeword[i] ^= pnSequence[i%PN_PERIOD]
	}
}

// Descramble undoes Scramble.  Same operation.
func Descramble(codeword []byte) {
	Scramble(codeword)
}
