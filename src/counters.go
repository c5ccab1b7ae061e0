package ccsds

// DecoderCounters only ever go up, until ResetCounters.
type DecoderCounters struct {
	FramesReceived    uint64 // Sync marker matched.
	FramesDecoded     uint64 // Every RS block of the codeword was good.
	SubframesDecoded  uint64 // Individual RS blocks that were good.
	FillFramesDecoded uint64 // Good frames dropped as fill.
}

type EncoderCounters struct {
	FramesTransmitted uint64
}
