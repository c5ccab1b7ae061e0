package ccsds

/********************************************************************************
 *
 * Purpose:     Find sync markers in a stream of bits, gather the codeword
 *		that follows and recover the payload from it.
 *
 *******************************************************************************/

import (
	"fmt"
	"math/bits"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

type DecoderState int

const (
	StateSyncSearch DecoderState = iota
	StateCodeword
)

func (s DecoderState) String() string {
	switch s {
	case StateSyncSearch:
		return "sync search"
	case StateCodeword:
		return "codeword"
	default:
		return fmt.Sprintf("DecoderState(%d)", int(s))
	}
}

// Payload is what gets published for every good, non-fill frame.
type Payload struct {
	Data      []byte    // DataLen(depth) bytes.  Owned by the receiver.
	Corrected int       // Symbols fixed by RS, all blocks together.
	Received  time.Time // When the last bit of the codeword arrived.
}

type PayloadSink interface {
	Publish(p Payload) error
}

type PayloadSinkFunc func(p Payload) error

func (f PayloadSinkFunc) Publish(p Payload) error {
	return f(p)
}

type BlockResult struct {
	Corrected int   // Symbols fixed.  0 if RS decoding is disabled.
	Err       error // Non-nil if the block could not be corrected.
}

// DecodeResult describes the most recent codeword, good or bad.
type DecodeResult struct {
	Blocks    []BlockResult
	Success   bool // All blocks good.
	Fill      bool // Good but dropped as a fill frame.
	Published bool
}

type decoderCounters struct {
	framesReceived    atomic.Uint64
	framesDecoded     atomic.Uint64
	subframesDecoded  atomic.Uint64
	fillFramesDecoded atomic.Uint64
}

type Decoder struct {
	cfg    DecoderConfig
	mode   AddressMode
	codec  RSCodec
	sink   PayloadSink
	logger *log.Logger
	now    func() time.Time

	state       DecoderState
	reg         uint32 // Most recent bits, newest in bit 0.
	bitCounter  int
	byteCounter int

	codeword []byte // CodewordLen(depth)
	payload  []byte // DataLen(depth)
	block    [RS_BLOCK_LEN]byte

	counters decoderCounters
	last     DecodeResult
}

type DecoderOption func(*Decoder)

func WithDecoderLogger(logger *log.Logger) DecoderOption {
	return func(d *Decoder) { d.logger = logger }
}

func WithDecoderCodec(codec RSCodec) DecoderOption {
	return func(d *Decoder) { d.codec = codec }
}

func WithSink(sink PayloadSink) DecoderOption {
	return func(d *Decoder) { d.sink = sink }
}

func WithDecoderClock(now func() time.Time) DecoderOption {
	return func(d *Decoder) { d.now = now }
}

func NewDecoder(cfg DecoderConfig, opts ...DecoderOption) (*Decoder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// The hex dump is logged at debug level.
	cfg.Verbose = cfg.Verbose || cfg.Printing

	var d = &Decoder{
		cfg:      cfg,
		mode:     addressModeFor(cfg.Deinterleave),
		now:      time.Now,
		codeword: make([]byte, CodewordLen(cfg.Depth)),
		payload:  make([]byte, DataLen(cfg.Depth)),
	}

	for _, opt := range opts {
		opt(d)
	}

	if d.logger == nil {
		d.logger = NewLogger(nil, "decoder", cfg.Verbose)
	}
	if d.codec == nil && cfg.RSDecode {
		d.codec = NewCCSDSCodec()
	}
	if d.sink == nil {
		d.sink = PayloadSinkFunc(func(Payload) error { return nil })
	}

	d.transition(StateSyncSearch)

	return d, nil
}

/***********************************************************************************
 *
 * Name:        Work
 *
 * Purpose:     Feed a batch of received bits to the state machine.
 *
 * Inputs:      in	- One bit per byte.  Only the least significant bit is used.
 *
 * Returns:	Number of bits consumed, always len(in).
 *
 * Description: Any number of frames can be completed during one call.
 *		Each completed codeword is decoded and published before the
 *		next bit is looked at.
 *
 ***********************************************************************************/

func (d *Decoder) Work(in []byte) int {
	for _, b := range in {
		d.ProcessBit(b)
	}
	return len(in)
}

func (d *Decoder) ProcessBit(dbit byte) {
	d.reg = (d.reg << 1) | uint32(dbit&1)

	switch d.state {
	case StateSyncSearch:
		if d.syncMatch() {
			d.logger.Debug("sync word detected", "bit_errors", bits.OnesCount32(d.reg^SyncWord))
			d.counters.framesReceived.Add(1)
			d.transition(StateCodeword)
		}

	case StateCodeword:
		d.bitCounter++
		if d.bitCounter == 8 {
			d.codeword[d.byteCounter] = byte(d.reg)
			d.byteCounter++
			d.bitCounter = 0
		}

		if d.byteCounter == len(d.codeword) {
			d.decodeFrame()
			d.transition(StateSyncSearch)
		}
	}
}

// transition is the only place the state changes.
func (d *Decoder) transition(next DecoderState) {
	switch next {
	case StateSyncSearch:
		d.reg = 0
	case StateCodeword:
		d.byteCounter = 0
		d.bitCounter = 0
	}

	d.logger.Debug("enter " + next.String())
	d.state = next
}

func (d *Decoder) syncMatch() bool {
	return bits.OnesCount32(d.reg^SyncWord) <= d.cfg.Threshold
}

/***********************************************************************************
 *
 * Name:	decodeFrame
 *
 * Purpose:	Turn a complete codeword into a payload.
 *
 * Description:	Descramble, then split into RS blocks.  Every block is
 *		decoded even after one has failed so the per block results
 *		of a bad frame can still be examined.  The frame is good
 *		only if all blocks are good.  Good frames are checked for
 *		fill and published if they are not.
 *
 ***********************************************************************************/

func (d *Decoder) decodeFrame() {
	var depth = d.cfg.Depth

	d.logger.Debug("loaded codeword", "len", len(d.codeword))
	if d.cfg.Printing {
		d.logger.Debug("codeword\n" + hexDump(d.codeword))
	}

	if d.cfg.Descramble {
		Descramble(d.codeword)
	}

	var result = DecodeResult{
		Blocks:  make([]BlockResult, depth),
		Success: true,
	}
	var corrected = 0

	for i := range depth {
		var block = d.block[:]
		extractBlock(block, d.codeword, d.mode, depth, i)

		if d.cfg.RSDecode {
			var nerrors, err = d.codec.Decode(block, d.cfg.DualBasis)
			if err != nil {
				d.logger.Debug("could not decode rs block", "block", i, "err", err)
				result.Blocks[i].Err = err
				result.Success = false
			} else {
				d.logger.Debug("decoded rs block", "block", i, "errors", nerrors)
				result.Blocks[i].Corrected = nerrors
				corrected += nerrors
				d.counters.subframesDecoded.Add(1)
			}
		}

		insertBlock(d.payload, block[:RS_DATA_LEN], d.mode, depth, i)
	}

	if result.Success {
		d.counters.framesDecoded.Add(1)

		if IsFillFrameFast(d.payload) {
			d.counters.fillFramesDecoded.Add(1)
			result.Fill = true
		} else {
			var p = Payload{
				Data:      append([]byte(nil), d.payload...),
				Corrected: corrected,
				Received:  d.now(),
			}
			if err := d.sink.Publish(p); err != nil {
				d.logger.Error("could not publish payload", "err", err)
			} else {
				result.Published = true
			}
		}
	}

	d.last = result

	if d.cfg.Verbose {
		var c = d.Counters()
		d.logger.Debug("counters",
			"received", c.FramesReceived,
			"decoded", c.FramesDecoded,
			"subframes", c.SubframesDecoded,
			"fill", c.FillFramesDecoded)
	}
}

func (d *Decoder) State() DecoderState {
	return d.state
}

func (d *Decoder) Config() DecoderConfig {
	return d.cfg
}

// LastResult returns a copy of the outcome of the most recent codeword.
func (d *Decoder) LastResult() DecodeResult {
	var r = d.last
	r.Blocks = append([]BlockResult(nil), d.last.Blocks...)
	return r
}

// LastPayload is the payload buffer as left by the most recent codeword,
// good or bad.
func (d *Decoder) LastPayload() []byte {
	return append([]byte(nil), d.payload...)
}

// Counters may be called from another goroutine, e.g. a metrics scrape.
func (d *Decoder) Counters() DecoderCounters {
	return DecoderCounters{
		FramesReceived:    d.counters.framesReceived.Load(),
		FramesDecoded:     d.counters.framesDecoded.Load(),
		SubframesDecoded:  d.counters.subframesDecoded.Load(),
		FillFramesDecoded: d.counters.fillFramesDecoded.Load(),
	}
}

func (d *Decoder) ResetCounters() {
	d.counters.framesReceived.Store(0)
	d.counters.framesDecoded.Store(0)
	d.counters.subframesDecoded.Store(0)
	d.counters.fillFramesDecoded.Store(0)
}

// Reset abandons any partial codeword and clears the counters.
func (d *Decoder) Reset() {
	d.ResetCounters()
	d.last = DecodeResult{}
	d.transition(StateSyncSearch)
}
