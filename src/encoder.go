package ccsds

/*-------------------------------------------------------------
 *
 * Purpose:	Assemble payloads into frames for transmission.
 *
 * Description:	Payloads come either as a plain stream, DataLen(depth)
 *		bytes at a time (EncodePayload), or as a queue of messages
 *		(Enqueue / Next).  With messages, an empty queue may
 *		produce an all zero fill frame so the link never goes
 *		quiet.
 *
 *		Frame layouts:
 *
 *			normal			ASM  codeword
 *			tail, first frame	ASM  codeword  ASM
 *			tail, later frames	     codeword  ASM
 *
 *--------------------------------------------------------------*/

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// Message is one queued payload.  Meta is carried along for logging only.
type Message struct {
	Meta map[string]any
	Data []byte
}

type Encoder struct {
	cfg    EncoderConfig
	mode   AddressMode
	codec  RSCodec
	logger *log.Logger
	now    func() time.Time

	idle    bool
	idleGap time.Duration

	started  bool // A frame has gone out.  Tail mode needs a leading marker until then.
	queue    []*Message
	pending  *Message
	lastEmit time.Time

	block    [RS_BLOCK_LEN]byte
	codeword []byte

	framesTransmitted atomic.Uint64
}

type EncoderOption func(*Encoder)

func WithEncoderLogger(logger *log.Logger) EncoderOption {
	return func(e *Encoder) { e.logger = logger }
}

func WithEncoderCodec(codec RSCodec) EncoderOption {
	return func(e *Encoder) { e.codec = codec }
}

func WithEncoderClock(now func() time.Time) EncoderOption {
	return func(e *Encoder) { e.now = now }
}

func NewEncoder(cfg EncoderConfig, opts ...EncoderOption) (*Encoder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// The hex dump is logged at debug level.
	cfg.Verbose = cfg.Verbose || cfg.Printing

	var e = &Encoder{
		cfg:      cfg,
		mode:     addressModeFor(cfg.Interleave),
		now:      time.Now,
		idle:     cfg.Idle,
		idleGap:  cfg.IdleGap,
		codeword: make([]byte, CodewordLen(cfg.Depth)),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = NewLogger(nil, "encoder", cfg.Verbose)
	}
	if e.codec == nil && cfg.RSEncode {
		e.codec = NewCCSDSCodec()
	}

	return e, nil
}

func (e *Encoder) SetIdle(idle bool) {
	e.idle = idle
}

func (e *Encoder) SetIdleGap(gap time.Duration) {
	e.idleGap = gap
}

// FrameLen is the length of the next frame this encoder will produce.
func (e *Encoder) FrameLen() int {
	if e.cfg.ASMTail && !e.started {
		return FrameLen(e.cfg.Depth) + SYNC_WORD_LEN
	}
	return FrameLen(e.cfg.Depth)
}

func (e *Encoder) Enqueue(msg *Message) {
	e.queue = append(e.queue, msg)
}

func (e *Encoder) Queued() int {
	return len(e.queue)
}

/*-------------------------------------------------------------
 *
 * Name:	Next
 *
 * Purpose:	Produce the next frame in message driven mode.
 *
 * Returns:	Complete frame, or nil if there is nothing to send.
 *
 *		ErrMalformedMessage or ErrLengthMismatch if the message
 *		at the head of the queue was rejected.  It is dropped,
 *		nothing is sent for this cycle, and the following call
 *		carries on with the rest of the queue.
 *
 *--------------------------------------------------------------*/

func (e *Encoder) Next() ([]byte, error) {
	if len(e.queue) == 0 {
		if !e.idle {
			return nil, nil
		}
		if !e.lastEmit.IsZero() && e.now().Sub(e.lastEmit) < e.idleGap {
			return nil, nil
		}

		e.logger.Debug("Pushing an IDLE frame")
		e.pending = &Message{Data: make([]byte, DataLen(e.cfg.Depth))}
		return e.emit(), nil
	}

	e.pending = e.queue[0]
	e.queue[0] = nil
	e.queue = e.queue[1:]

	if e.pending == nil || e.pending.Data == nil {
		e.pending = nil
		e.logger.Error("received a malformed pdu message")
		return nil, ErrMalformedMessage
	}

	if err := e.checkLength(e.pending.Data); err != nil {
		e.pending = nil
		return nil, err
	}

	if len(e.pending.Meta) > 0 {
		e.logger.Debug("message metadata", "meta", e.pending.Meta)
	}

	return e.emit(), nil
}

// EncodePayload is the stream driven path: exactly one frame per payload.
func (e *Encoder) EncodePayload(payload []byte) ([]byte, error) {
	if err := e.checkLength(payload); err != nil {
		return nil, err
	}

	e.pending = &Message{Data: payload}
	return e.emit(), nil
}

func (e *Encoder) checkLength(payload []byte) error {
	var want = DataLen(e.cfg.Depth)
	if len(payload) != want {
		e.logger.Error("payload length mismatch", "expected", want, "got", len(payload))
		return fmt.Errorf("%w: expected %d bytes, got %d", ErrLengthMismatch, want, len(payload))
	}
	return nil
}

func (e *Encoder) emit() []byte {
	var depth = e.cfg.Depth
	var payload = e.pending.Data

	for i := range depth {
		var block = e.block[:]
		extractBlock(block[:RS_DATA_LEN], payload, e.mode, depth, i)

		if e.cfg.RSEncode {
			e.codec.Encode(block, e.cfg.DualBasis)
		} else {
			clear(block[RS_DATA_LEN:])
		}

		insertBlock(e.codeword, block, e.mode, depth, i)
	}

	if e.cfg.Scramble {
		Scramble(e.codeword)
	}

	if e.cfg.Printing {
		e.logger.Debug("codeword\n" + hexDump(e.codeword))
	}

	var frame = make([]byte, 0, e.FrameLen())
	switch {
	case e.cfg.ASMTail && !e.started:
		frame = append(frame, SyncWordBytes[:]...)
		frame = append(frame, e.codeword...)
		frame = append(frame, SyncWordBytes[:]...)
	case e.cfg.ASMTail:
		frame = append(frame, e.codeword...)
		frame = append(frame, SyncWordBytes[:]...)
	default:
		frame = append(frame, SyncWordBytes[:]...)
		frame = append(frame, e.codeword...)
	}

	e.started = true
	e.pending = nil
	e.lastEmit = e.now()
	var n = e.framesTransmitted.Add(1)

	e.logger.Debug("sending frame", "bytes", len(frame), "frames_transmitted", n)

	return frame
}

func (e *Encoder) Config() EncoderConfig {
	return e.cfg
}

func (e *Encoder) Counters() EncoderCounters {
	return EncoderCounters{FramesTransmitted: e.framesTransmitted.Load()}
}

func (e *Encoder) ResetCounters() {
	e.framesTransmitted.Store(0)
}
