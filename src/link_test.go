package ccsds

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Shared fixtures for the encoder / decoder tests.

type collector struct {
	payloads []Payload
}

func (c *collector) Publish(p Payload) error {
	c.payloads = append(c.payloads, p)
	return nil
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func testConfig(depth int) Config {
	var cfg = DefaultConfig()
	cfg.Decoder.Depth = depth
	cfg.Encoder.Depth = depth
	return cfg
}

func newTestEncoder(t *testing.T, cfg EncoderConfig, opts ...EncoderOption) *Encoder {
	t.Helper()

	var e, err = NewEncoder(cfg, append([]EncoderOption{WithEncoderLogger(DiscardLogger())}, opts...)...)
	require.NoError(t, err)
	return e
}

func newTestDecoder(t *testing.T, cfg DecoderConfig, opts ...DecoderOption) (*Decoder, *collector) {
	t.Helper()

	var c = &collector{}
	var d, err = NewDecoder(cfg, append([]DecoderOption{WithDecoderLogger(DiscardLogger()), WithSink(c)}, opts...)...)
	require.NoError(t, err)
	return d, c
}

func testPayload(depth int, seed byte) []byte {
	var p = make([]byte, DataLen(depth))
	for i := range p {
		p[i] = byte(i*7) ^ seed
	}
	p[0] |= 0x80
	return p
}

func encodeFrame(t *testing.T, e *Encoder, payload []byte) []byte {
	t.Helper()

	var frame, err = e.EncodePayload(payload)
	require.NoError(t, err)
	return frame
}

// flipCodewordByte corrupts one byte of an RS block as seen on the channel.
func flipCodewordByte(frame []byte, mode AddressMode, depth int, block int, j int) {
	frame[SYNC_WORD_LEN+Position(mode, depth, RS_BLOCK_LEN, block, j)] ^= 0xA5
}
