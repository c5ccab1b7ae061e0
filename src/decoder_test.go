package ccsds

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestDecoderStartsInSyncSearch(t *testing.T) {
	var d, _ = newTestDecoder(t, DefaultConfig().Decoder)

	assert.Equal(t, StateSyncSearch, d.State())
	assert.Equal(t, DecoderCounters{}, d.Counters())
	assert.Equal(t, "sync search", d.State().String())
	assert.Equal(t, "codeword", StateCodeword.String())
}

func TestNewDecoderRejectsBadConfig(t *testing.T) {
	var cfg = DefaultConfig().Decoder

	cfg.Depth = 0
	var _, err = NewDecoder(cfg)
	require.ErrorIs(t, err, ErrInvalidConfig)

	cfg.Depth = MAX_INTERLEAVE + 1
	_, err = NewDecoder(cfg)
	require.ErrorIs(t, err, ErrInvalidConfig)

	cfg.Depth = 5
	cfg.Threshold = -1
	_, err = NewDecoder(cfg)
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestDecoderRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		var depth = rapid.IntRange(1, MAX_INTERLEAVE).Draw(rt, "depth")
		var cfg = testConfig(depth)
		cfg.Encoder.Interleave = rapid.Bool().Draw(rt, "interleave")
		cfg.Decoder.Deinterleave = cfg.Encoder.Interleave
		cfg.Encoder.DualBasis = rapid.Bool().Draw(rt, "dual")
		cfg.Decoder.DualBasis = cfg.Encoder.DualBasis

		var payload = rapid.SliceOfN(rapid.Byte(), DataLen(depth), DataLen(depth)).Draw(rt, "payload")
		payload[0] |= 0x01

		var e = newTestEncoder(t, cfg.Encoder)
		var d, c = newTestDecoder(t, cfg.Decoder)

		// Some idle line before the frame.
		var lead = rapid.IntRange(0, 64).Draw(rt, "lead")
		assert.Equal(t, lead, d.Work(make([]byte, lead)))
		d.Work(UnpackBits(encodeFrame(t, e, payload)))

		require.Len(rt, c.payloads, 1)
		assert.Equal(rt, payload, c.payloads[0].Data)
		assert.Equal(rt, 0, c.payloads[0].Corrected)
		assert.Equal(rt, DecoderCounters{
			FramesReceived:   1,
			FramesDecoded:    1,
			SubframesDecoded: uint64(depth),
		}, d.Counters())
		assert.Equal(rt, StateSyncSearch, d.State())
	})
}

func TestDecoderBackToBackFrames(t *testing.T) {
	var cfg = testConfig(5)
	var e = newTestEncoder(t, cfg.Encoder)
	var d, c = newTestDecoder(t, cfg.Decoder)

	var bits []byte
	for n := range 4 {
		bits = append(bits, UnpackBits(encodeFrame(t, e, testPayload(5, byte(n))))...)
	}
	d.Work(bits)

	require.Len(t, c.payloads, 4)
	for n := range 4 {
		assert.Equal(t, testPayload(5, byte(n)), c.payloads[n].Data)
	}
	assert.Equal(t, uint64(4), d.Counters().FramesDecoded)
}

func TestDecoderSyncThreshold(t *testing.T) {
	// A marker with k wrong bits locks if and only if k <= threshold.
	rapid.Check(t, func(rt *rapid.T) {
		var threshold = rapid.IntRange(0, 4).Draw(rt, "threshold")
		var k = rapid.IntRange(0, threshold+1).Draw(rt, "k")
		var flips = rapid.SliceOfNDistinct(rapid.IntRange(0, 31), k, k, rapid.ID[int]).Draw(rt, "flips")

		var cfg = DefaultConfig().Decoder
		cfg.Threshold = threshold
		var d, _ = newTestDecoder(t, cfg)

		var marker = UnpackBits(SyncWordBytes[:])
		for _, f := range flips {
			marker[f] ^= 1
		}
		d.Work(marker)

		if k <= threshold {
			assert.Equal(rt, StateCodeword, d.State())
			assert.Equal(rt, uint64(1), d.Counters().FramesReceived)
		} else {
			assert.Equal(rt, StateSyncSearch, d.State())
			assert.Equal(rt, uint64(0), d.Counters().FramesReceived)
		}
	})
}

func TestDecoderNoisyMarkerStillDecodes(t *testing.T) {
	var cfg = testConfig(1)
	var e = newTestEncoder(t, cfg.Encoder)
	var d, c = newTestDecoder(t, cfg.Decoder)

	var frame = encodeFrame(t, e, testPayload(1, 3))
	frame[0] ^= 0x81 // 2 bits
	frame[2] ^= 0x10 // 1 bit
	d.Work(UnpackBits(frame))

	require.Len(t, c.payloads, 1)
	assert.Equal(t, testPayload(1, 3), c.payloads[0].Data)
}

func TestDecoderCorrectsErrors(t *testing.T) {
	var cfg = testConfig(5)
	var e = newTestEncoder(t, cfg.Encoder)
	var d, c = newTestDecoder(t, cfg.Decoder)

	var frame = encodeFrame(t, e, testPayload(5, 9))
	for j := range RS_CORRECTABLE {
		flipCodewordByte(frame, Interleaved, 5, 2, j*3)
	}
	flipCodewordByte(frame, Interleaved, 5, 4, 100)
	d.Work(UnpackBits(frame))

	require.Len(t, c.payloads, 1)
	assert.Equal(t, testPayload(5, 9), c.payloads[0].Data)
	assert.Equal(t, RS_CORRECTABLE+1, c.payloads[0].Corrected)

	var r = d.LastResult()
	assert.True(t, r.Success)
	assert.True(t, r.Published)
	assert.Equal(t, RS_CORRECTABLE, r.Blocks[2].Corrected)
	assert.Equal(t, 1, r.Blocks[4].Corrected)
	assert.Equal(t, 0, r.Blocks[0].Corrected)
}

func TestDecoderFailedBlockFailsFrame(t *testing.T) {
	var cfg = testConfig(5)
	var e = newTestEncoder(t, cfg.Encoder)
	var d, c = newTestDecoder(t, cfg.Decoder)

	var bad = encodeFrame(t, e, testPayload(5, 1))
	for j := range 20 {
		flipCodewordByte(bad, Interleaved, 5, 0, j)
	}
	d.Work(UnpackBits(bad))

	assert.Empty(t, c.payloads)

	var r = d.LastResult()
	assert.False(t, r.Success)
	assert.False(t, r.Published)
	require.Len(t, r.Blocks, 5)
	assert.ErrorIs(t, r.Blocks[0].Err, ErrUncorrectable)
	for i := 1; i < 5; i++ {
		assert.NoError(t, r.Blocks[i].Err, "block %d should still have been decoded", i)
	}

	// Decoding carried on past the bad block.
	assert.Equal(t, DecoderCounters{FramesReceived: 1, SubframesDecoded: 4}, d.Counters())

	// Back to sync search regardless, so the next frame is fine.
	assert.Equal(t, StateSyncSearch, d.State())
	d.Work(UnpackBits(encodeFrame(t, e, testPayload(5, 2))))

	require.Len(t, c.payloads, 1)
	assert.Equal(t, testPayload(5, 2), c.payloads[0].Data)
	assert.Equal(t, DecoderCounters{FramesReceived: 2, FramesDecoded: 1, SubframesDecoded: 9}, d.Counters())
}

func TestDecoderFillFrames(t *testing.T) {
	var cfg = testConfig(2)
	cfg.Encoder.Idle = true
	var e = newTestEncoder(t, cfg.Encoder)
	var d, c = newTestDecoder(t, cfg.Decoder)

	var idle, err = e.Next()
	require.NoError(t, err)
	require.NotNil(t, idle)
	d.Work(UnpackBits(idle))

	assert.Empty(t, c.payloads)
	assert.True(t, d.LastResult().Fill)
	assert.False(t, d.LastResult().Published)
	assert.Equal(t, uint64(1), d.Counters().FillFramesDecoded)
	assert.Equal(t, uint64(1), d.Counters().FramesDecoded)

	// Starts with two zero bytes: treated as fill even though there is data.
	var payload = make([]byte, DataLen(2))
	payload[10] = 0x42
	d.Work(UnpackBits(encodeFrame(t, e, payload)))

	assert.Empty(t, c.payloads)
	assert.Equal(t, uint64(2), d.Counters().FillFramesDecoded)
	assert.Equal(t, payload, d.LastPayload())
}

func TestDecoderWithoutRS(t *testing.T) {
	var cfg = testConfig(3)
	cfg.Encoder.RSEncode = false
	cfg.Decoder.RSDecode = false

	var e = newTestEncoder(t, cfg.Encoder)
	var d, c = newTestDecoder(t, cfg.Decoder)

	var frame = encodeFrame(t, e, testPayload(3, 5))
	d.Work(UnpackBits(frame))

	require.Len(t, c.payloads, 1)
	assert.Equal(t, testPayload(3, 5), c.payloads[0].Data)
	assert.Equal(t, DecoderCounters{FramesReceived: 1, FramesDecoded: 1}, d.Counters())

	// Without RS an error goes straight through.
	frame = encodeFrame(t, e, testPayload(3, 5))
	flipCodewordByte(frame, Interleaved, 3, 0, 0)
	d.Work(UnpackBits(frame))

	require.Len(t, c.payloads, 2)
	assert.NotEqual(t, testPayload(3, 5), c.payloads[1].Data)
}

func TestDecoderASMTail(t *testing.T) {
	var cfg = testConfig(2)
	cfg.Encoder.ASMTail = true
	var e = newTestEncoder(t, cfg.Encoder)
	var d, c = newTestDecoder(t, cfg.Decoder)

	for n := range 3 {
		d.Work(UnpackBits(encodeFrame(t, e, testPayload(2, byte(n)))))
	}

	require.Len(t, c.payloads, 3)
	for n := range 3 {
		assert.Equal(t, testPayload(2, byte(n)), c.payloads[n].Data)
	}
}

func TestDecoderSinkError(t *testing.T) {
	var cfg = testConfig(1)
	var e = newTestEncoder(t, cfg.Encoder)
	var d, err = NewDecoder(cfg.Decoder,
		WithDecoderLogger(DiscardLogger()),
		WithSink(PayloadSinkFunc(func(Payload) error { return errors.New("disk full") })))
	require.NoError(t, err)

	d.Work(UnpackBits(encodeFrame(t, e, testPayload(1, 0))))

	assert.True(t, d.LastResult().Success)
	assert.False(t, d.LastResult().Published)
	assert.Equal(t, uint64(1), d.Counters().FramesDecoded)
}

func TestDecoderReceivedTime(t *testing.T) {
	var clock = &fakeClock{t: time.Date(2026, 10, 17, 14, 25, 1, 0, time.UTC)}
	var cfg = testConfig(1)
	var e = newTestEncoder(t, cfg.Encoder)
	var d, c = newTestDecoder(t, cfg.Decoder, WithDecoderClock(clock.Now))

	d.Work(UnpackBits(encodeFrame(t, e, testPayload(1, 0))))

	require.Len(t, c.payloads, 1)
	assert.Equal(t, clock.t, c.payloads[0].Received)
}

func TestDecoderResetDropsPartialFrame(t *testing.T) {
	var cfg = testConfig(1)
	var e = newTestEncoder(t, cfg.Encoder)
	var d, c = newTestDecoder(t, cfg.Decoder)

	var bits = UnpackBits(encodeFrame(t, e, testPayload(1, 0)))
	d.Work(bits[:len(bits)/2])
	assert.Equal(t, StateCodeword, d.State())

	d.Reset()
	assert.Equal(t, StateSyncSearch, d.State())
	assert.Equal(t, DecoderCounters{}, d.Counters())

	d.Work(bits)
	assert.Len(t, c.payloads, 1)

	d.ResetCounters()
	assert.Equal(t, DecoderCounters{}, d.Counters())
}

func TestDecoderVerboseLogging(t *testing.T) {
	var cfg = testConfig(1)
	cfg.Decoder.Verbose = true
	cfg.Decoder.Printing = true

	var out bytes.Buffer
	var e = newTestEncoder(t, cfg.Encoder)
	var d, _ = newTestDecoder(t, cfg.Decoder, WithDecoderLogger(NewLogger(&out, "decoder", true)))

	d.Work(UnpackBits(encodeFrame(t, e, testPayload(1, 0))))

	var logged = out.String()
	assert.Contains(t, logged, "sync word detected")
	assert.Contains(t, logged, "enter codeword")
	assert.Contains(t, logged, "decoded rs block")
	assert.Contains(t, logged, "counters")
	assert.Contains(t, logged, "loaded codeword")
}

func TestDecoderPrintingImpliesVerbose(t *testing.T) {
	var cfg = testConfig(1).Decoder
	cfg.Printing = true
	cfg.Verbose = false

	var d, _ = newTestDecoder(t, cfg)
	assert.True(t, d.Config().Verbose)
}
