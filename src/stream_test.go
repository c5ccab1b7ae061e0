package ccsds

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamRoundTrip(t *testing.T) {
	var cfg = testConfig(2)
	var e = newTestEncoder(t, cfg.Encoder)
	var d, c = newTestDecoder(t, cfg.Decoder)

	var input = append(testPayload(2, 1), testPayload(2, 2)...)
	input = append(input, 0xEE, 0xEE, 0xEE)

	var tx bytes.Buffer
	var frames, err = EncodeStream(context.Background(), e, bytes.NewReader(input), &tx, true)
	require.NoError(t, err)
	assert.Equal(t, 3, frames)
	assert.Equal(t, 3*FrameLen(2), tx.Len())

	var nbits, decErr = DecodeStream(context.Background(), d, &tx, true)
	require.NoError(t, decErr)
	assert.Equal(t, int64(3*FrameLen(2)*8), nbits)

	require.Len(t, c.payloads, 3)
	assert.Equal(t, testPayload(2, 1), c.payloads[0].Data)
	assert.Equal(t, testPayload(2, 2), c.payloads[1].Data)

	var last = make([]byte, DataLen(2))
	copy(last, []byte{0xEE, 0xEE, 0xEE})
	assert.Equal(t, last, c.payloads[2].Data)
}

func TestDecodeStreamUnpacked(t *testing.T) {
	var cfg = testConfig(1)
	var e = newTestEncoder(t, cfg.Encoder)
	var d, c = newTestDecoder(t, cfg.Decoder)

	var bits = UnpackBits(encodeFrame(t, e, testPayload(1, 4)))
	var _, err = DecodeStream(context.Background(), d, bytes.NewReader(bits), false)
	require.NoError(t, err)

	require.Len(t, c.payloads, 1)
	assert.Equal(t, testPayload(1, 4), c.payloads[0].Data)
}

func TestEncodeStreamShortFinalPiece(t *testing.T) {
	var e = newTestEncoder(t, testConfig(1).Encoder)

	var input = append(testPayload(1, 0), 1, 2, 3)
	var tx bytes.Buffer
	var frames, err = EncodeStream(context.Background(), e, bytes.NewReader(input), &tx, false)

	assert.ErrorIs(t, err, ErrLengthMismatch)
	assert.Equal(t, 1, frames)
	assert.Equal(t, FrameLen(1), tx.Len())
}

func TestStreamCancelled(t *testing.T) {
	var cfg = testConfig(1)
	var e = newTestEncoder(t, cfg.Encoder)
	var d, _ = newTestDecoder(t, cfg.Decoder)

	var ctx, cancel = context.WithCancel(context.Background())
	cancel()

	var _, err = DecodeStream(ctx, d, bytes.NewReader(make([]byte, 100)), false)
	assert.ErrorIs(t, err, context.Canceled)

	var frames, encErr = EncodeStream(ctx, e, bytes.NewReader(testPayload(1, 0)), &bytes.Buffer{}, false)
	assert.ErrorIs(t, encErr, context.Canceled)
	assert.Equal(t, 0, frames)
}
