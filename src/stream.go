package ccsds

/*------------------------------------------------------------------
 *
 * Purpose:	Drive the decoder and encoder from byte streams.
 *
 * Description:	The state machines themselves never block.  These
 *		helpers do the reading and writing, in bounded batches,
 *		and check for cancellation between batches.
 *
 *------------------------------------------------------------------*/

import (
	"context"
	"errors"
	"fmt"
	"io"
)

const STREAM_BATCH = 4096

// DecodeStream feeds everything from r to the decoder.  With packed false
// the input is one bit per byte; with packed true each byte carries 8
// bits, most significant first.  Returns the number of bits processed.
func DecodeStream(ctx context.Context, d *Decoder, r io.Reader, packed bool) (int64, error) {
	var buf = make([]byte, STREAM_BATCH)
	var total int64

	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		var n, err = r.Read(buf)
		if n > 0 {
			var batch = buf[:n]
			if packed {
				batch = UnpackBits(batch)
			}
			total += int64(d.Work(batch))
		}

		if errors.Is(err, io.EOF) {
			return total, nil
		}
		if err != nil {
			return total, fmt.Errorf("reading bits: %w", err)
		}
	}
}

// EncodeStream cuts r into payloads of DataLen(depth) bytes and writes
// one frame per payload to w.  A short final piece is zero filled when pad
// is set, otherwise it is rejected with ErrLengthMismatch.
func EncodeStream(ctx context.Context, e *Encoder, r io.Reader, w io.Writer, pad bool) (int, error) {
	var payload = make([]byte, DataLen(e.cfg.Depth))
	var frames = 0

	for {
		if err := ctx.Err(); err != nil {
			return frames, err
		}

		var n, err = io.ReadFull(r, payload)
		if errors.Is(err, io.EOF) {
			return frames, nil
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			if !pad {
				return frames, fmt.Errorf("%w: final piece is %d bytes", ErrLengthMismatch, n)
			}
			clear(payload[n:])
		} else if err != nil {
			return frames, fmt.Errorf("reading payload: %w", err)
		}

		var frame, encErr = e.EncodePayload(payload)
		if encErr != nil {
			return frames, encErr
		}

		if _, err := w.Write(frame); err != nil {
			return frames, fmt.Errorf("writing frame: %w", err)
		}
		frames++

		if n < len(payload) {
			return frames, nil
		}
	}
}
