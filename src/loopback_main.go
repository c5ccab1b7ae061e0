package ccsds

/*------------------------------------------------------------------
 *
 * Name:	ccsds-loopback
 *
 * Purpose:	Exercise encoder and decoder together over a simulated
 *		noisy channel.
 *
 * Description:	Random payloads are encoded, a given number of bits in
 *		each codeword are flipped, and the result is fed to the
 *		decoder.  Recovered payloads are compared with what was
 *		sent.  Idle frames can be mixed in to check that fill
 *		frames are recognized and dropped.
 *
 *		With up to 16 wrong bytes per RS block everything should
 *		come back intact.
 *
 *------------------------------------------------------------------*/

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/spf13/pflag"
)

type LoopbackReport struct {
	Sent       int
	Recovered  int
	Mismatched int
	Idle       int
	Decoder    DecoderCounters
}

func LoopbackMain() {
	var link = addLinkFlags("interleave")
	var count = pflag.IntP("count", "n", 100, "Number of data frames to send.")
	var bitErrors = pflag.IntP("errors", "e", 0, "Number of bits flipped in each codeword.")
	var idleEvery = pflag.IntP("idle-every", "f", 0, "Send an idle frame after every N data frames.  0 for none.")
	var seed = pflag.Uint64P("seed", "s", 1, "Random number seed.")
	var help = pflag.BoolP("help", "h", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - Encode, add bit errors, decode, compare.\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n", os.Args[0])
		pflag.PrintDefaults()
	}

	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(1)
	}

	link.exitIfVersion()

	var cfg = link.loadProfile()
	link.applyEncoder(&cfg.Encoder)
	link.applyDecoder(&cfg.Decoder)

	var logger = NewLogger(os.Stderr, "loopback", cfg.Decoder.Verbose)

	var report, err = Loopback(cfg, *count, *bitErrors, *idleEvery, rand.New(rand.NewPCG(*seed, *seed))) //nolint:gosec
	if err != nil {
		logger.Fatal("loopback", "err", err)
	}

	logger.Info("done",
		"sent", report.Sent,
		"recovered", report.Recovered,
		"mismatched", report.Mismatched,
		"idle", report.Idle,
		"frames_received", report.Decoder.FramesReceived,
		"frames_decoded", report.Decoder.FramesDecoded,
		"subframes_decoded", report.Decoder.SubframesDecoded,
		"fill_frames", report.Decoder.FillFramesDecoded)

	if report.Mismatched > 0 || report.Recovered != report.Sent {
		os.Exit(1)
	}
}

// Loopback runs count data frames, plus idle frames, through a channel that
// flips bitErrors random bits of each codeword.  The sync marker is left alone.
func Loopback(cfg Config, count int, bitErrors int, idleEvery int, rng *rand.Rand) (LoopbackReport, error) {
	var report LoopbackReport
	var sent [][]byte
	var received [][]byte

	var enc, err = NewEncoder(cfg.Encoder, WithEncoderLogger(DiscardLogger()))
	if err != nil {
		return report, err
	}
	enc.SetIdle(false)
	enc.SetIdleGap(0)

	var dec, decErr = NewDecoder(cfg.Decoder,
		WithDecoderLogger(NewLogger(os.Stderr, "decode", cfg.Decoder.Verbose)),
		WithSink(PayloadSinkFunc(func(p Payload) error {
			received = append(received, p.Data)
			return nil
		})))
	if decErr != nil {
		return report, decErr
	}

	var transmit = func(frame []byte) {
		var cwLen = CodewordLen(cfg.Encoder.Depth)
		var start = len(frame) - cwLen - IfThenElse(cfg.Encoder.ASMTail, SYNC_WORD_LEN, 0)
		for range bitErrors {
			var bit = rng.IntN(cwLen * 8)
			frame[start+bit/8] ^= 0x80 >> (bit % 8)
		}
		dec.Work(UnpackBits(frame))
	}

	for n := range count {
		var payload = make([]byte, DataLen(cfg.Encoder.Depth))
		for i := range payload {
			payload[i] = byte(rng.Uint32())
		}
		// An all zero start would make a data frame look like fill.
		payload[0] |= 1

		enc.Enqueue(&Message{Data: payload, Meta: map[string]any{"seq": n}})
		var frame, nextErr = enc.Next()
		if nextErr != nil {
			return report, nextErr
		}
		sent = append(sent, payload)
		transmit(frame)

		if idleEvery > 0 && (n+1)%idleEvery == 0 {
			enc.SetIdle(true)
			var idle, idleErr = enc.Next()
			enc.SetIdle(false)
			if idleErr != nil {
				return report, idleErr
			}
			if idle != nil {
				report.Idle++
				transmit(idle)
			}
		}
	}

	report.Sent = len(sent)
	report.Recovered = len(received)
	for i := range min(len(sent), len(received)) {
		if !bytes.Equal(sent[i], received[i]) {
			report.Mismatched++
		}
	}
	report.Decoder = dec.Counters()

	return report, nil
}
