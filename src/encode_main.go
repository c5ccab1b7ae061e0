package ccsds

/*------------------------------------------------------------------
 *
 * Name:	ccsds-encode
 *
 * Purpose:	Turn a file into a stream of channel frames.
 *
 * Description:	Input is cut into payloads of 223 * depth bytes.  Each
 *		becomes one frame: sync marker, then the RS protected,
 *		interleaved, scrambled codeword.  Optionally some idle
 *		frames are appended so a receiver sees a few fill frames.
 *
 * Examples:	ccsds-encode -o tx.bin --pad telemetry.dat
 *
 *		ccsds-encode -I 1 --idle-frames 3 -U < tm.dat > tx.bits
 *
 *------------------------------------------------------------------*/

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

func EncodeMain() {
	var link = addLinkFlags("interleave")
	var asmTail = pflag.Bool("asm-tail", false, "Put the sync marker after each codeword, plus one in front of the first.")
	var idleFrames = pflag.IntP("idle-frames", "i", 0, "Number of idle (all zero payload) frames to append.")
	var pad = pflag.Bool("pad", false, "Zero fill a short final payload instead of rejecting it.")
	var unpack = pflag.BoolP("unpack", "U", false, "Write one bit per byte, as expected by ccsds-decode without -P.")
	var output = pflag.StringP("output", "o", "", "Write frames to this file rather than stdout.")
	var metricsAddr = pflag.String("metrics-addr", "", "Serve Prometheus metrics on this address while running, e.g. :9101")
	var help = pflag.BoolP("help", "h", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - Encode payloads into channel frames.\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [options] [file]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "Reads stdin if no file, or -, is given.\n")
		pflag.PrintDefaults()
	}

	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(1)
	}

	link.exitIfVersion()

	var cfg = link.loadProfile().Encoder
	link.applyEncoder(&cfg)
	if pflag.CommandLine.Changed("asm-tail") {
		cfg.ASMTail = *asmTail
	}

	var logger = NewLogger(os.Stderr, "encode", cfg.Verbose)

	var e, err = NewEncoder(cfg, WithEncoderLogger(logger))
	if err != nil {
		logger.Fatal("configuration", "err", err)
	}

	var in, openErr = openInput(pflag.Arg(0))
	if openErr != nil {
		logger.Fatal("input", "err", openErr)
	}
	defer in.Close()

	var out io.Writer = os.Stdout
	if *output != "" {
		var f, createErr = os.Create(*output)
		if createErr != nil {
			logger.Fatal("output", "err", createErr)
		}
		defer f.Close()
		out = f
	}
	if *unpack {
		out = &bitWriter{w: out}
	}

	var sigCtx, stop = signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	var ctx, cancel = context.WithCancel(sigCtx)
	defer cancel()

	var g, gctx = errgroup.WithContext(ctx)

	if *metricsAddr != "" {
		var reg = prometheus.NewRegistry()
		if err := NewEncoderMetrics(e, nil).Register(reg); err != nil {
			logger.Fatal("metrics", "err", err)
		}

		var ln, listenErr = net.Listen("tcp", *metricsAddr)
		if listenErr != nil {
			logger.Fatal("metrics", "err", listenErr)
		}
		serveMetrics(gctx, g, ln, reg)
	}

	var streamErr error
	g.Go(func() error {
		defer cancel()

		var frames int
		frames, streamErr = EncodeStream(gctx, e, in, out, *pad)
		if streamErr != nil {
			logger.Error("encode", "frames", frames, "err", streamErr)
		}

		return writeIdleFrames(e, out, *idleFrames)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("output", "err", err)
	}

	logger.Info("done", "frames_transmitted", e.Counters().FramesTransmitted)

	if streamErr != nil {
		os.Exit(1)
	}
}

// writeIdleFrames appends n fill frames regardless of the idle gap.
func writeIdleFrames(e *Encoder, w io.Writer, n int) error {
	if n <= 0 {
		return nil
	}

	e.SetIdle(true)
	e.SetIdleGap(0)
	for range n {
		var frame, err = e.Next()
		if err != nil {
			return err
		}
		if _, err := w.Write(frame); err != nil {
			return fmt.Errorf("writing idle frame: %w", err)
		}
	}

	return nil
}

// bitWriter expands every byte into 8 bytes holding one bit each.
type bitWriter struct {
	w io.Writer
}

func (b *bitWriter) Write(p []byte) (int, error) {
	if _, err := b.w.Write(UnpackBits(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}
