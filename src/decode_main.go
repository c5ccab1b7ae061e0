package ccsds

/*------------------------------------------------------------------
 *
 * Name:	ccsds-decode
 *
 * Purpose:	Recover payloads from a received bit stream.
 *
 * Examples:	Bits from a demodulator, one per byte, payloads saved
 *		as separate files:
 *
 *			ccsds-decode -o frames rx.bits
 *
 *		Packed bytes from stdin, payloads to stdout, metrics
 *		available while it runs:
 *
 *			ccsds-decode -P --stdout --metrics-addr :9100 - < rx.bin
 *
 *------------------------------------------------------------------*/

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

func DecodeMain() {
	var link = addLinkFlags("deinterleave")
	var threshold = pflag.IntP("threshold", "t", 4, "Maximum number of wrong bits accepted in the sync marker.")
	var packed = pflag.BoolP("packed", "P", false, "Input has 8 bits per byte, MSB first, rather than one bit per byte.")
	var outputDir = pflag.StringP("output-dir", "o", "", "Save each payload as a file in this directory.")
	var nameFormat = pflag.StringP("name-format", "T", DefaultNameFormat, "'strftime' format for payload file names.")
	var toStdout = pflag.Bool("stdout", false, "Write payloads to stdout, back to back.")
	var metricsAddr = pflag.String("metrics-addr", "", "Serve Prometheus metrics on this address while running, e.g. :9100")
	var help = pflag.BoolP("help", "h", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - Recover frame payloads from a bit stream.\n", os.Args[0])
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

	var cfg = link.loadProfile().Decoder
	link.applyDecoder(&cfg)
	if pflag.CommandLine.Changed("threshold") {
		cfg.Threshold = *threshold
	}

	var logger = NewLogger(os.Stderr, "decode", cfg.Verbose)

	var sinks MultiSink
	if *outputDir != "" {
		var dirSink, err = NewDirSink(*outputDir, *nameFormat)
		if err != nil {
			logger.Fatal("output directory", "err", err)
		}
		sinks = append(sinks, dirSink)
	}
	if *toStdout {
		sinks = append(sinks, NewWriterSink(os.Stdout))
	}
	sinks = append(sinks, PayloadSinkFunc(func(p Payload) error {
		var tf = TransferFrame(p.Data)
		logger.Info("frame",
			"scid", tf.SpacecraftID(),
			"vcid", tf.VirtualChannel(),
			"vc_count", tf.VirtualChannelFrameCount(),
			"corrected", p.Corrected)
		return nil
	}))

	var d, err = NewDecoder(cfg, WithDecoderLogger(logger), WithSink(sinks))
	if err != nil {
		logger.Fatal("configuration", "err", err)
	}

	var in, openErr = openInput(pflag.Arg(0))
	if openErr != nil {
		logger.Fatal("input", "err", openErr)
	}
	defer in.Close()

	var sigCtx, stop = signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	var ctx, cancel = context.WithCancel(sigCtx)
	defer cancel()

	var g, gctx = errgroup.WithContext(ctx)

	if *metricsAddr != "" {
		var reg = prometheus.NewRegistry()
		if err := NewDecoderMetrics(d, nil).Register(reg); err != nil {
			logger.Fatal("metrics", "err", err)
		}

		var ln, listenErr = net.Listen("tcp", *metricsAddr)
		if listenErr != nil {
			logger.Fatal("metrics", "err", listenErr)
		}
		serveMetrics(gctx, g, ln, reg)
	}

	g.Go(func() error {
		defer cancel()
		var n, err = DecodeStream(gctx, d, in, *packed)
		logger.Debug("input finished", "bits", n)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	if err := g.Wait(); err != nil {
		logger.Error("decode", "err", err)
	}

	var c = d.Counters()
	logger.Info("done",
		"frames_received", c.FramesReceived,
		"frames_decoded", c.FramesDecoded,
		"subframes_decoded", c.SubframesDecoded,
		"fill_frames", c.FillFramesDecoded)
}
