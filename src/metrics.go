package ccsds

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

const metricsNamespace = "ccsds"

// DecoderMetrics exposes a decoder's counters.  Values are read at
// scrape time so nothing needs updating on the receive path.
type DecoderMetrics struct {
	FramesReceived    prometheus.CounterFunc
	FramesDecoded     prometheus.CounterFunc
	SubframesDecoded  prometheus.CounterFunc
	FillFramesDecoded prometheus.CounterFunc
}

func NewDecoderMetrics(d *Decoder, labels prometheus.Labels) *DecoderMetrics {
	var counter = func(name string, help string, get func(DecoderCounters) uint64) prometheus.CounterFunc {
		return prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Subsystem:   "decoder",
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		}, func() float64 {
			return float64(get(d.Counters()))
		})
	}

	return &DecoderMetrics{
		FramesReceived: counter("frames_received_total", "Sync markers found.",
			func(c DecoderCounters) uint64 { return c.FramesReceived }),
		FramesDecoded: counter("frames_decoded_total", "Codewords with every RS block corrected.",
			func(c DecoderCounters) uint64 { return c.FramesDecoded }),
		SubframesDecoded: counter("subframes_decoded_total", "RS blocks corrected.",
			func(c DecoderCounters) uint64 { return c.SubframesDecoded }),
		FillFramesDecoded: counter("fill_frames_decoded_total", "Good frames dropped as fill.",
			func(c DecoderCounters) uint64 { return c.FillFramesDecoded }),
	}
}

func (m *DecoderMetrics) Register(reg prometheus.Registerer) error {
	return errors.Join(
		reg.Register(m.FramesReceived),
		reg.Register(m.FramesDecoded),
		reg.Register(m.SubframesDecoded),
		reg.Register(m.FillFramesDecoded),
	)
}

type EncoderMetrics struct {
	FramesTransmitted prometheus.CounterFunc
}

func NewEncoderMetrics(e *Encoder, labels prometheus.Labels) *EncoderMetrics {
	return &EncoderMetrics{
		FramesTransmitted: prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Subsystem:   "encoder",
			Name:        "frames_transmitted_total",
			Help:        "Frames assembled, fill frames included.",
			ConstLabels: labels,
		}, func() float64 {
			return float64(e.Counters().FramesTransmitted)
		}),
	}
}

func (m *EncoderMetrics) Register(reg prometheus.Registerer) error {
	return reg.Register(m.FramesTransmitted)
}

// serveMetrics exposes reg on ln as part of g.  The server shuts down
// once ctx is done.
func serveMetrics(ctx context.Context, g *errgroup.Group, ln net.Listener, reg *prometheus.Registry) {
	var srv = &http.Server{
		Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g.Go(func() error {
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		var shutdownCtx, done = context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		return srv.Shutdown(shutdownCtx)
	})
}
