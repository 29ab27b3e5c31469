package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/pavanmanishd/pulsar/alloc"
	"github.com/pavanmanishd/pulsar/arena"
	"github.com/pavanmanishd/pulsar/internal/config"
	"github.com/pavanmanishd/pulsar/internal/logging"
	"github.com/pavanmanishd/pulsar/ptr"
	"github.com/pavanmanishd/pulsar/types"
	"github.com/pavanmanishd/pulsar/window"
)

// entity is the per-frame object. It lives in the frame arena, so it must
// not hold Go pointers.
type entity struct {
	Position types.Vec3
	Velocity types.Vec3
	Ticks    int64
}

type entityRef = ptr.Shared[entity, arena.ArenaAllocator[entity]]

// snapshot publishes region metrics taken by the frame loop, so scrapes never
// touch the unsynchronized frame region.
type snapshot struct {
	m atomic.Pointer[arena.RegionMetrics]
}

func (s *snapshot) store(m arena.RegionMetrics) { s.m.Store(&m) }

func (s *snapshot) Metrics() arena.RegionMetrics {
	if m := s.m.Load(); m != nil {
		return *m
	}
	return arena.RegionMetrics{}
}

// Report is written to the output when the loop ends.
type Report struct {
	Frames      int                 `json:"frames"`
	Objects     int64               `json:"objects"`
	Promotions  int64               `json:"promotions"`
	Frame       arena.RegionMetrics `json:"frame_region"`
	Scratch     arena.RegionMetrics `json:"scratch_region"`
	Allocations int                 `json:"live_allocations"`
}

type editor struct {
	cfg     *config.Config
	logger  *logging.Logger
	win     *window.Headless
	alloc   arena.ArenaAllocator[entity]
	scratch *arena.SafeRegion
	frame   snapshot

	objects    int64
	promotions atomic.Int64
}

func newEditor(cfg *config.Config, logger *logging.Logger) *editor {
	opts := []arena.Option{
		arena.WithDebug(cfg.Arena.Debug),
		arena.WithLogger(logger.With("component", "arena")),
	}
	e := &editor{
		cfg:     cfg,
		logger:  logger,
		win:     window.NewHeadless(cfg.Window, cfg.Frames),
		alloc:   arena.NewAllocator[entity](cfg.Arena.CapacityBytes, opts...),
		scratch: arena.NewSafeRegion(cfg.Arena.CapacityBytes/4, arena.WithLogger(logger.With("component", "scratch"))),
	}
	e.frame.store(e.alloc.Region().Metrics())
	return e
}

func (e *editor) close() {
	e.alloc.Release()
	e.scratch.Release()
}

// run drives the frame loop until the window closes or ctx is done, then
// writes a Report to out.
func run(ctx context.Context, cfg *config.Config, logger *logging.Logger, out io.Writer) error {
	e := newEditor(cfg, logger)
	defer e.close()

	g, ctx := errgroup.WithContext(ctx)
	var srv *http.Server
	if cfg.MetricsAddr != "" {
		var err error
		if srv, err = e.serveMetrics(g, cfg.MetricsAddr); err != nil {
			return err
		}
	}

	g.Go(func() error {
		defer func() {
			if srv != nil {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				srv.Shutdown(shutdownCtx)
			}
		}()
		return e.loop(ctx)
	})
	if err := g.Wait(); err != nil {
		return err
	}

	report := Report{
		Frames:      e.win.Frames(),
		Objects:     e.objects,
		Promotions:  e.promotions.Load(),
		Frame:       e.alloc.Region().Metrics(),
		Scratch:     e.scratch.Metrics(),
		Allocations: e.alloc.AllocationCount(),
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

func (e *editor) serveMetrics(g *errgroup.Group, addr string) (*http.Server, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		arena.NewCollector("pulsar", map[string]arena.MetricsSource{
			"frame":   &e.frame,
			"scratch": e.scratch,
		}),
	)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	e.logger.Info("serving metrics", "addr", ln.Addr().String())
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	return srv, nil
}

func (e *editor) loop(ctx context.Context) error {
	for !e.win.ShouldClose() {
		select {
		case <-ctx.Done():
			e.win.Close()
			continue
		default:
		}
		e.win.PollEvents()
		if err := e.runFrame(ctx); err != nil {
			return fmt.Errorf("frame %d: %w", e.win.Frames(), err)
		}
	}
	return nil
}

// runFrame allocates the frame's entities from the arena, lets the workers
// promote weak handles to update them, then frees everything in reverse
// order and resets both regions.
func (e *editor) runFrame(ctx context.Context) error {
	n := e.cfg.ObjectsPerFrame
	owners := make([]*entityRef, 0, n)
	observers := make([]*ptr.Weak[entity, arena.ArenaAllocator[entity]], 0, n)

	for i := 0; i < n; i++ {
		s, err := ptr.MakeSharedWith(e.alloc, entity{
			Position: types.Vec3{X: float32(i)},
			Velocity: types.Vec3{X: 1, Y: 0.5},
		})
		if errors.Is(err, alloc.ErrOutOfMemory) {
			e.logger.Warn("frame arena exhausted", "objects", i, "requested", n)
			break
		}
		if err != nil {
			return err
		}
		owners = append(owners, s)
		observers = append(observers, s.Weak())
	}
	e.objects += int64(len(owners))

	g, ctx := errgroup.WithContext(ctx)
	workers := e.cfg.Workers
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			return e.work(ctx, observers, w, workers)
		})
	}
	err := g.Wait()

	for i := len(owners) - 1; i >= 0; i-- {
		owners[i].Release()
		observers[i].Release()
	}
	e.frame.store(e.alloc.Region().Metrics())
	e.alloc.Reset()
	e.scratch.Reset()

	e.logger.Trace("frame done", "frame", e.win.Frames(), "objects", len(owners))
	return err
}

func (e *editor) work(ctx context.Context, observers []*ptr.Weak[entity, arena.ArenaAllocator[entity]], id, stride int) error {
	step, err := arena.SafeAlloc[types.Vec3](e.scratch)
	if err != nil && !errors.Is(err, alloc.ErrOutOfMemory) {
		return err
	}
	if step == nil {
		step = &types.Vec3{}
	}

	for i := id; i < len(observers); i += stride {
		if err := ctx.Err(); err != nil {
			return err
		}
		p, ok := observers[i].Lock()
		if !ok {
			continue
		}
		ent := p.Get()
		*step = ent.Velocity.Scale(1.0 / 60)
		ent.Position = ent.Position.Add(*step)
		atomic.AddInt64(&ent.Ticks, 1)
		p.Release()
		e.promotions.Add(1)
	}
	return nil
}
