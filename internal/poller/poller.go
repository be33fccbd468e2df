package poller

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/iem-roster/internal/pollog"
	"github.com/DoyleJ11/iem-roster/internal/roster"
	"github.com/DoyleJ11/iem-roster/internal/upstream"
	"github.com/DoyleJ11/iem-roster/internal/view"
)

const DefaultInterval = 5 * time.Second

var ErrNoFetcher = errors.New("poller has no fetcher")
var ErrNoSink = errors.New("poller has no sink")

type Fetcher interface {
	Fetch(ctx context.Context) ([]roster.Entry, error)
}

// Sink receives every poll cycle result. Report must not block forever.
type Sink interface {
	Report(r view.Result)
}

type Poller struct {
	Stage    string
	Fetcher  Fetcher
	Sink     Sink
	Interval time.Duration
	Recorder pollog.Recorder
	Logger   *zap.Logger

	// SkipOverlapping drops a tick while the previous cycle is in flight.
	// Off by default: overlapping cycles race and the last to finish wins.
	SkipOverlapping bool

	inflight sync.WaitGroup
	busy     atomic.Int32
}

// Run polls once immediately and then on every tick until ctx is done.
// Cycles already in flight are left to finish; use Wait to drain them.
func (p *Poller) Run(ctx context.Context) error {
	if p.Fetcher == nil {
		return ErrNoFetcher
	}
	if p.Sink == nil {
		return ErrNoSink
	}
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	// in-flight fetches outlive the loop
	cycleCtx := context.WithoutCancel(ctx)

	p.tick(cycleCtx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			p.tick(cycleCtx)
		}
	}
}

// Wait blocks until every started cycle has reported.
func (p *Poller) Wait() {
	p.inflight.Wait()
}

func (p *Poller) tick(ctx context.Context) {
	if p.SkipOverlapping && p.busy.Load() > 0 {
		p.logger().Debug("poll skipped, previous cycle in flight", zap.String("stage", p.Stage))
		return
	}

	p.busy.Add(1)
	p.inflight.Add(1)
	go func() {
		defer p.inflight.Done()
		defer p.busy.Add(-1)
		p.cycle(ctx)
	}()
}

func (p *Poller) cycle(ctx context.Context) {
	started := time.Now()
	entries, err := p.Fetcher.Fetch(ctx)

	rec := pollog.Record{
		Stage:      p.Stage,
		StartedAt:  started,
		DurationMS: time.Since(started).Milliseconds(),
	}

	if err != nil {
		fields := failureFields(p.Stage, err)
		p.logger().Warn("roster poll failed", fields...)
		rec.Error = detail(err)
		p.Sink.Report(view.Result{Err: err})
	} else {
		sorted := roster.Sort(entries)
		rec.OK = true
		rec.Entries = len(sorted)
		p.Sink.Report(view.Result{Entries: sorted})
	}

	if p.Recorder != nil {
		if err := p.Recorder.Record(ctx, rec); err != nil {
			p.logger().Warn("poll log write failed", zap.String("stage", p.Stage), zap.Error(err))
		}
	}
}

// failureFields carries what the generic display message leaves out.
func failureFields(stage string, err error) []zap.Field {
	fields := []zap.Field{zap.String("stage", stage), zap.Error(err)}
	var fe *upstream.FetchError
	if errors.As(err, &fe) {
		if fe.Status != 0 {
			fields = append(fields, zap.Int("status", fe.Status))
		}
		if fe.Err != nil {
			fields = append(fields, zap.NamedError("cause", fe.Err))
		}
	}
	return fields
}

func detail(err error) string {
	var fe *upstream.FetchError
	if errors.As(err, &fe) {
		switch {
		case fe.Err != nil:
			return fe.Error() + ": " + fe.Err.Error()
		case fe.Status != 0:
			return fe.Error() + " (status " + strconv.Itoa(fe.Status) + ")"
		}
	}
	return err.Error()
}

func (p *Poller) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}
