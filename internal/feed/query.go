package feed

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"activityScope/internal/model"
)

const (
	DefaultStaleTime       = 50 * time.Second
	DefaultRefetchInterval = 100 * time.Second
)

// Status is the asynchronous state of a query.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Source produces one fetch cycle's activity sequence.
type Source interface {
	Run(ctx context.Context) ([]model.Event, error)
}

// Result is a point-in-time view of a query.
type Result struct {
	Status    Status
	Events    []model.Event
	Err       error
	UpdatedAt time.Time
}

// QueryConfig holds the staleness window and the refetch interval.
type QueryConfig struct {
	StaleTime       time.Duration
	RefetchInterval time.Duration
}

// Query caches the last fetch cycle of a Source. Concurrent refetches share
// one in-flight cycle; in-flight cycles are never cancelled by a new one.
type Query struct {
	cfg    QueryConfig
	source Source
	logger *zap.Logger
	now    func() time.Time

	group singleflight.Group

	mu    sync.RWMutex
	state Result
}

// NewQuery builds a Query. Zero durations fall back to the defaults.
func NewQuery(cfg QueryConfig, source Source, logger *zap.Logger) *Query {
	if cfg.StaleTime <= 0 {
		cfg.StaleTime = DefaultStaleTime
	}
	if cfg.RefetchInterval <= 0 {
		cfg.RefetchInterval = DefaultRefetchInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Query{
		cfg:    cfg,
		source: source,
		logger: logger,
		now:    time.Now,
		state:  Result{Status: StatusIdle},
	}
}

// Snapshot returns the current state without fetching.
func (q *Query) Snapshot() Result {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.state
}

// Stale reports whether the last successful result is older than the
// staleness window, or missing.
func (q *Query) Stale() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.state.Status != StatusSuccess {
		return true
	}
	return q.now().Sub(q.state.UpdatedAt) >= q.cfg.StaleTime
}

// EnsureFresh refetches only when the cached result is stale.
func (q *Query) EnsureFresh(ctx context.Context) Result {
	if !q.Stale() {
		return q.Snapshot()
	}
	return q.Refetch(ctx)
}

// Refetch starts a fetch cycle, or joins the one in flight, and waits for it.
func (q *Query) Refetch(ctx context.Context) Result {
	cycleCtx := context.WithoutCancel(ctx)
	ch := q.group.DoChan("cycle", func() (interface{}, error) {
		q.set(Result{Status: StatusLoading})

		events, err := q.source.Run(cycleCtx)
		res := Result{Status: StatusSuccess, Events: events, UpdatedAt: q.now()}
		if err != nil {
			q.logger.Warn("fetch cycle failed", zap.Error(err))
			res = Result{Status: StatusError, Err: err, UpdatedAt: res.UpdatedAt}
		}
		q.set(res)
		return res, nil
	})

	select {
	case r := <-ch:
		return r.Val.(Result)
	case <-ctx.Done():
		return q.Snapshot()
	}
}

// Run fetches immediately and then every refetch interval until ctx ends.
func (q *Query) Run(ctx context.Context) error {
	q.Refetch(ctx)

	ticker := time.NewTicker(q.cfg.RefetchInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			q.Refetch(ctx)
		}
	}
}

func (q *Query) set(r Result) {
	q.mu.Lock()
	q.state = r
	q.mu.Unlock()
}
