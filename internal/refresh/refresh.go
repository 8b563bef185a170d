package refresh

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/txbeach/sandcal/internal/cache"
	"github.com/txbeach/sandcal/internal/logger"
	"github.com/txbeach/sandcal/internal/metrics"
	"github.com/txbeach/sandcal/internal/scraper"
	"github.com/txbeach/sandcal/internal/tournament"
)

// ErrAlreadyRunning reports that another refresh holds the lock.
var ErrAlreadyRunning = errors.New("refresh already running")

const (
	defaultSourceTimeout = 90 * time.Second
	defaultCeiling       = 4 * time.Minute
	defaultConcurrency   = 3
)

// Config bounds a refresh run. Zero values fall back to defaults.
type Config struct {
	SourceTimeout time.Duration // per-source fetch budget
	Ceiling       time.Duration // overall wall-clock limit
	Concurrency   int           // max sources fetched at once
}

func (c Config) withDefaults() Config {
	if c.SourceTimeout <= 0 {
		c.SourceTimeout = defaultSourceTimeout
	}
	if c.Ceiling <= 0 {
		c.Ceiling = defaultCeiling
	}
	if c.Concurrency <= 0 {
		c.Concurrency = defaultConcurrency
	}
	return c
}

// Notifier receives the finished aggregate after a successful save.
type Notifier interface {
	PublishRefresh(ctx context.Context, agg tournament.Aggregate) error
}

// Runner orchestrates one refresh at a time.
type Runner struct {
	cfg      Config
	sources  []scraper.Source
	store    *cache.Store
	lock     *cache.Lock
	metrics  *metrics.Metrics
	notifier Notifier
}

// New creates a runner over the given sources and cache.
func New(cfg Config, sources []scraper.Source, store *cache.Store, lock *cache.Lock) *Runner {
	return &Runner{cfg: cfg.withDefaults(), sources: sources, store: store, lock: lock}
}

// SetMetrics attaches pipeline collectors. Nil is allowed.
func (r *Runner) SetMetrics(m *metrics.Metrics) { r.metrics = m }

// SetNotifier attaches a completion notifier. Nil is allowed.
func (r *Runner) SetNotifier(n Notifier) { r.notifier = n }

type sourceResult struct {
	events []tournament.RawEvent
	err    error
	done   bool
}

// Run executes the pipeline once and returns the persisted aggregate.
// Source failures never abort the run; they land in the aggregate's
// errors map. Lock contention returns ErrAlreadyRunning immediately, and
// a cache-write failure is a hard error that leaves the previous
// document untouched.
func (r *Runner) Run(ctx context.Context) (tournament.Aggregate, error) {
	if err := r.lock.Acquire(); err != nil {
		if errors.Is(err, cache.ErrLocked) {
			return tournament.Aggregate{}, ErrAlreadyRunning
		}
		return tournament.Aggregate{}, fmt.Errorf("acquiring refresh lock: %w", err)
	}
	defer r.lock.Release()

	started := time.Now()
	results := r.fetchAll(ctx)
	agg := r.assemble(results)

	if err := r.store.Save(agg); err != nil {
		r.metrics.ObserveFailure()
		return tournament.Aggregate{}, fmt.Errorf("saving cache: %w", err)
	}

	r.metrics.ObserveRefresh(time.Since(started), len(agg.Tournaments), agg.Errors)
	logger.Info("refresh finished", logger.Fields{
		"tournaments":    len(agg.Tournaments),
		"failed_sources": len(agg.Errors),
		"duration":       time.Since(started).String(),
	})

	if r.notifier != nil {
		if err := r.notifier.PublishRefresh(ctx, agg); err != nil {
			logger.Warn("publishing refresh notification", logger.Fields{"error": err.Error()})
		}
	}
	return agg, nil
}

// fetchAll runs every source under the concurrency limit and the
// per-source budget. Sources still in flight when the overall ceiling
// expires are abandoned; their slots record a timeout.
func (r *Runner) fetchAll(ctx context.Context) []sourceResult {
	overall, cancel := context.WithTimeout(ctx, r.cfg.Ceiling)
	defer cancel()

	var (
		mu        sync.Mutex
		abandoned bool
	)
	results := make([]sourceResult, len(r.sources))
	sem := make(chan struct{}, r.cfg.Concurrency)

	var wg sync.WaitGroup
	for i, src := range r.sources {
		wg.Add(1)
		go func(i int, src scraper.Source) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-overall.Done():
				return
			}

			events, err := r.fetchOne(overall, src)

			mu.Lock()
			defer mu.Unlock()
			if abandoned {
				return
			}
			results[i] = sourceResult{events: events, err: err, done: true}
		}(i, src)
	}

	finished := make(chan struct{})
	go func() {
		wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
	case <-overall.Done():
	}

	mu.Lock()
	defer mu.Unlock()
	abandoned = true
	for i, src := range r.sources {
		if !results[i].done {
			results[i] = sourceResult{
				err:  &scraper.TimeoutError{Source: src.Name(), Budget: r.cfg.Ceiling},
				done: true,
			}
		}
	}
	out := make([]sourceResult, len(results))
	copy(out, results)
	return out
}

// fetchOne applies the per-source budget and converts panics and
// deadline expiry into recorded errors.
func (r *Runner) fetchOne(ctx context.Context, src scraper.Source) (events []tournament.RawEvent, err error) {
	sctx, cancel := context.WithTimeout(ctx, r.cfg.SourceTimeout)
	defer cancel()

	defer func() {
		if rec := recover(); rec != nil {
			events = nil
			err = &scraper.FetchError{Source: src.Name(), Err: fmt.Errorf("panic: %v", rec)}
		}
	}()

	events, err = src.Fetch(sctx)
	if err != nil {
		if errors.Is(sctx.Err(), context.DeadlineExceeded) {
			return nil, &scraper.TimeoutError{Source: src.Name(), Budget: r.cfg.SourceTimeout}
		}
		return nil, &scraper.FetchError{Source: src.Name(), Err: err}
	}
	return events, nil
}

// assemble normalizes, filters and deduplicates fetched listings into
// the final aggregate.
func (r *Runner) assemble(results []sourceResult) tournament.Aggregate {
	agg := tournament.NewAggregate()
	records := make([]tournament.Tournament, 0)

	for i, src := range r.sources {
		res := results[i]
		name := src.Name()

		if res.err != nil {
			agg.Errors[name] = res.err.Error()
			logger.Warn("source fetch failed", logger.Fields{"source": name, "error": res.err.Error()})
			continue
		}

		kept, dropped, leagues := 0, 0, 0
		for _, raw := range res.events {
			tour, span, err := tournament.Normalize(name, raw)
			if err != nil {
				dropped++
				logger.Debug("dropping listing", logger.Fields{
					"source": name, "title": raw.Title, "error": err.Error(),
				})
				continue
			}
			if src.MixesLeagues() && tournament.IsLeague(span) {
				leagues++
				continue
			}
			records = append(records, tour)
			kept++
		}

		// A page that yielded listings but no tournaments usually means
		// its markup changed; surface that without failing the source.
		if len(res.events) > 0 && kept == 0 {
			agg.Errors[name] = fmt.Sprintf("parsed 0 tournaments from %d listings", len(res.events))
		}
		logger.Info("source processed", logger.Fields{
			"source": name, "kept": kept, "dropped": dropped, "leagues": leagues,
		})
	}

	agg.Tournaments = tournament.Dedupe(records)
	agg.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return agg
}
