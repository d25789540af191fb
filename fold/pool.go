package fold

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/katalvlaran/hpfold/logger"
	"github.com/katalvlaran/hpfold/polypeptide"
	"github.com/katalvlaran/hpfold/pqueue"
)

// Register holds the best completed folding seen by any worker.
// It is safe for concurrent use.
type Register struct {
	mu   sync.RWMutex
	best *Folding
}

// Offer records f if it is strictly better than the current incumbent and
// reports whether it was recorded.
func (r *Register) Offer(f *Folding) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.best != nil && f.Energy() >= r.best.Energy() {
		return false
	}
	r.best = f

	return true
}

// Best returns the incumbent, if any.
func (r *Register) Best() (*Folding, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.best, r.best != nil
}

// Energy returns the incumbent's rounded energy, if any.
func (r *Register) Energy() (float64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.best == nil {
		return 0, false
	}

	return r.best.Energy(), true
}

// Pool runs Options.Workers engines against a shared seed frontier and a
// shared Register.
type Pool struct {
	space    *space
	frontier *pqueue.Concurrent[*Folding]
	best     *Register
	log      logger.Logger
	runID    string
	seeds    int

	mu    sync.Mutex
	ran   bool
	stats Stats
}

// NewPool validates opts and generates the seed frontier.
//
// Errors: ErrConfiguration for a nil chain or invalid options.
func NewPool(chain *polypeptide.Polypeptide, opts ...Option) (*Pool, error) {
	s, err := newSpace(chain, opts)
	if err != nil {
		return nil, err
	}
	frontier, err := pqueue.NewConcurrent[*Folding](Less)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	seeder, err := newEngine(s, 1, nil)
	if err != nil {
		return nil, err
	}
	seeds, err := seeder.Seeds()
	if err != nil {
		return nil, err
	}
	for _, f := range seeds {
		frontier.Push(f)
	}

	runID := uuid.NewString()

	return &Pool{
		space:    s,
		frontier: frontier,
		best:     &Register{},
		log:      s.opts.Logger.With(logger.WithField("run", runID)),
		runID:    runID,
		seeds:    len(seeds),
	}, nil
}

// Best returns the incumbent. After a cancelled Run it may hold a folding
// that is not proven optimal.
func (p *Pool) Best() (*Folding, bool) { return p.best.Best() }

// Stats returns the summed worker counters of the last Run.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.stats
}

// Run starts the workers and blocks until every seed is consumed or an error
// stops the run. A Pool runs at most once.
//
// Errors: ErrConfiguration on a second call, ErrExhausted when no folding was
// completed, ErrWorkerPanic or a placement error from a worker, or the
// wrapped context error.
func (p *Pool) Run(ctx context.Context) (*Result, error) {
	p.mu.Lock()
	if p.ran {
		p.mu.Unlock()
		return nil, fmt.Errorf("%w: pool %s already ran", ErrConfiguration, p.runID)
	}
	p.ran = true
	p.mu.Unlock()

	workers := p.space.opts.Workers
	capacity := max(1, p.space.opts.Capacity/workers)
	start := time.Now()
	p.log.Info("search started",
		logger.WithField("chain", p.space.chain.String()),
		logger.WithField("dimension", p.space.opts.Dimension),
		logger.WithField("surface", p.space.opts.HasSurface),
		logger.WithField("workers", workers),
		logger.WithField("capacity", capacity),
		logger.WithField("seeds", p.seeds),
		logger.WithField("compactness_limit", p.space.limit))

	group, gctx := newSafeGroup(ctx, p.log)
	for w := 0; w < workers; w++ {
		eng, err := newEngine(p.space, capacity, p.best.Energy)
		if err != nil {
			return nil, err
		}
		id := w
		group.Go(func() error { return p.work(gctx, id, eng) })
	}
	err := group.Wait()

	p.mu.Lock()
	p.stats.Seeds = p.seeds
	p.stats.Workers = workers
	st := p.stats
	p.mu.Unlock()

	if err != nil {
		p.log.Warn("search aborted", logger.WithField("error", err.Error()))
		if ctx.Err() != nil {
			return nil, fmt.Errorf("fold: search interrupted: %w", ctx.Err())
		}

		return nil, err
	}
	f, ok := p.best.Best()
	if !ok {
		p.log.Warn("search exhausted", logger.WithField("elapsed", time.Since(start).String()))

		return nil, ErrExhausted
	}
	p.log.Info("search finished",
		logger.WithField("energy", f.Energy()),
		logger.WithField("expanded", st.Expanded),
		logger.WithField("evicted", st.Evicted),
		logger.WithField("elapsed", time.Since(start).String()))

	return &Result{
		RunID:   p.runID,
		Chain:   p.space.chain,
		Lattice: f.Lattice(),
		Energy:  f.Energy(),
		Stats:   st,
	}, nil
}

// work is one worker's loop: drain the private queue, refill it from the
// frontier, hand completions to the register.
func (p *Pool) work(ctx context.Context, id int, eng *Engine) error {
	log := p.log.With(logger.WithField("worker", id))
	defer func() {
		p.mu.Lock()
		p.stats.add(eng.Stats())
		p.mu.Unlock()
	}()

	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("fold: worker %d: %w", id, err)
		}
		if eng.Pending() == 0 {
			seed, ok := p.frontier.Pop()
			if !ok {
				log.Debug("frontier exhausted")
				return nil
			}
			if eng.cannotImprove(seed.bound) {
				eng.stats.SeedsPruned++
				continue
			}
			eng.Push(seed)
		}

		f, err := eng.Step()
		if err != nil {
			return err
		}
		if f == nil {
			continue
		}
		if p.best.Offer(f) {
			log.Debug("incumbent improved", logger.WithField("energy", f.Energy()))
		}
		eng.resume()
	}
}

// Solve folds chain with a Pool and returns the best folding found.
//
// Errors: see NewPool and Pool.Run.
func Solve(ctx context.Context, chain *polypeptide.Polypeptide, opts ...Option) (*Result, error) {
	p, err := NewPool(chain, opts...)
	if err != nil {
		return nil, err
	}

	return p.Run(ctx)
}
