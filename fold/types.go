package fold

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/katalvlaran/hpfold/lattice"
	"github.com/katalvlaran/hpfold/logger"
	"github.com/katalvlaran/hpfold/polypeptide"
	"github.com/katalvlaran/hpfold/residue"
)

// Sentinel errors.
var (
	// ErrConfiguration indicates a nil chain or invalid Options.
	ErrConfiguration = errors.New("fold: invalid configuration")

	// ErrExhausted indicates that the search ran out of states without
	// completing a folding.
	ErrExhausted = errors.New("fold: search exhausted without a complete folding")

	// ErrWorkerPanic wraps a panic recovered from a pool worker.
	ErrWorkerPanic = errors.New("fold: worker panic")
)

// eps absorbs floating-point noise in bound comparisons.
const eps = 1e-9

// DefaultCapacity is the total queue capacity shared by all workers (2¹⁶−1).
const DefaultCapacity = 1<<16 - 1

// DefaultSlack returns the compactness slack used for an n-residue chain in
// free space when none is set: enough to admit every box one layer thicker
// than a minimal one (2 in 2D, 8 or more in 3D).
func DefaultSlack(n, dim int) int {
	return lattice.LayeredCompactness(n, dim) - lattice.MinimalCompactness(n, dim)
}

// State is the lifecycle stage of an Engine.
type State int

const (
	// Seeding: no state has been expanded yet.
	Seeding State = iota
	// Expanding: at least one state was popped, no completion yet.
	Expanding
	// Done: a completed folding was returned.
	Done
)

func (s State) String() string {
	switch s {
	case Seeding:
		return "SEEDING"
	case Expanding:
		return "EXPANDING"
	case Done:
		return "DONE"
	}

	return fmt.Sprintf("State(%d)", int(s))
}

// BoundPolicy returns a lower bound on the energy of any completion of l,
// where residues 0..last are placed. It must never exceed the true minimum.
type BoundPolicy func(chain *polypeptide.Polypeptide, l *lattice.Lattice, last int) float64

// Options configures Engine, Pool, Solve and Exhaustive.
type Options struct {
	// Dimension is 2 or 3.
	Dimension int
	// HasSurface places a surface of type Surface at vertical coordinate ≤ 0.
	HasSurface bool
	Surface    residue.Type
	// Capacity is the total bounded-queue capacity; each of the Workers gets
	// max(1, Capacity/Workers).
	Capacity int
	// Workers is the pool size. Engine ignores it.
	Workers int
	// Slack relaxes the compactness floor; negative disables pruning.
	// Unless set through WithSlack it is DefaultSlack(N, Dimension) in free
	// space and disabled above a surface.
	Slack    int
	slackSet bool
	// Bound is the lower-bound policy (default ResolvedBound).
	Bound BoundPolicy
	// Logger receives run-level events (default logger.Nop()).
	Logger logger.Logger
}

// Option configures Options.
type Option func(*Options)

// DefaultOptions returns 2D free space, DefaultCapacity, one worker per CPU,
// ResolvedBound and a discarding logger.
func DefaultOptions() Options {
	return Options{
		Dimension: 2,
		Capacity:  DefaultCapacity,
		Workers:   runtime.NumCPU(),
		Bound:     ResolvedBound,
		Logger:    logger.Nop(),
	}
}

// WithDimension selects a 2D or 3D lattice.
func WithDimension(dim int) Option {
	return func(o *Options) { o.Dimension = dim }
}

// WithSurface enables a surface made of residue type t.
func WithSurface(t residue.Type) Option {
	return func(o *Options) {
		o.HasSurface = true
		o.Surface = t
	}
}

// WithCapacity sets the total bounded-queue capacity.
func WithCapacity(c int) Option {
	return func(o *Options) { o.Capacity = c }
}

// WithWorkers sets the pool size.
func WithWorkers(p int) Option {
	return func(o *Options) { o.Workers = p }
}

// WithSlack sets the compactness slack. Negative disables compactness pruning.
func WithSlack(s int) Option {
	return func(o *Options) {
		o.Slack = s
		o.slackSet = true
	}
}

// WithBoundPolicy selects the lower-bound policy.
func WithBoundPolicy(b BoundPolicy) Option {
	return func(o *Options) { o.Bound = b }
}

// WithLogger routes run-level events to l.
func WithLogger(l logger.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// resolve applies opts over the defaults and validates the result.
func resolve(opts []Option) (Options, error) {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return Options{}, err
	}

	return cfg, nil
}

func (o Options) validate() error {
	if o.Dimension != 2 && o.Dimension != 3 {
		return fmt.Errorf("%w: dimension %d (want 2 or 3)", ErrConfiguration, o.Dimension)
	}
	if o.HasSurface && (o.Surface == residue.Solvent || !o.Surface.Valid()) {
		return fmt.Errorf("%w: surface residue %s", ErrConfiguration, o.Surface)
	}
	if o.Capacity <= 0 {
		return fmt.Errorf("%w: capacity %d", ErrConfiguration, o.Capacity)
	}
	if o.Workers <= 0 {
		return fmt.Errorf("%w: workers %d", ErrConfiguration, o.Workers)
	}
	if o.Bound == nil {
		return fmt.Errorf("%w: nil bound policy", ErrConfiguration)
	}
	if o.Logger == nil {
		return fmt.Errorf("%w: nil logger", ErrConfiguration)
	}

	return nil
}

func (o Options) defaultSlack(n int) int {
	if o.HasSurface {
		return -1
	}

	return DefaultSlack(n, o.Dimension)
}

// latticeOptions projects the geometry onto lattice.Options.
func (o Options) latticeOptions() lattice.Options {
	return lattice.Options{Dimension: o.Dimension, HasSurface: o.HasSurface, Surface: o.Surface}
}

// Stats counts search work. Pool sums its workers' counters.
type Stats struct {
	Seeds       int    // seeds generated
	SeedsPruned int    // seeds discarded against the incumbent
	Expanded    uint64 // states expanded into children
	Pruned      uint64 // states and children discarded against the incumbent
	Evicted     uint64 // states lost to full bounded queues
	Completions uint64 // completed foldings surfaced
	Workers     int
}

func (s *Stats) add(o Stats) {
	s.SeedsPruned += o.SeedsPruned
	s.Expanded += o.Expanded
	s.Pruned += o.Pruned
	s.Evicted += o.Evicted
	s.Completions += o.Completions
}

// Result is the outcome of Solve, Pool.Run or Exhaustive.
type Result struct {
	// RunID identifies the run in log entries.
	RunID string
	// Chain is the folded polypeptide.
	Chain *polypeptide.Polypeptide
	// Lattice holds the best folding found.
	Lattice *lattice.Lattice
	// Energy is Lattice.Energy(), rounded to two decimals.
	Energy float64
	Stats  Stats
}
