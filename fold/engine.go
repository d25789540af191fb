package fold

import (
	"context"
	"fmt"

	"github.com/katalvlaran/hpfold/lattice"
	"github.com/katalvlaran/hpfold/polypeptide"
	"github.com/katalvlaran/hpfold/pqueue"
)

// space holds everything needed to generate and expand states for one chain.
// It is read-only after construction and shared by every worker.
type space struct {
	chain *polypeptide.Polypeptide
	opts  Options
	lopts lattice.Options
	dirs  []lattice.Point
	up    lattice.Point
	down  lattice.Point
	limit int // compactness ceiling; < 0 disables
}

func newSpace(chain *polypeptide.Polypeptide, opts []Option) (*space, error) {
	if chain == nil {
		return nil, fmt.Errorf("%w: nil chain", ErrConfiguration)
	}
	cfg, err := resolve(opts)
	if err != nil {
		return nil, err
	}
	if !cfg.slackSet {
		cfg.Slack = cfg.defaultSlack(chain.Size())
	}
	s := &space{
		chain: chain,
		opts:  cfg,
		lopts: cfg.latticeOptions(),
		dirs:  lattice.Directions(cfg.Dimension),
		limit: -1,
	}
	s.up = s.lopts.Up()
	s.down = lattice.Point{X: -s.up.X, Y: -s.up.Y, Z: -s.up.Z}
	if cfg.Slack >= 0 {
		s.limit = lattice.MinimalCompactness(chain.Size(), cfg.Dimension) + cfg.Slack
	}

	return s, nil
}

// allowed reports whether growing a state with symmetry flags sym along d
// could reach a folding that no sibling branch already covers.
func (s *space) allowed(sym symmetry, d lattice.Point) bool {
	switch {
	case sym&symStraight != 0 && d != lattice.PlusX:
		return false
	case sym&symPlanar != 0 && d == lattice.MinusZ:
		return false
	case sym&symColumn != 0 && d != lattice.PlusX && d != s.up && d != s.down:
		return false
	case sym&symSheet != 0 && d == lattice.MinusY:
		return false
	}

	return true
}

// advance returns the symmetry flags of a child placed at q via d.
func (s *space) advance(sym symmetry, q, d lattice.Point) symmetry {
	if sym&symPlanar != 0 && q.Z != 0 {
		sym &^= symPlanar
	}
	if sym&symColumn != 0 && d != s.up && d != s.down {
		sym &^= symColumn
	}
	if sym&symSheet != 0 && q.Y != 0 {
		sym &^= symSheet
	}

	return sym
}

// bound returns the ordering key for a lattice holding residues 0..last.
func (s *space) bound(l *lattice.Lattice, last int) float64 {
	if last == s.chain.Size()-1 {
		return quantize(l.RawEnergy())
	}

	return quantize(s.opts.Bound(s.chain, l, last))
}

// build places residues 0..len(pts)-1 at pts on a fresh lattice.
func (s *space) build(pts []lattice.Point) (*lattice.Lattice, error) {
	l, err := lattice.NewWithOptions(s.chain.Table(), s.lopts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	for i, p := range pts {
		if err = l.Place(p, s.chain.Get(i)); err != nil {
			return nil, fmt.Errorf("fold: seed residue %d: %w", i, err)
		}
	}

	return l, nil
}

func (s *space) state(l *lattice.Lattice, pts []lattice.Point, sym symmetry) *Folding {
	last := len(pts) - 1

	return &Folding{
		lattice:  l,
		last:     pts[last],
		index:    last,
		bound:    s.bound(l, last),
		complete: last == s.chain.Size()-1,
		sym:      sym,
	}
}

// seeds returns the root states of the search tree. Their union covers every
// folding up to lattice symmetry.
func (s *space) seeds() ([]*Folding, error) {
	if s.opts.HasSurface {
		return s.surfaceSeeds()
	}

	n := s.chain.Size()
	if n == 1 {
		l, err := s.build([]lattice.Point{{}})
		if err != nil {
			return nil, err
		}

		return []*Folding{s.state(l, []lattice.Point{{}}, 0)}, nil
	}

	var base symmetry
	if s.opts.Dimension == 3 {
		base = symPlanar
	}
	out := make([]*Folding, 0, n-1)
	pts := make([]lattice.Point, 0, n)
	for k := 1; k < n; k++ {
		pts = pts[:0]
		for i := 0; i < k; i++ {
			pts = append(pts, lattice.Point{X: i})
		}
		sym := base
		if k == 1 {
			// straight seed: residue 1 on +X, extends only along +X
			pts = append(pts, lattice.Point{X: 1})
			sym |= symStraight
		} else {
			pts = append(pts, lattice.Point{X: k - 1, Y: 1})
		}
		if s.exceeds(pts) {
			continue
		}
		l, err := s.build(pts)
		if err != nil {
			return nil, err
		}
		out = append(out, s.state(l, pts, sym))
	}

	return out, nil
}

// surfaceSeeds places residue 0 at heights 1..N+1 and residue 1 on each
// canonical side of it.
func (s *space) surfaceSeeds() ([]*Folding, error) {
	n := s.chain.Size()
	sym := symColumn
	if s.opts.Dimension == 3 {
		sym |= symSheet
	}
	var out []*Folding
	for h := 1; h <= n+1; h++ {
		root := lattice.Point{X: s.up.X * h, Y: s.up.Y * h, Z: s.up.Z * h}
		if n == 1 {
			l, err := s.build([]lattice.Point{root})
			if err != nil {
				return nil, err
			}
			out = append(out, s.state(l, []lattice.Point{root}, sym))
			continue
		}
		for _, d := range []lattice.Point{lattice.PlusX, s.up, s.down} {
			q := root.Add(d)
			if s.lopts.InSurface(q) {
				continue
			}
			pts := []lattice.Point{root, q}
			if s.exceeds(pts) {
				continue
			}
			l, err := s.build(pts)
			if err != nil {
				return nil, err
			}
			out = append(out, s.state(l, pts, s.advance(sym, q, d)))
		}
	}

	return out, nil
}

// exceeds reports whether the box around pts is already beyond the
// compactness ceiling. Boxes only grow, so such seeds cannot complete.
func (s *space) exceeds(pts []lattice.Point) bool {
	if s.limit < 0 {
		return false
	}
	lo, hi := pts[0], pts[0]
	for _, p := range pts[1:] {
		lo = lattice.Point{X: min(lo.X, p.X), Y: min(lo.Y, p.Y), Z: min(lo.Z, p.Z)}
		hi = lattice.Point{X: max(hi.X, p.X), Y: max(hi.Y, p.Y), Z: max(hi.Z, p.Z)}
	}
	w, h, d := hi.X-lo.X+1, hi.Y-lo.Y+1, hi.Z-lo.Z+1
	c := 2 * (w + h)
	if s.opts.Dimension == 3 {
		c = 2 * (w*h + h*d + w*d)
	}

	return c > s.limit
}

// Engine is a sequential best-first branch-and-bound search over one bounded
// queue. It is not safe for concurrent use.
type Engine struct {
	*space
	queue *pqueue.Bounded[*Folding]
	state State
	best  *Folding
	seq   uint64
	stats Stats

	// incumbent, when set, reports the best completed energy known elsewhere.
	incumbent func() (float64, bool)
}

// NewEngine returns an Engine in the Seeding state with one bounded queue of
// Options.Capacity entries. Workers is ignored.
//
// Errors: ErrConfiguration for a nil chain or invalid options.
func NewEngine(chain *polypeptide.Polypeptide, opts ...Option) (*Engine, error) {
	s, err := newSpace(chain, opts)
	if err != nil {
		return nil, err
	}

	return newEngine(s, s.opts.Capacity, nil)
}

func newEngine(s *space, capacity int, incumbent func() (float64, bool)) (*Engine, error) {
	q, err := pqueue.NewBounded[*Folding](capacity, Less)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	return &Engine{space: s, queue: q, incumbent: incumbent}, nil
}

// State returns the lifecycle stage.
func (e *Engine) State() State { return e.state }

// Pending returns the number of queued states.
func (e *Engine) Pending() int { return e.queue.Len() }

// Stats returns the work counters so far.
func (e *Engine) Stats() Stats {
	st := e.stats
	st.Evicted = e.queue.Evictions()

	return st
}

// Seeds generates the root states without queueing them.
func (e *Engine) Seeds() ([]*Folding, error) {
	seeds, err := e.seeds()
	if err != nil {
		return nil, err
	}
	for _, f := range seeds {
		e.seq++
		f.seq = e.seq
	}
	e.stats.Seeds = len(seeds)

	return seeds, nil
}

// Push queues f and reports whether a state was evicted to make room.
func (e *Engine) Push(f *Folding) bool {
	return e.queue.Push(f)
}

// Step pops the best queued state. A state that cannot beat the incumbent is
// dropped. A completed state is returned and moves the engine to Done.
// Otherwise the state is expanded. Step returns (nil, nil) when nothing
// completed, including on an empty queue. Once Done, Step keeps returning
// the same folding.
//
// Errors: a wrapped lattice.ErrPlacement if a child could not be placed.
func (e *Engine) Step() (*Folding, error) {
	if e.state == Done {
		return e.best, nil
	}
	f, ok := e.queue.Pop()
	if !ok {
		return nil, nil
	}
	e.state = Expanding
	if e.cannotImprove(f.bound) {
		e.stats.Pruned++

		return nil, nil
	}
	if f.complete {
		e.stats.Completions++
		e.state = Done
		e.best = f

		return f, nil
	}

	return nil, e.expand(f)
}

// Run seeds the queue and steps until a completed folding surfaces.
//
// Errors: ErrExhausted when the queue drains first, the wrapped context error
// on cancellation, or a placement error.
func (e *Engine) Run(ctx context.Context) (*Folding, error) {
	if e.state == Seeding && e.queue.IsEmpty() {
		seeds, err := e.Seeds()
		if err != nil {
			return nil, err
		}
		for _, f := range seeds {
			e.Push(f)
		}
	}
	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("fold: search interrupted: %w", err)
		}
		if e.state != Done && e.queue.IsEmpty() {
			return nil, ErrExhausted
		}
		f, err := e.Step()
		if err != nil {
			return nil, err
		}
		if f != nil {
			return f, nil
		}
	}
}

// resume drops the remaining queue after a completion was handed off to the
// shared incumbent: everything left is bounded below by it.
func (e *Engine) resume() {
	e.queue.Clear()
	e.best = nil
	e.state = Expanding
}

func (e *Engine) cannotImprove(bound float64) bool {
	if e.incumbent == nil {
		return false
	}
	best, ok := e.incumbent()

	return ok && bound >= best-eps
}

// expand pushes every admissible child of f.
func (e *Engine) expand(f *Folding) error {
	e.stats.Expanded++
	next := f.index + 1
	pep := e.chain.Get(next)
	for _, d := range e.dirs {
		if !e.allowed(f.sym, d) {
			continue
		}
		q := f.last.Add(d)
		if !f.lattice.CanPlace(q) {
			continue
		}
		if e.limit >= 0 && f.lattice.CompactnessWith(q) > e.limit {
			continue
		}
		l := f.lattice.Clone()
		if err := l.Place(q, pep); err != nil {
			return fmt.Errorf("fold: residue %d at %v: %w", next, q, err)
		}
		child := &Folding{
			lattice:  l,
			last:     q,
			index:    next,
			bound:    e.bound(l, next),
			complete: next == e.chain.Size()-1,
			sym:      e.advance(f.sym, q, d),
		}
		if e.cannotImprove(child.bound) {
			e.stats.Pruned++
			continue
		}
		e.seq++
		child.seq = e.seq
		e.queue.Push(child)
	}

	return nil
}
