package fold

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/katalvlaran/hpfold/lattice"
	"github.com/katalvlaran/hpfold/logger"
	"github.com/katalvlaran/hpfold/polypeptide"
	"github.com/katalvlaran/hpfold/residue"
)

// Exhaustive enumerates every self-avoiding walk of the chain and returns
// the minimum-energy one. Only translation is factored out (residue 0 at the
// origin, or at heights 1..N+1 above a surface) plus, in free space, the
// direction of the first bond. It shares no pruning or symmetry rules with
// Engine and serves as its reference.
//
// Capacity, Workers, Slack and Bound are ignored.
//
// Complexity: O(N·(2d−1)^N) time, O(N) extra memory.
//
// Errors: ErrConfiguration, or the wrapped context error on cancellation.
func Exhaustive(ctx context.Context, chain *polypeptide.Polypeptide, opts ...Option) (*Result, error) {
	s, err := newSpace(chain, opts)
	if err != nil {
		return nil, err
	}
	w := &walker{
		ctx:   ctx,
		s:     s,
		types: chain.Types(),
		occ:   make(map[lattice.Point]int, chain.Size()),
		path:  make([]lattice.Point, 0, chain.Size()),
	}
	runID := uuid.NewString()
	log := s.opts.Logger.With(logger.WithField("run", runID), logger.WithField("mode", "exhaustive"))
	log.Debug("enumeration started", logger.WithField("chain", chain.String()))

	if s.opts.HasSurface {
		for h := 1; h <= chain.Size()+1 && w.err == nil; h++ {
			w.walk(lattice.Point{X: s.up.X * h, Y: s.up.Y * h, Z: s.up.Z * h})
		}
	} else {
		w.walk(lattice.Point{})
	}
	if w.err != nil {
		return nil, w.err
	}
	if w.best == nil {
		return nil, ErrExhausted
	}

	l, err := s.build(w.best)
	if err != nil {
		return nil, err
	}
	log.Debug("enumeration finished", logger.WithField("walks", w.walks), logger.WithField("energy", l.Energy()))

	return &Result{
		RunID:   runID,
		Chain:   chain,
		Lattice: l,
		Energy:  l.Energy(),
		Stats:   Stats{Completions: w.walks, Workers: 1},
	}, nil
}

// walker is the depth-first state of Exhaustive. Energy is tracked
// incrementally and undone on backtrack instead of cloning lattices.
type walker struct {
	ctx   context.Context
	s     *space
	types []residue.Type
	occ   map[lattice.Point]int
	path  []lattice.Point

	energy     float64
	best       []lattice.Point
	bestEnergy float64
	walks      uint64
	err        error
}

func (w *walker) walk(p lattice.Point) {
	if w.err != nil {
		return
	}
	if w.s.lopts.InSurface(p) {
		return
	}
	if _, ok := w.occ[p]; ok {
		return
	}

	i := len(w.path)
	d := w.placeDelta(p, i)
	w.occ[p] = i
	w.path = append(w.path, p)
	w.energy += d

	if i == len(w.types)-1 {
		w.leaf()
	} else if i == 0 && !w.s.opts.HasSurface {
		w.walk(p.Add(lattice.PlusX))
	} else {
		for _, dir := range w.s.dirs {
			w.walk(p.Add(dir))
		}
	}

	w.energy -= d
	w.path = w.path[:i]
	delete(w.occ, p)
}

func (w *walker) leaf() {
	w.walks++
	if w.walks&4095 == 0 {
		if err := w.ctx.Err(); err != nil {
			w.err = fmt.Errorf("fold: enumeration interrupted: %w", err)
			return
		}
	}
	e := lattice.Round(w.energy)
	if w.best == nil || e < w.bestEnergy {
		w.best = append(w.best[:0], w.path...)
		w.bestEnergy = e
	}
}

// placeDelta is the energy change of putting residue i at p.
func (w *walker) placeDelta(p lattice.Point, i int) float64 {
	tab := w.s.chain.Table()
	t := w.types[i]
	var e float64
	for _, d := range w.s.dirs {
		q := p.Add(d)
		if w.s.lopts.InSurface(q) {
			e += tab.Interaction(t, w.s.lopts.Surface)
			continue
		}
		j, ok := w.occ[q]
		if !ok {
			e += tab.Interaction(t, residue.Solvent)
			continue
		}
		e -= tab.Interaction(w.types[j], residue.Solvent)
		if j != i-1 && j != i+1 {
			e += tab.Interaction(t, w.types[j])
		}
	}

	return e
}
