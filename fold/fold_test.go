package fold_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/katalvlaran/hpfold/fold"
	"github.com/katalvlaran/hpfold/lattice"
	"github.com/katalvlaran/hpfold/polypeptide"
	"github.com/katalvlaran/hpfold/residue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const energyTol = 1e-9

func chainOf(t testing.TB, seq string, tb *residue.Table) *polypeptide.Polypeptide {
	t.Helper()
	types, err := residue.ParseSequence(seq)
	require.NoError(t, err)
	p, err := polypeptide.New(types, tb)
	require.NoError(t, err)

	return p
}

// requireValidFolding checks that l is a self-avoiding embedding of chain in
// sequence order whose incremental energy matches a from-scratch derivation.
func requireValidFolding(t *testing.T, chain *polypeptide.Polypeptide, l *lattice.Lattice) {
	t.Helper()
	pts := l.Points()
	require.Len(t, pts, chain.Size())
	for i := 1; i < len(pts); i++ {
		require.Equal(t, 1, pts[i].Manhattan(pts[i-1]), "bond %d-%d", i-1, i)
	}
	for i, p := range pts {
		pep, ok := l.ResidueAt(p)
		require.True(t, ok)
		require.Equal(t, i, pep.Index)
		require.False(t, l.Options().InSurface(p))
	}
	require.InDelta(t, l.Derive(), l.RawEnergy(), energyTol)
}

func TestSolve_HPPH(t *testing.T) {
	chain := chainOf(t, "HPPH", residue.HP())
	res, err := fold.Solve(context.Background(), chain)
	require.NoError(t, err)

	assert.Equal(t, -1.0, res.Energy)
	requireValidFolding(t, chain, res.Lattice)
	pts := res.Lattice.Points()
	assert.Equal(t, 1, pts[0].Manhattan(pts[3]), "H residues must touch")
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 3, res.Stats.Seeds)
	assert.GreaterOrEqual(t, res.Stats.Completions, uint64(1))
}

func TestSolve_SingleResidue(t *testing.T) {
	for _, dim := range []int{2, 3} {
		res, err := fold.Solve(context.Background(), chainOf(t, "H", residue.HP()), fold.WithDimension(dim))
		require.NoError(t, err)
		assert.Equal(t, 0.0, res.Energy)
		assert.Equal(t, 1, res.Lattice.Len())
	}
}

func TestSolve_SurfaceAdsorption(t *testing.T) {
	// Every H can lie on an attractive surface: -1 per H face on the plane.
	chain := chainOf(t, "HHH", residue.SurfaceHP(-1))
	res, err := fold.Solve(context.Background(), chain, fold.WithSurface(residue.Surface))
	require.NoError(t, err)
	assert.Equal(t, -3.0, res.Energy)
	requireValidFolding(t, chain, res.Lattice)
	for _, p := range res.Lattice.Points() {
		assert.Equal(t, 1, p.Y)
	}
}

func TestSolve_MatchesExhaustive(t *testing.T) {
	type tc struct {
		seq     string
		table   *residue.Table
		dim     int
		surface bool
	}
	var cases []tc
	for _, seq := range []string{"HPHPPHHPHH", "HHPPHPPHHP", "PHPHHPHPPH", "HHHHPHHHH"} {
		cases = append(cases, tc{seq, residue.HP(), 2, false})
	}
	cases = append(cases,
		tc{"H+P-HH-+PH", residue.Charged(), 2, false},
		tc{"HPHPPHHPH", residue.HP(), 3, false},
		tc{"HHPHPPHHH", residue.HP(), 3, false},
		tc{"-+HH+-PH", residue.Charged(), 3, false},
		tc{"HPHPPHHPH", residue.SurfaceHP(-1), 2, true},
		tc{"PHHPPHPH", residue.SurfaceHP(-0.5), 2, true},
		tc{"HPPHHPH", residue.SurfaceHP(-1), 3, true},
	)

	for _, c := range cases {
		for _, bound := range []struct {
			name   string
			policy fold.BoundPolicy
		}{{"Resolved", fold.ResolvedBound}, {"Minimal", fold.MinimalBound}} {
			name := fmt.Sprintf("%s/%dD/surface=%t/%s", c.seq, c.dim, c.surface, bound.name)
			t.Run(name, func(t *testing.T) {
				chain := chainOf(t, c.seq, c.table)
				opts := []fold.Option{
					fold.WithDimension(c.dim),
					fold.WithSlack(-1),
					fold.WithWorkers(2),
					fold.WithCapacity(1 << 20),
					fold.WithBoundPolicy(bound.policy),
				}
				if c.surface {
					opts = append(opts, fold.WithSurface(residue.Surface))
				}

				want, err := fold.Exhaustive(context.Background(), chain, opts...)
				require.NoError(t, err)
				requireValidFolding(t, chain, want.Lattice)

				got, err := fold.Solve(context.Background(), chain, opts...)
				require.NoError(t, err)
				requireValidFolding(t, chain, got.Lattice)
				assert.InDelta(t, want.Energy, got.Energy, energyTol)
			})
		}
	}
}

func TestSolve_DefaultSlackStaysCompact(t *testing.T) {
	chain := chainOf(t, "HPHPPHHPHH", residue.HP())
	want, err := fold.Exhaustive(context.Background(), chain)
	require.NoError(t, err)

	got, err := fold.Solve(context.Background(), chain, fold.WithWorkers(3))
	require.NoError(t, err)
	requireValidFolding(t, chain, got.Lattice)
	// pruning may only lose foldings, never invent better ones
	assert.GreaterOrEqual(t, got.Energy, want.Energy-energyTol)
	assert.LessOrEqual(t, got.Lattice.Compactness(),
		lattice.MinimalCompactness(chain.Size(), 2)+fold.DefaultSlack(chain.Size(), 2))
}

// TestSolve_DefaultSlackKeepsOptimum runs chains whose optimum needs a box one
// layer thicker than the minimal one, with default options only.
func TestSolve_DefaultSlackKeepsOptimum(t *testing.T) {
	cases := []struct {
		seq  string
		dim  int
		want float64
	}{
		{"HPPH", 2, -1},
		{"HPPH", 3, -1},
		{"HPPHPPH", 3, -2},  // two squares sharing residue 3: 3×3×1 at best
		{"PHPHPHHP", 3, -2}, // residue 6 needs four neighbours, no 2×2×2 fits
		{"HPHPHPHH", 3, -3}, // residue 7 touches 0, 2 and 4: 3×2×2
	}
	for _, c := range cases {
		t.Run(fmt.Sprintf("%s/%dD", c.seq, c.dim), func(t *testing.T) {
			chain := chainOf(t, c.seq, residue.HP())
			want, err := fold.Exhaustive(context.Background(), chain, fold.WithDimension(c.dim))
			require.NoError(t, err)
			require.InDelta(t, c.want, want.Energy, energyTol)

			got, err := fold.Solve(context.Background(), chain, fold.WithDimension(c.dim))
			require.NoError(t, err)
			requireValidFolding(t, chain, got.Lattice)
			assert.InDelta(t, want.Energy, got.Energy, energyTol)
		})
	}
}

func TestDefaultSlack_OneLayer(t *testing.T) {
	for n := 1; n <= 20; n++ {
		assert.Equal(t, 2, fold.DefaultSlack(n, 2), "n=%d", n)
		assert.GreaterOrEqual(t, fold.DefaultSlack(n, 3), 4, "n=%d", n)
	}
	assert.Equal(t, 8, fold.DefaultSlack(7, 3))
	assert.Equal(t, 12, fold.DefaultSlack(9, 3))
}

func TestSolve_WorkerCountsAgree(t *testing.T) {
	chain := chainOf(t, "HHPPHPPHHP", residue.HP())
	var energies []float64
	for _, w := range []int{1, 2, 4, 8} {
		res, err := fold.Solve(context.Background(), chain, fold.WithWorkers(w), fold.WithSlack(-1))
		require.NoError(t, err)
		assert.Equal(t, w, res.Stats.Workers)
		energies = append(energies, res.Energy)
	}
	for _, e := range energies[1:] {
		assert.Equal(t, energies[0], e)
	}
}

func TestSolve_ConfigurationErrors(t *testing.T) {
	chain := chainOf(t, "HPPH", residue.HP())
	cases := []struct {
		name string
		opts []fold.Option
	}{
		{"Dimension", []fold.Option{fold.WithDimension(4)}},
		{"SolventSurface", []fold.Option{fold.WithSurface(residue.Solvent)}},
		{"Capacity", []fold.Option{fold.WithCapacity(0)}},
		{"Workers", []fold.Option{fold.WithWorkers(0)}},
		{"NilBound", []fold.Option{fold.WithBoundPolicy(nil)}},
		{"NilLogger", []fold.Option{fold.WithLogger(nil)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fold.Solve(context.Background(), chain, tc.opts...)
			require.ErrorIs(t, err, fold.ErrConfiguration)
		})
	}

	_, err := fold.Solve(context.Background(), nil)
	require.ErrorIs(t, err, fold.ErrConfiguration)
	_, err = fold.NewEngine(nil)
	require.ErrorIs(t, err, fold.ErrConfiguration)
	_, err = fold.Exhaustive(context.Background(), nil)
	require.ErrorIs(t, err, fold.ErrConfiguration)
}

func TestSolve_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pool, err := fold.NewPool(chainOf(t, "HPHPPHHPHH", residue.HP()), fold.WithWorkers(2))
	require.NoError(t, err)
	_, err = pool.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	_, ok := pool.Best()
	assert.False(t, ok)
}

func TestEngine_RunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	eng, err := fold.NewEngine(chainOf(t, "HPPH", residue.HP()))
	require.NoError(t, err)
	_, err = eng.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestPool_WorkerPanicIsRecovered(t *testing.T) {
	chain := chainOf(t, "HPHPPHHPHH", residue.HP())
	var calls atomic.Int64
	faulty := func(c *polypeptide.Polypeptide, l *lattice.Lattice, last int) float64 {
		// seeds take fewer than N calls; the first expansion trips
		if calls.Add(1) > int64(chain.Size()) {
			panic("bound exploded")
		}

		return fold.ResolvedBound(c, l, last)
	}

	_, err := fold.Solve(context.Background(), chain, fold.WithWorkers(1), fold.WithBoundPolicy(faulty))
	require.ErrorIs(t, err, fold.ErrWorkerPanic)
}

func TestEngine_Lifecycle(t *testing.T) {
	chain := chainOf(t, "HPPH", residue.HP())
	eng, err := fold.NewEngine(chain)
	require.NoError(t, err)
	assert.Equal(t, fold.Seeding, eng.State())
	assert.Equal(t, "SEEDING", eng.State().String())

	seeds, err := eng.Seeds()
	require.NoError(t, err)
	require.Len(t, seeds, 3)
	for _, s := range seeds {
		assert.Equal(t, lattice.Point{}, s.Lattice().Points()[0])
		assert.Equal(t, lattice.Point{X: 1}, s.Lattice().Points()[1])
		eng.Push(s)
	}
	assert.Equal(t, 3, eng.Pending())

	var best *fold.Folding
	for best == nil {
		best, err = eng.Step()
		require.NoError(t, err)
		if best == nil {
			assert.Equal(t, fold.Expanding, eng.State())
		}
	}
	assert.Equal(t, fold.Done, eng.State())
	assert.True(t, best.Complete())
	assert.Equal(t, -1.0, best.Energy())
	assert.InDelta(t, best.LowerBound(), best.Lattice().RawEnergy(), energyTol)
	assert.Equal(t, 3, best.Index())
	assert.Equal(t, best.Lattice().Points()[3], best.Last())

	again, err := eng.Step()
	require.NoError(t, err)
	assert.Same(t, best, again)

	st := eng.Stats()
	assert.Equal(t, 3, st.Seeds)
	assert.Equal(t, uint64(1), st.Completions)
	assert.Positive(t, st.Expanded)
}

func TestEngine_Run(t *testing.T) {
	chain := chainOf(t, "HPHPPHHPHH", residue.HP())
	eng, err := fold.NewEngine(chain, fold.WithSlack(-1))
	require.NoError(t, err)
	f, err := eng.Run(context.Background())
	require.NoError(t, err)

	want, err := fold.Exhaustive(context.Background(), chain)
	require.NoError(t, err)
	assert.InDelta(t, want.Energy, f.Energy(), energyTol)
	requireValidFolding(t, chain, f.Lattice())
}

func TestPool_RunsOnce(t *testing.T) {
	chain := chainOf(t, "HPPH", residue.HP())
	p, err := fold.NewPool(chain, fold.WithWorkers(2))
	require.NoError(t, err)

	res, err := p.Run(context.Background())
	require.NoError(t, err)
	stats := p.Stats()
	assert.Equal(t, res.Stats, stats)

	_, err = p.Run(context.Background())
	require.ErrorIs(t, err, fold.ErrConfiguration)
	assert.Equal(t, stats, p.Stats())
	best, ok := p.Best()
	require.True(t, ok)
	assert.Equal(t, -1.0, best.Energy())
}

func TestRegister_MinWins(t *testing.T) {
	chain := chainOf(t, "HPPH", residue.HP())
	eng, err := fold.NewEngine(chain)
	require.NoError(t, err)
	seeds, err := eng.Seeds()
	require.NoError(t, err)
	best, err := eng.Run(context.Background())
	require.NoError(t, err)

	var r fold.Register
	_, ok := r.Best()
	assert.False(t, ok)
	_, ok = r.Energy()
	assert.False(t, ok)

	// The last bent seed is complete: an L with no H-H contact.
	open := seeds[len(seeds)-1]
	require.True(t, open.Complete())
	require.Equal(t, 0.0, open.Energy())

	assert.True(t, r.Offer(open))
	assert.True(t, r.Offer(best))
	assert.False(t, r.Offer(open), "worse offers are ignored")
	assert.False(t, r.Offer(best), "ties keep the incumbent")
	got, ok := r.Best()
	require.True(t, ok)
	assert.Same(t, best, got)
	e, ok := r.Energy()
	require.True(t, ok)
	assert.Equal(t, -1.0, e)
}

func TestLess_Order(t *testing.T) {
	chain := chainOf(t, "HPPHPH", residue.HP())
	eng, err := fold.NewEngine(chain)
	require.NoError(t, err)
	seeds, err := eng.Seeds()
	require.NoError(t, err)
	for i := range seeds {
		assert.False(t, fold.Less(seeds[i], seeds[i]), "irreflexive")
		for j := range seeds {
			if i != j {
				assert.NotEqual(t, fold.Less(seeds[i], seeds[j]), fold.Less(seeds[j], seeds[i]),
					"seeds %d and %d must be strictly ordered", i, j)
			}
			if seeds[i].LowerBound() < seeds[j].LowerBound() {
				assert.True(t, fold.Less(seeds[i], seeds[j]))
			}
		}
	}
}
