package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/katalvlaran/hpfold/fold"
	"github.com/katalvlaran/hpfold/lattice"
)

// render prints a summary, the coordinates and, in 2D, a drawing of the fold.
func render(w io.Writer, res *fold.Result) {
	header := color.New(color.FgCyan).SprintFunc()
	fmt.Fprintf(w, "%s %s (%d residues)\n", header("chain   "), res.Chain, res.Chain.Size())
	fmt.Fprintf(w, "%s %s\n", header("energy  "), color.GreenString("%.2f", res.Energy))
	fmt.Fprintf(w, "%s %s\n", header("run     "), res.RunID)
	fmt.Fprintf(w, "%s seeds=%d expanded=%d pruned=%d evicted=%d workers=%d\n", header("stats   "),
		res.Stats.Seeds, res.Stats.Expanded, res.Stats.Pruned, res.Stats.Evicted, res.Stats.Workers)

	for i, p := range res.Lattice.Points() {
		pep, _ := res.Lattice.ResidueAt(p)
		fmt.Fprintf(w, "%4d %c %v\n", i, pep.Type.Letter(), p)
	}
	if res.Lattice.Dimension() == 2 {
		fmt.Fprint(w, drawing(res.Lattice))
	}
}

// drawing renders a 2D lattice on a character grid: residues at even
// columns/rows, bonds between them. The surface, if any, is a row of '#'.
func drawing(l *lattice.Lattice) string {
	lo, hi := l.Bounds()
	opts := l.Options()
	if opts.HasSurface {
		lo.Y = 0
	}
	w, h := 2*(hi.X-lo.X)+1, 2*(hi.Y-lo.Y)+1
	grid := make([][]rune, h)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", w))
	}
	cell := func(p lattice.Point) (row, col int) {
		return 2 * (hi.Y - p.Y), 2 * (p.X - lo.X)
	}

	pts := l.Points()
	for i, p := range pts {
		pep, _ := l.ResidueAt(p)
		r, c := cell(p)
		grid[r][c] = pep.Type.Letter()
		if i == 0 {
			continue
		}
		pr, pc := cell(pts[i-1])
		if pr == r {
			grid[r][(c+pc)/2] = '-'
		} else {
			grid[(r+pr)/2][c] = '|'
		}
	}
	if opts.HasSurface {
		grid[h-1] = []rune(strings.Repeat("#", w))
	}

	var b strings.Builder
	for _, row := range grid {
		b.WriteString(strings.TrimRight(string(row), " "))
		b.WriteByte('\n')
	}

	return b.String()
}
