package residue_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/hpfold/residue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTable_Symmetric verifies Interaction(a,b) == Interaction(b,a) for every pair, Solvent included.
func TestTable_Symmetric(t *testing.T) {
	tables := map[string]*residue.Table{
		"HP":      residue.HP(),
		"Charged": residue.Charged(),
		"Surface": residue.SurfaceHP(-0.5),
		"Solvent": residue.MustTable(residue.Pair(residue.Polar, residue.Solvent, 0.25)),
	}
	for name, tb := range tables {
		t.Run(name, func(t *testing.T) {
			for _, a := range residue.Types() {
				for _, b := range residue.Types() {
					require.Equal(t, tb.Interaction(a, b), tb.Interaction(b, a), "%s-%s", a, b)
				}
			}
		})
	}
}

func TestTable_MinInteraction(t *testing.T) {
	tb := residue.MustTable(
		residue.Pair(residue.Hydrophobic, residue.Hydrophobic, -1),
		residue.Pair(residue.Hydrophobic, residue.Solvent, 0.5),
		residue.Pair(residue.Polar, residue.Solvent, -0.25),
		residue.Pair(residue.Positive, residue.Positive, 2),
	)
	assert.Equal(t, -1.0, tb.MinInteraction(residue.Hydrophobic))
	assert.Equal(t, -0.25, tb.MinInteraction(residue.Polar))
	// Only repulsive entries: clamped at zero.
	assert.Equal(t, 0.0, tb.MinInteraction(residue.Positive))
	assert.Equal(t, -0.25, tb.MinInteraction(residue.Solvent))
}

func TestNewTable_Errors(t *testing.T) {
	_, err := residue.NewTable(residue.Pair(residue.Hydrophobic, residue.Type(200), -1))
	require.ErrorIs(t, err, residue.ErrUnknownType)

	_, err = residue.NewTable(residue.Pair(residue.Hydrophobic, residue.Polar, math.NaN()))
	require.ErrorIs(t, err, residue.ErrBadEnergy)

	_, err = residue.NewTable(residue.Pair(residue.Hydrophobic, residue.Polar, math.Inf(-1)))
	require.ErrorIs(t, err, residue.ErrBadEnergy)
}

func TestTable_Entries(t *testing.T) {
	got := residue.Charged().Entries()
	require.Len(t, got, 4)
	for _, e := range got {
		assert.LessOrEqual(t, e.A, e.B)
	}
}

func TestParseSequence(t *testing.T) {
	got, err := residue.ParseSequence("hP +-\nN")
	require.NoError(t, err)
	require.Equal(t, []residue.Type{
		residue.Hydrophobic, residue.Polar, residue.Positive, residue.Negative, residue.Neutral,
	}, got)

	_, err = residue.ParseSequence("HPX")
	require.ErrorIs(t, err, residue.ErrUnknownType)
}

func TestType_LetterRoundTrip(t *testing.T) {
	for _, ty := range residue.Types() {
		if ty == residue.Solvent {
			continue
		}
		back, err := residue.ParseType(ty.Letter())
		require.NoError(t, err)
		assert.Equal(t, ty, back)
	}
	assert.False(t, residue.Type(99).Valid())
	assert.Equal(t, "residue(99)", residue.Type(99).String())
}
