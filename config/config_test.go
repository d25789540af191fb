package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/katalvlaran/hpfold/config"
	"github.com/katalvlaran/hpfold/fold"
	"github.com/katalvlaran/hpfold/polypeptide"
	"github.com/katalvlaran/hpfold/residue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestDefault_Valid(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 2, cfg.Dimension)
	assert.Equal(t, fold.DefaultCapacity, cfg.Capacity)
	assert.Nil(t, cfg.Slack)
}

func TestLoad_DefaultsOnly(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "hpfold.yaml", `
dimension: 3
surface: S
model: surface-hp
adsorption: -2
capacity: 1024
workers: 2
slack: -1
bound: minimal
interactions:
  - {a: P, b: P, energy: -0.25}
  - {a: H, b: ".", energy: 0.5}
log:
  level: debug
  no_color: true
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Dimension)
	assert.Equal(t, "S", cfg.Surface)
	assert.Equal(t, 1024, cfg.Capacity)
	assert.Equal(t, 2, cfg.Workers)
	require.NotNil(t, cfg.Slack)
	assert.Equal(t, -1, *cfg.Slack)
	assert.Equal(t, config.BoundMinimal, cfg.Bound)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.NoColor)
	require.Len(t, cfg.Interactions, 2)

	tab, err := cfg.Table()
	require.NoError(t, err)
	assert.Equal(t, -1.0, tab.Interaction(residue.Hydrophobic, residue.Hydrophobic))
	assert.Equal(t, -2.0, tab.Interaction(residue.Surface, residue.Hydrophobic))
	assert.Equal(t, -0.25, tab.Interaction(residue.Polar, residue.Polar))
	assert.Equal(t, 0.5, tab.Interaction(residue.Solvent, residue.Hydrophobic))
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "hpfold.json", `{"dimension": 3, "model": "charged", "bound": "resolved"}`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Dimension)

	tab, err := cfg.Table()
	require.NoError(t, err)
	assert.Equal(t, -1.0, tab.Interaction(residue.Positive, residue.Negative))
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeFile(t, "hpfold.yaml", "dimension: 2\nworkers: 4\n")
	t.Setenv("HPFOLD_DIMENSION", "3")
	t.Setenv("HPFOLD_SLACK", "6")
	t.Setenv("HPFOLD_LOG_LEVEL", "warn")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Dimension)
	assert.Equal(t, 4, cfg.Workers)
	require.NotNil(t, cfg.Slack)
	assert.Equal(t, 6, *cfg.Slack)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_Errors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	cases := map[string]string{
		"Dimension":       "dimension: 4\n",
		"Surface":         "surface: X\n",
		"SolventSurface":  "surface: \".\"\n",
		"LongSurface":     "surface: HP\n",
		"Model":           "model: lennard-jones\n",
		"Capacity":        "capacity: 0\n",
		"Workers":         "workers: -2\n",
		"Bound":           "bound: magic\n",
		"InteractionType": "interactions: [{a: Q, b: H, energy: 1}]\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.Load(writeFile(t, "bad.yaml", body))
			require.ErrorIs(t, err, config.ErrInvalid)
		})
	}
}

func TestFoldOptions_Solve(t *testing.T) {
	cfg := config.Default()
	slack := -1
	cfg.Slack = &slack
	cfg.Workers = 2

	opts, err := cfg.FoldOptions(nil)
	require.NoError(t, err)
	tab, err := cfg.Table()
	require.NoError(t, err)
	types, err := residue.ParseSequence("HPPH")
	require.NoError(t, err)
	chain, err := polypeptide.New(types, tab)
	require.NoError(t, err)

	res, err := fold.Solve(context.Background(), chain, opts...)
	require.NoError(t, err)
	assert.Equal(t, -1.0, res.Energy)
	assert.Equal(t, 2, res.Stats.Workers)
}

func TestFoldOptions_Surface(t *testing.T) {
	cfg := config.Default()
	cfg.Surface = "S"
	cfg.Model = config.ModelSurfaceHP

	opts, err := cfg.FoldOptions(nil)
	require.NoError(t, err)
	tab, err := cfg.Table()
	require.NoError(t, err)

	chain := polypeptide.MustNew([]residue.Type{residue.Hydrophobic, residue.Hydrophobic}, tab)
	res, err := fold.Solve(context.Background(), chain, opts...)
	require.NoError(t, err)
	assert.Equal(t, -2.0, res.Energy)
	assert.True(t, res.Lattice.Options().HasSurface)
}

func TestMarshal_LoadsBack(t *testing.T) {
	cfg := config.Default()
	cfg.Dimension = 3
	cfg.Interactions = []config.Pair{{A: "+", B: "-", Energy: -3}}

	out, err := cfg.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(out), "dimension: 3")
	assert.NotContains(t, string(out), "slack")

	back, err := config.Load(writeFile(t, "round.yaml", string(out)))
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}

func TestLoggerOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Log = config.Log{Level: "debug", File: "/tmp/hpfold.log", NoColor: true}
	lo := cfg.LoggerOptions()
	assert.Equal(t, "debug", lo.Level)
	assert.Equal(t, "/tmp/hpfold.log", lo.File)
	assert.True(t, lo.NoColor)
}
