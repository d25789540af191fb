// Package config loads run settings for the folding engine from YAML/JSON
// files and HPFOLD_* environment variables via viper, and maps them onto
// residue tables, fold options and logger options.
package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/katalvlaran/hpfold/fold"
	"github.com/katalvlaran/hpfold/logger"
	"github.com/katalvlaran/hpfold/residue"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid configuration")

// EnvPrefix prefixes environment overrides, e.g. HPFOLD_DIMENSION=3.
const EnvPrefix = "HPFOLD"

// Interaction models.
const (
	ModelHP        = "hp"
	ModelCharged   = "charged"
	ModelSurfaceHP = "surface-hp"
)

// Bound policy names.
const (
	BoundResolved = "resolved"
	BoundMinimal  = "minimal"
)

// Pair overrides one interaction energy. A and B are one-letter residue codes
// (H, P, +, -, N, S, and . for solvent).
type Pair struct {
	A      string  `mapstructure:"a" yaml:"a"`
	B      string  `mapstructure:"b" yaml:"b"`
	Energy float64 `mapstructure:"energy" yaml:"energy"`
}

// Log configures the logger.
type Log struct {
	Level   string `mapstructure:"level" yaml:"level"`
	File    string `mapstructure:"file" yaml:"file,omitempty"`
	NoColor bool   `mapstructure:"no_color" yaml:"no_color"`
}

// Config is the full run configuration.
type Config struct {
	Dimension int `mapstructure:"dimension" yaml:"dimension"`
	// Surface is the one-letter type of the surface; empty means free space.
	Surface string `mapstructure:"surface" yaml:"surface,omitempty"`
	// Model selects the preset table: hp, charged or surface-hp.
	Model string `mapstructure:"model" yaml:"model"`
	// Adsorption is the H–Surface energy of the surface-hp model.
	Adsorption float64 `mapstructure:"adsorption" yaml:"adsorption"`
	// Interactions are applied on top of the preset, later entries winning.
	Interactions []Pair `mapstructure:"interactions" yaml:"interactions,omitempty"`
	Capacity     int    `mapstructure:"capacity" yaml:"capacity"`
	// Workers is the pool size; 0 means one per CPU.
	Workers int `mapstructure:"workers" yaml:"workers"`
	// Slack is the compactness slack; nil keeps the per-geometry default,
	// negative disables compactness pruning.
	Slack *int   `mapstructure:"slack" yaml:"slack,omitempty"`
	Bound string `mapstructure:"bound" yaml:"bound"`
	Log   Log    `mapstructure:"log" yaml:"log"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Dimension:  2,
		Model:      ModelHP,
		Adsorption: -1,
		Capacity:   fold.DefaultCapacity,
		Bound:      BoundResolved,
		Log:        Log{Level: "info"},
	}
}

// keys lists every scalar key so that AutomaticEnv can see it.
var keys = []string{
	"dimension", "surface", "model", "adsorption", "capacity", "workers",
	"slack", "bound", "log.level", "log.file", "log.no_color",
}

// NewViper returns a viper instance carrying the defaults and env bindings,
// with path merged in when non-empty. Callers may bind flags before Decode.
func NewViper(path string) (*viper.Viper, error) {
	v := viper.New()
	d := Default()
	v.SetDefault("dimension", d.Dimension)
	v.SetDefault("model", d.Model)
	v.SetDefault("adsorption", d.Adsorption)
	v.SetDefault("capacity", d.Capacity)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("bound", d.Bound)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.no_color", d.Log.NoColor)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("config: bind %s: %w", k, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	return v, nil
}

// Decode unmarshals v into a validated Config.
func Decode(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	// Unmarshal also sees unchanged flag defaults; only an explicit slack counts.
	cfg.Slack = nil
	if v.IsSet("slack") {
		s := v.GetInt("slack")
		cfg.Slack = &s
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load reads path (YAML or JSON, by extension) over the defaults and applies
// HPFOLD_* environment overrides. An empty path loads defaults and env only.
func Load(path string) (*Config, error) {
	v, err := NewViper(path)
	if err != nil {
		return nil, err
	}

	return Decode(v)
}

// Validate reports the first invalid setting, wrapped in ErrInvalid.
func (c *Config) Validate() error {
	if c.Dimension != 2 && c.Dimension != 3 {
		return fmt.Errorf("%w: dimension %d (want 2 or 3)", ErrInvalid, c.Dimension)
	}
	if c.Surface != "" {
		t, err := parseLetter(c.Surface)
		if err != nil {
			return fmt.Errorf("%w: surface: %v", ErrInvalid, err)
		}
		if t == residue.Solvent {
			return fmt.Errorf("%w: surface cannot be solvent", ErrInvalid)
		}
	}
	switch c.Model {
	case ModelHP, ModelCharged, ModelSurfaceHP:
	default:
		return fmt.Errorf("%w: model %q", ErrInvalid, c.Model)
	}
	if math.IsNaN(c.Adsorption) || math.IsInf(c.Adsorption, 0) {
		return fmt.Errorf("%w: adsorption %v", ErrInvalid, c.Adsorption)
	}
	for i, p := range c.Interactions {
		if _, err := p.entry(); err != nil {
			return fmt.Errorf("%w: interactions[%d]: %v", ErrInvalid, i, err)
		}
	}
	if c.Capacity <= 0 {
		return fmt.Errorf("%w: capacity %d", ErrInvalid, c.Capacity)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers %d", ErrInvalid, c.Workers)
	}
	if _, err := c.policy(); err != nil {
		return err
	}

	return nil
}

// Table builds the interaction table: the preset model plus overrides.
func (c *Config) Table() (*residue.Table, error) {
	var base *residue.Table
	switch c.Model {
	case ModelCharged:
		base = residue.Charged()
	case ModelSurfaceHP:
		base = residue.SurfaceHP(c.Adsorption)
	default:
		base = residue.HP()
	}
	entries := base.Entries()
	for i, p := range c.Interactions {
		e, err := p.entry()
		if err != nil {
			return nil, fmt.Errorf("%w: interactions[%d]: %v", ErrInvalid, i, err)
		}
		entries = append(entries, e)
	}
	t, err := residue.NewTable(entries...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	return t, nil
}

// FoldOptions maps the search settings onto fold options. log may be nil.
func (c *Config) FoldOptions(log logger.Logger) ([]fold.Option, error) {
	policy, err := c.policy()
	if err != nil {
		return nil, err
	}
	opts := []fold.Option{
		fold.WithDimension(c.Dimension),
		fold.WithCapacity(c.Capacity),
		fold.WithBoundPolicy(policy),
	}
	if c.Surface != "" {
		t, err := parseLetter(c.Surface)
		if err != nil {
			return nil, fmt.Errorf("%w: surface: %v", ErrInvalid, err)
		}
		opts = append(opts, fold.WithSurface(t))
	}
	if c.Workers > 0 {
		opts = append(opts, fold.WithWorkers(c.Workers))
	}
	if c.Slack != nil {
		opts = append(opts, fold.WithSlack(*c.Slack))
	}
	if log != nil {
		opts = append(opts, fold.WithLogger(log))
	}

	return opts, nil
}

// LoggerOptions maps the log section onto logger options.
func (c *Config) LoggerOptions() logger.Options {
	return logger.Options{Level: c.Log.Level, File: c.Log.File, NoColor: c.Log.NoColor}
}

// Marshal renders c as YAML.
func (c *Config) Marshal() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("config: marshal: %w", err)
	}

	return out, nil
}

func (c *Config) policy() (fold.BoundPolicy, error) {
	switch c.Bound {
	case BoundResolved, "":
		return fold.ResolvedBound, nil
	case BoundMinimal:
		return fold.MinimalBound, nil
	}

	return nil, fmt.Errorf("%w: bound %q", ErrInvalid, c.Bound)
}

func (p Pair) entry() (residue.Entry, error) {
	a, err := parseLetter(p.A)
	if err != nil {
		return residue.Entry{}, err
	}
	b, err := parseLetter(p.B)
	if err != nil {
		return residue.Entry{}, err
	}
	if math.IsNaN(p.Energy) || math.IsInf(p.Energy, 0) {
		return residue.Entry{}, fmt.Errorf("%w: %s-%s", residue.ErrBadEnergy, p.A, p.B)
	}

	return residue.Pair(a, b, p.Energy), nil
}

// parseLetter accepts exactly one residue letter; "." names the solvent.
func parseLetter(s string) (residue.Type, error) {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("%w: %q is not a single letter", residue.ErrUnknownType, s)
	}
	if s == string(residue.Solvent.Letter()) {
		return residue.Solvent, nil
	}
	r, _ := utf8.DecodeRuneInString(s)

	return residue.ParseType(r)
}
