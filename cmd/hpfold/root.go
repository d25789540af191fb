package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/katalvlaran/hpfold/config"
	"github.com/katalvlaran/hpfold/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// app carries per-invocation state so that commands can be built and run
// repeatedly in tests.
type app struct {
	cfgFile string
	noColor bool
	out     io.Writer
	errOut  io.Writer

	v   *viper.Viper
	cfg *config.Config
	log logger.Logger
}

// flagKeys maps config keys to the flag names that may override them.
var flagKeys = map[string]string{
	"dimension":  "dim",
	"surface":    "surface",
	"model":      "model",
	"adsorption": "adsorption",
	"capacity":   "capacity",
	"workers":    "workers",
	"slack":      "slack",
	"bound":      "bound",
	"log.level":  "log-level",
	"log.file":   "log-file",
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:           "hpfold",
		Short:         "Lattice protein folding by branch and bound",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd.Flags())
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (YAML or JSON)")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("log-file", "", "also write logs to a rotating file")
	pf.BoolVar(&a.noColor, "no-color", false, "disable coloured output")

	root.AddCommand(newFoldCmd(a), newConfigCmd(a), newVersionCmd(a))

	return root
}

// load resolves the effective configuration: defaults, file, env, flags.
func (a *app) load(flags *pflag.FlagSet) error {
	if a.noColor {
		color.NoColor = true
	}
	v, err := config.NewViper(a.cfgFile)
	if err != nil {
		return err
	}
	for key, name := range flagKeys {
		if f := flags.Lookup(name); f != nil {
			if err = v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("bind --%s: %w", name, err)
			}
		}
	}
	cfg, err := config.Decode(v)
	if err != nil {
		return err
	}
	if a.noColor {
		cfg.Log.NoColor = true
	}
	lo := cfg.LoggerOptions()
	lo.Output = a.errOut

	a.v, a.cfg, a.log = v, cfg, logger.New(lo)

	return nil
}

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			out, err := a.cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = a.out.Write(out)

			return err
		},
	}
	addSearchFlags(cmd.Flags())

	return cmd
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(a.out, "hpfold %s\n", version)

			return err
		},
	}
}

// addSearchFlags registers the flags that override search settings.
// Their defaults only describe the built-in values; an unset flag never
// overrides the file or environment.
func addSearchFlags(fs *pflag.FlagSet) {
	d := config.Default()
	fs.Int("dim", d.Dimension, "lattice dimension (2 or 3)")
	fs.String("surface", d.Surface, "surface residue letter; empty for free space")
	fs.String("model", d.Model, "interaction model (hp, charged, surface-hp)")
	fs.Float64("adsorption", d.Adsorption, "H-surface energy of the surface-hp model")
	fs.Int("capacity", d.Capacity, "total queue capacity")
	fs.Int("workers", d.Workers, "worker count; 0 means one per CPU")
	fs.Int("slack", 0, "compactness slack; negative disables (default per geometry)")
	fs.String("bound", d.Bound, "lower-bound policy (resolved, minimal)")
}
