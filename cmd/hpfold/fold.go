package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/katalvlaran/hpfold/fold"
	"github.com/katalvlaran/hpfold/logger"
	"github.com/katalvlaran/hpfold/polypeptide"
	"github.com/katalvlaran/hpfold/residue"
	"github.com/spf13/cobra"
)

// errMismatch is returned by --verify when the search missed the optimum.
var errMismatch = errors.New("branch-and-bound energy differs from exhaustive enumeration")

func newFoldCmd(a *app) *cobra.Command {
	var (
		verify  bool
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "fold SEQUENCE",
		Short: "Find a minimum-energy folding of a residue sequence",
		Long: `Fold a chain written in one-letter codes:
  H hydrophobic, P polar, + positive, - negative, N neutral.

Example:
  hpfold fold HPHPPHHPHPPHPHHPPHPH --dim 3 --workers 8`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			return a.runFold(ctx, args[0], verify)
		},
	}
	addSearchFlags(cmd.Flags())
	cmd.Flags().BoolVar(&verify, "verify", false, "check the result against exhaustive enumeration (short chains only)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "abort the search after this long (0 = no limit)")

	return cmd
}

func (a *app) runFold(ctx context.Context, seq string, verify bool) error {
	table, err := a.cfg.Table()
	if err != nil {
		return err
	}
	types, err := residue.ParseSequence(seq)
	if err != nil {
		return fmt.Errorf("sequence: %w", err)
	}
	chain, err := polypeptide.New(types, table)
	if err != nil {
		return err
	}
	opts, err := a.cfg.FoldOptions(a.log)
	if err != nil {
		return err
	}

	res, err := fold.Solve(ctx, chain, opts...)
	if err != nil {
		a.log.Error("fold failed", logger.WithField("error", err.Error()))
		return err
	}
	render(a.out, res)

	if !verify {
		return nil
	}
	want, err := fold.Exhaustive(ctx, chain, opts...)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	if want.Energy != res.Energy {
		fmt.Fprintf(a.out, "%s exhaustive %.2f, search %.2f\n", color.RedString("verify:"), want.Energy, res.Energy)
		return errMismatch
	}
	fmt.Fprintf(a.out, "%s optimal (%d walks enumerated)\n", color.GreenString("verify:"), want.Stats.Completions)

	return nil
}
