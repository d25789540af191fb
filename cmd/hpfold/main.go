// Command hpfold folds HP-model polypeptides on 2D and 3D lattices.
//
// Usage:
//
//	hpfold fold HPPHPPHH --dim 3 --workers 8
//	hpfold fold HPHPPH --surface S --model surface-hp --verify
//	hpfold config --config hpfold.yaml
//	hpfold version
//
// Settings come from flags, HPFOLD_* environment variables and an optional
// YAML/JSON file, in that order of precedence.
package main

import (
	"io"
	"os"

	"github.com/fatih/color"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the command line and returns the process exit code. Cobra's
// own error printing is silenced, so failures are reported here.
func execute(args []string, out, errOut io.Writer) int {
	root := newRootCmd(out, errOut)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		color.New(color.FgRed).Fprintf(errOut, "hpfold: %v\n", err)
		return 1
	}

	return 0
}
