package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/H3cth0r/stonks-data/envspec"
	"github.com/google/subcommands"
)

type envCmd struct{}

func (*envCmd) Name() string { return "env" }
func (*envCmd) Synopsis() string {
	return "constructs the analysis environment described by the workbench file"
}
func (*envCmd) Usage() string {
	return `stonks env [command [args...]]

Loads the workbench descriptor, installs any package missing from the
local prefix, and makes the environment available: without arguments it
prints 'export' lines for the shell to evaluate, with arguments it runs
the given command inside the environment.

Entering the environment is idempotent: packages already present under
the prefix are never installed again.

Usage Examples:
# Load the environment into the current shell.
$ eval "$(stonks env)"

# Run a one-off command inside the environment.
$ stonks env python3 analysis.py
`
}

func (c *envCmd) SetFlags(f *flag.FlagSet) {}

func (c *envCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	d, err := envspec.Load(*workbenchFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if _, err := d.Bootstrap(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: bootstrap failed: %v\n", err)
		return subcommands.ExitFailure
	}

	if f.NArg() == 0 {
		for _, line := range exportLines(d) {
			fmt.Println(line)
		}
		return subcommands.ExitSuccess
	}

	cmd := exec.CommandContext(ctx, f.Arg(0), f.Args()[1:]...)
	cmd.Env = d.Environ(os.Environ())
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// exportLines renders the variables the environment changes, one shell
// export per line, ready for eval.
func exportLines(d *envspec.Descriptor) []string {
	env := d.Environ(os.Environ())

	names := []string{envspec.PrefixVar}
	for _, v := range d.Paths {
		names = append(names, v.Name)
	}

	var lines []string
	seen := make(map[string]bool)
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		for _, entry := range env {
			if value, ok := strings.CutPrefix(entry, name+"="); ok {
				lines = append(lines, fmt.Sprintf("export %s=%s", name, shellQuote(value)))
				break
			}
		}
	}
	return lines
}

// shellQuote single-quotes a value for the shell.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
