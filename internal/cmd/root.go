// Package cmd implements the tmenu command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/runger/tmenu/internal/config"
	"github.com/runger/tmenu/internal/menu"
	"github.com/runger/tmenu/internal/tty"
)

// Exit codes:
//
//	0 = a value was committed and printed
//	1 = cancelled by the user
//	2 = fatal error (no terminal, bad flags, unreadable config, ...)
const (
	exitCommit = 0
	exitCancel = 1
	exitFatal  = 2
)

// errCancelled ends a run that the user cancelled.
var errCancelled = errors.New("cancelled")

// env holds the process resources a run touches.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// openTTY acquires the terminal the menu draws on.
	openTTY func(ctx context.Context, attempts int, delay time.Duration) (*os.File, error)
	// runUI runs the menu to completion on the terminal.
	runUI func(m menu.Model, t *os.File, inline bool) (menu.Model, error)
	// clipboard reads the system clipboard; nil uses the default.
	clipboard func() (string, error)
}

func defaultEnv() *env {
	return &env{
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		openTTY: openTerminal,
		runUI:   runProgram,
	}
}

// openTerminal acquires /dev/tty and checks that it can hold the menu.
func openTerminal(ctx context.Context, attempts int, delay time.Duration) (*os.File, error) {
	f, err := tty.Acquire(ctx, attempts, delay)
	if err != nil {
		return nil, err
	}
	if err := tty.CheckWidth(f); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// Run executes tmenu with args and returns the process exit code.
func Run(args []string) int {
	return run(defaultEnv(), args)
}

func run(e *env, args []string) int {
	defaults, err := config.DefaultOpts()
	if err != nil {
		fmt.Fprintf(e.stderr, "tmenu: %v\n", err)
		return exitFatal
	}

	root := newRootCmd(e)
	if len(defaults) > 0 && (len(args) == 0 || !isSubcommand(root, args[0])) {
		args = append(slices.Clone(defaults), args...)
	}
	root.SetArgs(args)

	err = root.ExecuteContext(context.Background())
	switch {
	case err == nil:
		return exitCommit
	case errors.Is(err, errCancelled):
		return exitCancel
	default:
		fmt.Fprintf(e.stderr, "tmenu: %v\n", err)
		return exitFatal
	}
}

func isSubcommand(root *cobra.Command, name string) bool {
	for _, c := range root.Commands() {
		if c.Name() == name || c.HasAlias(name) {
			return true
		}
	}
	return false
}

func newRootCmd(e *env) *cobra.Command {
	o := &options{}

	root := &cobra.Command{
		Use:   "tmenu [flags] [items...]",
		Short: "Filter lines interactively and print the selection",
		Long: `tmenu reads lines from standard input (or the items given as arguments),
shows them in a terminal menu and prints the chosen line on Enter.

Typing narrows the list. Exact matches come first, then prefix matches,
then substring matches; --fuzzy ranks subsequence matches by score.

Exit status is 0 when something was printed, 1 when the menu was
cancelled and 2 on error.

Default flags can be set in TMENU_DEFAULT_OPTS.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(c *cobra.Command, args []string) error {
			return runMenu(c.Context(), e, c, o, args)
		},
	}

	root.SetIn(e.stdin)
	root.SetOut(e.stdout)
	root.SetErr(e.stderr)

	o.bind(root)
	root.AddCommand(newVersionCmd())
	root.AddCommand(newConfigCmd(o))
	return root
}
