// Package cli is the pinmap command tree.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/five82/pinmap/internal/app"
	"github.com/five82/pinmap/internal/state"
)

const appName = "pinmap"

// sessionFlags are the persistent flags every command opens a session with.
type sessionFlags struct {
	configPath   string
	prefsPath    string
	storeBackend string
	storePath    string
}

func (f *sessionFlags) bind(fs *pflag.FlagSet) {
	fs.StringVar(&f.configPath, "config", "", "config file (default ~/.config/pinmap/config.toml)")
	fs.StringVar(&f.prefsPath, "prefs", "", "preferences file (default ~/.config/pinmap/prefs.toml)")
	fs.StringVar(&f.storeBackend, "store-backend", "", "override store backend: json or bolt")
	fs.StringVar(&f.storePath, "store-path", "", "override store location")
}

func (f *sessionFlags) options() app.Options {
	return app.Options{
		ConfigPath:   f.configPath,
		PrefsPath:    f.prefsPath,
		StoreBackend: f.storeBackend,
		StorePath:    f.storePath,
	}
}

// NewRootCommand builds the command tree. Running it without a subcommand
// starts the map UI.
func NewRootCommand() *cobra.Command {
	flags := &sessionFlags{}

	root := &cobra.Command{
		Use:   appName,
		Short: "Drop, annotate and browse map pins",
		Long: `pinmap keeps a list of geographic pins, each with an address looked up
from OpenStreetMap and free-form remarks. Run it without arguments for the
terminal map, or use the subcommands to script the same collection.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), flags.options())
		},
	}
	flags.bind(root.PersistentFlags())

	root.AddCommand(
		newTUICmd(flags),
		newListCmd(flags),
		newAddCmd(flags),
		newRemarkCmd(flags),
		newRmCmd(flags),
	)
	return root
}

// Execute runs the command tree and reports errors on stderr. It returns the
// process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", appName, err)
		return 1
	}
	return 0
}

func newTUICmd(flags *sessionFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the terminal map (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), flags.options())
		},
	}
}

// withSession opens a session for the duration of fn.
func withSession(flags *sessionFlags, fn func(*app.Session) error) error {
	s, err := app.Open(flags.options())
	if err != nil {
		return err
	}
	runErr := fn(s)
	if err := s.Close(); err != nil && runErr == nil {
		return fmt.Errorf("close session: %w", err)
	}
	return runErr
}

// warnIfDegraded tells the user the last write did not reach the store.
func warnIfDegraded(cmd *cobra.Command, repo *state.Repository) {
	snap := repo.Snapshot()
	if !snap.Degraded() {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "warning: change kept in memory only, save failed: %v\n", snap.LastSaveError)
}
