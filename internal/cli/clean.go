package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ChallenHB/mill/internal/store"
)

// CleanOptions holds flags for the clean command.
type CleanOptions struct {
	*RootOptions
	Database string
}

// NewCleanCommand creates the clean command.
func NewCleanCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CleanOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "clean [targets...]",
		Short: "Drop cached results",
		Long: `Delete cached results for the named target identities, or the whole
cache when none are named. The next eval re-runs the affected targets.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean(cmd, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to result cache database")

	return cmd
}

func runClean(cmd *cobra.Command, opts *CleanOptions, names []string) error {
	cfg, err := resolveConfig(opts.RootOptions, opts.Database, "")
	if err != nil {
		return WrapExitError(ExitCommandError, "load config", err)
	}

	st, err := store.Open(cfg.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "open result cache", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	if len(names) == 0 {
		if err := st.DeleteAllResults(ctx); err != nil {
			return WrapExitError(ExitCommandError, "clean cache", err)
		}
		return f.Success("cleaned all cached results")
	}

	for _, name := range names {
		if err := st.DeleteResult(ctx, name); err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("clean %s", name), err)
		}
	}
	return f.Success(fmt.Sprintf("cleaned %d cached result(s)", len(names)))
}
